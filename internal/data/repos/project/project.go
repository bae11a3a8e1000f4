package project

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novahq/taskhub-backend/internal/data/records"
	"github.com/novahq/taskhub-backend/internal/platform/logger"
)

type ProjectRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rec *records.ProjectRecord) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*records.ProjectRecord, error)
	ListByTeam(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*records.ProjectRecord, error)
	CountByTeamID(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) (int64, error)
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*records.ProjectRecord, error)
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	repoLog := baseLog.With("repo", "ProjectRepo")
	return &projectRepo{db: db, log: repoLog}
}

func (pr *projectRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return pr.db
}

func (pr *projectRepo) Create(ctx context.Context, tx *gorm.DB, rec *records.ProjectRecord) error {
	return pr.conn(tx).WithContext(ctx).Create(rec).Error
}

func (pr *projectRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*records.ProjectRecord, error) {
	var rec records.ProjectRecord
	if err := pr.conn(tx).WithContext(ctx).
		Where("id = ?", id).
		First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (pr *projectRepo) ListByTeam(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*records.ProjectRecord, error) {
	var results []*records.ProjectRecord
	if err := pr.conn(tx).WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *projectRepo) CountByTeamID(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) (int64, error) {
	var count int64
	if err := pr.conn(tx).WithContext(ctx).
		Model(&records.ProjectRecord{}).
		Where("team_id = ?", teamID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (pr *projectRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*records.ProjectRecord, error) {
	var results []*records.ProjectRecord
	q := pr.conn(tx).WithContext(ctx).Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
