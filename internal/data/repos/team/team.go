package team

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novahq/taskhub-backend/internal/data/records"
	"github.com/novahq/taskhub-backend/internal/platform/logger"
)

type TeamRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rec *records.TeamRecord) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*records.TeamRecord, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*records.TeamRecord, error)
	ReplaceMembers(ctx context.Context, tx *gorm.DB, teamID uuid.UUID, members []records.TeamMemberRecord) error
	ListMembershipsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*records.TeamMemberRecord, error)
}

type teamRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTeamRepo(db *gorm.DB, baseLog *logger.Logger) TeamRepo {
	repoLog := baseLog.With("repo", "TeamRepo")
	return &teamRepo{db: db, log: repoLog}
}

func (tr *teamRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return tr.db
}

func (tr *teamRepo) Create(ctx context.Context, tx *gorm.DB, rec *records.TeamRecord) error {
	return tr.conn(tx).WithContext(ctx).Create(rec).Error
}

func (tr *teamRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*records.TeamRecord, error) {
	var rec records.TeamRecord
	if err := tr.conn(tx).WithContext(ctx).
		Preload("Members").
		Where("id = ?", id).
		First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (tr *teamRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	conn := tr.conn(tx).WithContext(ctx)
	if err := conn.Where("team_id = ?", id).Delete(&records.TeamMemberRecord{}).Error; err != nil {
		return err
	}
	return conn.Where("id = ?", id).Delete(&records.TeamRecord{}).Error
}

func (tr *teamRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*records.TeamRecord, error) {
	var results []*records.TeamRecord
	q := tr.conn(tx).WithContext(ctx).Preload("Members").Order("created_at ASC")
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

// ReplaceMembers rewrites the roster rows for a team in one shot. Always
// called inside the aggregate write transaction.
func (tr *teamRepo) ReplaceMembers(ctx context.Context, tx *gorm.DB, teamID uuid.UUID, members []records.TeamMemberRecord) error {
	conn := tr.conn(tx).WithContext(ctx)
	if err := conn.Where("team_id = ?", teamID).Delete(&records.TeamMemberRecord{}).Error; err != nil {
		return err
	}
	if len(members) == 0 {
		return nil
	}
	return conn.Create(&members).Error
}

func (tr *teamRepo) ListMembershipsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*records.TeamMemberRecord, error) {
	var results []*records.TeamMemberRecord
	if err := tr.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
