package task

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novahq/taskhub-backend/internal/data/records"
	"github.com/novahq/taskhub-backend/internal/platform/logger"
)

// activeStatuses are the non-terminal task statuses.
var activeStatuses = []string{"todo", "in_progress", "in_review"}

type TaskRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rec *records.TaskRecord) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*records.TaskRecord, error)
	ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*records.TaskRecord, error)
	ListSubtasks(ctx context.Context, tx *gorm.DB, parentID uuid.UUID) ([]*records.TaskRecord, error)
	ListByAssignee(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*records.TaskRecord, error)
	CountActiveByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int64, error)
}

type taskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	repoLog := baseLog.With("repo", "TaskRepo")
	return &taskRepo{db: db, log: repoLog}
}

func (tr *taskRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return tr.db
}

func (tr *taskRepo) Create(ctx context.Context, tx *gorm.DB, rec *records.TaskRecord) error {
	return tr.conn(tx).WithContext(ctx).Create(rec).Error
}

func (tr *taskRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*records.TaskRecord, error) {
	var rec records.TaskRecord
	if err := tr.conn(tx).WithContext(ctx).
		Where("id = ?", id).
		First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (tr *taskRepo) ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*records.TaskRecord, error) {
	var results []*records.TaskRecord
	if err := tr.conn(tx).WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *taskRepo) ListSubtasks(ctx context.Context, tx *gorm.DB, parentID uuid.UUID) ([]*records.TaskRecord, error) {
	var results []*records.TaskRecord
	if err := tr.conn(tx).WithContext(ctx).
		Where("parent_task_id = ?", parentID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *taskRepo) ListByAssignee(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*records.TaskRecord, error) {
	var results []*records.TaskRecord
	if err := tr.conn(tx).WithContext(ctx).
		Where("assigned_user_id = ?", userID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// CountActiveByProjectID counts tasks in a non-terminal status; feeds the
// active-task gate on project completion.
func (tr *taskRepo) CountActiveByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int64, error) {
	var count int64
	if err := tr.conn(tx).WithContext(ctx).
		Model(&records.TaskRecord{}).
		Where("project_id = ? AND status IN ?", projectID, activeStatuses).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
