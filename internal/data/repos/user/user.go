package user

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novahq/taskhub-backend/internal/data/records"
	"github.com/novahq/taskhub-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rec *records.UserRecord) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*records.UserRecord, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*records.UserRecord, error)
	EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*records.UserRecord, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return ur.db
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, rec *records.UserRecord) error {
	return ur.conn(tx).WithContext(ctx).Create(rec).Error
}

func (ur *userRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*records.UserRecord, error) {
	var rec records.UserRecord
	if err := ur.conn(tx).WithContext(ctx).
		Where("id = ?", id).
		First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (ur *userRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*records.UserRecord, error) {
	var rec records.UserRecord
	if err := ur.conn(tx).WithContext(ctx).
		Where("email = ?", email).
		First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (ur *userRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	var count int64
	if err := ur.conn(tx).WithContext(ctx).
		Model(&records.UserRecord{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *userRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*records.UserRecord, error) {
	var results []*records.UserRecord
	q := ur.conn(tx).WithContext(ctx).Order("created_at ASC")
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
