// Package cache provides a redis read-through layer over the user repository.
// Only single-row lookups are cached; writes invalidate the key explicitly.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/novahq/taskhub-backend/internal/data/records"
	"github.com/novahq/taskhub-backend/internal/data/repos"
	"github.com/novahq/taskhub-backend/internal/platform/logger"
)

const userKeyPrefix = "taskhub:user:"

type CachedUserRepo struct {
	inner repos.UserRepo
	rdb   *goredis.Client
	log   *logger.Logger
	ttl   time.Duration
}

func NewCachedUserRepo(inner repos.UserRepo, rdb *goredis.Client, log *logger.Logger, ttl time.Duration) *CachedUserRepo {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedUserRepo{
		inner: inner,
		rdb:   rdb,
		log:   log.With("repo", "CachedUserRepo"),
		ttl:   ttl,
	}
}

func userKey(id uuid.UUID) string { return userKeyPrefix + id.String() }

// GetByID serves from redis when possible. Transactional reads bypass the
// cache so a write path never observes a stale row.
func (c *CachedUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*records.UserRecord, error) {
	if tx != nil || c.rdb == nil {
		return c.inner.GetByID(ctx, tx, id)
	}
	raw, err := c.rdb.Get(ctx, userKey(id)).Bytes()
	if err == nil {
		var rec records.UserRecord
		if jsonErr := json.Unmarshal(raw, &rec); jsonErr == nil {
			return &rec, nil
		}
		c.log.Warn("dropping undecodable cached user", "user_id", id)
		_ = c.rdb.Del(ctx, userKey(id)).Err()
	} else if err != goredis.Nil {
		c.log.Warn("user cache read failed", "error", err)
	}

	rec, err := c.inner.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if raw, marshalErr := json.Marshal(rec); marshalErr == nil {
		if setErr := c.rdb.Set(ctx, userKey(id), raw, c.ttl).Err(); setErr != nil {
			c.log.Warn("user cache write failed", "error", setErr)
		}
	}
	return rec, nil
}

func (c *CachedUserRepo) Create(ctx context.Context, tx *gorm.DB, rec *records.UserRecord) error {
	return c.inner.Create(ctx, tx, rec)
}

func (c *CachedUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*records.UserRecord, error) {
	return c.inner.GetByEmail(ctx, tx, email)
}

func (c *CachedUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	return c.inner.EmailExists(ctx, tx, email)
}

func (c *CachedUserRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*records.UserRecord, error) {
	return c.inner.List(ctx, tx, limit, offset)
}

// Invalidate drops the cached row after a successful write.
func (c *CachedUserRepo) Invalidate(ctx context.Context, id uuid.UUID) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, userKey(id)).Err(); err != nil {
		c.log.Warn("user cache invalidation failed", "error", err, "user_id", id)
	}
}
