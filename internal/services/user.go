package services

import (
	"context"

	"github.com/google/uuid"

	dataagg "github.com/novahq/taskhub-backend/internal/data/aggregates"
	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/policy"
	"github.com/novahq/taskhub-backend/internal/domain/user"
	"github.com/novahq/taskhub-backend/internal/domain/validate"
	"github.com/novahq/taskhub-backend/internal/events/bus"
	"github.com/novahq/taskhub-backend/internal/observability"
	"github.com/novahq/taskhub-backend/internal/platform/logger"
)

// UserCacheInvalidator drops a cached user row after a write commits. Nil is
// fine when no cache layer is wired.
type UserCacheInvalidator interface {
	Invalidate(ctx context.Context, id uuid.UUID)
}

type UserService interface {
	Register(ctx context.Context, name, email, password string, role user.Role) (user.Snapshot, error)
	Get(ctx context.Context, id ids.UserID) (user.Snapshot, error)
	GetMe(ctx context.Context) (user.Snapshot, error)
	List(ctx context.Context, limit, offset int) ([]user.Snapshot, error)
	UpdateProfile(ctx context.Context, id ids.UserID, name, email string) (user.Snapshot, error)
	ChangeRole(ctx context.Context, id ids.UserID, role user.Role) (user.Snapshot, error)
	Activate(ctx context.Context, id ids.UserID) (user.Snapshot, error)
	Deactivate(ctx context.Context, id ids.UserID) (user.Snapshot, error)
	Suspend(ctx context.Context, id ids.UserID) (user.Snapshot, error)
}

type userService struct {
	log        *logger.Logger
	users      *dataagg.UserStore
	cache      UserCacheInvalidator
	dispatcher *eventDispatcher
}

func NewUserService(log *logger.Logger, users *dataagg.UserStore, cache UserCacheInvalidator, b bus.Bus, metrics *observability.Metrics) UserService {
	return &userService{
		log:        log.With("service", "UserService"),
		users:      users,
		cache:      cache,
		dispatcher: newEventDispatcher(log, b, metrics),
	}
}

// Register creates a new user account. Creation is restricted to admins.
func (us *userService) Register(ctx context.Context, name, email, password string, role user.Role) (user.Snapshot, error) {
	const op = "user.register"
	actor, err := loadActor(ctx, us.users)
	if err != nil {
		return user.Snapshot{}, err
	}
	if !policy.CanCreateUsers(actor) {
		return user.Snapshot{}, dataagg.MapError(op, validate.Permission("only admins may create users"))
	}
	u, err := user.New(name, email, role, actor.ID())
	if err != nil {
		return user.Snapshot{}, dataagg.MapError(op, err)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return user.Snapshot{}, dataagg.MapError(op, validate.Argument("password", err.Error()))
	}
	snap := u.Snapshot()
	if err := us.users.Create(ctx, snap, hash); err != nil {
		return user.Snapshot{}, err
	}
	us.dispatcher.dispatch(ctx, u)
	us.log.Info("user registered", "user_id", snap.ID, "role", snap.Role)
	return snap, nil
}

func (us *userService) Get(ctx context.Context, id ids.UserID) (user.Snapshot, error) {
	loaded, err := us.users.Load(ctx, id)
	if err != nil {
		return user.Snapshot{}, err
	}
	return loaded.Snapshot, nil
}

func (us *userService) GetMe(ctx context.Context) (user.Snapshot, error) {
	actor, err := loadActor(ctx, us.users)
	if err != nil {
		return user.Snapshot{}, err
	}
	return actor.Snapshot(), nil
}

func (us *userService) List(ctx context.Context, limit, offset int) ([]user.Snapshot, error) {
	return us.users.List(ctx, limit, offset)
}

func (us *userService) UpdateProfile(ctx context.Context, id ids.UserID, name, email string) (user.Snapshot, error) {
	return us.mutate(ctx, "user.update_profile", id, func(target, actor *user.User) error {
		return target.UpdateProfile(name, email, actor)
	})
}

func (us *userService) ChangeRole(ctx context.Context, id ids.UserID, role user.Role) (user.Snapshot, error) {
	return us.mutate(ctx, "user.change_role", id, func(target, actor *user.User) error {
		return target.ChangeRole(role, actor)
	})
}

func (us *userService) Activate(ctx context.Context, id ids.UserID) (user.Snapshot, error) {
	return us.mutate(ctx, "user.activate", id, func(target, actor *user.User) error {
		return target.Activate(actor)
	})
}

func (us *userService) Deactivate(ctx context.Context, id ids.UserID) (user.Snapshot, error) {
	return us.mutate(ctx, "user.deactivate", id, func(target, actor *user.User) error {
		return target.Deactivate(actor)
	})
}

func (us *userService) Suspend(ctx context.Context, id ids.UserID) (user.Snapshot, error) {
	return us.mutate(ctx, "user.suspend", id, func(target, actor *user.User) error {
		return target.Suspend(actor)
	})
}

// mutate is the shared write path: load target and actor, run the behavior,
// save under the version guard, drop the cached row and publish events.
func (us *userService) mutate(ctx context.Context, op string, id ids.UserID, fn func(target, actor *user.User) error) (user.Snapshot, error) {
	actor, err := loadActor(ctx, us.users)
	if err != nil {
		return user.Snapshot{}, err
	}
	loaded, err := us.users.Load(ctx, id)
	if err != nil {
		return user.Snapshot{}, err
	}
	target := user.FromSnapshot(loaded.Snapshot)
	if err := fn(target, actor); err != nil {
		return user.Snapshot{}, dataagg.MapError(op, err)
	}
	snap := target.Snapshot()
	if err := us.users.Save(ctx, snap, loaded.Version); err != nil {
		return user.Snapshot{}, err
	}
	if us.cache != nil {
		us.cache.Invalidate(ctx, id.UUID())
	}
	us.dispatcher.dispatch(ctx, target)
	return snap, nil
}
