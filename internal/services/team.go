package services

import (
	"context"

	dataagg "github.com/novahq/taskhub-backend/internal/data/aggregates"
	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/team"
	"github.com/novahq/taskhub-backend/internal/domain/user"
	"github.com/novahq/taskhub-backend/internal/events/bus"
	"github.com/novahq/taskhub-backend/internal/observability"
	"github.com/novahq/taskhub-backend/internal/platform/logger"
)

type TeamService interface {
	Create(ctx context.Context, name, description string) (team.Snapshot, error)
	Get(ctx context.Context, id ids.TeamID) (team.Snapshot, error)
	List(ctx context.Context, limit, offset int) ([]team.Snapshot, error)
	UpdateDetails(ctx context.Context, id ids.TeamID, name, description string) (team.Snapshot, error)
	AddMember(ctx context.Context, id ids.TeamID, userID ids.UserID, role user.TeamRole) (team.Snapshot, error)
	RemoveMember(ctx context.Context, id ids.TeamID, userID ids.UserID) (team.Snapshot, error)
	ChangeMemberRole(ctx context.Context, id ids.TeamID, userID ids.UserID, role user.TeamRole) (team.Snapshot, error)
	Delete(ctx context.Context, id ids.TeamID) error
}

type teamService struct {
	log        *logger.Logger
	teams      *dataagg.TeamStore
	users      *dataagg.UserStore
	cache      UserCacheInvalidator
	dispatcher *eventDispatcher
}

func NewTeamService(log *logger.Logger, teams *dataagg.TeamStore, users *dataagg.UserStore, cache UserCacheInvalidator, b bus.Bus, metrics *observability.Metrics) TeamService {
	return &teamService{
		log:        log.With("service", "TeamService"),
		teams:      teams,
		users:      users,
		cache:      cache,
		dispatcher: newEventDispatcher(log, b, metrics),
	}
}

func (ts *teamService) Create(ctx context.Context, name, description string) (team.Snapshot, error) {
	const op = "team.create"
	actor, err := loadActor(ctx, ts.users)
	if err != nil {
		return team.Snapshot{}, err
	}
	t, err := team.New(name, description, actor)
	if err != nil {
		return team.Snapshot{}, dataagg.MapError(op, err)
	}
	snap := t.Snapshot()
	if err := ts.teams.Create(ctx, snap); err != nil {
		return team.Snapshot{}, err
	}
	ts.dispatcher.dispatch(ctx, t)
	ts.log.Info("team created", "team_id", snap.ID, "name", snap.Name)
	return snap, nil
}

func (ts *teamService) Get(ctx context.Context, id ids.TeamID) (team.Snapshot, error) {
	loaded, err := ts.teams.Load(ctx, id)
	if err != nil {
		return team.Snapshot{}, err
	}
	return loaded.Snapshot, nil
}

func (ts *teamService) List(ctx context.Context, limit, offset int) ([]team.Snapshot, error) {
	return ts.teams.List(ctx, limit, offset)
}

func (ts *teamService) UpdateDetails(ctx context.Context, id ids.TeamID, name, description string) (team.Snapshot, error) {
	return ts.mutate(ctx, "team.update_details", id, func(t *team.Team, actor *user.User) error {
		return t.UpdateDetails(name, description, actor)
	})
}

// AddMember loads the candidate as a full aggregate so roster rules can see
// their current status.
func (ts *teamService) AddMember(ctx context.Context, id ids.TeamID, userID ids.UserID, role user.TeamRole) (team.Snapshot, error) {
	candidate, err := ts.users.Load(ctx, userID)
	if err != nil {
		return team.Snapshot{}, err
	}
	snap, err := ts.mutate(ctx, "team.add_member", id, func(t *team.Team, actor *user.User) error {
		return t.AddMember(user.FromSnapshot(candidate.Snapshot), role, actor)
	})
	if err != nil {
		return team.Snapshot{}, err
	}
	// the membership view attached at user load time changed
	if ts.cache != nil {
		ts.cache.Invalidate(ctx, userID.UUID())
	}
	return snap, nil
}

func (ts *teamService) RemoveMember(ctx context.Context, id ids.TeamID, userID ids.UserID) (team.Snapshot, error) {
	snap, err := ts.mutate(ctx, "team.remove_member", id, func(t *team.Team, actor *user.User) error {
		return t.RemoveMember(userID, actor)
	})
	if err != nil {
		return team.Snapshot{}, err
	}
	if ts.cache != nil {
		ts.cache.Invalidate(ctx, userID.UUID())
	}
	return snap, nil
}

func (ts *teamService) ChangeMemberRole(ctx context.Context, id ids.TeamID, userID ids.UserID, role user.TeamRole) (team.Snapshot, error) {
	snap, err := ts.mutate(ctx, "team.change_member_role", id, func(t *team.Team, actor *user.User) error {
		return t.ChangeMemberRole(userID, role, actor)
	})
	if err != nil {
		return team.Snapshot{}, err
	}
	if ts.cache != nil {
		ts.cache.Invalidate(ctx, userID.UUID())
	}
	return snap, nil
}

// Delete removes a team once it owns no projects. Roster rows go with it.
func (ts *teamService) Delete(ctx context.Context, id ids.TeamID) error {
	const op = "team.delete"
	actor, err := loadActor(ctx, ts.users)
	if err != nil {
		return err
	}
	loaded, err := ts.teams.Load(ctx, id)
	if err != nil {
		return err
	}
	t := team.FromSnapshot(loaded.Snapshot)
	owned, err := ts.teams.OwnedProjectCount(ctx, id)
	if err != nil {
		return err
	}
	if err := t.EnsureDeletable(owned, actor); err != nil {
		return dataagg.MapError(op, err)
	}
	if err := ts.teams.Delete(ctx, id); err != nil {
		return err
	}
	if ts.cache != nil {
		for _, m := range loaded.Snapshot.Members {
			ts.cache.Invalidate(ctx, m.UserID.UUID())
		}
	}
	ts.log.Info("team deleted", "team_id", id)
	return nil
}

func (ts *teamService) mutate(ctx context.Context, op string, id ids.TeamID, fn func(t *team.Team, actor *user.User) error) (team.Snapshot, error) {
	actor, err := loadActor(ctx, ts.users)
	if err != nil {
		return team.Snapshot{}, err
	}
	loaded, err := ts.teams.Load(ctx, id)
	if err != nil {
		return team.Snapshot{}, err
	}
	t := team.FromSnapshot(loaded.Snapshot)
	if err := fn(t, actor); err != nil {
		return team.Snapshot{}, dataagg.MapError(op, err)
	}
	snap := t.Snapshot()
	if err := ts.teams.Save(ctx, snap, loaded.Version); err != nil {
		return team.Snapshot{}, err
	}
	ts.dispatcher.dispatch(ctx, t)
	return snap, nil
}
