package services

import (
	"context"
	"time"

	dataagg "github.com/novahq/taskhub-backend/internal/data/aggregates"
	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/project"
	"github.com/novahq/taskhub-backend/internal/domain/user"
	"github.com/novahq/taskhub-backend/internal/events/bus"
	"github.com/novahq/taskhub-backend/internal/observability"
	"github.com/novahq/taskhub-backend/internal/platform/logger"
)

type ProjectService interface {
	Create(ctx context.Context, name, description string, teamID ids.TeamID, plannedEndDate *time.Time) (project.Snapshot, error)
	Get(ctx context.Context, id ids.ProjectID) (project.Snapshot, error)
	ListByTeam(ctx context.Context, teamID ids.TeamID) ([]project.Snapshot, error)
	UpdateDetails(ctx context.Context, id ids.ProjectID, name, description string) (project.Snapshot, error)
	SetPlannedEndDate(ctx context.Context, id ids.ProjectID, plannedEndDate *time.Time) (project.Snapshot, error)
	Start(ctx context.Context, id ids.ProjectID) (project.Snapshot, error)
	PutOnHold(ctx context.Context, id ids.ProjectID) (project.Snapshot, error)
	Resume(ctx context.Context, id ids.ProjectID) (project.Snapshot, error)
	Complete(ctx context.Context, id ids.ProjectID) (project.Snapshot, error)
	Cancel(ctx context.Context, id ids.ProjectID) (project.Snapshot, error)
}

type projectService struct {
	log        *logger.Logger
	projects   *dataagg.ProjectStore
	teams      *dataagg.TeamStore
	users      *dataagg.UserStore
	dispatcher *eventDispatcher
}

func NewProjectService(log *logger.Logger, projects *dataagg.ProjectStore, teams *dataagg.TeamStore, users *dataagg.UserStore, b bus.Bus, metrics *observability.Metrics) ProjectService {
	return &projectService{
		log:        log.With("service", "ProjectService"),
		projects:   projects,
		teams:      teams,
		users:      users,
		dispatcher: newEventDispatcher(log, b, metrics),
	}
}

// Create opens a project in Planning for an existing team.
func (ps *projectService) Create(ctx context.Context, name, description string, teamID ids.TeamID, plannedEndDate *time.Time) (project.Snapshot, error) {
	const op = "project.create"
	actor, err := loadActor(ctx, ps.users)
	if err != nil {
		return project.Snapshot{}, err
	}
	if _, err := ps.teams.Load(ctx, teamID); err != nil {
		return project.Snapshot{}, err
	}
	p, err := project.New(name, description, teamID, plannedEndDate, actor)
	if err != nil {
		return project.Snapshot{}, dataagg.MapError(op, err)
	}
	snap := p.Snapshot()
	if err := ps.projects.Create(ctx, snap); err != nil {
		return project.Snapshot{}, err
	}
	ps.dispatcher.dispatch(ctx, p)
	ps.log.Info("project created", "project_id", snap.ID, "team_id", teamID)
	return snap, nil
}

func (ps *projectService) Get(ctx context.Context, id ids.ProjectID) (project.Snapshot, error) {
	loaded, err := ps.projects.Load(ctx, id)
	if err != nil {
		return project.Snapshot{}, err
	}
	return loaded.Snapshot, nil
}

func (ps *projectService) ListByTeam(ctx context.Context, teamID ids.TeamID) ([]project.Snapshot, error) {
	return ps.projects.ListByTeam(ctx, teamID)
}

func (ps *projectService) UpdateDetails(ctx context.Context, id ids.ProjectID, name, description string) (project.Snapshot, error) {
	return ps.mutate(ctx, "project.update_details", id, func(p *project.Project, actor *user.User) error {
		return p.UpdateDetails(name, description, actor)
	})
}

func (ps *projectService) SetPlannedEndDate(ctx context.Context, id ids.ProjectID, plannedEndDate *time.Time) (project.Snapshot, error) {
	return ps.mutate(ctx, "project.set_planned_end_date", id, func(p *project.Project, actor *user.User) error {
		return p.SetPlannedEndDate(plannedEndDate, actor)
	})
}

func (ps *projectService) Start(ctx context.Context, id ids.ProjectID) (project.Snapshot, error) {
	return ps.mutate(ctx, "project.start", id, func(p *project.Project, actor *user.User) error {
		return p.Start(actor)
	})
}

func (ps *projectService) PutOnHold(ctx context.Context, id ids.ProjectID) (project.Snapshot, error) {
	return ps.mutate(ctx, "project.put_on_hold", id, func(p *project.Project, actor *user.User) error {
		return p.PutOnHold(actor)
	})
}

func (ps *projectService) Resume(ctx context.Context, id ids.ProjectID) (project.Snapshot, error) {
	return ps.mutate(ctx, "project.resume", id, func(p *project.Project, actor *user.User) error {
		return p.Resume(actor)
	})
}

// Complete checks for remaining active tasks before the transition runs.
func (ps *projectService) Complete(ctx context.Context, id ids.ProjectID) (project.Snapshot, error) {
	hasActive, err := ps.projects.HasActiveTasks(ctx, id)
	if err != nil {
		return project.Snapshot{}, err
	}
	return ps.mutate(ctx, "project.complete", id, func(p *project.Project, actor *user.User) error {
		return p.Complete(actor, hasActive)
	})
}

func (ps *projectService) Cancel(ctx context.Context, id ids.ProjectID) (project.Snapshot, error) {
	return ps.mutate(ctx, "project.cancel", id, func(p *project.Project, actor *user.User) error {
		return p.Cancel(actor)
	})
}

func (ps *projectService) mutate(ctx context.Context, op string, id ids.ProjectID, fn func(p *project.Project, actor *user.User) error) (project.Snapshot, error) {
	actor, err := loadActor(ctx, ps.users)
	if err != nil {
		return project.Snapshot{}, err
	}
	loaded, err := ps.projects.Load(ctx, id)
	if err != nil {
		return project.Snapshot{}, err
	}
	p := project.FromSnapshot(loaded.Snapshot)
	if err := fn(p, actor); err != nil {
		return project.Snapshot{}, dataagg.MapError(op, err)
	}
	snap := p.Snapshot()
	if err := ps.projects.Save(ctx, snap, loaded.Version); err != nil {
		return project.Snapshot{}, err
	}
	ps.dispatcher.dispatch(ctx, p)
	return snap, nil
}
