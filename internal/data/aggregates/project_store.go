package aggregates

import (
	"context"

	"github.com/novahq/taskhub-backend/internal/data/records"
	"github.com/novahq/taskhub-backend/internal/data/repos"
	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/project"
	"github.com/novahq/taskhub-backend/internal/platform/dbctx"
)

type LoadedProject struct {
	Snapshot project.Snapshot
	Version  int
}

type ProjectStore struct {
	deps     BaseDeps
	projects repos.ProjectRepo
	tasks    repos.TaskRepo
}

func NewProjectStore(deps BaseDeps, projects repos.ProjectRepo, tasks repos.TaskRepo) *ProjectStore {
	return &ProjectStore{deps: deps.withDefaults(), projects: projects, tasks: tasks}
}

func (s *ProjectStore) Load(ctx context.Context, id ids.ProjectID) (*LoadedProject, error) {
	const op = "project.load"
	rec, err := s.projects.GetByID(ctx, nil, id.UUID())
	if err != nil {
		return nil, MapError(op, err)
	}
	return &LoadedProject{Snapshot: rec.ToSnapshot(), Version: rec.Version}, nil
}

// HasActiveTasks resolves the active-task gate for project completion.
func (s *ProjectStore) HasActiveTasks(ctx context.Context, id ids.ProjectID) (bool, error) {
	count, err := s.tasks.CountActiveByProjectID(ctx, nil, id.UUID())
	if err != nil {
		return false, MapError("project.active_tasks", err)
	}
	return count > 0, nil
}

func (s *ProjectStore) ListByTeam(ctx context.Context, teamID ids.TeamID) ([]project.Snapshot, error) {
	rows, err := s.projects.ListByTeam(ctx, nil, teamID.UUID())
	if err != nil {
		return nil, MapError("project.list_by_team", err)
	}
	out := make([]project.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToSnapshot())
	}
	return out, nil
}

func (s *ProjectStore) Create(ctx context.Context, snap project.Snapshot) error {
	return ExecuteWrite(ctx, s.deps, "project.create", func(dbc dbctx.Context) error {
		rec := records.ProjectRecordFrom(snap, 0)
		return s.projects.Create(dbc.Ctx, dbc.Tx, &rec)
	})
}

func (s *ProjectStore) Save(ctx context.Context, snap project.Snapshot, expectedVersion int) error {
	return ExecuteWrite(ctx, s.deps, "project.save", func(dbc dbctx.Context) error {
		updates := map[string]any{
			"name":             snap.Name,
			"description":      snap.Description,
			"status":           snap.Status.String(),
			"start_date":       snap.StartDate,
			"end_date":         snap.EndDate,
			"planned_end_date": snap.PlannedEndDate,
			"updated_at":       snap.UpdatedAt,
		}
		if snap.UpdatedBy != nil {
			updates["updated_by"] = snap.UpdatedBy.UUID()
		}
		ok, err := s.deps.CASGuard.UpdateByVersion(dbc, records.ProjectRecord{}.TableName(), snap.ID.UUID(), expectedVersion, updates)
		if err != nil {
			return err
		}
		return RequireCASSuccess(ok, "project was modified concurrently")
	})
}
