package aggregates

import (
	"context"

	"github.com/novahq/taskhub-backend/internal/data/records"
	"github.com/novahq/taskhub-backend/internal/data/repos"
	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/team"
	"github.com/novahq/taskhub-backend/internal/platform/dbctx"
)

type LoadedTeam struct {
	Snapshot team.Snapshot
	Version  int
}

type TeamStore struct {
	deps     BaseDeps
	teams    repos.TeamRepo
	projects repos.ProjectRepo
}

func NewTeamStore(deps BaseDeps, teams repos.TeamRepo, projects repos.ProjectRepo) *TeamStore {
	return &TeamStore{deps: deps.withDefaults(), teams: teams, projects: projects}
}

func (s *TeamStore) Load(ctx context.Context, id ids.TeamID) (*LoadedTeam, error) {
	const op = "team.load"
	rec, err := s.teams.GetByID(ctx, nil, id.UUID())
	if err != nil {
		return nil, MapError(op, err)
	}
	return &LoadedTeam{Snapshot: rec.ToSnapshot(), Version: rec.Version}, nil
}

// OwnedProjectCount feeds the deletability check.
func (s *TeamStore) OwnedProjectCount(ctx context.Context, id ids.TeamID) (int, error) {
	count, err := s.projects.CountByTeamID(ctx, nil, id.UUID())
	if err != nil {
		return 0, MapError("team.owned_projects", err)
	}
	return int(count), nil
}

func (s *TeamStore) List(ctx context.Context, limit, offset int) ([]team.Snapshot, error) {
	rows, err := s.teams.List(ctx, nil, limit, offset)
	if err != nil {
		return nil, MapError("team.list", err)
	}
	out := make([]team.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToSnapshot())
	}
	return out, nil
}

func (s *TeamStore) Create(ctx context.Context, snap team.Snapshot) error {
	return ExecuteWrite(ctx, s.deps, "team.create", func(dbc dbctx.Context) error {
		rec := records.TeamRecordFrom(snap, 0)
		return s.teams.Create(dbc.Ctx, dbc.Tx, &rec)
	})
}

// Save persists the team row under the version guard and rewrites the roster
// in the same transaction.
func (s *TeamStore) Save(ctx context.Context, snap team.Snapshot, expectedVersion int) error {
	return ExecuteWrite(ctx, s.deps, "team.save", func(dbc dbctx.Context) error {
		// The roster rewrite below is not version guarded itself; confirm
		// inside the transaction that the row still carries the version the
		// roster was built against.
		current, err := s.teams.GetByID(dbc.Ctx, dbc.Tx, snap.ID.UUID())
		if err != nil {
			return err
		}
		if err := RequireVersionMatch(current.Version, expectedVersion); err != nil {
			return err
		}
		updates := map[string]any{
			"name":        snap.Name,
			"description": snap.Description,
			"status":      snap.Status.String(),
			"updated_at":  snap.UpdatedAt,
		}
		if snap.UpdatedBy != nil {
			updates["updated_by"] = snap.UpdatedBy.UUID()
		}
		ok, err := s.deps.CASGuard.UpdateByVersion(dbc, records.TeamRecord{}.TableName(), snap.ID.UUID(), expectedVersion, updates)
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "team was modified concurrently"); err != nil {
			return err
		}
		rec := records.TeamRecordFrom(snap, expectedVersion+1)
		return s.teams.ReplaceMembers(dbc.Ctx, dbc.Tx, snap.ID.UUID(), rec.Members)
	})
}

func (s *TeamStore) Delete(ctx context.Context, id ids.TeamID) error {
	return ExecuteWrite(ctx, s.deps, "team.delete", func(dbc dbctx.Context) error {
		return s.teams.Delete(dbc.Ctx, dbc.Tx, id.UUID())
	})
}
