package aggregates

import (
	"context"

	"github.com/novahq/taskhub-backend/internal/data/records"
	"github.com/novahq/taskhub-backend/internal/data/repos"
	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/user"
	"github.com/novahq/taskhub-backend/internal/platform/dbctx"
)

// LoadedUser couples a user snapshot with the row's version and credential
// hash. Version feeds the CAS write; the hash never enters the aggregate.
type LoadedUser struct {
	Snapshot     user.Snapshot
	PasswordHash string
	Version      int
}

type UserStore struct {
	deps  BaseDeps
	users repos.UserRepo
	teams repos.TeamRepo
}

func NewUserStore(deps BaseDeps, users repos.UserRepo, teams repos.TeamRepo) *UserStore {
	return &UserStore{deps: deps.withDefaults(), users: users, teams: teams}
}

// Load fetches the user row and attaches the membership view used by the
// permission predicates.
func (s *UserStore) Load(ctx context.Context, id ids.UserID) (*LoadedUser, error) {
	const op = "user.load"
	rec, err := s.users.GetByID(ctx, nil, id.UUID())
	if err != nil {
		return nil, MapError(op, err)
	}
	snap := rec.ToSnapshot()
	snap.Memberships, err = s.membershipsOf(ctx, id)
	if err != nil {
		return nil, MapError(op, err)
	}
	return &LoadedUser{Snapshot: snap, PasswordHash: rec.PasswordHash, Version: rec.Version}, nil
}

func (s *UserStore) LoadByEmail(ctx context.Context, email string) (*LoadedUser, error) {
	const op = "user.load_by_email"
	rec, err := s.users.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, MapError(op, err)
	}
	snap := rec.ToSnapshot()
	snap.Memberships, err = s.membershipsOf(ctx, snap.ID)
	if err != nil {
		return nil, MapError(op, err)
	}
	return &LoadedUser{Snapshot: snap, PasswordHash: rec.PasswordHash, Version: rec.Version}, nil
}

func (s *UserStore) membershipsOf(ctx context.Context, id ids.UserID) ([]user.TeamMembership, error) {
	rows, err := s.teams.ListMembershipsByUser(ctx, nil, id.UUID())
	if err != nil {
		return nil, err
	}
	memberships := make([]user.TeamMembership, 0, len(rows))
	for _, row := range rows {
		memberships = append(memberships, user.TeamMembership{
			TeamID:   ids.TeamIDFrom(row.TeamID),
			Role:     user.TeamRole(row.Role),
			JoinedAt: row.JoinedAt,
		})
	}
	return memberships, nil
}

// List returns user snapshots without the membership view; listings feed
// read-only endpoints that never enter permission checks.
func (s *UserStore) List(ctx context.Context, limit, offset int) ([]user.Snapshot, error) {
	rows, err := s.users.List(ctx, nil, limit, offset)
	if err != nil {
		return nil, MapError("user.list", err)
	}
	out := make([]user.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToSnapshot())
	}
	return out, nil
}

func (s *UserStore) Create(ctx context.Context, snap user.Snapshot, passwordHash string) error {
	return ExecuteWrite(ctx, s.deps, "user.create", func(dbc dbctx.Context) error {
		rec := records.UserRecordFrom(snap, passwordHash, 0)
		return s.users.Create(dbc.Ctx, dbc.Tx, &rec)
	})
}

// Save persists a mutated user under the version guard.
func (s *UserStore) Save(ctx context.Context, snap user.Snapshot, expectedVersion int) error {
	return ExecuteWrite(ctx, s.deps, "user.save", func(dbc dbctx.Context) error {
		updates := map[string]any{
			"name":       snap.Name,
			"email":      snap.Email,
			"role":       snap.Role.String(),
			"status":     snap.Status.String(),
			"updated_at": snap.UpdatedAt,
		}
		if snap.UpdatedBy != nil {
			updates["updated_by"] = snap.UpdatedBy.UUID()
		}
		ok, err := s.deps.CASGuard.UpdateByVersion(dbc, records.UserRecord{}.TableName(), snap.ID.UUID(), expectedVersion, updates)
		if err != nil {
			return err
		}
		return RequireCASSuccess(ok, "user was modified concurrently")
	})
}
