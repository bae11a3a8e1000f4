package team_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/novahq/taskhub-backend/internal/data/records"
	"github.com/novahq/taskhub-backend/internal/data/repos/team"
	"github.com/novahq/taskhub-backend/internal/data/repos/testutil"
)

func TestTeamRepoReplaceMembers(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := team.NewTeamRepo(db, testutil.Logger(t))
	ctx := context.Background()

	rec := testutil.NewTeamRecord("roster team")
	if err := repo.Create(ctx, tx, &rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	userA, userB := uuid.New(), uuid.New()
	first := []records.TeamMemberRecord{
		{TeamID: rec.ID, UserID: userA, Role: "lead", JoinedAt: time.Now().UTC()},
		{TeamID: rec.ID, UserID: userB, Role: "member", JoinedAt: time.Now().UTC()},
	}
	if err := repo.ReplaceMembers(ctx, tx, rec.ID, first); err != nil {
		t.Fatalf("ReplaceMembers: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Members) != 2 {
		t.Fatalf("members: want=2 got=%d", len(got.Members))
	}

	// rewrite the roster down to one entry
	second := []records.TeamMemberRecord{
		{TeamID: rec.ID, UserID: userA, Role: "lead", JoinedAt: time.Now().UTC()},
	}
	if err := repo.ReplaceMembers(ctx, tx, rec.ID, second); err != nil {
		t.Fatalf("ReplaceMembers rewrite: %v", err)
	}
	got, err = repo.GetByID(ctx, tx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Members) != 1 || got.Members[0].UserID != userA {
		t.Fatalf("roster rewrite broken: %d members", len(got.Members))
	}
}

func TestTeamRepoListMembershipsByUser(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := team.NewTeamRepo(db, testutil.Logger(t))
	ctx := context.Background()

	userID := uuid.New()
	for _, name := range []string{"team one", "team two"} {
		rec := testutil.NewTeamRecord(name)
		if err := repo.Create(ctx, tx, &rec); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
		members := []records.TeamMemberRecord{
			{TeamID: rec.ID, UserID: userID, Role: "member", JoinedAt: time.Now().UTC()},
		}
		if err := repo.ReplaceMembers(ctx, tx, rec.ID, members); err != nil {
			t.Fatalf("ReplaceMembers: %v", err)
		}
	}

	rows, err := repo.ListMembershipsByUser(ctx, tx, userID)
	if err != nil {
		t.Fatalf("ListMembershipsByUser: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("memberships: want=2 got=%d", len(rows))
	}
}

func TestTeamRepoDeleteRemovesRoster(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := team.NewTeamRepo(db, testutil.Logger(t))
	ctx := context.Background()

	rec := testutil.NewTeamRecord("doomed team")
	if err := repo.Create(ctx, tx, &rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
	userID := uuid.New()
	members := []records.TeamMemberRecord{
		{TeamID: rec.ID, UserID: userID, Role: "member", JoinedAt: time.Now().UTC()},
	}
	if err := repo.ReplaceMembers(ctx, tx, rec.ID, members); err != nil {
		t.Fatalf("ReplaceMembers: %v", err)
	}

	if err := repo.Delete(ctx, tx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, tx, rec.ID); err == nil {
		t.Fatalf("team row should be gone")
	}
	rows, err := repo.ListMembershipsByUser(ctx, tx, userID)
	if err != nil {
		t.Fatalf("ListMembershipsByUser: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("roster rows should be gone, got %d", len(rows))
	}
}
