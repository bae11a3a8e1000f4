package user_test

import (
	"context"
	"testing"

	"github.com/novahq/taskhub-backend/internal/data/repos/testutil"
	"github.com/novahq/taskhub-backend/internal/data/repos/user"
)

func TestUserRepoCreateAndGet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := user.NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	rec := testutil.NewUserRecord("create-get@example.com")
	if err := repo.Create(ctx, tx, &rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Email != rec.Email {
		t.Fatalf("email: want=%s got=%s", rec.Email, got.Email)
	}
	if got.Version != 0 {
		t.Fatalf("fresh row version: want=0 got=%d", got.Version)
	}
}

func TestUserRepoGetByEmail(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := user.NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	rec := testutil.NewUserRecord("by-email@example.com")
	if err := repo.Create(ctx, tx, &rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByEmail(ctx, tx, "by-email@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != rec.ID {
		t.Fatalf("id mismatch")
	}
}

func TestUserRepoEmailExists(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := user.NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	rec := testutil.NewUserRecord("exists@example.com")
	if err := repo.Create(ctx, tx, &rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	exists, err := repo.EmailExists(ctx, tx, "exists@example.com")
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !exists {
		t.Fatalf("expected email to exist")
	}
	exists, err = repo.EmailExists(ctx, tx, "nobody@example.com")
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if exists {
		t.Fatalf("expected email to be free")
	}
}

func TestUserRepoList(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := user.NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	for _, email := range []string{"list-a@example.com", "list-b@example.com", "list-c@example.com"} {
		rec := testutil.NewUserRecord(email)
		if err := repo.Create(ctx, tx, &rec); err != nil {
			t.Fatalf("Create %s: %v", email, err)
		}
	}

	rows, err := repo.List(ctx, tx, 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("limit not applied: want=2 got=%d", len(rows))
	}
}
