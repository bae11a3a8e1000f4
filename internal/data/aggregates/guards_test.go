package aggregates_test

import (
	"context"
	"testing"

	"github.com/novahq/taskhub-backend/internal/data/aggregates"
	"github.com/novahq/taskhub-backend/internal/data/records"
	"github.com/novahq/taskhub-backend/internal/data/repos/testutil"
	domainagg "github.com/novahq/taskhub-backend/internal/domain/aggregates"
	"github.com/novahq/taskhub-backend/internal/platform/dbctx"
)

func TestCASGuardUpdateByVersion(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	guard := aggregates.NewCASGuard(nil)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	rec := testutil.NewUserRecord("cas-version@example.com")
	if err := tx.Create(&rec).Error; err != nil {
		t.Fatalf("Create: %v", err)
	}

	table := records.UserRecord{}.TableName()
	ok, err := guard.UpdateByVersion(dbc, table, rec.ID, 0, map[string]any{"name": "after"})
	if err != nil {
		t.Fatalf("UpdateByVersion: %v", err)
	}
	if !ok {
		t.Fatalf("matching version must update")
	}

	var got records.UserRecord
	if err := tx.First(&got, "id = ?", rec.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Name != "after" || got.Version != 1 {
		t.Fatalf("row after CAS: name=%q version=%d", got.Name, got.Version)
	}

	// the stale writer loses
	ok, err = guard.UpdateByVersion(dbc, table, rec.ID, 0, map[string]any{"name": "stale"})
	if err != nil {
		t.Fatalf("UpdateByVersion stale: %v", err)
	}
	if ok {
		t.Fatalf("stale version must not update")
	}
}

func TestCASGuardUpdateByStatus(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	guard := aggregates.NewCASGuard(nil)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	rec := testutil.NewUserRecord("cas-status@example.com")
	if err := tx.Create(&rec).Error; err != nil {
		t.Fatalf("Create: %v", err)
	}

	table := records.UserRecord{}.TableName()
	ok, err := guard.UpdateByStatus(dbc, table, rec.ID, []string{"active", "pending"}, map[string]any{"status": "suspended"})
	if err != nil {
		t.Fatalf("UpdateByStatus: %v", err)
	}
	if !ok {
		t.Fatalf("allowed status must update")
	}

	ok, err = guard.UpdateByStatus(dbc, table, rec.ID, []string{"active"}, map[string]any{"status": "inactive"})
	if err != nil {
		t.Fatalf("UpdateByStatus blocked: %v", err)
	}
	if ok {
		t.Fatalf("row outside the allowed statuses must not update")
	}

	var got records.UserRecord
	if err := tx.First(&got, "id = ?", rec.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != "suspended" {
		t.Fatalf("status: want=suspended got=%s", got.Status)
	}
}

func TestRequireVersionMatch(t *testing.T) {
	if err := aggregates.RequireVersionMatch(3, 3); err != nil {
		t.Fatalf("matching versions must pass: %v", err)
	}

	err := aggregates.RequireVersionMatch(4, 3)
	if err == nil {
		t.Fatalf("mismatch must fail")
	}
	if code := domainagg.CodeOf(aggregates.MapError("op", err)); code != domainagg.CodeConflict {
		t.Fatalf("mismatch code: want=%s got=%s", domainagg.CodeConflict, code)
	}

	err = aggregates.RequireVersionMatch(0, -1)
	if err == nil {
		t.Fatalf("negative expected version must fail")
	}
	if code := domainagg.CodeOf(aggregates.MapError("op", err)); code != domainagg.CodeValidation {
		t.Fatalf("negative expected code: want=%s got=%s", domainagg.CodeValidation, code)
	}
}
