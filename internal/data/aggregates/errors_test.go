package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/novahq/taskhub-backend/internal/domain/aggregates"
	"github.com/novahq/taskhub-backend/internal/domain/validate"
)

func TestMapErrorNil(t *testing.T) {
	if got := MapError("op", nil); got != nil {
		t.Fatalf("nil must stay nil, got %v", got)
	}
}

func TestMapErrorPassesThroughAggregateErrors(t *testing.T) {
	orig := domainagg.NewError(domainagg.CodeNotFound, "user.load", "no row", nil)
	got := MapError("other.op", orig)
	if got != orig {
		t.Fatalf("already-mapped error must pass through unchanged")
	}
}

func TestMapErrorDomainValidateErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domainagg.ErrorCode
	}{
		{"argument", validate.Argument("name", "must not be blank"), domainagg.CodeValidation},
		{"rule", validate.Rule("task is done"), domainagg.CodeInvariantViolation},
		{"permission", validate.Permission("not allowed"), domainagg.CodePermissionDenied},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError("op", tc.err)
			if code := domainagg.CodeOf(got); code != tc.want {
				t.Fatalf("code: want=%s got=%s", tc.want, code)
			}
		})
	}
}

// A permission error satisfies both the permission and the rule predicates;
// the permission code must win.
func TestMapErrorPermissionBeatsRule(t *testing.T) {
	err := validate.Permission("denied")
	if !validate.IsRule(err) {
		t.Fatalf("precondition: permission errors should satisfy IsRule")
	}
	got := MapError("op", err)
	if code := domainagg.CodeOf(got); code != domainagg.CodePermissionDenied {
		t.Fatalf("code: want=%s got=%s", domainagg.CodePermissionDenied, code)
	}
}

func TestMapErrorSentinels(t *testing.T) {
	cases := []struct {
		err  error
		want domainagg.ErrorCode
	}{
		{ValidationError("bad input"), domainagg.CodeValidation},
		{InvariantError("rule broken"), domainagg.CodeInvariantViolation},
		{ConflictError("version mismatch"), domainagg.CodeConflict},
		{RetryableError("try again"), domainagg.CodeRetryable},
	}
	for _, tc := range cases {
		got := MapError("op", tc.err)
		if code := domainagg.CodeOf(got); code != tc.want {
			t.Fatalf("%v: want=%s got=%s", tc.err, tc.want, code)
		}
	}
}

func TestMapErrorInfrastructure(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domainagg.ErrorCode
	}{
		{"record not found", gorm.ErrRecordNotFound, domainagg.CodeNotFound},
		{"context canceled", context.Canceled, domainagg.CodeRetryable},
		{"deadline exceeded", context.DeadlineExceeded, domainagg.CodeRetryable},
		{"unique violation", &pgconn.PgError{Code: "23505"}, domainagg.CodeConflict},
		{"fk violation", &pgconn.PgError{Code: "23503"}, domainagg.CodePreconditionFailed},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, domainagg.CodeRetryable},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, domainagg.CodeRetryable},
		{"duplicate key message", errors.New(`duplicate key value violates unique constraint "users_email_key"`), domainagg.CodeConflict},
		{"timeout message", fmt.Errorf("dial tcp: i/o timeout"), domainagg.CodeRetryable},
		{"unknown", errors.New("something odd"), domainagg.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError("op", tc.err)
			if code := domainagg.CodeOf(got); code != tc.want {
				t.Fatalf("code: want=%s got=%s", tc.want, code)
			}
		})
	}
}

func TestRequireCASSuccess(t *testing.T) {
	if err := RequireCASSuccess(true, "unused"); err != nil {
		t.Fatalf("successful CAS must not error: %v", err)
	}
	err := RequireCASSuccess(false, "user was modified concurrently")
	if err == nil {
		t.Fatalf("failed CAS must error")
	}
	mapped := MapError("user.save", err)
	if code := domainagg.CodeOf(mapped); code != domainagg.CodeConflict {
		t.Fatalf("CAS failure code: want=%s got=%s", domainagg.CodeConflict, code)
	}
}
