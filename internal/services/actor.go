package services

import (
	"context"

	"github.com/google/uuid"

	dataagg "github.com/novahq/taskhub-backend/internal/data/aggregates"
	domainagg "github.com/novahq/taskhub-backend/internal/domain/aggregates"
	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/user"
	"github.com/novahq/taskhub-backend/internal/platform/ctxutil"
)

// loadActor resolves the authenticated caller into a fully populated user
// aggregate, memberships included, so the permission predicates can run.
func loadActor(ctx context.Context, users *dataagg.UserStore) (*user.User, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodePermissionDenied, "auth.actor", "no authenticated user in context", nil)
	}
	loaded, err := users.Load(ctx, ids.UserIDFrom(rd.UserID))
	if err != nil {
		if domainagg.IsCode(err, domainagg.CodeNotFound) {
			return nil, domainagg.NewError(domainagg.CodePermissionDenied, "auth.actor", "authenticated user no longer exists", err)
		}
		return nil, err
	}
	return user.FromSnapshot(loaded.Snapshot), nil
}
