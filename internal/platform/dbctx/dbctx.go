package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context carries a request context together with the transaction the current
// unit of work runs in. Repos fall back to their own DB handle when Tx is nil.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}
