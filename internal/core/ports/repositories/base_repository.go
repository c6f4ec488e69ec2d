package repositories

import (
	"context"
)

// TransactionManager demarcates a unit of work across repositories.
type TransactionManager interface {
	// WithinTransaction runs fn inside a transaction carried by the context passed to fn.
	// If ctx already carries a transaction, fn joins it and the outer caller decides commit or rollback.
	// The transaction is rolled back when fn returns an error.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
