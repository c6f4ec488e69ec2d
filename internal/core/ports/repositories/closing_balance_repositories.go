package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// SnapshotFilter selects closing balance snapshots.
type SnapshotFilter struct {
	StartDate   *time.Time // inclusive
	EndDate     *time.Time // inclusive
	CategoryIDs []int64
}

// ClosingBalanceReader defines read operations for closing balance snapshots.
type ClosingBalanceReader interface {
	// FindSnapshot returns the snapshot of a category at exactly date, or apperrors.ErrNotFound.
	FindSnapshot(ctx context.Context, categoryID int64, date time.Time) (*domain.TransactionCategoryClosingBalance, error)

	// FindLastSnapshotBefore returns the latest snapshot strictly before date, or apperrors.ErrNotFound.
	FindLastSnapshotBefore(ctx context.Context, categoryID int64, date time.Time) (*domain.TransactionCategoryClosingBalance, error)

	// ListSnapshotsAfter returns the snapshots strictly after date in ascending date order.
	ListSnapshotsAfter(ctx context.Context, categoryID int64, date time.Time) ([]domain.TransactionCategoryClosingBalance, error)

	// ListSnapshots returns snapshots matching the filter, newest date first.
	ListSnapshots(ctx context.Context, filter SnapshotFilter) ([]domain.TransactionCategoryClosingBalance, error)
}

// ClosingBalanceWriter defines write operations for closing balance snapshots.
type ClosingBalanceWriter interface {
	// SaveSnapshot inserts or updates the snapshot keyed by (category, date) and sets its ID.
	SaveSnapshot(ctx context.Context, snapshot *domain.TransactionCategoryClosingBalance) error
}

// ClosingBalanceRepositoryFacade combines all closing balance repository interfaces.
type ClosingBalanceRepositoryFacade interface {
	ClosingBalanceReader
	ClosingBalanceWriter
}
