package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ClosingBalanceReaderSvc defines report-time balance queries.
type ClosingBalanceReaderSvc interface {
	// GetList computes opening and closing balances per category over the report window.
	GetList(ctx context.Context, req domain.ReportRequest) ([]domain.CategoryBalance, error)

	// ListSnapshots returns stored snapshots in the window, newest first.
	ListSnapshots(ctx context.Context, req domain.ReportRequest) ([]domain.TransactionCategoryClosingBalance, error)

	// MatchClosingBalanceForReconcile returns the bank-currency closing balance strictly before date, or zero.
	MatchClosingBalanceForReconcile(ctx context.Context, date time.Time, categoryID int64) (decimal.Decimal, error)
}

// ClosingBalanceWriterSvc maintains snapshots as legs are posted.
type ClosingBalanceWriterSvc interface {
	// UpdateClosingBalance applies a leg's movement to its category snapshots.
	UpdateClosingBalance(ctx context.Context, lineItem domain.JournalLineItem) error

	// RevertClosingBalance removes a previously applied leg's movement.
	RevertClosingBalance(ctx context.Context, lineItem domain.JournalLineItem) error

	// RebuildClosingBalances recomputes every snapshot of a category from its legs.
	RebuildClosingBalances(ctx context.Context, categoryID int64) (int, error)
}

// ClosingBalanceSvcFacade combines all closing balance service interfaces.
type ClosingBalanceSvcFacade interface {
	ClosingBalanceReaderSvc
	ClosingBalanceWriterSvc
}
