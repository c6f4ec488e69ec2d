package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// ChartOfAccountReader defines read operations for the static category tree.
type ChartOfAccountReader interface {
	// FindChartOfAccountByID retrieves a chart of account node by id.
	FindChartOfAccountByID(ctx context.Context, id int64) (*domain.ChartOfAccount, error)

	// FindChartOfAccountByCode retrieves a chart of account node by its stable code.
	FindChartOfAccountByCode(ctx context.Context, code string) (*domain.ChartOfAccount, error)

	// ListChartOfAccounts returns every node ordered by code.
	ListChartOfAccounts(ctx context.Context) ([]domain.ChartOfAccount, error)
}

// ChartOfAccountWriter defines write operations for the category tree. Used by seeding only.
type ChartOfAccountWriter interface {
	// SaveChartOfAccount inserts a node, or updates name and parent when the code exists. ID is set on return.
	SaveChartOfAccount(ctx context.Context, coa *domain.ChartOfAccount) error
}

// ChartOfAccountRepositoryFacade combines all chart-of-account repository interfaces.
type ChartOfAccountRepositoryFacade interface {
	ChartOfAccountReader
	ChartOfAccountWriter
}
