package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// CategoryFilter narrows category listings.
type CategoryFilter struct {
	ChartOfAccountCode string
	IDs                []int64
	ParentIDs          []int64
	SelectableOnly     bool
	IncludeDeleted     bool
}

// TransactionCategoryReader defines read operations for transaction categories.
// Every result carries the classification and code of its chart of account.
type TransactionCategoryReader interface {
	// FindCategoryByID retrieves a category, deleted or not.
	FindCategoryByID(ctx context.Context, id int64) (*domain.CategoryWithClassification, error)

	// FindCategoryByCode retrieves a non-deleted category by code.
	FindCategoryByCode(ctx context.Context, code string) (*domain.CategoryWithClassification, error)

	// ListCategories returns categories matching the filter ordered by code.
	ListCategories(ctx context.Context, filter CategoryFilter) ([]domain.CategoryWithClassification, error)

	// ListCategoryCodes returns every code under a chart of account, including deleted categories.
	ListCategoryCodes(ctx context.Context, chartOfAccountID int64) ([]string, error)
}

// TransactionCategoryWriter defines write operations for transaction categories.
type TransactionCategoryWriter interface {
	// SaveCategory inserts a new category and sets its ID.
	SaveCategory(ctx context.Context, category *domain.TransactionCategory) error

	// UpdateCategory writes category if the stored version equals expectedVersion.
	// It returns apperrors.ErrConflict otherwise. The stored version becomes category.VersionNumber.
	UpdateCategory(ctx context.Context, category domain.TransactionCategory, expectedVersion int) error

	// SoftDeleteCategory sets the delete flag if the stored version equals expectedVersion.
	SoftDeleteCategory(ctx context.Context, id int64, expectedVersion int, userID string, now time.Time) error
}

// TransactionCategoryRepositoryFacade combines all category repository interfaces.
type TransactionCategoryRepositoryFacade interface {
	TransactionCategoryReader
	TransactionCategoryWriter
}
