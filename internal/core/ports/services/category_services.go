package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// CategoryReaderSvc defines read operations for transaction categories
type CategoryReaderSvc interface {
	// GetCategoryByID retrieves a non-deleted category.
	GetCategoryByID(ctx context.Context, id int64) (*domain.CategoryWithClassification, error)

	// GetCategoryByCode resolves a well-known or generated code. Results are cached.
	GetCategoryByCode(ctx context.Context, code string) (*domain.CategoryWithClassification, error)

	// IsEditable reports whether the category may be edited or deleted.
	IsEditable(ctx context.Context, id int64) (bool, error)

	// ListDropdown returns selectable categories grouped by chart of account code. Results are cached.
	ListDropdown(ctx context.Context) (map[string][]domain.CategoryWithClassification, error)
}

// CategoryWriterSvc defines write operations for transaction categories
type CategoryWriterSvc interface {
	// CreateCategory creates a category under a chart of account with the next free code.
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, actorUserID string) (*domain.TransactionCategory, error)

	// UpdateCategory renames or re-describes a category under optimistic locking.
	UpdateCategory(ctx context.Context, id int64, req dto.UpdateCategoryRequest, actorUserID string) (*domain.TransactionCategory, error)

	// DeleteCategory soft-deletes an unused category.
	DeleteCategory(ctx context.Context, id int64, expectedVersion int, actorUserID string) error

	// CreatePartyCategories creates the sub-categories and relations a newly onboarded party posts to.
	CreatePartyCategories(ctx context.Context, party domain.Party, actorUserID string) ([]domain.PartyCategoryRelation, error)
}

// CategorySvcFacade combines all category service interfaces
type CategorySvcFacade interface {
	CategoryReaderSvc
	CategoryWriterSvc
}
