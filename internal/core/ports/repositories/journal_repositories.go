package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// LineItemFilter selects legs for reporting. Zero values mean "no restriction".
type LineItemFilter struct {
	StartDate          *time.Time // inclusive, compared to the journal date
	EndDate            *time.Time // inclusive
	AfterDate          *time.Time // exclusive lower bound
	BeforeDate         *time.Time // exclusive upper bound
	CategoryIDs        []int64
	ChartOfAccountCode string
}

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByReference retrieves the journal for (referenceType, referenceID) with all its legs,
	// including soft-deleted ones, ordered by sequence. Returns apperrors.ErrNotFound when none exists.
	FindJournalByReference(ctx context.Context, referenceType domain.PostingReferenceType, referenceID int64) (*domain.Journal, error)

	// FindJournalByID retrieves a journal and its legs by id.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)
}

// LineItemReader defines read operations for journal line items
type LineItemReader interface {
	// FindActiveLineItemsByReference returns the non-deleted, non-reversal legs tagged (referenceType, referenceID).
	FindActiveLineItemsByReference(ctx context.Context, referenceType domain.PostingReferenceType, referenceID int64) ([]domain.JournalLineItem, error)

	// ListLineItems returns non-deleted legs matching the filter ordered by journal date then sequence.
	ListLineItems(ctx context.Context, filter LineItemFilter) ([]domain.JournalLineItem, error)

	// CountActiveLineItemsByCategory counts non-deleted legs posted to a category.
	CountActiveLineItemsByCategory(ctx context.Context, categoryID int64) (int, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveJournal inserts or updates the journal header and upserts every leg by id.
	SaveJournal(ctx context.Context, journal domain.Journal) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
// This is a facade for clients that need access to all operations
type JournalRepositoryFacade interface {
	JournalReader
	LineItemReader
	JournalWriter
}
