package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// PostingSvc turns business events into balanced journals.
type PostingSvc interface {
	// Post creates or re-posts the journal for (req.ReferenceType, req.ReferenceID).
	// A zero amount posts nothing and returns a nil journal.
	Post(ctx context.Context, req domain.PostingRequest, actorUserID string) (*domain.Journal, error)
}

// ReversalSvc posts mirror-image journals.
type ReversalSvc interface {
	// Reverse posts the reversal of (originalType, referenceID) tagged with the paired reversal kind.
	// It returns a nil journal when there is nothing to reverse.
	Reverse(ctx context.Context, originalType domain.PostingReferenceType, referenceID int64, actorUserID string) (*domain.Journal, error)

	// ReverseAs is Reverse with an explicit reversal kind, e.g. DELETE_BANK_ACCOUNT.
	ReverseAs(ctx context.Context, originalType domain.PostingReferenceType, referenceID int64, reversalType domain.PostingReferenceType, actorUserID string) (*domain.Journal, error)
}

// PostingSvcFacade combines posting and reversal.
type PostingSvcFacade interface {
	PostingSvc
	ReversalSvc
}
