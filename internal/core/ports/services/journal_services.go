package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournal retrieves the journal posted for (referenceType, referenceID).
	GetJournal(ctx context.Context, referenceType domain.PostingReferenceType, referenceID int64) (*domain.Journal, error)

	// ListLineItems returns the non-deleted legs whose journal date falls in the report window.
	ListLineItems(ctx context.Context, req domain.ReportRequest) ([]domain.JournalLineItem, error)
}

// ReportingSvc builds ledger reports.
type ReportingSvc interface {
	// GeneralLedger returns, per category, the opening balance, the legs in the window and the closing balance.
	GeneralLedger(ctx context.Context, req domain.ReportRequest) ([]domain.GeneralLedgerAccount, error)

	// TrialBalance returns the debit/credit balance of every category as of a date.
	TrialBalance(ctx context.Context, req domain.ReportRequest) ([]domain.TrialBalanceRow, error)
}

// DocumentLookup resolves the source document behind a leg for display. Implemented outside the core.
type DocumentLookup interface {
	// FindDocument returns the number and counterparty of a document, or apperrors.ErrNotFound.
	FindDocument(ctx context.Context, kind domain.DocumentKind, id int64) (*domain.DocumentRef, error)
}
