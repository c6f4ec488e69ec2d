package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// Reverse posts the mirror journal of (originalType, referenceID) tagged with the paired reversal kind.
func (s *postingService) Reverse(ctx context.Context, originalType domain.PostingReferenceType, referenceID int64, actorUserID string) (*domain.Journal, error) {
	reversalType, ok := originalType.ReversalType()
	if !ok {
		return nil, fmt.Errorf("%w: %s cannot be reversed", apperrors.ErrValidation, originalType)
	}
	return s.ReverseAs(ctx, originalType, referenceID, reversalType, actorUserID)
}

// ReverseAs posts the mirror journal tagged reversalType. The original journal is left untouched.
// When there is nothing to reverse it logs a warning and returns a nil journal.
func (s *postingService) ReverseAs(ctx context.Context, originalType domain.PostingReferenceType, referenceID int64, reversalType domain.PostingReferenceType, actorUserID string) (*domain.Journal, error) {
	if !reversalAllowed(originalType, reversalType) {
		reversalsTotal.WithLabelValues(outcomeFailed).Inc()
		return nil, fmt.Errorf("%w: %s cannot be reversed as %s", apperrors.ErrValidation, originalType, reversalType)
	}
	if referenceID <= 0 {
		reversalsTotal.WithLabelValues(outcomeFailed).Inc()
		return nil, fmt.Errorf("%w: reference id must be positive, got %d", apperrors.ErrPrecondition, referenceID)
	}

	var reversal *domain.Journal
	outcome := outcomePosted
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		original, err := s.journalRepo.FindJournalByReference(ctx, originalType, referenceID)
		if errors.Is(err, apperrors.ErrNotFound) {
			outcome = outcomeNotFound
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load journal %s/%d: %w", originalType, referenceID, err)
		}
		legs, err := s.journalRepo.FindActiveLineItemsByReference(ctx, originalType, referenceID)
		if err != nil {
			return fmt.Errorf("failed to load legs of %s/%d: %w", originalType, referenceID, err)
		}
		if len(legs) == 0 {
			outcome = outcomeNotFound
			return nil
		}

		mirror := mirrorLegs(legs, reversalType)
		existing, err := s.journalRepo.FindJournalByReference(ctx, reversalType, referenceID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to load journal %s/%d: %w", reversalType, referenceID, err)
		}
		if existing != nil && !existing.DeleteFlag && sameLegs(existing.ActiveLineItems(), mirror) {
			outcome = outcomeUnchanged
			reversal = existing
			return nil
		}

		header := journalHeader{
			journalDate:     s.today(),
			transactionDate: original.TransactionDate,
			referenceNumber: original.ReferenceNumber,
			description:     original.Description,
			reversal:        true,
		}
		reversal, _, err = s.writeJournal(ctx, reversalType, referenceID, header, mirror, actorUserID)
		return err
	})
	if err != nil {
		reversalsTotal.WithLabelValues(outcomeFailed).Inc()
		s.LogError(ctx, err, "Failed to reverse journal",
			referenceAttrs(originalType, referenceID)...)
		return nil, err
	}
	reversalsTotal.WithLabelValues(outcome).Inc()
	if outcome == outcomeNotFound {
		s.LogWarn(ctx, "No journal to reverse",
			referenceAttrs(originalType, referenceID)...)
		return nil, nil
	}
	s.LogInfo(ctx, "Journal reversed",
		slog.String("journal_id", reversal.ID),
		slog.String("reversal_type", reversalType.String()),
		slog.Int64("reference_id", referenceID),
		slog.String("outcome", outcome))
	return reversal, nil
}

// reversalAllowed accepts the paired reversal kind, and DELETE_BANK_ACCOUNT for bank accounts.
func reversalAllowed(originalType, reversalType domain.PostingReferenceType) bool {
	paired, ok := originalType.ReversalType()
	if !ok {
		return false
	}
	if reversalType == paired {
		return true
	}
	return originalType == domain.RefBankAccount && reversalType == domain.RefDeleteBankAccount
}

// mirrorLegs swaps debit and credit of every leg, keeping order, category, rate and source reference.
func mirrorLegs(legs []domain.JournalLineItem, reversalType domain.PostingReferenceType) []domain.JournalLineItem {
	out := make([]domain.JournalLineItem, 0, len(legs))
	for i, li := range legs {
		out = append(out, domain.JournalLineItem{
			TransactionCategoryID: li.TransactionCategoryID,
			Description:           li.Description,
			DebitAmount:           li.CreditAmount,
			CreditAmount:          li.DebitAmount,
			ReferenceType:         reversalType,
			ReferenceID:           li.ReferenceID,
			ExchangeRate:          li.ExchangeRate,
			CurrencyCode:          li.CurrencyCode,
			OrderSequence:         i + 1,
			ReversalFlag:          true,
			ContactID:             li.ContactID,
		})
	}
	return out
}
