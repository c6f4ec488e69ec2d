package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

// journalService provides read access to posted journals and legs.
type journalService struct {
	BaseService
	journalRepo  portsrepo.JournalRepositoryFacade
	categoryRepo portsrepo.TransactionCategoryReader
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, categoryRepo portsrepo.TransactionCategoryReader) portssvc.JournalReaderSvc {
	return &journalService{
		journalRepo:  journalRepo,
		categoryRepo: categoryRepo,
	}
}

// Ensure journalService implements the portssvc.JournalReaderSvc interface
var _ portssvc.JournalReaderSvc = (*journalService)(nil)

// GetJournal retrieves the journal posted for (referenceType, referenceID), legs included.
func (s *journalService) GetJournal(ctx context.Context, referenceType domain.PostingReferenceType, referenceID int64) (*domain.Journal, error) {
	if !referenceType.Valid() {
		return nil, fmt.Errorf("%w: unknown posting reference type %d", apperrors.ErrValidation, int(referenceType))
	}
	if referenceID <= 0 {
		return nil, fmt.Errorf("%w: reference id must be positive", apperrors.ErrValidation)
	}
	journal, err := s.journalRepo.FindJournalByReference(ctx, referenceType, referenceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal",
				referenceAttrs(referenceType, referenceID)...)
		}
		return nil, fmt.Errorf("failed to find journal %s/%d: %w", referenceType, referenceID, err)
	}
	return journal, nil
}

// ListLineItems returns the non-deleted legs dated within the window.
func (s *journalService) ListLineItems(ctx context.Context, req domain.ReportRequest) ([]domain.JournalLineItem, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	filter := portsrepo.LineItemFilter{
		StartDate:          &req.StartDate,
		EndDate:            &req.EndDate,
		ChartOfAccountCode: req.ChartOfAccountCode,
	}
	if len(req.CategoryIDs) > 0 {
		categories, err := reportCategories(ctx, s.categoryRepo, req)
		if err != nil {
			return nil, err
		}
		if len(categories) == 0 {
			return []domain.JournalLineItem{}, nil
		}
		filter.CategoryIDs = categoryIDs(categories)
	}
	items, err := s.journalRepo.ListLineItems(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list line items")
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}
	return items, nil
}
