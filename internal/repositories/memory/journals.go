package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// legsOf returns every leg of a journal ordered by sequence. Caller holds s.mu.
func (s *Store) legsOf(journal domain.Journal) []domain.JournalLineItem {
	var legs []domain.JournalLineItem
	for _, li := range s.data.lineItems {
		if li.JournalID == journal.ID {
			li.JournalDate = journal.JournalDate
			legs = append(legs, li)
		}
	}
	sortBySequence(legs)
	return legs
}

func sortBySequence(legs []domain.JournalLineItem) {
	sort.SliceStable(legs, func(i, j int) bool {
		if legs[i].OrderSequence != legs[j].OrderSequence {
			return legs[i].OrderSequence < legs[j].OrderSequence
		}
		return legs[i].ID < legs[j].ID
	})
}

// FindJournalByReference implements portsrepo.JournalReader.
func (s *Store) FindJournalByReference(_ context.Context, referenceType domain.PostingReferenceType, referenceID int64) (*domain.Journal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.data.journalByRef[refKey{referenceType: referenceType, referenceID: referenceID}]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("journal for %s %d", referenceType, referenceID))
	}
	journal := s.data.journals[id]
	journal.LineItems = s.legsOf(journal)
	return &journal, nil
}

// FindJournalByID implements portsrepo.JournalReader.
func (s *Store) FindJournalByID(_ context.Context, journalID string) (*domain.Journal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	journal, ok := s.data.journals[journalID]
	if !ok {
		return nil, apperrors.NewNotFoundError("journal " + journalID)
	}
	journal.LineItems = s.legsOf(journal)
	return &journal, nil
}

// FindActiveLineItemsByReference implements portsrepo.LineItemReader.
func (s *Store) FindActiveLineItemsByReference(_ context.Context, referenceType domain.PostingReferenceType, referenceID int64) ([]domain.JournalLineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	legs := []domain.JournalLineItem{}
	for _, li := range s.data.lineItems {
		if li.ReferenceType != referenceType || li.ReferenceID != referenceID || li.DeleteFlag || li.ReversalFlag {
			continue
		}
		li.JournalDate = s.data.journals[li.JournalID].JournalDate
		legs = append(legs, li)
	}
	sortBySequence(legs)
	return legs, nil
}

// ListLineItems implements portsrepo.LineItemReader.
func (s *Store) ListLineItems(_ context.Context, filter portsrepo.LineItemFilter) ([]domain.JournalLineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	legs := []domain.JournalLineItem{}
	for _, li := range s.data.lineItems {
		if li.DeleteFlag {
			continue
		}
		if len(filter.CategoryIDs) > 0 && !slices.Contains(filter.CategoryIDs, li.TransactionCategoryID) {
			continue
		}
		if filter.ChartOfAccountCode != "" {
			cat := s.data.categories[li.TransactionCategoryID]
			if s.data.chartOfAccounts[cat.ChartOfAccountID].Code != filter.ChartOfAccountCode {
				continue
			}
		}
		journal := s.data.journals[li.JournalID]
		date := domain.DateOnly(journal.JournalDate)
		if filter.StartDate != nil && date.Before(domain.DateOnly(*filter.StartDate)) {
			continue
		}
		if filter.EndDate != nil && date.After(domain.DateOnly(*filter.EndDate)) {
			continue
		}
		if filter.AfterDate != nil && !date.After(domain.DateOnly(*filter.AfterDate)) {
			continue
		}
		if filter.BeforeDate != nil && !date.Before(domain.DateOnly(*filter.BeforeDate)) {
			continue
		}
		li.JournalDate = journal.JournalDate
		legs = append(legs, li)
	}
	sort.SliceStable(legs, func(i, j int) bool {
		a, b := legs[i], legs[j]
		if !a.JournalDate.Equal(b.JournalDate) {
			return a.JournalDate.Before(b.JournalDate)
		}
		ja, jb := s.data.journals[a.JournalID], s.data.journals[b.JournalID]
		if !ja.CreatedAt.Equal(jb.CreatedAt) {
			return ja.CreatedAt.Before(jb.CreatedAt)
		}
		if a.JournalID != b.JournalID {
			return a.JournalID < b.JournalID
		}
		return a.OrderSequence < b.OrderSequence
	})
	return legs, nil
}

// CountActiveLineItemsByCategory implements portsrepo.LineItemReader.
func (s *Store) CountActiveLineItemsByCategory(_ context.Context, categoryID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, li := range s.data.lineItems {
		if li.TransactionCategoryID == categoryID && !li.DeleteFlag {
			count++
		}
	}
	return count, nil
}

// SaveJournal implements portsrepo.JournalWriter.
func (s *Store) SaveJournal(_ context.Context, journal domain.Journal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := refKey{referenceType: journal.PostingReferenceType, referenceID: journal.ReferenceID}
	if existing, ok := s.data.journalByRef[key]; ok && existing != journal.ID {
		return fmt.Errorf("%w: journal for %s %d", apperrors.ErrDuplicate, journal.PostingReferenceType, journal.ReferenceID)
	}

	legs := journal.LineItems
	journal.LineItems = nil
	s.data.journals[journal.ID] = journal
	s.data.journalByRef[key] = journal.ID
	for _, li := range legs {
		if owner, ok := s.data.lineItems[li.ID]; ok && owner.JournalID != journal.ID {
			return fmt.Errorf("%w: line item %s belongs to journal %s", apperrors.ErrDuplicate, li.ID, owner.JournalID)
		}
		li.JournalID = journal.ID
		li.JournalDate = journal.JournalDate
		s.data.lineItems[li.ID] = li
	}
	return nil
}
