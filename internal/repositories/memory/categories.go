package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// FindChartOfAccountByID implements portsrepo.ChartOfAccountReader.
func (s *Store) FindChartOfAccountByID(_ context.Context, id int64) (*domain.ChartOfAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	coa, ok := s.data.chartOfAccounts[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("chart of account %d", id))
	}
	return &coa, nil
}

// FindChartOfAccountByCode implements portsrepo.ChartOfAccountReader.
func (s *Store) FindChartOfAccountByCode(_ context.Context, code string) (*domain.ChartOfAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, coa := range s.data.chartOfAccounts {
		if coa.Code == code {
			return &coa, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("chart of account %s", code))
}

// ListChartOfAccounts implements portsrepo.ChartOfAccountReader.
func (s *Store) ListChartOfAccounts(_ context.Context) ([]domain.ChartOfAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ChartOfAccount, 0, len(s.data.chartOfAccounts))
	for _, coa := range s.data.chartOfAccounts {
		out = append(out, coa)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// SaveChartOfAccount implements portsrepo.ChartOfAccountWriter.
func (s *Store) SaveChartOfAccount(_ context.Context, coa *domain.ChartOfAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.data.chartOfAccounts {
		if existing.Code == coa.Code {
			coa.ID = id
			s.data.chartOfAccounts[id] = *coa
			return nil
		}
	}
	s.data.nextChartOfAccountID++
	coa.ID = s.data.nextChartOfAccountID
	s.data.chartOfAccounts[coa.ID] = *coa
	return nil
}

// withClassification joins a category with its chart of account. Caller holds s.mu.
func (s *Store) withClassification(cat domain.TransactionCategory) domain.CategoryWithClassification {
	coa := s.data.chartOfAccounts[cat.ChartOfAccountID]
	return domain.CategoryWithClassification{
		TransactionCategory: cat,
		ChartOfAccountCode:  coa.Code,
		Classification:      coa.Classification,
	}
}

// FindCategoryByID implements portsrepo.TransactionCategoryReader.
func (s *Store) FindCategoryByID(_ context.Context, id int64) (*domain.CategoryWithClassification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cat, ok := s.data.categories[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction category %d", id))
	}
	out := s.withClassification(cat)
	return &out, nil
}

// FindCategoryByCode implements portsrepo.TransactionCategoryReader.
func (s *Store) FindCategoryByCode(_ context.Context, code string) (*domain.CategoryWithClassification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, cat := range s.data.categories {
		if cat.Code == code && !cat.DeleteFlag {
			out := s.withClassification(cat)
			return &out, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction category %s", code))
}

// ListCategories implements portsrepo.TransactionCategoryReader.
func (s *Store) ListCategories(_ context.Context, filter portsrepo.CategoryFilter) ([]domain.CategoryWithClassification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.CategoryWithClassification{}
	for _, cat := range s.data.categories {
		if cat.DeleteFlag && !filter.IncludeDeleted {
			continue
		}
		if filter.SelectableOnly && !cat.Selectable {
			continue
		}
		if len(filter.IDs) > 0 && !slices.Contains(filter.IDs, cat.ID) {
			continue
		}
		if len(filter.ParentIDs) > 0 && (cat.ParentID == nil || !slices.Contains(filter.ParentIDs, *cat.ParentID)) {
			continue
		}
		withCOA := s.withClassification(cat)
		if filter.ChartOfAccountCode != "" && withCOA.ChartOfAccountCode != filter.ChartOfAccountCode {
			continue
		}
		out = append(out, withCOA)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// ListCategoryCodes implements portsrepo.TransactionCategoryReader.
func (s *Store) ListCategoryCodes(_ context.Context, chartOfAccountID int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var codes []string
	for _, cat := range s.data.categories {
		if cat.ChartOfAccountID == chartOfAccountID {
			codes = append(codes, cat.Code)
		}
	}
	sort.Strings(codes)
	return codes, nil
}

// SaveCategory implements portsrepo.TransactionCategoryWriter.
func (s *Store) SaveCategory(_ context.Context, category *domain.TransactionCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.data.categories {
		if existing.Code == category.Code {
			return fmt.Errorf("%w: transaction category code %s", apperrors.ErrDuplicate, category.Code)
		}
	}
	s.data.nextCategoryID++
	category.ID = s.data.nextCategoryID
	s.data.categories[category.ID] = *category
	return nil
}

// UpdateCategory implements portsrepo.TransactionCategoryWriter.
func (s *Store) UpdateCategory(_ context.Context, category domain.TransactionCategory, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.data.categories[category.ID]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("transaction category %d", category.ID))
	}
	if stored.VersionNumber != expectedVersion {
		return fmt.Errorf("%w: transaction category %d is at version %d, not %d",
			apperrors.ErrConflict, category.ID, stored.VersionNumber, expectedVersion)
	}
	s.data.categories[category.ID] = category
	return nil
}

// SoftDeleteCategory implements portsrepo.TransactionCategoryWriter.
func (s *Store) SoftDeleteCategory(_ context.Context, id int64, expectedVersion int, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.data.categories[id]
	if !ok || stored.DeleteFlag {
		return apperrors.NewNotFoundError(fmt.Sprintf("transaction category %d", id))
	}
	if stored.VersionNumber != expectedVersion {
		return fmt.Errorf("%w: transaction category %d is at version %d, not %d",
			apperrors.ErrConflict, id, stored.VersionNumber, expectedVersion)
	}
	stored.DeleteFlag = true
	stored.VersionNumber++
	stored.Touch(userID, now)
	s.data.categories[id] = stored
	return nil
}

// FindPartyCategory implements portsrepo.PartyRelationReader.
func (s *Store) FindPartyCategory(_ context.Context, kind domain.PartyKind, partyID int64, role domain.PartyRole) (*domain.PartyCategoryRelation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rel, ok := s.data.relations[partyKey{kind: kind, partyID: partyID, role: role}]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("%s %d %s category", kind, partyID, role))
	}
	return &rel, nil
}

// SavePartyCategoryRelation implements portsrepo.PartyRelationWriter.
func (s *Store) SavePartyCategoryRelation(_ context.Context, relation *domain.PartyCategoryRelation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := partyKey{kind: relation.PartyKind, partyID: relation.PartyID, role: relation.Role}
	if _, ok := s.data.relations[key]; ok {
		return fmt.Errorf("%w: %s %d already has a %s category",
			apperrors.ErrDuplicate, relation.PartyKind, relation.PartyID, relation.Role)
	}
	s.data.nextRelationID++
	relation.ID = s.data.nextRelationID
	s.data.relations[key] = *relation
	return nil
}
