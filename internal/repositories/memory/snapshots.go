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

func snapshotNotFound(categoryID int64, date time.Time) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("closing balance of category %d at %s", categoryID, dateKey(date)))
}

// FindSnapshot implements portsrepo.ClosingBalanceReader.
func (s *Store) FindSnapshot(_ context.Context, categoryID int64, date time.Time) (*domain.TransactionCategoryClosingBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.data.snapshots[snapshotKey{categoryID: categoryID, date: dateKey(date)}]
	if !ok {
		return nil, snapshotNotFound(categoryID, date)
	}
	return &snap, nil
}

// FindLastSnapshotBefore implements portsrepo.ClosingBalanceReader.
func (s *Store) FindLastSnapshotBefore(_ context.Context, categoryID int64, date time.Time) (*domain.TransactionCategoryClosingBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	limit := domain.DateOnly(date)
	var found *domain.TransactionCategoryClosingBalance
	for _, snap := range s.data.snapshots {
		if snap.TransactionCategoryID != categoryID || !snap.ClosingBalanceDate.Before(limit) {
			continue
		}
		if found == nil || snap.ClosingBalanceDate.After(found.ClosingBalanceDate) {
			found = &snap
		}
	}
	if found == nil {
		return nil, snapshotNotFound(categoryID, date)
	}
	return found, nil
}

// ListSnapshotsAfter implements portsrepo.ClosingBalanceReader.
func (s *Store) ListSnapshotsAfter(_ context.Context, categoryID int64, date time.Time) ([]domain.TransactionCategoryClosingBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	limit := domain.DateOnly(date)
	out := []domain.TransactionCategoryClosingBalance{}
	for _, snap := range s.data.snapshots {
		if snap.TransactionCategoryID == categoryID && snap.ClosingBalanceDate.After(limit) {
			out = append(out, snap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClosingBalanceDate.Before(out[j].ClosingBalanceDate) })
	return out, nil
}

// ListSnapshots implements portsrepo.ClosingBalanceReader.
func (s *Store) ListSnapshots(_ context.Context, filter portsrepo.SnapshotFilter) ([]domain.TransactionCategoryClosingBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.TransactionCategoryClosingBalance{}
	for _, snap := range s.data.snapshots {
		if len(filter.CategoryIDs) > 0 && !slices.Contains(filter.CategoryIDs, snap.TransactionCategoryID) {
			continue
		}
		if filter.StartDate != nil && snap.ClosingBalanceDate.Before(domain.DateOnly(*filter.StartDate)) {
			continue
		}
		if filter.EndDate != nil && snap.ClosingBalanceDate.After(domain.DateOnly(*filter.EndDate)) {
			continue
		}
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ClosingBalanceDate.Equal(out[j].ClosingBalanceDate) {
			return out[i].ClosingBalanceDate.After(out[j].ClosingBalanceDate)
		}
		return out[i].TransactionCategoryID < out[j].TransactionCategoryID
	})
	return out, nil
}

// SaveSnapshot implements portsrepo.ClosingBalanceWriter.
func (s *Store) SaveSnapshot(_ context.Context, snapshot *domain.TransactionCategoryClosingBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot.ClosingBalanceDate = domain.DateOnly(snapshot.ClosingBalanceDate)
	key := snapshotKey{categoryID: snapshot.TransactionCategoryID, date: dateKey(snapshot.ClosingBalanceDate)}
	if existing, ok := s.data.snapshots[key]; ok {
		snapshot.ID = existing.ID
	} else {
		s.data.nextSnapshotID++
		snapshot.ID = s.data.nextSnapshotID
	}
	s.data.snapshots[key] = *snapshot
	return nil
}
