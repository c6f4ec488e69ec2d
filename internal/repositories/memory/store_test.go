package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCategory(t *testing.T, s *memory.Store, coaCode string, class domain.Classification, code string) domain.TransactionCategory {
	t.Helper()
	ctx := context.Background()
	coa, err := s.FindChartOfAccountByCode(ctx, coaCode)
	if err != nil {
		coa = &domain.ChartOfAccount{Code: coaCode, Name: coaCode, Classification: class}
		require.NoError(t, s.SaveChartOfAccount(ctx, coa))
	}
	cat := domain.TransactionCategory{Name: code, Code: code, ChartOfAccountID: coa.ID, VersionNumber: 1, Selectable: true}
	require.NoError(t, s.SaveCategory(ctx, &cat))
	return cat
}

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestWithinTransaction_RollsBackOnError(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	bank := seedCategory(t, s, domain.COABank, domain.Asset, domain.CodeBank)

	boom := errors.New("boom")
	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		snap := &domain.TransactionCategoryClosingBalance{TransactionCategoryID: bank.ID, ClosingBalanceDate: day(1)}
		require.NoError(t, s.SaveSnapshot(ctx, snap))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.FindSnapshot(ctx, bank.ID, day(1))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWithinTransaction_NestedJoinsOuter(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	bank := seedCategory(t, s, domain.COABank, domain.Asset, domain.CodeBank)

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		inner := s.WithinTransaction(ctx, func(ctx context.Context) error {
			return s.SaveSnapshot(ctx, &domain.TransactionCategoryClosingBalance{TransactionCategoryID: bank.ID, ClosingBalanceDate: day(2)})
		})
		require.NoError(t, inner)
		return apperrors.ErrConflict
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = s.FindSnapshot(ctx, bank.ID, day(2))
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "the outer failure must undo the inner write")
}

func TestCategories_OptimisticLocking(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	cat := seedCategory(t, s, domain.COAOperatingExpense, domain.Expense, "05-02-010")

	cat.Name = "Rent"
	cat.VersionNumber = 2
	require.NoError(t, s.UpdateCategory(ctx, cat, 1))

	err := s.UpdateCategory(ctx, cat, 1)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	err = s.SoftDeleteCategory(ctx, cat.ID, 1, "u1", day(3))
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	require.NoError(t, s.SoftDeleteCategory(ctx, cat.ID, 2, "u1", day(3)))

	_, err = s.FindCategoryByCode(ctx, "05-02-010")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	found, err := s.FindCategoryByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.True(t, found.DeleteFlag)
	assert.Equal(t, 3, found.VersionNumber)
	assert.Equal(t, domain.Expense, found.Classification)

	codes, err := s.ListCategoryCodes(ctx, cat.ChartOfAccountID)
	require.NoError(t, err)
	assert.Equal(t, []string{"05-02-010"}, codes, "deleted codes are never reused")
}

func TestCategories_DuplicateCode(t *testing.T) {
	s := memory.New()
	seedCategory(t, s, domain.COABank, domain.Asset, domain.CodeBank)
	dup := domain.TransactionCategory{Code: domain.CodeBank, ChartOfAccountID: 1}
	assert.ErrorIs(t, s.SaveCategory(context.Background(), &dup), apperrors.ErrDuplicate)
}

func TestListCategories_Filters(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	ar := seedCategory(t, s, domain.COAAccountsReceivable, domain.Asset, domain.CodeAccountsReceivable)
	child := domain.TransactionCategory{Code: "01-01-002", ChartOfAccountID: ar.ChartOfAccountID, ParentID: &ar.ID}
	require.NoError(t, s.SaveCategory(ctx, &child))
	seedCategory(t, s, domain.COABank, domain.Asset, domain.CodeBank)

	got, err := s.ListCategories(ctx, portsrepo.CategoryFilter{ChartOfAccountCode: domain.COAAccountsReceivable})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.CodeAccountsReceivable, got[0].Code)

	got, err = s.ListCategories(ctx, portsrepo.CategoryFilter{SelectableOnly: true})
	require.NoError(t, err)
	assert.Len(t, got, 2, "the child is not selectable")

	got, err = s.ListCategories(ctx, portsrepo.CategoryFilter{ParentIDs: []int64{ar.ID}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, child.ID, got[0].ID)
}

func TestPartyRelations_Duplicate(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	rel := &domain.PartyCategoryRelation{PartyKind: domain.PartyContact, PartyID: 7, Role: domain.RoleReceivable, TransactionCategoryID: 3}
	require.NoError(t, s.SavePartyCategoryRelation(ctx, rel))
	assert.NotZero(t, rel.ID)

	dup := *rel
	assert.ErrorIs(t, s.SavePartyCategoryRelation(ctx, &dup), apperrors.ErrDuplicate)

	found, err := s.FindPartyCategory(ctx, domain.PartyContact, 7, domain.RoleReceivable)
	require.NoError(t, err)
	assert.Equal(t, int64(3), found.TransactionCategoryID)

	_, err = s.FindPartyCategory(ctx, domain.PartyContact, 7, domain.RolePayable)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func leg(id string, categoryID int64, seq int, debit, credit int64) domain.JournalLineItem {
	return domain.JournalLineItem{
		ID:                    id,
		TransactionCategoryID: categoryID,
		DebitAmount:           decimal.NewFromInt(debit),
		CreditAmount:          decimal.NewFromInt(credit),
		ReferenceType:         domain.RefInvoice,
		ReferenceID:           42,
		ExchangeRate:          decimal.NewFromInt(1),
		OrderSequence:         seq,
	}
}

func TestJournals_SaveAndRead(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	ar := seedCategory(t, s, domain.COAAccountsReceivable, domain.Asset, domain.CodeAccountsReceivable)
	sales := seedCategory(t, s, domain.COAIncome, domain.Income, domain.CodeSales)

	journal := domain.Journal{
		ID:                   "j1",
		JournalDate:          day(5),
		PostingReferenceType: domain.RefInvoice,
		ReferenceID:          42,
		LineItems: []domain.JournalLineItem{
			leg("l2", sales.ID, 2, 0, 100),
			leg("l1", ar.ID, 1, 100, 0),
		},
	}
	require.NoError(t, s.SaveJournal(ctx, journal))

	got, err := s.FindJournalByReference(ctx, domain.RefInvoice, 42)
	require.NoError(t, err)
	require.Len(t, got.LineItems, 2)
	assert.Equal(t, "l1", got.LineItems[0].ID)
	assert.Equal(t, "j1", got.LineItems[0].JournalID)
	assert.True(t, got.LineItems[0].JournalDate.Equal(day(5)))

	// Soft-deleting a leg hides it from active reads but not from the journal.
	deleted := got.LineItems[1]
	deleted.DeleteFlag = true
	got.LineItems[1] = deleted
	require.NoError(t, s.SaveJournal(ctx, *got))

	active, err := s.FindActiveLineItemsByReference(ctx, domain.RefInvoice, 42)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	again, err := s.FindJournalByID(ctx, "j1")
	require.NoError(t, err)
	assert.Len(t, again.LineItems, 2)

	count, err := s.CountActiveLineItemsByCategory(ctx, sales.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	other := domain.Journal{ID: "j2", PostingReferenceType: domain.RefInvoice, ReferenceID: 42}
	assert.ErrorIs(t, s.SaveJournal(ctx, other), apperrors.ErrDuplicate)
}

func TestListLineItems_DateBounds(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	bank := seedCategory(t, s, domain.COABank, domain.Asset, domain.CodeBank)

	for i, d := range []int{1, 5, 10} {
		j := domain.Journal{
			ID:                   string(rune('a' + i)),
			JournalDate:          day(d),
			PostingReferenceType: domain.RefManual,
			ReferenceID:          int64(i + 1),
			LineItems:            []domain.JournalLineItem{leg(string(rune('x'+i)), bank.ID, 1, int64(d), 0)},
		}
		require.NoError(t, s.SaveJournal(ctx, j))
	}

	start, end := day(5), day(10)
	legs, err := s.ListLineItems(ctx, portsrepo.LineItemFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Len(t, legs, 2)

	legs, err = s.ListLineItems(ctx, portsrepo.LineItemFilter{AfterDate: &legs[0].JournalDate, BeforeDate: &end})
	require.NoError(t, err)
	assert.Empty(t, legs)

	before := day(5)
	legs, err = s.ListLineItems(ctx, portsrepo.LineItemFilter{BeforeDate: &before, ChartOfAccountCode: domain.COABank})
	require.NoError(t, err)
	require.Len(t, legs, 1)
	assert.True(t, legs[0].DebitAmount.Equal(decimal.NewFromInt(1)))
}

func TestSnapshots_Ordering(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	for _, d := range []int{3, 1, 7} {
		require.NoError(t, s.SaveSnapshot(ctx, &domain.TransactionCategoryClosingBalance{
			TransactionCategoryID: 1,
			ClosingBalanceDate:    day(d).Add(13 * time.Hour),
			ClosingBalance:        decimal.NewFromInt(int64(d)),
		}))
	}

	prev, err := s.FindLastSnapshotBefore(ctx, 1, day(7))
	require.NoError(t, err)
	assert.True(t, prev.ClosingBalanceDate.Equal(day(3)))

	_, err = s.FindLastSnapshotBefore(ctx, 1, day(1))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	after, err := s.ListSnapshotsAfter(ctx, 1, day(1))
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.True(t, after[0].ClosingBalanceDate.Equal(day(3)))

	all, err := s.ListSnapshots(ctx, portsrepo.SnapshotFilter{CategoryIDs: []int64{1}})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].ClosingBalanceDate.Equal(day(7)), "newest first")

	// Saving the same (category, day) updates in place.
	snap, err := s.FindSnapshot(ctx, 1, day(3))
	require.NoError(t, err)
	id := snap.ID
	snap.ClosingBalance = decimal.NewFromInt(30)
	require.NoError(t, s.SaveSnapshot(ctx, snap))
	assert.Equal(t, id, snap.ID)
}
