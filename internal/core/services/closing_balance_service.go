package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// closingBalanceService maintains per-category, per-date balance snapshots.
type closingBalanceService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	snapshotRepo portsrepo.ClosingBalanceRepositoryFacade
	categoryRepo portsrepo.TransactionCategoryReader
	lineItemRepo portsrepo.LineItemReader
}

// ClosingBalanceServiceOption is a functional option for configuring the closing balance service
type ClosingBalanceServiceOption func(*closingBalanceService)

// WithClosingBalanceClock sets the clock used to stamp snapshots.
func WithClosingBalanceClock(now func() time.Time) ClosingBalanceServiceOption {
	return func(s *closingBalanceService) {
		s.Now = now
	}
}

// NewClosingBalanceService creates the closing balance ledger.
func NewClosingBalanceService(
	txManager portsrepo.TransactionManager,
	snapshotRepo portsrepo.ClosingBalanceRepositoryFacade,
	categoryRepo portsrepo.TransactionCategoryReader,
	lineItemRepo portsrepo.LineItemReader,
	options ...ClosingBalanceServiceOption,
) portssvc.ClosingBalanceSvcFacade {
	svc := &closingBalanceService{
		txManager:    txManager,
		snapshotRepo: snapshotRepo,
		categoryRepo: categoryRepo,
		lineItemRepo: lineItemRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ClosingBalanceSvcFacade = (*closingBalanceService)(nil)

// UpdateClosingBalance applies a leg's movement to its category snapshots.
func (s *closingBalanceService) UpdateClosingBalance(ctx context.Context, lineItem domain.JournalLineItem) error {
	return s.applyMovement(ctx, lineItem, false)
}

// RevertClosingBalance removes a previously applied leg's movement.
func (s *closingBalanceService) RevertClosingBalance(ctx context.Context, lineItem domain.JournalLineItem) error {
	return s.applyMovement(ctx, lineItem, true)
}

// applyMovement adds the signed leg amount to the snapshot of its journal date and shifts
// every later snapshot by the same amount, so back-dated legs keep the chain continuous.
func (s *closingBalanceService) applyMovement(ctx context.Context, li domain.JournalLineItem, revert bool) error {
	category, err := s.categoryRepo.FindCategoryByID(ctx, li.TransactionCategoryID)
	if err != nil {
		return fmt.Errorf("failed to load category %d: %w", li.TransactionCategoryID, err)
	}
	amount, err := accounting.SignedLegAmount(li, *category)
	if err != nil {
		return err
	}
	if revert {
		amount = amount.Neg()
	}
	if amount.IsZero() {
		return nil
	}
	bankAmount := decimal.Zero
	if category.IsBank() {
		bankAmount = accounting.BankCurrencyAmount(amount, li.ExchangeRate)
	}

	now := s.now()
	date := domain.DateOnly(li.JournalDate)
	snapshot, err := s.snapshotRepo.FindSnapshot(ctx, category.ID, date)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		snapshot, err = s.openSnapshot(ctx, category.ID, date, now)
		if err != nil {
			return err
		}
	case err != nil:
		return fmt.Errorf("failed to load closing balance of category %d: %w", category.ID, err)
	}

	snapshot.ClosingBalance = snapshot.ClosingBalance.Add(amount)
	snapshot.BankAccountClosingBalance = snapshot.BankAccountClosingBalance.Add(bankAmount)
	snapshot.LastUpdatedAt = now
	if err := s.snapshotRepo.SaveSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save closing balance of category %d: %w", category.ID, err)
	}
	closingBalanceUpdatesTotal.Inc()

	later, err := s.snapshotRepo.ListSnapshotsAfter(ctx, category.ID, date)
	if err != nil {
		return fmt.Errorf("failed to list later closing balances of category %d: %w", category.ID, err)
	}
	for i := range later {
		snap := &later[i]
		snap.OpeningBalance = snap.OpeningBalance.Add(amount)
		snap.ClosingBalance = snap.ClosingBalance.Add(amount)
		snap.BankAccountClosingBalance = snap.BankAccountClosingBalance.Add(bankAmount)
		snap.LastUpdatedAt = now
		if err := s.snapshotRepo.SaveSnapshot(ctx, snap); err != nil {
			return fmt.Errorf("failed to shift closing balance of category %d on %s: %w",
				category.ID, snap.ClosingBalanceDate.Format(time.DateOnly), err)
		}
		closingBalanceUpdatesTotal.Inc()
	}
	if len(later) > 0 {
		s.LogDebug(ctx, "Shifted later closing balances for back-dated leg",
			slog.Int64("category_id", category.ID),
			slog.String("date", date.Format(time.DateOnly)),
			slog.Int("snapshots", len(later)))
	}
	return nil
}

// openSnapshot builds an unsaved snapshot for date carrying forward the last closing before it.
func (s *closingBalanceService) openSnapshot(ctx context.Context, categoryID int64, date, now time.Time) (*domain.TransactionCategoryClosingBalance, error) {
	snapshot := &domain.TransactionCategoryClosingBalance{
		TransactionCategoryID:     categoryID,
		OpeningBalance:            decimal.Zero,
		ClosingBalance:            decimal.Zero,
		BankAccountClosingBalance: decimal.Zero,
		ClosingBalanceDate:        date,
		CreatedDate:               now,
	}
	prev, err := s.snapshotRepo.FindLastSnapshotBefore(ctx, categoryID, date)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to load previous closing balance of category %d: %w", categoryID, err)
	default:
		snapshot.OpeningBalance = prev.ClosingBalance
		snapshot.ClosingBalance = prev.ClosingBalance
		snapshot.BankAccountClosingBalance = prev.BankAccountClosingBalance
	}
	return snapshot, nil
}

// GetList computes the opening and closing balance of each selected category over the window.
// Opening is the last snapshot before the window plus any legs between that snapshot and the
// start; closing adds the legs inside the window. Nothing is written.
func (s *closingBalanceService) GetList(ctx context.Context, req domain.ReportRequest) ([]domain.CategoryBalance, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	categories, err := reportCategories(ctx, s.categoryRepo, req)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return []domain.CategoryBalance{}, nil
	}

	ids := categoryIDs(categories)
	inWindow, err := s.lineItemRepo.ListLineItems(ctx, portsrepo.LineItemFilter{
		StartDate:   &req.StartDate,
		EndDate:     &req.EndDate,
		CategoryIDs: ids,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}
	byCategory := groupByCategory(inWindow)

	out := make([]domain.CategoryBalance, 0, len(categories))
	for _, cat := range categories {
		opening, err := s.openingBalance(ctx, cat, req.StartDate)
		if err != nil {
			return nil, err
		}
		movement, err := accounting.SumSigned(byCategory[cat.ID], cat)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.CategoryBalance{
			Category:       cat,
			StartDate:      req.StartDate,
			EndDate:        req.EndDate,
			OpeningBalance: opening,
			NetMovement:    movement,
			ClosingBalance: opening.Add(movement),
		})
	}
	return out, nil
}

// openingBalance is the balance of cat at the start of day start.
func (s *closingBalanceService) openingBalance(ctx context.Context, cat domain.CategoryWithClassification, start time.Time) (decimal.Decimal, error) {
	opening := decimal.Zero
	filter := portsrepo.LineItemFilter{CategoryIDs: []int64{cat.ID}, BeforeDate: &start}

	prev, err := s.snapshotRepo.FindLastSnapshotBefore(ctx, cat.ID, start)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
	case err != nil:
		return decimal.Zero, fmt.Errorf("failed to load closing balance of category %d: %w", cat.ID, err)
	default:
		opening = prev.ClosingBalance
		after := prev.ClosingBalanceDate
		filter.AfterDate = &after
	}

	gap, err := s.lineItemRepo.ListLineItems(ctx, filter)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list line items of category %d: %w", cat.ID, err)
	}
	movement, err := accounting.SumSigned(gap, cat)
	if err != nil {
		return decimal.Zero, err
	}
	return opening.Add(movement), nil
}

// ListSnapshots returns stored snapshots in the window, newest first.
func (s *closingBalanceService) ListSnapshots(ctx context.Context, req domain.ReportRequest) ([]domain.TransactionCategoryClosingBalance, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	filter := portsrepo.SnapshotFilter{StartDate: &req.StartDate, EndDate: &req.EndDate}
	if len(req.CategoryIDs) > 0 || req.ChartOfAccountCode != "" {
		categories, err := reportCategories(ctx, s.categoryRepo, req)
		if err != nil {
			return nil, err
		}
		if len(categories) == 0 {
			return []domain.TransactionCategoryClosingBalance{}, nil
		}
		filter.CategoryIDs = categoryIDs(categories)
	}
	snapshots, err := s.snapshotRepo.ListSnapshots(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list closing balances: %w", err)
	}
	return snapshots, nil
}

// MatchClosingBalanceForReconcile returns the bank-currency balance of the last snapshot before date.
func (s *closingBalanceService) MatchClosingBalanceForReconcile(ctx context.Context, date time.Time, categoryID int64) (decimal.Decimal, error) {
	if categoryID <= 0 {
		return decimal.Zero, fmt.Errorf("%w: category id must be positive", apperrors.ErrValidation)
	}
	snapshot, err := s.snapshotRepo.FindLastSnapshotBefore(ctx, categoryID, domain.DateOnly(date))
	if errors.Is(err, apperrors.ErrNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load closing balance of category %d: %w", categoryID, err)
	}
	return snapshot.BankAccountClosingBalance, nil
}

// RebuildClosingBalances recomputes every snapshot of a category from its leg history.
// Dates that still have a snapshot but no legs keep it, carrying the running balance.
func (s *closingBalanceService) RebuildClosingBalances(ctx context.Context, categoryID int64) (int, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to load category %d: %w", categoryID, err)
	}

	written := 0
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		legs, err := s.lineItemRepo.ListLineItems(ctx, portsrepo.LineItemFilter{CategoryIDs: []int64{categoryID}})
		if err != nil {
			return fmt.Errorf("failed to list line items: %w", err)
		}
		existing, err := s.snapshotRepo.ListSnapshots(ctx, portsrepo.SnapshotFilter{CategoryIDs: []int64{categoryID}})
		if err != nil {
			return fmt.Errorf("failed to list closing balances: %w", err)
		}

		type dayMovement struct {
			amount, bank decimal.Decimal
		}
		days := map[time.Time]*dayMovement{}
		for _, snap := range existing {
			days[domain.DateOnly(snap.ClosingBalanceDate)] = &dayMovement{amount: decimal.Zero, bank: decimal.Zero}
		}
		for _, li := range legs {
			signed, err := accounting.SignedLegAmount(li, *category)
			if err != nil {
				return err
			}
			day := domain.DateOnly(li.JournalDate)
			m, ok := days[day]
			if !ok {
				m = &dayMovement{amount: decimal.Zero, bank: decimal.Zero}
				days[day] = m
			}
			m.amount = m.amount.Add(signed)
			if category.IsBank() {
				m.bank = m.bank.Add(accounting.BankCurrencyAmount(signed, li.ExchangeRate))
			}
		}

		dates := make([]time.Time, 0, len(days))
		for d := range days {
			dates = append(dates, d)
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		now := s.now()
		running, runningBank := decimal.Zero, decimal.Zero
		for _, d := range dates {
			snap, err := s.snapshotRepo.FindSnapshot(ctx, categoryID, d)
			if errors.Is(err, apperrors.ErrNotFound) {
				snap = &domain.TransactionCategoryClosingBalance{
					TransactionCategoryID: categoryID,
					ClosingBalanceDate:    d,
					CreatedDate:           now,
				}
			} else if err != nil {
				return fmt.Errorf("failed to load closing balance on %s: %w", d.Format(time.DateOnly), err)
			}
			snap.OpeningBalance = running
			running = running.Add(days[d].amount)
			runningBank = runningBank.Add(days[d].bank)
			snap.ClosingBalance = running
			snap.BankAccountClosingBalance = runningBank
			snap.LastUpdatedAt = now
			if err := s.snapshotRepo.SaveSnapshot(ctx, snap); err != nil {
				return fmt.Errorf("failed to save closing balance on %s: %w", d.Format(time.DateOnly), err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to rebuild closing balances", slog.Int64("category_id", categoryID))
		return 0, err
	}
	s.LogInfo(ctx, "Rebuilt closing balances", slog.Int64("category_id", categoryID), slog.Int("snapshots", written))
	return written, nil
}

// reportCategories resolves the categories a report covers: the requested ids (and their
// children when asked), narrowed to a chart of account code, or every category.
func reportCategories(ctx context.Context, repo portsrepo.TransactionCategoryReader, req domain.ReportRequest) ([]domain.CategoryWithClassification, error) {
	filter := portsrepo.CategoryFilter{ChartOfAccountCode: req.ChartOfAccountCode, IDs: req.CategoryIDs}
	categories, err := repo.ListCategories(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if req.IncludeChildren && len(req.CategoryIDs) > 0 {
		children, err := repo.ListCategories(ctx, portsrepo.CategoryFilter{
			ChartOfAccountCode: req.ChartOfAccountCode,
			ParentIDs:          req.CategoryIDs,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list child categories: %w", err)
		}
		seen := make(map[int64]bool, len(categories))
		for _, c := range categories {
			seen[c.ID] = true
		}
		for _, c := range children {
			if !seen[c.ID] {
				categories = append(categories, c)
				seen[c.ID] = true
			}
		}
		sort.Slice(categories, func(i, j int) bool { return categories[i].Code < categories[j].Code })
	}
	return categories, nil
}

func categoryIDs(categories []domain.CategoryWithClassification) []int64 {
	ids := make([]int64, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	return ids
}

func groupByCategory(items []domain.JournalLineItem) map[int64][]domain.JournalLineItem {
	out := make(map[int64][]domain.JournalLineItem)
	for _, li := range items {
		out[li.TransactionCategoryID] = append(out[li.TransactionCategoryID], li)
	}
	return out
}
