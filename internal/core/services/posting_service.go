package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// postingService implements the posting dispatcher and the reversal engine.
type postingService struct {
	BaseService
	txManager      portsrepo.TransactionManager
	journalRepo    portsrepo.JournalRepositoryFacade
	closingBalance portssvc.ClosingBalanceWriterSvc
	resolver       *categoryResolver
	strategies     map[domain.PostingReferenceType]postingStrategy
	baseCurrency   string
}

// PostingServiceOption is a functional option for configuring the posting service
type PostingServiceOption func(*postingService)

// WithPostingStrategy registers or replaces the strategy of a posting kind.
func WithPostingStrategy(referenceType domain.PostingReferenceType, strategy postingStrategy) PostingServiceOption {
	return func(s *postingService) {
		s.strategies[referenceType] = strategy
	}
}

// WithPostingClock sets the clock used for audit fields and reversal dates.
func WithPostingClock(now func() time.Time) PostingServiceOption {
	return func(s *postingService) {
		s.Now = now
	}
}

// WithBaseCurrency sets the currency code stamped on legs that do not name one.
func WithBaseCurrency(code string) PostingServiceOption {
	return func(s *postingService) {
		s.baseCurrency = code
	}
}

// NewPostingService creates the posting dispatcher.
func NewPostingService(
	txManager portsrepo.TransactionManager,
	journalRepo portsrepo.JournalRepositoryFacade,
	partyRepo portsrepo.PartyRelationReader,
	categorySvc portssvc.CategoryReaderSvc,
	closingBalanceSvc portssvc.ClosingBalanceWriterSvc,
	options ...PostingServiceOption,
) portssvc.PostingSvcFacade {
	svc := &postingService{
		txManager:      txManager,
		journalRepo:    journalRepo,
		closingBalance: closingBalanceSvc,
		resolver:       &categoryResolver{categories: categorySvc, parties: partyRepo},
		strategies:     defaultPostingStrategies(),
		baseCurrency:   "AED",
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure postingService implements the PostingSvcFacade interface
var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// journalHeader holds the journal fields a posting sets besides its legs.
type journalHeader struct {
	journalDate     time.Time
	transactionDate time.Time
	referenceNumber string
	description     string
	reversal        bool
}

// Post builds the legs of req, checks they balance and writes them with their closing balance movements.
func (s *postingService) Post(ctx context.Context, req domain.PostingRequest, actorUserID string) (*domain.Journal, error) {
	start := time.Now()
	refType := req.ReferenceType.String()
	defer func() {
		postingDuration.WithLabelValues(refType).Observe(time.Since(start).Seconds())
	}()

	if err := req.Validate(); err != nil {
		postingsTotal.WithLabelValues(refType, outcomeFailed).Inc()
		return nil, err
	}
	if !req.ReferenceType.IsForward() {
		postingsTotal.WithLabelValues(refType, outcomeFailed).Inc()
		return nil, fmt.Errorf("%w: %s tags reversals and cannot be posted directly", apperrors.ErrValidation, req.ReferenceType)
	}
	strategy, ok := s.strategies[req.ReferenceType]
	if !ok {
		postingsTotal.WithLabelValues(refType, outcomeFailed).Inc()
		return nil, fmt.Errorf("%w: no posting rule for %s", apperrors.ErrValidation, req.ReferenceType)
	}

	var journal *domain.Journal
	outcome := outcomeEmpty
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var legs []domain.JournalLineItem
		if !isEmptyPosting(req) {
			plan, err := strategy(ctx, &postingInput{req: req, resolver: s.resolver})
			if err != nil {
				return err
			}
			legs = s.buildLegs(req, plan)
		}
		if len(legs) == 0 {
			cleared, err := s.clearJournal(ctx, req.ReferenceType, req.ReferenceID, actorUserID)
			if cleared {
				outcome = outcomeCleared
			}
			return err
		}
		header := journalHeader{
			journalDate:     domain.DateOnly(req.JournalDate),
			transactionDate: req.JournalDate,
			referenceNumber: req.ReferenceNumber,
			description:     req.Description,
		}
		var changed bool
		var err error
		journal, changed, err = s.writeJournal(ctx, req.ReferenceType, req.ReferenceID, header, legs, actorUserID)
		if changed {
			outcome = outcomePosted
		} else {
			outcome = outcomeUnchanged
		}
		return err
	})
	if err != nil {
		postingsTotal.WithLabelValues(refType, outcomeFailed).Inc()
		s.LogError(ctx, err, "Failed to post journal",
			referenceAttrs(req.ReferenceType, req.ReferenceID)...)
		return nil, err
	}
	postingsTotal.WithLabelValues(refType, outcome).Inc()
	switch {
	case outcome == outcomeEmpty:
		s.LogDebug(ctx, "Nothing to post for zero amount",
			referenceAttrs(req.ReferenceType, req.ReferenceID)...)
	case outcome == outcomeCleared:
		s.LogInfo(ctx, "Journal cleared for zero amount",
			referenceAttrs(req.ReferenceType, req.ReferenceID)...)
	case journal != nil:
		s.LogInfo(ctx, "Journal posted",
			append(referenceAttrs(req.ReferenceType, req.ReferenceID),
				slog.String("journal_id", journal.ID),
				slog.String("outcome", outcome))...)
	}
	return journal, nil
}

// isEmptyPosting reports whether req carries no amount at all. Each amount field can produce
// a leg by itself; a VAT refund position carries only InputVatAmount.
func isEmptyPosting(req domain.PostingRequest) bool {
	if req.ReferenceType == domain.RefManual {
		for _, leg := range req.ManualLegs {
			if !leg.Debit.IsZero() || !leg.Credit.IsZero() {
				return false
			}
		}
		return true
	}
	return req.Amount.IsZero() &&
		req.VatAmount.IsZero() &&
		req.InputVatAmount.IsZero() &&
		req.DiscountAmount.IsZero()
}

// clearJournal soft-deletes the active legs of an existing journal and takes their movement
// back out of the closing balances. It reports whether there was anything to clear.
func (s *postingService) clearJournal(ctx context.Context, referenceType domain.PostingReferenceType, referenceID int64, actorUserID string) (bool, error) {
	journal, err := s.journalRepo.FindJournalByReference(ctx, referenceType, referenceID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load journal %s/%d: %w", referenceType, referenceID, err)
	}
	previous := journal.ActiveLineItems()
	if len(previous) == 0 {
		return false, nil
	}

	now := s.now()
	applyLegs(journal, nil, actorUserID, now)
	journal.DeleteFlag = true
	journal.Touch(actorUserID, now)
	if err := s.journalRepo.SaveJournal(ctx, *journal); err != nil {
		return false, fmt.Errorf("failed to save journal %s: %w", journal.ID, err)
	}
	for _, li := range previous {
		if err := s.closingBalance.RevertClosingBalance(ctx, li); err != nil {
			return false, fmt.Errorf("failed to revert closing balance of category %d: %w", li.TransactionCategoryID, err)
		}
	}
	return true, nil
}

// buildLegs converts planned amounts to base currency, drops zero legs and orders debits first.
func (s *postingService) buildLegs(req domain.PostingRequest, plan *legPlan) []domain.JournalLineItem {
	rate := req.Rate()
	currency := req.CurrencyCode
	if currency == "" {
		currency = s.baseCurrency
	}
	debits := make([]domain.JournalLineItem, 0, len(plan.legs))
	credits := make([]domain.JournalLineItem, 0, len(plan.legs))
	for _, p := range plan.legs {
		amount := p.amount.Mul(rate)
		if amount.IsZero() {
			continue
		}
		li := domain.JournalLineItem{
			TransactionCategoryID: p.category.ID,
			Description:           req.Description,
			DebitAmount:           decimal.Zero,
			CreditAmount:          decimal.Zero,
			ReferenceType:         req.ReferenceType,
			ReferenceID:           req.ReferenceID,
			ExchangeRate:          rate,
			CurrencyCode:          currency,
			ContactID:             p.contactID,
		}
		if p.side == debitSide {
			li.DebitAmount = amount
			debits = append(debits, li)
		} else {
			li.CreditAmount = amount
			credits = append(credits, li)
		}
	}
	legs := append(debits, credits...)
	for i := range legs {
		legs[i].OrderSequence = i + 1
	}
	return legs
}

// findOrCreateJournal returns the journal for (referenceType, referenceID), or a new unsaved one.
// It is the only way a journal is obtained for writing.
func (s *postingService) findOrCreateJournal(ctx context.Context, referenceType domain.PostingReferenceType, referenceID int64) (*domain.Journal, bool, error) {
	journal, err := s.journalRepo.FindJournalByReference(ctx, referenceType, referenceID)
	if err == nil {
		return journal, true, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to load journal %s/%d: %w", referenceType, referenceID, err)
	}
	return &domain.Journal{
		ID:                   uuid.NewString(),
		PostingReferenceType: referenceType,
		ReferenceID:          referenceID,
	}, false, nil
}

// writeJournal upserts the journal of (referenceType, referenceID) with legs and moves closing
// balances by the difference. It reports whether anything was written. A zero header date keeps
// the dates of an existing journal and falls back to now for a new one.
func (s *postingService) writeJournal(
	ctx context.Context,
	referenceType domain.PostingReferenceType,
	referenceID int64,
	header journalHeader,
	legs []domain.JournalLineItem,
	actorUserID string,
) (*domain.Journal, bool, error) {
	journal, existed, err := s.findOrCreateJournal(ctx, referenceType, referenceID)
	if err != nil {
		return nil, false, err
	}
	if header.journalDate.IsZero() {
		if existed {
			header.journalDate, header.transactionDate = journal.JournalDate, journal.TransactionDate
		} else {
			header.transactionDate = s.now()
			header.journalDate = domain.DateOnly(header.transactionDate)
		}
	}
	previous := journal.ActiveLineItems()
	if existed && !journal.DeleteFlag && sameHeader(journal, header) && sameLegs(previous, legs) {
		return journal, false, nil
	}

	now := s.now()
	journal.JournalDate = header.journalDate
	journal.TransactionDate = header.transactionDate
	journal.ReferenceNumber = header.referenceNumber
	journal.Description = header.description
	journal.ReversalFlag = header.reversal
	journal.DeleteFlag = false
	journal.Touch(actorUserID, now)
	applyLegs(journal, legs, actorUserID, now)

	if err := journal.CheckBalance(); err != nil {
		return nil, false, err
	}
	if err := s.journalRepo.SaveJournal(ctx, *journal); err != nil {
		return nil, false, fmt.Errorf("failed to save journal %s: %w", journal.ID, err)
	}
	for _, li := range previous {
		if err := s.closingBalance.RevertClosingBalance(ctx, li); err != nil {
			return nil, false, fmt.Errorf("failed to revert closing balance of category %d: %w", li.TransactionCategoryID, err)
		}
	}
	for _, li := range journal.ActiveLineItems() {
		if err := s.closingBalance.UpdateClosingBalance(ctx, li); err != nil {
			return nil, false, fmt.Errorf("failed to update closing balance of category %d: %w", li.TransactionCategoryID, err)
		}
	}
	return journal, true, nil
}

// applyLegs writes legs into the journal's active legs position by position, keeping their ids.
// Extra legs are appended and leftover active legs are soft-deleted.
func applyLegs(journal *domain.Journal, legs []domain.JournalLineItem, actorUserID string, now time.Time) {
	active := make([]int, 0, len(journal.LineItems))
	for i, li := range journal.LineItems {
		if !li.DeleteFlag {
			active = append(active, i)
		}
	}
	for i, leg := range legs {
		leg.JournalID = journal.ID
		leg.JournalDate = journal.JournalDate
		leg.ReversalFlag = journal.ReversalFlag
		if i < len(active) {
			existing := journal.LineItems[active[i]]
			leg.ID = existing.ID
			leg.AuditFields = existing.AuditFields
			leg.Touch(actorUserID, now)
			journal.LineItems[active[i]] = leg
			continue
		}
		leg.ID = uuid.NewString()
		leg.Touch(actorUserID, now)
		journal.LineItems = append(journal.LineItems, leg)
	}
	for _, idx := range active[min(len(legs), len(active)):] {
		journal.LineItems[idx].DeleteFlag = true
		journal.LineItems[idx].Touch(actorUserID, now)
	}
}

func sameHeader(j *domain.Journal, h journalHeader) bool {
	return j.JournalDate.Equal(h.journalDate) &&
		j.TransactionDate.Equal(h.transactionDate) &&
		j.ReferenceNumber == h.referenceNumber &&
		j.Description == h.description &&
		j.ReversalFlag == h.reversal
}

// sameLegs compares what legs post, ignoring ids and audit fields.
func sameLegs(a, b []domain.JournalLineItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.TransactionCategoryID != y.TransactionCategoryID ||
			!x.DebitAmount.Equal(y.DebitAmount) ||
			!x.CreditAmount.Equal(y.CreditAmount) ||
			!x.ExchangeRate.Equal(y.ExchangeRate) ||
			x.CurrencyCode != y.CurrencyCode ||
			x.Description != y.Description ||
			!sameContact(x.ContactID, y.ContactID) {
			return false
		}
	}
	return true
}

func sameContact(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
