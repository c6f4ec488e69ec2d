package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

// reportingService builds the general ledger and trial balance from computed balances.
type reportingService struct {
	BaseService
	closingBalance portssvc.ClosingBalanceReaderSvc
	journalRepo    portsrepo.JournalRepositoryFacade
	documents      portssvc.DocumentLookup
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithDocumentLookup sets where counterparties and document numbers come from.
// Without it the general ledger shows the journal's reference number and no counterparty.
func WithDocumentLookup(lookup portssvc.DocumentLookup) ReportingServiceOption {
	return func(s *reportingService) {
		s.documents = lookup
	}
}

// NewReportingService creates a new reporting service
func NewReportingService(closingBalance portssvc.ClosingBalanceReaderSvc, journalRepo portsrepo.JournalRepositoryFacade, options ...ReportingServiceOption) portssvc.ReportingSvc {
	svc := &reportingService{
		closingBalance: closingBalance,
		journalRepo:    journalRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

// GeneralLedger lists, per category with a balance or activity, the opening balance, every leg
// in the window with its running balance, and the closing balance.
func (s *reportingService) GeneralLedger(ctx context.Context, req domain.ReportRequest) ([]domain.GeneralLedgerAccount, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	balances, err := s.closingBalance.GetList(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(balances) == 0 {
		return []domain.GeneralLedgerAccount{}, nil
	}

	ids := make([]int64, 0, len(balances))
	for _, b := range balances {
		ids = append(ids, b.Category.ID)
	}
	items, err := s.journalRepo.ListLineItems(ctx, portsrepo.LineItemFilter{
		StartDate:   &req.StartDate,
		EndDate:     &req.EndDate,
		CategoryIDs: ids,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}
	byCategory := groupByCategory(items)
	docs := newDocumentResolver(s.documents, s.journalRepo)

	accounts := make([]domain.GeneralLedgerAccount, 0, len(balances))
	for _, b := range balances {
		legs := byCategory[b.Category.ID]
		if len(legs) == 0 && b.OpeningBalance.IsZero() {
			continue
		}
		flow, err := b.Category.NormalFlow()
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", b.Category.Code, err)
		}
		account := domain.GeneralLedgerAccount{
			Category:       b.Category,
			OpeningBalance: b.OpeningBalance,
			Rows:           make([]domain.GeneralLedgerRow, 0, len(legs)),
			ClosingBalance: b.ClosingBalance,
		}
		running := b.OpeningBalance
		for _, li := range legs {
			running = running.Add(flow.SignedAmount(li.DebitAmount, li.CreditAmount))
			number, counterparty, err := docs.resolve(ctx, li)
			if err != nil {
				return nil, err
			}
			account.Rows = append(account.Rows, domain.GeneralLedgerRow{
				Date:            li.JournalDate,
				ReferenceType:   li.ReferenceType,
				ReferenceID:     li.ReferenceID,
				ReferenceNumber: number,
				Counterparty:    counterparty,
				Description:     li.Description,
				Debit:           li.DebitAmount,
				Credit:          li.CreditAmount,
				RunningBalance:  running,
				ReversalFlag:    li.ReversalFlag,
			})
		}
		accounts = append(accounts, account)
	}
	s.LogDebug(ctx, "General ledger built",
		slog.Int("accounts", len(accounts)),
		slog.Int("lookups", docs.lookups))
	return accounts, nil
}

// TrialBalance places each category's closing balance at the end of the window on its side.
func (s *reportingService) TrialBalance(ctx context.Context, req domain.ReportRequest) ([]domain.TrialBalanceRow, error) {
	balances, err := s.closingBalance.GetList(ctx, req)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.TrialBalanceRow, 0, len(balances))
	for _, b := range balances {
		if b.ClosingBalance.IsZero() {
			continue
		}
		flow, err := b.Category.NormalFlow()
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", b.Category.Code, err)
		}
		debit, credit := accounting.NormalSide(b.ClosingBalance, flow)
		rows = append(rows, domain.TrialBalanceRow{Category: b.Category, Debit: debit, Credit: credit})
	}
	return rows, nil
}

// documentResolver memoizes document and journal lookups for one report run.
type documentResolver struct {
	lookup      portssvc.DocumentLookup
	journals    portsrepo.JournalReader
	documents   map[domain.DocumentKind]map[int64]*domain.DocumentRef
	journalRefs map[string]string
	lookups     int
}

func newDocumentResolver(lookup portssvc.DocumentLookup, journals portsrepo.JournalReader) *documentResolver {
	return &documentResolver{
		lookup:      lookup,
		journals:    journals,
		documents:   make(map[domain.DocumentKind]map[int64]*domain.DocumentRef),
		journalRefs: make(map[string]string),
	}
}

// resolve returns the document number and counterparty shown for a leg.
func (r *documentResolver) resolve(ctx context.Context, li domain.JournalLineItem) (string, string, error) {
	kind, _ := domain.DocumentKindOf(li.ReferenceType)
	var doc *domain.DocumentRef
	if r.lookup != nil && kind != domain.DocumentNone {
		byID, ok := r.documents[kind]
		if !ok {
			byID = make(map[int64]*domain.DocumentRef)
			r.documents[kind] = byID
		}
		cached, seen := byID[li.ReferenceID]
		if !seen {
			r.lookups++
			found, err := r.lookup.FindDocument(ctx, kind, li.ReferenceID)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return "", "", fmt.Errorf("failed to look up %s %d: %w", kind, li.ReferenceID, err)
			}
			byID[li.ReferenceID] = found
			cached = found
		}
		doc = cached
	}
	if doc != nil && doc.Number != "" {
		return doc.Number, doc.Counterparty, nil
	}

	counterparty := ""
	if doc != nil {
		counterparty = doc.Counterparty
	}
	number, err := r.journalReference(ctx, li.JournalID)
	return number, counterparty, err
}

func (r *documentResolver) journalReference(ctx context.Context, journalID string) (string, error) {
	if number, ok := r.journalRefs[journalID]; ok {
		return number, nil
	}
	journal, err := r.journals.FindJournalByID(ctx, journalID)
	if err != nil {
		return "", fmt.Errorf("failed to find journal %s: %w", journalID, err)
	}
	r.journalRefs[journalID] = journal.ReferenceNumber
	return journal.ReferenceNumber, nil
}
