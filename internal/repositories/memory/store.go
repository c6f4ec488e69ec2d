// Package memory provides an in-memory implementation of every ledger repository.
// It backs the CLI's --memory mode and the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type txKey struct{}

type refKey struct {
	referenceType domain.PostingReferenceType
	referenceID   int64
}

type partyKey struct {
	kind    domain.PartyKind
	partyID int64
	role    domain.PartyRole
}

type snapshotKey struct {
	categoryID int64
	date       string
}

// state is everything a transaction may need to roll back.
type state struct {
	chartOfAccounts map[int64]domain.ChartOfAccount
	categories      map[int64]domain.TransactionCategory
	relations       map[partyKey]domain.PartyCategoryRelation
	journals        map[string]domain.Journal // headers only, LineItems is nil
	journalByRef    map[refKey]string
	lineItems       map[string]domain.JournalLineItem
	snapshots       map[snapshotKey]domain.TransactionCategoryClosingBalance

	nextChartOfAccountID int64
	nextCategoryID       int64
	nextRelationID       int64
	nextSnapshotID       int64
}

func newState() *state {
	return &state{
		chartOfAccounts: make(map[int64]domain.ChartOfAccount),
		categories:      make(map[int64]domain.TransactionCategory),
		relations:       make(map[partyKey]domain.PartyCategoryRelation),
		journals:        make(map[string]domain.Journal),
		journalByRef:    make(map[refKey]string),
		lineItems:       make(map[string]domain.JournalLineItem),
		snapshots:       make(map[snapshotKey]domain.TransactionCategoryClosingBalance),
	}
}

func (st *state) clone() *state {
	c := &state{
		chartOfAccounts:      make(map[int64]domain.ChartOfAccount, len(st.chartOfAccounts)),
		categories:           make(map[int64]domain.TransactionCategory, len(st.categories)),
		relations:            make(map[partyKey]domain.PartyCategoryRelation, len(st.relations)),
		journals:             make(map[string]domain.Journal, len(st.journals)),
		journalByRef:         make(map[refKey]string, len(st.journalByRef)),
		lineItems:            make(map[string]domain.JournalLineItem, len(st.lineItems)),
		snapshots:            make(map[snapshotKey]domain.TransactionCategoryClosingBalance, len(st.snapshots)),
		nextChartOfAccountID: st.nextChartOfAccountID,
		nextCategoryID:       st.nextCategoryID,
		nextRelationID:       st.nextRelationID,
		nextSnapshotID:       st.nextSnapshotID,
	}
	for k, v := range st.chartOfAccounts {
		c.chartOfAccounts[k] = v
	}
	for k, v := range st.categories {
		c.categories[k] = v
	}
	for k, v := range st.relations {
		c.relations[k] = v
	}
	for k, v := range st.journals {
		c.journals[k] = v
	}
	for k, v := range st.journalByRef {
		c.journalByRef[k] = v
	}
	for k, v := range st.lineItems {
		c.lineItems[k] = v
	}
	for k, v := range st.snapshots {
		c.snapshots[k] = v
	}
	return c
}

// Store is an in-memory implementation of the repositories used by the services.
// It is guarded by an RWMutex for concurrent reads/writes. Transactions are serialised
// and restore the previous state when their function fails.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data *state
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{data: newState()}
}

// NewRepositoryProvider returns a provider whose every repository is backed by s.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:          s,
		ChartOfAccountRepo: s,
		CategoryRepo:       s,
		PartyRelationRepo:  s,
		JournalRepo:        s,
		ClosingBalanceRepo: s,
	}
}

var (
	_ portsrepo.TransactionManager                  = (*Store)(nil)
	_ portsrepo.ChartOfAccountRepositoryFacade      = (*Store)(nil)
	_ portsrepo.TransactionCategoryRepositoryFacade = (*Store)(nil)
	_ portsrepo.PartyRelationRepositoryFacade       = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade             = (*Store)(nil)
	_ portsrepo.ClosingBalanceRepositoryFacade      = (*Store)(nil)
)

// WithinTransaction implements portsrepo.TransactionManager.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) == s {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	saved := s.data.clone()
	s.mu.RUnlock()

	committed := false
	defer func() {
		if !committed {
			s.mu.Lock()
			s.data = saved
			s.mu.Unlock()
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		return err
	}
	committed = true
	return nil
}

func dateKey(t time.Time) string {
	return domain.DateOnly(t).Format(time.DateOnly)
}
