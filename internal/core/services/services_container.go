package services

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/cache"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
)

type containerOptions struct {
	now       func() time.Time
	documents portssvc.DocumentLookup
}

// ContainerOption is a functional option for configuring the service container
type ContainerOption func(*containerOptions)

// WithContainerClock sets the clock every service uses for audit fields and dates.
func WithContainerClock(now func() time.Time) ContainerOption {
	return func(o *containerOptions) {
		o.now = now
	}
}

// WithContainerDocumentLookup plugs in the resolver of document numbers and counterparties for reports.
func WithContainerDocumentLookup(lookup portssvc.DocumentLookup) ContainerOption {
	return func(o *containerOptions) {
		o.documents = lookup
	}
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...ContainerOption) *portssvc.ServiceContainer {
	opts := &containerOptions{}
	for _, option := range options {
		option(opts)
	}

	container := &portssvc.ServiceContainer{}

	categoryOptions := []CategoryServiceOption{
		WithCategoryCache(
			cache.NewTTLCache[string, domain.CategoryWithClassification](cfg.CategoryCacheTTL),
			cache.NewTTLCache[string, map[string][]domain.CategoryWithClassification](cfg.CategoryCacheTTL),
		),
	}
	closingBalanceOptions := []ClosingBalanceServiceOption{}
	postingOptions := []PostingServiceOption{WithBaseCurrency(cfg.BaseCurrency)}
	if opts.now != nil {
		categoryOptions = append(categoryOptions, WithCategoryClock(opts.now))
		closingBalanceOptions = append(closingBalanceOptions, WithClosingBalanceClock(opts.now))
		postingOptions = append(postingOptions, WithPostingClock(opts.now))
	}

	// Category registry first; posting resolves every category through it
	container.Category = NewCategoryService(
		repos.TxManager,
		repos.CategoryRepo,
		repos.ChartOfAccountRepo,
		repos.PartyRelationRepo,
		repos.JournalRepo,
		categoryOptions...,
	)

	container.ClosingBalance = NewClosingBalanceService(
		repos.TxManager,
		repos.ClosingBalanceRepo,
		repos.CategoryRepo,
		repos.JournalRepo,
		closingBalanceOptions...,
	)

	container.Posting = NewPostingService(
		repos.TxManager,
		repos.JournalRepo,
		repos.PartyRelationRepo,
		container.Category,
		container.ClosingBalance,
		postingOptions...,
	)

	container.Journal = NewJournalService(repos.JournalRepo, repos.CategoryRepo)

	var reportingOptions []ReportingServiceOption
	if opts.documents != nil {
		reportingOptions = append(reportingOptions, WithDocumentLookup(opts.documents))
	}
	container.Reporting = NewReportingService(container.ClosingBalance, repos.JournalRepo, reportingOptions...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.PostingSvcFacade        = (*postingService)(nil)
	_ portssvc.CategorySvcFacade       = (*categoryService)(nil)
	_ portssvc.ClosingBalanceSvcFacade = (*closingBalanceService)(nil)
	_ portssvc.JournalReaderSvc        = (*journalService)(nil)
	_ portssvc.ReportingSvc            = (*reportingService)(nil)
)
