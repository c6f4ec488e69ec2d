package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager          TransactionManager
	ChartOfAccountRepo ChartOfAccountRepositoryFacade
	CategoryRepo       TransactionCategoryRepositoryFacade
	PartyRelationRepo  PartyRelationRepositoryFacade
	JournalRepo        JournalRepositoryFacade
	ClosingBalanceRepo ClosingBalanceRepositoryFacade
}
