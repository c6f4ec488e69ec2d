package pgsql

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every repository port to the pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:          &PgxTxManager{BaseRepository: BaseRepository{Pool: dbPool}},
		ChartOfAccountRepo: newPgxChartOfAccountRepository(dbPool),
		CategoryRepo:       newPgxTransactionCategoryRepository(dbPool),
		PartyRelationRepo:  newPgxPartyRelationRepository(dbPool),
		JournalRepo:        newPgxJournalRepository(dbPool),
		ClosingBalanceRepo: newPgxClosingBalanceRepository(dbPool),
	}
}
