package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxChartOfAccountRepository struct {
	BaseRepository
}

// newPgxChartOfAccountRepository creates a new repository for the chart of accounts.
func newPgxChartOfAccountRepository(pool *pgxpool.Pool) portsrepo.ChartOfAccountRepositoryFacade {
	return &PgxChartOfAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ChartOfAccountRepositoryFacade = (*PgxChartOfAccountRepository)(nil)

const chartOfAccountColumns = `id, code, name, classification, parent_id`

func scanChartOfAccount(row pgx.Row) (domain.ChartOfAccount, error) {
	var m models.ChartOfAccount
	if err := row.Scan(&m.ID, &m.Code, &m.Name, &m.Classification, &m.ParentID); err != nil {
		return domain.ChartOfAccount{}, err
	}
	return mapping.ToDomainChartOfAccount(m), nil
}

// FindChartOfAccountByID retrieves a node by id.
func (r *PgxChartOfAccountRepository) FindChartOfAccountByID(ctx context.Context, id int64) (*domain.ChartOfAccount, error) {
	query := `SELECT ` + chartOfAccountColumns + ` FROM chart_of_account WHERE id = $1;`
	coa, err := scanChartOfAccount(r.db(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("chart of account %d", id))
		}
		return nil, fmt.Errorf("failed to find chart of account %d: %w", id, err)
	}
	return &coa, nil
}

// FindChartOfAccountByCode retrieves a node by code.
func (r *PgxChartOfAccountRepository) FindChartOfAccountByCode(ctx context.Context, code string) (*domain.ChartOfAccount, error) {
	query := `SELECT ` + chartOfAccountColumns + ` FROM chart_of_account WHERE code = $1;`
	coa, err := scanChartOfAccount(r.db(ctx).QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("chart of account " + code)
		}
		return nil, fmt.Errorf("failed to find chart of account %s: %w", code, err)
	}
	return &coa, nil
}

// ListChartOfAccounts returns every node ordered by code.
func (r *PgxChartOfAccountRepository) ListChartOfAccounts(ctx context.Context) ([]domain.ChartOfAccount, error) {
	query := `SELECT ` + chartOfAccountColumns + ` FROM chart_of_account ORDER BY code;`
	rows, err := r.db(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query chart of accounts: %w", err)
	}
	nodes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ChartOfAccount, error) {
		return scanChartOfAccount(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan chart of accounts: %w", err)
	}
	return nodes, nil
}

// SaveChartOfAccount inserts a node or refreshes name and parent of an existing code.
func (r *PgxChartOfAccountRepository) SaveChartOfAccount(ctx context.Context, coa *domain.ChartOfAccount) error {
	query := `
		INSERT INTO chart_of_account (code, name, classification, parent_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			parent_id = EXCLUDED.parent_id
		RETURNING id;
	`
	err := r.db(ctx).QueryRow(ctx, query, coa.Code, coa.Name, string(coa.Classification), coa.ParentID).Scan(&coa.ID)
	if err != nil {
		return fmt.Errorf("failed to save chart of account %s: %w", coa.Code, err)
	}
	return nil
}
