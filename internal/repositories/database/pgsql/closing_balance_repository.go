package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxClosingBalanceRepository struct {
	BaseRepository
}

// newPgxClosingBalanceRepository creates a new repository for closing balance snapshots.
func newPgxClosingBalanceRepository(pool *pgxpool.Pool) portsrepo.ClosingBalanceRepositoryFacade {
	return &PgxClosingBalanceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ClosingBalanceRepositoryFacade = (*PgxClosingBalanceRepository)(nil)

const snapshotSelect = `
	SELECT id, transaction_category_id, opening_balance, closing_balance, bank_account_closing_balance,
	       closing_balance_date, created_date, last_updated_at
	FROM transaction_category_closing_balance
`

func scanSnapshot(row pgx.Row) (domain.TransactionCategoryClosingBalance, error) {
	var m models.TransactionCategoryClosingBalance
	err := row.Scan(
		&m.ID,
		&m.TransactionCategoryID,
		&m.OpeningBalance,
		&m.ClosingBalance,
		&m.BankAccountClosingBalance,
		&m.ClosingBalanceDate,
		&m.CreatedDate,
		&m.LastUpdatedAt,
	)
	if err != nil {
		return domain.TransactionCategoryClosingBalance{}, err
	}
	return mapping.ToDomainClosingBalance(m), nil
}

func (r *PgxClosingBalanceRepository) findOne(ctx context.Context, query string, categoryID int64, date time.Time) (*domain.TransactionCategoryClosingBalance, error) {
	snap, err := scanSnapshot(r.db(ctx).QueryRow(ctx, query, categoryID, domain.DateOnly(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("closing balance of category %d at %s", categoryID, date.Format(time.DateOnly)))
		}
		return nil, fmt.Errorf("failed to find closing balance of category %d: %w", categoryID, err)
	}
	return &snap, nil
}

func (r *PgxClosingBalanceRepository) queryMany(ctx context.Context, query string, args ...any) ([]domain.TransactionCategoryClosingBalance, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query closing balances: %w", err)
	}
	snaps, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TransactionCategoryClosingBalance, error) {
		return scanSnapshot(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan closing balances: %w", err)
	}
	return snaps, nil
}

// FindSnapshot returns the snapshot of a category on exactly date.
func (r *PgxClosingBalanceRepository) FindSnapshot(ctx context.Context, categoryID int64, date time.Time) (*domain.TransactionCategoryClosingBalance, error) {
	return r.findOne(ctx, snapshotSelect+` WHERE transaction_category_id = $1 AND closing_balance_date = $2;`, categoryID, date)
}

// FindLastSnapshotBefore returns the latest snapshot strictly before date.
func (r *PgxClosingBalanceRepository) FindLastSnapshotBefore(ctx context.Context, categoryID int64, date time.Time) (*domain.TransactionCategoryClosingBalance, error) {
	query := snapshotSelect + `
		WHERE transaction_category_id = $1 AND closing_balance_date < $2
		ORDER BY closing_balance_date DESC
		LIMIT 1;`
	return r.findOne(ctx, query, categoryID, date)
}

// ListSnapshotsAfter returns the snapshots strictly after date, oldest first.
func (r *PgxClosingBalanceRepository) ListSnapshotsAfter(ctx context.Context, categoryID int64, date time.Time) ([]domain.TransactionCategoryClosingBalance, error) {
	query := snapshotSelect + `
		WHERE transaction_category_id = $1 AND closing_balance_date > $2
		ORDER BY closing_balance_date;`
	return r.queryMany(ctx, query, categoryID, domain.DateOnly(date))
}

// ListSnapshots returns snapshots matching the filter, newest first.
func (r *PgxClosingBalanceRepository) ListSnapshots(ctx context.Context, filter portsrepo.SnapshotFilter) ([]domain.TransactionCategoryClosingBalance, error) {
	var conditions []string
	var args []any
	addArg := func(cond string, v any) {
		args = append(args, v)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if filter.StartDate != nil {
		addArg("closing_balance_date >= $%d", domain.DateOnly(*filter.StartDate))
	}
	if filter.EndDate != nil {
		addArg("closing_balance_date <= $%d", domain.DateOnly(*filter.EndDate))
	}
	if len(filter.CategoryIDs) > 0 {
		addArg("transaction_category_id = ANY($%d)", filter.CategoryIDs)
	}
	query := snapshotSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY closing_balance_date DESC, transaction_category_id;"
	return r.queryMany(ctx, query, args...)
}

// SaveSnapshot upserts the snapshot keyed by (category, date) and sets its ID.
func (r *PgxClosingBalanceRepository) SaveSnapshot(ctx context.Context, snapshot *domain.TransactionCategoryClosingBalance) error {
	m := mapping.ToModelClosingBalance(*snapshot)
	query := `
		INSERT INTO transaction_category_closing_balance (
			transaction_category_id, opening_balance, closing_balance, bank_account_closing_balance,
			closing_balance_date, created_date, last_updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (transaction_category_id, closing_balance_date) DO UPDATE SET
			opening_balance = EXCLUDED.opening_balance,
			closing_balance = EXCLUDED.closing_balance,
			bank_account_closing_balance = EXCLUDED.bank_account_closing_balance,
			last_updated_at = EXCLUDED.last_updated_at
		RETURNING id;
	`
	err := r.db(ctx).QueryRow(ctx, query,
		m.TransactionCategoryID,
		m.OpeningBalance,
		m.ClosingBalance,
		m.BankAccountClosingBalance,
		m.ClosingBalanceDate,
		m.CreatedDate,
		m.LastUpdatedAt,
	).Scan(&snapshot.ID)
	if err != nil {
		return fmt.Errorf("failed to save closing balance of category %d: %w", m.TransactionCategoryID, err)
	}
	snapshot.ClosingBalanceDate = m.ClosingBalanceDate
	return nil
}
