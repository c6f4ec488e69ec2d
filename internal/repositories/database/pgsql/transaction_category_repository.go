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

type PgxTransactionCategoryRepository struct {
	BaseRepository
}

// newPgxTransactionCategoryRepository creates a new repository for transaction categories.
func newPgxTransactionCategoryRepository(pool *pgxpool.Pool) portsrepo.TransactionCategoryRepositoryFacade {
	return &PgxTransactionCategoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TransactionCategoryRepositoryFacade = (*PgxTransactionCategoryRepository)(nil)

const categorySelect = `
	SELECT tc.id, tc.name, tc.description, tc.code, tc.parent_id, tc.chart_of_account_id,
	       tc.editable, tc.selectable, tc.is_default, tc.delete_flag, tc.version_number,
	       tc.created_at, tc.created_by, tc.last_updated_at, tc.last_updated_by,
	       coa.code, coa.classification
	FROM transaction_category tc
	JOIN chart_of_account coa ON coa.id = tc.chart_of_account_id
`

func scanCategory(row pgx.Row) (domain.CategoryWithClassification, error) {
	var m models.CategoryWithClassification
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Description,
		&m.Code,
		&m.ParentID,
		&m.ChartOfAccountID,
		&m.Editable,
		&m.Selectable,
		&m.IsDefault,
		&m.DeleteFlag,
		&m.VersionNumber,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.ChartOfAccountCode,
		&m.Classification,
	)
	if err != nil {
		return domain.CategoryWithClassification{}, err
	}
	return mapping.ToDomainCategoryWithClassification(m), nil
}

// FindCategoryByID retrieves a category, deleted or not.
func (r *PgxTransactionCategoryRepository) FindCategoryByID(ctx context.Context, id int64) (*domain.CategoryWithClassification, error) {
	cat, err := scanCategory(r.db(ctx).QueryRow(ctx, categorySelect+` WHERE tc.id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("category %d", id))
		}
		return nil, fmt.Errorf("failed to find category %d: %w", id, err)
	}
	return &cat, nil
}

// FindCategoryByCode retrieves a non-deleted category by code.
func (r *PgxTransactionCategoryRepository) FindCategoryByCode(ctx context.Context, code string) (*domain.CategoryWithClassification, error) {
	cat, err := scanCategory(r.db(ctx).QueryRow(ctx, categorySelect+` WHERE tc.code = $1 AND tc.delete_flag = FALSE;`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("category " + code)
		}
		return nil, fmt.Errorf("failed to find category %s: %w", code, err)
	}
	return &cat, nil
}

// ListCategories returns categories matching the filter ordered by code.
func (r *PgxTransactionCategoryRepository) ListCategories(ctx context.Context, filter portsrepo.CategoryFilter) ([]domain.CategoryWithClassification, error) {
	var conditions []string
	var args []any
	addArg := func(cond string, v any) {
		args = append(args, v)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if !filter.IncludeDeleted {
		conditions = append(conditions, "tc.delete_flag = FALSE")
	}
	if filter.SelectableOnly {
		conditions = append(conditions, "tc.selectable = TRUE")
	}
	if filter.ChartOfAccountCode != "" {
		addArg("coa.code = $%d", filter.ChartOfAccountCode)
	}
	if len(filter.IDs) > 0 {
		addArg("tc.id = ANY($%d)", filter.IDs)
	}
	if len(filter.ParentIDs) > 0 {
		addArg("tc.parent_id = ANY($%d)", filter.ParentIDs)
	}

	query := categorySelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY tc.code;"

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CategoryWithClassification, error) {
		return scanCategory(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan categories: %w", err)
	}
	return categories, nil
}

// ListCategoryCodes returns every code under a chart of account, deleted categories included.
func (r *PgxTransactionCategoryRepository) ListCategoryCodes(ctx context.Context, chartOfAccountID int64) ([]string, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT code FROM transaction_category WHERE chart_of_account_id = $1 ORDER BY code;`, chartOfAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query category codes: %w", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan category codes: %w", err)
	}
	return codes, nil
}

// SaveCategory inserts a new category and sets its ID.
func (r *PgxTransactionCategoryRepository) SaveCategory(ctx context.Context, category *domain.TransactionCategory) error {
	m := mapping.ToModelTransactionCategory(*category)
	query := `
		INSERT INTO transaction_category (
			name, description, code, parent_id, chart_of_account_id,
			editable, selectable, is_default, delete_flag, version_number,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id;
	`
	err := r.db(ctx).QueryRow(ctx, query,
		m.Name,
		m.Description,
		m.Code,
		m.ParentID,
		m.ChartOfAccountID,
		m.Editable,
		m.Selectable,
		m.IsDefault,
		m.DeleteFlag,
		m.VersionNumber,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	).Scan(&category.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: category code %s", apperrors.ErrDuplicate, m.Code)
		}
		return fmt.Errorf("failed to insert category %s: %w", m.Code, err)
	}
	return nil
}

// UpdateCategory writes the editable columns when the stored version still equals expectedVersion.
func (r *PgxTransactionCategoryRepository) UpdateCategory(ctx context.Context, category domain.TransactionCategory, expectedVersion int) error {
	m := mapping.ToModelTransactionCategory(category)
	query := `
		UPDATE transaction_category
		SET name = $1, description = $2, selectable = $3, version_number = $4,
		    last_updated_at = $5, last_updated_by = $6
		WHERE id = $7 AND version_number = $8 AND delete_flag = FALSE;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query,
		m.Name,
		m.Description,
		m.Selectable,
		m.VersionNumber,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.ID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update category %d: %w", m.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: category %d is no longer at version %d", apperrors.ErrConflict, m.ID, expectedVersion)
	}
	return nil
}

// SoftDeleteCategory flags a category as deleted when the stored version equals expectedVersion.
func (r *PgxTransactionCategoryRepository) SoftDeleteCategory(ctx context.Context, id int64, expectedVersion int, userID string, now time.Time) error {
	query := `
		UPDATE transaction_category
		SET delete_flag = TRUE, version_number = version_number + 1,
		    last_updated_at = $1, last_updated_by = $2
		WHERE id = $3 AND version_number = $4 AND delete_flag = FALSE;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query, now, userID, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: category %d is no longer at version %d", apperrors.ErrConflict, id, expectedVersion)
	}
	return nil
}
