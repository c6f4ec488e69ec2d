package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journals and their line items.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalSelect = `
	SELECT id, journal_date, transaction_date, reference_number, posting_reference_type, reference_id,
	       description, reversal_flag, delete_flag, created_at, created_by, last_updated_at, last_updated_by
	FROM journal
`

const lineItemSelect = `
	SELECT li.id, li.journal_id, li.transaction_category_id, li.description, li.debit_amount, li.credit_amount,
	       li.reference_type, li.reference_id, li.exchange_rate, li.currency_code, li.order_sequence,
	       li.reversal_flag, li.delete_flag, li.contact_id,
	       li.created_at, li.created_by, li.last_updated_at, li.last_updated_by,
	       j.journal_date
	FROM journal_line_item li
	JOIN journal j ON j.id = li.journal_id
`

func scanJournal(row pgx.Row) (domain.Journal, error) {
	var m models.Journal
	err := row.Scan(
		&m.ID,
		&m.JournalDate,
		&m.TransactionDate,
		&m.ReferenceNumber,
		&m.PostingReferenceType,
		&m.ReferenceID,
		&m.Description,
		&m.ReversalFlag,
		&m.DeleteFlag,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Journal{}, err
	}
	return mapping.ToDomainJournal(m), nil
}

func scanLineItem(row pgx.CollectableRow) (models.JournalLineItem, error) {
	var m models.JournalLineItem
	err := row.Scan(
		&m.ID,
		&m.JournalID,
		&m.TransactionCategoryID,
		&m.Description,
		&m.DebitAmount,
		&m.CreditAmount,
		&m.ReferenceType,
		&m.ReferenceID,
		&m.ExchangeRate,
		&m.CurrencyCode,
		&m.OrderSequence,
		&m.ReversalFlag,
		&m.DeleteFlag,
		&m.ContactID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.JournalDate,
	)
	return m, err
}

// queryLineItems runs a leg query and maps the rows.
func (r *PgxJournalRepository) queryLineItems(ctx context.Context, query string, args ...any) ([]domain.JournalLineItem, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items: %w", err)
	}
	modelItems, err := pgx.CollectRows(rows, scanLineItem)
	if err != nil {
		return nil, fmt.Errorf("failed to scan line items: %w", err)
	}
	return mapping.ToDomainJournalLineItemSlice(modelItems), nil
}

// withLegs loads every leg of journal, deleted ones included.
func (r *PgxJournalRepository) withLegs(ctx context.Context, journal domain.Journal) (*domain.Journal, error) {
	legs, err := r.queryLineItems(ctx, lineItemSelect+` WHERE li.journal_id = $1 ORDER BY li.order_sequence, li.id;`, journal.ID)
	if err != nil {
		return nil, fmt.Errorf("journal %s: %w", journal.ID, err)
	}
	journal.LineItems = legs
	return &journal, nil
}

// FindJournalByReference retrieves the journal of a business event with all its legs.
func (r *PgxJournalRepository) FindJournalByReference(ctx context.Context, referenceType domain.PostingReferenceType, referenceID int64) (*domain.Journal, error) {
	query := journalSelect + ` WHERE posting_reference_type = $1 AND reference_id = $2;`
	journal, err := scanJournal(r.db(ctx).QueryRow(ctx, query, int(referenceType), referenceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("journal for %s %d", referenceType, referenceID))
		}
		return nil, fmt.Errorf("failed to find journal for %s %d: %w", referenceType, referenceID, err)
	}
	return r.withLegs(ctx, journal)
}

// FindJournalByID retrieves a journal by its ID.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := scanJournal(r.db(ctx).QueryRow(ctx, journalSelect+` WHERE id = $1;`, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("journal " + journalID)
		}
		return nil, fmt.Errorf("failed to find journal %s: %w", journalID, err)
	}
	return r.withLegs(ctx, journal)
}

// FindActiveLineItemsByReference returns the live forward legs tagged with a reference.
func (r *PgxJournalRepository) FindActiveLineItemsByReference(ctx context.Context, referenceType domain.PostingReferenceType, referenceID int64) ([]domain.JournalLineItem, error) {
	query := lineItemSelect + `
		WHERE li.reference_type = $1 AND li.reference_id = $2
		  AND li.delete_flag = FALSE AND li.reversal_flag = FALSE
		ORDER BY li.order_sequence, li.id;`
	return r.queryLineItems(ctx, query, int(referenceType), referenceID)
}

// ListLineItems returns non-deleted legs matching the filter in posting order.
func (r *PgxJournalRepository) ListLineItems(ctx context.Context, filter portsrepo.LineItemFilter) ([]domain.JournalLineItem, error) {
	conditions := []string{"li.delete_flag = FALSE"}
	var args []any
	addArg := func(cond string, v any) {
		args = append(args, v)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if len(filter.CategoryIDs) > 0 {
		addArg("li.transaction_category_id = ANY($%d)", filter.CategoryIDs)
	}
	if filter.ChartOfAccountCode != "" {
		addArg(`li.transaction_category_id IN (
			SELECT tc.id FROM transaction_category tc
			JOIN chart_of_account coa ON coa.id = tc.chart_of_account_id
			WHERE coa.code = $%d)`, filter.ChartOfAccountCode)
	}
	if filter.StartDate != nil {
		addArg("j.journal_date >= $%d", domain.DateOnly(*filter.StartDate))
	}
	if filter.EndDate != nil {
		addArg("j.journal_date <= $%d", domain.DateOnly(*filter.EndDate))
	}
	if filter.AfterDate != nil {
		addArg("j.journal_date > $%d", domain.DateOnly(*filter.AfterDate))
	}
	if filter.BeforeDate != nil {
		addArg("j.journal_date < $%d", domain.DateOnly(*filter.BeforeDate))
	}

	query := lineItemSelect +
		" WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY j.journal_date, j.created_at, j.id, li.order_sequence;"
	return r.queryLineItems(ctx, query, args...)
}

// CountActiveLineItemsByCategory counts non-deleted legs posted to a category.
func (r *PgxJournalRepository) CountActiveLineItemsByCategory(ctx context.Context, categoryID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM journal_line_item WHERE transaction_category_id = $1 AND delete_flag = FALSE;`
	if err := r.db(ctx).QueryRow(ctx, query, categoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count line items of category %d: %w", categoryID, err)
	}
	return count, nil
}

// SaveJournal upserts the journal header and every leg it carries.
// Callers run it inside a transaction together with the snapshot updates.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal) error {
	db := r.db(ctx)
	modelJournal := mapping.ToModelJournal(journal)
	journalQuery := `
		INSERT INTO journal (
			id, journal_date, transaction_date, reference_number, posting_reference_type, reference_id,
			description, reversal_flag, delete_flag, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			journal_date = EXCLUDED.journal_date,
			transaction_date = EXCLUDED.transaction_date,
			reference_number = EXCLUDED.reference_number,
			description = EXCLUDED.description,
			reversal_flag = EXCLUDED.reversal_flag,
			delete_flag = EXCLUDED.delete_flag,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := db.Exec(ctx, journalQuery,
		modelJournal.ID,
		modelJournal.JournalDate,
		modelJournal.TransactionDate,
		modelJournal.ReferenceNumber,
		modelJournal.PostingReferenceType,
		modelJournal.ReferenceID,
		modelJournal.Description,
		modelJournal.ReversalFlag,
		modelJournal.DeleteFlag,
		modelJournal.CreatedAt,
		modelJournal.CreatedBy,
		modelJournal.LastUpdatedAt,
		modelJournal.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: journal for %s %d", apperrors.ErrDuplicate, journal.PostingReferenceType, journal.ReferenceID)
		}
		return fmt.Errorf("failed to save journal %s: %w", journal.ID, err)
	}
	if len(journal.LineItems) == 0 {
		return nil
	}

	// A leg id owned by another journal matches no row in the conditional update.
	lineQuery := `
		INSERT INTO journal_line_item (
			id, journal_id, transaction_category_id, description, debit_amount, credit_amount,
			reference_type, reference_id, exchange_rate, currency_code, order_sequence,
			reversal_flag, delete_flag, contact_id, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO UPDATE SET
			transaction_category_id = EXCLUDED.transaction_category_id,
			description = EXCLUDED.description,
			debit_amount = EXCLUDED.debit_amount,
			credit_amount = EXCLUDED.credit_amount,
			exchange_rate = EXCLUDED.exchange_rate,
			currency_code = EXCLUDED.currency_code,
			order_sequence = EXCLUDED.order_sequence,
			reversal_flag = EXCLUDED.reversal_flag,
			delete_flag = EXCLUDED.delete_flag,
			contact_id = EXCLUDED.contact_id,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by
		WHERE journal_line_item.journal_id = EXCLUDED.journal_id
		RETURNING id;
	`
	batch := &pgx.Batch{}
	for _, li := range journal.LineItems {
		modelItem := mapping.ToModelJournalLineItem(li)
		modelItem.JournalID = journal.ID
		itemID := modelItem.ID
		batch.Queue(lineQuery,
			modelItem.ID,
			modelItem.JournalID,
			modelItem.TransactionCategoryID,
			modelItem.Description,
			modelItem.DebitAmount,
			modelItem.CreditAmount,
			modelItem.ReferenceType,
			modelItem.ReferenceID,
			modelItem.ExchangeRate,
			modelItem.CurrencyCode,
			modelItem.OrderSequence,
			modelItem.ReversalFlag,
			modelItem.DeleteFlag,
			modelItem.ContactID,
			modelItem.CreatedAt,
			modelItem.CreatedBy,
			modelItem.LastUpdatedAt,
			modelItem.LastUpdatedBy,
		).QueryRow(func(row pgx.Row) error {
			var savedID string
			if err := row.Scan(&savedID); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return fmt.Errorf("%w: line item %s belongs to another journal", apperrors.ErrDuplicate, itemID)
				}
				return err
			}
			return nil
		})
	}

	// Close runs the queued callbacks and reports the first failure.
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return err
		}
		return fmt.Errorf("failed to save line items of journal %s: %w", journal.ID, err)
	}
	return nil
}
