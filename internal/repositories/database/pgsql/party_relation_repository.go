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

type PgxPartyRelationRepository struct {
	BaseRepository
}

// newPgxPartyRelationRepository creates a new repository for party/category relations.
func newPgxPartyRelationRepository(pool *pgxpool.Pool) portsrepo.PartyRelationRepositoryFacade {
	return &PgxPartyRelationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PartyRelationRepositoryFacade = (*PgxPartyRelationRepository)(nil)

// FindPartyCategory returns the relation for (kind, partyID, role).
func (r *PgxPartyRelationRepository) FindPartyCategory(ctx context.Context, kind domain.PartyKind, partyID int64, role domain.PartyRole) (*domain.PartyCategoryRelation, error) {
	query := `
		SELECT id, party_kind, party_id, role, transaction_category_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM party_category_relation
		WHERE party_kind = $1 AND party_id = $2 AND role = $3;
	`
	var m models.PartyCategoryRelation
	err := r.db(ctx).QueryRow(ctx, query, string(kind), partyID, string(role)).Scan(
		&m.ID,
		&m.PartyKind,
		&m.PartyID,
		&m.Role,
		&m.TransactionCategoryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("%s category of %s %d", role, kind, partyID))
		}
		return nil, fmt.Errorf("failed to find %s category of %s %d: %w", role, kind, partyID, err)
	}
	rel := mapping.ToDomainPartyCategoryRelation(m)
	return &rel, nil
}

// SavePartyCategoryRelation inserts a relation and sets its ID.
func (r *PgxPartyRelationRepository) SavePartyCategoryRelation(ctx context.Context, relation *domain.PartyCategoryRelation) error {
	query := `
		INSERT INTO party_category_relation (
			party_kind, party_id, role, transaction_category_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id;
	`
	err := r.db(ctx).QueryRow(ctx, query,
		string(relation.PartyKind),
		relation.PartyID,
		string(relation.Role),
		relation.TransactionCategoryID,
		relation.CreatedAt,
		relation.CreatedBy,
		relation.LastUpdatedAt,
		relation.LastUpdatedBy,
	).Scan(&relation.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s category of %s %d", apperrors.ErrDuplicate, relation.Role, relation.PartyKind, relation.PartyID)
		}
		return fmt.Errorf("failed to insert party relation: %w", err)
	}
	return nil
}
