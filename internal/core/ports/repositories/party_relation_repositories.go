package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// PartyRelationReader resolves the sub-category a party posts to.
type PartyRelationReader interface {
	// FindPartyCategory returns the relation for (kind, partyID, role) or apperrors.ErrNotFound.
	FindPartyCategory(ctx context.Context, kind domain.PartyKind, partyID int64, role domain.PartyRole) (*domain.PartyCategoryRelation, error)
}

// PartyRelationWriter stores party/category relations.
type PartyRelationWriter interface {
	// SavePartyCategoryRelation inserts a relation and sets its ID. A duplicate (kind, party, role) returns apperrors.ErrDuplicate.
	SavePartyCategoryRelation(ctx context.Context, relation *domain.PartyCategoryRelation) error
}

// PartyRelationRepositoryFacade combines all party relation repository interfaces.
type PartyRelationRepositoryFacade interface {
	PartyRelationReader
	PartyRelationWriter
}
