package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelAuditFields converts domain audit fields to their column values. Timestamps are stored in UTC.
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     d.CreatedAt.UTC(),
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt.UTC(),
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

// ToDomainAuditFields converts audit columns back. pgx returns timestamptz in the session zone,
// so they are normalised to UTC to compare equal to what was written.
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     m.CreatedAt.UTC(),
		CreatedBy:     m.CreatedBy,
		LastUpdatedAt: m.LastUpdatedAt.UTC(),
		LastUpdatedBy: m.LastUpdatedBy,
	}
}
