package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelJournal converts a domain Journal to a model Journal
func ToModelJournal(d domain.Journal) models.Journal {
	return models.Journal{
		ID:                   d.ID,
		JournalDate:          domain.DateOnly(d.JournalDate),
		TransactionDate:      d.TransactionDate,
		ReferenceNumber:      d.ReferenceNumber,
		PostingReferenceType: int(d.PostingReferenceType),
		ReferenceID:          d.ReferenceID,
		Description:          d.Description,
		ReversalFlag:         d.ReversalFlag,
		DeleteFlag:           d.DeleteFlag,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a model Journal to a domain Journal without legs
func ToDomainJournal(m models.Journal) domain.Journal {
	return domain.Journal{
		ID:                   m.ID,
		JournalDate:          domain.DateOnly(m.JournalDate),
		TransactionDate:      m.TransactionDate,
		ReferenceNumber:      m.ReferenceNumber,
		PostingReferenceType: domain.PostingReferenceType(m.PostingReferenceType),
		ReferenceID:          m.ReferenceID,
		Description:          m.Description,
		ReversalFlag:         m.ReversalFlag,
		DeleteFlag:           m.DeleteFlag,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLineItem converts a domain JournalLineItem to a model JournalLineItem
func ToModelJournalLineItem(d domain.JournalLineItem) models.JournalLineItem {
	return models.JournalLineItem{
		ID:                    d.ID,
		JournalID:             d.JournalID,
		TransactionCategoryID: d.TransactionCategoryID,
		Description:           d.Description,
		DebitAmount:           d.DebitAmount,
		CreditAmount:          d.CreditAmount,
		ReferenceType:         int(d.ReferenceType),
		ReferenceID:           d.ReferenceID,
		ExchangeRate:          d.ExchangeRate,
		CurrencyCode:          d.CurrencyCode,
		OrderSequence:         d.OrderSequence,
		ReversalFlag:          d.ReversalFlag,
		DeleteFlag:            d.DeleteFlag,
		ContactID:             d.ContactID,
		AuditFields:           ToModelAuditFields(d.AuditFields),
		JournalDate:           d.JournalDate,
	}
}

// ToDomainJournalLineItem converts a model JournalLineItem to a domain JournalLineItem
func ToDomainJournalLineItem(m models.JournalLineItem) domain.JournalLineItem {
	return domain.JournalLineItem{
		ID:                    m.ID,
		JournalID:             m.JournalID,
		TransactionCategoryID: m.TransactionCategoryID,
		Description:           m.Description,
		DebitAmount:           m.DebitAmount,
		CreditAmount:          m.CreditAmount,
		ReferenceType:         domain.PostingReferenceType(m.ReferenceType),
		ReferenceID:           m.ReferenceID,
		ExchangeRate:          m.ExchangeRate,
		CurrencyCode:          m.CurrencyCode,
		OrderSequence:         m.OrderSequence,
		ReversalFlag:          m.ReversalFlag,
		DeleteFlag:            m.DeleteFlag,
		ContactID:             m.ContactID,
		JournalDate:           domain.DateOnly(m.JournalDate),
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalLineItemSlice converts a slice of model legs to domain legs
func ToDomainJournalLineItemSlice(ms []models.JournalLineItem) []domain.JournalLineItem {
	ds := make([]domain.JournalLineItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLineItem(m)
	}
	return ds
}
