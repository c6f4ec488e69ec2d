package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelClosingBalance converts a domain snapshot to a model row
func ToModelClosingBalance(d domain.TransactionCategoryClosingBalance) models.TransactionCategoryClosingBalance {
	return models.TransactionCategoryClosingBalance{
		ID:                        d.ID,
		TransactionCategoryID:     d.TransactionCategoryID,
		OpeningBalance:            d.OpeningBalance,
		ClosingBalance:            d.ClosingBalance,
		BankAccountClosingBalance: d.BankAccountClosingBalance,
		ClosingBalanceDate:        domain.DateOnly(d.ClosingBalanceDate),
		CreatedDate:               d.CreatedDate,
		LastUpdatedAt:             d.LastUpdatedAt,
	}
}

// ToDomainClosingBalance converts a model row to a domain snapshot
func ToDomainClosingBalance(m models.TransactionCategoryClosingBalance) domain.TransactionCategoryClosingBalance {
	return domain.TransactionCategoryClosingBalance{
		ID:                        m.ID,
		TransactionCategoryID:     m.TransactionCategoryID,
		OpeningBalance:            m.OpeningBalance,
		ClosingBalance:            m.ClosingBalance,
		BankAccountClosingBalance: m.BankAccountClosingBalance,
		ClosingBalanceDate:        domain.DateOnly(m.ClosingBalanceDate),
		CreatedDate:               m.CreatedDate,
		LastUpdatedAt:             m.LastUpdatedAt,
	}
}
