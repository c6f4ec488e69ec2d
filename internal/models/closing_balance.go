package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCategoryClosingBalance is a row of transaction_category_closing_balance.
type TransactionCategoryClosingBalance struct {
	ID                        int64           `json:"id"`
	TransactionCategoryID     int64           `json:"transactionCategoryID"`
	OpeningBalance            decimal.Decimal `json:"openingBalance"`
	ClosingBalance            decimal.Decimal `json:"closingBalance"`
	BankAccountClosingBalance decimal.Decimal `json:"bankAccountClosingBalance"`
	ClosingBalanceDate        time.Time       `json:"closingBalanceDate"`
	CreatedDate               time.Time       `json:"createdDate"`
	LastUpdatedAt             time.Time       `json:"lastUpdatedAt"`
}
