package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCategoryClosingBalance is the balance snapshot of one category as of one date.
// ClosingBalance = OpeningBalance + the net movement posted on ClosingBalanceDate.
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

// CategoryBalance is the computed opening/closing pair of a category over a report window.
type CategoryBalance struct {
	Category       CategoryWithClassification `json:"category"`
	StartDate      time.Time                  `json:"startDate"`
	EndDate        time.Time                  `json:"endDate"`
	OpeningBalance decimal.Decimal            `json:"openingBalance"`
	NetMovement    decimal.Decimal            `json:"netMovement"`
	ClosingBalance decimal.Decimal            `json:"closingBalance"`
}

// DateOnly truncates t to midnight UTC. Snapshots and report windows are keyed by calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
