package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Journal is a row of journal. Legs are loaded separately.
type Journal struct {
	ID                   string    `json:"id"`
	JournalDate          time.Time `json:"journalDate"`
	TransactionDate      time.Time `json:"transactionDate"`
	ReferenceNumber      string    `json:"referenceNumber"`
	PostingReferenceType int       `json:"postingReferenceType"` // persisted enum value
	ReferenceID          int64     `json:"referenceID"`
	Description          string    `json:"description"`
	ReversalFlag         bool      `json:"reversalFlag"`
	DeleteFlag           bool      `json:"deleteFlag"`
	AuditFields
}

// JournalLineItem is a row of journal_line_item.
type JournalLineItem struct {
	ID                    string          `json:"id"`
	JournalID             string          `json:"journalID"`
	TransactionCategoryID int64           `json:"transactionCategoryID"`
	Description           string          `json:"description"`
	DebitAmount           decimal.Decimal `json:"debitAmount"`
	CreditAmount          decimal.Decimal `json:"creditAmount"`
	ReferenceType         int             `json:"referenceType"`
	ReferenceID           int64           `json:"referenceID"`
	ExchangeRate          decimal.Decimal `json:"exchangeRate"`
	CurrencyCode          string          `json:"currencyCode"`
	OrderSequence         int             `json:"orderSequence"`
	ReversalFlag          bool            `json:"reversalFlag"`
	DeleteFlag            bool            `json:"deleteFlag"`
	ContactID             *int64          `json:"contactID"`
	AuditFields

	// Fields joined from journal, not stored on the leg
	JournalDate time.Time `json:"journalDate"`
}
