package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ErrJournalUnbalanced is returned when a journal's debit and credit totals differ.
// Posting rules always produce balanced legs, so this indicates a bug.
var ErrJournalUnbalanced = fmt.Errorf("%w: journal debits and credits do not balance", apperrors.ErrInvariantViolation)

// Journal is a posting batch for one business event, identified by (PostingReferenceType, ReferenceID).
type Journal struct {
	ID                   string               `json:"id"`
	JournalDate          time.Time            `json:"journalDate"`
	TransactionDate      time.Time            `json:"transactionDate"`
	ReferenceNumber      string               `json:"referenceNumber"`
	PostingReferenceType PostingReferenceType `json:"postingReferenceType"`
	ReferenceID          int64                `json:"referenceID"`
	Description          string               `json:"description"`
	ReversalFlag         bool                 `json:"reversalFlag"`
	DeleteFlag           bool                 `json:"deleteFlag"`
	LineItems            []JournalLineItem    `json:"lineItems"`
	AuditFields
}

// JournalLineItem is one leg of a journal.
type JournalLineItem struct {
	ID                    string               `json:"id"`
	JournalID             string               `json:"journalID"`
	TransactionCategoryID int64                `json:"transactionCategoryID"`
	Description           string               `json:"description"`
	DebitAmount           decimal.Decimal      `json:"debitAmount"`
	CreditAmount          decimal.Decimal      `json:"creditAmount"`
	ReferenceType         PostingReferenceType `json:"referenceType"`
	ReferenceID           int64                `json:"referenceID"` // source document id, not the journal id
	ExchangeRate          decimal.Decimal      `json:"exchangeRate"`
	CurrencyCode          string               `json:"currencyCode"`
	OrderSequence         int                  `json:"orderSequence"`
	ReversalFlag          bool                 `json:"reversalFlag"`
	DeleteFlag            bool                 `json:"deleteFlag"`
	ContactID             *int64               `json:"contactID,omitempty"`
	JournalDate           time.Time            `json:"journalDate"` // denormalised from the owning journal on reads
	AuditFields
}

// IsDebit reports whether the leg carries its amount on the debit side.
func (li JournalLineItem) IsDebit() bool {
	return li.DebitAmount.GreaterThan(li.CreditAmount)
}

// Amount returns the non-zero side of a normal single-sided leg.
func (li JournalLineItem) Amount() decimal.Decimal {
	if li.IsDebit() {
		return li.DebitAmount
	}
	return li.CreditAmount
}

// Validate checks a single leg in isolation.
func (li JournalLineItem) Validate() error {
	if li.TransactionCategoryID <= 0 {
		return fmt.Errorf("%w: line item has no transaction category", apperrors.ErrValidation)
	}
	if li.DebitAmount.IsNegative() || li.CreditAmount.IsNegative() {
		return fmt.Errorf("%w: line item amounts must not be negative (debit %s, credit %s)",
			apperrors.ErrValidation, li.DebitAmount, li.CreditAmount)
	}
	if !li.ReferenceType.Valid() {
		return fmt.Errorf("%w: unknown reference type %d", apperrors.ErrValidation, int(li.ReferenceType))
	}
	if !li.ExchangeRate.IsPositive() {
		return fmt.Errorf("%w: exchange rate must be positive, got %s", apperrors.ErrValidation, li.ExchangeRate)
	}
	return nil
}

// ActiveLineItems returns the legs that have not been soft-deleted, in order.
func (j *Journal) ActiveLineItems() []JournalLineItem {
	out := make([]JournalLineItem, 0, len(j.LineItems))
	for _, li := range j.LineItems {
		if !li.DeleteFlag {
			out = append(out, li)
		}
	}
	return out
}

// Totals sums debit and credit over the active legs.
func (j *Journal) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, li := range j.ActiveLineItems() {
		debit = debit.Add(li.DebitAmount)
		credit = credit.Add(li.CreditAmount)
	}
	return debit, credit
}

// CheckBalance validates every active leg and requires exact debit/credit equality.
func (j *Journal) CheckBalance() error {
	active := j.ActiveLineItems()
	if len(active) == 0 {
		return fmt.Errorf("%w: journal %s has no active line items", apperrors.ErrValidation, j.ID)
	}
	for _, li := range active {
		if err := li.Validate(); err != nil {
			return err
		}
	}
	debit, credit := j.Totals()
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s", ErrJournalUnbalanced, debit, credit)
	}
	return nil
}
