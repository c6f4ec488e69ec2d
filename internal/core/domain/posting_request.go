package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/shopspring/decimal"
)

// CategoryRole names a category hint the caller resolves before posting.
type CategoryRole string

const (
	RoleDepositTo CategoryRole = "DEPOSIT_TO" // bank or cash category money moves through
	RoleLine      CategoryRole = "LINE"       // revenue, expense or other counter category
	RoleParty     CategoryRole = "PARTY"      // explicit party sub-category, bypassing the relation lookup
)

// Flow gives the direction of money for bank reconciliation postings.
type Flow string

const (
	Inflow  Flow = "INFLOW"
	Outflow Flow = "OUTFLOW"
)

// PartyRef identifies the contact or employee a posting is made for and which of its
// sub-categories should receive the party leg.
type PartyRef struct {
	Kind PartyKind `json:"kind"`
	ID   int64     `json:"id"`
	Role PartyRole `json:"role"`
}

// ManualLeg is one caller-supplied leg of a MANUAL journal.
type ManualLeg struct {
	CategoryID  int64           `json:"categoryID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// PostingRequest is the input of the posting dispatcher for one business event.
// Amounts are in the source document's currency; ExchangeRate converts them to base currency.
type PostingRequest struct {
	ReferenceType   PostingReferenceType   `json:"referenceType"`
	ReferenceID     int64                  `json:"referenceID"`
	Amount          decimal.Decimal        `json:"amount"`
	VatAmount       decimal.Decimal        `json:"vatAmount"`
	InputVatAmount  decimal.Decimal        `json:"inputVatAmount"`
	DiscountAmount  decimal.Decimal        `json:"discountAmount"`
	ExchangeRate    decimal.Decimal        `json:"exchangeRate"`
	CurrencyCode    string                 `json:"currencyCode"`
	JournalDate     time.Time              `json:"journalDate"`
	ReferenceNumber string                 `json:"referenceNumber"`
	Description     string                 `json:"description"`
	Flow            Flow                   `json:"flow"`
	Party           *PartyRef              `json:"party,omitempty"`
	Categories      map[CategoryRole]int64 `json:"categories,omitempty"`
	ManualLegs      []ManualLeg            `json:"manualLegs,omitempty"`
}

// Rate returns the exchange rate to apply, defaulting to 1 for local-currency documents.
func (r PostingRequest) Rate() decimal.Decimal {
	if r.ExchangeRate.IsZero() {
		return decimal.NewFromInt(1)
	}
	return r.ExchangeRate
}

// Category returns the hinted category id for a role.
func (r PostingRequest) Category(role CategoryRole) (int64, bool) {
	id, ok := r.Categories[role]
	return id, ok && id > 0
}

// NetAmount is the amount without VAT.
func (r PostingRequest) NetAmount() decimal.Decimal {
	return r.Amount.Sub(r.VatAmount)
}

// Validate checks the request shape. It does not resolve categories.
func (r PostingRequest) Validate() error {
	if !r.ReferenceType.Valid() {
		return fmt.Errorf("%w: unknown posting reference type %d", apperrors.ErrValidation, int(r.ReferenceType))
	}
	if r.ReferenceID <= 0 {
		return fmt.Errorf("%w: reference id must be positive, got %d", apperrors.ErrPrecondition, r.ReferenceID)
	}
	if r.ExchangeRate.IsNegative() {
		return fmt.Errorf("%w: exchange rate must not be negative", apperrors.ErrValidation)
	}
	// BALANCE_ADJUSTMENT may carry a negative amount; the sign selects the side.
	if r.ReferenceType != RefBalanceAdjustment && r.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}
	for name, v := range map[string]decimal.Decimal{"vat": r.VatAmount, "input vat": r.InputVatAmount, "discount": r.DiscountAmount} {
		if v.IsNegative() {
			return fmt.Errorf("%w: %s amount must not be negative", apperrors.ErrValidation, name)
		}
	}
	if r.VatAmount.GreaterThan(r.Amount.Abs()) {
		return fmt.Errorf("%w: vat amount %s exceeds amount %s", apperrors.ErrValidation, r.VatAmount, r.Amount)
	}
	if r.Flow != "" && r.Flow != Inflow && r.Flow != Outflow {
		return fmt.Errorf("%w: unknown flow %q", apperrors.ErrValidation, r.Flow)
	}
	if r.Party != nil && (r.Party.ID <= 0 || !r.Party.Kind.Valid() || !r.Party.Role.Valid()) {
		return fmt.Errorf("%w: malformed party reference", apperrors.ErrPrecondition)
	}
	return nil
}

// ReverseRequest identifies a posting to reverse.
type ReverseRequest struct {
	ReferenceType PostingReferenceType  `json:"referenceType"`
	ReferenceID   int64                 `json:"referenceID"`
	ReversalType  *PostingReferenceType `json:"reversalType,omitempty"` // overrides the paired reversal kind
}
