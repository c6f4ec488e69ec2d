package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ManualLegRequest is one leg of a manual journal.
type ManualLegRequest struct {
	CategoryID  int64           `json:"categoryID" binding:"required,gt=0"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// PostingRequest is the HTTP shape of a posting. Dates are YYYY-MM-DD.
type PostingRequest struct {
	ReferenceType   domain.PostingReferenceType `json:"referenceType" binding:"required,posting_reference_type"`
	ReferenceID     int64                       `json:"referenceID" binding:"required,gt=0"`
	Amount          decimal.Decimal             `json:"amount"`
	VatAmount       decimal.Decimal             `json:"vatAmount"`
	InputVatAmount  decimal.Decimal             `json:"inputVatAmount"`
	DiscountAmount  decimal.Decimal             `json:"discountAmount"`
	ExchangeRate    decimal.Decimal             `json:"exchangeRate"`
	CurrencyCode    string                      `json:"currencyCode" binding:"omitempty,currency_code"`
	JournalDate     string                      `json:"journalDate" binding:"required,datetime=2006-01-02"`
	ReferenceNumber string                      `json:"referenceNumber" binding:"max=100"`
	Description     string                      `json:"description" binding:"max=1000"`
	Flow            domain.Flow                 `json:"flow" binding:"omitempty,oneof=INFLOW OUTFLOW"`
	PartyKind       domain.PartyKind            `json:"partyKind" binding:"omitempty,oneof=CONTACT EMPLOYEE"`
	PartyID         int64                       `json:"partyID" binding:"omitempty,gt=0"`
	PartyRole       domain.PartyRole            `json:"partyRole" binding:"omitempty,oneof=RECEIVABLE PAYABLE PAYROLL"`
	DepositToID     int64                       `json:"depositToCategoryID" binding:"omitempty,gt=0"`
	LineCategoryID  int64                       `json:"lineCategoryID" binding:"omitempty,gt=0"`
	PartyCategoryID int64                       `json:"partyCategoryID" binding:"omitempty,gt=0"`
	ManualLegs      []ManualLegRequest          `json:"manualLegs" binding:"omitempty,dive"`
}

// ToDomain converts the request into the dispatcher's input.
func (r PostingRequest) ToDomain() (domain.PostingRequest, error) {
	date, err := time.Parse(time.DateOnly, r.JournalDate)
	if err != nil {
		return domain.PostingRequest{}, fmt.Errorf("invalid journalDate %q: %w", r.JournalDate, err)
	}
	req := domain.PostingRequest{
		ReferenceType:   r.ReferenceType,
		ReferenceID:     r.ReferenceID,
		Amount:          r.Amount,
		VatAmount:       r.VatAmount,
		InputVatAmount:  r.InputVatAmount,
		DiscountAmount:  r.DiscountAmount,
		ExchangeRate:    r.ExchangeRate,
		CurrencyCode:    r.CurrencyCode,
		JournalDate:     date,
		ReferenceNumber: r.ReferenceNumber,
		Description:     r.Description,
		Flow:            r.Flow,
		Categories:      map[domain.CategoryRole]int64{},
	}
	if r.PartyID > 0 {
		req.Party = &domain.PartyRef{Kind: r.PartyKind, ID: r.PartyID, Role: r.PartyRole}
	}
	if r.DepositToID > 0 {
		req.Categories[domain.RoleDepositTo] = r.DepositToID
	}
	if r.LineCategoryID > 0 {
		req.Categories[domain.RoleLine] = r.LineCategoryID
	}
	if r.PartyCategoryID > 0 {
		req.Categories[domain.RoleParty] = r.PartyCategoryID
	}
	for _, l := range r.ManualLegs {
		req.ManualLegs = append(req.ManualLegs, domain.ManualLeg{
			CategoryID:  l.CategoryID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		})
	}
	return req, nil
}

// ReverseRequest identifies a posting to reverse.
type ReverseRequest struct {
	ReferenceType domain.PostingReferenceType  `json:"referenceType" binding:"required,posting_reference_type"`
	ReferenceID   int64                        `json:"referenceID" binding:"required,gt=0"`
	ReversalType  *domain.PostingReferenceType `json:"reversalType"` // Optional override
}

// JournalResponse defines the data returned for a journal.
type JournalResponse struct {
	Journal     *domain.Journal `json:"journal"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Posted      bool            `json:"posted"`
}

// ToJournalResponse wraps a journal, which may be nil when nothing was posted.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	if j == nil {
		return JournalResponse{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	}
	debit, credit := j.Totals()
	return JournalResponse{Journal: j, TotalDebit: debit, TotalCredit: credit, Posted: true}
}
