package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ReportRequest selects a date window and, optionally, a subset of categories.
type ReportRequest struct {
	StartDate          time.Time `json:"startDate"`
	EndDate            time.Time `json:"endDate"`
	ChartOfAccountCode string    `json:"chartOfAccountCode,omitempty"`
	CategoryIDs        []int64   `json:"categoryIDs,omitempty"`
	IncludeChildren    bool      `json:"includeChildren,omitempty"` // also match legs posted to children of CategoryIDs
}

// Normalize truncates the window to calendar dates and validates its order.
func (r ReportRequest) Normalize() (ReportRequest, error) {
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return r, fmt.Errorf("%w: report window needs both start and end dates", apperrors.ErrValidation)
	}
	r.StartDate = DateOnly(r.StartDate)
	r.EndDate = DateOnly(r.EndDate)
	if r.EndDate.Before(r.StartDate) {
		return r, fmt.Errorf("%w: end date %s is before start date %s", apperrors.ErrValidation,
			r.EndDate.Format(time.DateOnly), r.StartDate.Format(time.DateOnly))
	}
	return r, nil
}

// DocumentKind is the kind of source document a posting reference type points at.
type DocumentKind string

const (
	DocumentNone            DocumentKind = ""
	DocumentInvoice         DocumentKind = "INVOICE"
	DocumentExpense         DocumentKind = "EXPENSE"
	DocumentPayment         DocumentKind = "PAYMENT"
	DocumentReceipt         DocumentKind = "RECEIPT"
	DocumentCreditNote      DocumentKind = "CREDIT_NOTE"
	DocumentBankTransaction DocumentKind = "BANK_TRANSACTION"
	DocumentPayroll         DocumentKind = "PAYROLL"
)

// DocumentRef is what the general ledger shows for a leg's source document.
type DocumentRef struct {
	Number       string `json:"number"`
	Counterparty string `json:"counterparty"`
}

// GeneralLedgerRow is one leg in the general ledger detail report.
type GeneralLedgerRow struct {
	Date            time.Time            `json:"date"`
	ReferenceType   PostingReferenceType `json:"referenceType"`
	ReferenceID     int64                `json:"referenceID"`
	ReferenceNumber string               `json:"referenceNumber"`
	Counterparty    string               `json:"counterparty"`
	Description     string               `json:"description"`
	Debit           decimal.Decimal      `json:"debit"`
	Credit          decimal.Decimal      `json:"credit"`
	RunningBalance  decimal.Decimal      `json:"runningBalance"`
	ReversalFlag    bool                 `json:"reversalFlag"`
}

// GeneralLedgerAccount is one category section of the general ledger: opening row, legs, closing row.
type GeneralLedgerAccount struct {
	Category       CategoryWithClassification `json:"category"`
	OpeningBalance decimal.Decimal            `json:"openingBalance"`
	Rows           []GeneralLedgerRow         `json:"rows"`
	ClosingBalance decimal.Decimal            `json:"closingBalance"`
}

// TrialBalanceRow is a category's closing balance placed on its normal side.
type TrialBalanceRow struct {
	Category CategoryWithClassification `json:"category"`
	Debit    decimal.Decimal            `json:"debit"`
	Credit   decimal.Decimal            `json:"credit"`
}

// documentKinds maps every posting kind, forward and reversal, to its source document.
var documentKinds = map[PostingReferenceType]DocumentKind{
	RefInvoice:                            DocumentInvoice,
	RefReverseInvoice:                     DocumentInvoice,
	RefPurchase:                           DocumentInvoice,
	RefReversePurchase:                    DocumentInvoice,
	RefCreditNote:                         DocumentCreditNote,
	RefReverseCreditNote:                  DocumentCreditNote,
	RefDebitNote:                          DocumentCreditNote,
	RefReverseDebitNote:                   DocumentCreditNote,
	RefExpense:                            DocumentExpense,
	RefReverseExpense:                     DocumentExpense,
	RefPettyCash:                          DocumentExpense,
	RefReversePettyCash:                   DocumentExpense,
	RefPayment:                            DocumentPayment,
	RefReversePayment:                     DocumentPayment,
	RefRefund:                             DocumentPayment,
	RefCancelRefund:                       DocumentPayment,
	RefReceipt:                            DocumentReceipt,
	RefReverseReceipt:                     DocumentReceipt,
	RefTransactionReconsile:               DocumentBankTransaction,
	RefReverseTransactionReconsile:        DocumentBankTransaction,
	RefTransactionReconsileInvoice:        DocumentBankTransaction,
	RefReverseTransactionReconsileInvoice: DocumentBankTransaction,
	RefBankReceipt:                        DocumentBankTransaction,
	RefReverseBankReceipt:                 DocumentBankTransaction,
	RefBankPayment:                        DocumentBankTransaction,
	RefReverseBankPayment:                 DocumentBankTransaction,
	RefBankAccount:                        DocumentBankTransaction,
	RefReverseBankAccount:                 DocumentBankTransaction,
	RefDeleteBankAccount:                  DocumentBankTransaction,
	RefVatPayment:                         DocumentBankTransaction,
	RefReverseVatPayment:                  DocumentBankTransaction,
	RefVatClaim:                           DocumentBankTransaction,
	RefReverseVatClaim:                    DocumentBankTransaction,
	RefCorporateTaxPayment:                DocumentBankTransaction,
	RefReverseCorporateTaxPayment:         DocumentBankTransaction,
	RefPayrollApproved:                    DocumentPayroll,
	RefPayrollVoided:                      DocumentPayroll,
	RefPayrollExplained:                   DocumentPayroll,
	RefReversePayrollExplained:            DocumentPayroll,
	RefBalanceAdjustment:                  DocumentNone,
	RefReverseBalanceAdjustment:           DocumentNone,
	RefManual:                             DocumentNone,
	RefReverseManual:                      DocumentNone,
	RefVatReportFiled:                     DocumentNone,
	RefVatReportUnfiled:                   DocumentNone,
	RefCorporateTaxReportFiled:            DocumentNone,
	RefCorporateTaxReportUnfiled:          DocumentNone,
}

// DocumentKindOf returns the kind of document a leg tagged t points at.
// The second result is false for kinds with no mapping.
func DocumentKindOf(t PostingReferenceType) (DocumentKind, bool) {
	kind, ok := documentKinds[t]
	return kind, ok
}
