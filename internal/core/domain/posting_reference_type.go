package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PostingReferenceType tags every journal and line item with the business event that produced it.
// The integer values are persisted. New kinds are appended; existing values are never reused.
type PostingReferenceType int

const (
	RefInvoice                            PostingReferenceType = 1
	RefExpense                            PostingReferenceType = 2
	RefCreditNote                         PostingReferenceType = 3
	RefReceipt                            PostingReferenceType = 4
	RefPayment                            PostingReferenceType = 5
	RefReverseInvoice                     PostingReferenceType = 6
	RefDebitNote                          PostingReferenceType = 7
	RefTransactionReconsile               PostingReferenceType = 8
	RefPayrollApproved                    PostingReferenceType = 9
	RefCorporateTaxPayment                PostingReferenceType = 10
	RefBalanceAdjustment                  PostingReferenceType = 11
	RefVatPayment                         PostingReferenceType = 12
	RefVatClaim                           PostingReferenceType = 13
	RefBankAccount                        PostingReferenceType = 14
	RefVatReportFiled                     PostingReferenceType = 15
	RefReverseExpense                     PostingReferenceType = 16
	RefManual                             PostingReferenceType = 17
	RefTransactionReconsileInvoice        PostingReferenceType = 18
	RefPurchase                           PostingReferenceType = 19
	RefPettyCash                          PostingReferenceType = 20
	RefPayrollExplained                   PostingReferenceType = 21
	RefCorporateTaxReportUnfiled          PostingReferenceType = 22
	RefCorporateTaxReportFiled            PostingReferenceType = 23
	RefBankReceipt                        PostingReferenceType = 24
	RefBankPayment                        PostingReferenceType = 25
	RefRefund                             PostingReferenceType = 26
	RefVatReportUnfiled                   PostingReferenceType = 27
	RefReverseVatPayment                  PostingReferenceType = 28
	RefReverseVatClaim                    PostingReferenceType = 29
	RefReverseTransactionReconsile        PostingReferenceType = 30
	RefReversePayrollExplained            PostingReferenceType = 31
	RefReverseDebitNote                   PostingReferenceType = 32
	RefReverseCreditNote                  PostingReferenceType = 33
	RefReverseCorporateTaxPayment         PostingReferenceType = 34
	RefReverseBankAccount                 PostingReferenceType = 35
	RefDeleteBankAccount                  PostingReferenceType = 36
	RefCancelRefund                       PostingReferenceType = 37
	RefReverseReceipt                     PostingReferenceType = 38
	RefReversePayment                     PostingReferenceType = 39
	RefReverseBankReceipt                 PostingReferenceType = 40
	RefReverseBankPayment                 PostingReferenceType = 41
	RefPayrollVoided                      PostingReferenceType = 42
	RefReversePurchase                    PostingReferenceType = 43
	RefReversePettyCash                   PostingReferenceType = 44
	RefReverseManual                      PostingReferenceType = 45
	RefReverseBalanceAdjustment           PostingReferenceType = 46
	RefReverseTransactionReconsileInvoice PostingReferenceType = 47
)

var postingReferenceTypeNames = map[PostingReferenceType]string{
	RefInvoice:                            "INVOICE",
	RefExpense:                            "EXPENSE",
	RefCreditNote:                         "CREDIT_NOTE",
	RefReceipt:                            "RECEIPT",
	RefPayment:                            "PAYMENT",
	RefReverseInvoice:                     "REVERSE_INVOICE",
	RefDebitNote:                          "DEBIT_NOTE",
	RefTransactionReconsile:               "TRANSACTION_RECONSILE",
	RefPayrollApproved:                    "PAYROLL_APPROVED",
	RefCorporateTaxPayment:                "CORPORATE_TAX_PAYMENT",
	RefBalanceAdjustment:                  "BALANCE_ADJUSTMENT",
	RefVatPayment:                         "VAT_PAYMENT",
	RefVatClaim:                           "VAT_CLAIM",
	RefBankAccount:                        "BANK_ACCOUNT",
	RefVatReportFiled:                     "VAT_REPORT_FILED",
	RefReverseExpense:                     "REVERSE_EXPENSE",
	RefManual:                             "MANUAL",
	RefTransactionReconsileInvoice:        "TRANSACTION_RECONSILE_INVOICE",
	RefPurchase:                           "PURCHASE",
	RefPettyCash:                          "PETTY_CASH",
	RefPayrollExplained:                   "PAYROLL_EXPLAINED",
	RefCorporateTaxReportUnfiled:          "CORPORATE_TAX_REPORT_UNFILED",
	RefCorporateTaxReportFiled:            "CORPORATE_TAX_REPORT_FILED",
	RefBankReceipt:                        "BANK_RECEIPT",
	RefBankPayment:                        "BANK_PAYMENT",
	RefRefund:                             "REFUND",
	RefVatReportUnfiled:                   "VAT_REPORT_UNFILED",
	RefReverseVatPayment:                  "REVERSE_VAT_PAYMENT",
	RefReverseVatClaim:                    "REVERSE_VAT_CLAIM",
	RefReverseTransactionReconsile:        "REVERSE_TRANSACTION_RECONSILE",
	RefReversePayrollExplained:            "REVERSE_PAYROLL_EXPLAINED",
	RefReverseDebitNote:                   "REVERSE_DEBIT_NOTE",
	RefReverseCreditNote:                  "REVERSE_CREDIT_NOTE",
	RefReverseCorporateTaxPayment:         "REVERSE_CORPORATE_TAX_PAYMENT",
	RefReverseBankAccount:                 "REVERSE_BANK_ACCOUNT",
	RefDeleteBankAccount:                  "DELETE_BANK_ACCOUNT",
	RefCancelRefund:                       "CANCEL_REFUND",
	RefReverseReceipt:                     "REVERSE_RECEIPT",
	RefReversePayment:                     "REVERSE_PAYMENT",
	RefReverseBankReceipt:                 "REVERSE_BANK_RECEIPT",
	RefReverseBankPayment:                 "REVERSE_BANK_PAYMENT",
	RefPayrollVoided:                      "PAYROLL_VOIDED",
	RefReversePurchase:                    "REVERSE_PURCHASE",
	RefReversePettyCash:                   "REVERSE_PETTY_CASH",
	RefReverseManual:                      "REVERSE_MANUAL",
	RefReverseBalanceAdjustment:           "REVERSE_BALANCE_ADJUSTMENT",
	RefReverseTransactionReconsileInvoice: "REVERSE_TRANSACTION_RECONSILE_INVOICE",
}

// reversalPairs maps each forward posting kind to the kind its reversal journal is tagged with.
var reversalPairs = map[PostingReferenceType]PostingReferenceType{
	RefInvoice:                     RefReverseInvoice,
	RefExpense:                     RefReverseExpense,
	RefCreditNote:                  RefReverseCreditNote,
	RefReceipt:                     RefReverseReceipt,
	RefPayment:                     RefReversePayment,
	RefDebitNote:                   RefReverseDebitNote,
	RefTransactionReconsile:        RefReverseTransactionReconsile,
	RefPayrollApproved:             RefPayrollVoided,
	RefCorporateTaxPayment:         RefReverseCorporateTaxPayment,
	RefBalanceAdjustment:           RefReverseBalanceAdjustment,
	RefVatPayment:                  RefReverseVatPayment,
	RefVatClaim:                    RefReverseVatClaim,
	RefBankAccount:                 RefReverseBankAccount,
	RefVatReportFiled:              RefVatReportUnfiled,
	RefManual:                      RefReverseManual,
	RefTransactionReconsileInvoice: RefReverseTransactionReconsileInvoice,
	RefPurchase:                    RefReversePurchase,
	RefPettyCash:                   RefReversePettyCash,
	RefPayrollExplained:            RefReversePayrollExplained,
	RefCorporateTaxReportFiled:     RefCorporateTaxReportUnfiled,
	RefBankReceipt:                 RefReverseBankReceipt,
	RefBankPayment:                 RefReverseBankPayment,
	RefRefund:                      RefCancelRefund,
}

// AllPostingReferenceTypes returns every defined kind in ascending value order.
func AllPostingReferenceTypes() []PostingReferenceType {
	out := make([]PostingReferenceType, 0, len(postingReferenceTypeNames))
	for t := RefInvoice; t <= RefReverseTransactionReconsileInvoice; t++ {
		out = append(out, t)
	}
	return out
}

// ForwardPostingReferenceTypes returns the kinds that are posted directly (not reversals).
func ForwardPostingReferenceTypes() []PostingReferenceType {
	out := make([]PostingReferenceType, 0, len(reversalPairs))
	for _, t := range AllPostingReferenceTypes() {
		if _, ok := reversalPairs[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Valid reports whether t is a defined kind.
func (t PostingReferenceType) Valid() bool {
	_, ok := postingReferenceTypeNames[t]
	return ok
}

// IsReversal reports whether t tags a reversal journal.
func (t PostingReferenceType) IsReversal() bool {
	return t.Valid() && !t.IsForward()
}

// IsForward reports whether t is a kind the posting dispatcher accepts.
func (t PostingReferenceType) IsForward() bool {
	_, ok := reversalPairs[t]
	return ok
}

// ReversalType returns the paired reversal kind of a forward kind.
func (t PostingReferenceType) ReversalType() (PostingReferenceType, bool) {
	r, ok := reversalPairs[t]
	return r, ok
}

func (t PostingReferenceType) String() string {
	if name, ok := postingReferenceTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("PostingReferenceType(%d)", int(t))
}

// ParsePostingReferenceType resolves a kind from its name (case-insensitive).
func ParsePostingReferenceType(s string) (PostingReferenceType, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for t, name := range postingReferenceTypeNames {
		if name == want {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown posting reference type %q", s)
}

// MarshalJSON encodes the kind by name.
func (t PostingReferenceType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts either the name or the persisted integer value.
func (t *PostingReferenceType) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		parsed, err := ParsePostingReferenceType(name)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("posting reference type must be a name or integer: %w", err)
	}
	if !PostingReferenceType(n).Valid() {
		return fmt.Errorf("unknown posting reference type %d", n)
	}
	*t = PostingReferenceType(n)
	return nil
}
