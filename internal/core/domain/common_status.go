package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CommonStatus is the document status shared by invoices, expenses and tax filings.
// The integer values are persisted and must stay stable.
type CommonStatus int

const (
	StatusSaved         CommonStatus = 1 // a.k.a. Draft
	StatusPending       CommonStatus = 2
	StatusSent          CommonStatus = 3
	StatusApproved      CommonStatus = 4
	StatusPartiallyPaid CommonStatus = 5
	StatusPaid          CommonStatus = 6
	StatusPosted        CommonStatus = 7
	StatusClosed        CommonStatus = 8
	StatusOpen          CommonStatus = 9
	StatusUnFiled       CommonStatus = 10
	StatusFiled         CommonStatus = 11
	StatusClaimed       CommonStatus = 12
	StatusInvoiced      CommonStatus = 13
	StatusRejected      CommonStatus = 14
)

var commonStatusLabels = map[CommonStatus]string{
	StatusSaved:         "Saved",
	StatusPending:       "Pending",
	StatusSent:          "Sent",
	StatusApproved:      "Approved",
	StatusPartiallyPaid: "Partially Paid",
	StatusPaid:          "Paid",
	StatusPosted:        "Posted",
	StatusClosed:        "Closed",
	StatusOpen:          "Open",
	StatusUnFiled:       "UnFiled",
	StatusFiled:         "Filed",
	StatusClaimed:       "Claimed",
	StatusInvoiced:      "Invoiced",
	StatusRejected:      "Rejected",
}

func (s CommonStatus) String() string {
	if label, ok := commonStatusLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("CommonStatus(%d)", int(s))
}

// Valid reports whether s is a defined status.
func (s CommonStatus) Valid() bool {
	_, ok := commonStatusLabels[s]
	return ok
}

// NextInvoiceStatus returns the invoice status after a payment is applied against its due amount.
func NextInvoiceStatus(dueAmount, paymentAmount decimal.Decimal) CommonStatus {
	if dueAmount.Sub(paymentAmount).IsZero() {
		return StatusPaid
	}
	return StatusPartiallyPaid
}
