package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Classification defines the fundamental accounting type of a chart-of-account node.
type Classification string

const (
	Asset     Classification = "ASSET"
	Liability Classification = "LIABILITY"
	Equity    Classification = "EQUITY"
	Income    Classification = "INCOME"
	Expense   Classification = "EXPENSE"
)

// Valid reports whether c is one of the five known classifications.
func (c Classification) Valid() bool {
	switch c {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// ChartOfAccount is a node of the static category tree that transaction categories attach to.
type ChartOfAccount struct {
	ID             int64          `json:"id"`
	Code           string         `json:"code"` // e.g. "01-01"; stable, used as a lookup key
	Name           string         `json:"name"`
	Classification Classification `json:"classification"`
	ParentID       *int64         `json:"parentID,omitempty"`
}

// Well-known chart-of-account codes.
const (
	COAAccountsReceivable = "01-01"
	COABank               = "01-02"
	COACash               = "01-03"
	COACurrentAsset       = "01-04"
	COAInventory          = "01-05"
	COAAccountsPayable    = "02-01"
	COACurrentLiability   = "02-02"
	COAEquity             = "03-01"
	COAIncome             = "04-01"
	COAOtherIncome        = "04-02"
	COACostOfGoodsSold    = "05-01"
	COAOperatingExpense   = "05-02"
)

// NormalFlow says which side of a leg increases a category's balance.
type NormalFlow string

const (
	DebitIncreases  NormalFlow = "DEBIT_INCREASES"
	CreditIncreases NormalFlow = "CREDIT_INCREASES"
)

// NormalFlowOf returns the normal balance side for a classification.
// Asset and expense categories grow with debits; liability, equity and income grow with credits.
func NormalFlowOf(c Classification) (NormalFlow, error) {
	switch c {
	case Asset, Expense:
		return DebitIncreases, nil
	case Liability, Equity, Income:
		return CreditIncreases, nil
	default:
		return "", fmt.Errorf("unknown classification %q", c)
	}
}

// SignedAmount returns the movement a leg causes on a category with the given normal flow.
// A positive result increases the category balance.
func (f NormalFlow) SignedAmount(debit, credit decimal.Decimal) decimal.Decimal {
	if f == CreditIncreases {
		return credit.Sub(debit)
	}
	return debit.Sub(credit)
}
