package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BankCurrencyPlaces is the precision bank-currency balances are kept at.
const BankCurrencyPlaces = 2

// SignedLegAmount returns the movement a leg causes on its category.
// Positive values increase the category balance on its normal side.
func SignedLegAmount(li domain.JournalLineItem, category domain.CategoryWithClassification) (decimal.Decimal, error) {
	flow, err := category.NormalFlow()
	if err != nil {
		return decimal.Zero, fmt.Errorf("category %d (%s): %w", category.ID, category.Code, err)
	}
	return flow.SignedAmount(li.DebitAmount, li.CreditAmount), nil
}

// SumSigned adds up the movement of legs that all belong to category.
func SumSigned(items []domain.JournalLineItem, category domain.CategoryWithClassification) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, li := range items {
		signed, err := SignedLegAmount(li, category)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(signed)
	}
	return sum, nil
}

// BankCurrencyAmount converts a base-currency amount back into the bank account's currency.
// The result is rounded half up to two places. A non-positive rate is treated as 1.
func BankCurrencyAmount(baseAmount, exchangeRate decimal.Decimal) decimal.Decimal {
	if !exchangeRate.IsPositive() {
		return baseAmount.Round(BankCurrencyPlaces)
	}
	// DivRound rounds half away from zero, which is HALF_UP for the magnitude.
	return baseAmount.DivRound(exchangeRate, BankCurrencyPlaces)
}

// NormalSide splits a signed balance into debit and credit columns for a trial balance.
func NormalSide(balance decimal.Decimal, flow domain.NormalFlow) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	positiveIsDebit := flow == domain.DebitIncreases
	switch {
	case balance.IsZero():
	case balance.IsPositive() == positiveIsDebit:
		debit = balance.Abs()
	default:
		credit = balance.Abs()
	}
	return debit, credit
}
