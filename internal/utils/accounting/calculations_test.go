package accounting_test

import (
	"testing"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func category(class domain.Classification) domain.CategoryWithClassification {
	return domain.CategoryWithClassification{
		TransactionCategory: domain.TransactionCategory{ID: 1, Code: "x"},
		Classification:      class,
	}
}

func TestSignedLegAmount(t *testing.T) {
	debitLeg := domain.JournalLineItem{DebitAmount: dec("100"), CreditAmount: decimal.Zero}
	creditLeg := domain.JournalLineItem{DebitAmount: decimal.Zero, CreditAmount: dec("40")}

	tests := []struct {
		name  string
		class domain.Classification
		leg   domain.JournalLineItem
		want  string
	}{
		{"debit to asset", domain.Asset, debitLeg, "100"},
		{"credit to asset", domain.Asset, creditLeg, "-40"},
		{"debit to liability", domain.Liability, debitLeg, "-100"},
		{"credit to income", domain.Income, creditLeg, "40"},
		{"debit to expense", domain.Expense, debitLeg, "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.SignedLegAmount(tt.leg, category(tt.class))
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(got), "got %s", got)
		})
	}

	_, err := accounting.SignedLegAmount(debitLeg, category("BOGUS"))
	assert.Error(t, err)
}

func TestSumSigned(t *testing.T) {
	legs := []domain.JournalLineItem{
		{DebitAmount: dec("200"), CreditAmount: decimal.Zero},
		{DebitAmount: dec("200"), CreditAmount: decimal.Zero},
		{DebitAmount: decimal.Zero, CreditAmount: dec("50")},
	}
	got, err := accounting.SumSigned(legs, category(domain.Asset))
	require.NoError(t, err)
	assert.True(t, dec("350").Equal(got))
}

func TestBankCurrencyAmount(t *testing.T) {
	assert.Equal(t, "27.23", accounting.BankCurrencyAmount(dec("100"), dec("3.6725")).StringFixed(2))
	assert.Equal(t, "0.01", accounting.BankCurrencyAmount(dec("0.005"), dec("1")).StringFixed(2))
	assert.Equal(t, "-0.01", accounting.BankCurrencyAmount(dec("-0.005"), dec("1")).StringFixed(2))
	assert.Equal(t, "12.35", accounting.BankCurrencyAmount(dec("12.345"), decimal.Zero).StringFixed(2))
}

func TestNormalSide(t *testing.T) {
	d, c := accounting.NormalSide(dec("10"), domain.DebitIncreases)
	assert.True(t, dec("10").Equal(d))
	assert.True(t, c.IsZero())

	d, c = accounting.NormalSide(dec("-10"), domain.DebitIncreases)
	assert.True(t, d.IsZero())
	assert.True(t, dec("10").Equal(c))

	d, c = accounting.NormalSide(dec("10"), domain.CreditIncreases)
	assert.True(t, d.IsZero())
	assert.True(t, dec("10").Equal(c))

	d, c = accounting.NormalSide(decimal.Zero, domain.CreditIncreases)
	assert.True(t, d.IsZero() && c.IsZero())
}
