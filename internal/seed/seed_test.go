package seed_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/repositories/memory"
	"github.com/SscSPs/ledger_engine/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wellKnownCodes = []string{
	domain.CodeAccountsReceivable,
	domain.CodeBank,
	domain.CodePettyCash,
	domain.CodeInputVat,
	domain.CodeAmountInTransit,
	domain.CodeOpeningBalanceOffsetAssets,
	domain.CodeInventoryAsset,
	domain.CodeAccountsPayable,
	domain.CodeOutputVat,
	domain.CodeVatPayable,
	domain.CodeCorporationTax,
	domain.CodeOpeningBalanceOffsetLiabilities,
	domain.CodePayrollLiability,
	domain.CodeRetainedEarnings,
	domain.CodeSales,
	domain.CodePurchaseDiscount,
	domain.CodeCostOfGoodsSold,
	domain.CodeSalesDiscount,
	domain.CodeSalariesAndWages,
	domain.CodeCorporateTaxExpense,
}

func TestDefaultChart_CoversWellKnownCodes(t *testing.T) {
	chart, err := seed.DefaultChart()
	require.NoError(t, err)

	codes := map[string]bool{}
	for _, c := range chart.Categories {
		codes[c.Code] = true
	}
	for _, code := range wellKnownCodes {
		assert.True(t, codes[code], "missing %s", code)
	}
}

func TestLoad_IsIdempotent(t *testing.T) {
	store := memory.New()
	repos := memory.NewRepositoryProvider(store)
	ctx := context.Background()
	chart, err := seed.DefaultChart()
	require.NoError(t, err)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first, err := seed.Load(ctx, repos, chart, now)
	require.NoError(t, err)
	assert.Equal(t, len(chart.ChartOfAccounts), first.ChartOfAccounts)
	assert.Equal(t, len(chart.Categories), first.CategoriesCreated)

	ar, err := store.FindCategoryByCode(ctx, domain.CodeAccountsReceivable)
	require.NoError(t, err)
	assert.Equal(t, domain.Asset, ar.Classification)
	assert.False(t, ar.Editable)
	assert.True(t, ar.IsDefault)

	second, err := seed.Load(ctx, repos, chart, now)
	require.NoError(t, err)
	assert.Zero(t, second.CategoriesCreated)
	assert.Equal(t, len(chart.Categories), second.CategoriesKept)

	again, err := store.FindCategoryByCode(ctx, domain.CodeAccountsReceivable)
	require.NoError(t, err)
	assert.Equal(t, ar.ID, again.ID)

	bank, err := store.FindChartOfAccountByCode(ctx, domain.COABank)
	require.NoError(t, err)
	require.NotNil(t, bank.ParentID)
	root, err := store.FindChartOfAccountByID(ctx, *bank.ParentID)
	require.NoError(t, err)
	assert.Equal(t, "01", root.Code)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "bad classification", yaml: "chartOfAccounts:\n  - {code: \"01\", name: A, classification: STUFF}\n"},
		{name: "child before parent", yaml: "chartOfAccounts:\n  - {code: \"01-01\", name: A, classification: ASSET, parent: \"01\"}\n"},
		{name: "category outside its chart", yaml: "chartOfAccounts:\n  - {code: \"01\", name: A, classification: ASSET}\ncategories:\n  - {code: \"02-001\", name: B, chartOfAccount: \"01\"}\n"},
		{name: "not yaml", yaml: "chartOfAccounts: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seed.Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}
