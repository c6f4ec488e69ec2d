package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Well-known transaction category codes. Posting rules resolve categories by these codes,
// so they are a contract with the rest of the application and must never be renumbered.
const (
	CodeAccountsReceivable              = "01-01-001"
	CodeBank                            = "01-02-001"
	CodePettyCash                       = "01-03-001"
	CodeInputVat                        = "01-04-001"
	CodeAmountInTransit                 = "01-04-002"
	CodeOpeningBalanceOffsetAssets      = "01-04-003"
	CodeInventoryAsset                  = "01-05-001"
	CodeAccountsPayable                 = "02-01-001"
	CodeOutputVat                       = "02-02-001"
	CodeVatPayable                      = "02-02-002"
	CodeCorporationTax                  = "02-02-003"
	CodeOpeningBalanceOffsetLiabilities = "02-02-004"
	CodePayrollLiability                = "02-02-016"
	CodeRetainedEarnings                = "03-01-001"
	CodeSales                           = "04-01-001"
	CodePurchaseDiscount                = "04-02-001"
	CodeCostOfGoodsSold                 = "05-01-001"
	CodeSalesDiscount                   = "05-02-001"
	CodeSalariesAndWages                = "05-02-002"
	CodeCorporateTaxExpense             = "05-02-003"
)

// TransactionCategory is a leaf of the chart of accounts that journal legs are posted against.
type TransactionCategory struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Code             string `json:"code"`
	ParentID         *int64 `json:"parentID,omitempty"`
	ChartOfAccountID int64  `json:"chartOfAccountID"`
	Editable         bool   `json:"editable"`
	Selectable       bool   `json:"selectable"`
	IsDefault        bool   `json:"isDefault"`
	DeleteFlag       bool   `json:"deleteFlag"`
	VersionNumber    int    `json:"versionNumber"`
	AuditFields
}

// CategoryWithClassification pairs a category with the classification of its chart of account.
// Posting rules and the closing-balance ledger need both to derive a sign.
type CategoryWithClassification struct {
	TransactionCategory
	ChartOfAccountCode string         `json:"chartOfAccountCode"`
	Classification     Classification `json:"classification"`
}

// NormalFlow returns the normal balance side of the category.
func (c CategoryWithClassification) NormalFlow() (NormalFlow, error) {
	return NormalFlowOf(c.Classification)
}

// IsBank reports whether the category sits under the bank chart of account.
func (c CategoryWithClassification) IsBank() bool {
	return c.ChartOfAccountCode == COABank
}

// NextCategoryCode builds the code following the highest existing code under a chart of account.
// Codes have the form "<chartOfAccountCode>-NNN".
func NextCategoryCode(chartOfAccountCode string, existing []string) (string, error) {
	prefix := chartOfAccountCode + "-"
	maxSuffix := 0
	for _, code := range existing {
		if !strings.HasPrefix(code, prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(code, prefix))
		if err != nil {
			return "", fmt.Errorf("malformed category code %q: %w", code, err)
		}
		if n > maxSuffix {
			maxSuffix = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, maxSuffix+1), nil
}
