package models

// ChartOfAccount is a row of chart_of_account.
type ChartOfAccount struct {
	ID             int64  `json:"id"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	Classification string `json:"classification"`
	ParentID       *int64 `json:"parentID"`
}

// TransactionCategory is a row of transaction_category.
type TransactionCategory struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Code             string `json:"code"`
	ParentID         *int64 `json:"parentID"`
	ChartOfAccountID int64  `json:"chartOfAccountID"`
	Editable         bool   `json:"editable"`
	Selectable       bool   `json:"selectable"`
	IsDefault        bool   `json:"isDefault"`
	DeleteFlag       bool   `json:"deleteFlag"`
	VersionNumber    int    `json:"versionNumber"`
	AuditFields
}

// CategoryWithClassification is a transaction_category row joined with its chart_of_account.
type CategoryWithClassification struct {
	TransactionCategory
	ChartOfAccountCode string `json:"chartOfAccountCode"`
	Classification     string `json:"classification"`
}

// PartyCategoryRelation is a row of party_category_relation.
type PartyCategoryRelation struct {
	ID                    int64  `json:"id"`
	PartyKind             string `json:"partyKind"`
	PartyID               int64  `json:"partyID"`
	Role                  string `json:"role"`
	TransactionCategoryID int64  `json:"transactionCategoryID"`
	AuditFields
}
