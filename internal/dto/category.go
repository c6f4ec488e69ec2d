package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// CreateCategoryRequest defines the data needed to create a transaction category.
type CreateCategoryRequest struct {
	Name               string `json:"name" binding:"required,max=255"`
	Description        string `json:"description" binding:"max=1000"`
	ChartOfAccountCode string `json:"chartOfAccountCode" binding:"required,coa_code"`
	ParentID           *int64 `json:"parentID"` // Optional
	Selectable         *bool  `json:"selectable"` // Defaults to true
	Editable           *bool  `json:"editable"`   // Defaults to true
}

// UpdateCategoryRequest defines the editable fields of a category.
// VersionNumber must equal the version the client last read.
type UpdateCategoryRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=255"`
	Description   *string `json:"description" binding:"omitempty,max=1000"`
	Selectable    *bool   `json:"selectable"`
	VersionNumber int     `json:"versionNumber" binding:"required,gte=1"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	ID                 int64                 `json:"id"`
	Code               string                `json:"code"`
	Name               string                `json:"name"`
	Description        string                `json:"description"`
	ParentID           *int64                `json:"parentID,omitempty"`
	ChartOfAccountCode string                `json:"chartOfAccountCode,omitempty"`
	Classification     domain.Classification `json:"classification,omitempty"`
	Editable           bool                  `json:"editable"`
	Selectable         bool                  `json:"selectable"`
	IsDefault          bool                  `json:"isDefault"`
	VersionNumber      int                   `json:"versionNumber"`
	LastUpdatedAt      time.Time             `json:"lastUpdatedAt"`
}

// ToCategoryResponse converts a domain category to its response DTO.
func ToCategoryResponse(c domain.CategoryWithClassification) CategoryResponse {
	resp := FromTransactionCategory(c.TransactionCategory)
	resp.ChartOfAccountCode = c.ChartOfAccountCode
	resp.Classification = c.Classification
	return resp
}

// FromTransactionCategory converts a bare category to its response DTO.
func FromTransactionCategory(c domain.TransactionCategory) CategoryResponse {
	return CategoryResponse{
		ID:            c.ID,
		Code:          c.Code,
		Name:          c.Name,
		Description:   c.Description,
		ParentID:      c.ParentID,
		Editable:      c.Editable,
		Selectable:    c.Selectable,
		IsDefault:     c.IsDefault,
		VersionNumber: c.VersionNumber,
		LastUpdatedAt: c.LastUpdatedAt,
	}
}

// OnboardPartyRequest defines a contact or employee whose sub-categories should be created.
type OnboardPartyRequest struct {
	Kind         domain.PartyKind `json:"kind" binding:"required,oneof=CONTACT EMPLOYEE"`
	ID           int64            `json:"id" binding:"required,gt=0"`
	ContactType  int              `json:"contactType" binding:"omitempty,oneof=1 2 3"`
	Organization string           `json:"organization" binding:"max=255"`
	FirstName    string           `json:"firstName" binding:"max=100"`
	LastName     string           `json:"lastName" binding:"max=100"`
}

// ToDomain converts the request into a domain party.
func (r OnboardPartyRequest) ToDomain() domain.Party {
	return domain.Party{
		Kind:         r.Kind,
		ID:           r.ID,
		ContactType:  r.ContactType,
		Organization: r.Organization,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
	}
}
