package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToDomainChartOfAccount converts a model ChartOfAccount to a domain ChartOfAccount
func ToDomainChartOfAccount(m models.ChartOfAccount) domain.ChartOfAccount {
	return domain.ChartOfAccount{
		ID:             m.ID,
		Code:           m.Code,
		Name:           m.Name,
		Classification: domain.Classification(m.Classification),
		ParentID:       m.ParentID,
	}
}

// ToModelTransactionCategory converts a domain TransactionCategory to a model TransactionCategory
func ToModelTransactionCategory(d domain.TransactionCategory) models.TransactionCategory {
	return models.TransactionCategory{
		ID:               d.ID,
		Name:             d.Name,
		Description:      d.Description,
		Code:             d.Code,
		ParentID:         d.ParentID,
		ChartOfAccountID: d.ChartOfAccountID,
		Editable:         d.Editable,
		Selectable:       d.Selectable,
		IsDefault:        d.IsDefault,
		DeleteFlag:       d.DeleteFlag,
		VersionNumber:    d.VersionNumber,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransactionCategory converts a model TransactionCategory to a domain TransactionCategory
func ToDomainTransactionCategory(m models.TransactionCategory) domain.TransactionCategory {
	return domain.TransactionCategory{
		ID:               m.ID,
		Name:             m.Name,
		Description:      m.Description,
		Code:             m.Code,
		ParentID:         m.ParentID,
		ChartOfAccountID: m.ChartOfAccountID,
		Editable:         m.Editable,
		Selectable:       m.Selectable,
		IsDefault:        m.IsDefault,
		DeleteFlag:       m.DeleteFlag,
		VersionNumber:    m.VersionNumber,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCategoryWithClassification converts a joined category row to its domain form
func ToDomainCategoryWithClassification(m models.CategoryWithClassification) domain.CategoryWithClassification {
	return domain.CategoryWithClassification{
		TransactionCategory: ToDomainTransactionCategory(m.TransactionCategory),
		ChartOfAccountCode:  m.ChartOfAccountCode,
		Classification:      domain.Classification(m.Classification),
	}
}

// ToDomainPartyCategoryRelation converts a model PartyCategoryRelation to a domain PartyCategoryRelation
func ToDomainPartyCategoryRelation(m models.PartyCategoryRelation) domain.PartyCategoryRelation {
	return domain.PartyCategoryRelation{
		ID:                    m.ID,
		PartyKind:             domain.PartyKind(m.PartyKind),
		PartyID:               m.PartyID,
		Role:                  domain.PartyRole(m.Role),
		TransactionCategoryID: m.TransactionCategoryID,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}
