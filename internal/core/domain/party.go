package domain

import "strings"

// PartyKind distinguishes contacts from employees.
type PartyKind string

const (
	PartyContact  PartyKind = "CONTACT"
	PartyEmployee PartyKind = "EMPLOYEE"
)

func (k PartyKind) Valid() bool { return k == PartyContact || k == PartyEmployee }

// PartyRole names which of a party's sub-categories a leg is posted to.
type PartyRole string

const (
	RoleReceivable PartyRole = "RECEIVABLE"
	RolePayable    PartyRole = "PAYABLE"
	RolePayroll    PartyRole = "PAYROLL"
)

func (r PartyRole) Valid() bool {
	return r == RoleReceivable || r == RolePayable || r == RolePayroll
}

// ContactType values as stored on contacts.
const (
	ContactTypeSupplier = 1
	ContactTypeCustomer = 2
	ContactTypeBoth     = 3
)

// Party is the onboarding view of a contact or employee, enough to name its sub-categories.
type Party struct {
	Kind         PartyKind `json:"kind"`
	ID           int64     `json:"id"`
	ContactType  int       `json:"contactType"`
	Organization string    `json:"organization"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
}

// DisplayName is the organization name when present, otherwise "first last".
func (p Party) DisplayName() string {
	if org := strings.TrimSpace(p.Organization); org != "" {
		return org
	}
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// PartyCategoryRelation links a party to the sub-category that carries its balance for a role.
type PartyCategoryRelation struct {
	ID                    int64     `json:"id"`
	PartyKind             PartyKind `json:"partyKind"`
	PartyID               int64     `json:"partyID"`
	Role                  PartyRole `json:"role"`
	TransactionCategoryID int64     `json:"transactionCategoryID"`
	AuditFields
}
