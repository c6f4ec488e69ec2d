package domain_test

import (
	"testing"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPostingRequest_Validate(t *testing.T) {
	valid := func() domain.PostingRequest {
		return domain.PostingRequest{
			ReferenceType: domain.RefInvoice,
			ReferenceID:   10,
			Amount:        decimal.NewFromInt(1000),
			VatAmount:     decimal.NewFromInt(50),
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *domain.PostingRequest)
		wantErr error
	}{
		{"valid", func(r *domain.PostingRequest) {}, nil},
		{"unknown type", func(r *domain.PostingRequest) { r.ReferenceType = 0 }, apperrors.ErrValidation},
		{"zero reference id", func(r *domain.PostingRequest) { r.ReferenceID = 0 }, apperrors.ErrPrecondition},
		{"negative amount", func(r *domain.PostingRequest) { r.Amount = decimal.NewFromInt(-1) }, apperrors.ErrValidation},
		{"negative balance adjustment", func(r *domain.PostingRequest) {
			r.ReferenceType = domain.RefBalanceAdjustment
			r.Amount = decimal.NewFromInt(-100)
			r.VatAmount = decimal.Zero
		}, nil},
		{"negative discount", func(r *domain.PostingRequest) { r.DiscountAmount = decimal.NewFromInt(-5) }, apperrors.ErrValidation},
		{"vat above amount", func(r *domain.PostingRequest) { r.VatAmount = decimal.NewFromInt(2000) }, apperrors.ErrValidation},
		{"negative rate", func(r *domain.PostingRequest) { r.ExchangeRate = decimal.NewFromInt(-2) }, apperrors.ErrValidation},
		{"bad flow", func(r *domain.PostingRequest) { r.Flow = "SIDEWAYS" }, apperrors.ErrValidation},
		{"malformed party", func(r *domain.PostingRequest) {
			r.Party = &domain.PartyRef{Kind: domain.PartyContact, ID: 0, Role: domain.RoleReceivable}
		}, apperrors.ErrPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPostingRequest_Rate(t *testing.T) {
	assert.True(t, decimal.NewFromInt(1).Equal(domain.PostingRequest{}.Rate()))
	r := domain.PostingRequest{ExchangeRate: decimal.RequireFromString("3.6725")}
	assert.Equal(t, "3.6725", r.Rate().String())
}

func TestPostingRequest_Category(t *testing.T) {
	r := domain.PostingRequest{Categories: map[domain.CategoryRole]int64{domain.RoleDepositTo: 7, domain.RoleLine: 0}}
	id, ok := r.Category(domain.RoleDepositTo)
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)

	_, ok = r.Category(domain.RoleLine)
	assert.False(t, ok, "zero id is no hint")

	_, ok = r.Category(domain.RoleParty)
	assert.False(t, ok)
}

func TestParty_DisplayName(t *testing.T) {
	assert.Equal(t, "Acme LLC", domain.Party{Organization: " Acme LLC ", FirstName: "Jo"}.DisplayName())
	assert.Equal(t, "Jo Smith", domain.Party{FirstName: "Jo", LastName: "Smith"}.DisplayName())
	assert.Equal(t, "Jo", domain.Party{FirstName: "Jo"}.DisplayName())
}
