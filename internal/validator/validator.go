// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	currencyCodeRegex   = regexp.MustCompile(`^[A-Z]{3}$`)
	chartOfAccountRegex = regexp.MustCompile(`^\d{2}-\d{2}$`)
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("posting_reference_type", validatePostingReferenceType)
	_ = v.RegisterValidation("currency_code", validateCurrencyCode)
	_ = v.RegisterValidation("coa_code", validateChartOfAccountCode)
}

func validatePostingReferenceType(fl validator.FieldLevel) bool {
	return domain.PostingReferenceType(fl.Field().Int()).Valid()
}

func validateCurrencyCode(fl validator.FieldLevel) bool {
	return currencyCodeRegex.MatchString(fl.Field().String())
}

func validateChartOfAccountCode(fl validator.FieldLevel) bool {
	return chartOfAccountRegex.MatchString(fl.Field().String())
}
