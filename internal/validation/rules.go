// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"
	"github.com/shopspring/decimal"

	apperrors "github.com/allisson/catalog/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NonNegativeDecimal validates that a decimal.Decimal is >= 0.
var NonNegativeDecimal = validation.By(func(value interface{}) error {
	d, ok := toDecimal(value)
	if !ok {
		return validation.NewError("validation_decimal_type", "must be a decimal number")
	}
	if d.IsNegative() {
		return validation.NewError("validation_decimal_non_negative", "must be no less than 0")
	}
	return nil
})

// MaxDecimalPlaces validates that a decimal.Decimal has at most places fractional digits.
func MaxDecimalPlaces(places int32) validation.Rule {
	return validation.By(func(value interface{}) error {
		d, ok := toDecimal(value)
		if !ok {
			return validation.NewError("validation_decimal_type", "must be a decimal number")
		}
		if !d.Equal(d.Truncate(places)) {
			return validation.NewError(
				"validation_decimal_places",
				"must not have more than the allowed decimal places",
			).SetParams(map[string]interface{}{"places": places})
		}
		return nil
	})
}

func toDecimal(value interface{}) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, true
		}
		return *v, true
	default:
		return decimal.Zero, false
	}
}
