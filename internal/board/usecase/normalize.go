package usecase

import (
	"math"
	"strings"
	"unicode/utf8"

	"stock-board/internal/entity"

	"github.com/shopspring/decimal"
)

// maxPrice is the largest value a numeric(15,2) column holds.
var maxPrice = decimal.RequireFromString("9999999999999.99")

// requiredText trims value and rejects it when blank or longer than maxLen
// characters. A zero maxLen means no limit.
func requiredText(field, value string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", validationErrorf("%s is required", field)
	}
	if err := checkLength(field, trimmed, maxLen); err != nil {
		return "", err
	}
	return trimmed, nil
}

// optionalText trims s and turns blank values into nil.
func optionalText(field string, s *string, maxLen int) (*string, error) {
	if s == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil, nil
	}
	if err := checkLength(field, trimmed, maxLen); err != nil {
		return nil, err
	}
	return &trimmed, nil
}

// checkLength counts characters, not bytes, as varchar does.
func checkLength(field, value string, maxLen int) error {
	if maxLen > 0 && utf8.RuneCountInString(value) > maxLen {
		return validationErrorf("%s must be at most %d characters", field, maxLen)
	}
	return nil
}

// price converts an optional float into a nullable decimal rounded to cents,
// rejecting negative, non-finite and out-of-range values.
func price(field string, v *float64) (decimal.NullDecimal, error) {
	if v == nil {
		return decimal.NullDecimal{}, nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return decimal.NullDecimal{}, validationErrorf("%s must be a finite number", field)
	}
	if *v < 0 {
		return decimal.NullDecimal{}, validationErrorf("%s must be greater than or equal to 0", field)
	}
	rounded := decimal.NewFromFloat(*v).Round(entity.PriceScale)
	if rounded.GreaterThan(maxPrice) {
		return decimal.NullDecimal{}, validationErrorf("%s must be at most %s", field, maxPrice.String())
	}
	return decimal.NewNullDecimal(rounded), nil
}
