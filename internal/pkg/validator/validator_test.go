package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidTaxStatus(t *testing.T) {
	t.Parallel()

	valid := []string{"TK/0", "TK/3", "K/0", "K/2", "HB/1", "tk/0", " K/1 "}
	for _, s := range valid {
		assert.True(t, IsValidTaxStatus(s), "expected %q to be valid", s)
	}

	invalid := []string{"", "TK0", "TK/4", "X/0", "K/", "K-1", "TK/00"}
	for _, s := range invalid {
		assert.False(t, IsValidTaxStatus(s), "expected %q to be invalid", s)
	}
}

func TestIsValidNPWP(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidNPWP("01.234.567.8-901.000"))
	assert.True(t, IsValidNPWP("0123456789012345"))
	assert.False(t, IsValidNPWP("123"))
	assert.False(t, IsValidNPWP("01.234.567.8-901.00X"))
}

func TestIsValidPeriodMonth(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidPeriodMonth(1))
	assert.True(t, IsValidPeriodMonth(12))
	assert.False(t, IsValidPeriodMonth(0))
	assert.False(t, IsValidPeriodMonth(13))
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	errs := ValidationErrors{
		{Field: "tax_status", Message: "is required"},
		{Field: "month", Message: "must be between 1 and 12"},
	}

	assert.Equal(t, "tax_status: is required; month: must be between 1 and 12", errs.Error())
	assert.Equal(t, map[string]string{
		"tax_status": "is required",
		"month":      "must be between 1 and 12",
	}, errs.ToMap())
}
