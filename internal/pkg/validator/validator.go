package validator

import (
	"regexp"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// PTKP status codes: TK/0..TK/3 (single), K/0..K/3 (married),
// HB/0..HB/3 (widowed/divorced head of family).
var taxStatusRegex = regexp.MustCompile(`^(TK|K|HB)/[0-3]$`)

func IsValidTaxStatus(status string) bool {
	return taxStatusRegex.MatchString(strings.ToUpper(strings.TrimSpace(status)))
}

var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// NPWP validation (Indonesian taxpayer number): 15 or 16 digits once
// separators are stripped.
func IsValidNPWP(npwp string) bool {
	npwp = strings.NewReplacer(".", "", "-", "", " ", "").Replace(npwp)
	return (len(npwp) == 15 || len(npwp) == 16) && IsNumeric(npwp)
}

// IsValidPeriodMonth reports whether m is a calendar month number.
func IsValidPeriodMonth(m int) bool {
	return m >= 1 && m <= 12
}

// IsValidPeriodYear bounds the fiscal year. Nothing before the 2009 PPh 21
// regime is computable with this bracket model.
func IsValidPeriodYear(y int) bool {
	return y >= 2009 && y <= 2100
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
