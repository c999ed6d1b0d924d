package tax

import (
	"errors"
	"fmt"
)

var (
	ErrSummaryNotFound      = errors.New("employee tax year summary not found")
	ErrPeriodNotFound       = errors.New("salary period not found")
	ErrNotClosingPeriod     = errors.New("annual reconciliation requires the closing period")
	ErrRebuildNeedsForce    = errors.New("tax year summary already exists, pass force to rebuild")
	ErrUnsupportedTaxMethod = errors.New("unsupported tax method")
)

// ConfigurationError marks a regulatory table entry that is missing or
// malformed where no safe fallback exists. It is fatal for the single
// computation and must block persistence of that period.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("tax configuration error on %s: %s", e.Field, e.Reason)
}

// DataConsistencyError marks a YTD ledger state the engine refuses to build
// on. Hint names the concrete remediation (which month, which employee).
type DataConsistencyError struct {
	EmployeeID string
	Year       int
	Month      int
	Hint       string
}

func (e *DataConsistencyError) Error() string {
	if e.Month > 0 {
		return fmt.Sprintf("tax data inconsistency for employee %s year %d month %d: %s",
			e.EmployeeID, e.Year, e.Month, e.Hint)
	}
	return fmt.Sprintf("tax data inconsistency for employee %s year %d: %s",
		e.EmployeeID, e.Year, e.Hint)
}

// Warning codes attached to results when a documented default was
// substituted. Warnings never block a computation.
const (
	WarnTERCategoryDefaulted = "TER_CATEGORY_DEFAULTED"
	WarnTERRateFallback      = "TER_RATE_FALLBACK"
	WarnGrossMismatch        = "GROSS_PAY_MISMATCH"
	WarnMissingMonths        = "MISSING_MONTHS_ZERO_FILLED"
)
