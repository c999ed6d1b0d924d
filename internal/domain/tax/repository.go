package tax

import (
	"context"

	"github.com/shopspring/decimal"
)

// SummaryRepository is the persisted YTD ledger. One summary per
// (employee, year); the service layer guarantees a single writer per key.
type SummaryRepository interface {
	GetByEmployeeYear(ctx context.Context, employeeID string, year int) (EmployeeTaxYearSummary, error)
	Upsert(ctx context.Context, summary EmployeeTaxYearSummary) (EmployeeTaxYearSummary, error)
	Delete(ctx context.Context, employeeID string, year int) error
}

// PeriodSource exposes the finalized salary periods the engine replays
// during a rebuild, and falls back to when the ledger is missing at
// closing time.
type PeriodSource interface {
	ListFinalized(ctx context.Context, employeeID string, year int) ([]SalaryPeriod, error)
	// WithheldTaxTotal sums the correction-eligible tax already recorded on
	// finalized periods for months 1..beforeMonth-1.
	WithheldTaxTotal(ctx context.Context, employeeID string, year int, beforeMonth int) (WithheldTotals, error)
}

// WithheldTotals is the reconstruction result used when no ledger exists at
// closing time.
type WithheldTotals struct {
	TaxWithheld   decimal.Decimal
	Bruto         decimal.Decimal
	NettoReducers decimal.Decimal
	MonthsPresent []int
}
