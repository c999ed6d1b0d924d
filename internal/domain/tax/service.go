package tax

import (
	"context"
)

type TaxService interface {
	// Calculation
	Calculate(ctx context.Context, req CalculateRequest) (CalculateResponse, error)
	CalculateBatch(ctx context.Context, req BatchCalculateRequest) (BatchCalculateResponse, error)
	RebuildYear(ctx context.Context, req RebuildYearRequest) (RebuildYearResponse, error)
	// Ledger
	GetSummary(ctx context.Context, employeeID string, year int) (EmployeeTaxYearSummary, error)
	// Configuration
	Settings() *Settings
	// BPJS
	CalculateBPJS(ctx context.Context, req BPJSCalculateRequest) (BPJSResult, error)
}
