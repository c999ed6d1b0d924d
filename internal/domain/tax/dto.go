package tax

import (
	"github.com/gajihub/payroll-tax-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== CALCULATION DTOs ==========

type CalculateRequest struct {
	Period SalaryPeriod `json:"period"`
	// AllowMissingMonths opts in to zero-filling absent months during the
	// closing-period reconciliation. Without it a missing month blocks.
	AllowMissingMonths bool `json:"allow_missing_months,omitempty"`
}

func (r *CalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Period.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !validator.IsValidTaxStatus(r.Period.TaxStatus) {
		errs = append(errs, validator.ValidationError{Field: "tax_status", Message: "must be a PTKP code like TK/0 or K/2"})
	}
	if !validator.IsValidPeriodMonth(r.Period.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidPeriodYear(r.Period.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "is out of range"})
	}
	if r.Period.GrossPay.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "gross_pay", Message: "must be non-negative"})
	}
	for _, line := range append(append([]SalaryComponentLine{}, r.Period.Earnings...), r.Period.Deductions...) {
		if line.Kind != ComponentKindEarning && line.Kind != ComponentKindDeduction {
			errs = append(errs, validator.ValidationError{Field: "components", Message: "kind must be 'earning' or 'deduction'"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BatchCalculateRequest struct {
	Periods            []SalaryPeriod `json:"periods"`
	AllowMissingMonths bool           `json:"allow_missing_months,omitempty"`
}

func (r *BatchCalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Periods) == 0 {
		errs = append(errs, validator.ValidationError{Field: "periods", Message: "must not be empty"})
	}
	for _, p := range r.Periods {
		req := CalculateRequest{Period: p}
		if err := req.Validate(); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "periods." + p.EmployeeID,
				Message: err.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RebuildYearRequest struct {
	EmployeeID         string `json:"employee_id"`
	Year               int    `json:"year"`
	Force              bool   `json:"force,omitempty"`
	AllowMissingMonths bool   `json:"allow_missing_months,omitempty"`
}

func (r *RebuildYearRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !validator.IsValidPeriodYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "is out of range"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BPJSCalculateRequest struct {
	BaseSalary decimal.Decimal `json:"base_salary"`
}

func (r *BPJSCalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RESPONSE DTOs ==========

type CalculateResponse struct {
	Result  Result                 `json:"result"`
	Summary EmployeeTaxYearSummary `json:"summary"`
}

type BatchFailure struct {
	EmployeeID string `json:"employee_id"`
	Month      int    `json:"month"`
	Error      string `json:"error"`
}

type BatchCalculateResponse struct {
	Processed int            `json:"processed"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Results   []Result       `json:"results"`
	Failures  []BatchFailure `json:"failures,omitempty"`
}

type RebuildYearResponse struct {
	EmployeeID string                  `json:"employee_id"`
	Year       int                     `json:"year"`
	Processed  int                     `json:"processed"`
	Total      int                     `json:"total"`
	Summary    *EmployeeTaxYearSummary `json:"summary,omitempty"`
}
