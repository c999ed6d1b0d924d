package tax

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComponentKind enum
type ComponentKind string

const (
	ComponentKindEarning   ComponentKind = "earning"
	ComponentKindDeduction ComponentKind = "deduction"
)

// TaxEffectCategory is the closed set of tax effects a salary component line
// can have. It is derived from the line's flags and never persisted.
type TaxEffectCategory string

const (
	EffectTaxableBruto     TaxEffectCategory = "taxable_bruto"
	EffectNettoReducer     TaxEffectCategory = "netto_reducer"
	EffectNoEffect         TaxEffectCategory = "no_effect"
	EffectTaxableInKind    TaxEffectCategory = "taxable_in_kind"
	EffectNonTaxableInKind TaxEffectCategory = "non_taxable_in_kind"
)

// TaxMethod enum
type TaxMethod string

const (
	MethodProgressive TaxMethod = "progressive"
	MethodTER         TaxMethod = "ter"
	// MethodGrossUp is recognized in configuration but not supported by
	// this engine.
	MethodGrossUp TaxMethod = "gross_up"
)

// TERCategory enum
type TERCategory string

const (
	TERCategoryA TERCategory = "TER A"
	TERCategoryB TERCategory = "TER B"
	TERCategoryC TERCategory = "TER C"
)

// SalaryComponentLine is one earning or deduction row of a salary period.
// Classification is driven entirely by the flags; component names are
// display-only.
type SalaryComponentLine struct {
	Name                         string          `json:"name"`
	Kind                         ComponentKind   `json:"kind"`
	Amount                       decimal.Decimal `json:"amount"`
	IsTaxApplicable              bool            `json:"is_tax_applicable"`
	IsIncomeTaxComponent         bool            `json:"is_income_tax_component"`
	VariableBasedOnTaxableSalary bool            `json:"variable_based_on_taxable_salary"`
	StatisticalComponent         bool            `json:"statistical_component"`
	DoNotIncludeInTotal          bool            `json:"do_not_include_in_total"`
	ExemptedFromIncomeTax        bool            `json:"exempted_from_income_tax"`
	RemoveIfZero                 bool            `json:"remove_if_zero"`
	// IsNatura marks a benefit-in-kind line. It is passed through from the
	// salary structure unchanged and only refines the taxable/exempt
	// classification into the in-kind buckets.
	IsNatura bool `json:"is_natura"`
}

// SalaryPeriod is the caller-supplied view of one employee's salary period.
// The engine never mutates it.
type SalaryPeriod struct {
	EmployeeID string                `json:"employee_id"`
	TaxStatus  string                `json:"tax_status"`
	Year       int                   `json:"year"`
	Month      int                   `json:"month"`
	Earnings   []SalaryComponentLine `json:"earnings"`
	Deductions []SalaryComponentLine `json:"deductions"`
	GrossPay   decimal.Decimal       `json:"gross_pay"`
	// IsClosingPeriod forces annual-reconciliation treatment independent of
	// the calendar month.
	IsClosingPeriod bool `json:"is_closing_period"`
}

// Closing reports whether this period must run the annual reconciliation.
func (p SalaryPeriod) Closing() bool {
	return p.IsClosingPeriod || p.Month == 12
}

// MonthlyTaxRecord is one finalized month inside an employee's year summary.
// It is immutable once written, except for the closing period which the
// reconciliation engine rewrites with the correction figure.
type MonthlyTaxRecord struct {
	Month int `json:"month"`
	// TaxableBruto is the classified taxable gross, not the period's declared
	// gross pay; the annual reconciliation sums it back.
	TaxableBruto          decimal.Decimal  `json:"taxable_bruto"`
	BPJSEmployeeDeduction decimal.Decimal  `json:"bpjs_employee_deduction"`
	OtherDeductions       decimal.Decimal  `json:"other_deductions"`
	TaxAmount             decimal.Decimal  `json:"tax_amount"`
	Method                TaxMethod        `json:"method"`
	TERRate               *decimal.Decimal `json:"ter_rate,omitempty"`
}

// NettoReducers is the month's total netto-reducing deductions.
func (r MonthlyTaxRecord) NettoReducers() decimal.Decimal {
	return r.BPJSEmployeeDeduction.Add(r.OtherDeductions)
}

// EmployeeTaxYearSummary is the YTD ledger: one row per (employee, year),
// exclusively owned by that key. MonthlyDetails is kept ordered by month.
type EmployeeTaxYearSummary struct {
	ID                    string             `json:"id"`
	EmployeeID            string             `json:"employee_id"`
	Year                  int                `json:"year"`
	YTDGross              decimal.Decimal    `json:"ytd_gross"`
	YTDTax                decimal.Decimal    `json:"ytd_tax"`
	YTDBPJS               decimal.Decimal    `json:"ytd_bpjs"`
	YTDTaxCorrection      decimal.Decimal    `json:"ytd_tax_correction"`
	YTDTaxWithCorrection  decimal.Decimal    `json:"ytd_tax_with_correction"`
	IsUsingTER            bool               `json:"is_using_ter"`
	TERRate               *decimal.Decimal   `json:"ter_rate,omitempty"`
	HasDecemberCorrection bool               `json:"has_december_correction"`
	MonthlyDetails        []MonthlyTaxRecord `json:"monthly_details"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

// Detail returns the record for a month, or nil.
func (s *EmployeeTaxYearSummary) Detail(month int) *MonthlyTaxRecord {
	for i := range s.MonthlyDetails {
		if s.MonthlyDetails[i].Month == month {
			return &s.MonthlyDetails[i]
		}
	}
	return nil
}

// PutDetail appends or replaces the record for record.Month, keeping
// MonthlyDetails ordered, then recomputes the YTD totals so the ledger
// invariants hold after every update.
func (s *EmployeeTaxYearSummary) PutDetail(record MonthlyTaxRecord) {
	replaced := false
	for i := range s.MonthlyDetails {
		if s.MonthlyDetails[i].Month == record.Month {
			s.MonthlyDetails[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		inserted := false
		for i := range s.MonthlyDetails {
			if record.Month < s.MonthlyDetails[i].Month {
				s.MonthlyDetails = append(s.MonthlyDetails[:i],
					append([]MonthlyTaxRecord{record}, s.MonthlyDetails[i:]...)...)
				inserted = true
				break
			}
		}
		if !inserted {
			s.MonthlyDetails = append(s.MonthlyDetails, record)
		}
	}
	s.RecalculateTotals()
}

// RecalculateTotals rebuilds every YTD aggregate from MonthlyDetails.
func (s *EmployeeTaxYearSummary) RecalculateTotals() {
	gross, taxTotal, bpjs := decimal.Zero, decimal.Zero, decimal.Zero
	for _, d := range s.MonthlyDetails {
		gross = gross.Add(d.TaxableBruto)
		taxTotal = taxTotal.Add(d.TaxAmount)
		bpjs = bpjs.Add(d.BPJSEmployeeDeduction)
	}
	s.YTDGross = gross
	s.YTDTax = taxTotal
	s.YTDBPJS = bpjs
	s.YTDTaxWithCorrection = s.expectedWithCorrection()
}

// Once the closing record is written, its tax amount already IS the
// correction figure, so adding YTDTaxCorrection on top would double-count it.
// Before the closing run YTDTaxCorrection is zero and the sum is harmless.
func (s *EmployeeTaxYearSummary) expectedWithCorrection() decimal.Decimal {
	if s.HasDecemberCorrection {
		return s.YTDTax
	}
	return s.YTDTax.Add(s.YTDTaxCorrection)
}

// CheckConsistency verifies the ledger invariants.
func (s *EmployeeTaxYearSummary) CheckConsistency() error {
	sum := decimal.Zero
	for _, d := range s.MonthlyDetails {
		sum = sum.Add(d.TaxAmount)
	}
	if !sum.Equal(s.YTDTax) {
		return &DataConsistencyError{
			EmployeeID: s.EmployeeID,
			Year:       s.Year,
			Hint:       "sum of monthly tax amounts does not match ytd_tax; re-run RecalculateTotals before persisting",
		}
	}
	if !s.YTDTaxWithCorrection.Equal(s.expectedWithCorrection()) {
		return &DataConsistencyError{
			EmployeeID: s.EmployeeID,
			Year:       s.Year,
			Hint:       "ytd_tax_with_correction diverges from ytd_tax + ytd_tax_correction",
		}
	}
	return nil
}

// BreakdownLine is one labeled sub-amount of an audit breakdown.
type BreakdownLine struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// FallbackWarning reports a documented default that was substituted during a
// computation. It never blocks the computation.
type FallbackWarning struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// Result is the outcome of one period's tax computation.
type Result struct {
	EmployeeID       string            `json:"employee_id"`
	Year             int               `json:"year"`
	Month            int               `json:"month"`
	TaxAmount        decimal.Decimal   `json:"tax_amount"`
	MethodUsed       TaxMethod         `json:"method_used"`
	TERCategory      *TERCategory      `json:"ter_category,omitempty"`
	TERRate          *decimal.Decimal  `json:"ter_rate,omitempty"`
	CorrectionAmount *decimal.Decimal  `json:"correction_amount,omitempty"`
	Breakdown        []BreakdownLine   `json:"breakdown"`
	Warnings         []FallbackWarning `json:"warnings,omitempty"`
}

// BPJSProgramResult holds one program's employee/employer contributions.
type BPJSProgramResult struct {
	Program  string          `json:"program"`
	Employee decimal.Decimal `json:"employee"`
	Employer decimal.Decimal `json:"employer"`
}

// BPJSResult is the structured outcome of a BPJS contribution calculation.
type BPJSResult struct {
	Kesehatan     BPJSProgramResult `json:"kesehatan"`
	JHT           BPJSProgramResult `json:"jht"`
	JP            BPJSProgramResult `json:"jp"`
	JKK           BPJSProgramResult `json:"jkk"`
	JKM           BPJSProgramResult `json:"jkm"`
	TotalEmployee decimal.Decimal   `json:"total_employee"`
	TotalEmployer decimal.Decimal   `json:"total_employer"`
}

// Programs returns the five program results in their statutory order.
func (r BPJSResult) Programs() []BPJSProgramResult {
	return []BPJSProgramResult{r.Kesehatan, r.JHT, r.JP, r.JKK, r.JKM}
}
