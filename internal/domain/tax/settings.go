package tax

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// BPJSProgramRate holds one program's rates and optional salary cap.
// Programs without an employee portion (JKK, JKM) leave EmployeeRate zero.
type BPJSProgramRate struct {
	EmployeeRate decimal.Decimal  `json:"employee_rate" yaml:"employee_rate"`
	EmployerRate decimal.Decimal  `json:"employer_rate" yaml:"employer_rate"`
	SalaryCap    *decimal.Decimal `json:"salary_cap,omitempty" yaml:"salary_cap,omitempty"`
}

// BPJSRateTable covers the five mandatory social-security programs.
type BPJSRateTable struct {
	Kesehatan BPJSProgramRate `json:"kesehatan" yaml:"kesehatan"`
	JHT       BPJSProgramRate `json:"jht" yaml:"jht"`
	JP        BPJSProgramRate `json:"jp" yaml:"jp"`
	JKK       BPJSProgramRate `json:"jkk" yaml:"jkk"`
	JKM       BPJSProgramRate `json:"jkm" yaml:"jkm"`
}

// PTKPEntry is the annual tax-exempt threshold for one tax status.
type PTKPEntry struct {
	TaxStatus    string          `json:"tax_status" yaml:"tax_status"`
	AnnualAmount decimal.Decimal `json:"annual_amount" yaml:"annual_amount"`
}

// TERMapping maps a PTKP tax status onto a TER category.
type TERMapping struct {
	TaxStatus string      `json:"tax_status" yaml:"tax_status"`
	Category  TERCategory `json:"category" yaml:"category"`
}

// TERBracket is one row of a category's effective-rate table. Bounds are
// annualized income; IncomeTo is exclusive and ignored on the open top row.
type TERBracket struct {
	Category         TERCategory     `json:"category" yaml:"category"`
	IncomeFrom       decimal.Decimal `json:"income_from" yaml:"income_from"`
	IncomeTo         decimal.Decimal `json:"income_to" yaml:"income_to"`
	Rate             decimal.Decimal `json:"rate" yaml:"rate"`
	IsHighestBracket bool            `json:"is_highest_bracket" yaml:"is_highest_bracket"`
}

// ProgressiveBracket is one marginal slab of the progressive table.
// IncomeTo is exclusive; the top slab leaves it at zero (open).
type ProgressiveBracket struct {
	IncomeFrom decimal.Decimal `json:"income_from" yaml:"income_from"`
	IncomeTo   decimal.Decimal `json:"income_to" yaml:"income_to"`
	Rate       decimal.Decimal `json:"rate" yaml:"rate"`
}

// Open reports whether the bracket has no upper bound.
func (b ProgressiveBracket) Open() bool {
	return b.IncomeTo.IsZero()
}

// Settings is the immutable regulatory snapshot every calculator receives.
// The engine never mutates it; callers build one per run.
type Settings struct {
	Method              TaxMethod            `json:"method" yaml:"method"`
	BPJS                BPJSRateTable        `json:"bpjs" yaml:"bpjs"`
	PTKPTable           []PTKPEntry          `json:"ptkp_table" yaml:"ptkp_table"`
	TERMappingTable     []TERMapping         `json:"ter_mapping_table" yaml:"ter_mapping_table"`
	TERBrackets         []TERBracket         `json:"ter_brackets" yaml:"ter_brackets"`
	ProgressiveBrackets []ProgressiveBracket `json:"progressive_brackets" yaml:"progressive_brackets"`
	BiayaJabatanRate    decimal.Decimal      `json:"biaya_jabatan_rate" yaml:"biaya_jabatan_rate"`
	BiayaJabatanAnnual  decimal.Decimal      `json:"biaya_jabatan_annual_cap" yaml:"biaya_jabatan_annual_cap"`
	DefaultTERCategory  TERCategory          `json:"default_ter_category" yaml:"default_ter_category"`
	TERFallbackRate     decimal.Decimal      `json:"ter_fallback_rate" yaml:"ter_fallback_rate"`
	// EmployerBPJSTaxable controls whether employer contributions enter the
	// taxable bruto bucket or stay tax-neutral.
	EmployerBPJSTaxable bool `json:"employer_bpjs_taxable" yaml:"employer_bpjs_taxable"`
	// GrossTolerance is the divergence between declared gross pay and the
	// classified bruto total beyond which a warning is attached.
	GrossTolerance decimal.Decimal `json:"gross_tolerance" yaml:"gross_tolerance"`
}

// PTKPFor returns the annual PTKP amount for a tax status. A missing entry
// is a ConfigurationError: the amount is regulation-critical and has no
// safe fallback.
func (s *Settings) PTKPFor(taxStatus string) (decimal.Decimal, error) {
	for _, entry := range s.PTKPTable {
		if entry.TaxStatus == taxStatus {
			return entry.AnnualAmount, nil
		}
	}
	return decimal.Zero, &ConfigurationError{
		Field:  "ptkp_table",
		Reason: fmt.Sprintf("no PTKP entry configured for tax status %q", taxStatus),
	}
}

// TERCategoryFor returns the mapped TER category and whether a mapping
// exists. Absence is not an error here; the resolver substitutes the
// default category with a warning.
func (s *Settings) TERCategoryFor(taxStatus string) (TERCategory, bool) {
	for _, m := range s.TERMappingTable {
		if m.TaxStatus == taxStatus {
			return m.Category, true
		}
	}
	return "", false
}

// TERBracketsFor returns the category's bracket rows sorted by IncomeFrom.
func (s *Settings) TERBracketsFor(category TERCategory) []TERBracket {
	var rows []TERBracket
	for _, b := range s.TERBrackets {
		if b.Category == category {
			rows = append(rows, b)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].IncomeFrom.LessThan(rows[j].IncomeFrom)
	})
	return rows
}

// Validate enforces every regulatory-table invariant. A snapshot that fails
// here must not be used for any computation.
func (s *Settings) Validate() error {
	if s.Method != MethodProgressive && s.Method != MethodTER {
		if s.Method == MethodGrossUp {
			return &ConfigurationError{Field: "method", Reason: "gross-up method is not supported by this engine"}
		}
		return &ConfigurationError{Field: "method", Reason: fmt.Sprintf("unknown tax method %q", s.Method)}
	}

	if err := s.validateBPJS(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(s.PTKPTable))
	for _, entry := range s.PTKPTable {
		if seen[entry.TaxStatus] {
			return &ConfigurationError{
				Field:  "ptkp_table",
				Reason: fmt.Sprintf("duplicate PTKP entry for tax status %q", entry.TaxStatus),
			}
		}
		seen[entry.TaxStatus] = true
		if entry.AnnualAmount.IsNegative() {
			return &ConfigurationError{
				Field:  "ptkp_table",
				Reason: fmt.Sprintf("negative PTKP amount for tax status %q", entry.TaxStatus),
			}
		}
	}

	mapped := make(map[string]bool, len(s.TERMappingTable))
	for _, m := range s.TERMappingTable {
		if mapped[m.TaxStatus] {
			return &ConfigurationError{
				Field:  "ter_mapping_table",
				Reason: fmt.Sprintf("duplicate TER mapping for tax status %q", m.TaxStatus),
			}
		}
		mapped[m.TaxStatus] = true
	}

	categories := make(map[TERCategory]bool)
	for _, b := range s.TERBrackets {
		categories[b.Category] = true
	}
	for category := range categories {
		if err := s.validateTERCategory(category); err != nil {
			return err
		}
	}

	if err := validateProgressive(s.ProgressiveBrackets); err != nil {
		return err
	}

	if s.BiayaJabatanRate.IsNegative() || s.BiayaJabatanRate.GreaterThan(decimal.NewFromInt(100)) {
		return &ConfigurationError{Field: "biaya_jabatan_rate", Reason: "rate must be between 0 and 100"}
	}
	if s.BiayaJabatanAnnual.IsNegative() {
		return &ConfigurationError{Field: "biaya_jabatan_annual_cap", Reason: "cap must not be negative"}
	}
	if s.TERFallbackRate.IsNegative() || s.TERFallbackRate.GreaterThan(decimal.NewFromInt(100)) {
		return &ConfigurationError{Field: "ter_fallback_rate", Reason: "rate must be between 0 and 100"}
	}
	return nil
}

func (s *Settings) validateBPJS() error {
	return s.BPJS.Validate()
}

// Validate checks every program's rates and caps.
func (t BPJSRateTable) Validate() error {
	programs := []struct {
		name string
		rate BPJSProgramRate
	}{
		{"kesehatan", t.Kesehatan},
		{"jht", t.JHT},
		{"jp", t.JP},
		{"jkk", t.JKK},
		{"jkm", t.JKM},
	}
	hundred := decimal.NewFromInt(100)
	for _, p := range programs {
		if p.rate.EmployeeRate.IsNegative() || p.rate.EmployeeRate.GreaterThan(hundred) {
			return &ConfigurationError{
				Field:  "bpjs." + p.name,
				Reason: "employee rate must be between 0 and 100",
			}
		}
		if p.rate.EmployerRate.IsNegative() || p.rate.EmployerRate.GreaterThan(hundred) {
			return &ConfigurationError{
				Field:  "bpjs." + p.name,
				Reason: "employer rate must be between 0 and 100",
			}
		}
		if p.rate.SalaryCap != nil && !p.rate.SalaryCap.IsPositive() {
			return &ConfigurationError{
				Field:  "bpjs." + p.name,
				Reason: "salary cap must be positive when present",
			}
		}
	}
	return nil
}

func (s *Settings) validateTERCategory(category TERCategory) error {
	rows := s.TERBracketsFor(category)
	highest := 0
	prevTo := decimal.Zero
	for i, row := range rows {
		if row.Rate.IsNegative() || row.Rate.GreaterThan(decimal.NewFromInt(100)) {
			return &ConfigurationError{
				Field:  "ter_brackets",
				Reason: fmt.Sprintf("%s: rate must be between 0 and 100", category),
			}
		}
		if !row.IncomeFrom.Equal(prevTo) {
			return &ConfigurationError{
				Field:  "ter_brackets",
				Reason: fmt.Sprintf("%s: brackets must be contiguous from zero; gap before income %s", category, row.IncomeFrom),
			}
		}
		if row.IsHighestBracket {
			highest++
			if i != len(rows)-1 {
				return &ConfigurationError{
					Field:  "ter_brackets",
					Reason: fmt.Sprintf("%s: highest bracket must be the last row", category),
				}
			}
			continue
		}
		if !row.IncomeTo.GreaterThan(row.IncomeFrom) {
			return &ConfigurationError{
				Field:  "ter_brackets",
				Reason: fmt.Sprintf("%s: bracket upper bound must exceed lower bound", category),
			}
		}
		prevTo = row.IncomeTo
	}
	if highest != 1 {
		return &ConfigurationError{
			Field:  "ter_brackets",
			Reason: fmt.Sprintf("%s: exactly one bracket must be marked highest, found %d", category, highest),
		}
	}
	return nil
}

func validateProgressive(brackets []ProgressiveBracket) error {
	if len(brackets) == 0 {
		return &ConfigurationError{Field: "progressive_brackets", Reason: "at least one bracket is required"}
	}
	sorted := make([]ProgressiveBracket, len(brackets))
	copy(sorted, brackets)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].IncomeFrom.LessThan(sorted[j].IncomeFrom)
	})

	prevTo := decimal.Zero
	for i, b := range sorted {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(100)) {
			return &ConfigurationError{Field: "progressive_brackets", Reason: "rate must be between 0 and 100"}
		}
		if !b.IncomeFrom.Equal(prevTo) {
			return &ConfigurationError{
				Field:  "progressive_brackets",
				Reason: fmt.Sprintf("brackets must be contiguous from zero; gap before income %s", b.IncomeFrom),
			}
		}
		if b.Open() {
			if i != len(sorted)-1 {
				return &ConfigurationError{Field: "progressive_brackets", Reason: "only the top bracket may be open"}
			}
			return nil
		}
		if !b.IncomeTo.GreaterThan(b.IncomeFrom) {
			return &ConfigurationError{Field: "progressive_brackets", Reason: "bracket upper bound must exceed lower bound"}
		}
		prevTo = b.IncomeTo
	}
	return &ConfigurationError{Field: "progressive_brackets", Reason: "top bracket must be open (no upper bound)"}
}

// SortedProgressive returns the progressive brackets ordered by IncomeFrom.
func (s *Settings) SortedProgressive() []ProgressiveBracket {
	sorted := make([]ProgressiveBracket, len(s.ProgressiveBrackets))
	copy(sorted, s.ProgressiveBrackets)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].IncomeFrom.LessThan(sorted[j].IncomeFrom)
	})
	return sorted
}
