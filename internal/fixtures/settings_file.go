package fixtures

import (
	"fmt"
	"os"

	"github.com/gajihub/payroll-tax-backend-go/internal/domain/tax"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// The YAML schema mirrors tax.Settings but keeps amounts as plain numbers
// so operators can write 54000000 instead of decimal strings.
type settingsFile struct {
	Method string `yaml:"method"`
	BPJS   struct {
		Kesehatan programRateFile `yaml:"kesehatan"`
		JHT       programRateFile `yaml:"jht"`
		JP        programRateFile `yaml:"jp"`
		JKK       programRateFile `yaml:"jkk"`
		JKM       programRateFile `yaml:"jkm"`
	} `yaml:"bpjs"`
	PTKPTable []struct {
		TaxStatus    string  `yaml:"tax_status"`
		AnnualAmount float64 `yaml:"annual_amount"`
	} `yaml:"ptkp_table"`
	TERMappingTable []struct {
		TaxStatus string `yaml:"tax_status"`
		Category  string `yaml:"category"`
	} `yaml:"ter_mapping_table"`
	TERBrackets []struct {
		Category         string  `yaml:"category"`
		IncomeFrom       float64 `yaml:"income_from"`
		IncomeTo         float64 `yaml:"income_to"`
		Rate             float64 `yaml:"rate"`
		IsHighestBracket bool    `yaml:"is_highest_bracket"`
	} `yaml:"ter_brackets"`
	ProgressiveBrackets []struct {
		IncomeFrom float64 `yaml:"income_from"`
		IncomeTo   float64 `yaml:"income_to"`
		Rate       float64 `yaml:"rate"`
	} `yaml:"progressive_brackets"`
	BiayaJabatanRate      *float64 `yaml:"biaya_jabatan_rate"`
	BiayaJabatanAnnualCap *float64 `yaml:"biaya_jabatan_annual_cap"`
	DefaultTERCategory    string   `yaml:"default_ter_category"`
	TERFallbackRate       *float64 `yaml:"ter_fallback_rate"`
	EmployerBPJSTaxable   *bool    `yaml:"employer_bpjs_taxable"`
	GrossTolerance        *float64 `yaml:"gross_tolerance"`
}

type programRateFile struct {
	EmployeeRate float64  `yaml:"employee_rate"`
	EmployerRate float64  `yaml:"employer_rate"`
	SalaryCap    *float64 `yaml:"salary_cap"`
}

// LoadTaxSettings reads a YAML settings file and merges it over the
// compiled defaults. Sections absent from the file keep their defaults;
// sections present replace theirs wholesale. The merged snapshot is
// validated before it is returned.
func LoadTaxSettings(path string) (tax.Settings, error) {
	settings := DefaultTaxSettings()

	raw, err := os.ReadFile(path)
	if err != nil {
		return tax.Settings{}, fmt.Errorf("failed to read tax settings file: %w", err)
	}

	var file settingsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return tax.Settings{}, fmt.Errorf("failed to parse tax settings file: %w", err)
	}

	applySettingsFile(&settings, file)

	if err := settings.Validate(); err != nil {
		return tax.Settings{}, err
	}
	return settings, nil
}

func applySettingsFile(settings *tax.Settings, file settingsFile) {
	if file.Method != "" {
		settings.Method = tax.TaxMethod(file.Method)
	}

	applyProgram := func(dst *tax.BPJSProgramRate, src programRateFile) {
		if src.EmployeeRate != 0 || src.EmployerRate != 0 || src.SalaryCap != nil {
			*dst = tax.BPJSProgramRate{
				EmployeeRate: decimal.NewFromFloat(src.EmployeeRate),
				EmployerRate: decimal.NewFromFloat(src.EmployerRate),
			}
			if src.SalaryCap != nil {
				capAmount := decimal.NewFromFloat(*src.SalaryCap)
				dst.SalaryCap = &capAmount
			}
		}
	}
	applyProgram(&settings.BPJS.Kesehatan, file.BPJS.Kesehatan)
	applyProgram(&settings.BPJS.JHT, file.BPJS.JHT)
	applyProgram(&settings.BPJS.JP, file.BPJS.JP)
	applyProgram(&settings.BPJS.JKK, file.BPJS.JKK)
	applyProgram(&settings.BPJS.JKM, file.BPJS.JKM)

	if len(file.PTKPTable) > 0 {
		settings.PTKPTable = nil
		for _, row := range file.PTKPTable {
			settings.PTKPTable = append(settings.PTKPTable, tax.PTKPEntry{
				TaxStatus:    row.TaxStatus,
				AnnualAmount: decimal.NewFromFloat(row.AnnualAmount),
			})
		}
	}

	if len(file.TERMappingTable) > 0 {
		settings.TERMappingTable = nil
		for _, row := range file.TERMappingTable {
			settings.TERMappingTable = append(settings.TERMappingTable, tax.TERMapping{
				TaxStatus: row.TaxStatus,
				Category:  tax.TERCategory(row.Category),
			})
		}
	}

	if len(file.TERBrackets) > 0 {
		settings.TERBrackets = nil
		for _, row := range file.TERBrackets {
			settings.TERBrackets = append(settings.TERBrackets, tax.TERBracket{
				Category:         tax.TERCategory(row.Category),
				IncomeFrom:       decimal.NewFromFloat(row.IncomeFrom),
				IncomeTo:         decimal.NewFromFloat(row.IncomeTo),
				Rate:             decimal.NewFromFloat(row.Rate),
				IsHighestBracket: row.IsHighestBracket,
			})
		}
	}

	if len(file.ProgressiveBrackets) > 0 {
		settings.ProgressiveBrackets = nil
		for _, row := range file.ProgressiveBrackets {
			settings.ProgressiveBrackets = append(settings.ProgressiveBrackets, tax.ProgressiveBracket{
				IncomeFrom: decimal.NewFromFloat(row.IncomeFrom),
				IncomeTo:   decimal.NewFromFloat(row.IncomeTo),
				Rate:       decimal.NewFromFloat(row.Rate),
			})
		}
	}

	if file.BiayaJabatanRate != nil {
		settings.BiayaJabatanRate = decimal.NewFromFloat(*file.BiayaJabatanRate)
	}
	if file.BiayaJabatanAnnualCap != nil {
		settings.BiayaJabatanAnnual = decimal.NewFromFloat(*file.BiayaJabatanAnnualCap)
	}
	if file.DefaultTERCategory != "" {
		settings.DefaultTERCategory = tax.TERCategory(file.DefaultTERCategory)
	}
	if file.TERFallbackRate != nil {
		settings.TERFallbackRate = decimal.NewFromFloat(*file.TERFallbackRate)
	}
	if file.EmployerBPJSTaxable != nil {
		settings.EmployerBPJSTaxable = *file.EmployerBPJSTaxable
	}
	if file.GrossTolerance != nil {
		settings.GrossTolerance = decimal.NewFromFloat(*file.GrossTolerance)
	}
}
