package tax

import (
	"github.com/gajihub/payroll-tax-backend-go/internal/domain/tax"
	"github.com/gajihub/payroll-tax-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// CalculateBPJS computes employee and employer contributions for the five
// social-security programs: min(base, cap) * rate / 100 per portion, rounded
// to whole rupiah. Pure function of its inputs; the rate table is validated
// before any arithmetic.
func CalculateBPJS(baseSalary decimal.Decimal, rates tax.BPJSRateTable) (tax.BPJSResult, error) {
	if err := rates.Validate(); err != nil {
		return tax.BPJSResult{}, err
	}
	if baseSalary.IsNegative() {
		return tax.BPJSResult{}, &tax.ConfigurationError{
			Field:  "base_salary",
			Reason: "base salary must not be negative",
		}
	}

	program := func(name string, rate tax.BPJSProgramRate) tax.BPJSProgramResult {
		base := money.Cap(baseSalary, rate.SalaryCap)
		return tax.BPJSProgramResult{
			Program:  name,
			Employee: money.RoundRupiah(money.Percent(base, rate.EmployeeRate)),
			Employer: money.RoundRupiah(money.Percent(base, rate.EmployerRate)),
		}
	}

	result := tax.BPJSResult{
		Kesehatan: program("kesehatan", rates.Kesehatan),
		JHT:       program("jht", rates.JHT),
		JP:        program("jp", rates.JP),
		JKK:       program("jkk", rates.JKK),
		JKM:       program("jkm", rates.JKM),
	}

	totalEmployee, totalEmployer := decimal.Zero, decimal.Zero
	for _, p := range result.Programs() {
		totalEmployee = totalEmployee.Add(p.Employee)
		totalEmployer = totalEmployer.Add(p.Employer)
	}
	result.TotalEmployee = totalEmployee
	result.TotalEmployer = totalEmployer
	return result, nil
}

// ContributionLines converts a BPJS result into salary component lines ready
// for classification: employee portions reduce netto, employer portions add
// to taxable bruto or stay neutral depending on configuration.
func ContributionLines(result tax.BPJSResult, employerTaxable bool) []tax.SalaryComponentLine {
	var lines []tax.SalaryComponentLine

	employee := []struct {
		name   string
		amount decimal.Decimal
	}{
		{"BPJS Kesehatan Employee", result.Kesehatan.Employee},
		{"BPJS JHT Employee", result.JHT.Employee},
		{"BPJS JP Employee", result.JP.Employee},
	}
	for _, e := range employee {
		if e.amount.IsZero() {
			continue
		}
		lines = append(lines, tax.SalaryComponentLine{
			Name:                 e.name,
			Kind:                 tax.ComponentKindDeduction,
			Amount:               e.amount,
			IsIncomeTaxComponent: true,
		})
	}

	employer := []struct {
		name   string
		amount decimal.Decimal
	}{
		{"BPJS Kesehatan Employer", result.Kesehatan.Employer},
		{"BPJS JKK Employer", result.JKK.Employer},
		{"BPJS JKM Employer", result.JKM.Employer},
	}
	for _, e := range employer {
		if e.amount.IsZero() {
			continue
		}
		lines = append(lines, tax.SalaryComponentLine{
			Name:            e.name,
			Kind:            tax.ComponentKindEarning,
			Amount:          e.amount,
			IsTaxApplicable: employerTaxable,
		})
	}

	// Employer JHT and JP premiums are deferred income: taxed at withdrawal,
	// never part of monthly bruto.
	deferred := []struct {
		name   string
		amount decimal.Decimal
	}{
		{"BPJS JHT Employer", result.JHT.Employer},
		{"BPJS JP Employer", result.JP.Employer},
	}
	for _, d := range deferred {
		if d.amount.IsZero() {
			continue
		}
		lines = append(lines, tax.SalaryComponentLine{
			Name:                 d.name,
			Kind:                 tax.ComponentKindEarning,
			Amount:               d.amount,
			StatisticalComponent: true,
		})
	}

	return lines
}
