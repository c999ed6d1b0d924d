package tax

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gajihub/payroll-tax-backend-go/internal/domain/tax"
	"github.com/gajihub/payroll-tax-backend-go/internal/pkg/money"
)

// CalculateAnnual runs the closing-period reconciliation. The whole year is
// recomputed under the progressive method regardless of the monthly method,
// and the closing record's tax amount becomes the correction: annual tax due
// minus everything already withheld in the earlier months. A negative
// correction is a refund owed to the employee.
//
// prior holds the aggregates of the finalized months before the closing
// period, whether they came from the YTD ledger or were reconstructed from
// the salary periods themselves.
func CalculateAnnual(period tax.SalaryPeriod, prior tax.WithheldTotals, allowMissing bool, settings *tax.Settings) (tax.Result, error) {
	if !period.Closing() {
		return tax.Result{}, tax.ErrNotClosingPeriod
	}

	missing := missingMonths(prior.MonthsPresent, period.Month)
	if len(missing) > 0 && !allowMissing {
		return tax.Result{}, &tax.DataConsistencyError{
			EmployeeID: period.EmployeeID,
			Year:       period.Year,
			Month:      missing[0],
			Hint: fmt.Sprintf("months %s have no finalized record; finalize them or pass allow_missing_months to treat them as zero",
				joinMonths(missing)),
		}
	}

	agg := aggregate(period)

	annualBruto := prior.Bruto.Add(agg.Bruto)
	annualReducers := prior.NettoReducers.Add(agg.NettoReducers)
	biayaJabatan := money.Min(
		money.Percent(annualBruto, settings.BiayaJabatanRate),
		settings.BiayaJabatanAnnual,
	)
	netto := annualBruto.Sub(annualReducers).Sub(biayaJabatan)

	ptkp, err := settings.PTKPFor(period.TaxStatus)
	if err != nil {
		return tax.Result{}, err
	}

	pkp := money.FloorToThousand(money.MaxZero(netto.Sub(ptkp)))

	annualTax, bracketLines := applyBrackets(pkp, settings.SortedProgressive())
	annualTax = money.RoundRupiah(annualTax)

	correction := annualTax.Sub(prior.TaxWithheld)

	result := tax.Result{
		EmployeeID:       period.EmployeeID,
		Year:             period.Year,
		Month:            period.Month,
		TaxAmount:        correction,
		MethodUsed:       tax.MethodProgressive,
		CorrectionAmount: &correction,
		Breakdown: []tax.BreakdownLine{
			{Label: "Penghasilan bruto setahun", Amount: annualBruto},
			{Label: "Pengurang netto setahun", Amount: annualReducers},
			{Label: "Biaya jabatan setahun", Amount: biayaJabatan},
			{Label: "Penghasilan netto setahun", Amount: netto},
			{Label: "PTKP", Amount: ptkp},
			{Label: "PKP (dibulatkan ke ribuan)", Amount: pkp},
		},
	}
	result.Breakdown = append(result.Breakdown, bracketLines...)
	result.Breakdown = append(result.Breakdown,
		tax.BreakdownLine{Label: "PPh 21 setahun", Amount: annualTax},
		tax.BreakdownLine{Label: "PPh 21 sudah dipotong", Amount: prior.TaxWithheld},
		tax.BreakdownLine{Label: "Kurang/lebih potong", Amount: correction},
	)

	if len(missing) > 0 {
		result.Warnings = append(result.Warnings, tax.FallbackWarning{
			Code:   tax.WarnMissingMonths,
			Reason: fmt.Sprintf("months %s treated as zero income during reconciliation", joinMonths(missing)),
		})
	}
	result.Warnings = append(result.Warnings, grossMismatchWarnings(period, agg, settings)...)
	return result, nil
}

// priorTotalsFromSummary collapses the ledger's pre-closing records into the
// reconciliation input. Records for the closing month itself are skipped so
// a re-run of the closing period stays idempotent.
func priorTotalsFromSummary(summary *tax.EmployeeTaxYearSummary, closingMonth int) tax.WithheldTotals {
	totals := tax.WithheldTotals{}
	if summary == nil {
		return totals
	}
	for _, d := range summary.MonthlyDetails {
		if d.Month >= closingMonth {
			continue
		}
		totals.Bruto = totals.Bruto.Add(d.TaxableBruto)
		totals.NettoReducers = totals.NettoReducers.Add(d.NettoReducers())
		totals.TaxWithheld = totals.TaxWithheld.Add(d.TaxAmount)
		totals.MonthsPresent = append(totals.MonthsPresent, d.Month)
	}
	return totals
}

func missingMonths(present []int, closingMonth int) []int {
	seen := make(map[int]bool, len(present))
	for _, m := range present {
		seen[m] = true
	}
	var missing []int
	for m := 1; m < closingMonth; m++ {
		if !seen[m] {
			missing = append(missing, m)
		}
	}
	sort.Ints(missing)
	return missing
}

func joinMonths(months []int) string {
	parts := make([]string, len(months))
	for i, m := range months {
		parts[i] = fmt.Sprintf("%d", m)
	}
	return strings.Join(parts, ", ")
}
