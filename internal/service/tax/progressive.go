package tax

import (
	"fmt"

	"github.com/gajihub/payroll-tax-backend-go/internal/domain/tax"
	"github.com/gajihub/payroll-tax-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

var twelve = decimal.NewFromInt(12)

// CalculateProgressiveMonthly computes one month's withholding with the
// marginal bracket table: bruto minus netto reducers minus biaya jabatan,
// less one twelfth of the annual PTKP, then the slabs. A missing PTKP entry
// for the employee's status is a ConfigurationError; the amount is
// regulation-critical and never guessed.
func CalculateProgressiveMonthly(period tax.SalaryPeriod, settings *tax.Settings) (tax.Result, error) {
	agg := aggregate(period)

	biayaJabatan := money.Min(
		money.Percent(agg.Bruto, settings.BiayaJabatanRate),
		settings.BiayaJabatanAnnual.Div(twelve),
	)
	netto := agg.Bruto.Sub(agg.NettoReducers).Sub(biayaJabatan)

	ptkpAnnual, err := settings.PTKPFor(period.TaxStatus)
	if err != nil {
		return tax.Result{}, err
	}
	ptkpMonthly := ptkpAnnual.Div(twelve)

	pkpMonthly := money.MaxZero(netto.Sub(ptkpMonthly))

	taxAmount, bracketLines := applyBrackets(pkpMonthly, settings.SortedProgressive())
	taxAmount = money.RoundRupiah(taxAmount)

	result := tax.Result{
		EmployeeID: period.EmployeeID,
		Year:       period.Year,
		Month:      period.Month,
		TaxAmount:  taxAmount,
		MethodUsed: tax.MethodProgressive,
		Breakdown: []tax.BreakdownLine{
			{Label: "Penghasilan bruto", Amount: agg.Bruto},
			{Label: "Pengurang netto", Amount: agg.NettoReducers},
			{Label: "Biaya jabatan", Amount: biayaJabatan},
			{Label: "Penghasilan netto", Amount: netto},
			{Label: "PTKP (bulanan)", Amount: ptkpMonthly},
			{Label: "PKP (bulanan)", Amount: pkpMonthly},
		},
	}
	result.Breakdown = append(result.Breakdown, bracketLines...)
	result.Breakdown = append(result.Breakdown, tax.BreakdownLine{
		Label: "PPh 21", Amount: taxAmount,
	})
	result.Warnings = grossMismatchWarnings(period, agg, settings)
	return result, nil
}

// applyBrackets runs the standard marginal computation: each slab taxes only
// the portion of income inside its range; the open top slab takes the rest.
func applyBrackets(pkp decimal.Decimal, brackets []tax.ProgressiveBracket) (decimal.Decimal, []tax.BreakdownLine) {
	total := decimal.Zero
	var lines []tax.BreakdownLine

	remaining := pkp
	for _, bracket := range brackets {
		if !remaining.IsPositive() {
			break
		}
		slice := remaining
		if !bracket.Open() {
			width := bracket.IncomeTo.Sub(bracket.IncomeFrom)
			slice = money.Min(remaining, width)
		}
		portion := money.Percent(slice, bracket.Rate)
		total = total.Add(portion)
		lines = append(lines, tax.BreakdownLine{
			Label:  fmt.Sprintf("Tarif %s%% atas %s", bracket.Rate, slice),
			Amount: portion,
		})
		remaining = remaining.Sub(slice)
	}
	return total, lines
}

// grossMismatchWarnings compares the classified bruto total against the
// declared gross pay. Divergence beyond the configured tolerance is
// operator-visible but never blocks the computation.
func grossMismatchWarnings(period tax.SalaryPeriod, agg periodAggregates, settings *tax.Settings) []tax.FallbackWarning {
	if period.GrossPay.IsZero() {
		return nil
	}
	diff := period.GrossPay.Sub(agg.Bruto).Abs()
	if diff.GreaterThan(settings.GrossTolerance) {
		return []tax.FallbackWarning{{
			Code: tax.WarnGrossMismatch,
			Reason: fmt.Sprintf("declared gross pay %s diverges from taxable bruto %s by %s",
				period.GrossPay, agg.Bruto, diff),
		}}
	}
	return nil
}
