package tax

import (
	"testing"

	"github.com/gajihub/payroll-tax-backend-go/internal/domain/tax"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullPriorYear(monthlyBruto, monthlyTax int64) tax.WithheldTotals {
	totals := tax.WithheldTotals{
		TaxWithheld:   decimal.Zero,
		Bruto:         decimal.Zero,
		NettoReducers: decimal.Zero,
	}
	for m := 1; m <= 11; m++ {
		totals.Bruto = totals.Bruto.Add(decimal.NewFromInt(monthlyBruto))
		totals.TaxWithheld = totals.TaxWithheld.Add(decimal.NewFromInt(monthlyTax))
		totals.MonthsPresent = append(totals.MonthsPresent, m)
	}
	return totals
}

func decemberPeriod(salary int64) tax.SalaryPeriod {
	return tax.SalaryPeriod{
		EmployeeID: "EMP-200",
		TaxStatus:  "TK/0",
		Year:       2025,
		Month:      12,
		Earnings: []tax.SalaryComponentLine{
			{Name: "Gaji Pokok", Kind: tax.ComponentKindEarning, Amount: decimal.NewFromInt(salary), IsTaxApplicable: true},
		},
		GrossPay: decimal.NewFromInt(salary),
	}
}

func TestCalculateAnnual_UnderwithheldCorrection(t *testing.T) {
	t.Parallel()
	settings := terSettings(t)

	// Steady 10,000,000 months withheld under TER at 2% (200,000 each).
	// Annual: bruto 120,000,000, biaya jabatan capped at 6,000,000, PTKP
	// 54,000,000, PKP 60,000,000, tax due 3,000,000. Eleven months already
	// withheld 2,200,000, so December collects the 800,000 shortfall.
	prior := fullPriorYear(10_000_000, 200_000)

	result, err := CalculateAnnual(decemberPeriod(10_000_000), prior, false, settings)
	require.NoError(t, err)

	assert.True(t, result.TaxAmount.Equal(decimal.NewFromInt(800_000)), "tax %s", result.TaxAmount)
	assert.Equal(t, tax.MethodProgressive, result.MethodUsed)
	require.NotNil(t, result.CorrectionAmount)
	assert.True(t, result.CorrectionAmount.Equal(decimal.NewFromInt(800_000)))
	assert.Empty(t, result.Warnings)
}

func TestCalculateAnnual_OverwithheldRefund(t *testing.T) {
	t.Parallel()
	settings := terSettings(t)

	// Same annual picture but 350,000 was withheld every month, so the
	// year closes with a negative correction refunded to the employee.
	prior := fullPriorYear(10_000_000, 350_000)

	result, err := CalculateAnnual(decemberPeriod(10_000_000), prior, false, settings)
	require.NoError(t, err)

	assert.True(t, result.TaxAmount.Equal(decimal.NewFromInt(-850_000)), "tax %s", result.TaxAmount)
	require.NotNil(t, result.CorrectionAmount)
	assert.True(t, result.CorrectionAmount.IsNegative())
}

func TestCalculateAnnual_ExactWithholdingZeroCorrection(t *testing.T) {
	t.Parallel()
	settings := terSettings(t)

	// Exactly the 3,000,000 annual liability was already withheld.
	prior := fullPriorYear(10_000_000, 200_000)
	prior.TaxWithheld = decimal.NewFromInt(3_000_000)

	result, err := CalculateAnnual(decemberPeriod(10_000_000), prior, false, settings)
	require.NoError(t, err)

	assert.True(t, result.TaxAmount.IsZero(), "tax %s", result.TaxAmount)
}

func TestCalculateAnnual_IncomeBelowPTKPRefundsEverything(t *testing.T) {
	t.Parallel()
	settings := terSettings(t)

	// 4,000,000 per month: annual bruto 48,000,000, netto 45,600,000 after
	// biaya jabatan, under the 54,000,000 PTKP. Annual tax is zero, so the
	// year's entire withholding comes back as a refund.
	prior := fullPriorYear(4_000_000, 200_000)

	result, err := CalculateAnnual(decemberPeriod(4_000_000), prior, false, settings)
	require.NoError(t, err)

	assert.True(t, result.TaxAmount.Equal(decimal.NewFromInt(-2_200_000)), "tax %s", result.TaxAmount)
	require.NotNil(t, result.CorrectionAmount)
	assert.True(t, result.CorrectionAmount.Equal(prior.TaxWithheld.Neg()))
}

func TestCalculateAnnual_PKPFloorsToThousand(t *testing.T) {
	t.Parallel()
	settings := terSettings(t)

	// 10,037,570 per month gives annual bruto 120,450,840 and a ragged
	// PKP of 60,450,840 that must floor to 60,450,000 before the slabs.
	period := decemberPeriod(10_037_570)
	prior := fullPriorYear(10_037_570, 0)

	result, err := CalculateAnnual(period, prior, false, settings)
	require.NoError(t, err)

	// 5% of 60,000,000 plus 15% of the 450,000 above it.
	assert.True(t, result.TaxAmount.Equal(decimal.NewFromInt(3_067_500)), "tax %s", result.TaxAmount)
}

func TestCalculateAnnual_NotClosingPeriod(t *testing.T) {
	t.Parallel()
	settings := terSettings(t)

	period := decemberPeriod(10_000_000)
	period.Month = 6

	_, err := CalculateAnnual(period, tax.WithheldTotals{}, false, settings)
	require.ErrorIs(t, err, tax.ErrNotClosingPeriod)
}

func TestCalculateAnnual_ClosingFlagBeforeDecember(t *testing.T) {
	t.Parallel()
	settings := terSettings(t)

	// An employee leaving in June closes the year early; only the five
	// prior months need records.
	period := decemberPeriod(10_000_000)
	period.Month = 6
	period.IsClosingPeriod = true

	prior := tax.WithheldTotals{MonthsPresent: []int{1, 2, 3, 4, 5}}
	for m := 1; m <= 5; m++ {
		prior.Bruto = prior.Bruto.Add(decimal.NewFromInt(10_000_000))
		prior.TaxWithheld = prior.TaxWithheld.Add(decimal.NewFromInt(200_000))
	}

	result, err := CalculateAnnual(period, prior, false, settings)
	require.NoError(t, err)

	// Six months of income: bruto 60,000,000, biaya jabatan 3,000,000,
	// netto 57,000,000, PKP 3,000,000, due 150,000 against 1,000,000
	// withheld.
	assert.True(t, result.TaxAmount.Equal(decimal.NewFromInt(-850_000)), "tax %s", result.TaxAmount)
}

func TestCalculateAnnual_MissingMonthsBlock(t *testing.T) {
	t.Parallel()
	settings := terSettings(t)

	prior := fullPriorYear(10_000_000, 200_000)
	// Drop March and July.
	prior.MonthsPresent = []int{1, 2, 4, 5, 6, 8, 9, 10, 11}

	_, err := CalculateAnnual(decemberPeriod(10_000_000), prior, false, settings)

	var consistencyErr *tax.DataConsistencyError
	require.ErrorAs(t, err, &consistencyErr)
	assert.Equal(t, 3, consistencyErr.Month)
	assert.Contains(t, consistencyErr.Hint, "3, 7")
}

func TestCalculateAnnual_MissingMonthsAllowedWithWarning(t *testing.T) {
	t.Parallel()
	settings := terSettings(t)

	// Hired in July: six real months of 10,000,000 plus December. Annual
	// bruto 60,000,000, biaya jabatan 3,000,000, PKP 3,000,000, due
	// 150,000 against 1,000,000 withheld.
	prior := tax.WithheldTotals{MonthsPresent: []int{7, 8, 9, 10, 11}}
	for m := 7; m <= 11; m++ {
		prior.Bruto = prior.Bruto.Add(decimal.NewFromInt(10_000_000))
		prior.TaxWithheld = prior.TaxWithheld.Add(decimal.NewFromInt(200_000))
	}

	result, err := CalculateAnnual(decemberPeriod(10_000_000), prior, true, settings)
	require.NoError(t, err)

	assert.True(t, result.TaxAmount.Equal(decimal.NewFromInt(-850_000)), "tax %s", result.TaxAmount)
	require.NotEmpty(t, result.Warnings)
	assert.Equal(t, tax.WarnMissingMonths, result.Warnings[0].Code)
}

func TestPriorTotalsFromSummary_SkipsClosingMonth(t *testing.T) {
	t.Parallel()

	summary := &tax.EmployeeTaxYearSummary{EmployeeID: "EMP-201", Year: 2025}
	for m := 1; m <= 12; m++ {
		summary.PutDetail(tax.MonthlyTaxRecord{
			Month:                 m,
			TaxableBruto:          decimal.NewFromInt(10_000_000),
			BPJSEmployeeDeduction: decimal.NewFromInt(200_000),
			TaxAmount:             decimal.NewFromInt(200_000),
			Method:                tax.MethodTER,
		})
	}

	totals := priorTotalsFromSummary(summary, 12)

	assert.True(t, totals.Bruto.Equal(decimal.NewFromInt(110_000_000)))
	assert.True(t, totals.TaxWithheld.Equal(decimal.NewFromInt(2_200_000)))
	assert.True(t, totals.NettoReducers.Equal(decimal.NewFromInt(2_200_000)))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, totals.MonthsPresent)
}
