package tax

import (
	"testing"

	"github.com/gajihub/payroll-tax-backend-go/internal/domain/tax"
	"github.com/gajihub/payroll-tax-backend-go/internal/fixtures"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func terSettings(t *testing.T) *tax.Settings {
	t.Helper()
	settings := fixtures.DefaultTaxSettings()
	require.NoError(t, settings.Validate())
	return &settings
}

func terPeriod(month int, salary int64) tax.SalaryPeriod {
	return tax.SalaryPeriod{
		EmployeeID: "EMP-100",
		TaxStatus:  "TK/0",
		Year:       2025,
		Month:      month,
		Earnings: []tax.SalaryComponentLine{
			{Name: "Gaji Pokok", Kind: tax.ComponentKindEarning, Amount: decimal.NewFromInt(salary), IsTaxApplicable: true},
		},
		GrossPay: decimal.NewFromInt(salary),
	}
}

func TestCalculateTER_CategoryA(t *testing.T) {
	t.Parallel()
	settings := terSettings(t)

	// Monthly 12,000,000 annualizes to 144,000,000 and lands on the
	// category A 4% row (11,600,000 to 12,500,000 monthly).
	result, err := CalculateTER(terPeriod(1, 12_000_000), decimal.Zero, 0, settings)
	require.NoError(t, err)

	assert.True(t, result.TaxAmount.Equal(decimal.NewFromInt(480_000)), "tax %s", result.TaxAmount)
	assert.Equal(t, tax.MethodTER, result.MethodUsed)
	require.NotNil(t, result.TERCategory)
	assert.Equal(t, tax.TERCategoryA, *result.TERCategory)
	require.NotNil(t, result.TERRate)
	assert.True(t, result.TERRate.Equal(decimal.NewFromInt(4)))
	assert.Empty(t, result.Warnings)
}

func TestCalculateTER_IncomeBelowThreshold(t *testing.T) {
	t.Parallel()
	settings := terSettings(t)

	// Below 5,400,000 monthly the category A rate is zero.
	result, err := CalculateTER(terPeriod(1, 5_000_000), decimal.Zero, 0, settings)
	require.NoError(t, err)

	assert.True(t, result.TaxAmount.IsZero(), "tax %s", result.TaxAmount)
}

func TestCalculateTER_PriorIncomeShiftsBracket(t *testing.T) {
	t.Parallel()
	settings := terSettings(t)

	// A 12,000,000 month on its own sits on the 4% row, but 14,000,000
	// already earned in January pushes the two-month average to 13,000,000
	// monthly, which annualizes onto the 5% row. The rate still applies to
	// the current month's bruto only.
	result, err := CalculateTER(terPeriod(2, 12_000_000), decimal.NewFromInt(14_000_000), 1, settings)
	require.NoError(t, err)

	require.NotNil(t, result.TERRate)
	assert.True(t, result.TERRate.Equal(decimal.NewFromInt(5)), "rate %s", result.TERRate)
	assert.True(t, result.TaxAmount.Equal(decimal.NewFromInt(600_000)), "tax %s", result.TaxAmount)
}

func TestCalculateTER_CalendarMonthDoesNotDiluteProjection(t *testing.T) {
	t.Parallel()
	settings := terSettings(t)

	// February computed with no January data yet must project from the one
	// month it has, not spread 12,000,000 over two calendar months.
	result, err := CalculateTER(terPeriod(2, 12_000_000), decimal.Zero, 0, settings)
	require.NoError(t, err)

	require.NotNil(t, result.TERRate)
	assert.True(t, result.TERRate.Equal(decimal.NewFromInt(4)), "rate %s", result.TERRate)
	assert.True(t, result.TaxAmount.Equal(decimal.NewFromInt(480_000)), "tax %s", result.TaxAmount)
}

func TestResolveTER_UnmappedStatusDefaultsCategory(t *testing.T) {
	t.Parallel()
	settings := terSettings(t)

	resolution := ResolveTER("HB/2", decimal.NewFromInt(144_000_000), settings)

	assert.Equal(t, tax.TERCategoryA, resolution.Category)
	assert.True(t, resolution.Defaulted)
	assert.Equal(t, tax.WarnTERCategoryDefaulted, resolution.Code)
	// The rate still resolves from the defaulted category's table.
	assert.True(t, resolution.Rate.Equal(decimal.NewFromInt(4)), "rate %s", resolution.Rate)
}

func TestResolveTER_NoBracketsFallsBackToFlatRate(t *testing.T) {
	t.Parallel()
	settings := terSettings(t)
	stripped := *settings
	stripped.TERBrackets = nil

	resolution := ResolveTER("TK/0", decimal.NewFromInt(144_000_000), &stripped)

	assert.True(t, resolution.Defaulted)
	assert.Equal(t, tax.WarnTERRateFallback, resolution.Code)
	assert.True(t, resolution.Rate.Equal(settings.TERFallbackRate))
}

func TestResolveTER_AboveHighestBracket(t *testing.T) {
	t.Parallel()
	settings := terSettings(t)

	// 2,000,000,000 monthly is beyond every bounded row; the open top row
	// of category A carries 34%.
	resolution := ResolveTER("TK/0", decimal.NewFromInt(24_000_000_000), settings)

	assert.False(t, resolution.Defaulted)
	assert.True(t, resolution.Rate.Equal(decimal.NewFromInt(34)), "rate %s", resolution.Rate)
}

func TestAnnualizedGrossToDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		prior   int64
		current int64
		elapsed int
		want    int64
	}{
		{"first data month stands alone", 0, 10_000_000, 1, 120_000_000},
		{"six data months average", 50_000_000, 10_000_000, 6, 120_000_000},
		{"rising income annualizes above", 14_000_000, 12_000_000, 2, 156_000_000},
		{"zero elapsed clamps to one", 0, 10_000_000, 0, 120_000_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := annualizedGrossToDate(decimal.NewFromInt(tt.prior), decimal.NewFromInt(tt.current), tt.elapsed)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "got %s", got)
		})
	}
}
