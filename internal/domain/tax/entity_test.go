package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(month int, gross, taxAmount int64) MonthlyTaxRecord {
	return MonthlyTaxRecord{
		Month:        month,
		TaxableBruto: decimal.NewFromInt(gross),
		TaxAmount:    decimal.NewFromInt(taxAmount),
		Method:       MethodTER,
	}
}

func TestSalaryPeriod_Closing(t *testing.T) {
	t.Parallel()

	assert.True(t, SalaryPeriod{Month: 12}.Closing())
	assert.True(t, SalaryPeriod{Month: 6, IsClosingPeriod: true}.Closing())
	assert.False(t, SalaryPeriod{Month: 6}.Closing())
}

func TestEmployeeTaxYearSummary_PutDetail_KeepsMonthsOrdered(t *testing.T) {
	t.Parallel()

	var s EmployeeTaxYearSummary
	s.PutDetail(record(3, 10_000_000, 200_000))
	s.PutDetail(record(1, 10_000_000, 200_000))
	s.PutDetail(record(2, 10_000_000, 200_000))

	require.Len(t, s.MonthlyDetails, 3)
	assert.Equal(t, 1, s.MonthlyDetails[0].Month)
	assert.Equal(t, 2, s.MonthlyDetails[1].Month)
	assert.Equal(t, 3, s.MonthlyDetails[2].Month)
	assert.True(t, s.YTDGross.Equal(decimal.NewFromInt(30_000_000)))
	assert.True(t, s.YTDTax.Equal(decimal.NewFromInt(600_000)))
}

func TestEmployeeTaxYearSummary_PutDetail_ReplacesExistingMonth(t *testing.T) {
	t.Parallel()

	var s EmployeeTaxYearSummary
	s.PutDetail(record(1, 10_000_000, 200_000))
	s.PutDetail(record(1, 12_000_000, 260_000))

	require.Len(t, s.MonthlyDetails, 1)
	assert.True(t, s.YTDGross.Equal(decimal.NewFromInt(12_000_000)))
	assert.True(t, s.YTDTax.Equal(decimal.NewFromInt(260_000)))
}

func TestEmployeeTaxYearSummary_CorrectionFoldsIntoYTDTax(t *testing.T) {
	t.Parallel()

	var s EmployeeTaxYearSummary
	for m := 1; m <= 11; m++ {
		s.PutDetail(record(m, 10_000_000, 200_000))
	}

	// Before the closing run the pending correction rides on top.
	s.YTDTaxCorrection = decimal.NewFromInt(800_000)
	s.RecalculateTotals()
	assert.True(t, s.YTDTaxWithCorrection.Equal(decimal.NewFromInt(3_000_000)))

	// The written closing record already carries the correction, so the
	// with-correction figure equals the plain sum.
	s.HasDecemberCorrection = true
	s.PutDetail(record(12, 10_000_000, 800_000))
	assert.True(t, s.YTDTax.Equal(decimal.NewFromInt(3_000_000)))
	assert.True(t, s.YTDTaxWithCorrection.Equal(decimal.NewFromInt(3_000_000)))
	require.NoError(t, s.CheckConsistency())
}

func TestEmployeeTaxYearSummary_CheckConsistency_DetectsDrift(t *testing.T) {
	t.Parallel()

	var s EmployeeTaxYearSummary
	s.PutDetail(record(1, 10_000_000, 200_000))
	s.YTDTax = decimal.NewFromInt(999_999)

	var consistencyErr *DataConsistencyError
	require.ErrorAs(t, s.CheckConsistency(), &consistencyErr)
}

func TestMonthlyTaxRecord_NettoReducers(t *testing.T) {
	t.Parallel()

	r := MonthlyTaxRecord{
		BPJSEmployeeDeduction: decimal.NewFromInt(200_000),
		OtherDeductions:       decimal.NewFromInt(50_000),
	}
	assert.True(t, r.NettoReducers().Equal(decimal.NewFromInt(250_000)))
}
