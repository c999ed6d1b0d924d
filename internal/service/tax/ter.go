package tax

import (
	"fmt"

	"github.com/gajihub/payroll-tax-backend-go/internal/domain/tax"
	"github.com/gajihub/payroll-tax-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// TERResolution is the outcome of the category/rate lookup chain. Defaulted
// resolutions carry the reason so callers can decide whether to surface it.
type TERResolution struct {
	Category  tax.TERCategory
	Rate      decimal.Decimal
	Defaulted bool
	Code      string
	Reason    string
}

// Warnings converts a defaulted resolution into result warnings.
func (r TERResolution) Warnings() []tax.FallbackWarning {
	if !r.Defaulted {
		return nil
	}
	return []tax.FallbackWarning{{Code: r.Code, Reason: r.Reason}}
}

// ResolveTER walks the documented fallback chain: configured mapping, else
// the default category with a warning; the category's bracket row for the
// annualized income, else the highest-bracket row, else the fallback rate
// with a warning. It never fails: payroll for the employee must complete.
func ResolveTER(taxStatus string, annualizedIncome decimal.Decimal, settings *tax.Settings) TERResolution {
	category, ok := settings.TERCategoryFor(taxStatus)
	defaulted := false
	reason := ""
	code := ""
	if !ok {
		category = settings.DefaultTERCategory
		defaulted = true
		code = tax.WarnTERCategoryDefaulted
		reason = fmt.Sprintf("no TER category mapped for tax status %q, substituted default category %s",
			taxStatus, category)
	}

	rows := settings.TERBracketsFor(category)
	if len(rows) == 0 {
		return TERResolution{
			Category:  category,
			Rate:      settings.TERFallbackRate,
			Defaulted: true,
			Code:      tax.WarnTERRateFallback,
			Reason: fmt.Sprintf("no TER brackets configured for category %s, substituted fallback rate %s%%",
				category, settings.TERFallbackRate),
		}
	}

	var highest *tax.TERBracket
	for i := range rows {
		row := rows[i]
		if row.IsHighestBracket {
			highest = &rows[i]
			if annualizedIncome.GreaterThanOrEqual(row.IncomeFrom) {
				return TERResolution{Category: category, Rate: row.Rate, Defaulted: defaulted, Code: code, Reason: reason}
			}
			continue
		}
		if annualizedIncome.GreaterThanOrEqual(row.IncomeFrom) && annualizedIncome.LessThan(row.IncomeTo) {
			return TERResolution{Category: category, Rate: row.Rate, Defaulted: defaulted, Code: code, Reason: reason}
		}
	}

	// Income above every bounded row lands on the open bracket.
	if highest != nil {
		return TERResolution{Category: category, Rate: highest.Rate, Defaulted: defaulted, Code: code, Reason: reason}
	}
	return TERResolution{
		Category:  category,
		Rate:      settings.TERFallbackRate,
		Defaulted: true,
		Code:      tax.WarnTERRateFallback,
		Reason: fmt.Sprintf("no TER bracket matched income %s in category %s, substituted fallback rate %s%%",
			annualizedIncome, category, settings.TERFallbackRate),
	}
}

// CalculateTER computes one month's withholding under the effective-rate
// method: the flat category rate applied to the month's taxable bruto.
// Netto reducers and PTKP are intentionally ignored; the published rates
// already embed them.
func CalculateTER(period tax.SalaryPeriod, priorYTDGross decimal.Decimal, priorMonths int, settings *tax.Settings) (tax.Result, error) {
	agg := aggregate(period)

	annualized := annualizedGrossToDate(priorYTDGross, agg.Bruto, priorMonths+1)
	resolution := ResolveTER(period.TaxStatus, annualized, settings)

	taxAmount := money.RoundRupiah(money.Percent(agg.Bruto, resolution.Rate))

	terRate := resolution.Rate
	category := resolution.Category
	result := tax.Result{
		EmployeeID:  period.EmployeeID,
		Year:        period.Year,
		Month:       period.Month,
		TaxAmount:   taxAmount,
		MethodUsed:  tax.MethodTER,
		TERCategory: &category,
		TERRate:     &terRate,
		Breakdown: []tax.BreakdownLine{
			{Label: "Penghasilan bruto", Amount: agg.Bruto},
			{Label: "Penghasilan disetahunkan", Amount: annualized},
			{Label: fmt.Sprintf("Tarif efektif %s (%s%%)", resolution.Category, resolution.Rate), Amount: taxAmount},
		},
	}
	result.Warnings = append(result.Warnings, resolution.Warnings()...)
	result.Warnings = append(result.Warnings, grossMismatchWarnings(period, agg, settings)...)
	return result, nil
}

// annualizedGrossToDate projects the cumulative gross onto a full year:
// (prior months + current bruto) averaged over the months carrying data,
// times twelve. The divisor counts data months, not the calendar month, so
// recomputing months in any order lands on the same projection.
func annualizedGrossToDate(priorYTDGross, currentBruto decimal.Decimal, elapsedMonths int) decimal.Decimal {
	if elapsedMonths < 1 {
		elapsedMonths = 1
	}
	cumulative := priorYTDGross.Add(currentBruto)
	return cumulative.Div(decimal.NewFromInt(int64(elapsedMonths))).Mul(twelve)
}
