package tax

import (
	"github.com/gajihub/payroll-tax-backend-go/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// Classify maps a salary component line onto its tax-effect bucket. The
// precedence is strict and first-match-wins; an unrecognized flag
// combination is NoEffect, never an error. Classification is entirely
// flag-driven so new components need no code change.
func Classify(line tax.SalaryComponentLine) tax.TaxEffectCategory {
	if line.StatisticalComponent || line.DoNotIncludeInTotal {
		return tax.EffectNoEffect
	}

	if line.ExemptedFromIncomeTax {
		if line.IsNatura {
			return tax.EffectNonTaxableInKind
		}
		return tax.EffectNoEffect
	}

	if line.Kind == tax.ComponentKindEarning && line.IsTaxApplicable {
		if line.IsNatura {
			return tax.EffectTaxableInKind
		}
		return tax.EffectTaxableBruto
	}

	if line.Kind == tax.ComponentKindDeduction &&
		(line.IsIncomeTaxComponent || line.VariableBasedOnTaxableSalary) {
		return tax.EffectNettoReducer
	}

	return tax.EffectNoEffect
}

// periodAggregates is the classified view of one period's component lines.
// BPJSReducers is the subset of NettoReducers carried by income-tax
// components; the ledger records the two separately.
type periodAggregates struct {
	Bruto         decimal.Decimal
	NettoReducers decimal.Decimal
	BPJSReducers  decimal.Decimal
	TaxableNatura decimal.Decimal
}

// aggregate runs the classifier over every line of the period. Taxable
// benefits-in-kind count into the bruto base alongside cash earnings.
func aggregate(period tax.SalaryPeriod) periodAggregates {
	agg := periodAggregates{
		Bruto:         decimal.Zero,
		NettoReducers: decimal.Zero,
		BPJSReducers:  decimal.Zero,
		TaxableNatura: decimal.Zero,
	}
	for _, line := range period.Earnings {
		switch Classify(line) {
		case tax.EffectTaxableBruto:
			agg.Bruto = agg.Bruto.Add(line.Amount)
		case tax.EffectTaxableInKind:
			agg.Bruto = agg.Bruto.Add(line.Amount)
			agg.TaxableNatura = agg.TaxableNatura.Add(line.Amount)
		}
	}
	for _, line := range period.Deductions {
		if Classify(line) == tax.EffectNettoReducer {
			agg.NettoReducers = agg.NettoReducers.Add(line.Amount)
			if line.IsIncomeTaxComponent {
				agg.BPJSReducers = agg.BPJSReducers.Add(line.Amount)
			}
		}
	}
	return agg
}
