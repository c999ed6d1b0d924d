package tax

import (
	"testing"

	"github.com/gajihub/payroll-tax-backend-go/internal/domain/tax"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassify_Precedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line tax.SalaryComponentLine
		want tax.TaxEffectCategory
	}{
		{
			name: "statistical wins over everything",
			line: tax.SalaryComponentLine{
				Kind:                 tax.ComponentKindEarning,
				StatisticalComponent: true,
				IsTaxApplicable:      true,
			},
			want: tax.EffectNoEffect,
		},
		{
			name: "do not include in total wins over taxable",
			line: tax.SalaryComponentLine{
				Kind:                tax.ComponentKindEarning,
				DoNotIncludeInTotal: true,
				IsTaxApplicable:     true,
			},
			want: tax.EffectNoEffect,
		},
		{
			name: "exempted cash earning",
			line: tax.SalaryComponentLine{
				Kind:                  tax.ComponentKindEarning,
				ExemptedFromIncomeTax: true,
				IsTaxApplicable:       true,
			},
			want: tax.EffectNoEffect,
		},
		{
			name: "exempted benefit in kind",
			line: tax.SalaryComponentLine{
				Kind:                  tax.ComponentKindEarning,
				ExemptedFromIncomeTax: true,
				IsNatura:              true,
			},
			want: tax.EffectNonTaxableInKind,
		},
		{
			name: "taxable cash earning",
			line: tax.SalaryComponentLine{
				Kind:            tax.ComponentKindEarning,
				IsTaxApplicable: true,
			},
			want: tax.EffectTaxableBruto,
		},
		{
			name: "taxable benefit in kind",
			line: tax.SalaryComponentLine{
				Kind:            tax.ComponentKindEarning,
				IsTaxApplicable: true,
				IsNatura:        true,
			},
			want: tax.EffectTaxableInKind,
		},
		{
			name: "non taxable earning",
			line: tax.SalaryComponentLine{
				Kind: tax.ComponentKindEarning,
			},
			want: tax.EffectNoEffect,
		},
		{
			name: "income tax deduction reduces netto",
			line: tax.SalaryComponentLine{
				Kind:                 tax.ComponentKindDeduction,
				IsIncomeTaxComponent: true,
			},
			want: tax.EffectNettoReducer,
		},
		{
			name: "variable taxable deduction reduces netto",
			line: tax.SalaryComponentLine{
				Kind:                         tax.ComponentKindDeduction,
				VariableBasedOnTaxableSalary: true,
			},
			want: tax.EffectNettoReducer,
		},
		{
			name: "plain deduction has no tax effect",
			line: tax.SalaryComponentLine{
				Kind: tax.ComponentKindDeduction,
			},
			want: tax.EffectNoEffect,
		},
		{
			name: "taxable flag on a deduction does not make it bruto",
			line: tax.SalaryComponentLine{
				Kind:            tax.ComponentKindDeduction,
				IsTaxApplicable: true,
			},
			want: tax.EffectNoEffect,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.line))
		})
	}
}

func TestAggregate_SplitsBPJSFromOtherReducers(t *testing.T) {
	t.Parallel()

	period := tax.SalaryPeriod{
		Earnings: []tax.SalaryComponentLine{
			{Name: "Gaji Pokok", Kind: tax.ComponentKindEarning, Amount: decimal.NewFromInt(10_000_000), IsTaxApplicable: true},
			{Name: "Fasilitas Mobil", Kind: tax.ComponentKindEarning, Amount: decimal.NewFromInt(2_000_000), IsTaxApplicable: true, IsNatura: true},
			{Name: "Reimbursement", Kind: tax.ComponentKindEarning, Amount: decimal.NewFromInt(750_000)},
		},
		Deductions: []tax.SalaryComponentLine{
			{Name: "BPJS JHT Employee", Kind: tax.ComponentKindDeduction, Amount: decimal.NewFromInt(200_000), IsIncomeTaxComponent: true},
			{Name: "Iuran Pensiun", Kind: tax.ComponentKindDeduction, Amount: decimal.NewFromInt(100_000), VariableBasedOnTaxableSalary: true},
			{Name: "Kasbon", Kind: tax.ComponentKindDeduction, Amount: decimal.NewFromInt(500_000)},
		},
	}

	agg := aggregate(period)

	assert.True(t, agg.Bruto.Equal(decimal.NewFromInt(12_000_000)), "bruto %s", agg.Bruto)
	assert.True(t, agg.TaxableNatura.Equal(decimal.NewFromInt(2_000_000)), "natura %s", agg.TaxableNatura)
	assert.True(t, agg.NettoReducers.Equal(decimal.NewFromInt(300_000)), "reducers %s", agg.NettoReducers)
	assert.True(t, agg.BPJSReducers.Equal(decimal.NewFromInt(200_000)), "bpjs reducers %s", agg.BPJSReducers)
}
