package fixtures

import (
	"github.com/gajihub/payroll-tax-backend-go/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// DefaultTaxSettings returns the built-in regulatory snapshot: PTKP per
// PMK 101/2016, TER categories and rate tables per PP 58/2023 (stored
// annualized), progressive slabs per UU HPP 7/2021, BPJS rates and caps per
// the current program regulations. Deployments override any of it with a
// YAML settings file.
func DefaultTaxSettings() tax.Settings {
	return tax.Settings{
		Method: tax.MethodTER,
		BPJS: tax.BPJSRateTable{
			Kesehatan: tax.BPJSProgramRate{
				EmployeeRate: rate("1"),
				EmployerRate: rate("4"),
				SalaryCap:    salaryCap(12_000_000),
			},
			JHT: tax.BPJSProgramRate{
				EmployeeRate: rate("2"),
				EmployerRate: rate("3.7"),
			},
			JP: tax.BPJSProgramRate{
				EmployeeRate: rate("1"),
				EmployerRate: rate("2"),
				SalaryCap:    salaryCap(9_077_600),
			},
			JKK: tax.BPJSProgramRate{EmployerRate: rate("0.24")},
			JKM: tax.BPJSProgramRate{EmployerRate: rate("0.3")},
		},
		PTKPTable: []tax.PTKPEntry{
			{TaxStatus: "TK/0", AnnualAmount: rupiah(54_000_000)},
			{TaxStatus: "TK/1", AnnualAmount: rupiah(58_500_000)},
			{TaxStatus: "TK/2", AnnualAmount: rupiah(63_000_000)},
			{TaxStatus: "TK/3", AnnualAmount: rupiah(67_500_000)},
			{TaxStatus: "K/0", AnnualAmount: rupiah(58_500_000)},
			{TaxStatus: "K/1", AnnualAmount: rupiah(63_000_000)},
			{TaxStatus: "K/2", AnnualAmount: rupiah(67_500_000)},
			{TaxStatus: "K/3", AnnualAmount: rupiah(72_000_000)},
		},
		TERMappingTable: []tax.TERMapping{
			{TaxStatus: "TK/0", Category: tax.TERCategoryA},
			{TaxStatus: "TK/1", Category: tax.TERCategoryA},
			{TaxStatus: "K/0", Category: tax.TERCategoryA},
			{TaxStatus: "TK/2", Category: tax.TERCategoryB},
			{TaxStatus: "TK/3", Category: tax.TERCategoryB},
			{TaxStatus: "K/1", Category: tax.TERCategoryB},
			{TaxStatus: "K/2", Category: tax.TERCategoryB},
			{TaxStatus: "K/3", Category: tax.TERCategoryC},
		},
		TERBrackets:         defaultTERBrackets(),
		ProgressiveBrackets: defaultProgressiveBrackets(),
		BiayaJabatanRate:    rate("5"),
		BiayaJabatanAnnual:  rupiah(6_000_000),
		DefaultTERCategory:  tax.TERCategoryA,
		TERFallbackRate:     rate("5"),
		EmployerBPJSTaxable: true,
		GrossTolerance:      rupiah(1_000),
	}
}

func defaultProgressiveBrackets() []tax.ProgressiveBracket {
	return []tax.ProgressiveBracket{
		{IncomeFrom: rupiah(0), IncomeTo: rupiah(60_000_000), Rate: rate("5")},
		{IncomeFrom: rupiah(60_000_000), IncomeTo: rupiah(250_000_000), Rate: rate("15")},
		{IncomeFrom: rupiah(250_000_000), IncomeTo: rupiah(500_000_000), Rate: rate("25")},
		{IncomeFrom: rupiah(500_000_000), IncomeTo: rupiah(5_000_000_000), Rate: rate("30")},
		{IncomeFrom: rupiah(5_000_000_000), Rate: rate("35")},
	}
}

// The published tables are keyed on monthly income; brackets are stored
// annualized, so every row below is the monthly bound times twelve.
func defaultTERBrackets() []tax.TERBracket {
	type row struct {
		fromMonthly int64
		toMonthly   int64 // 0 on the open top row
		rate        string
	}

	terA := []row{
		{0, 5_400_000, "0"},
		{5_400_000, 5_650_000, "0.25"},
		{5_650_000, 5_950_000, "0.5"},
		{5_950_000, 6_300_000, "0.75"},
		{6_300_000, 6_750_000, "1"},
		{6_750_000, 7_500_000, "1.25"},
		{7_500_000, 8_550_000, "1.5"},
		{8_550_000, 9_650_000, "1.75"},
		{9_650_000, 10_050_000, "2"},
		{10_050_000, 10_350_000, "2.25"},
		{10_350_000, 10_700_000, "2.5"},
		{10_700_000, 11_050_000, "3"},
		{11_050_000, 11_600_000, "3.5"},
		{11_600_000, 12_500_000, "4"},
		{12_500_000, 13_750_000, "5"},
		{13_750_000, 15_100_000, "6"},
		{15_100_000, 16_950_000, "7"},
		{16_950_000, 19_750_000, "8"},
		{19_750_000, 24_150_000, "9"},
		{24_150_000, 26_450_000, "10"},
		{26_450_000, 28_000_000, "11"},
		{28_000_000, 30_050_000, "12"},
		{30_050_000, 32_400_000, "13"},
		{32_400_000, 35_400_000, "14"},
		{35_400_000, 39_100_000, "15"},
		{39_100_000, 43_850_000, "16"},
		{43_850_000, 47_800_000, "17"},
		{47_800_000, 51_400_000, "18"},
		{51_400_000, 56_300_000, "19"},
		{56_300_000, 62_200_000, "20"},
		{62_200_000, 68_600_000, "21"},
		{68_600_000, 77_500_000, "22"},
		{77_500_000, 89_000_000, "23"},
		{89_000_000, 103_000_000, "24"},
		{103_000_000, 125_000_000, "25"},
		{125_000_000, 157_000_000, "26"},
		{157_000_000, 206_000_000, "27"},
		{206_000_000, 337_000_000, "28"},
		{337_000_000, 454_000_000, "29"},
		{454_000_000, 550_000_000, "30"},
		{550_000_000, 695_000_000, "31"},
		{695_000_000, 910_000_000, "32"},
		{910_000_000, 1_400_000_000, "33"},
		{1_400_000_000, 0, "34"},
	}

	terB := []row{
		{0, 6_200_000, "0"},
		{6_200_000, 6_500_000, "0.25"},
		{6_500_000, 6_850_000, "0.5"},
		{6_850_000, 7_300_000, "0.75"},
		{7_300_000, 9_200_000, "1"},
		{9_200_000, 10_750_000, "1.5"},
		{10_750_000, 11_250_000, "2"},
		{11_250_000, 11_600_000, "2.5"},
		{11_600_000, 12_600_000, "3"},
		{12_600_000, 13_600_000, "4"},
		{13_600_000, 14_950_000, "5"},
		{14_950_000, 16_400_000, "6"},
		{16_400_000, 18_450_000, "7"},
		{18_450_000, 21_850_000, "8"},
		{21_850_000, 26_000_000, "9"},
		{26_000_000, 27_700_000, "10"},
		{27_700_000, 29_350_000, "11"},
		{29_350_000, 31_450_000, "12"},
		{31_450_000, 33_950_000, "13"},
		{33_950_000, 37_100_000, "14"},
		{37_100_000, 41_100_000, "15"},
		{41_100_000, 45_800_000, "16"},
		{45_800_000, 49_500_000, "17"},
		{49_500_000, 53_800_000, "18"},
		{53_800_000, 58_500_000, "19"},
		{58_500_000, 64_000_000, "20"},
		{64_000_000, 71_000_000, "21"},
		{71_000_000, 80_000_000, "22"},
		{80_000_000, 93_000_000, "23"},
		{93_000_000, 109_000_000, "24"},
		{109_000_000, 129_000_000, "25"},
		{129_000_000, 163_000_000, "26"},
		{163_000_000, 211_000_000, "27"},
		{211_000_000, 374_000_000, "28"},
		{374_000_000, 459_000_000, "29"},
		{459_000_000, 555_000_000, "30"},
		{555_000_000, 704_000_000, "31"},
		{704_000_000, 957_000_000, "32"},
		{957_000_000, 1_405_000_000, "33"},
		{1_405_000_000, 0, "34"},
	}

	terC := []row{
		{0, 6_600_000, "0"},
		{6_600_000, 6_950_000, "0.25"},
		{6_950_000, 7_350_000, "0.5"},
		{7_350_000, 7_800_000, "0.75"},
		{7_800_000, 8_850_000, "1"},
		{8_850_000, 9_800_000, "1.25"},
		{9_800_000, 10_950_000, "1.5"},
		{10_950_000, 11_200_000, "1.75"},
		{11_200_000, 12_050_000, "2"},
		{12_050_000, 12_950_000, "3"},
		{12_950_000, 14_150_000, "4"},
		{14_150_000, 15_550_000, "5"},
		{15_550_000, 17_050_000, "6"},
		{17_050_000, 19_500_000, "7"},
		{19_500_000, 22_700_000, "8"},
		{22_700_000, 26_600_000, "9"},
		{26_600_000, 28_100_000, "10"},
		{28_100_000, 30_100_000, "11"},
		{30_100_000, 32_600_000, "12"},
		{32_600_000, 35_400_000, "13"},
		{35_400_000, 38_900_000, "14"},
		{38_900_000, 43_000_000, "15"},
		{43_000_000, 47_400_000, "16"},
		{47_400_000, 51_200_000, "17"},
		{51_200_000, 55_800_000, "18"},
		{55_800_000, 60_400_000, "19"},
		{60_400_000, 66_700_000, "20"},
		{66_700_000, 74_500_000, "21"},
		{74_500_000, 83_200_000, "22"},
		{83_200_000, 95_600_000, "23"},
		{95_600_000, 110_000_000, "24"},
		{110_000_000, 134_000_000, "25"},
		{134_000_000, 169_000_000, "26"},
		{169_000_000, 221_000_000, "27"},
		{221_000_000, 390_000_000, "28"},
		{390_000_000, 463_000_000, "29"},
		{463_000_000, 561_000_000, "30"},
		{561_000_000, 709_000_000, "31"},
		{709_000_000, 965_000_000, "32"},
		{965_000_000, 1_419_000_000, "33"},
		{1_419_000_000, 0, "34"},
	}

	var brackets []tax.TERBracket
	appendCategory := func(category tax.TERCategory, rows []row) {
		for _, r := range rows {
			b := tax.TERBracket{
				Category:   category,
				IncomeFrom: annualized(r.fromMonthly),
				Rate:       rate(r.rate),
			}
			if r.toMonthly == 0 {
				b.IsHighestBracket = true
			} else {
				b.IncomeTo = annualized(r.toMonthly)
			}
			brackets = append(brackets, b)
		}
	}
	appendCategory(tax.TERCategoryA, terA)
	appendCategory(tax.TERCategoryB, terB)
	appendCategory(tax.TERCategoryC, terC)
	return brackets
}

func rupiah(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func annualized(monthly int64) decimal.Decimal {
	return decimal.NewFromInt(monthly * 12)
}

func rate(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func salaryCap(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}
