package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() Settings {
	return Settings{
		Method: MethodProgressive,
		PTKPTable: []PTKPEntry{
			{TaxStatus: "TK/0", AnnualAmount: decimal.NewFromInt(54_000_000)},
		},
		TERMappingTable: []TERMapping{
			{TaxStatus: "TK/0", Category: TERCategoryA},
		},
		TERBrackets: []TERBracket{
			{Category: TERCategoryA, IncomeFrom: decimal.Zero, IncomeTo: decimal.NewFromInt(64_800_000), Rate: decimal.Zero},
			{Category: TERCategoryA, IncomeFrom: decimal.NewFromInt(64_800_000), Rate: decimal.NewFromInt(5), IsHighestBracket: true},
		},
		ProgressiveBrackets: []ProgressiveBracket{
			{IncomeFrom: decimal.Zero, IncomeTo: decimal.NewFromInt(60_000_000), Rate: decimal.NewFromInt(5)},
			{IncomeFrom: decimal.NewFromInt(60_000_000), Rate: decimal.NewFromInt(15)},
		},
		BiayaJabatanRate:   decimal.NewFromInt(5),
		BiayaJabatanAnnual: decimal.NewFromInt(6_000_000),
		DefaultTERCategory: TERCategoryA,
		TERFallbackRate:    decimal.NewFromInt(5),
	}
}

func TestSettings_Validate_OK(t *testing.T) {
	t.Parallel()
	s := validSettings()
	require.NoError(t, s.Validate())
}

func TestSettings_Validate_GrossUpRejected(t *testing.T) {
	t.Parallel()
	s := validSettings()
	s.Method = MethodGrossUp

	var cfgErr *ConfigurationError
	require.ErrorAs(t, s.Validate(), &cfgErr)
	assert.Equal(t, "method", cfgErr.Field)
}

func TestSettings_Validate_DuplicatePTKP(t *testing.T) {
	t.Parallel()
	s := validSettings()
	s.PTKPTable = append(s.PTKPTable, PTKPEntry{TaxStatus: "TK/0", AnnualAmount: decimal.NewFromInt(1)})

	var cfgErr *ConfigurationError
	require.ErrorAs(t, s.Validate(), &cfgErr)
	assert.Equal(t, "ptkp_table", cfgErr.Field)
}

func TestSettings_Validate_TERBracketGap(t *testing.T) {
	t.Parallel()
	s := validSettings()
	s.TERBrackets[1].IncomeFrom = decimal.NewFromInt(70_000_000)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, s.Validate(), &cfgErr)
	assert.Equal(t, "ter_brackets", cfgErr.Field)
}

func TestSettings_Validate_TERMissingHighest(t *testing.T) {
	t.Parallel()
	s := validSettings()
	s.TERBrackets[1].IsHighestBracket = false
	s.TERBrackets[1].IncomeTo = decimal.NewFromInt(120_000_000)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, s.Validate(), &cfgErr)
}

func TestSettings_Validate_ProgressiveTopMustBeOpen(t *testing.T) {
	t.Parallel()
	s := validSettings()
	s.ProgressiveBrackets[1].IncomeTo = decimal.NewFromInt(250_000_000)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, s.Validate(), &cfgErr)
	assert.Equal(t, "progressive_brackets", cfgErr.Field)
}

func TestSettings_PTKPFor_MissingEntry(t *testing.T) {
	t.Parallel()
	s := validSettings()

	_, err := s.PTKPFor("K/2")

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "ptkp_table", cfgErr.Field)
}

func TestSettings_TERBracketsFor_Sorted(t *testing.T) {
	t.Parallel()
	s := validSettings()
	// Store them reversed; lookup must not depend on storage order.
	s.TERBrackets[0], s.TERBrackets[1] = s.TERBrackets[1], s.TERBrackets[0]

	rows := s.TERBracketsFor(TERCategoryA)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].IncomeFrom.IsZero())
	assert.True(t, rows[1].IsHighestBracket)
}
