package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terpmatch/terpmatch/model"
)

func TestExtractJSONFence(t *testing.T) {
	text := "Here you go:\n```json\n{\"strains\":[]}\n```\nanything else"
	assert.Equal(t, `{"strains":[]}`, ExtractJSON(text))
}

func TestExtractJSONBareFence(t *testing.T) {
	text := "```\n{\"a\":1}\n```"
	assert.Equal(t, `{"a":1}`, ExtractJSON(text))
}

func TestExtractJSONBraces(t *testing.T) {
	text := `Sure! {"strains":[{"name":"OG Kush"}]} Hope that helps.`
	assert.Equal(t, `{"strains":[{"name":"OG Kush"}]}`, ExtractJSON(text))
}

func TestExtractJSONPassthrough(t *testing.T) {
	text := "no json here at all"
	assert.Equal(t, text, ExtractJSON(text))
}

func TestExtractJSONArrayBrackets(t *testing.T) {
	text := `Here: [{"name":"X","type":"HYBRID"}] done`
	assert.Equal(t, `[{"name":"X","type":"HYBRID"}]`, ExtractJSONArray(text))
}

func TestRecoverFullRecordFromTruncatedText(t *testing.T) {
	// one complete object followed by a truncated second one
	text := `{"strains":[{"name":"X","type":"HYBRID","thcPercent":20.0,"price":30.0},{"name":"Y","ty`

	strains := RecoverStrains(text)
	require.Len(t, strains, 1)
	assert.Equal(t, "X", strains[0].Name)
	assert.Equal(t, model.TypeHybrid, strains[0].Type)
	assert.Equal(t, 20.0, strains[0].THCPercent)
	assert.Equal(t, 30.0, strains[0].Price)
}

func TestRecoverFullRecordNullFields(t *testing.T) {
	text := `{"name":"Gelato","type":"HYBRID","thcPercent":null,"price":null}`

	strains := RecoverStrains(text)
	require.Len(t, strains, 1)
	assert.Zero(t, strains[0].THCPercent)
	assert.Zero(t, strains[0].Price)
}

func TestRecoverNameTypeDefaultsThcPrice(t *testing.T) {
	// no thcPercent/price fields anywhere, so strategy 1 matches nothing
	text := `{"name":"Sour Diesel","type":"SATIVA"},{"name":"Gelato","type":"HYBRID"`

	strains := RecoverStrains(text)
	require.Len(t, strains, 2)
	assert.Equal(t, "Sour Diesel", strains[0].Name)
	assert.Equal(t, model.TypeSativa, strains[0].Type)
	assert.Zero(t, strains[0].THCPercent)
	assert.Zero(t, strains[0].Price)
}

func TestRecoverNamesOnlyFiltersFieldNames(t *testing.T) {
	text := `"name":"Blue Dream" ... "name":"strainType" ... "name":"OK" ... "name":"Wedding Cake"`

	strains := RecoverStrains(text)
	require.Len(t, strains, 2)
	assert.Equal(t, "Blue Dream", strains[0].Name)
	assert.Equal(t, model.TypeHybrid, strains[0].Type)
	assert.Equal(t, "Wedding Cake", strains[1].Name)
}

func TestRecoverStopsAtFirstNonEmptyStrategy(t *testing.T) {
	// full record present alongside a bare name; strategy 1 wins and the
	// bare name is not picked up by the lossier strategies
	text := `{"name":"X","type":"HYBRID","thcPercent":18.5,"price":25.0} and also "name":"Stray Name"`

	strains := RecoverStrains(text)
	require.Len(t, strains, 1)
	assert.Equal(t, "X", strains[0].Name)
	assert.Equal(t, 18.5, strains[0].THCPercent)
}

func TestRecoverNothing(t *testing.T) {
	assert.Empty(t, RecoverStrains("complete nonsense with no fields"))
}

func TestMergeExtractedDedupsAcrossTiles(t *testing.T) {
	tileA := []model.ExtractedStrain{
		{Name: "Blue Dream", THCPercent: 22},
		{Name: "OG Kush"},
	}
	tileB := []model.ExtractedStrain{
		{Name: "blue dream "}, // seam recapture, case/whitespace variant
		{Name: "Gelato"},
	}

	merged := MergeExtracted(tileA, tileB)
	require.Len(t, merged, 3)
	assert.Equal(t, "Blue Dream", merged[0].Name)
	assert.Equal(t, 22.0, merged[0].THCPercent, "first occurrence wins")
	assert.Equal(t, "OG Kush", merged[1].Name)
	assert.Equal(t, "Gelato", merged[2].Name)
}
