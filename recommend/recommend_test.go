package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terpmatch/terpmatch/model"
	"github.com/terpmatch/terpmatch/store"
	"github.com/terpmatch/terpmatch/store/memory"
)

func seedStore(t *testing.T) *memory.StrainStore {
	t.Helper()
	s, err := memory.NewSeededStrainStore()
	require.NoError(t, err)
	return s
}

func TestSimilarStrainsExcludesTarget(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	similar, err := SimilarStrains(ctx, s, "Blue Dream", 3)
	require.NoError(t, err)
	require.Len(t, similar, 3)

	for _, r := range similar {
		assert.NotEqual(t, "blue dream", model.NormalizeName(r.Strain.Name))
	}
	// Results are in descending similarity order.
	for i := 1; i < len(similar); i++ {
		assert.GreaterOrEqual(t, similar[i-1].Overall, similar[i].Overall)
	}
}

func TestSimilarStrainsUnknownName(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	_, err := SimilarStrains(ctx, s, "No Such Strain", 3)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSearchByType(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	results, err := Search(ctx, s, SearchFilter{Type: model.TypeIndica})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, model.TypeIndica, r.Type)
	}
}

func TestSearchTHCRange(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	// High-CBD strains have THC well below 10%.
	results, err := Search(ctx, s, SearchFilter{THCMin: 15})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.THCMax, 15.0)
		assert.NotEqual(t, "Charlotte's Web", r.Name)
	}
}

func TestSearchEffects(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	results, err := Search(ctx, s, SearchFilter{Effects: []string{"Energetic"}})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Contains(t, r.Effects, "energetic")
	}
}

func TestSearchLimit(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	results, err := Search(ctx, s, SearchFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestTerpeneByName(t *testing.T) {
	info, ok := TerpeneByName("  Myrcene ")
	require.True(t, ok)
	assert.Equal(t, "myrcene", info.Name)
	assert.Contains(t, info.Effects, "relaxed")

	_, ok = TerpeneByName("geraniol")
	assert.False(t, ok)

	// Every vector dimension has reference info.
	for _, name := range model.TerpeneNames {
		_, ok := TerpeneByName(name)
		assert.True(t, ok, name)
	}
}
