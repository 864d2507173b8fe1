package scan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terpmatch/terpmatch/llm/llmtest"
	"github.com/terpmatch/terpmatch/model"
	"github.com/terpmatch/terpmatch/store/memory"
)

func TestResolveCacheHitSkipsProvider(t *testing.T) {
	provider := llmtest.New()
	strains, err := memory.NewSeededStrainStore()
	require.NoError(t, err)
	r := NewResolver(provider, strains, nil)

	strain, err := r.Resolve(context.Background(), model.ExtractedStrain{Name: "blue dream"})
	require.NoError(t, err)
	assert.Equal(t, "Blue Dream", strain.Name)
	assert.Empty(t, provider.Calls)
}

func TestResolveGeneratesAndPersists(t *testing.T) {
	provider := llmtest.New().Queue("```json\n" + `{
		"terpenes": {"limonene": 0.6, "pinene": 0.2},
		"type": "sativa",
		"thc_min": 18, "thc_max": 24,
		"effects": ["energetic"],
		"description": "A zesty daytime strain"
	}` + "\n```")
	strains := memory.NewStrainStore()
	r := NewResolver(provider, strains, nil)

	strain, err := r.Resolve(context.Background(), model.ExtractedStrain{Name: "Lemon Haze", Price: 50})
	require.NoError(t, err)
	assert.Equal(t, model.TypeSativa, strain.Type)
	assert.InDelta(t, 0.6, strain.Terpenes.Map()["limonene"], 1e-9)
	assert.Equal(t, 50.0, strain.Price)

	// A second resolve hits the cache.
	again, err := r.Resolve(context.Background(), model.ExtractedStrain{Name: "lemon haze"})
	require.NoError(t, err)
	assert.Equal(t, strain.Name, again.Name)
	assert.Len(t, provider.Calls, 1)
}

func TestResolveFallbackOnProviderError(t *testing.T) {
	provider := llmtest.New().QueueError(errors.New("boom"))
	strains := memory.NewStrainStore()
	r := NewResolver(provider, strains, nil)

	strain, err := r.Resolve(context.Background(), model.ExtractedStrain{
		Name: "Mystery OG", Type: model.TypeIndica, THCPercent: 21,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.3, strain.Terpenes.Map()["myrcene"], 1e-9)
	assert.InDelta(t, 0.2, strain.Terpenes.Map()["caryophyllene"], 1e-9)
	assert.InDelta(t, 0.15, strain.Terpenes.Map()["limonene"], 1e-9)
	// Extraction fields survive the fallback.
	assert.Equal(t, model.TypeIndica, strain.Type)
	assert.Equal(t, 21.0, strain.THCMax)
}

func TestResolveFallbackOnUnparseableGeneration(t *testing.T) {
	provider := llmtest.New().Queue("I cannot provide that information.")
	strains := memory.NewStrainStore()
	r := NewResolver(provider, strains, nil)

	strain, err := r.Resolve(context.Background(), model.ExtractedStrain{Name: "Mystery OG"})
	require.NoError(t, err)
	assert.False(t, strain.Terpenes.IsZero())
}

func TestInferTypeFromDescription(t *testing.T) {
	tests := []struct {
		desc    string
		effects []string
		want    model.StrainType
	}{
		{"deeply relaxing, great for sleep", nil, model.TypeIndica},
		{"energizing and uplifting", nil, model.TypeSativa},
		{"", []string{"relaxed", "energetic"}, model.TypeHybrid},
		{"tastes like grapes", nil, model.TypeUnknown},
	}
	for _, tt := range tests {
		got := inferType(&model.StrainData{Description: tt.desc, Effects: tt.effects})
		assert.Equal(t, tt.want, got, tt.desc)
	}
}
