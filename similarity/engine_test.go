package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terpmatch/terpmatch/model"
)

func TestZScore(t *testing.T) {
	z := ZScore([]float64{0.2, 0.4, 0.6, 0.8})

	var mean float64
	for _, x := range z {
		mean += x
	}
	mean /= float64(len(z))
	assert.InDelta(t, 0, mean, 1e-9)

	var variance float64
	for _, x := range z {
		variance += (x - mean) * (x - mean)
	}
	std := math.Sqrt(variance / float64(len(z)))
	assert.InDelta(t, 1, std, 1e-9)
}

func TestZScoreConstantVector(t *testing.T) {
	z := ZScore([]float64{0.5, 0.5, 0.5, 0.5})
	for _, x := range z {
		assert.Zero(t, x)
	}
}

func TestBuildIdealProfileIsMaxPooling(t *testing.T) {
	a := model.StrainData{Name: "a", Terpenes: model.TerpeneVector{0.4, 0.3}}
	b := model.StrainData{Name: "b", Terpenes: model.TerpeneVector{0.2, 0.5}}

	profile := BuildIdealProfile([]model.StrainData{a, b})
	assert.Equal(t, 0.4, profile[0])
	assert.Equal(t, 0.5, profile[1])
	for i := 2; i < model.NumTerpenes; i++ {
		assert.Zero(t, profile[i])
	}
}

func TestBuildIdealProfileEmpty(t *testing.T) {
	profile := BuildIdealProfile(nil)
	assert.True(t, profile.IsZero())
}

func TestCosineSimilarity(t *testing.T) {
	a := []float64{1, 2, 3}
	assert.InDelta(t, 1.0, CosineSimilarity(a, a), 1e-9)

	opposite := []float64{-1, -2, -3}
	assert.InDelta(t, 0.0, CosineSimilarity(a, opposite), 1e-9)

	zero := []float64{0, 0, 0}
	assert.Zero(t, CosineSimilarity(a, zero))
}

func TestEuclideanSimilarity(t *testing.T) {
	a := []float64{1, 1, 1, 1}
	assert.InDelta(t, 1.0, EuclideanSimilarity(a, a), 1e-9)

	// distance 4 over assumed max sqrt(4*4)=4 -> similarity 0
	b := []float64{3, 3, 3, 3}
	assert.InDelta(t, 0.0, EuclideanSimilarity(a, b), 1e-9)
}

func TestPearsonCorrelation(t *testing.T) {
	a := []float64{0.1, 0.5, 0.9}
	scaled := []float64{0.2, 1.0, 1.8}
	assert.InDelta(t, 1.0, PearsonCorrelation(a, scaled), 1e-9)

	constant := []float64{0.4, 0.4, 0.4}
	assert.Zero(t, PearsonCorrelation(a, constant))
}

func TestCalculateMatchIdenticalVectors(t *testing.T) {
	profile := model.VectorFromMap(map[string]float64{
		"myrcene": 0.8, "limonene": 0.4, "pinene": 0.6, "linalool": 0.2,
	})
	strain := model.StrainData{Name: "twin", Terpenes: profile}

	result := CalculateMatch(profile, strain)
	assert.InDelta(t, 1.0, result.Cosine, 1e-6)
	assert.GreaterOrEqual(t, result.Overall, 0.9)
	assert.LessOrEqual(t, result.Overall, 1.0)
}

func TestCalculateMatchScoresInRange(t *testing.T) {
	profile := model.VectorFromMap(map[string]float64{"myrcene": 0.9, "linalool": 0.5})
	strain := model.StrainData{
		Name:     "far",
		Terpenes: model.VectorFromMap(map[string]float64{"limonene": 0.9, "terpinolene": 0.7}),
	}

	result := CalculateMatch(profile, strain)
	for _, score := range []float64{result.Overall, result.Cosine, result.Euclidean, result.Pearson} {
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestRankOrdersByOverall(t *testing.T) {
	profile := model.VectorFromMap(map[string]float64{"myrcene": 0.8, "limonene": 0.6})
	match := model.StrainData{Name: "match", Terpenes: profile}
	miss := model.StrainData{
		Name:     "miss",
		Terpenes: model.VectorFromMap(map[string]float64{"eucalyptol": 0.9}),
	}

	ranked := Rank(profile, []model.StrainData{miss, match})
	require.Len(t, ranked, 2)
	assert.Equal(t, "match", ranked[0].Strain.Name)
	assert.Greater(t, ranked[0].Overall, ranked[1].Overall)
}
