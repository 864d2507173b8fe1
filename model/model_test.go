package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorFromMap(t *testing.T) {
	v := VectorFromMap(map[string]float64{
		"myrcene":  0.8,
		"limonene": 0.4,
		"geraniol": 0.9, // not tracked, ignored
	})

	assert.Equal(t, 0.8, v[0])
	assert.Equal(t, 0.4, v[1])
	for i := 2; i < NumTerpenes; i++ {
		assert.Zero(t, v[i], "untouched dimension %s", TerpeneNames[i])
	}

	m := v.Map()
	assert.Equal(t, map[string]float64{"myrcene": 0.8, "limonene": 0.4}, m)
}

func TestVectorIsZero(t *testing.T) {
	var v TerpeneVector
	assert.True(t, v.IsZero())
	v[5] = 0.01
	assert.False(t, v.IsZero())
}

func TestParseStrainType(t *testing.T) {
	assert.Equal(t, TypeIndica, ParseStrainType("indica"))
	assert.Equal(t, TypeSativa, ParseStrainType(" SATIVA "))
	assert.Equal(t, TypeHybrid, ParseStrainType("Hybrid"))
	assert.Equal(t, TypeUnknown, ParseStrainType("indica-dominant"))
	assert.Equal(t, TypeUnknown, ParseStrainType(""))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "blue dream", NormalizeName("  Blue Dream "))
}

func TestStageTerminal(t *testing.T) {
	assert.False(t, StageFetching.Terminal())
	assert.False(t, StageResolvingTerpenes.Terminal())
	assert.True(t, StageComplete.Terminal())
	assert.True(t, StageError.Terminal())
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, UserMessage(&NetworkError{Op: "vision", Err: assert.AnError}), "connection")
	assert.Contains(t, UserMessage(&NoFlowersFound{Categories: []string{"Edibles"}}), "flower")
	assert.Contains(t, UserMessage(&LlmError{Reason: "garbage"}), "could not be read")
	assert.Empty(t, UserMessage(nil))
}
