package scan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/terpmatch/terpmatch/extract"
	"github.com/terpmatch/terpmatch/llm"
	"github.com/terpmatch/terpmatch/log"
	"github.com/terpmatch/terpmatch/model"
	"github.com/terpmatch/terpmatch/store"
)

const generatePrompt = `Generate cannabis strain information for "%s" in JSON format.
Use EXACTLY this schema, with terpene concentrations as decimals:
{
  "terpenes": {
    "myrcene": 0.0, "limonene": 0.0, "caryophyllene": 0.0, "pinene": 0.0,
    "linalool": 0.0, "humulene": 0.0, "terpinolene": 0.0, "ocimene": 0.0,
    "nerolidol": 0.0, "bisabolol": 0.0, "eucalyptol": 0.0
  },
  "type": "indica|sativa|hybrid",
  "thc_min": 0.0, "thc_max": 0.0,
  "cbd_min": 0.0, "cbd_max": 0.0,
  "effects": ["relaxed"],
  "flavors": ["earthy"],
  "description": "..."
}
Major terpenes (myrcene, limonene, caryophyllene, pinene, linalool) range
0.02-0.8; minor ones stay below 0.2. Respond with JSON only.`

const (
	generateMaxTokens   = 1024
	generateTemperature = 0.7
)

// defaultTerpenes is the profile assigned when generation fails: a
// generic hybrid dominated by the three most common compounds.
var defaultTerpenes = map[string]float64{
	"myrcene":       0.3,
	"caryophyllene": 0.2,
	"limonene":      0.15,
}

// Resolver turns extracted menu entries into full strain records. It
// consults the strain store first and falls back to LLM generation for
// unknown names, persisting what it generates.
type Resolver struct {
	provider llm.Provider
	strains  store.StrainStore
	logger   log.Logger
}

// NewResolver creates a resolver over the given provider and store.
func NewResolver(provider llm.Provider, strains store.StrainStore, logger log.Logger) *Resolver {
	if logger == nil {
		logger = log.NoOpLogger{}
	}
	return &Resolver{provider: provider, strains: strains, logger: logger}
}

// Resolve returns the strain record for an extracted entry. Cache hits
// are returned as stored; misses are generated, backfilled from the
// extraction where the generation left gaps, and saved for next time.
func (r *Resolver) Resolve(ctx context.Context, extracted model.ExtractedStrain) (*model.StrainData, error) {
	cached, err := r.strains.Get(ctx, extracted.Name)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	strain := r.generate(ctx, extracted.Name)
	fillFromExtraction(strain, extracted)
	if err := r.strains.Put(ctx, strain); err != nil {
		return nil, err
	}
	return strain, nil
}

type generatedStrain struct {
	Terpenes    map[string]float64 `json:"terpenes"`
	Type        string             `json:"type"`
	THCMin      float64            `json:"thc_min"`
	THCMax      float64            `json:"thc_max"`
	CBDMin      float64            `json:"cbd_min"`
	CBDMax      float64            `json:"cbd_max"`
	Effects     []string           `json:"effects"`
	Flavors     []string           `json:"flavors"`
	Description string             `json:"description"`
}

// generate asks the model for a full record. Any failure degrades to
// the default terpene profile rather than failing the scan.
func (r *Resolver) generate(ctx context.Context, name string) *model.StrainData {
	resp, err := r.provider.Complete(ctx, llm.Request{
		Messages: []llm.Message{{
			Role: llm.RoleUser,
			Text: fmt.Sprintf(generatePrompt, name),
		}},
		MaxTokens:   generateMaxTokens,
		Temperature: generateTemperature,
	})
	if err != nil {
		r.logger.Warn("resolver: generation for %q failed: %v", name, err)
		return fallbackStrain(name)
	}

	var gen generatedStrain
	if err := json.Unmarshal([]byte(extract.ExtractJSON(resp.Content)), &gen); err != nil {
		r.logger.Warn("resolver: unparseable generation for %q: %v", name, err)
		return fallbackStrain(name)
	}

	strain := &model.StrainData{
		Name:        name,
		Type:        model.ParseStrainType(gen.Type),
		THCMin:      gen.THCMin,
		THCMax:      gen.THCMax,
		CBDMin:      gen.CBDMin,
		CBDMax:      gen.CBDMax,
		Description: gen.Description,
		Effects:     gen.Effects,
		Flavors:     gen.Flavors,
		Terpenes:    model.VectorFromMap(gen.Terpenes),
	}
	if strain.Terpenes.IsZero() {
		strain.Terpenes = model.VectorFromMap(defaultTerpenes)
	}
	return strain
}

func fallbackStrain(name string) *model.StrainData {
	return &model.StrainData{
		Name:     name,
		Type:     model.TypeUnknown,
		Terpenes: model.VectorFromMap(defaultTerpenes),
	}
}

// fillFromExtraction carries menu-observed fields over generated gaps.
func fillFromExtraction(strain *model.StrainData, extracted model.ExtractedStrain) {
	if strain.Type == model.TypeUnknown && extracted.Type != model.TypeUnknown {
		strain.Type = extracted.Type
	}
	if strain.Type == model.TypeUnknown {
		strain.Type = inferType(strain)
	}
	if strain.THCMax == 0 && extracted.THCPercent > 0 {
		strain.THCMin = extracted.THCPercent
		strain.THCMax = extracted.THCPercent
	}
	if extracted.Price > 0 {
		strain.Price = extracted.Price
	}
	if strain.Description == "" && extracted.Description != "" {
		strain.Description = extracted.Description
	}
}

var (
	indicaHints = []string{"indica", "relax", "sleep", "sedat", "calm"}
	sativaHints = []string{"sativa", "energ", "uplift", "focus", "creative"}
)

// inferType guesses a strain type from description and effects text.
func inferType(strain *model.StrainData) model.StrainType {
	text := strings.ToLower(strain.Description + " " + strings.Join(strain.Effects, " "))

	indica, sativa := 0, 0
	for _, h := range indicaHints {
		indica += strings.Count(text, h)
	}
	for _, h := range sativaHints {
		sativa += strings.Count(text, h)
	}
	switch {
	case indica == 0 && sativa == 0:
		return model.TypeUnknown
	case indica > sativa:
		return model.TypeIndica
	case sativa > indica:
		return model.TypeSativa
	default:
		return model.TypeHybrid
	}
}
