package extract

import (
	"context"
	"encoding/json"

	"github.com/terpmatch/terpmatch/llm"
	"github.com/terpmatch/terpmatch/log"
	"github.com/terpmatch/terpmatch/model"
	"github.com/terpmatch/terpmatch/tiler"
)

const visionPrompt = `You are reading a photo of a dispensary menu.

List every flower product you can read. Respond with STRICT JSON only, no
markdown, exactly this shape:
{"strains":[{"name":"...","type":"INDICA|SATIVA|HYBRID","thcPercent":20.0,"price":30.0}]}

Rules:
- Flower products only. Skip edibles, vapes, concentrates, pre-rolls.
- Use the exact strain name as printed on the menu.
- thcPercent and price are numbers, or null when the menu does not show them.
- Skip entries you cannot read clearly instead of guessing.`

const cleanupPrompt = `The following is a truncated or malformed response that was supposed to
list cannabis strains. Extract the strain names and types you can find and
respond with STRICT JSON only: a flat array [{"name":"...","type":"HYBRID"}].
Respond with [] if there are none.

`

const (
	// defaultVisionMaxTokens is deliberately large; menu tiles can hold
	// dozens of entries and truncation is the main source of malformed
	// output.
	defaultVisionMaxTokens = 4096
	cleanupMaxTokens       = 1024
	extractionTemperature  = 0.1

	// cleanupMinTextLen gates the secondary cleanup call: shorter raw text
	// cannot plausibly hold a record and is not worth a second request.
	cleanupMinTextLen = 100
)

// VisionPipeline converts a menu photo into a deduplicated ExtractedStrain
// list via the provider's vision endpoint, one call per tile.
type VisionPipeline struct {
	provider  llm.Provider
	tiler     *tiler.Tiler
	logger    log.Logger
	maxTokens int
	onTile    func(done, total int)
}

// VisionOption configures a VisionPipeline.
type VisionOption func(*VisionPipeline)

// WithVisionTiler overrides the image tiler.
func WithVisionTiler(t *tiler.Tiler) VisionOption {
	return func(p *VisionPipeline) { p.tiler = t }
}

// WithVisionLogger sets the logger.
func WithVisionLogger(l log.Logger) VisionOption {
	return func(p *VisionPipeline) { p.logger = l }
}

// WithVisionMaxTokens overrides the per-tile output token budget.
func WithVisionMaxTokens(n int) VisionOption {
	return func(p *VisionPipeline) { p.maxTokens = n }
}

// WithVisionProgress registers a callback invoked after each tile is
// processed, successfully or not.
func WithVisionProgress(fn func(done, total int)) VisionOption {
	return func(p *VisionPipeline) { p.onTile = fn }
}

// NewVisionPipeline creates a pipeline over the given provider.
func NewVisionPipeline(provider llm.Provider, opts ...VisionOption) *VisionPipeline {
	p := &VisionPipeline{
		provider:  provider,
		tiler:     tiler.New(),
		logger:    log.NoOpLogger{},
		maxTokens: defaultVisionMaxTokens,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Extract tiles the image and extracts strains from each tile
// sequentially, merging on first occurrence of each normalized name. With
// several tiles a failing tile contributes zero strains and the rest
// continue; with a single tile its error is returned directly.
// Cancellation is cooperative at tile boundaries.
func (p *VisionPipeline) Extract(ctx context.Context, image []byte) ([]model.ExtractedStrain, error) {
	chunks := p.tiler.Chunk(image)
	if len(chunks) == 1 {
		strains, err := p.extractTile(ctx, chunks[0])
		if err != nil {
			return nil, err
		}
		p.progress(1, 1)
		return strains, nil
	}

	var tiles [][]model.ExtractedStrain
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		strains, err := p.extractTile(ctx, chunk)
		if err != nil {
			p.logger.Warn("vision: tile %d/%d failed: %v", i+1, len(chunks), err)
			p.progress(i+1, len(chunks))
			continue
		}
		p.logger.Debug("vision: tile %d/%d yielded %d strains", i+1, len(chunks), len(strains))
		p.progress(i+1, len(chunks))
		tiles = append(tiles, strains)
	}
	return MergeExtracted(tiles...), nil
}

func (p *VisionPipeline) progress(done, total int) {
	if p.onTile != nil {
		p.onTile(done, total)
	}
}

func (p *VisionPipeline) extractTile(ctx context.Context, tile []byte) ([]model.ExtractedStrain, error) {
	resp, err := p.provider.CompleteVision(ctx, llm.Request{
		Messages: []llm.Message{{
			Role:  llm.RoleUser,
			Text:  visionPrompt,
			Image: &llm.Image{MediaType: "image/jpeg", Data: tile},
		}},
		MaxTokens:   p.maxTokens,
		Temperature: extractionTemperature,
	})
	if err != nil {
		return nil, &model.NetworkError{Op: "vision extraction", Err: err}
	}
	return p.parseStrains(ctx, resp.Content)
}

type wireStrain struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	THCPercent *float64 `json:"thcPercent"`
	Price      *float64 `json:"price"`
}

type visionResponse struct {
	Strains []wireStrain `json:"strains"`
}

// parseStrains tries the strict schema first, then the ordered recovery
// strategies, then one secondary cleanup completion. Total failure is an
// empty list for the tile, not an error.
func (p *VisionPipeline) parseStrains(ctx context.Context, raw string) ([]model.ExtractedStrain, error) {
	jsonStr := ExtractJSON(raw)

	var vr visionResponse
	if err := json.Unmarshal([]byte(jsonStr), &vr); err == nil {
		if strains := fromWire(vr.Strains); len(strains) > 0 {
			return strains, nil
		}
	}

	if recovered := RecoverStrains(jsonStr); len(recovered) > 0 {
		p.logger.Info("vision: strict parse failed, recovery yielded %d strains", len(recovered))
		return recovered, nil
	}

	if len(raw) > cleanupMinTextLen {
		return p.secondaryCleanup(ctx, raw)
	}
	return nil, nil
}

// secondaryCleanup hands the unreadable text back to the text endpoint and
// asks only for a flat name/type array. Any further failure yields an
// empty list, not an error.
func (p *VisionPipeline) secondaryCleanup(ctx context.Context, raw string) ([]model.ExtractedStrain, error) {
	resp, err := p.provider.Complete(ctx, llm.Request{
		Messages: []llm.Message{{
			Role: llm.RoleUser,
			Text: cleanupPrompt + raw,
		}},
		MaxTokens:   cleanupMaxTokens,
		Temperature: extractionTemperature,
	})
	if err != nil {
		p.logger.Warn("vision: cleanup call failed: %v", err)
		return nil, nil
	}

	var items []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(ExtractJSONArray(resp.Content)), &items); err != nil {
		p.logger.Warn("vision: cleanup response unparseable")
		return nil, nil
	}

	var out []model.ExtractedStrain
	for _, item := range items {
		if item.Name == "" {
			continue
		}
		out = append(out, model.ExtractedStrain{
			Name: item.Name,
			Type: model.ParseStrainType(item.Type),
		})
	}
	return out, nil
}

func fromWire(strains []wireStrain) []model.ExtractedStrain {
	var out []model.ExtractedStrain
	for _, w := range strains {
		if w.Name == "" {
			continue
		}
		s := model.ExtractedStrain{
			Name: w.Name,
			Type: model.ParseStrainType(w.Type),
		}
		if w.THCPercent != nil {
			s.THCPercent = *w.THCPercent
		}
		if w.Price != nil {
			s.Price = *w.Price
		}
		out = append(out, s)
	}
	return out
}

// MergeExtracted merges per-tile extraction results, keeping the first
// occurrence of each lowercase/trimmed name. Overlap bands intentionally
// recapture entries cut at a seam; this is what collapses them back to one
// record without losing either side of the seam.
func MergeExtracted(tiles ...[]model.ExtractedStrain) []model.ExtractedStrain {
	seen := make(map[string]bool)
	var merged []model.ExtractedStrain
	for _, tile := range tiles {
		for _, s := range tile {
			key := model.NormalizeName(s.Name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, s)
		}
	}
	return merged
}
