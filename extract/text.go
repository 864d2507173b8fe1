package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/terpmatch/terpmatch/llm"
	"github.com/terpmatch/terpmatch/log"
	"github.com/terpmatch/terpmatch/model"
)

const categorizePrompt = `You are reading the text of a dispensary menu page.

Group ALL products you can see into categories. Respond with STRICT JSON
only, no markdown:
{"Category Name":[{"name":"...","price":"..."}]}

Rules:
- Use ONLY product names that appear verbatim in the text.
- Keep the menu's own category names.
- If the text contains no real product data (for example an empty
  JavaScript shell), respond with {} and nothing else.`

const detailPrompt = `Below is a JSON list of flower products scraped from a dispensary menu.
For each item fill in what the menu shows. Respond with STRICT JSON only:
a flat array [{"name":"...","type":"INDICA|SATIVA|HYBRID","thcMin":18.0,"thcMax":24.0,"price":30.0,"description":"..."}].
Do NOT drop any input item; keep every name exactly as given. Use null for
values the menu does not show.

`

const (
	// passAMinCandidates is the cutoff above which the heuristic scan is
	// trusted as the flower list and the categorization pass is skipped.
	// A cost/latency optimization, not a correctness requirement.
	passAMinCandidates = 5

	// maxMenuTextChars bounds the cleaned text sent to the categorizer.
	maxMenuTextChars = 100_000

	textMaxTokens = 4096
)

// flowerSynonyms resolves the menu's own category naming to "flower".
var flowerSynonyms = []string{"flower", "flowers", "cannabis", "weed", "bud", "buds"}

// Candidate is a product card the heuristic scan or the categorizer found,
// before detail extraction.
type Candidate struct {
	Name     string   `json:"name"`
	Price    string   `json:"price,omitempty"`
	Category string   `json:"category,omitempty"`
	Details  []string `json:"details,omitempty"`
}

// TextPipeline converts HTML-sourced menus into ExtractedStrain lists,
// trading LLM cost against heuristic accuracy.
type TextPipeline struct {
	provider     llm.Provider
	logger       log.Logger
	maxTokens    int
	onCandidates func(count int)
}

// TextOption configures a TextPipeline.
type TextOption func(*TextPipeline)

// WithTextLogger sets the logger.
func WithTextLogger(l log.Logger) TextOption {
	return func(p *TextPipeline) { p.logger = l }
}

// WithTextMaxTokens overrides the per-pass output token budget.
func WithTextMaxTokens(n int) TextOption {
	return func(p *TextPipeline) { p.maxTokens = n }
}

// WithTextProgress registers a callback invoked once the flower
// candidate list is known, before detail extraction.
func WithTextProgress(fn func(count int)) TextOption {
	return func(p *TextPipeline) { p.onCandidates = fn }
}

// NewTextPipeline creates a pipeline over the given provider.
func NewTextPipeline(provider llm.Provider, opts ...TextOption) *TextPipeline {
	p := &TextPipeline{
		provider:  provider,
		logger:    log.NoOpLogger{},
		maxTokens: textMaxTokens,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Extract runs the heuristic card scan first; when that finds enough
// candidates they are treated as the flower list directly and only the
// detail pass runs. Otherwise the menu goes through the LLM
// categorize-then-detail flow.
func (p *TextPipeline) Extract(ctx context.Context, html string) ([]model.ExtractedStrain, error) {
	candidates := ScanProductCards(html)
	if len(candidates) >= passAMinCandidates {
		p.logger.Info("text: heuristic scan found %d candidates, skipping categorization", len(candidates))
		p.progress(len(candidates))
		return p.extractDetails(ctx, candidates)
	}

	candidates, err := p.categorize(ctx, html)
	if err != nil {
		return nil, err
	}
	p.progress(len(candidates))
	return p.extractDetails(ctx, candidates)
}

func (p *TextPipeline) progress(count int) {
	if p.onCandidates != nil {
		p.onCandidates(count)
	}
}

// categorize is Pass B: clean the HTML, ask the model to group every
// product, and resolve the flower category against the synonym set.
func (p *TextPipeline) categorize(ctx context.Context, html string) ([]Candidate, error) {
	text := CleanMenuHTML(html)
	if len(text) > maxMenuTextChars {
		text = text[:maxMenuTextChars]
	}

	resp, err := p.provider.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Text: categorizePrompt},
			{Role: llm.RoleUser, Text: text},
		},
		MaxTokens:   p.maxTokens,
		Temperature: extractionTemperature,
	})
	if err != nil {
		return nil, &model.NetworkError{Op: "menu categorization", Err: err}
	}

	var categories map[string][]Candidate
	if err := json.Unmarshal([]byte(ExtractJSON(resp.Content)), &categories); err != nil {
		return nil, &model.LlmError{Reason: "categorization response was not valid JSON"}
	}

	var names []string
	for category, items := range categories {
		names = append(names, category)
		if isFlowerCategory(category) {
			p.logger.Info("text: category %q resolved as flower (%d items)", category, len(items))
			return dedupCandidates(items), nil
		}
	}
	return nil, &model.NoFlowersFound{Categories: names}
}

// extractDetails is Pass C: one completion that fills in type, THC range,
// price and description for the flower-only candidate list.
func (p *TextPipeline) extractDetails(ctx context.Context, candidates []Candidate) ([]model.ExtractedStrain, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(candidates)
	if err != nil {
		return nil, fmt.Errorf("marshal candidates: %w", err)
	}

	resp, err := p.provider.Complete(ctx, llm.Request{
		Messages: []llm.Message{{
			Role: llm.RoleUser,
			Text: detailPrompt + string(payload),
		}},
		MaxTokens:   p.maxTokens,
		Temperature: extractionTemperature,
	})
	if err != nil {
		return nil, &model.NetworkError{Op: "detail extraction", Err: err}
	}

	type wireDetail struct {
		Name        string   `json:"name"`
		Type        string   `json:"type"`
		THCMin      *float64 `json:"thcMin"`
		THCMax      *float64 `json:"thcMax"`
		Price       *float64 `json:"price"`
		Description string   `json:"description"`
	}

	var details []wireDetail
	if err := json.Unmarshal([]byte(ExtractJSONArray(resp.Content)), &details); err != nil {
		if recovered := RecoverStrains(resp.Content); len(recovered) > 0 {
			p.logger.Info("text: detail parse failed, recovery yielded %d strains", len(recovered))
			return recovered, nil
		}
		// degrade to what the scan itself produced
		p.logger.Warn("text: detail response unparseable, using heuristic candidates as-is")
		return candidatesToStrains(candidates), nil
	}

	var out []model.ExtractedStrain
	for _, d := range details {
		if d.Name == "" {
			continue
		}
		s := model.ExtractedStrain{
			Name:        d.Name,
			Type:        model.ParseStrainType(d.Type),
			Description: d.Description,
		}
		switch {
		case d.THCMax != nil && *d.THCMax > 0:
			s.THCPercent = *d.THCMax
		case d.THCMin != nil:
			s.THCPercent = *d.THCMin
		}
		if d.Price != nil {
			s.Price = *d.Price
		}
		out = append(out, s)
	}
	return MergeExtracted(out), nil
}

func candidatesToStrains(candidates []Candidate) []model.ExtractedStrain {
	var out []model.ExtractedStrain
	for _, c := range candidates {
		out = append(out, model.ExtractedStrain{
			Name:       c.Name,
			Type:       model.ParseStrainType(c.Category),
			THCPercent: thcFromDetails(c.Details),
			Price:      parsePrice(c.Price),
		})
	}
	return out
}

func isFlowerCategory(category string) bool {
	lower := strings.ToLower(strings.TrimSpace(category))
	for _, syn := range flowerSynonyms {
		if lower == syn {
			return true
		}
	}
	return false
}

func dedupCandidates(items []Candidate) []Candidate {
	seen := make(map[string]bool)
	var out []Candidate
	for _, item := range items {
		key := model.NormalizeName(item.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
