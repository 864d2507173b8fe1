package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
)

// langchainProvider adapts any multimodal langchaingo model to Provider.
// The Anthropic and Google variants share it; only construction differs.
type langchainProvider struct {
	model llms.Model
	name  string
}

var _ Provider = (*langchainProvider)(nil)

func newAnthropicProvider(cfg Config) (*langchainProvider, error) {
	opts := []anthropic.Option{
		anthropic.WithToken(cfg.APIKey),
		anthropic.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	m, err := anthropic.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create anthropic client: %w", err)
	}
	return &langchainProvider{model: m, name: "anthropic"}, nil
}

func newGoogleProvider(ctx context.Context, cfg Config) (*langchainProvider, error) {
	// googleai handles the generateContent role remapping itself; the
	// base URL override is not supported by this wire format.
	m, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create googleai client: %w", err)
	}
	return &langchainProvider{model: m, name: "google"}, nil
}

func (p *langchainProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	return p.generate(ctx, req)
}

func (p *langchainProvider) CompleteVision(ctx context.Context, req Request) (*Response, error) {
	return p.generate(ctx, req)
}

func (p *langchainProvider) generate(ctx context.Context, req Request) (*Response, error) {
	messages := make([]llms.MessageContent, 0, len(req.Messages))
	for _, m := range req.Messages {
		parts := []llms.ContentPart{}
		if m.Text != "" {
			parts = append(parts, llms.TextPart(m.Text))
		}
		if m.Image != nil {
			parts = append(parts, llms.BinaryPart(m.Image.MediaType, m.Image.Data))
		}
		messages = append(messages, llms.MessageContent{
			Role:  langchainRole(m.Role),
			Parts: parts,
		})
	}

	var opts []llms.CallOption
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	opts = append(opts, llms.WithTemperature(req.Temperature))

	resp, err := p.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s completion: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	choice := resp.Choices[0]
	return &Response{
		Content:    choice.Content,
		TokensUsed: tokensFromInfo(choice.GenerationInfo),
	}, nil
}

func langchainRole(r Role) llms.ChatMessageType {
	switch r {
	case RoleSystem:
		return llms.ChatMessageTypeSystem
	case RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

// tokensFromInfo pulls a usage total out of GenerationInfo; the key set
// varies per backend.
func tokensFromInfo(info map[string]any) int {
	for _, key := range []string{"TotalTokens", "total_tokens", "OutputTokens", "CompletionTokens", "completion_tokens"} {
		switch v := info[key].(type) {
		case int:
			return v
		case float64:
			return int(v)
		}
	}
	return 0
}
