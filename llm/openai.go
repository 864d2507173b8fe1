package llm

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// openAIProvider speaks the OpenAI chat-completions wire format, including
// OpenAI-compatible gateways via the base URL override.
type openAIProvider struct {
	client *openai.Client
	model  string
}

var _ Provider = (*openAIProvider)(nil)

func newOpenAIProvider(cfg Config) (*openAIProvider, error) {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &openAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

func (p *openAIProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openAIRole(m.Role),
			Content: m.Text,
		})
	}
	return p.send(ctx, req, messages)
}

func (p *openAIProvider) CompleteVision(ctx context.Context, req Request) (*Response, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Image == nil {
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    openAIRole(m.Role),
				Content: m.Text,
			})
			continue
		}

		parts := []openai.ChatMessagePart{}
		if m.Text != "" {
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: m.Text,
			})
		}
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    dataURL(m.Image),
				Detail: openai.ImageURLDetailHigh,
			},
		})
		messages = append(messages, openai.ChatCompletionMessage{
			Role:         openAIRole(m.Role),
			MultiContent: parts,
		})
	}
	return p.send(ctx, req, messages)
}

func (p *openAIProvider) send(ctx context.Context, req Request, messages []openai.ChatCompletionMessage) (*Response, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	return &Response{
		Content:    resp.Choices[0].Message.Content,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

func openAIRole(r Role) string {
	switch r {
	case RoleSystem:
		return openai.ChatMessageRoleSystem
	case RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}

func dataURL(img *Image) string {
	return fmt.Sprintf("data:%s;base64,%s", img.MediaType, base64.StdEncoding.EncodeToString(img.Data))
}
