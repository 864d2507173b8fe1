// Package llm abstracts the text/vision completion provider behind a
// single two-method contract. The core pipelines only ever see Provider;
// each wire format lives in its own adapter, resolved once by New.
package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse is returned when a provider answers with no choices.
	ErrEmptyResponse = errors.New("provider returned no content")
	// ErrNoAPIKey is returned by New when the config carries no API key.
	ErrNoAPIKey = errors.New("API key not set")
)

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Image is an inline image attachment for vision requests.
type Image struct {
	MediaType string // e.g. "image/jpeg"
	Data      []byte
}

// Message is one turn of a completion request. A message may carry an
// inline image alongside its text.
type Message struct {
	Role  Role
	Text  string
	Image *Image
}

// Request is a single completion call.
type Request struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Response is the provider's answer.
type Response struct {
	Content    string
	TokensUsed int
}

// Provider is the completion contract the pipelines depend on.
type Provider interface {
	// Complete runs a text-only completion.
	Complete(ctx context.Context, req Request) (*Response, error)
	// CompleteVision runs a completion where messages may carry images.
	CompleteVision(ctx context.Context, req Request) (*Response, error)
}

// Kind selects a wire-format family.
type Kind string

const (
	KindOpenAI    Kind = "openai"
	KindAnthropic Kind = "anthropic"
	KindGoogle    Kind = "google"
)

// Config selects and parameterizes a provider variant.
type Config struct {
	Kind    Kind
	Model   string
	APIKey  string
	BaseURL string // optional override, honored where the wire format allows it
}

// New resolves the configured variant. This is the single dispatch point;
// callers hold only the Provider interface afterwards.
func New(ctx context.Context, cfg Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	switch cfg.Kind {
	case KindOpenAI:
		return newOpenAIProvider(cfg)
	case KindAnthropic:
		return newAnthropicProvider(cfg)
	case KindGoogle:
		return newGoogleProvider(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown provider kind %q", cfg.Kind)
	}
}
