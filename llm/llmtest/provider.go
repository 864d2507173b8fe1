// Package llmtest provides a scripted Provider for pipeline tests.
package llmtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/terpmatch/terpmatch/llm"
)

// Call records one request the fake received.
type Call struct {
	Vision bool
	Req    llm.Request
}

type scripted struct {
	content string
	err     error
}

// Provider replays queued responses in order and records every call.
type Provider struct {
	mu      sync.Mutex
	queue   []scripted
	Calls   []Call
}

var _ llm.Provider = (*Provider)(nil)

// New creates an empty scripted provider.
func New() *Provider {
	return &Provider{}
}

// Queue appends a successful response.
func (p *Provider) Queue(content string) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append(p.queue, scripted{content: content})
	return p
}

// QueueError appends a failing response.
func (p *Provider) QueueError(err error) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append(p.queue, scripted{err: err})
	return p
}

// Complete pops the next scripted response.
func (p *Provider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return p.next(false, req)
}

// CompleteVision pops the next scripted response.
func (p *Provider) CompleteVision(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return p.next(true, req)
}

func (p *Provider) next(vision bool, req llm.Request) (*llm.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Calls = append(p.Calls, Call{Vision: vision, Req: req})
	if len(p.queue) == 0 {
		return nil, fmt.Errorf("llmtest: no scripted response for call %d", len(p.Calls))
	}
	s := p.queue[0]
	p.queue = p.queue[1:]
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Response{Content: s.content, TokensUsed: len(s.content) / 4}, nil
}
