package integrations

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/julianshen/flowsmith/internal/provider"
)

// defaultMaxTokens bounds diagram completions; generated diagrams are small
// relative to typical model limits.
const defaultMaxTokens = 4096

// LLMCompleter wraps an LLMProvider to collect streamed text into a single
// string, applying a client-side rate limit so back-to-back diff analysis
// and diagram generation calls do not trip provider limits.
type LLMCompleter struct {
	provider  provider.LLMProvider
	model     string
	system    string
	maxTokens int
	limiter   *rate.Limiter
}

// NewLLMCompleter creates a completer for the given provider and model.
func NewLLMCompleter(p provider.LLMProvider, model string) *LLMCompleter {
	return &LLMCompleter{
		provider:  p,
		model:     model,
		maxTokens: defaultMaxTokens,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// WithSystem sets the system prompt sent with every completion.
func (c *LLMCompleter) WithSystem(system string) *LLMCompleter {
	c.system = system
	return c
}

// Complete sends a prompt to the LLM and returns the full response text.
func (c *LLMCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("llm complete: %w", err)
	}

	req := provider.CompletionRequest{
		Model:     c.model,
		System:    c.system,
		Prompt:    prompt,
		MaxTokens: c.maxTokens,
	}

	ch, err := c.provider.Stream(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm complete: %w", err)
	}

	text, err := provider.Collect(ch)
	if err != nil {
		return "", fmt.Errorf("llm stream error: %w", err)
	}
	return text, nil
}
