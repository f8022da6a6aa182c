// Package provider abstracts the LLM backends used to generate and patch
// diagrams. Backends register themselves by name in an init function; the
// factory picks one based on configuration. Only plain text completion is
// modeled here - flowsmith never uses tool calling.
package provider

import "context"

// LLMProvider defines the interface for interacting with an LLM backend.
type LLMProvider interface {
	Stream(ctx context.Context, req CompletionRequest) (<-chan StreamEvent, error)
}

// CompletionRequest represents a single-turn completion request.
type CompletionRequest struct {
	Model       string   `json:"model"`
	System      string   `json:"system,omitempty"`
	Prompt      string   `json:"prompt"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// StreamEvent represents a single event in a streaming response. Type is
// one of "text_delta", "stop", or "error".
type StreamEvent struct {
	Type  string
	Text  string
	Error error
}

// Collect drains a stream into the full completion text. It always reads
// until the channel closes so the producing goroutine never blocks, and
// reports the first error event encountered.
func Collect(events <-chan StreamEvent) (string, error) {
	var b []byte
	var firstErr error
	for evt := range events {
		switch evt.Type {
		case "text_delta":
			b = append(b, evt.Text...)
		case "error":
			if firstErr == nil {
				firstErr = evt.Error
			}
		}
	}
	return string(b), firstErr
}
