package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/flowsmith/internal/provider"
)

const sseResponse = `event: message_start
data: {"type":"message_start"}

event: content_block_delta
data: {"delta":{"type":"text_delta","text":"flowchart TD"}}

event: content_block_delta
data: {"delta":{"type":"text_delta","text":"\n    A[Read]"}}

event: message_stop
data: {}

`

func TestStreamParsesSSE(t *testing.T) {
	var gotBody apiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, sseResponse)
	}))
	defer srv.Close()

	p := New(srv.URL, "test-key")
	events, err := p.Stream(context.Background(), provider.CompletionRequest{
		Model:     "claude-sonnet-4-5",
		System:    "You update diagrams.",
		Prompt:    "generate",
		MaxTokens: 4096,
	})
	require.NoError(t, err)

	text, err := provider.Collect(events)
	require.NoError(t, err)
	assert.Equal(t, "flowchart TD\n    A[Read]", text)

	assert.Equal(t, "You update diagrams.", gotBody.System)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "user", gotBody.Messages[0].Role)
	assert.True(t, gotBody.Stream)
}

func TestStreamAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := New(srv.URL, "test-key")
	_, err := p.Stream(context.Background(), provider.CompletionRequest{Model: "m", Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error 429")
}

func TestSSEScanner(t *testing.T) {
	input := "event: one\ndata: first\n\n: comment\ndata: second line\ndata: continued\n\n"
	s := newSSEScanner(strings.NewReader(input))

	require.True(t, s.Next())
	assert.Equal(t, "one", s.Event().Event)
	assert.Equal(t, "first", s.Event().Data)

	require.True(t, s.Next())
	assert.Equal(t, "second line\ncontinued", s.Event().Data)

	assert.False(t, s.Next())
	assert.NoError(t, s.Err())
}

func TestSSEScannerNoTrailingBlankLine(t *testing.T) {
	s := newSSEScanner(strings.NewReader("data: tail"))

	require.True(t, s.Next())
	assert.Equal(t, "tail", s.Event().Data)
	assert.False(t, s.Next())
}
