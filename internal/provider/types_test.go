package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollect(t *testing.T) {
	ch := make(chan StreamEvent, 4)
	ch <- StreamEvent{Type: "text_delta", Text: "flowchart TD\n"}
	ch <- StreamEvent{Type: "text_delta", Text: "    A[Read]"}
	ch <- StreamEvent{Type: "stop"}
	close(ch)

	text, err := Collect(ch)
	assert.NoError(t, err)
	assert.Equal(t, "flowchart TD\n    A[Read]", text)
}

func TestCollectReportsFirstError(t *testing.T) {
	boom := errors.New("boom")
	ch := make(chan StreamEvent, 4)
	ch <- StreamEvent{Type: "text_delta", Text: "partial"}
	ch <- StreamEvent{Type: "error", Error: boom}
	ch <- StreamEvent{Type: "error", Error: errors.New("later")}
	close(ch)

	text, err := Collect(ch)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "partial", text)
}
