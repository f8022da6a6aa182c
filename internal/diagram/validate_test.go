package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr string
	}{
		{"valid", sampleDiagram, ""},
		{"empty", "  \n ", "empty diagram"},
		{"no header", "A --> B\n", "missing flowchart or graph declaration"},
		{"unbalanced subgraph", "flowchart TD\n    subgraph S\n    A[Step]\n", "unbalanced subgraphs"},
		{"no nodes", "flowchart TD\n    %% nothing yet\n", "no nodes defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.source)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
