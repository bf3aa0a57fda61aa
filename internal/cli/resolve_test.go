package cli

import (
	"testing"

	"github.com/alexanderramin/promptblocks/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBlock(t *testing.T) {
	blocks := []domain.Block{
		{ID: "abcDEF123", Type: "Task"},
		{ID: "abcXYZ999", Type: "Tone"},
		{ID: "qrs000111", Type: "Format"},
	}

	tests := []struct {
		name    string
		ref     string
		wantID  string
		wantErr string
	}{
		{name: "position", ref: "2", wantID: "abcXYZ999"},
		{name: "full id", ref: "qrs000111", wantID: "qrs000111"},
		{name: "unique prefix", ref: "abcD", wantID: "abcDEF123"},
		{name: "ambiguous prefix", ref: "abc", wantErr: "ambiguous"},
		{name: "position out of range", ref: "4", wantErr: "no block at position 4"},
		{name: "zero position", ref: "0", wantErr: "no block at position 0"},
		{name: "unknown", ref: "zzz", wantErr: "not found"},
		{name: "empty", ref: " ", wantErr: "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveBlock(blocks, tt.ref)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestResolvePromptID(t *testing.T) {
	prompts := []domain.PromptSnapshot{
		{ID: "1111aaaa-0000"},
		{ID: "1111bbbb-0000"},
	}

	id, err := resolvePromptID(prompts, "1111a")
	require.NoError(t, err)
	assert.Equal(t, "1111aaaa-0000", id)

	_, err = resolvePromptID(prompts, "1111")
	assert.ErrorContains(t, err, "ambiguous")

	id, err = resolvePromptID(prompts, "elsewhere")
	require.NoError(t, err)
	assert.Equal(t, "elsewhere", id, "unknown ids pass through to the gateway")
}
