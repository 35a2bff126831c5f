package tracker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"minimum length", "bug", false},
		{"maximum length", strings.Repeat("a", 1000), false},
		{"counts characters not bytes", "баг", false},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 1001), true},
		{"whitespace only", "      ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, err := NewLabel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.input), label.Name)
		})
	}
}

func TestLabel_Rename(t *testing.T) {
	label, err := NewLabel("feature")
	require.NoError(t, err)

	require.NoError(t, label.Rename("enhancement"))
	assert.Equal(t, "enhancement", label.Name)

	assert.Error(t, label.Rename("x"))
	assert.Equal(t, "enhancement", label.Name)
}
