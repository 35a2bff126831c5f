package tracker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskStatus(t *testing.T) {
	t.Run("creates status", func(t *testing.T) {
		s, err := NewTaskStatus(" To review ", "to_review")

		require.NoError(t, err)
		assert.Equal(t, "To review", s.Name)
		assert.Equal(t, "to_review", s.Slug)
		assert.True(t, s.IsNew())
	})

	tests := []struct {
		name     string
		status   string
		slug     string
		contains string
	}{
		{"blank name", "  ", "draft", "name cannot be empty"},
		{"blank slug", "Draft", "", "slug cannot be empty"},
		{"slug with spaces", "Draft", "to review", "lowercase letters"},
		{"uppercase slug", "Draft", "Draft", "lowercase letters"},
		{"long name", strings.Repeat("n", 256), "draft", "cannot exceed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTaskStatus(tt.status, tt.slug)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestTaskStatus_Update(t *testing.T) {
	s, err := NewTaskStatus("Draft", "draft")
	require.NoError(t, err)

	require.NoError(t, s.Rename("Published"))
	require.NoError(t, s.SetSlug("published"))
	assert.Equal(t, "Published", s.Name)
	assert.Equal(t, "published", s.Slug)

	assert.Error(t, s.SetSlug("bad slug"))
	assert.Equal(t, "published", s.Slug)
}
