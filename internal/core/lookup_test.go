package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/widgetdash/internal/model"
)

func TestLookupByID(t *testing.T) {
	toasts := testToasts()

	found := LookupByID(toasts, "01B")
	require.NotNil(t, found)
	assert.Equal(t, "Disk full", found.Message)

	assert.Nil(t, LookupByID(toasts, "missing"))
}

func TestLookupByIndex(t *testing.T) {
	toasts := testToasts()

	tests := []struct {
		index    int
		expected string
	}{
		{1, "01A"},
		{3, "01C"},
		{0, ""},
		{4, ""},
		{-1, ""},
	}

	for _, tt := range tests {
		found := LookupByIndex(toasts, tt.index)
		if tt.expected == "" {
			assert.Nil(t, found, "index %d", tt.index)
			continue
		}
		require.NotNil(t, found)
		assert.Equal(t, tt.expected, found.ID)
	}
}

func TestResolve(t *testing.T) {
	toasts := []model.Toast{
		{ID: "01HZX4AAAA"},
		{ID: "01HZX4BBBB"},
		{ID: "01HZY9CCCC"},
	}

	tests := []struct {
		ref      string
		expected string
		err      error
	}{
		{"2", "01HZX4BBBB", nil},
		{"01HZY9CCCC", "01HZY9CCCC", nil},
		{"01hzy", "01HZY9CCCC", nil},
		{"01HZX4A", "01HZX4AAAA", nil},
		{"01HZX", "", ErrAmbiguousMatch},
		{"9", "", ErrNoMatch},
		{"ZZZ", "", ErrNoMatch},
		{" ", "", ErrNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			found, err := Resolve(toasts, tt.ref)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, found.ID)
		})
	}
}

func TestSearch(t *testing.T) {
	toasts := testToasts()

	assert.Len(t, Search(toasts, ""), 3)
	assert.Equal(t, []string{"01A"}, ids(Search(toasts, "report")))
	assert.Empty(t, Search(toasts, "nothing like this"))
}
