package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/widgetdash/internal/model"
)

func TestSort_Empty(t *testing.T) {
	var toasts []model.Toast
	Sort(toasts, DefaultSortOptions())
	assert.Len(t, toasts, 0)
}

func TestSort(t *testing.T) {
	tests := []struct {
		name     string
		opts     SortOptions
		expected []string
	}{
		{"created asc", DefaultSortOptions(), []string{"01B", "01A", "01C"}},
		{"created desc", SortOptions{Field: SortByCreated, Order: SortDesc}, []string{"01C", "01A", "01B"}},
		{"expires asc puts persistent last", SortOptions{Field: SortByExpires, Order: SortAsc}, []string{"01A", "01C", "01B"}},
		{"type by severity", SortOptions{Field: SortByKind, Order: SortAsc}, []string{"01B", "01A", "01C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toasts := testToasts()
			Sort(toasts, tt.opts)
			assert.Equal(t, tt.expected, ids(toasts))
		})
	}
}

func TestParseSortField(t *testing.T) {
	tests := []struct {
		input    string
		expected SortField
		wantErr  bool
	}{
		{"", SortByCreated, false},
		{"created", SortByCreated, false},
		{"E", SortByExpires, false},
		{"severity", SortByKind, false},
		{"app", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSortField(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	got, err := ParseSortOrder("descending")
	require.NoError(t, err)
	assert.Equal(t, SortDesc, got)

	got, err = ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortAsc, got)

	_, err = ParseSortOrder("sideways")
	assert.Error(t, err)
}
