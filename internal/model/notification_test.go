package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_Resolve(t *testing.T) {
	tests := []struct {
		name         string
		kind         Kind
		allowConfirm bool
		expected     Kind
	}{
		{"success", KindSuccess, false, KindSuccess},
		{"error", KindError, false, KindError},
		{"warning", KindWarning, false, KindWarning},
		{"info", KindInfo, false, KindInfo},
		{"confirm on modal", KindConfirm, true, KindConfirm},
		{"confirm on toast", KindConfirm, false, KindInfo},
		{"unknown", Kind("celebration"), true, KindInfo},
		{"empty", Kind(""), false, KindInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.Resolve(tt.allowConfirm))
		})
	}
}

func TestKind_Known(t *testing.T) {
	for _, k := range Kinds() {
		assert.True(t, k.Known(), k)
	}
	assert.True(t, KindConfirm.Known())
	assert.False(t, Kind("nope").Known())
}

func TestToast_Remaining(t *testing.T) {
	now := time.Now()

	toast := Toast{Duration: 5 * time.Second, ExpiresAt: now.Add(3 * time.Second)}
	assert.Equal(t, 3*time.Second, toast.Remaining(now))
	assert.Equal(t, time.Duration(0), toast.Remaining(now.Add(10*time.Second)))

	persistent := Toast{Duration: 0}
	assert.True(t, persistent.Persistent())
	assert.Equal(t, time.Duration(0), persistent.Remaining(now))

	negative := Toast{Duration: -time.Second}
	assert.True(t, negative.Persistent())
}

func TestDurationHelpers(t *testing.T) {
	require.NotNil(t, After(2*time.Second))
	assert.Equal(t, 2*time.Second, *After(2 * time.Second))
	assert.Equal(t, time.Duration(0), *Persistent())
}

func TestParsePosition(t *testing.T) {
	for _, p := range Positions() {
		got, err := ParsePosition(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	got, err := ParsePosition("  Top-Left ")
	require.NoError(t, err)
	assert.Equal(t, PositionTopLeft, got)

	_, err = ParsePosition("middle")
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestPosition_Anchors(t *testing.T) {
	tests := []struct {
		pos        Position
		bottom     bool
		horizontal string
	}{
		{PositionTopLeft, false, "left"},
		{PositionTopCenter, false, "center"},
		{PositionTopRight, false, "right"},
		{PositionBottomLeft, true, "left"},
		{PositionBottomCenter, true, "center"},
		{PositionBottomRight, true, "right"},
	}

	for _, tt := range tests {
		t.Run(string(tt.pos), func(t *testing.T) {
			assert.Equal(t, tt.bottom, tt.pos.IsBottom())
			assert.Equal(t, tt.horizontal, tt.pos.Horizontal())
		})
	}
	assert.Equal(t, PositionBottomRight, DefaultPosition)
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 10000 {
		id := NewID()
		require.Len(t, id, 26)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestNewID_Sortable(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.Less(t, a, b)
}

func TestJSONOmitsCallbacks(t *testing.T) {
	m := Modal{
		ID:        "m1",
		Kind:      KindConfirm,
		Title:     "Delete?",
		OnConfirm: func() {},
		OnCancel:  func() {},
	}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "OnConfirm")

	toast := Toast{ID: "t1", Kind: KindInfo, Message: "hi", Action: &Action{Label: "Undo", Invoke: func() {}}}
	data, err = json.Marshal(toast)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"label":"Undo"`)
	assert.NotContains(t, string(data), "expires_at")
}
