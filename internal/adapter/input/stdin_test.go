package input

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/widgetdash/internal/model"
)

func TestStdinAdapter_Array(t *testing.T) {
	in := `[
		{"type": "success", "title": "Saved", "message": "All done", "duration_ms": 1500},
		{"message": "plain"},
		{"type": "error", "message": "stuck", "duration_ms": 0}
	]`

	specs, err := NewStdinAdapterWithReader(strings.NewReader(in)).Import(context.Background())
	require.NoError(t, err)
	require.Len(t, specs, 3)

	assert.Equal(t, model.KindSuccess, specs[0].Kind)
	assert.Equal(t, "Saved", specs[0].Title)
	require.NotNil(t, specs[0].Duration)
	assert.Equal(t, 1500*time.Millisecond, *specs[0].Duration)

	assert.Equal(t, model.KindInfo, specs[1].Kind)
	assert.Nil(t, specs[1].Duration)

	require.NotNil(t, specs[2].Duration)
	assert.Equal(t, time.Duration(0), *specs[2].Duration)
}

func TestStdinAdapter_JSONLines(t *testing.T) {
	in := "{\"type\":\"WARNING\",\"message\":\"one\"}\n\n{\"message\":\"two\\u0007bell\"}\n{\"title\":\"\",\"message\":\"  \"}\n"

	specs, err := NewStdinAdapterWithReader(strings.NewReader(in)).Import(context.Background())
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, model.KindWarning, specs[0].Kind)
	assert.Equal(t, "two bell", specs[1].Message)
}

func TestStdinAdapter_UnknownTypeIsInfo(t *testing.T) {
	specs, err := NewStdinAdapterWithReader(strings.NewReader(`{"type":"confirm","message":"x"}`)).Import(context.Background())
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, model.KindInfo, specs[0].Kind)
}

func TestStdinAdapter_Empty(t *testing.T) {
	specs, err := NewStdinAdapterWithReader(strings.NewReader("  \n\t")).Import(context.Background())
	require.NoError(t, err)
	assert.Empty(t, specs)
}

func TestStdinAdapter_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"broken array", `[{"message": "x"`},
		{"broken line", "{\"message\":\"ok\"}\n{nope}\n"},
		{"unknown field", `{"message":"x","icon":"bell"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStdinAdapterWithReader(strings.NewReader(tt.in)).Import(context.Background())
			var aerr *AdapterError
			require.ErrorAs(t, err, &aerr)
			assert.Equal(t, "stdin", aerr.Source)
		})
	}
}

func TestNewAdapter(t *testing.T) {
	a, err := NewAdapter("-")
	require.NoError(t, err)
	assert.Equal(t, "stdin", a.Name())

	path := filepath.Join(t.TempDir(), "toasts.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"message":"from file"}]`), 0o600))

	a, err = NewAdapter(path)
	require.NoError(t, err)
	assert.Equal(t, path, a.Name())

	specs, err := a.Import(context.Background())
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "from file", specs[0].Message)

	_, err = NewAdapter(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "a b", sanitizeString("a\x01b"))
	assert.Equal(t, "line\nnext", sanitizeString("  line\nnext  "))
}
