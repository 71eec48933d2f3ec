// Package output renders overlay snapshots for the command line.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jmylchreest/widgetdash/internal/store"
)

// Formatter writes a snapshot in one output format.
type Formatter interface {
	Format(w io.Writer, snap store.Snapshot) error
}

// FormatType names an output format.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
	FormatIDs   FormatType = "ids"
)

// Formats returns every supported format.
func Formats() []FormatType {
	return []FormatType{FormatPlain, FormatJSON, FormatYAML, FormatIDs}
}

// ParseFormat validates a --format value.
func ParseFormat(s string) (FormatType, error) {
	f := FormatType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// NewFormatter creates a formatter for the given format. Unknown formats
// fall back to plain.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatYAML:
		return NewYAMLFormatter()
	case FormatIDs:
		return NewIDsFormatter()
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures the text formatters.
type FormatterOptions struct {
	Template       string // Per-toast template for plain output
	ShowIndex      bool   // Show 1-based index prefix
	ShowTime       bool   // Show time left
	BodyMaxLen     int    // Maximum message length (0 = unlimited)
	IncludeNewline bool   // Keep newlines in messages
	Compact        bool   // Single-line JSON
	Now            func() time.Time
}

// DefaultFormatterOptions returns the options used by `widgetdash snapshot`.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex:  true,
		ShowTime:   true,
		BodyMaxLen: 80,
	}
}

func (o FormatterOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}
