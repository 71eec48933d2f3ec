// Package input reads batches of toast requests for `widgetdash notify`.
package input

import (
	"context"
	"os"

	"github.com/jmylchreest/widgetdash/internal/model"
)

// InputAdapter reads toast requests from a source.
type InputAdapter interface {
	// Name returns the adapter identifier (e.g., "stdin", a file path).
	Name() string

	// Import reads every request the source holds.
	Import(ctx context.Context) ([]model.ToastSpec, error)
}

// NewAdapter creates an adapter for source: "-" or "" reads standard
// input, anything else is a file path.
func NewAdapter(source string) (InputAdapter, error) {
	if source == "" || source == "-" {
		return NewStdinAdapter(), nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, &AdapterError{
			Source:  source,
			Message: "failed to open input",
			Err:     err,
		}
	}
	return &StdinAdapter{reader: f, name: source, closer: f}, nil
}

// AdapterError represents an adapter-related error.
type AdapterError struct {
	Source  string
	Message string
	Err     error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Source + ": " + e.Message
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}
