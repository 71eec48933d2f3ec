package input

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jmylchreest/widgetdash/internal/model"
)

// StdinAdapter reads toast requests as JSON: either one array or a stream
// of objects, one per line.
type StdinAdapter struct {
	reader io.Reader
	name   string
	closer io.Closer
}

// NewStdinAdapter creates a new StdinAdapter reading from os.Stdin.
func NewStdinAdapter() *StdinAdapter {
	return &StdinAdapter{reader: os.Stdin, name: "stdin"}
}

// NewStdinAdapterWithReader creates a new StdinAdapter with a custom reader.
func NewStdinAdapterWithReader(r io.Reader) *StdinAdapter {
	return &StdinAdapter{reader: r, name: "stdin"}
}

// Name returns the adapter identifier.
func (a *StdinAdapter) Name() string {
	return a.name
}

// Import decodes every entry. Entries with neither title nor message are
// skipped; malformed JSON fails the whole batch.
func (a *StdinAdapter) Import(ctx context.Context) ([]model.ToastSpec, error) {
	if a.closer != nil {
		defer a.closer.Close()
	}

	br := bufio.NewReader(a.reader)
	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, a.fail("failed to read input", err)
	}

	var entries []stdinEntry
	dec := json.NewDecoder(br)
	dec.DisallowUnknownFields()

	if first == '[' {
		if err := dec.Decode(&entries); err != nil {
			return nil, a.fail("failed to parse JSON input", err)
		}
	} else {
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			var entry stdinEntry
			err := dec.Decode(&entry)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, a.fail(fmt.Sprintf("failed to parse entry %d", len(entries)+1), err)
			}
			entries = append(entries, entry)
		}
	}

	specs := make([]model.ToastSpec, 0, len(entries))
	for _, entry := range entries {
		if spec, ok := entry.spec(); ok {
			specs = append(specs, spec)
		}
	}
	return specs, nil
}

func (a *StdinAdapter) fail(msg string, err error) error {
	return &AdapterError{Source: a.name, Message: msg, Err: err}
}

// peekNonSpace returns the first non-whitespace byte without consuming it.
func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		if !bytes.ContainsAny(b, " \t\r\n") {
			return b[0], nil
		}
		if _, err := br.Discard(1); err != nil {
			return 0, err
		}
	}
}

// stdinEntry is one toast request.
type stdinEntry struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	// DurationMS nil uses the default; 0 never expires.
	DurationMS *int64 `json:"duration_ms,omitempty"`
}

func (e stdinEntry) spec() (model.ToastSpec, bool) {
	spec := model.ToastSpec{
		Kind:    model.Kind(strings.ToLower(strings.TrimSpace(e.Type))).Resolve(false),
		Title:   sanitizeString(e.Title),
		Message: sanitizeString(e.Message),
	}
	if spec.Title == "" && spec.Message == "" {
		return spec, false
	}
	if e.DurationMS != nil {
		spec.Duration = model.After(time.Duration(*e.DurationMS) * time.Millisecond)
	}
	return spec, true
}

// sanitizeString replaces control characters other than newline and tab.
func sanitizeString(s string) string {
	var result strings.Builder
	for _, r := range s {
		if r < 32 && r != '\n' && r != '\t' {
			result.WriteRune(' ')
		} else {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}
