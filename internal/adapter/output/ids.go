package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/widgetdash/internal/store"
)

// IDsFormatter outputs toast IDs, one per line, for piping into
// `widgetdash dismiss`.
type IDsFormatter struct{}

// NewIDsFormatter creates a new IDs formatter.
func NewIDsFormatter() *IDsFormatter {
	return &IDsFormatter{}
}

// Format writes the toast IDs in stack order.
func (f *IDsFormatter) Format(w io.Writer, snap store.Snapshot) error {
	for _, t := range snap.Toasts {
		if _, err := fmt.Fprintln(w, t.ID); err != nil {
			return err
		}
	}
	return nil
}
