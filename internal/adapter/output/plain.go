package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/widgetdash/internal/model"
	"github.com/jmylchreest/widgetdash/internal/render"
	"github.com/jmylchreest/widgetdash/internal/store"
)

// PlainFormatter writes a human-readable listing: the banner and modal
// first, then one block per toast.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter. An invalid
// template is ignored.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs(opts.now)).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes snap as plain text.
func (f *PlainFormatter) Format(w io.Writer, snap store.Snapshot) error {
	if f.template != nil {
		for i := range snap.Toasts {
			data := templateData{Index: i + 1, Toast: &snap.Toasts[i]}
			if err := f.template.Execute(w, data); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "position: %s\n", snap.Position)

	if b := snap.Banner; b != nil {
		sb.WriteString("banner: ")
		sb.WriteString(f.headline(b.Kind, b.Title, b.Message))
		if !b.Dismissible {
			sb.WriteString(" (pinned)")
		}
		sb.WriteString("\n")
	}

	if m := snap.Modal; m != nil {
		sb.WriteString("modal: ")
		sb.WriteString(f.headline(m.Kind, m.Title, m.Message))
		buttons := "[" + m.ConfirmLabel
		if m.HasCancel() {
			buttons += "/" + m.CancelLabel
		}
		sb.WriteString(" " + buttons + "]\n")
	}

	if len(snap.Toasts) == 0 {
		sb.WriteString("no toasts\n")
	}

	now := f.opts.now()
	for i := range snap.Toasts {
		t := &snap.Toasts[i]
		if f.opts.ShowIndex {
			fmt.Fprintf(&sb, "[%d] ", i+1)
		}
		sb.WriteString(f.headline(t.Kind, t.Title, t.Message))
		if f.opts.ShowTime {
			if rem := render.Remaining(*t, now); rem != "" {
				fmt.Fprintf(&sb, " (%s)", rem)
			} else {
				sb.WriteString(" (persistent)")
			}
		}
		if t.Action != nil {
			fmt.Fprintf(&sb, " {%s}", t.Action.Label)
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (f *PlainFormatter) headline(kind model.Kind, title, message string) string {
	s := "[" + string(kind.Resolve(true)) + "] "
	body := sanitizeBody(message, f.opts.BodyMaxLen, f.opts.IncludeNewline)
	switch {
	case title == "":
		return s + body
	case body == "":
		return s + title
	default:
		return s + title + ": " + body
	}
}

// templateData is the value passed to a custom template.
type templateData struct {
	Index int
	Toast *model.Toast
}

func templateFuncs(now func() time.Time) template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, maxLen int) string {
			if maxLen <= 0 || len(s) <= maxLen {
				return s
			}
			if maxLen <= 3 {
				return s[:maxLen]
			}
			return s[:maxLen-3] + "..."
		},
		"remaining": func(t *model.Toast) string {
			return render.Remaining(*t, now())
		},
		"age": func(t *model.Toast) string {
			return humanize.RelTime(t.CreatedAt, now(), "ago", "from now")
		},
		"kindIcon": func(k model.Kind) string {
			switch k.Resolve(true) {
			case model.KindSuccess:
				return "+"
			case model.KindError:
				return "!"
			case model.KindWarning:
				return "~"
			default:
				return "-"
			}
		},
	}
}

// sanitizeBody cleans up message text for single-line display.
func sanitizeBody(body string, maxLen int, includeNewline bool) string {
	if !includeNewline {
		body = strings.ReplaceAll(body, "\n", " ")
		body = strings.ReplaceAll(body, "\r", "")
	}

	for strings.Contains(body, "  ") {
		body = strings.ReplaceAll(body, "  ", " ")
	}

	body = strings.TrimSpace(body)

	if maxLen > 0 && len(body) > maxLen {
		if maxLen <= 3 {
			return body[:maxLen]
		}
		return body[:maxLen-3] + "..."
	}

	return body
}
