// Package render draws the overlay state as terminal text. Every function
// is a pure function of its inputs: a snapshot (or part of one), the
// palette, the size class and the available width.
package render

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/widgetdash/internal/layout"
	"github.com/jmylchreest/widgetdash/internal/model"
	"github.com/jmylchreest/widgetdash/internal/theme"
)

// KeyHints are the key labels shown next to overlay controls. An empty
// hint shows the control without a key.
type KeyHints struct {
	Confirm       string
	Cancel        string
	Dismiss       string
	ToastAction   string
	ToastDismiss  string
	BannerAction  string
	BannerDismiss string
}

// DefaultKeyHints match the dashboard key map.
var DefaultKeyHints = KeyHints{
	Confirm:       "y",
	Cancel:        "n",
	Dismiss:       "esc",
	ToastAction:   "t",
	ToastDismiss:  "x",
	BannerAction:  "a",
	BannerDismiss: "b",
}

// Options are the collaborator inputs every renderer takes.
type Options struct {
	Palette *theme.Palette
	Size    layout.SizeClass
	Width   int
	Height  int
	Now     time.Time
	Keys    KeyHints
}

func (o Options) palette() *theme.Palette {
	if o.Palette == nil {
		return theme.Default()
	}
	return o.Palette
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

func (o Options) spacing() layout.Spacing {
	return layout.SpacingFor(o.Size)
}

// kindStyle is the per-kind icon and colour variable.
type kindStyle struct {
	Icon  string
	Color string
}

// styleFor resolves a kind to its style. Unknown kinds get the info style;
// confirm is only honoured on modals.
func styleFor(k model.Kind, allowConfirm bool) kindStyle {
	switch k.Resolve(allowConfirm) {
	case model.KindSuccess:
		return kindStyle{Icon: "✓", Color: "var(--success)"}
	case model.KindError:
		return kindStyle{Icon: "✗", Color: "var(--danger)"}
	case model.KindWarning:
		return kindStyle{Icon: "⚠", Color: "var(--warning)"}
	case model.KindConfirm:
		return kindStyle{Icon: "?", Color: "var(--accent)"}
	default:
		return kindStyle{Icon: "ℹ", Color: "var(--info)"}
	}
}

func keyed(key, label string) string {
	if key == "" {
		return "[" + label + "]"
	}
	return "[" + key + "] " + label
}

func boxStyle(p *theme.Palette, color string, sp layout.Spacing) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Color(color)).
		Foreground(p.Color(theme.VarText)).
		Padding(sp.PadY, sp.PadX)
}
