package render

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/widgetdash/internal/layout"
	"github.com/jmylchreest/widgetdash/internal/model"
	"github.com/jmylchreest/widgetdash/internal/store"
	"github.com/jmylchreest/widgetdash/internal/theme"
)

const (
	maxToastWidth = 40
	minToastWidth = 24
	maxModalWidth = 60
)

func (o Options) keys() KeyHints {
	if o.Keys == (KeyHints{}) {
		return DefaultKeyHints
	}
	return o.Keys
}

// Remaining describes the time left on a toast, e.g. "3 seconds left".
// Persistent toasts return "".
func Remaining(t model.Toast, now time.Time) string {
	if t.Persistent() || t.ExpiresAt.IsZero() {
		return ""
	}
	if !t.ExpiresAt.After(now) {
		return "expiring"
	}
	return humanize.RelTime(now, t.ExpiresAt, "left", "ago")
}

// toastWidth follows the available width: a third of it on wide screens,
// nearly all of it on small ones.
func toastWidth(o Options) int {
	if o.Width <= 0 {
		return maxToastWidth
	}
	if o.Size == layout.SizeSmall {
		return max(o.Width-2, 1)
	}
	return min(max(o.Width/3, minToastWidth), maxToastWidth, o.Width)
}

// Toast renders one toast card.
func Toast(t model.Toast, o Options) string {
	p := o.palette()
	ks := styleFor(t.Kind, false)
	muted := lipgloss.NewStyle().Foreground(p.Color(theme.VarTextMuted))

	var b strings.Builder
	head := lipgloss.NewStyle().Foreground(p.Color(ks.Color)).Render(ks.Icon)
	if t.Title != "" {
		head += " " + lipgloss.NewStyle().Bold(true).Render(t.Title)
	}
	head += " " + muted.Render("×")
	b.WriteString(head)
	b.WriteString("\n")
	b.WriteString(t.Message)

	var footer []string
	if t.Action != nil {
		footer = append(footer, lipgloss.NewStyle().Foreground(p.Color(ks.Color)).Render(keyed(o.keys().ToastAction, t.Action.Label)))
	}
	if rem := Remaining(t, o.now()); rem != "" {
		footer = append(footer, muted.Render(rem))
	}
	if len(footer) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(footer, "  "))
	}

	box := boxStyle(p, ks.Color, o.spacing())
	// Width excludes the border.
	return box.Width(max(toastWidth(o)-2, 1)).Render(b.String())
}

// ToastStack renders toasts in insertion order, reversed when the anchor
// is at the bottom so the oldest toast sits against the edge.
func ToastStack(toasts []model.Toast, pos model.Position, o Options) string {
	if len(toasts) == 0 {
		return ""
	}

	ordered := slices.Clone(toasts)
	if pos.IsBottom() {
		slices.Reverse(ordered)
	}

	cards := make([]string, 0, len(ordered))
	gap := strings.Repeat("\n", o.spacing().Gap)
	for i, t := range ordered {
		card := Toast(t, o)
		if i > 0 && gap != "" {
			card = gap + card
		}
		cards = append(cards, card)
	}

	align := horizontal(pos)
	stack := lipgloss.JoinVertical(align, cards...)
	if o.Width > 0 {
		stack = lipgloss.PlaceHorizontal(o.Width, align, stack)
	}
	return stack
}

func horizontal(pos model.Position) lipgloss.Position {
	switch pos.Horizontal() {
	case "left":
		return lipgloss.Left
	case "center":
		return lipgloss.Center
	default:
		return lipgloss.Right
	}
}

// Modal renders the dialog. A nil modal renders as "".
func Modal(m *model.Modal, o Options) string {
	if m == nil {
		return ""
	}
	p := o.palette()
	ks := styleFor(m.Kind, true)
	keys := o.keys()
	accent := lipgloss.NewStyle().Foreground(p.Color(ks.Color))
	muted := lipgloss.NewStyle().Foreground(p.Color(theme.VarTextMuted))

	var b strings.Builder
	b.WriteString(accent.Render(ks.Icon))
	b.WriteString(" ")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.Title))
	if m.Message != "" {
		b.WriteString("\n\n")
		b.WriteString(m.Message)
	}
	if m.Content != "" {
		b.WriteString("\n\n")
		b.WriteString(muted.Render(m.Content))
	}

	confirmLabel := m.ConfirmLabel
	if confirmLabel == "" {
		confirmLabel = model.DefaultConfirmLabel
	}
	buttons := accent.Bold(true).Render(keyed(keys.Confirm, confirmLabel))
	if m.HasCancel() {
		buttons = muted.Render(keyed(keys.Cancel, m.CancelLabel)) + "  " + buttons
	}
	b.WriteString("\n\n")
	b.WriteString(buttons)

	if m.Dismissible {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(p.Color(theme.VarTextSubtle)).Render(keys.Dismiss + " to close"))
	}

	width := maxModalWidth
	if o.Width > 0 {
		width = min(width, o.Width-4)
	}
	return boxStyle(p, ks.Color, o.spacing()).Width(max(width, 10)).Render(b.String())
}

// Banner renders the full-width notice. A nil banner renders as "".
func Banner(bn *model.Banner, o Options) string {
	if bn == nil {
		return ""
	}
	p := o.palette()
	ks := styleFor(bn.Kind, false)
	keys := o.keys()
	color := lipgloss.NewStyle().Foreground(p.Color(ks.Color))

	parts := []string{color.Render(ks.Icon)}
	if bn.Title != "" {
		parts = append(parts, lipgloss.NewStyle().Bold(true).Render(bn.Title))
	}
	parts = append(parts, bn.Message)
	if bn.Action != nil {
		parts = append(parts, color.Bold(true).Render(keyed(keys.BannerAction, bn.Action.Label)))
	}
	if bn.Dismissible {
		parts = append(parts, lipgloss.NewStyle().Foreground(p.Color(theme.VarTextMuted)).Render(keyed(keys.BannerDismiss, "×")))
	}

	sp := o.spacing()
	style := lipgloss.NewStyle().
		Foreground(p.Color(theme.VarText)).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(p.Color(ks.Color)).
		Padding(0, sp.PadX)
	if o.Width > 0 {
		style = style.Width(o.Width)
	}
	return style.Render(strings.Join(parts, " "))
}

// Screen layers the overlays over body: the banner on top, the toast
// stack at its anchor, and the modal centred over a backdrop that hides
// the body.
func Screen(body string, snap store.Snapshot, o Options) string {
	if snap.Modal != nil {
		dialog := Modal(snap.Modal, o)
		if o.Width <= 0 || o.Height <= 0 {
			return dialog
		}
		return lipgloss.Place(o.Width, o.Height, lipgloss.Center, lipgloss.Center, dialog,
			lipgloss.WithWhitespaceChars("░"),
			lipgloss.WithWhitespaceForeground(o.palette().Color(theme.VarShadow)))
	}

	var top, bottom []string
	if banner := Banner(snap.Banner, o); banner != "" {
		top = append(top, banner)
	}

	stack := ToastStack(snap.Toasts, snap.Position, o)
	if stack != "" && !snap.Position.IsBottom() {
		top = append(top, stack)
	}
	if stack != "" && snap.Position.IsBottom() {
		bottom = append(bottom, stack)
	}

	if o.Height > 0 {
		used := 0
		for _, s := range slices.Concat(top, bottom) {
			used += lipgloss.Height(s)
		}
		if room := o.Height - used; room > lipgloss.Height(body) {
			body = lipgloss.PlaceVertical(room, lipgloss.Top, body)
		}
	}

	parts := slices.Concat(top, []string{body}, bottom)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
