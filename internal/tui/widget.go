package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/widgetdash/internal/model"
	"github.com/jmylchreest/widgetdash/internal/overlay"
	"github.com/jmylchreest/widgetdash/internal/theme"
)

// Defaults the test widget starts with.
const (
	defaultTitle   = "Success"
	defaultMessage = "The operation completed successfully."
)

// field is one focusable control of the test widget.
type field int

const (
	fieldPosition field = iota
	fieldKind
	fieldTitle
	fieldMessage
	fieldToast
	fieldModal
	fieldBanner
	fieldCount
)

var positionLabels = map[model.Position]string{
	model.PositionTopLeft:      "top left",
	model.PositionTopCenter:    "top centre",
	model.PositionTopRight:     "top right",
	model.PositionBottomLeft:   "bottom left",
	model.PositionBottomCenter: "bottom centre",
	model.PositionBottomRight:  "bottom right",
}

// TestWidget is the notification test panel: it raises toasts, the modal
// and the banner through the overlay scope like any other widget would.
type TestWidget struct {
	scope   *overlay.Scope
	kinds   []model.Kind
	kind    int
	title   textinput.Model
	message textinput.Model
	focus   field
}

// NewTestWidget creates the widget for scope.
func NewTestWidget(scope *overlay.Scope) *TestWidget {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 80
	title.SetValue(defaultTitle)

	message := textinput.New()
	message.Placeholder = "Message"
	message.CharLimit = 200
	message.SetValue(defaultMessage)

	return &TestWidget{
		scope:   scope,
		kinds:   model.Kinds(),
		title:   title,
		message: message,
	}
}

// Kind returns the selected overlay type.
func (w *TestWidget) Kind() model.Kind {
	return w.kinds[w.kind]
}

// Editing reports whether a text input has focus.
func (w *TestWidget) Editing() bool {
	return w.focus == fieldTitle || w.focus == fieldMessage
}

// Next moves focus forward, wrapping around.
func (w *TestWidget) Next() tea.Cmd {
	return w.setFocus((w.focus + 1) % fieldCount)
}

// Prev moves focus backward, wrapping around.
func (w *TestWidget) Prev() tea.Cmd {
	return w.setFocus((w.focus + fieldCount - 1) % fieldCount)
}

func (w *TestWidget) setFocus(f field) tea.Cmd {
	w.focus = f
	w.title.Blur()
	w.message.Blur()
	switch f {
	case fieldTitle:
		return w.title.Focus()
	case fieldMessage:
		return w.message.Focus()
	}
	return nil
}

// Cycle moves the focused picker by delta. The position picker applies
// the new anchor immediately.
func (w *TestWidget) Cycle(delta int) error {
	switch w.focus {
	case fieldKind:
		w.kind = wrap(w.kind+delta, len(w.kinds))
	case fieldPosition:
		current, err := w.scope.ToastPosition()
		if err != nil {
			return err
		}
		positions := model.Positions()
		i := 0
		for j, p := range positions {
			if p == current {
				i = j
			}
		}
		return w.scope.SetToastPosition(positions[wrap(i+delta, len(positions))])
	}
	return nil
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

// Press activates the focused control. On an input it moves to the next
// field.
func (w *TestWidget) Press() (tea.Cmd, error) {
	switch w.focus {
	case fieldPosition, fieldKind:
		return nil, w.Cycle(1)
	case fieldTitle, fieldMessage:
		return w.Next(), nil
	case fieldToast:
		_, err := w.ShowToast()
		return nil, err
	case fieldModal:
		_, err := w.ShowModal()
		return nil, err
	case fieldBanner:
		_, err := w.ShowBanner()
		return nil, err
	}
	return nil, nil
}

// UpdateInput forwards msg to the focused text input.
func (w *TestWidget) UpdateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch w.focus {
	case fieldTitle:
		w.title, cmd = w.title.Update(msg)
	case fieldMessage:
		w.message, cmd = w.message.Update(msg)
	}
	return cmd
}

// ShowToast raises a toast with the current type and text.
func (w *TestWidget) ShowToast() (string, error) {
	return w.scope.AddToast(model.ToastSpec{
		Kind:    w.Kind(),
		Title:   w.title.Value(),
		Message: w.message.Value(),
	})
}

// ShowModal opens a confirm dialog; confirming raises a success toast.
func (w *TestWidget) ShowModal() (string, error) {
	sc := w.scope
	return sc.ShowModal(model.ModalSpec{
		Kind:         w.Kind(),
		Title:        w.title.Value(),
		Message:      w.message.Value(),
		ConfirmLabel: "Confirm",
		CancelLabel:  "Cancel",
		OnConfirm: func() {
			_, _ = sc.AddToast(model.ToastSpec{Kind: model.KindSuccess, Message: "Confirmed in the modal"})
		},
	})
}

// ShowBanner shows a banner whose action raises an info toast.
func (w *TestWidget) ShowBanner() (string, error) {
	sc := w.scope
	return sc.ShowBanner(model.BannerSpec{
		Kind:    w.Kind(),
		Title:   w.title.Value(),
		Message: w.message.Value(),
		Action: &model.Action{
			Label: "Action",
			Invoke: func() {
				_, _ = sc.AddToast(model.ToastSpec{Kind: model.KindInfo, Message: "Banner action ran"})
			},
		},
	})
}

// View renders the widget card. pos is the live toast anchor.
func (w *TestWidget) View(pos model.Position, p *theme.Palette, width int) string {
	accent := p.Color(theme.VarAccent)
	muted := lipgloss.NewStyle().Foreground(p.Color(theme.VarTextMuted))
	selected := lipgloss.NewStyle().Bold(true).Foreground(p.Color(theme.VarText)).Background(accent).Padding(0, 1)
	plain := lipgloss.NewStyle().Padding(0, 1)

	option := func(label string, on bool) string {
		if on {
			return selected.Render(label)
		}
		return plain.Render(label)
	}
	row := func(f field, label, content string) string {
		marker := "  "
		if w.focus == f {
			marker = lipgloss.NewStyle().Foreground(accent).Render("› ")
		}
		return marker + muted.Render(label) + "\n  " + content
	}

	var grid []string
	positions := model.Positions()
	for i := 0; i < len(positions); i += 3 {
		var cells []string
		for _, q := range positions[i : i+3] {
			cells = append(cells, option(positionLabels[q], q == pos))
		}
		grid = append(grid, strings.Join(cells, " "))
	}

	var kinds []string
	for i, k := range w.kinds {
		kinds = append(kinds, option(string(k), i == w.kind))
	}

	var buttons []string
	for _, b := range []struct {
		f     field
		label string
	}{{fieldToast, "Show toast"}, {fieldModal, "Modal"}, {fieldBanner, "Banner"}} {
		buttons = append(buttons, option("["+b.label+"]", w.focus == b.f))
	}

	header := lipgloss.NewStyle().Bold(true).Render("Notification test") + "  " +
		muted.Render("toast / modal / banner")

	body := strings.Join([]string{
		header,
		"",
		row(fieldPosition, "Toast position", strings.Join(grid, "\n  ")),
		row(fieldKind, "Type", strings.Join(kinds, " ")),
		row(fieldTitle, "Title", w.title.View()),
		row(fieldMessage, "Message", w.message.View()),
		"",
		"  " + strings.Join(buttons, " "),
	}, "\n")

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Color(theme.VarAccentDark)).
		Padding(0, 1)
	if width > 4 {
		card = card.Width(min(width-2, 72))
	}
	return card.Render(body)
}
