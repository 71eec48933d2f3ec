package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the dashboard.
type KeyMap struct {
	// Widget navigation
	Next  key.Binding
	Prev  key.Binding
	Left  key.Binding
	Right key.Binding
	Press key.Binding
	Leave key.Binding

	// Modal
	Confirm      key.Binding
	Cancel       key.Binding
	ModalDismiss key.Binding

	// Banner
	BannerDismiss key.Binding
	BannerAction  key.Binding

	// Toasts
	ToastDismiss key.Binding
	ToastClear   key.Binding
	ToastAction  key.Binding

	Copy key.Binding

	// Global
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Press, k.ToastDismiss, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Left, k.Right, k.Press},
		{k.Confirm, k.Cancel, k.ModalDismiss},
		{k.BannerDismiss, k.BannerAction},
		{k.ToastDismiss, k.ToastClear, k.ToastAction},
		{k.Copy, k.Help, k.Quit},
	}
}

// ModalHelp lists the keys active while a modal is up.
func (k KeyMap) ModalHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel, k.ModalDismiss}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down", "j"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up", "k"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous option"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next option"),
		),
		Press: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "press"),
		),
		Leave: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave input"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y/enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "cancel"),
		),
		ModalDismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss modal"),
		),
		BannerDismiss: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "dismiss banner"),
		),
		BannerAction: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "banner action"),
		),
		ToastDismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss newest toast"),
		),
		ToastClear: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear toasts"),
		),
		ToastAction: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "newest toast action"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy state as YAML"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}
