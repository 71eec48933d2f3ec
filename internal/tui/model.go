// Package tui provides the bubbletea dashboard: the notification test
// widget with the toast stack, the modal and the banner layered on top.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/widgetdash/internal/config"
	"github.com/jmylchreest/widgetdash/internal/layout"
	"github.com/jmylchreest/widgetdash/internal/overlay"
	"github.com/jmylchreest/widgetdash/internal/render"
	"github.com/jmylchreest/widgetdash/internal/store"
	"github.com/jmylchreest/widgetdash/internal/theme"
)

// tickInterval refreshes the remaining-time labels.
const tickInterval = time.Second

// Options configures the dashboard model.
type Options struct {
	Scope   *overlay.Scope
	Config  *config.Config
	Palette *theme.Palette
	Logger  *slog.Logger
	// Surfaces lists the extra consumer surfaces running alongside, shown
	// in the header (e.g. "dbus", "http :7878").
	Surfaces []string
	Now      func() time.Time
}

// Model is the dashboard model.
type Model struct {
	scope  *overlay.Scope
	cfg    *config.Config
	logger *slog.Logger
	events <-chan store.ChangeEvent

	widget *TestWidget
	snap   store.Snapshot

	palette     *theme.Palette
	breakpoints layout.Breakpoints
	surfaces    []string
	now         func() time.Time

	keys KeyMap
	help help.Model

	width  int
	height int
	ready  bool

	statusMsg string
	statusErr bool
}

// New creates the dashboard model and subscribes to the scope.
func New(opts Options) (Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	palette := opts.Palette
	if palette == nil {
		palette = theme.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	events, err := opts.Scope.Subscribe()
	if err != nil {
		return Model{}, err
	}
	snap, err := opts.Scope.Snapshot()
	if err != nil {
		opts.Scope.Unsubscribe(events)
		return Model{}, err
	}

	h := help.New()
	h.ShowAll = cfg.TUI.ShowHelp

	return Model{
		scope:       opts.Scope,
		cfg:         cfg,
		logger:      logger,
		events:      events,
		widget:      NewTestWidget(opts.Scope),
		snap:        snap,
		palette:     palette,
		breakpoints: cfg.Breakpoints(),
		surfaces:    opts.Surfaces,
		now:         now,
		keys:        DefaultKeyMap(),
		help:        h,
	}, nil
}

// Close ends the store subscription.
func (m Model) Close() {
	m.scope.Unsubscribe(m.events)
}

// ReloadMsg carries settings changed by a config reload.
type ReloadMsg struct {
	Config  *config.Config
	Palette *theme.Palette
}

// changeMsg wraps one store change. ok is false once the scope closed.
type changeMsg struct {
	event store.ChangeEvent
	ok    bool
}

type tickMsg time.Time

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

// Init starts the change subscription and the tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForChange(), tick())
}

func (m Model) waitForChange() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		return changeMsg{event: ev, ok: ok}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case changeMsg:
		if !msg.ok {
			m.logger.Debug("overlay scope closed, leaving dashboard")
			return m, tea.Quit
		}
		m.refresh()
		return m, m.waitForChange()

	case tickMsg:
		return m, tick()

	case ReloadMsg:
		if msg.Palette != nil {
			m.palette = msg.Palette
		}
		if msg.Config != nil {
			m.cfg = msg.Config
			m.breakpoints = msg.Config.Breakpoints()
		}
		return m, nil

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, status("Copy failed: "+msg.err.Error(), true)
		}
		return m, status("Copied overlay state to clipboard", false)
	}

	return m, m.widget.UpdateInput(msg)
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// refresh re-reads the snapshot after a change.
func (m *Model) refresh() {
	snap, err := m.scope.Snapshot()
	if err != nil {
		return
	}
	m.snap = snap
}

// result turns a facade call into a status message and refreshes the
// snapshot so the next frame reflects it.
func (m Model) result(err error, cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	m.refresh()
	if err != nil {
		cmds = append(cmds, status(err.Error(), true))
	}
	return m, tea.Batch(cmds...)
}

// handleKey routes keys: the modal captures everything while it is up,
// then a focused text input, then the overlay and widget keys.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.snap.Modal != nil {
		return m.handleModalKey(msg)
	}

	if m.widget.Editing() {
		switch {
		case key.Matches(msg, m.keys.Leave):
			return m, m.widget.setFocus(fieldToast)
		case msg.Type == tea.KeyTab, msg.Type == tea.KeyEnter:
			return m, m.widget.Next()
		case msg.Type == tea.KeyShiftTab:
			return m, m.widget.Prev()
		}
		return m, m.widget.UpdateInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Next):
		return m, m.widget.Next()

	case key.Matches(msg, m.keys.Prev):
		return m, m.widget.Prev()

	case key.Matches(msg, m.keys.Left):
		return m.result(m.widget.Cycle(-1))

	case key.Matches(msg, m.keys.Right):
		return m.result(m.widget.Cycle(1))

	case key.Matches(msg, m.keys.Press):
		cmd, err := m.widget.Press()
		return m.result(err, cmd)

	case key.Matches(msg, m.keys.BannerDismiss):
		if m.snap.Banner == nil {
			return m, nil
		}
		done, err := m.scope.DismissBanner(m.snap.Banner.ID)
		if err == nil && !done {
			return m.result(nil, status("Banner is not dismissible", true))
		}
		return m.result(err)

	case key.Matches(msg, m.keys.BannerAction):
		if m.snap.Banner == nil {
			return m, nil
		}
		_, err := m.scope.InvokeBannerAction(m.snap.Banner.ID)
		return m.result(err)

	case key.Matches(msg, m.keys.ToastDismiss):
		if t, ok := m.newestToast(); ok {
			_, err := m.scope.RemoveToast(t)
			return m.result(err)
		}
		return m, nil

	case key.Matches(msg, m.keys.ToastClear):
		_, err := m.scope.ClearToasts()
		return m.result(err)

	case key.Matches(msg, m.keys.ToastAction):
		if t, ok := m.newestToast(); ok {
			_, err := m.scope.InvokeToastAction(t)
			return m.result(err)
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m, m.copySnapshot()
	}

	return m, nil
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.snap.Modal.ID
	switch {
	case key.Matches(msg, m.keys.Confirm):
		_, err := m.scope.ConfirmModal(id)
		return m.result(err)

	case key.Matches(msg, m.keys.Cancel):
		if !m.snap.Modal.HasCancel() {
			return m, nil
		}
		_, err := m.scope.CancelModal(id)
		return m.result(err)

	case key.Matches(msg, m.keys.ModalDismiss):
		done, err := m.scope.DismissModal(id)
		if err == nil && !done {
			return m.result(nil, status("Modal is not dismissible", true))
		}
		return m.result(err)
	}
	return m, nil
}

// newestToast returns the ID of the most recently added toast.
func (m Model) newestToast() (string, bool) {
	if len(m.snap.Toasts) == 0 {
		return "", false
	}
	return m.snap.Toasts[len(m.snap.Toasts)-1].ID, true
}

func (m Model) copySnapshot() tea.Cmd {
	text, err := snapshotYAML(m.snap)
	if err != nil {
		return status(err.Error(), true)
	}
	cfg := m.cfg
	return func() tea.Msg {
		return copyResultMsg{err: copyText(context.Background(), text, cfg)}
	}
}

// View renders the dashboard.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	opts := render.Options{
		Palette: m.palette,
		Size:    m.breakpoints.Classify(m.width),
		Width:   m.width,
		Height:  m.height,
		Now:     m.now(),
	}

	body := strings.Join([]string{
		m.header(opts.Size),
		m.widget.View(m.snap.Position, m.palette, m.width),
		m.footer(),
	}, "\n")

	return render.Screen(body, m.snap, opts)
}

func (m Model) header(size layout.SizeClass) string {
	muted := lipgloss.NewStyle().Foreground(m.palette.Color(theme.VarTextMuted))
	title := lipgloss.NewStyle().Bold(true).Foreground(m.palette.Color(theme.VarAccent)).Render("widgetdash")

	info := []string{
		m.palette.Name,
		string(size),
		fmt.Sprintf("%d toasts", len(m.snap.Toasts)),
	}
	info = append(info, m.surfaces...)
	return title + "  " + muted.Render(strings.Join(info, " · "))
}

func (m Model) footer() string {
	if m.statusMsg != "" {
		style := lipgloss.NewStyle().Foreground(m.palette.Color(theme.VarTextMuted))
		if m.statusErr {
			style = style.Foreground(m.palette.Color(theme.VarDanger))
		}
		return style.Render(m.statusMsg)
	}
	return m.help.View(m.keys)
}

// RunOptions configures Run.
type RunOptions struct {
	Options
	// Ready is called with the program before it starts, so callers can
	// forward ReloadMsg values with Program.Send.
	Ready func(p *tea.Program)
}

// Run runs the dashboard until the user quits, ctx ends or the scope
// closes.
func Run(ctx context.Context, opts RunOptions) error {
	m, err := New(opts.Options)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if opts.Ready != nil {
		opts.Ready(p)
	}

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
