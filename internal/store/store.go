// Package store provides the authoritative overlay state: the toast stack,
// the modal slot, the banner slot and the toast anchor.
package store

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jmylchreest/widgetdash/internal/model"
)

// ChangeType indicates the type of store change.
type ChangeType int

const (
	// ChangeTypeToastAdded indicates a toast was appended.
	ChangeTypeToastAdded ChangeType = iota
	// ChangeTypeToastRemoved indicates a single toast left the stack.
	ChangeTypeToastRemoved
	// ChangeTypeToastsCleared indicates every toast was removed at once.
	ChangeTypeToastsCleared
	// ChangeTypeModalShown indicates the modal slot was set or replaced.
	ChangeTypeModalShown
	// ChangeTypeModalClosed indicates the modal slot was emptied.
	ChangeTypeModalClosed
	// ChangeTypeBannerShown indicates the banner slot was set or replaced.
	ChangeTypeBannerShown
	// ChangeTypeBannerClosed indicates the banner slot was emptied.
	ChangeTypeBannerClosed
	// ChangeTypePositionChanged indicates the toast anchor moved.
	ChangeTypePositionChanged
)

// String returns the string representation of ChangeType.
func (c ChangeType) String() string {
	switch c {
	case ChangeTypeToastAdded:
		return "toast_added"
	case ChangeTypeToastRemoved:
		return "toast_removed"
	case ChangeTypeToastsCleared:
		return "toasts_cleared"
	case ChangeTypeModalShown:
		return "modal_shown"
	case ChangeTypeModalClosed:
		return "modal_closed"
	case ChangeTypeBannerShown:
		return "banner_shown"
	case ChangeTypeBannerClosed:
		return "banner_closed"
	case ChangeTypePositionChanged:
		return "position_changed"
	default:
		return "unknown"
	}
}

// Reason says why an overlay left the screen.
type Reason int

const (
	// ReasonNone is used for events that are not removals.
	ReasonNone Reason = iota
	// ReasonExpired means the toast timer fired.
	ReasonExpired
	// ReasonDismissed means the user closed it.
	ReasonDismissed
	// ReasonClosed means a program closed it.
	ReasonClosed
	// ReasonCleared means it went away with ClearToasts.
	ReasonCleared
	// ReasonConfirmed means the modal confirm button was used.
	ReasonConfirmed
	// ReasonCancelled means the modal cancel button was used.
	ReasonCancelled
	// ReasonReplaced means a newer modal or banner took the slot.
	ReasonReplaced
)

// String returns the string representation of Reason.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonExpired:
		return "expired"
	case ReasonDismissed:
		return "dismissed"
	case ReasonClosed:
		return "closed"
	case ReasonCleared:
		return "cleared"
	case ReasonConfirmed:
		return "confirmed"
	case ReasonCancelled:
		return "cancelled"
	case ReasonReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// ChangeEvent signals store content changes.
type ChangeEvent struct {
	Type    ChangeType
	ID      string // Toast, modal or banner ID the event is about
	Reason  Reason
	Count   int // Toasts affected by ChangeTypeToastsCleared
	Version uint64
}

// State is the committed overlay state. Transforms never modify a State in
// place; they return a new one.
type State struct {
	Toasts   []model.Toast  `json:"toasts" yaml:"toasts"`
	Modal    *model.Modal   `json:"modal" yaml:"modal"`
	Banner   *model.Banner  `json:"banner" yaml:"banner"`
	Position model.Position `json:"position" yaml:"position"`
}

// Snapshot is a read-only copy of State handed to renderers and consumers.
type Snapshot struct {
	State   `yaml:",inline"`
	Version uint64    `json:"version" yaml:"version"`
	TakenAt time.Time `json:"taken_at" yaml:"taken_at"`
}

// Toast returns the toast with the given ID, if present.
func (s Snapshot) Toast(id string) (model.Toast, bool) {
	i := slices.IndexFunc(s.Toasts, func(t model.Toast) bool { return t.ID == id })
	if i < 0 {
		return model.Toast{}, false
	}
	return s.Toasts[i], true
}

// Option configures a Store.
type Option func(*Store)

// WithDefaultDuration overrides the duration used when a ToastSpec has none.
func WithDefaultDuration(d time.Duration) Option {
	return func(s *Store) {
		s.defaultDuration = d
	}
}

// WithPosition sets the initial toast anchor.
func WithPosition(p model.Position) Option {
	return func(s *Store) {
		if p.Valid() {
			s.state.Position = p
		}
	}
}

// WithLogger sets the logger used for callback failures and lifecycle debug.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store manages overlay state with serialised, thread-safe mutations.
type Store struct {
	mu      sync.Mutex
	state   State
	version uint64

	defaultDuration time.Duration
	timers          *lifecycle
	logger          *slog.Logger
	now             func() time.Time

	subscribers []chan ChangeEvent
	closed      bool
}

// NewStore creates a new Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		state: State{
			Toasts:   make([]model.Toast, 0),
			Position: model.DefaultPosition,
		},
		defaultDuration: model.DefaultToastDuration,
		timers:          newLifecycle(),
		logger:          slog.Default(),
		now:             time.Now,
		subscribers:     make([]chan ChangeEvent, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// applyLocked runs fn against the committed state and commits its result.
// Caller must hold the lock.
func (s *Store) applyLocked(fn func(State) State) {
	s.state = fn(s.state)
	s.version++
}

// AddToast appends a toast and schedules its expiry. It returns the new ID.
func (s *Store) AddToast(spec model.ToastSpec) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrStoreClosed
	}

	toast := s.newToast(spec)
	s.applyLocked(func(st State) State {
		st.Toasts = append(slices.Clip(st.Toasts), toast)
		return st
	})

	if !toast.Persistent() {
		s.timers.schedule(toast.ID, toast.Duration, s.expire)
	}

	s.notifyChange(ChangeEvent{Type: ChangeTypeToastAdded, ID: toast.ID, Version: s.version})
	return toast.ID, nil
}

// newToast merges spec with the store defaults.
func (s *Store) newToast(spec model.ToastSpec) model.Toast {
	duration := s.defaultDuration
	if spec.Duration != nil {
		duration = *spec.Duration
	}

	now := s.now()
	toast := model.Toast{
		ID:        model.NewID(),
		Kind:      spec.Kind,
		Title:     spec.Title,
		Message:   spec.Message,
		Duration:  duration,
		Action:    spec.Action,
		CreatedAt: now,
	}
	if toast.Kind == "" {
		toast.Kind = model.KindInfo
	}
	if duration > 0 {
		toast.ExpiresAt = now.Add(duration)
	}
	return toast
}

// RemoveToast dismisses a toast. Removing an absent ID is a no-op;
// the boolean reports whether this call removed it.
func (s *Store) RemoveToast(id string) (bool, error) {
	return s.CloseToast(id, ReasonDismissed)
}

// CloseToast removes a toast, recording why.
func (s *Store) CloseToast(id string, reason Reason) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrStoreClosed
	}
	return s.removeToastLocked(id, reason), nil
}

// expire is the timer callback. It carries only the ID and filters the
// live list at fire time.
func (s *Store) expire(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.removeToastLocked(id, ReasonExpired) {
		s.logger.Debug("toast expired", "id", id)
	}
}

// removeToastLocked filters id out of the toast list. Caller must hold the lock.
func (s *Store) removeToastLocked(id string, reason Reason) bool {
	if !slices.ContainsFunc(s.state.Toasts, func(t model.Toast) bool { return t.ID == id }) {
		return false
	}

	s.applyLocked(func(st State) State {
		st.Toasts = slices.DeleteFunc(slices.Clone(st.Toasts), func(t model.Toast) bool {
			return t.ID == id
		})
		return st
	})

	if reason != ReasonExpired {
		s.timers.cancel(id)
	}

	s.notifyChange(ChangeEvent{Type: ChangeTypeToastRemoved, ID: id, Reason: reason, Version: s.version})
	return true
}

// ClearToasts removes every toast and returns how many were removed.
func (s *Store) ClearToasts() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStoreClosed
	}

	count := len(s.state.Toasts)
	if count == 0 {
		return 0, nil
	}

	for _, t := range s.state.Toasts {
		s.timers.cancel(t.ID)
	}
	s.applyLocked(func(st State) State {
		st.Toasts = make([]model.Toast, 0)
		return st
	})

	s.notifyChange(ChangeEvent{Type: ChangeTypeToastsCleared, Reason: ReasonCleared, Count: count, Version: s.version})
	return count, nil
}

// InvokeToastAction runs the action of a live toast. The toast stays.
func (s *Store) InvokeToastAction(id string) (bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, ErrStoreClosed
	}
	var action *model.Action
	for _, t := range s.state.Toasts {
		if t.ID == id {
			action = t.Action
			break
		}
	}
	s.mu.Unlock()

	if action == nil || action.Invoke == nil {
		return false, nil
	}
	s.invoke("toast action", id, action.Invoke)
	return true, nil
}

// Count returns the number of live toasts.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Toasts)
}

// Position returns the current toast anchor.
func (s *Store) Position() model.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Position
}

// SetToastPosition moves the toast anchor for every current and future toast.
func (s *Store) SetToastPosition(p model.Position) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidPosition, p)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	if s.state.Position == p {
		return nil
	}

	s.applyLocked(func(st State) State {
		st.Position = p
		return st
	})
	s.notifyChange(ChangeEvent{Type: ChangeTypePositionChanged, Version: s.version})
	return nil
}

// SetDefaultDuration changes the duration used for toasts added from now on.
func (s *Store) SetDefaultDuration(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultDuration = d
}

// Snapshot returns a copy of the committed state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State: State{
			Toasts:   slices.Clone(s.state.Toasts),
			Position: s.state.Position,
		},
		Version: s.version,
		TakenAt: s.now(),
	}
	if snap.Toasts == nil {
		snap.Toasts = make([]model.Toast, 0)
	}
	if s.state.Modal != nil {
		m := *s.state.Modal
		snap.Modal = &m
	}
	if s.state.Banner != nil {
		b := *s.state.Banner
		snap.Banner = &b
	}
	return snap
}

// Subscribe returns a channel that receives change events.
// Slow readers miss events rather than block writers; every event is a
// cue to re-read Snapshot, so a missed one is covered by the next.
func (s *Store) Subscribe() <-chan ChangeEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan ChangeEvent, 32)
	if s.closed {
		close(ch)
		return ch
	}
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscription.
func (s *Store) Unsubscribe(ch <-chan ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subscribers {
		if sub == ch {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Close stops pending toast timers and closes all subscriber channels.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	stopped := s.timers.stopAll()
	s.logger.Debug("store closed", "pending_timers", stopped)

	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
	return nil
}

// Closed reports whether Close has been called.
func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// notifyChange sends a change event to all subscribers (non-blocking).
// Caller must hold the lock.
func (s *Store) notifyChange(event ChangeEvent) {
	for _, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// Channel full, skip
		}
	}
}

// invoke runs a consumer callback outside the lock. A panicking callback
// is logged and swallowed so one widget cannot take the overlay layer down.
func (s *Store) invoke(what, id string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("overlay callback panicked", "callback", what, "id", id, "panic", r)
		}
	}()
	fn()
}

// Errors
var (
	ErrStoreClosed    = storeError("store is closed")
	ErrNoActiveModal  = storeError("no such active modal")
	ErrNoActiveBanner = storeError("no such active banner")
)

type storeError string

func (e storeError) Error() string {
	return string(e)
}
