// Package model defines the overlay data structures shared by the store,
// the facade and every renderer.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultToastDuration is applied when a ToastSpec leaves Duration unset.
const DefaultToastDuration = 5 * time.Second

// DefaultConfirmLabel is the confirm button label when a modal sets none.
const DefaultConfirmLabel = "OK"

// Kind is the overlay type tag. Unknown values are kept as-is so consumers
// can round-trip them, but every renderer resolves them through Resolve.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
	// KindConfirm only has its own style on modals.
	KindConfirm Kind = "confirm"
)

// Kinds returns the toast and banner kinds in display order.
func Kinds() []Kind {
	return []Kind{KindSuccess, KindError, KindWarning, KindInfo}
}

// Known reports whether k is one of the tagged variants.
func (k Kind) Known() bool {
	switch k {
	case KindSuccess, KindError, KindWarning, KindInfo, KindConfirm:
		return true
	default:
		return false
	}
}

// Resolve maps k onto the style variant a renderer should use.
// allowConfirm is true for modals only; anything unrecognised becomes info.
func (k Kind) Resolve(allowConfirm bool) Kind {
	switch k {
	case KindSuccess, KindError, KindWarning, KindInfo:
		return k
	case KindConfirm:
		if allowConfirm {
			return k
		}
		return KindInfo
	default:
		return KindInfo
	}
}

// String returns the raw tag.
func (k Kind) String() string {
	return string(k)
}

// Action is an optional button on a toast or banner.
type Action struct {
	Label  string `json:"label" yaml:"label"`
	Invoke func() `json:"-" yaml:"-"`
}

// Toast is a transient notification in the toast stack.
type Toast struct {
	ID        string        `json:"id" yaml:"id"`
	Kind      Kind          `json:"type" yaml:"type"`
	Title     string        `json:"title,omitempty" yaml:"title,omitempty"`
	Message   string        `json:"message" yaml:"message"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Action    *Action       `json:"action,omitempty" yaml:"action,omitempty"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
	ExpiresAt time.Time     `json:"expires_at,omitzero" yaml:"expires_at,omitempty"` // Zero means persistent
}

// Persistent reports whether the toast is only removed by dismissal.
func (t *Toast) Persistent() bool {
	return t.Duration <= 0
}

// Remaining returns the time left before expiry, or 0 for persistent or
// already-due toasts.
func (t *Toast) Remaining(now time.Time) time.Duration {
	if t.Persistent() || t.ExpiresAt.IsZero() {
		return 0
	}
	if d := t.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// ToastSpec is what a consumer passes to AddToast.
type ToastSpec struct {
	Kind    Kind
	Title   string
	Message string
	// Duration nil means DefaultToastDuration; zero or negative means persistent.
	Duration *time.Duration
	Action   *Action
}

// After returns a duration pointer for ToastSpec.Duration.
func After(d time.Duration) *time.Duration {
	return &d
}

// Persistent returns a ToastSpec.Duration that never expires.
func Persistent() *time.Duration {
	return After(0)
}

// Modal is the single blocking dialog.
type Modal struct {
	ID           string `json:"id" yaml:"id"`
	Kind         Kind   `json:"type" yaml:"type"`
	Title        string `json:"title" yaml:"title"`
	Message      string `json:"message" yaml:"message"`
	Content      string `json:"content,omitempty" yaml:"content,omitempty"`
	ConfirmLabel string `json:"confirm_label" yaml:"confirm_label"`
	CancelLabel  string `json:"cancel_label,omitempty" yaml:"cancel_label,omitempty"`
	Dismissible  bool   `json:"dismissible" yaml:"dismissible"`
	OnConfirm    func() `json:"-" yaml:"-"`
	OnCancel     func() `json:"-" yaml:"-"`
}

// HasCancel reports whether the dialog offers a cancel button.
func (m *Modal) HasCancel() bool {
	return m.CancelLabel != ""
}

// ModalSpec is what a consumer passes to ShowModal.
type ModalSpec struct {
	Kind         Kind
	Title        string
	Message      string
	Content      string
	ConfirmLabel string
	CancelLabel  string
	Dismissible  *bool // nil means true
	OnConfirm    func()
	OnCancel     func()
}

// Banner is the single full-width notice.
type Banner struct {
	ID          string  `json:"id" yaml:"id"`
	Kind        Kind    `json:"type" yaml:"type"`
	Title       string  `json:"title,omitempty" yaml:"title,omitempty"`
	Message     string  `json:"message" yaml:"message"`
	Action      *Action `json:"action,omitempty" yaml:"action,omitempty"`
	Dismissible bool    `json:"dismissible" yaml:"dismissible"`
}

// BannerSpec is what a consumer passes to ShowBanner.
type BannerSpec struct {
	Kind        Kind
	Title       string
	Message     string
	Action      *Action
	Dismissible *bool // nil means true
}

// Bool returns a pointer for the optional Dismissible fields.
func Bool(b bool) *bool {
	return &b
}

// Position is the screen anchor of the toast stack.
type Position string

const (
	PositionTopLeft      Position = "top-left"
	PositionTopCenter    Position = "top-center"
	PositionTopRight     Position = "top-right"
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomCenter Position = "bottom-center"
	PositionBottomRight  Position = "bottom-right"
)

// DefaultPosition is the anchor a fresh store starts with.
const DefaultPosition = PositionBottomRight

// ErrInvalidPosition is returned for anchors outside the six known values.
var ErrInvalidPosition = errors.New("invalid toast position")

// Positions returns all anchors in picker order.
func Positions() []Position {
	return []Position{
		PositionTopLeft,
		PositionTopCenter,
		PositionTopRight,
		PositionBottomLeft,
		PositionBottomCenter,
		PositionBottomRight,
	}
}

// ParsePosition validates s as an anchor.
func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	return p, nil
}

// Valid reports whether p is one of the six anchors.
func (p Position) Valid() bool {
	for _, v := range Positions() {
		if p == v {
			return true
		}
	}
	return false
}

// IsBottom reports whether the stack grows upward from the bottom edge.
func (p Position) IsBottom() bool {
	return strings.HasPrefix(string(p), "bottom-")
}

// Horizontal returns "left", "center" or "right".
func (p Position) Horizontal() string {
	_, h, ok := strings.Cut(string(p), "-")
	if !ok {
		return "right"
	}
	return h
}
