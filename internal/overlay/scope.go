// Package overlay is the single access point consumers use to raise and
// close toasts, the modal and the banner.
//
// A Scope is opened once per running application, injected into a
// context.Context, and looked up by any consumer holding that context.
// Every method is safe for concurrent use. Calls on a nil or closed Scope
// fail with ErrNotInitialized instead of silently doing nothing.
package overlay

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jmylchreest/widgetdash/internal/model"
	"github.com/jmylchreest/widgetdash/internal/store"
)

var (
	// ErrNotInitialized is returned when the facade is used without an open scope.
	ErrNotInitialized = errors.New("overlay scope not initialized")
	// ErrNestedScope is the panic value when a context already carries a scope.
	ErrNestedScope = errors.New("overlay scope already present in context")
)

// Options configures a new Scope.
type Options struct {
	// DefaultDuration applies to toasts that do not set one. Zero or
	// negative means model.DefaultToastDuration.
	DefaultDuration time.Duration
	// Position is the initial toast anchor. Empty means bottom-right.
	Position model.Position
	Logger   *slog.Logger
}

// Scope owns the overlay store for one application instance.
type Scope struct {
	store  *store.Store
	logger *slog.Logger
}

// Open creates a scope and its store.
func Open(opts Options) *Scope {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	storeOpts := []store.Option{store.WithLogger(logger)}
	storeOpts = append(storeOpts, store.WithDefaultDuration(defaultDuration(opts.DefaultDuration)))
	if opts.Position != "" {
		storeOpts = append(storeOpts, store.WithPosition(opts.Position))
	}

	logger.Debug("overlay scope opened", "position", opts.Position)
	return &Scope{
		store:  store.NewStore(storeOpts...),
		logger: logger,
	}
}

// Close stops pending timers and ends every subscription. Later calls on
// the scope return ErrNotInitialized.
func (sc *Scope) Close() error {
	if sc == nil || sc.store == nil {
		return nil
	}
	return sc.store.Close()
}

type scopeKey struct{}

// WithScope returns a context carrying sc. It panics with ErrNestedScope
// if ctx already carries a scope.
func WithScope(ctx context.Context, sc *Scope) context.Context {
	if _, ok := ctx.Value(scopeKey{}).(*Scope); ok {
		panic(ErrNestedScope)
	}
	return context.WithValue(ctx, scopeKey{}, sc)
}

// FromContext returns the scope carried by ctx.
func FromContext(ctx context.Context) (*Scope, error) {
	if ctx == nil {
		return nil, ErrNotInitialized
	}
	sc, ok := ctx.Value(scopeKey{}).(*Scope)
	if !ok || sc == nil {
		return nil, ErrNotInitialized
	}
	return sc, nil
}

// MustFromContext is FromContext for wiring code; it panics when the
// context carries no scope.
func MustFromContext(ctx context.Context) *Scope {
	sc, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return sc
}

// live returns the backing store or ErrNotInitialized.
func (sc *Scope) live() (*store.Store, error) {
	if sc == nil || sc.store == nil || sc.store.Closed() {
		return nil, ErrNotInitialized
	}
	return sc.store, nil
}

// translate maps a store shutdown that raced with the call.
func translate(err error) error {
	if errors.Is(err, store.ErrStoreClosed) {
		return ErrNotInitialized
	}
	return err
}

// defaultDuration maps an unset default to model.DefaultToastDuration.
// Persistence is chosen per toast with model.Persistent.
func defaultDuration(d time.Duration) time.Duration {
	if d <= 0 {
		return model.DefaultToastDuration
	}
	return d
}
