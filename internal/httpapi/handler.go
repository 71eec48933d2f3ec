// Package httpapi exposes the overlay scope over HTTP: JSON endpoints for
// every overlay operation and a datastar Server-Sent-Events stream of the
// overlay state.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jmylchreest/widgetdash/internal/model"
	"github.com/jmylchreest/widgetdash/internal/overlay"
	"github.com/jmylchreest/widgetdash/internal/store"
	"github.com/jmylchreest/widgetdash/internal/theme"
)

// Errors returned in JSON bodies.
var (
	ErrNoSuchModal    = errors.New("modal is not the active one")
	ErrNoSuchBanner   = errors.New("banner is not the active one")
	ErrNotDismissible = errors.New("overlay is not dismissible")
	ErrBadRequest     = errors.New("invalid request body")
)

// Options configures the handler.
type Options struct {
	Logger *slog.Logger
	// Palette returns the active palette for /api/theme.css. Nil means the default.
	Palette func() *theme.Palette
}

type api struct {
	logger  *slog.Logger
	palette func() *theme.Palette
}

// NewHandler builds the router. sc is injected into every request context;
// a nil or closed scope makes every overlay endpoint answer 503.
func NewHandler(sc *overlay.Scope, opts Options) http.Handler {
	a := &api{logger: opts.Logger, palette: opts.Palette}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.palette == nil {
		a.palette = theme.Default
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(a.logRequests)
	r.Use(withScope(sc))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/theme.css", a.themeCSS)
		r.Get("/overlays", a.snapshot)
		r.Get("/overlays/stream", a.stream)

		r.Route("/toasts", func(r chi.Router) {
			r.Post("/", a.addToast)
			r.Delete("/", a.clearToasts)
			r.Delete("/{id}", a.removeToast)
		})

		r.Route("/modal", func(r chi.Router) {
			r.Post("/", a.showModal)
			r.Delete("/", a.closeModal)
			r.Post("/{id}/confirm", a.modalAction(modalConfirm))
			r.Post("/{id}/cancel", a.modalAction(modalCancel))
			r.Post("/{id}/dismiss", a.modalAction(modalDismiss))
		})

		r.Route("/banner", func(r chi.Router) {
			r.Post("/", a.showBanner)
			r.Delete("/", a.closeBanner)
			r.Post("/{id}/dismiss", a.dismissBanner)
		})

		r.Put("/position", a.setPosition)
	})

	return r
}

// withScope puts sc into the request context when it is set.
func withScope(sc *overlay.Scope) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sc != nil {
				r = r.WithContext(overlay.WithScope(r.Context(), sc))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *api) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		a.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// scope resolves the request's scope or writes a 503.
func (a *api) scope(w http.ResponseWriter, r *http.Request) (*overlay.Scope, bool) {
	sc, err := overlay.FromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return nil, false
	}
	return sc, true
}

// fail maps facade errors onto status codes.
func (a *api) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, overlay.ErrNotInitialized):
		writeError(w, http.StatusServiceUnavailable, err)
	case errors.Is(err, model.ErrInvalidPosition), errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, store.ErrNoActiveModal), errors.Is(err, ErrNoSuchModal),
		errors.Is(err, store.ErrNoActiveBanner), errors.Is(err, ErrNoSuchBanner):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, ErrNotDismissible):
		writeError(w, http.StatusConflict, err)
	default:
		a.logger.Error("overlay operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

func (a *api) themeCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write([]byte(a.palette().CSS()))
}

func (a *api) snapshot(w http.ResponseWriter, r *http.Request) {
	sc, ok := a.scope(w, r)
	if !ok {
		return
	}
	snap, err := sc.Snapshot()
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type toastRequest struct {
	Type    model.Kind `json:"type"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
	// DurationMS nil uses the default; 0 never expires.
	DurationMS *int64 `json:"duration_ms"`
}

func (a *api) addToast(w http.ResponseWriter, r *http.Request) {
	sc, ok := a.scope(w, r)
	if !ok {
		return
	}
	var req toastRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	if req.Message == "" && req.Title == "" {
		a.fail(w, badRequest("message is required"))
		return
	}

	spec := model.ToastSpec{Kind: req.Type, Title: req.Title, Message: req.Message}
	if req.DurationMS != nil {
		spec.Duration = model.After(time.Duration(*req.DurationMS) * time.Millisecond)
	}

	id, err := sc.AddToast(spec)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (a *api) removeToast(w http.ResponseWriter, r *http.Request) {
	sc, ok := a.scope(w, r)
	if !ok {
		return
	}
	removed, err := sc.RemoveToast(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (a *api) clearToasts(w http.ResponseWriter, r *http.Request) {
	sc, ok := a.scope(w, r)
	if !ok {
		return
	}
	n, err := sc.ClearToasts()
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"cleared": n})
}

type modalRequest struct {
	Type         model.Kind `json:"type"`
	Title        string     `json:"title"`
	Message      string     `json:"message"`
	Content      string     `json:"content"`
	ConfirmLabel string     `json:"confirm_label"`
	CancelLabel  string     `json:"cancel_label"`
	Dismissible  *bool      `json:"dismissible"`
}

func (a *api) showModal(w http.ResponseWriter, r *http.Request) {
	sc, ok := a.scope(w, r)
	if !ok {
		return
	}
	var req modalRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	if req.Title == "" {
		a.fail(w, badRequest("title is required"))
		return
	}

	// Outcomes reach HTTP clients as modal_closed events on the stream.
	id, err := sc.ShowModal(model.ModalSpec{
		Kind:         req.Type,
		Title:        req.Title,
		Message:      req.Message,
		Content:      req.Content,
		ConfirmLabel: req.ConfirmLabel,
		CancelLabel:  req.CancelLabel,
		Dismissible:  req.Dismissible,
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (a *api) closeModal(w http.ResponseWriter, r *http.Request) {
	sc, ok := a.scope(w, r)
	if !ok {
		return
	}
	if err := sc.CloseModal(); err != nil {
		a.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type modalOp int

const (
	modalConfirm modalOp = iota
	modalCancel
	modalDismiss
)

func (a *api) modalAction(op modalOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, ok := a.scope(w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")

		snap, err := sc.Snapshot()
		if err != nil {
			a.fail(w, err)
			return
		}
		if snap.Modal == nil || snap.Modal.ID != id {
			a.fail(w, ErrNoSuchModal)
			return
		}

		var done bool
		switch op {
		case modalConfirm:
			done, err = sc.ConfirmModal(id)
		case modalCancel:
			done, err = sc.CancelModal(id)
		case modalDismiss:
			done, err = sc.DismissModal(id)
			if err == nil && !done && !snap.Modal.Dismissible {
				err = ErrNotDismissible
			}
		}
		if err != nil {
			a.fail(w, err)
			return
		}
		if !done {
			// Replaced between the snapshot and the call
			a.fail(w, ErrNoSuchModal)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

type bannerRequest struct {
	Type        model.Kind `json:"type"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	Dismissible *bool      `json:"dismissible"`
}

func (a *api) showBanner(w http.ResponseWriter, r *http.Request) {
	sc, ok := a.scope(w, r)
	if !ok {
		return
	}
	var req bannerRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	if req.Message == "" {
		a.fail(w, badRequest("message is required"))
		return
	}

	id, err := sc.ShowBanner(model.BannerSpec{
		Kind:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Dismissible: req.Dismissible,
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (a *api) closeBanner(w http.ResponseWriter, r *http.Request) {
	sc, ok := a.scope(w, r)
	if !ok {
		return
	}
	if err := sc.CloseBanner(); err != nil {
		a.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) dismissBanner(w http.ResponseWriter, r *http.Request) {
	sc, ok := a.scope(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	snap, err := sc.Snapshot()
	if err != nil {
		a.fail(w, err)
		return
	}
	if snap.Banner == nil || snap.Banner.ID != id {
		a.fail(w, ErrNoSuchBanner)
		return
	}
	if !snap.Banner.Dismissible {
		a.fail(w, ErrNotDismissible)
		return
	}

	done, err := sc.DismissBanner(id)
	if err != nil {
		a.fail(w, err)
		return
	}
	if !done {
		a.fail(w, ErrNoSuchBanner)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type positionRequest struct {
	Position string `json:"position"`
}

func (a *api) setPosition(w http.ResponseWriter, r *http.Request) {
	sc, ok := a.scope(w, r)
	if !ok {
		return
	}
	var req positionRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	p, err := model.ParsePosition(req.Position)
	if err == nil {
		err = sc.SetToastPosition(p)
	}
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"position": string(p)})
}
