package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/jmylchreest/widgetdash/internal/store"
)

// streamEvent describes the change that triggered a patch.
type streamEvent struct {
	Type   string `json:"type"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// streamSignals is the datastar signal payload sent on every change.
type streamSignals struct {
	Overlays store.Snapshot `json:"overlays"`
	Event    *streamEvent   `json:"event,omitempty"`
	Client   string         `json:"client"`
}

// stream sends the overlay state as datastar signal patches: once on
// connect, then after every store change until the client goes away or
// the scope closes.
func (a *api) stream(w http.ResponseWriter, r *http.Request) {
	sc, ok := a.scope(w, r)
	if !ok {
		return
	}
	events, err := sc.Subscribe()
	if err != nil {
		a.fail(w, err)
		return
	}
	defer sc.Unsubscribe(events)

	clientID := uuid.NewString()
	logger := a.logger.With("client", clientID)
	logger.Debug("overlay stream opened")
	defer logger.Debug("overlay stream closed")

	sse := datastar.NewSSE(w, r)

	send := func(ev *streamEvent) bool {
		snap, err := sc.Snapshot()
		if err != nil {
			return false
		}
		data, err := json.Marshal(streamSignals{Overlays: snap, Event: ev, Client: clientID})
		if err != nil {
			logger.Error("failed to encode overlay signals", "error", err)
			return false
		}
		if err := sse.PatchSignals(data); err != nil {
			logger.Debug("overlay stream write failed", "error", err)
			return false
		}
		return true
	}

	if !send(nil) {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			se := &streamEvent{Type: ev.Type.String(), ID: ev.ID}
			if ev.Reason != store.ReasonNone {
				se.Reason = ev.Reason.String()
			}
			if !send(se) {
				return
			}
		}
	}
}
