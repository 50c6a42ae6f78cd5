package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/horasett/payroll-engine/payroll"
)

const (
	// eventBuffer is how many notifications a slow client may lag behind
	// before further ones are dropped for it.
	eventBuffer = 16

	keepAliveInterval = 30 * time.Second
)

// Events streams configUpdated and recordsUpdated as server-sent events.
// Events carry no state; clients re-fetch what they display.
//
//	GET /api/events
//	: connected
//
//	event: recordsUpdated
//	data: {"topic":"recordsUpdated"}
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rc := http.NewResponseController(w)

	topics := make(chan payroll.Topic, eventBuffer)
	enqueue := func(t payroll.Topic) {
		select {
		case topics <- t:
		default:
			zerolog.Ctx(ctx).Warn().Str("topic", string(t)).Msg("event dropped for slow client")
		}
	}
	// Subscribe before the first flush so a client that saw ": connected"
	// never misses a later change.
	defer h.svc.Configs.Subscribe(enqueue)()
	defer h.svc.Records.Subscribe(enqueue)()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	if err := rc.Flush(); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("streaming unsupported")
		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case t := <-topics:
			fmt.Fprintf(w, "event: %s\ndata: {\"topic\":%q}\n\n", t, t)
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
