package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"llmbridge/internal/manager"
	"llmbridge/pkg/types"
)

// eventsHandler serves GET /v1/events as Server-Sent Events. Each event is
// one "data:" line holding the JSON encoding of a types.Event. A newer
// stream replaces this one; the handler then returns.
//
// @Summary      Subscribe to generation events
// @Description  Streams tokens, then one complete or error event per session. Opening a new stream ends the previous one.
// @Tags         events
// @Produce      text/event-stream
// @Success      200  {string}  string  "event stream"
// @Router       /v1/events [get]
func eventsHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fl, ok := w.(http.Flusher)
		if !ok {
			writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
			return
		}
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()

		// Attach before the headers go out so a client that has seen the
		// response is subscribed to every event emitted afterwards.
		sink := manager.NewChanSink(eventSinkBuffer)
		em := svc.Events()
		em.Attach(sink)
		defer em.Detach(sink)
		// Closed before the detach is queued: the delivery goroutine must not
		// stay blocked on a sink nobody reads any more.
		defer sink.Close()
		eventStreams.Inc()
		defer eventStreams.Dec()

		h := w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		fl.Flush()

		out := io.Writer(w)
		if requestLogLevel(r) >= LevelDebug {
			out = io.MultiWriter(w, &loggingLineWriter{})
		}
		requestEvent(r, LevelInfo, false).Msg("event stream open")
		defer requestEvent(r, LevelInfo, false).Msg("event stream closed")

		var tick <-chan time.Time
		if eventKeepAlive > 0 {
			t := time.NewTicker(eventKeepAlive)
			defer t.Stop()
			tick = t.C
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-sink.Done():
				drain(out, fl, sink)
				return
			case ev := <-sink.Events():
				if err := writeEvent(out, ev); err != nil {
					return
				}
				fl.Flush()
			case <-tick:
				if _, err := io.WriteString(w, ": keep-alive\n\n"); err != nil {
					return
				}
				fl.Flush()
			}
		}
	}
}

// drain writes events the sink buffered before it was replaced.
func drain(out io.Writer, fl http.Flusher, sink *manager.ChanSink) {
	for {
		select {
		case ev := <-sink.Events():
			if writeEvent(out, ev) != nil {
				return
			}
		default:
			fl.Flush()
			return
		}
	}
}

func writeEvent(out io.Writer, ev types.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "data: %s\n\n", b)
	return err
}
