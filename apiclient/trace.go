package apiclient

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// TraceEvent describes one dispatched HTTP request. Header holds the resolved
// outgoing headers with credentials redacted.
type TraceEvent struct {
	RequestID string
	Method    string
	URL       string
	Header    http.Header
	Attempt   int
	Status    int
	Duration  time.Duration
	Err       error
}

// Tracer observes every dispatched request.
type Tracer func(TraceEvent)

// LogTracer writes trace events to logger at debug level.
func LogTracer(logger zerolog.Logger) Tracer {
	return func(ev TraceEvent) {
		e := logger.Debug()
		if ev.Err != nil {
			e = logger.Warn().Err(ev.Err)
		}
		e.Str("request_id", ev.RequestID).
			Str("method", ev.Method).
			Str("url", ev.URL).
			Int("attempt", ev.Attempt).
			Int("status", ev.Status).
			Dur("duration", ev.Duration).
			Interface("headers", ev.Header).
			Msg("api request")
	}
}

func redact(h http.Header) http.Header {
	out := h.Clone()
	if out.Get("Authorization") != "" {
		out.Set("Authorization", "Bearer [redacted]")
	}
	return out
}
