package decode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"

	"topicscope/internal/logger"
	"topicscope/pkg/metrics"
)

// Func turns a raw payload into a human-readable string. Handlers are
// selected by topic key.
type Func func(key string, payload []byte) (string, error)

// Registry maps topic keys to decoder functions. Decoding never fails from
// the caller's point of view: a handler error or a missing handler becomes
// a descriptive string that is stored in the record like any other content.
type Registry struct {
	handlers map[string]Func
	fallback Func
	logger   logger.Logger
}

func NewRegistry(log logger.Logger) *Registry {
	return &Registry{
		handlers: make(map[string]Func),
		logger:   log,
	}
}

// Register installs fn as the decoder for key, replacing any previous one.
func (r *Registry) Register(key string, fn Func) {
	r.handlers[key] = fn
}

// RegisterFallback installs fn for keys with no dedicated handler.
func (r *Registry) RegisterFallback(fn Func) {
	r.fallback = fn
}

// Decode renders payload for key. The result is HTML-escaped since it ends
// up inside the live page's table cells.
func (r *Registry) Decode(key string, payload []byte) string {
	fn, ok := r.handlers[key]
	if !ok {
		fn = r.fallback
	}
	if fn == nil {
		r.logger.Warnw("No decode handler for topic", "topic", key)
		metrics.DecodeResultsTotal.WithLabelValues("no_handler").Inc()
		return html.EscapeString(fmt.Sprintf("no handler registered for %s", key))
	}

	decoded, err := fn(key, payload)
	if err != nil {
		r.logger.Errorw("Decode failed",
			"topic", key,
			"error", err,
		)
		metrics.DecodeResultsTotal.WithLabelValues("error").Inc()
		return html.EscapeString(fmt.Sprintf("error decoding message on %s: %v", key, err))
	}

	metrics.DecodeResultsTotal.WithLabelValues("ok").Inc()
	return html.EscapeString(decoded)
}

// JSON is a ready-made decoder for topics carrying JSON payloads; it
// compacts the document so large payloads render on one line.
func JSON(key string, payload []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, payload); err != nil {
		return "", fmt.Errorf("invalid JSON payload: %w", err)
	}
	return buf.String(), nil
}
