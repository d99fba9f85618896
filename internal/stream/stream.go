package stream

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"topicscope/internal/delta"
	"topicscope/internal/logger"
	"topicscope/internal/store"
	"topicscope/pkg/logging"
	"topicscope/pkg/metrics"
)

// SnapshotSource is the read side of the topic store.
type SnapshotSource interface {
	Snapshot() map[string]store.TopicRecord
}

// Handler runs one delivery loop per connected consumer. Each loop owns a
// private previous snapshot and shares nothing with other loops except the
// store itself, so consumers cannot interfere with each other.
type Handler struct {
	source   SnapshotSource
	interval time.Duration
	logger   logger.Logger
}

func NewHandler(source SnapshotSource, interval time.Duration, log logger.Logger) *Handler {
	return &Handler{
		source:   source,
		interval: interval,
		logger:   log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/sse", h.Stream)
}

// Stream serves one consumer: every recompute interval it snapshots the
// store, diffs against the consumer's previous snapshot and pushes the
// delta as a single SSE message. Empty deltas are not sent. The loop ends
// when the client goes away; a first tick always carries the full state
// since the previous snapshot starts empty.
func (h *Handler) Stream(c *gin.Context) {
	consumerID := uuid.NewString()
	ctx := logging.WithConsumerID(c.Request.Context(), consumerID)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	metrics.StreamConsumersActive.Inc()
	defer metrics.StreamConsumersActive.Dec()

	h.logger.InfowCtx(ctx, "Consumer connected")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	previous := make(map[string]store.TopicRecord)

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			update, current := h.tick(previous)
			previous = current
			if update.Empty() {
				return true
			}
			c.SSEvent("message", update)
			metrics.IncDeltaSent(len(update.Updated), len(update.Removed))
			h.logger.DebugwCtx(ctx, "Delta pushed",
				"updated", len(update.Updated),
				"removed", len(update.Removed),
			)
			return true
		}
	})

	h.logger.InfowCtx(ctx, "Consumer disconnected")
}

func (h *Handler) tick(previous map[string]store.TopicRecord) (delta.Update, map[string]store.TopicRecord) {
	start := time.Now()
	current := h.source.Snapshot()
	metrics.ObserveSnapshotDuration(time.Since(start))

	return delta.Diff(previous, current), current
}
