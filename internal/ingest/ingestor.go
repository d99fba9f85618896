package ingest

import (
	"context"
	"sync"
	"time"

	"topicscope/internal/broker"
	"topicscope/internal/decode"
	"topicscope/internal/logger"
	"topicscope/internal/store"
	"topicscope/pkg/metrics"
)

// Ingestor is the single writer of the topic store: it decodes each bus
// observation and upserts the topic's record. There is exactly one Run per
// process; ingestion is strictly serialized.
type Ingestor struct {
	store   *store.Store
	decoder *decode.Registry
	logger  logger.Logger

	mu     sync.Mutex
	runErr error
}

// New creates an ingestor. decoder may be nil, in which case records carry
// no decoded content.
func New(st *store.Store, decoder *decode.Registry, log logger.Logger) *Ingestor {
	return &Ingestor{
		store:   st,
		decoder: decoder,
		logger:  log,
	}
}

// Run consumes observations until ctx is canceled or the bus session
// fails. A session failure is recorded so the health endpoint can report
// the service as degraded while delivery loops keep serving the last-known
// state.
func (i *Ingestor) Run(ctx context.Context, consumer broker.Consumer) error {
	err := consumer.Consume(ctx, i.Handle)
	if err != nil && ctx.Err() == nil {
		i.mu.Lock()
		i.runErr = err
		i.mu.Unlock()
	}
	return err
}

// Handle ingests one observation. It never returns an error: decode
// problems are converted to placeholder strings upstream of the store.
func (i *Ingestor) Handle(ctx context.Context, obs broker.Observation) error {
	start := time.Now()

	var decoded string
	if i.decoder != nil {
		decoded = i.decoder.Decode(obs.Key, obs.Payload)
	}

	i.store.Ingest(obs.Key, int64(len(obs.Payload)), obs.ReceivedAt, decoded)

	metrics.ObservationsIngestedTotal.WithLabelValues("ok").Inc()
	metrics.SetActiveTopics(i.store.Len())
	metrics.ObserveIngestDuration(time.Since(start))

	i.logger.DebugwCtx(ctx, "Observation ingested",
		"topic", obs.Key,
		"size_bytes", len(obs.Payload),
	)
	return nil
}

// IngestionErr reports the bus failure that stopped ingestion, if any.
func (i *Ingestor) IngestionErr() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.runErr
}
