package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ObservationsIngestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_observations_ingested_total",
			Help: "Total number of bus observations ingested into the topic store (count)",
		},
		[]string{"status"},
	)

	DecodeResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_decode_results_total",
			Help: "Total number of payload decode attempts by outcome (count)",
		},
		[]string{"status"},
	)

	ActiveTopics = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "monitor_active_topics",
			Help: "Number of topics currently tracked by the store (count)",
		},
	)

	IngestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "monitor_ingest_duration_ms",
			Help:    "Duration of one ingest (decode plus store upsert) in milliseconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100},
		},
	)

	StreamConsumersActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "stream_consumers_active",
			Help: "Number of currently connected delta stream consumers (count)",
		},
	)

	StreamDeltasSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_deltas_sent_total",
			Help: "Total number of non-empty delta messages pushed to consumers (count)",
		},
	)

	StreamRecordsUpdatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_records_updated_total",
			Help: "Total number of updated records carried by delta messages (count)",
		},
	)

	StreamRecordsRemovedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_records_removed_total",
			Help: "Total number of removed keys carried by delta messages (count)",
		},
	)

	SnapshotDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stream_snapshot_duration_ms",
			Help:    "Duration of one store snapshot copy in milliseconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100},
		},
	)

	BusFetchErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bus_fetch_errors_total",
			Help: "Total number of fetch errors from the bus before backoff gave up (count)",
		},
	)

	RetryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retry_attempts_total",
			Help: "Total number of retry attempts (count)",
		},
		[]string{"service", "operation"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests checked against rate limit (count)",
		},
		[]string{"status"},
	)
)

func RegisterMonitorMetrics() {
	prometheus.MustRegister(ObservationsIngestedTotal)
	prometheus.MustRegister(DecodeResultsTotal)
	prometheus.MustRegister(ActiveTopics)
	prometheus.MustRegister(IngestDuration)
}

func RegisterStreamMetrics() {
	prometheus.MustRegister(StreamConsumersActive)
	prometheus.MustRegister(StreamDeltasSentTotal)
	prometheus.MustRegister(StreamRecordsUpdatedTotal)
	prometheus.MustRegister(StreamRecordsRemovedTotal)
	prometheus.MustRegister(SnapshotDuration)
}

func RegisterBrokerMetrics() {
	prometheus.MustRegister(BusFetchErrorsTotal)
	prometheus.MustRegister(RetryAttemptsTotal)
}

func RegisterHTTPMetrics() {
	prometheus.MustRegister(RateLimitRequestsTotal)
}

func SetActiveTopics(count int) {
	ActiveTopics.Set(float64(count))
}

func ObserveIngestDuration(duration time.Duration) {
	IngestDuration.Observe(float64(duration.Microseconds()) / 1000.0)
}

func ObserveSnapshotDuration(duration time.Duration) {
	SnapshotDuration.Observe(float64(duration.Microseconds()) / 1000.0)
}

func IncDeltaSent(updated, removed int) {
	StreamDeltasSentTotal.Inc()
	StreamRecordsUpdatedTotal.Add(float64(updated))
	StreamRecordsRemovedTotal.Add(float64(removed))
}
