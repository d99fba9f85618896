package store

import (
	"sync"

	"topicscope/internal/rate"
)

// TopicRecord is the latest known state of one topic. All fields are plain
// values so records compare with == and snapshot copies are fully isolated
// from the live map.
type TopicRecord struct {
	Key            string  `json:"key"`
	SizeBytes      int64   `json:"size_bytes"`
	ReceivedAt     int64   `json:"received_at"`
	DecodedContent string  `json:"decoded_content,omitempty"`
	EstimatedHz    float64 `json:"estimated_hz"`
}

// Store is the concurrent topic-state map: one record per key, last write
// wins. A single ingestion stream writes; any number of delivery loops read
// via Snapshot. The store owns the rate estimator, so the per-key interval
// history is only ever touched under the write lock.
type Store struct {
	mu        sync.RWMutex
	records   map[string]TopicRecord
	estimator *rate.Estimator
}

func New(windowSize int) *Store {
	return &Store{
		records:   make(map[string]TopicRecord),
		estimator: rate.NewEstimator(windowSize),
	}
}

// Ingest records one observation for key, replacing any prior record. It
// cannot fail: decode problems arrive already stringified in decoded and
// out-of-order timestamps are absorbed by the estimator.
func (s *Store) Ingest(key string, sizeBytes int64, receivedAt int64, decoded string) TopicRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := TopicRecord{
		Key:            key,
		SizeBytes:      sizeBytes,
		ReceivedAt:     receivedAt,
		DecodedContent: decoded,
		EstimatedHz:    s.estimator.Observe(key, receivedAt),
	}
	s.records[key] = rec
	return rec
}

// Snapshot returns a point-in-time copy of every record. The caller owns
// the returned map; mutating it never affects the live store or any other
// snapshot.
func (s *Store) Snapshot() map[string]TopicRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(map[string]TopicRecord, len(s.records))
	for key, rec := range s.records {
		snap[key] = rec
	}
	return snap
}

// Get returns the current record for key.
func (s *Store) Get(key string) (TopicRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[key]
	return rec, ok
}

// Delete removes the record for key and reports whether it was present.
// The estimator history is deliberately retained: a topic that reappears
// resumes its previous rate window instead of restarting from zero.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.records[key]
	if ok {
		delete(s.records, key)
	}
	return ok
}

// Len reports the number of topics currently tracked.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
