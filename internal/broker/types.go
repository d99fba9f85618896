package broker

import (
	"context"
	"errors"
)

// ErrBusFailed marks a bus/session failure: the ingestion path is dead and
// will not recover on its own. It is distinct from a context cancellation
// so callers can tell degradation from normal shutdown.
var ErrBusFailed = errors.New("bus session failed")

// Observation is one raw event off the bus: which topic, how big the
// payload was, and when it arrived (milliseconds since epoch). Arrival
// order is the only ordering signal.
type Observation struct {
	Key        string
	Payload    []byte
	ReceivedAt int64
}

type HandlerFunc func(ctx context.Context, obs Observation) error

type Consumer interface {
	// Consume delivers observations to handler one at a time, strictly
	// serialized, until ctx is canceled or the bus session fails.
	Consume(ctx context.Context, handler HandlerFunc) error
	Close() error
}
