package rate

// Estimator derives a smoothed arrival frequency per topic key from a
// bounded sliding window of inter-arrival gaps. It keeps one history per
// key and is not safe for concurrent use; callers serialize access
// (the store ingests from a single writer under its own lock).
type Estimator struct {
	windowSize int
	histories  map[string]*intervalHistory
}

type intervalHistory struct {
	lastSeen int64
	deltas   *window
}

// NewEstimator creates an estimator with the given window size. A window
// size of zero disables estimation: Observe always returns 0 Hz.
func NewEstimator(windowSize int) *Estimator {
	if windowSize < 0 {
		windowSize = 0
	}
	return &Estimator{
		windowSize: windowSize,
		histories:  make(map[string]*intervalHistory),
	}
}

// Observe records one arrival at timestampMs (milliseconds since epoch) for
// key and returns the updated frequency estimate in events per second.
//
// Out-of-order or duplicate timestamps are accepted but do not contribute a
// gap to the window; lastSeen is still moved so a later in-order arrival is
// measured against the most recent observation.
func (e *Estimator) Observe(key string, timestampMs int64) float64 {
	h, ok := e.histories[key]
	if !ok {
		h = &intervalHistory{
			lastSeen: timestampMs,
			deltas:   newWindow(e.windowSize),
		}
		e.histories[key] = h
		return 0
	}

	if timestampMs > h.lastSeen {
		h.deltas.push(timestampMs - h.lastSeen)
	}
	h.lastSeen = timestampMs

	return h.deltas.hz()
}

// WindowLen reports the number of gaps currently held for key, 0 for
// unknown keys.
func (e *Estimator) WindowLen(key string) int {
	h, ok := e.histories[key]
	if !ok {
		return 0
	}
	return h.deltas.len()
}

// window is a fixed-capacity FIFO of inter-arrival gaps in milliseconds,
// kept as a ring so push and evict are O(1).
type window struct {
	buf   []int64
	head  int
	count int
	sum   int64
}

func newWindow(capacity int) *window {
	return &window{buf: make([]int64, capacity)}
}

func (w *window) push(deltaMs int64) {
	if len(w.buf) == 0 {
		return
	}
	if w.count == len(w.buf) {
		w.sum -= w.buf[w.head]
		w.buf[w.head] = deltaMs
		w.head = (w.head + 1) % len(w.buf)
	} else {
		w.buf[(w.head+w.count)%len(w.buf)] = deltaMs
		w.count++
	}
	w.sum += deltaMs
}

func (w *window) len() int {
	return w.count
}

// hz converts the mean gap into events per second. An empty window or a
// zero mean (duplicate timestamps filling the window) yields 0.
func (w *window) hz() float64 {
	if w.count == 0 || w.sum == 0 {
		return 0
	}
	meanMs := float64(w.sum) / float64(w.count)
	return 1000.0 / meanMs
}
