package rate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObserveFirstArrivalIsZero(t *testing.T) {
	e := NewEstimator(20)

	hz := e.Observe("room/temp", 1000)

	assert.Equal(t, 0.0, hz)
	assert.Equal(t, 0, e.WindowLen("room/temp"))
}

func TestObserveSteadyStream(t *testing.T) {
	e := NewEstimator(20)

	// 100 ms apart, so 10 events per second.
	var hz float64
	for _, ts := range []int64{1000, 1100, 1200, 1300} {
		hz = e.Observe("room/temp", ts)
	}

	assert.InDelta(t, 10.0, hz, 1e-9)
	assert.Equal(t, 3, e.WindowLen("room/temp"))
}

func TestObserveWindowIsBounded(t *testing.T) {
	e := NewEstimator(5)

	ts := int64(0)
	for i := 0; i < 50; i++ {
		ts += 10
		e.Observe("k", ts)
	}

	assert.Equal(t, 5, e.WindowLen("k"))
}

func TestObserveEvictsOldestGap(t *testing.T) {
	e := NewEstimator(2)

	e.Observe("k", 0)
	e.Observe("k", 1000) // gap 1000
	e.Observe("k", 1100) // gap 100
	hz := e.Observe("k", 1200) // gap 100, the 1000 ms gap is evicted

	assert.InDelta(t, 10.0, hz, 1e-9)
}

func TestObserveOutOfOrderTimestamp(t *testing.T) {
	e := NewEstimator(20)

	e.Observe("k", 1000)
	hz := e.Observe("k", 900)

	// No gap is recorded, but lastSeen follows the observation.
	assert.Equal(t, 0.0, hz)
	assert.Equal(t, 0, e.WindowLen("k"))

	// The next in-order arrival is measured against 900, not 1000.
	hz = e.Observe("k", 1000)
	assert.InDelta(t, 10.0, hz, 1e-9)
}

func TestObserveDuplicateTimestamp(t *testing.T) {
	e := NewEstimator(20)

	e.Observe("k", 1000)
	hz := e.Observe("k", 1000)

	assert.Equal(t, 0.0, hz)
	assert.Equal(t, 0, e.WindowLen("k"))
}

func TestObserveZeroWindowSize(t *testing.T) {
	e := NewEstimator(0)

	assert.NotPanics(t, func() {
		for _, ts := range []int64{10, 20, 30, 40} {
			hz := e.Observe("k", ts)
			assert.Equal(t, 0.0, hz)
		}
	})
	assert.Equal(t, 0, e.WindowLen("k"))
}

func TestObserveNegativeWindowSizeTreatedAsZero(t *testing.T) {
	e := NewEstimator(-3)

	e.Observe("k", 10)
	hz := e.Observe("k", 20)

	assert.Equal(t, 0.0, hz)
}

func TestObserveKeysAreIndependent(t *testing.T) {
	e := NewEstimator(20)

	e.Observe("fast", 0)
	e.Observe("slow", 0)
	fast := e.Observe("fast", 100)
	slow := e.Observe("slow", 2000)

	assert.InDelta(t, 10.0, fast, 1e-9)
	assert.InDelta(t, 0.5, slow, 1e-9)
}

func TestWindowLenUnknownKey(t *testing.T) {
	e := NewEstimator(20)

	assert.Equal(t, 0, e.WindowLen("never-seen"))
}
