package delta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topicscope/internal/store"
)

func rec(key string, receivedAt int64) store.TopicRecord {
	return store.TopicRecord{Key: key, SizeBytes: 8, ReceivedAt: receivedAt}
}

func TestDiffBothEmpty(t *testing.T) {
	u := Diff(nil, nil)

	assert.True(t, u.Empty())
	assert.Empty(t, u.Updated)
	assert.Empty(t, u.Removed)
}

func TestDiffInitialSnapshot(t *testing.T) {
	current := map[string]store.TopicRecord{
		"a": rec("a", 10),
		"b": rec("b", 20),
	}

	u := Diff(map[string]store.TopicRecord{}, current)

	assert.Len(t, u.Updated, 2)
	assert.Empty(t, u.Removed)
}

func TestDiffIdempotent(t *testing.T) {
	snap := map[string]store.TopicRecord{
		"a": rec("a", 10),
		"b": rec("b", 20),
	}

	u := Diff(snap, snap)

	assert.True(t, u.Empty())
}

func TestDiffChangedRecord(t *testing.T) {
	previous := map[string]store.TopicRecord{"a": rec("a", 10)}
	current := map[string]store.TopicRecord{"a": rec("a", 30)}

	u := Diff(previous, current)

	require.Len(t, u.Updated, 1)
	assert.Equal(t, int64(30), u.Updated[0].ReceivedAt)
	assert.Empty(t, u.Removed)
}

func TestDiffReceivedAtAloneIsAChange(t *testing.T) {
	// Two identical payloads still differ by arrival time, so the consumer
	// sees every refresh.
	prev := store.TopicRecord{Key: "a", SizeBytes: 8, ReceivedAt: 10, EstimatedHz: 1}
	cur := prev
	cur.ReceivedAt = 11

	u := Diff(
		map[string]store.TopicRecord{"a": prev},
		map[string]store.TopicRecord{"a": cur},
	)

	assert.Len(t, u.Updated, 1)
}

func TestDiffRemoval(t *testing.T) {
	previous := map[string]store.TopicRecord{
		"a": rec("a", 10),
		"b": rec("b", 20),
	}
	current := map[string]store.TopicRecord{"a": rec("a", 10)}

	u := Diff(previous, current)

	assert.Empty(t, u.Updated)
	assert.Equal(t, []string{"b"}, u.Removed)
}

func TestDiffNoKeyInBothLists(t *testing.T) {
	previous := map[string]store.TopicRecord{
		"stays":   rec("stays", 10),
		"changes": rec("changes", 10),
		"goes":    rec("goes", 10),
	}
	current := map[string]store.TopicRecord{
		"stays":   rec("stays", 10),
		"changes": rec("changes", 99),
		"arrives": rec("arrives", 50),
	}

	u := Diff(previous, current)

	updatedKeys := make(map[string]bool)
	for _, r := range u.Updated {
		updatedKeys[r.Key] = true
	}
	assert.Len(t, u.Updated, 2)
	assert.True(t, updatedKeys["changes"])
	assert.True(t, updatedKeys["arrives"])
	for _, key := range u.Removed {
		assert.False(t, updatedKeys[key])
	}
	assert.Equal(t, []string{"goes"}, u.Removed)
}

func TestDiffDoesNotMutateInputs(t *testing.T) {
	previous := map[string]store.TopicRecord{"a": rec("a", 10)}
	current := map[string]store.TopicRecord{"b": rec("b", 20)}

	Diff(previous, current)

	assert.Len(t, previous, 1)
	assert.Len(t, current, 1)
	assert.Equal(t, rec("a", 10), previous["a"])
	assert.Equal(t, rec("b", 20), current["b"])
}

func TestDiffLifecycle(t *testing.T) {
	// empty -> topic appears -> topic purged, as one consumer would see it.
	empty := map[string]store.TopicRecord{}
	withTopic := map[string]store.TopicRecord{"a": rec("a", 10)}

	first := Diff(empty, withTopic)
	require.Len(t, first.Updated, 1)
	assert.Equal(t, "a", first.Updated[0].Key)

	second := Diff(withTopic, empty)
	assert.Empty(t, second.Updated)
	assert.Equal(t, []string{"a"}, second.Removed)
}

func TestEmpty(t *testing.T) {
	assert.True(t, Update{}.Empty())
	assert.False(t, Update{Updated: []store.TopicRecord{rec("a", 1)}}.Empty())
	assert.False(t, Update{Removed: []string{"a"}}.Empty())
}
