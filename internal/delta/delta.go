package delta

import "topicscope/internal/store"

// Update is one delta message pushed to a consumer. Both slices may be
// empty; the transport skips sending an entirely empty update and the JSON
// encoding omits empty arrays to save bandwidth.
type Update struct {
	Updated []store.TopicRecord `json:"updated,omitempty"`
	Removed []string            `json:"removed,omitempty"`
}

// Empty reports whether the update carries nothing worth sending.
func (u Update) Empty() bool {
	return len(u.Updated) == 0 && len(u.Removed) == 0
}

// Diff computes the minimal delta that brings a consumer holding previous
// up to date with current: records that are new or changed field-wise land
// in Updated, keys that vanished land in Removed. Order within each slice
// is unspecified.
//
// Diff is a pure function of its inputs; it reads both maps and mutates
// neither. Only the two snapshots are compared, so a topic that disappears
// and reappears between ticks is reported as a plain update.
func Diff(previous, current map[string]store.TopicRecord) Update {
	var updated []store.TopicRecord
	var removed []string

	for key, rec := range current {
		if prev, ok := previous[key]; !ok || prev != rec {
			updated = append(updated, rec)
		}
	}

	for key := range previous {
		if _, ok := current[key]; !ok {
			removed = append(removed, key)
		}
	}

	return Update{Updated: updated, Removed: removed}
}
