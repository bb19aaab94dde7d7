package analyzer

import "NetSentry/internal/model"

// TopN keeps the highest-scoring flow records seen so far, sorted descending,
// capped at a fixed size. Inserts shift within a small fixed array instead of
// re-sorting a growing list, so memory stays O(limit) across millions of rows.
type TopN struct {
	limit int
	score func(*model.FlowRecord) float64
	items []*model.FlowRecord
}

// NewTopN creates a bounded descending-sorted list of the given capacity.
func NewTopN(limit int, score func(*model.FlowRecord) float64) *TopN {
	return &TopN{
		limit: limit,
		score: score,
		items: make([]*model.FlowRecord, 0, limit),
	}
}

// Offer inserts the record if it ranks among the top entries; otherwise it is
// dropped. Ties keep the earlier record ahead.
func (t *TopN) Offer(rec *model.FlowRecord) {
	s := t.score(rec)
	if len(t.items) == t.limit && s <= t.score(t.items[t.limit-1]) {
		return
	}

	pos := len(t.items)
	for pos > 0 && t.score(t.items[pos-1]) < s {
		pos--
	}

	if len(t.items) < t.limit {
		t.items = append(t.items, nil)
	}
	copy(t.items[pos+1:], t.items[pos:])
	t.items[pos] = rec
}

// Items returns the current entries in descending score order.
func (t *TopN) Items() []*model.FlowRecord {
	out := make([]*model.FlowRecord, len(t.items))
	copy(out, t.items)
	return out
}
