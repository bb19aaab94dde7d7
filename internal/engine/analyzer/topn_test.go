package analyzer

import (
	"math/rand"
	"sort"
	"testing"

	"NetSentry/internal/model"
)

func TestTopNKeepsHighestScores(t *testing.T) {
	byRisk := func(r *model.FlowRecord) float64 { return r.RiskScore }
	top := NewTopN(3, byRisk)

	for _, s := range []float64{0.2, 0.9, 0.1, 0.5, 0.7, 0.3} {
		top.Offer(&model.FlowRecord{RiskScore: s})
	}

	items := top.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	want := []float64{0.9, 0.7, 0.5}
	for i, w := range want {
		if items[i].RiskScore != w {
			t.Errorf("item %d: expected %v, got %v", i, w, items[i].RiskScore)
		}
	}
}

func TestTopNUnderCapacity(t *testing.T) {
	top := NewTopN(10, func(r *model.FlowRecord) float64 { return r.RiskScore })
	top.Offer(&model.FlowRecord{RiskScore: 0.4})
	top.Offer(&model.FlowRecord{RiskScore: 0.8})

	items := top.Items()
	if len(items) != 2 || items[0].RiskScore != 0.8 || items[1].RiskScore != 0.4 {
		t.Errorf("unexpected items: %v", items)
	}
}

func TestTopNMatchesBruteForceSort(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	top := NewTopN(10, func(r *model.FlowRecord) float64 { return r.AnomalyScore })

	var all []float64
	for i := 0; i < 500; i++ {
		s := rng.Float64()
		all = append(all, s)
		top.Offer(&model.FlowRecord{AnomalyScore: s})
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(all)))
	items := top.Items()
	if len(items) != 10 {
		t.Fatalf("expected 10 items, got %d", len(items))
	}
	for i := 0; i < 10; i++ {
		if items[i].AnomalyScore != all[i] {
			t.Errorf("rank %d: expected %v, got %v", i, all[i], items[i].AnomalyScore)
		}
	}
}
