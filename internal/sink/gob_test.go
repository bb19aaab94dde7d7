package sink

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"NetSentry/internal/model"
)

func TestGobSinkPersist(t *testing.T) {
	root := t.TempDir()
	s := NewGobSink(root)

	rows := []*model.FlowRecord{
		{ID: "a1", AnalysisID: "run1", Classification: "BENIGN"},
		{ID: "a2", AnalysisID: "run1", Classification: "DDoS", IsAnomaly: true},
	}

	n, err := s.Persist(context.Background(), rows)
	if err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 persisted, got %d", n)
	}

	// Decode the batch file back.
	f, err := os.Open(filepath.Join(root, "run1", "batch_0.dat"))
	if err != nil {
		t.Fatalf("batch file missing: %v", err)
	}
	defer f.Close()

	var decoded []*model.FlowRecord
	if err := gob.NewDecoder(f).Decode(&decoded); err != nil {
		t.Fatalf("gob decode failed: %v", err)
	}
	if len(decoded) != 2 || decoded[1].Classification != "DDoS" {
		t.Errorf("unexpected decoded records: %+v", decoded)
	}

	// The metadata file counts the anomalies.
	meta, err := os.ReadFile(filepath.Join(root, "run1", "batch_0.json"))
	if err != nil {
		t.Fatalf("metadata file missing: %v", err)
	}
	var m batchMeta
	if err := json.Unmarshal(meta, &m); err != nil {
		t.Fatalf("metadata is not valid JSON: %v", err)
	}
	if m.AnalysisID != "run1" || m.Flows != 2 || m.Anomalies != 1 {
		t.Errorf("unexpected metadata: %+v", m)
	}
}

func TestGobSinkSequencesBatches(t *testing.T) {
	s := NewGobSink(t.TempDir())
	rows := []*model.FlowRecord{{ID: "a1", AnalysisID: "run1"}}

	for i := 0; i < 3; i++ {
		if _, err := s.Persist(context.Background(), rows); err != nil {
			t.Fatalf("Persist %d failed: %v", i, err)
		}
	}
	for i := 0; i < 3; i++ {
		path := filepath.Join(s.rootPath, "run1", "batch_"+string(rune('0'+i))+".dat")
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected batch file %s: %v", path, err)
		}
	}
}

func TestGobSinkConcurrentAnalyses(t *testing.T) {
	// One sink instance serves every upload, and the HTTP server runs
	// handlers concurrently. Run with -race.
	s := NewGobSink(t.TempDir())

	const perAnalysis = 10
	var wg sync.WaitGroup
	for _, id := range []string{"run1", "run2"} {
		for i := 0; i < perAnalysis; i++ {
			wg.Add(1)
			go func(analysisID string) {
				defer wg.Done()
				rows := []*model.FlowRecord{{ID: "a1", AnalysisID: analysisID}}
				if _, err := s.Persist(context.Background(), rows); err != nil {
					t.Errorf("Persist for %s failed: %v", analysisID, err)
				}
			}(id)
		}
	}
	wg.Wait()

	// Every batch number 0..N-1 must exist exactly once per analysis.
	for _, id := range []string{"run1", "run2"} {
		for i := 0; i < perAnalysis; i++ {
			path := filepath.Join(s.rootPath, id, fmt.Sprintf("batch_%d.dat", i))
			if _, err := os.Stat(path); err != nil {
				t.Errorf("expected batch file %s: %v", path, err)
			}
		}
	}
}

func TestGobSinkEmptyBatch(t *testing.T) {
	s := NewGobSink(t.TempDir())
	n, err := s.Persist(context.Background(), nil)
	if err != nil || n != 0 {
		t.Errorf("empty batch must be a no-op, got %d (%v)", n, err)
	}
}
