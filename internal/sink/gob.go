package sink

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"NetSentry/internal/model"
)

func init() {
	// Register the concrete record type for gob encoding/decoding.
	gob.Register(&model.FlowRecord{})
}

// batchMeta describes one persisted batch, internal to the writer.
type batchMeta struct {
	AnalysisID string `json:"analysis_id"`
	Flows      int    `json:"flows"`
	Anomalies  int    `json:"anomalies"`
	Timestamp  string `json:"timestamp"`
}

// GobSink writes enriched flow records to disk in gob format, one file per
// chunk, grouped by analysis. It implements the model.Sink interface. One
// sink instance serves every concurrent analysis, so the batch counters are
// mutex-guarded.
type GobSink struct {
	rootPath string

	mu      sync.Mutex
	batches map[string]int
}

// NewGobSink creates a disk-backed sink rooted at rootPath.
func NewGobSink(rootPath string) *GobSink {
	return &GobSink{rootPath: rootPath, batches: make(map[string]int)}
}

// nextBatch reserves the next batch number for an analysis.
func (s *GobSink) nextBatch(analysisID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	batch := s.batches[analysisID]
	s.batches[analysisID] = batch + 1
	return batch
}

// Persist serializes the chunk's records into <root>/<analysis_id>/batch_N.dat
// and refreshes the analysis' summary.json.
func (s *GobSink) Persist(ctx context.Context, rows []*model.FlowRecord) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	analysisID := rows[0].AnalysisID
	analysisDir := filepath.Join(s.rootPath, analysisID)
	if err := os.MkdirAll(analysisDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create analysis directory: %w", err)
	}

	batch := s.nextBatch(analysisID)

	filePath := filepath.Join(analysisDir, fmt.Sprintf("batch_%d.dat", batch))
	file, err := os.Create(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to create batch file '%s': %w", filePath, err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(rows); err != nil {
		return 0, fmt.Errorf("failed to encode flows to gob for file '%s': %w", filePath, err)
	}

	anomalies := 0
	for _, r := range rows {
		if r.IsAnomaly {
			anomalies++
		}
	}
	meta := batchMeta{
		AnalysisID: analysisID,
		Flows:      len(rows),
		Anomalies:  anomalies,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
	summaryPath := filepath.Join(analysisDir, fmt.Sprintf("batch_%d.json", batch))
	summaryFile, err := os.Create(summaryPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create summary file: %w", err)
	}
	defer summaryFile.Close()

	jsonEncoder := json.NewEncoder(summaryFile)
	jsonEncoder.SetIndent("", "  ")
	if err := jsonEncoder.Encode(meta); err != nil {
		return 0, fmt.Errorf("failed to encode summary to json: %w", err)
	}

	return len(rows), nil
}

var _ model.Sink = (*GobSink)(nil)
