package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"NetSentry/internal/engine/catalog"
	"NetSentry/internal/engine/feature"
	"NetSentry/internal/engine/inference"
	"NetSentry/internal/engine/risk"
	"NetSentry/internal/engine/threat"
	"NetSentry/internal/model"
)

// Sentinel errors for the analyzer's failure taxonomy.
var (
	// ErrEmptyInput means no rows survived cleaning across the whole file.
	ErrEmptyInput = errors.New("file is empty or no rows survived cleaning")
	// ErrConversion means the packet-capture converter failed or produced no output.
	ErrConversion = errors.New("pcap conversion failed")
)

// State tracks the progress of one analysis.
type State int

const (
	StateIdle State = iota
	StateConverting
	StateStreaming
	StateFinalizing
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConverting:
		return "converting"
	case StateStreaming:
		return "streaming"
	case StateFinalizing:
		return "finalizing"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Bounded aggregate sizes. Only these structures persist across chunks.
const (
	topListSize       = 10
	perLabelSampleCap = 5
	globalSampleCap   = 10
)

// Analyzer drives the end-to-end per-file pipeline: chunked reading, feature
// alignment, hybrid inference, risk scoring, catalog enrichment, running
// aggregates, and per-chunk persistence. It holds no mutable state across
// calls, so one Analyzer may serve concurrent analyses of different files.
type Analyzer struct {
	adapter   *inference.Adapter
	aligner   *feature.Aligner
	converter model.Converter
	sinks     []model.Sink
	chunkSize int
	tempDir   string
}

// New creates an analyzer. converter may be nil when only CSV input is
// expected; sinks may be empty.
func New(adapter *inference.Adapter, aligner *feature.Aligner, converter model.Converter, sinks []model.Sink, chunkSize int, tempDir string) *Analyzer {
	if chunkSize <= 0 {
		chunkSize = 50000
	}
	return &Analyzer{
		adapter:   adapter,
		aligner:   aligner,
		converter: converter,
		sinks:     sinks,
		chunkSize: chunkSize,
		tempDir:   tempDir,
	}
}

// run accumulates the per-file aggregates while streaming.
type run struct {
	id         string
	filename   string
	state      State
	totalFlows int
	riskSum    float64
	degraded   bool

	attackDist   map[string]int
	riskDist     map[model.RiskLevel]int
	protocolDist map[string]int
	anomalyDist  map[string]int
	anomalyCount int

	topAnomalies   *TopN
	topRisks       *TopN
	globalSamples  []*model.FlowRecord
	samplesByLabel map[string][]*model.FlowRecord
}

func newRun(filename string) *run {
	byAnomaly := func(r *model.FlowRecord) float64 { return r.AnomalyScore }
	byRisk := func(r *model.FlowRecord) float64 { return r.RiskScore }
	return &run{
		id:             uuid.NewString()[:8],
		filename:       filename,
		state:          StateIdle,
		attackDist:     make(map[string]int),
		riskDist:       make(map[model.RiskLevel]int),
		protocolDist:   make(map[string]int),
		anomalyDist:    make(map[string]int),
		topAnomalies:   NewTopN(topListSize, byAnomaly),
		topRisks:       NewTopN(topListSize, byRisk),
		samplesByLabel: make(map[string][]*model.FlowRecord),
	}
}

// AnalyzeFile analyzes one uploaded file synchronously. fileType is "csv" or
// "pcap" (pcapng is treated as pcap). Temporary converted CSVs are removed on
// every path. The returned summary is never mutated afterwards.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path, fileType, uploadName string) (*model.AnalysisSummary, error) {
	r := newRun(uploadName)
	log.Printf("Starting analysis %s for file %s (%s)", r.id, path, fileType)

	csvPath := path
	if fileType == "pcap" || fileType == "pcapng" {
		r.state = StateConverting
		if a.converter == nil {
			r.state = StateFailed
			return nil, fmt.Errorf("%w: no converter configured", ErrConversion)
		}
		workDir := filepath.Join(a.tempDir, r.id)
		defer os.RemoveAll(workDir)

		converted, err := a.converter.Convert(ctx, path, workDir)
		if err != nil {
			r.state = StateFailed
			return nil, fmt.Errorf("%w: %v", ErrConversion, err)
		}
		if _, err := os.Stat(converted); err != nil {
			r.state = StateFailed
			return nil, fmt.Errorf("%w: converter produced no output: %v", ErrConversion, err)
		}
		csvPath = converted
	}

	r.state = StateStreaming
	if err := a.stream(ctx, r, csvPath); err != nil {
		r.state = StateFailed
		return nil, err
	}

	if r.totalFlows == 0 {
		r.state = StateFailed
		return nil, ErrEmptyInput
	}

	r.state = StateFinalizing
	summary := a.finalize(r)
	r.state = StateCompleted
	log.Printf("Analysis %s completed: %d flows, %d anomalies, avg risk %.3f",
		r.id, summary.TotalFlows, summary.AnomalyCount, summary.AvgRiskScore)
	return summary, nil
}

// stream reads the CSV in bounded chunks and processes each one.
func (a *Analyzer) stream(ctx context.Context, r *run, csvPath string) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	reader, err := newChunkReader(f, a.chunkSize)
	if err != nil {
		return err
	}

	for {
		chunk, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := a.processChunk(ctx, r, chunk); err != nil {
			return err
		}
	}
}

// processChunk runs alignment, inference, and aggregation for one chunk, then
// hands the enriched rows to every sink. A chunk that is empty after cleaning
// is skipped entirely.
func (a *Analyzer) processChunk(ctx context.Context, r *run, chunk *model.Chunk) error {
	cleaned := a.aligner.Clean(chunk)
	if cleaned.Len() == 0 {
		return nil
	}

	matrix, degraded := a.aligner.Align(cleaned)
	if degraded && !r.degraded {
		r.degraded = true
		log.Printf("Analysis %s: no trained feature list, falling back to all numeric columns (degraded mode)", r.id)
	}

	labels, confidences, err := a.adapter.Classify(matrix)
	if err != nil {
		return fmt.Errorf("chunk classification failed: %w", err)
	}
	scores, flags, err := a.adapter.ScoreAnomaly(matrix)
	if err != nil {
		return fmt.Errorf("chunk anomaly scoring failed: %w", err)
	}

	records := make([]*model.FlowRecord, 0, cleaned.Len())
	for i := 0; i < cleaned.Len(); i++ {
		outcome := a.decide(cleaned, i, labels[i], confidences[i], scores[i], flags[i])
		records = append(records, a.enrich(r, cleaned, i, outcome))
	}

	for _, rec := range records {
		r.aggregate(rec)
	}

	for _, sink := range a.sinks {
		if _, err := sink.Persist(ctx, records); err != nil {
			return fmt.Errorf("sink persist failed: %w", err)
		}
	}
	return nil
}

// decide combines the two model verdicts into one classification outcome,
// applying the threat-inference cascade when the detector contradicts a
// BENIGN supervised verdict.
func (a *Analyzer) decide(cleaned *model.Chunk, row int, label string, confidence, score float64, flagged bool) model.ClassificationOutcome {
	provenance := model.ProvenanceSupervised
	if !a.adapter.SupervisedAvailable() {
		provenance = model.ProvenanceUnsupervisedOnly
	}

	if flagged && label == inference.FallbackLabel {
		feats := threat.ExtractFeatures(cleaned, row)
		label = threat.InferType(feats, score)
		if provenance == model.ProvenanceSupervised {
			provenance = model.ProvenanceUnsupervisedOverride
		}
	}

	return model.ClassificationOutcome{
		Label:        label,
		Provenance:   provenance,
		Confidence:   confidence,
		AnomalyScore: score,
		IsAnomaly:    flagged,
	}
}

// enrich builds the full flow record from the outcome plus the row's
// identifying fields.
func (a *Analyzer) enrich(r *run, cleaned *model.Chunk, row int, outcome model.ClassificationOutcome) *model.FlowRecord {
	assessment := risk.Compute(outcome)
	info := catalog.Lookup(outcome.Label)
	reason := catalog.BuildReason(outcome.Label, outcome.Provenance, outcome.Confidence, outcome.AnomalyScore, assessment.Level)

	feats := threat.ExtractFeatures(cleaned, row)
	timestamp := textField(cleaned, row, timestampCols, "")
	if timestamp == "" {
		timestamp = time.Now().Format(time.RFC3339)
	}

	return &model.FlowRecord{
		ID:             uuid.NewString()[:8],
		AnalysisID:     r.id,
		UploadFilename: r.filename,
		SrcIP:          textField(cleaned, row, srcIPCols, unknownField),
		DstIP:          textField(cleaned, row, dstIPCols, unknownField),
		SrcPort:        portField(cleaned, row, srcPortCols),
		DstPort:        portField(cleaned, row, dstPortCols),
		Protocol:       feats.Protocol,
		Duration:       feats.Duration,
		TotalFwdPkts:   feats.FwdPackets,
		TotalBwdPkts:   feats.BwdPackets,
		TotalLenFwd:    feats.FwdBytes,
		TotalLenBwd:    feats.BwdBytes,
		FlowBytesPerS:  feats.BytesPerSec,
		FlowPktsPerS:   feats.PacketsPerSec,
		Timestamp:      timestamp,
		Classification: outcome.Label,
		ThreatType:     info.ThreatType,
		CVERefs:        strings.Join(info.CVERefs, ","),
		Reason:         reason,
		Confidence:     outcome.Confidence,
		AnomalyScore:   outcome.AnomalyScore,
		RiskScore:      assessment.Score,
		RiskLevel:      assessment.Level,
		IsAnomaly:      outcome.IsAnomaly || outcome.Label != inference.FallbackLabel,
	}
}

// aggregate folds one record into the running per-file aggregates.
func (r *run) aggregate(rec *model.FlowRecord) {
	r.totalFlows++
	r.riskSum += rec.RiskScore
	r.attackDist[rec.Classification]++
	r.riskDist[rec.RiskLevel]++
	if rec.Protocol != "" {
		r.protocolDist[rec.Protocol]++
	}

	if rec.IsAnomaly {
		r.anomalyCount++
		r.anomalyDist[rec.Classification]++
		r.topAnomalies.Offer(rec)
	}
	r.topRisks.Offer(rec)

	if samples := r.samplesByLabel[rec.Classification]; len(samples) < perLabelSampleCap {
		r.samplesByLabel[rec.Classification] = append(samples, rec)
	}
	if len(r.globalSamples) < globalSampleCap {
		r.globalSamples = append(r.globalSamples, rec)
	}
}

// finalize assembles the immutable summary.
func (a *Analyzer) finalize(r *run) *model.AnalysisSummary {
	return &model.AnalysisSummary{
		ID:                   r.id,
		Filename:             r.filename,
		TotalFlows:           r.totalFlows,
		AttackDistribution:   r.attackDist,
		RiskDistribution:     r.riskDist,
		ProtocolDistribution: r.protocolDist,
		AnomalyBreakdown:     r.anomalyDist,
		AnomalyCount:         r.anomalyCount,
		AvgRiskScore:         r.riskSum / float64(r.totalFlows),
		DegradedFeatureMode:  r.degraded,
		TopAnomalies:         r.topAnomalies.Items(),
		TopRisks:             r.topRisks.Items(),
		SampleFlows:          r.globalSamples,
		SamplesByLabel:       r.samplesByLabel,
	}
}
