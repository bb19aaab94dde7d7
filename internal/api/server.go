package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"NetSentry/internal/alerter"
	"NetSentry/internal/engine/analyzer"
	"NetSentry/internal/engine/catalog"
	"NetSentry/internal/engine/inference"
	"NetSentry/internal/engine/risk"
	"NetSentry/internal/engine/threat"
	"NetSentry/internal/model"
	"NetSentry/internal/query"
)

// recentSummaryCap bounds the in-memory history of finished analyses.
const recentSummaryCap = 20

// Packet capture magic numbers, checked before trusting the file extension.
var (
	pcapMagics = [][]byte{
		{0xd4, 0xc3, 0xb2, 0xa1}, // little-endian, microseconds
		{0xa1, 0xb2, 0xc3, 0xd4}, // big-endian, microseconds
		{0x4d, 0x3c, 0xb2, 0xa1}, // little-endian, nanoseconds
		{0xa1, 0xb2, 0x3c, 0x4d}, // big-endian, nanoseconds
	}
	pcapngMagic = []byte{0x0a, 0x0d, 0x0d, 0x0a}
)

// Server is the HTTP front end: file upload and analysis, health, and the
// classification-criteria report.
type Server struct {
	analyzer       *analyzer.Analyzer
	adapter        *inference.Adapter
	alerter        *alerter.Alerter
	querier        query.Querier
	tempDir        string
	maxUploadBytes int64

	mu      sync.Mutex
	recents []*model.AnalysisSummary // newest first
}

// NewServer wires the handlers. alerter may be nil when alerting is disabled.
func NewServer(an *analyzer.Analyzer, adapter *inference.Adapter, al *alerter.Alerter, tempDir string, maxUploadBytes int64) *Server {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 512 << 20
	}
	return &Server{
		analyzer:       an,
		adapter:        adapter,
		alerter:        al,
		tempDir:        tempDir,
		maxUploadBytes: maxUploadBytes,
	}
}

// SetQuerier enables the stored-flow endpoints backed by the given querier.
func (s *Server) SetQuerier(q query.Querier) {
	s.querier = q
}

// Router builds the mux router with all API routes registered. The analysis
// retrieval routes are only served when a querier is configured.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/analyze", s.analyzeHandler).Methods("POST")
	r.HandleFunc("/api/v1/health", s.healthHandler).Methods("GET")
	r.HandleFunc("/api/v1/criteria", s.criteriaHandler).Methods("GET")
	r.HandleFunc("/api/v1/analyses", s.recentHandler).Methods("GET")
	if s.querier != nil {
		r.HandleFunc("/api/v1/analyses/{id}/flows", s.flowsHandler).Methods("GET")
		r.HandleFunc("/api/v1/analyses/{id}/threats", s.threatsHandler).Methods("GET")
	}
	return r
}

// analyzeHandler accepts a multipart upload ("file" field), detects its type,
// runs the full analysis, and returns the summary as JSON. The uploaded copy
// is removed whether or not the analysis succeeds.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("failed to parse upload: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("missing 'file' field: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := os.MkdirAll(s.tempDir, 0755); err != nil {
		http.Error(w, fmt.Sprintf("failed to prepare upload directory: %v", err), http.StatusInternalServerError)
		return
	}
	tmp, err := os.CreateTemp(s.tempDir, "upload_*")
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to store upload: %v", err), http.StatusInternalServerError)
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		http.Error(w, fmt.Sprintf("failed to store upload: %v", err), http.StatusInternalServerError)
		return
	}
	tmp.Close()

	fileType, err := detectFileType(tmpPath, header.Filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := s.analyzer.AnalyzeFile(r.Context(), tmpPath, fileType, header.Filename)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, analyzer.ErrEmptyInput):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, analyzer.ErrConversion):
			status = http.StatusBadGateway
		}
		http.Error(w, fmt.Sprintf("analysis failed: %v", err), status)
		return
	}

	if s.alerter != nil {
		if triggered := s.alerter.Evaluate(summary); len(triggered) > 0 {
			log.Printf("Analysis %s triggered alerts: %s", summary.ID, strings.Join(triggered, ", "))
		}
	}
	s.remember(summary)

	writeJSON(w, http.StatusOK, summary)
}

// remember prepends the summary to the bounded recent-analyses list.
func (s *Server) remember(summary *model.AnalysisSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recents = append([]*model.AnalysisSummary{summary}, s.recents...)
	if len(s.recents) > recentSummaryCap {
		s.recents = s.recents[:recentSummaryCap]
	}
}

// recentHandler lists the summaries of recent analyses, newest first.
func (s *Server) recentHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]*model.AnalysisSummary, len(s.recents))
	copy(out, s.recents)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

// healthStatus reports which inference artifacts are loaded.
type healthStatus struct {
	Status              string `json:"status"`
	SupervisedAvailable bool   `json:"supervised_available"`
	AnomalyAvailable    bool   `json:"anomaly_available"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{
		Status:              "ok",
		SupervisedAvailable: s.adapter.SupervisedAvailable(),
		AnomalyAvailable:    s.adapter.AnomalyAvailable(),
	}
	if !status.SupervisedAvailable && !status.AnomalyAvailable {
		status.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, status)
}

// criteriaResponse documents the engine's decision rules for API consumers.
type criteriaResponse struct {
	RiskTiers         map[model.RiskLevel]float64 `json:"risk_tiers"`
	AnomalyThresholds map[string]float64          `json:"anomaly_thresholds"`
	ThreatCatalog     map[string]catalog.Entry    `json:"threat_catalog"`
}

func (s *Server) criteriaHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, criteriaResponse{
		RiskTiers:         risk.TierThresholds(),
		AnomalyThresholds: threat.ScoreThresholds(),
		ThreatCatalog:     catalog.Entries(),
	})
}

// flowsHandler returns one analysis' stored records, highest risk first.
// Optional query parameters: min_risk (float) and limit (int, default 100).
func (s *Server) flowsHandler(w http.ResponseWriter, r *http.Request) {
	analysisID := mux.Vars(r)["id"]

	minRisk, _ := strconv.ParseFloat(r.URL.Query().Get("min_risk"), 64)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	flows, err := s.querier.FlowsByAnalysis(r.Context(), analysisID, minRisk, limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to query flows: %v", err), http.StatusInternalServerError)
		return
	}
	if flows == nil {
		flows = []*model.FlowRecord{}
	}
	writeJSON(w, http.StatusOK, flows)
}

// threatsHandler returns one analysis' per-classification flow counts.
func (s *Server) threatsHandler(w http.ResponseWriter, r *http.Request) {
	analysisID := mux.Vars(r)["id"]

	counts, err := s.querier.ThreatCounts(r.Context(), analysisID)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to query threat counts: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// detectFileType sniffs the upload's magic bytes first and falls back to the
// filename extension. CSV has no magic, so it is accepted by extension only.
func detectFileType(path, filename string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to inspect upload: %w", err)
	}
	defer f.Close()

	head := make([]byte, 4)
	n, _ := io.ReadFull(f, head)
	head = head[:n]

	for _, magic := range pcapMagics {
		if bytes.HasPrefix(head, magic) {
			return "pcap", nil
		}
	}
	if bytes.HasPrefix(head, pcapngMagic) {
		return "pcapng", nil
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return "csv", nil
	case ".pcap":
		return "pcap", nil
	case ".pcapng":
		return "pcapng", nil
	}
	return "", fmt.Errorf("unsupported file type for '%s': expected .csv, .pcap, or .pcapng", filename)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
