package model

// Provenance records which inference path produced a classification.
type Provenance int

const (
	// ProvenanceSupervised means the label came straight from the trained classifier.
	ProvenanceSupervised Provenance = iota
	// ProvenanceUnsupervisedOverride means a supervised BENIGN verdict was
	// overturned because the anomaly detector flagged the flow.
	ProvenanceUnsupervisedOverride
	// ProvenanceUnsupervisedOnly means no usable supervised model was present
	// and the label was inferred from the anomaly path alone.
	ProvenanceUnsupervisedOnly
)

func (p Provenance) String() string {
	switch p {
	case ProvenanceSupervised:
		return "supervised"
	case ProvenanceUnsupervisedOverride:
		return "unsupervised_override"
	case ProvenanceUnsupervisedOnly:
		return "unsupervised_only"
	}
	return "unknown"
}

// IsSupervised reports whether the label was produced by the supervised path.
func (p Provenance) IsSupervised() bool {
	return p == ProvenanceSupervised
}

// ClassificationOutcome is the per-flow verdict of the hybrid engine.
// Immutable once produced.
type ClassificationOutcome struct {
	Label        string
	Provenance   Provenance
	Confidence   float64 // max class probability, in [0,1]
	AnomalyScore float64 // 0-1, higher is more anomalous
	IsAnomaly    bool    // detector's native outlier verdict
}

// RiskLevel is the four-tier severity bucket.
type RiskLevel string

const (
	RiskCritical RiskLevel = "Critical"
	RiskHigh     RiskLevel = "High"
	RiskMedium   RiskLevel = "Medium"
	RiskLow      RiskLevel = "Low"
)

// RiskAssessment is derived deterministically from a ClassificationOutcome.
type RiskAssessment struct {
	Score float64
	Level RiskLevel
}

// ThreatMetadata is the static catalog entry attached to a classified flow.
type ThreatMetadata struct {
	ThreatType  string
	CVERefs     []string
	Description string
	Reason      string
}

// FlowRecord is the fully enriched record emitted for each input row.
// Ownership transfers to the sink once its chunk completes.
type FlowRecord struct {
	ID             string  `json:"id"`
	AnalysisID     string  `json:"analysis_id"`
	UploadFilename string  `json:"upload_filename"`
	SrcIP          string  `json:"src_ip"`
	DstIP          string  `json:"dst_ip"`
	SrcPort        int     `json:"src_port"`
	DstPort        int     `json:"dst_port"`
	Protocol       string  `json:"protocol"`
	Duration       float64 `json:"duration"`
	TotalFwdPkts   int64   `json:"total_fwd_packets"`
	TotalBwdPkts   int64   `json:"total_bwd_packets"`
	TotalLenFwd    float64 `json:"total_length_fwd"`
	TotalLenBwd    float64 `json:"total_length_bwd"`
	FlowBytesPerS  float64 `json:"flow_bytes_per_sec"`
	FlowPktsPerS   float64 `json:"flow_packets_per_sec"`
	Timestamp      string  `json:"timestamp"`

	Classification string    `json:"classification"`
	ThreatType     string    `json:"threat_type"`
	CVERefs        string    `json:"cve_refs"` // comma-joined
	Reason         string    `json:"classification_reason"`
	Confidence     float64   `json:"confidence"`
	AnomalyScore   float64   `json:"anomaly_score"`
	RiskScore      float64   `json:"risk_score"`
	RiskLevel      RiskLevel `json:"risk_level"`
	IsAnomaly      bool      `json:"is_anomaly"`
}

// AnalysisSummary is the aggregate result of one analyzed file.
// Built incrementally by the streaming analyzer, never mutated after return.
type AnalysisSummary struct {
	ID                   string                   `json:"id"`
	Filename             string                   `json:"filename"`
	TotalFlows           int                      `json:"total_flows"`
	AttackDistribution   map[string]int           `json:"attack_distribution"`
	RiskDistribution     map[RiskLevel]int        `json:"risk_distribution"`
	ProtocolDistribution map[string]int           `json:"protocol_distribution"`
	AnomalyBreakdown     map[string]int           `json:"anomaly_breakdown"`
	AnomalyCount         int                      `json:"anomaly_count"`
	AvgRiskScore         float64                  `json:"avg_risk_score"`
	DegradedFeatureMode  bool                     `json:"degraded_feature_mode"`
	TopAnomalies         []*FlowRecord            `json:"top_anomalies"`
	TopRisks             []*FlowRecord            `json:"top_risks"`
	SampleFlows          []*FlowRecord            `json:"sample_flows"`
	SamplesByLabel       map[string][]*FlowRecord `json:"samples_by_label"`
}
