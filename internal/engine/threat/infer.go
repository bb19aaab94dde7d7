package threat

// Labels assignable by the inference cascade.
const (
	LabelPortScan     = "PortScan"
	LabelBruteForce   = "Brute Force"
	LabelDDoS         = "DDoS"
	LabelWebAttack    = "Web Attack"
	LabelHeartbleed   = "Heartbleed"
	LabelBot          = "Bot"
	LabelInfiltration = "Infiltration"
	LabelAnomaly      = "Anomaly"
)

// Score-only fallback thresholds, applied when no behavioral rule matches.
const (
	ddosScoreThreshold = 0.8
	botScoreThreshold  = 0.6
)

// ScoreThresholds reports the score-only fallback bounds per label, for
// criteria reporting.
func ScoreThresholds() map[string]float64 {
	return map[string]float64{
		LabelDDoS: ddosScoreThreshold,
		LabelBot:  botScoreThreshold,
	}
}

// bruteForcePorts are the credential-service ports the brute-force rule matches.
var bruteForcePorts = map[int]bool{21: true, 22: true, 23: true, 3389: true, 445: true}

// commonPorts is the well-known set used to spot infiltration on unusual ports.
var commonPorts = map[int]bool{21: true, 22: true, 23: true, 80: true, 443: true, 3389: true, 445: true}

// InferType assigns a specific threat type to a flow the anomaly detector
// flagged while the supervised path said BENIGN (or was unavailable).
// Rules are evaluated in a fixed order; the first match wins, so the
// function is a pure, deterministic mapping of its inputs.
func InferType(f FlowFeatures, anomalyScore float64) string {
	totPkts := f.TotalPackets()
	totBytes := f.TotalBytes()

	// Port scan: few packets, probe-like.
	if totPkts >= 1 && totPkts <= 6 {
		if f.SynCount >= 1 || f.Duration < 3.0 {
			return LabelPortScan
		}
	}

	// Brute force: credential-service ports over TCP (or unspecified protocol).
	if (f.Protocol == "TCP" || f.Protocol == "") && bruteForcePorts[f.DstPort] {
		if totPkts >= 2 && totPkts <= 300 && (f.Duration < 180 || f.Duration == 0) {
			return LabelBruteForce
		}
	}

	// DDoS: high rate or volume.
	if f.PacketsPerSec > 1500 || f.BytesPerSec > 1e6 {
		return LabelDDoS
	}
	if totPkts > 500 && f.Duration >= 0 && f.Duration < 15 {
		return LabelDDoS
	}
	if totBytes > 5e6 && f.Duration < 60 {
		return LabelDDoS
	}
	if anomalyScore > 0.85 && (f.PacketsPerSec > 200 || totPkts > 100) {
		return LabelDDoS
	}

	// Web attack: HTTP/HTTPS with substantial data.
	if (f.DstPort == 80 || f.DstPort == 443) && (f.Protocol == "TCP" || f.Protocol == "") {
		if totBytes > 20000 && totPkts >= 4 {
			return LabelWebAttack
		}
	}

	// Heartbleed: 443, small packet count, mid-size packets.
	if f.DstPort == 443 && totPkts >= 2 && totPkts <= 25 {
		avgLen := totBytes / float64(max64(totPkts, 1))
		if avgLen >= 50 && avgLen <= 300 {
			return LabelHeartbleed
		}
	}

	// Bot: high rate, or chatty UDP, or sustained anomalous traffic.
	if f.PacketsPerSec > 200 && totPkts >= 8 {
		return LabelBot
	}
	if f.Protocol == "UDP" && totPkts > 20 && anomalyScore > 0.4 {
		return LabelBot
	}
	if anomalyScore > 0.65 && totPkts >= 15 {
		return LabelBot
	}

	// Infiltration: meaningful activity on an unusual port.
	if f.DstPort > 0 && !commonPorts[f.DstPort] {
		if totPkts >= 4 && totBytes > 500 {
			return LabelInfiltration
		}
	}

	// Score-only fallback: prefer DDoS/Bot over generic Anomaly.
	if anomalyScore > ddosScoreThreshold {
		return LabelDDoS
	}
	if anomalyScore > botScoreThreshold {
		return LabelBot
	}
	if anomalyScore > 0.45 {
		return LabelBot
	}
	if totPkts >= 1 && totPkts <= 8 {
		return LabelPortScan
	}
	return LabelAnomaly
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
