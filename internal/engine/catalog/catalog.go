package catalog

import (
	"fmt"
	"strings"

	"NetSentry/internal/model"
)

// Entry is a static catalog record for one classification label.
type Entry struct {
	ThreatType  string
	CVERefs     []string
	Description string
}

// entries maps classification labels to threat metadata. Keys are
// case-sensitive; lookups fall back to a case-insensitive match.
var entries = map[string]Entry{
	"BENIGN": {
		ThreatType:  "Normal",
		Description: "Normal traffic; no threat indicators.",
	},
	"Benign": {
		ThreatType:  "Normal",
		Description: "Normal traffic; no threat indicators.",
	},
	"DDoS": {
		ThreatType:  "Denial of Service",
		CVERefs:     []string{"CVE-2020-5902", "CVE-2018-1050"},
		Description: "DDoS/DoS pattern; may relate to known amplification or service abuse.",
	},
	"Bot": {
		ThreatType:  "Botnet / Malware",
		CVERefs:     []string{"CVE-2016-10709", "CVE-2023-44487"},
		Description: "Bot-like or automated malicious behavior.",
	},
	"Anomaly": {
		ThreatType:  "Unclassified Anomaly",
		Description: "Behavioral anomaly; no specific CVE (zero-day or unknown pattern).",
	},
	"PortScan": {
		ThreatType:  "Reconnaissance",
		Description: "Port scan / reconnaissance (no single CVE; activity-based).",
	},
	"Brute Force": {
		ThreatType:  "Brute Force",
		CVERefs:     []string{"CVE-2019-11510", "CVE-2017-5638"},
		Description: "Brute-force or credential abuse pattern.",
	},
	"BruteForce": {
		ThreatType:  "Brute Force",
		CVERefs:     []string{"CVE-2019-11510", "CVE-2017-5638"},
		Description: "Brute-force or credential abuse pattern.",
	},
	"Web Attack": {
		ThreatType:  "Web Application Attack",
		CVERefs:     []string{"CVE-2017-5638", "CVE-2018-11776"},
		Description: "Web application attack (e.g. RCE, injection).",
	},
	"Infiltration": {
		ThreatType:  "Infiltration",
		CVERefs:     []string{"CVE-2017-0144"},
		Description: "Infiltration / lateral movement pattern.",
	},
	"Heartbleed": {
		ThreatType:  "Heartbleed (TLS)",
		CVERefs:     []string{"CVE-2014-0160"},
		Description: "OpenSSL Heartbleed; TLS heartbeat read overrun.",
	},
	"DoS": {
		ThreatType:  "Denial of Service",
		CVERefs:     []string{"CVE-2020-5902", "CVE-2018-1050"},
		Description: "Denial-of-service pattern.",
	},
	"DoS GoldenEye": {
		ThreatType:  "Denial of Service",
		CVERefs:     []string{"CVE-2020-5902"},
		Description: "DoS GoldenEye / HTTP flood pattern.",
	},
	"DoS Hulk": {
		ThreatType:  "Denial of Service",
		CVERefs:     []string{"CVE-2020-5902"},
		Description: "DoS Hulk / HTTP flood pattern.",
	},
	"DoS SlowHTTPTest": {
		ThreatType:  "Denial of Service",
		CVERefs:     []string{"CVE-2018-1050"},
		Description: "Slow HTTP DoS pattern.",
	},
	"FTP-Patator": {
		ThreatType:  "Brute Force",
		CVERefs:     []string{"CVE-2019-11510"},
		Description: "FTP brute-force pattern.",
	},
	"SSH-Patator": {
		ThreatType:  "Brute Force",
		CVERefs:     []string{"CVE-2019-11510"},
		Description: "SSH brute-force pattern.",
	},
}

// Lookup returns the threat metadata for a classification label. Unknown
// labels yield a metadata-free entry rather than an error.
func Lookup(label string) Entry {
	key := strings.TrimSpace(label)
	if e, ok := entries[key]; ok {
		return copyEntry(e)
	}
	for k, e := range entries {
		if strings.EqualFold(k, key) {
			return copyEntry(e)
		}
	}
	name := key
	if name == "" {
		name = "Unknown"
	}
	return Entry{
		ThreatType:  name,
		Description: fmt.Sprintf("Classified as '%s'; no CVE mapping (behavioral or custom label).", label),
	}
}

// Entries returns the full catalog, keyed by label, for criteria reporting.
func Entries() map[string]Entry {
	out := make(map[string]Entry, len(entries))
	for k, e := range entries {
		out[k] = copyEntry(e)
	}
	return out
}

// BuildReason composes the human-readable explanation of a verdict. The
// template branches on whether the label denotes normal traffic; provenance
// only changes the wording of the threat template.
func BuildReason(label string, provenance model.Provenance, confidence, anomalyScore float64, level model.RiskLevel) string {
	info := Lookup(label)

	cvePart := " No CVE (behavioral/pattern-based)."
	if len(info.CVERefs) > 0 {
		cvePart = fmt.Sprintf(" CVE(s): %s.", strings.Join(info.CVERefs, ", "))
	}

	if strings.EqualFold(label, "BENIGN") || info.ThreatType == "Normal" {
		return fmt.Sprintf("Safe: %s Anomaly score: %s; risk: %s.",
			info.Description, percent(anomalyScore), level)
	}

	if provenance.IsSupervised() {
		return fmt.Sprintf("Threat: %s. Supervised classification: %s (confidence %s). Anomaly score: %s.%s Risk: %s.",
			info.ThreatType, label, percent(confidence), percent(anomalyScore), cvePart, level)
	}
	return fmt.Sprintf("Threat: %s. Unsupervised anomaly (score %s) -> %s.%s Risk: %s.",
		info.ThreatType, percent(anomalyScore), label, cvePart, level)
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

func copyEntry(e Entry) Entry {
	refs := make([]string, len(e.CVERefs))
	copy(refs, e.CVERefs)
	e.CVERefs = refs
	return e
}
