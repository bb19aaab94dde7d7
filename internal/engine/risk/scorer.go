package risk

import (
	"NetSentry/internal/model"
)

// Tier thresholds; comparisons are strict, so a score of exactly 0.8 is High.
const (
	criticalThreshold = 0.8
	highThreshold     = 0.6
	mediumThreshold   = 0.3
)

// Formula weights. The flat +0.15 bias on the unsupervised-only path is an
// inherited calibration constant kept for output compatibility.
const (
	benignAnomalyWeight = 0.6

	supervisedConfWeight = 0.7
	supervisedAnomWeight = 0.3

	unsupervisedConfWeight = 0.6
	unsupervisedAnomWeight = 0.4
	unsupervisedBias       = 0.15
)

// Compute derives the risk score and tier for a classification outcome.
// The formula is selected by the final label and the outcome's provenance.
func Compute(outcome model.ClassificationOutcome) model.RiskAssessment {
	var score float64
	switch {
	case outcome.Label == "BENIGN":
		// Even a benign verdict carries risk proportional to its anomaly score.
		score = outcome.AnomalyScore * benignAnomalyWeight
	case outcome.Provenance == model.ProvenanceSupervised:
		score = outcome.Confidence*supervisedConfWeight + outcome.AnomalyScore*supervisedAnomWeight
	default:
		// Unsupervised override or unsupervised-only fallback: the supervised
		// confidence is meaningless, so synthesize one from the anomaly score.
		pseudo := clip01(0.55 + 0.45*outcome.AnomalyScore)
		if outcome.Confidence > pseudo {
			pseudo = outcome.Confidence
		}
		score = pseudo*unsupervisedConfWeight + outcome.AnomalyScore*unsupervisedAnomWeight + unsupervisedBias
	}

	score = clip01(score)
	return model.RiskAssessment{Score: score, Level: Level(score)}
}

// Level maps a risk score to its tier. Pure and total: the tier depends on
// nothing but the score, with strict lower bounds.
func Level(score float64) model.RiskLevel {
	switch {
	case score > criticalThreshold:
		return model.RiskCritical
	case score > highThreshold:
		return model.RiskHigh
	case score > mediumThreshold:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// TierThresholds reports the strict lower bound of each tier above Low,
// for criteria reporting.
func TierThresholds() map[model.RiskLevel]float64 {
	return map[model.RiskLevel]float64{
		model.RiskCritical: criticalThreshold,
		model.RiskHigh:     highThreshold,
		model.RiskMedium:   mediumThreshold,
	}
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
