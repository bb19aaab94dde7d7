package artifacts

import (
	"fmt"
	"math"

	"NetSentry/internal/model"
)

// eulerMascheroni is used in the average-path-length correction term.
const eulerMascheroni = 0.5772156649

// IsolationForest scores samples by how quickly random trees isolate them.
// DecisionFunction follows the isolation-forest convention: lower values are
// more anomalous, negative values are outliers. It implements
// model.AnomalyDetector.
type IsolationForest struct {
	Trees      []decisionTree `json:"trees"`
	MaxSamples int            `json:"max_samples"`
	// Offset shifts the raw score so that zero separates in/outliers.
	// The fitted default is -0.5.
	Offset float64 `json:"offset"`
}

func (f *IsolationForest) validate() error {
	if len(f.Trees) == 0 {
		return fmt.Errorf("anomaly detector has no trees")
	}
	if f.MaxSamples <= 0 {
		return fmt.Errorf("anomaly detector has invalid max_samples %d", f.MaxSamples)
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	if f.Offset == 0 {
		f.Offset = -0.5
	}
	return nil
}

// DecisionFunction returns offset-adjusted anomaly scores, one per row.
func (f *IsolationForest) DecisionFunction(matrix [][]float64) ([]float64, error) {
	out := make([]float64, len(matrix))
	norm := averagePathLength(f.MaxSamples)
	for r, row := range matrix {
		var pathSum float64
		for ti := range f.Trees {
			tree := &f.Trees[ti]
			node, depth := tree.leaf(row)
			correction := 0.0
			if node < len(tree.NodeSamples) {
				correction = averagePathLength(tree.NodeSamples[node])
			}
			pathSum += float64(depth) + correction
		}
		avgPath := pathSum / float64(len(f.Trees))
		anomaly := math.Pow(2, -avgPath/norm)
		// score_samples = -anomaly; decision = score_samples - offset
		out[r] = -anomaly - f.Offset
	}
	return out, nil
}

// Predict returns -1 for outliers (negative decision value) and 1 otherwise.
func (f *IsolationForest) Predict(matrix [][]float64) ([]int, error) {
	scores, err := f.DecisionFunction(matrix)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(scores))
	for i, s := range scores {
		if s < 0 {
			out[i] = -1
		} else {
			out[i] = 1
		}
	}
	return out, nil
}

// averagePathLength is the expected path length of an unsuccessful BST
// search over n samples, the standard isolation-forest normalizer.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	default:
		fn := float64(n)
		return 2*(math.Log(fn-1)+eulerMascheroni) - 2*(fn-1)/fn
	}
}

var _ model.AnomalyDetector = (*IsolationForest)(nil)
