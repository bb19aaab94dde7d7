package artifacts

import (
	"fmt"

	"NetSentry/internal/model"
)

// RandomForest is a serialized tree ensemble evaluated natively. Each leaf
// holds per-class weights; the forest averages the normalized leaf
// distributions across trees. It implements model.Classifier.
type RandomForest struct {
	NumClasses int            `json:"n_classes"`
	Trees      []decisionTree `json:"trees"`
}

func (f *RandomForest) validate() error {
	if f.NumClasses <= 0 {
		return fmt.Errorf("classifier has no classes")
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("classifier has no trees")
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
		if len(f.Trees[i].Value) != len(f.Trees[i].Feature) {
			return fmt.Errorf("tree %d: %d value rows for %d nodes", i, len(f.Trees[i].Value), len(f.Trees[i].Feature))
		}
	}
	return nil
}

// Predict returns the encoded class with the highest averaged probability per row.
func (f *RandomForest) Predict(matrix [][]float64) ([]int, error) {
	probs, err := f.PredictProbabilities(matrix)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(probs))
	for i, p := range probs {
		best := 0
		for c := 1; c < len(p); c++ {
			if p[c] > p[best] {
				best = c
			}
		}
		out[i] = best
	}
	return out, nil
}

// PredictProbabilities averages the normalized leaf class distributions of
// every tree for each row.
func (f *RandomForest) PredictProbabilities(matrix [][]float64) ([][]float64, error) {
	out := make([][]float64, len(matrix))
	for r, row := range matrix {
		acc := make([]float64, f.NumClasses)
		for ti := range f.Trees {
			tree := &f.Trees[ti]
			node, _ := tree.leaf(row)
			dist := tree.Value[node]
			if len(dist) != f.NumClasses {
				return nil, fmt.Errorf("tree %d leaf %d has %d classes, expected %d", ti, node, len(dist), f.NumClasses)
			}
			var sum float64
			for _, w := range dist {
				sum += w
			}
			if sum == 0 {
				continue
			}
			for c, w := range dist {
				acc[c] += w / sum
			}
		}
		for c := range acc {
			acc[c] /= float64(len(f.Trees))
		}
		out[r] = acc
	}
	return out, nil
}

var _ model.Classifier = (*RandomForest)(nil)
