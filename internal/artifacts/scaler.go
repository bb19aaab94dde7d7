package artifacts

import (
	"fmt"

	"NetSentry/internal/model"
)

// StandardScaler centers and scales features with the mean/scale vectors
// fitted at training time. It implements model.Scaler.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform applies (x - mean) / scale column-wise.
func (s *StandardScaler) Transform(matrix [][]float64) ([][]float64, error) {
	if len(s.Mean) != len(s.Scale) {
		return nil, fmt.Errorf("scaler has %d means but %d scales", len(s.Mean), len(s.Scale))
	}
	out := make([][]float64, len(matrix))
	for r, row := range matrix {
		if len(row) != len(s.Mean) {
			return nil, fmt.Errorf("row %d has %d features, scaler expects %d", r, len(row), len(s.Mean))
		}
		scaled := make([]float64, len(row))
		for i, v := range row {
			div := s.Scale[i]
			if div == 0 {
				div = 1
			}
			scaled[i] = (v - s.Mean[i]) / div
		}
		out[r] = scaled
	}
	return out, nil
}

var _ model.Scaler = (*StandardScaler)(nil)
