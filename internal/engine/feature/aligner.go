package feature

import (
	"math"
	"strconv"
	"strings"

	"NetSentry/internal/model"
)

// Aligner normalizes raw CSV chunks into feature matrices matching the
// trained feature schema. Rows containing missing or non-finite values are
// dropped, never imputed.
type Aligner struct {
	// FeatureNames is the ordered trained feature list. Empty means no
	// artifact was loaded and alignment falls back to all numeric columns.
	FeatureNames []string
}

// NewAligner creates an aligner for the given trained feature list.
func NewAligner(featureNames []string) *Aligner {
	return &Aligner{FeatureNames: featureNames}
}

// Clean trims column-name whitespace and drops every row that has a missing
// or non-finite value in any column. Text cells (IPs, protocol names) only
// count as missing when empty.
func (a *Aligner) Clean(chunk *model.Chunk) *model.Chunk {
	cols := make([]string, len(chunk.Columns))
	for i, c := range chunk.Columns {
		cols[i] = strings.TrimSpace(c)
	}

	rows := make([][]string, 0, len(chunk.Rows))
	for _, row := range chunk.Rows {
		if len(row) != len(cols) {
			continue
		}
		keep := true
		for _, cell := range row {
			if isMissing(cell) {
				keep = false
				break
			}
		}
		if keep {
			rows = append(rows, row)
		}
	}

	return &model.Chunk{Columns: cols, Rows: rows}
}

// Align builds the feature matrix for a cleaned chunk. With a trained feature
// list, absent columns are zero-filled and exactly the trained columns are
// selected in trained order. Without one, all numeric-typed columns are used
// in their natural order; the second return value reports that degraded mode.
func (a *Aligner) Align(cleaned *model.Chunk) ([][]float64, bool) {
	if len(a.FeatureNames) > 0 {
		return a.alignTrained(cleaned), false
	}
	return a.alignNumeric(cleaned), true
}

func (a *Aligner) alignTrained(chunk *model.Chunk) [][]float64 {
	indices := make([]int, len(a.FeatureNames))
	for i, name := range a.FeatureNames {
		indices[i] = chunk.ColumnIndex(name)
	}

	matrix := make([][]float64, len(chunk.Rows))
	for r, row := range chunk.Rows {
		vec := make([]float64, len(indices))
		for f, idx := range indices {
			if idx >= 0 && idx < len(row) {
				vec[f] = parseCell(row[idx])
			}
			// absent trained column stays zero-filled
		}
		matrix[r] = vec
	}
	return matrix
}

func (a *Aligner) alignNumeric(chunk *model.Chunk) [][]float64 {
	numeric := numericColumns(chunk)
	matrix := make([][]float64, len(chunk.Rows))
	for r, row := range chunk.Rows {
		vec := make([]float64, len(numeric))
		for f, idx := range numeric {
			vec[f] = parseCell(row[idx])
		}
		matrix[r] = vec
	}
	return matrix
}

// numericColumns returns the indices of columns whose every cell parses as a
// finite number, in natural column order.
func numericColumns(chunk *model.Chunk) []int {
	var out []int
	for i := range chunk.Columns {
		if len(chunk.Rows) == 0 {
			break
		}
		ok := true
		for _, row := range chunk.Rows {
			if i >= len(row) {
				ok = false
				break
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64); err != nil {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// isMissing reports whether a cell is empty or denotes a NaN/Inf value.
func isMissing(cell string) bool {
	s := strings.TrimSpace(cell)
	if s == "" {
		return true
	}
	// ParseFloat accepts "NaN", "Inf" and "Infinity" spellings directly.
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return math.IsNaN(v) || math.IsInf(v, 0)
	}
	return false
}

// parseCell converts a cell to a float64, treating unparsable text as zero.
func parseCell(cell string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
