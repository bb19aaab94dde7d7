package artifacts

import (
	"fmt"

	"NetSentry/internal/model"
)

// LabelEncoder maps encoded class indices back to the label names the
// classifier was trained on. It implements model.LabelDecoder.
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

// Decode translates encoded class indices to label names.
func (e *LabelEncoder) Decode(encoded []int) ([]string, error) {
	out := make([]string, len(encoded))
	for i, idx := range encoded {
		if idx < 0 || idx >= len(e.Classes) {
			return nil, fmt.Errorf("encoded label %d out of range (have %d classes)", idx, len(e.Classes))
		}
		out[i] = e.Classes[idx]
	}
	return out, nil
}

var _ model.LabelDecoder = (*LabelEncoder)(nil)
