package artifacts

import "fmt"

// leafNode marks leaves in the array-encoded tree layout (sklearn convention).
const leafNode = -2

// decisionTree is one tree of an ensemble in flattened array form: node i
// splits on Feature[i] at Threshold[i], descending to Left[i] or Right[i].
// Leaves carry a per-class weight vector in Value[i] and, for isolation
// trees, the training-sample count in NodeSamples[i].
type decisionTree struct {
	Feature     []int       `json:"feature"`
	Threshold   []float64   `json:"threshold"`
	Left        []int       `json:"children_left"`
	Right       []int       `json:"children_right"`
	Value       [][]float64 `json:"value,omitempty"`
	NodeSamples []int       `json:"n_node_samples,omitempty"`
}

// validate checks the parallel arrays are consistent.
func (t *decisionTree) validate() error {
	n := len(t.Feature)
	if len(t.Threshold) != n || len(t.Left) != n || len(t.Right) != n {
		return fmt.Errorf("inconsistent tree arrays: feature=%d threshold=%d left=%d right=%d",
			n, len(t.Threshold), len(t.Left), len(t.Right))
	}
	if n == 0 {
		return fmt.Errorf("empty tree")
	}
	return nil
}

// leaf walks the tree for one sample and returns the index of the leaf node
// along with the path depth.
func (t *decisionTree) leaf(x []float64) (node, depth int) {
	for t.Feature[node] != leafNode {
		f := t.Feature[node]
		var v float64
		if f >= 0 && f < len(x) {
			v = x[f]
		}
		if v <= t.Threshold[node] {
			node = t.Left[node]
		} else {
			node = t.Right[node]
		}
		depth++
	}
	return node, depth
}
