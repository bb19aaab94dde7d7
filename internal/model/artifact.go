package model

// The trained models are opaque capabilities loaded from disk. Any of them
// may be absent; the inference adapter degrades instead of failing.

// Classifier is the supervised multi-class model.
type Classifier interface {
	// Predict returns one encoded class per row of the feature matrix.
	Predict(matrix [][]float64) ([]int, error)
	// PredictProbabilities returns the per-class probability vector per row.
	PredictProbabilities(matrix [][]float64) ([][]float64, error)
}

// AnomalyDetector is the unsupervised outlier model.
type AnomalyDetector interface {
	// DecisionFunction returns the raw anomaly score per row; lower values
	// indicate more anomalous samples (isolation-forest convention).
	DecisionFunction(matrix [][]float64) ([]float64, error)
	// Predict returns -1 for outliers and 1 for inliers, per row.
	Predict(matrix [][]float64) ([]int, error)
}

// Scaler transforms a raw feature matrix into the scaled space the models
// were trained in.
type Scaler interface {
	Transform(matrix [][]float64) ([][]float64, error)
}

// LabelDecoder maps encoded class indices back to label names.
type LabelDecoder interface {
	Decode(encoded []int) ([]string, error)
}
