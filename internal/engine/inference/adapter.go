package inference

import (
	"fmt"
	"log"
	"sync"

	"NetSentry/internal/model"
)

// Fallback verdict when no usable supervised model is present.
const (
	FallbackLabel      = "BENIGN"
	FallbackConfidence = 0.5
)

// Adapter wraps the opaque trained models behind a uniform interface and
// degrades gracefully when any artifact is absent. It is immutable after
// construction and safe for concurrent use across analyses.
type Adapter struct {
	classifier model.Classifier
	decoder    model.LabelDecoder
	detector   model.AnomalyDetector
	scaler     model.Scaler

	fallbackWarn sync.Once
	scalerWarn   sync.Once
}

// NewAdapter builds an adapter from whatever capabilities are available.
// Any argument may be nil.
func NewAdapter(classifier model.Classifier, decoder model.LabelDecoder, detector model.AnomalyDetector, scaler model.Scaler) *Adapter {
	return &Adapter{
		classifier: classifier,
		decoder:    decoder,
		detector:   detector,
		scaler:     scaler,
	}
}

// SupervisedAvailable reports whether the supervised path can produce labels.
// Both the classifier and the label decoder are required.
func (a *Adapter) SupervisedAvailable() bool {
	return a.classifier != nil && a.decoder != nil
}

// AnomalyAvailable reports whether an anomaly detector is loaded.
func (a *Adapter) AnomalyAvailable() bool {
	return a.detector != nil
}

// Classify runs the supervised model over the feature matrix, returning one
// decoded label and the max class probability per row. Without a classifier
// or decoder, every row is BENIGN at confidence 0.5.
func (a *Adapter) Classify(matrix [][]float64) ([]string, []float64, error) {
	if !a.SupervisedAvailable() {
		a.fallbackWarn.Do(func() {
			log.Printf("Warning: supervised classifier or label decoder missing, labeling all flows %s at confidence %.1f", FallbackLabel, FallbackConfidence)
		})
		labels := make([]string, len(matrix))
		confidences := make([]float64, len(matrix))
		for i := range matrix {
			labels[i] = FallbackLabel
			confidences[i] = FallbackConfidence
		}
		return labels, confidences, nil
	}

	scaled, err := a.scale(matrix)
	if err != nil {
		return nil, nil, err
	}

	encoded, err := a.classifier.Predict(scaled)
	if err != nil {
		return nil, nil, fmt.Errorf("classifier predict failed: %w", err)
	}
	probs, err := a.classifier.PredictProbabilities(scaled)
	if err != nil {
		return nil, nil, fmt.Errorf("classifier predict_proba failed: %w", err)
	}
	labels, err := a.decoder.Decode(encoded)
	if err != nil {
		return nil, nil, fmt.Errorf("label decode failed: %w", err)
	}

	confidences := make([]float64, len(probs))
	for i, p := range probs {
		var best float64
		for _, v := range p {
			if v > best {
				best = v
			}
		}
		confidences[i] = best
	}
	return labels, confidences, nil
}

// ScoreAnomaly runs the anomaly detector, remapping its decision function to
// a 0-1 scale where higher means more anomalous, plus the native outlier
// flags. Without a detector, scores are zero and no flow is flagged.
func (a *Adapter) ScoreAnomaly(matrix [][]float64) ([]float64, []bool, error) {
	if a.detector == nil {
		return make([]float64, len(matrix)), make([]bool, len(matrix)), nil
	}

	scaled, err := a.scale(matrix)
	if err != nil {
		return nil, nil, err
	}

	decisions, err := a.detector.DecisionFunction(scaled)
	if err != nil {
		return nil, nil, fmt.Errorf("anomaly decision function failed: %w", err)
	}
	preds, err := a.detector.Predict(scaled)
	if err != nil {
		return nil, nil, fmt.Errorf("anomaly predict failed: %w", err)
	}

	scores := make([]float64, len(decisions))
	flags := make([]bool, len(decisions))
	for i, d := range decisions {
		// Lower decision values are more anomalous; remap to higher = worse.
		s := 0.5 - d
		if s < 0 {
			s = 0
		} else if s > 1 {
			s = 1
		}
		scores[i] = s
		flags[i] = preds[i] == -1
	}
	return scores, flags, nil
}

// scale passes the matrix through the fitted scaler, or returns it untouched
// (with a one-time warning) when no scaler is loaded.
func (a *Adapter) scale(matrix [][]float64) ([][]float64, error) {
	if a.scaler == nil {
		a.scalerWarn.Do(func() {
			log.Println("Warning: feature scaler missing, models receive unscaled features; predictions will be degraded.")
		})
		return matrix, nil
	}
	scaled, err := a.scaler.Transform(matrix)
	if err != nil {
		return nil, fmt.Errorf("feature scaling failed: %w", err)
	}
	return scaled, nil
}
