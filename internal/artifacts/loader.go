package artifacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"NetSentry/internal/model"
)

// Artifact file names inside the artifacts directory.
const (
	classifierFile   = "rf_model.json"
	detectorFile     = "if_model.json"
	scalerFile       = "scaler.json"
	labelEncoderFile = "label_encoder.json"
	featureNamesFile = "feature_names.json"
)

// Set holds every trained artifact the engine can consume. Any field may be
// nil/empty; absence selects a degraded mode instead of failing construction.
type Set struct {
	Classifier   model.Classifier
	Detector     model.AnomalyDetector
	Scaler       model.Scaler
	Decoder      model.LabelDecoder
	FeatureNames []string
}

// Load reads all artifacts found under dir. A missing file only logs a
// warning; a present but unreadable file does too, leaving that capability
// absent, mirroring how partial model deployments are tolerated.
func Load(dir string) *Set {
	set := &Set{}

	var rf RandomForest
	if loadJSON(filepath.Join(dir, classifierFile), &rf) {
		if err := rf.validate(); err != nil {
			log.Printf("Warning: ignoring invalid classifier artifact: %v", err)
		} else {
			set.Classifier = &rf
		}
	}

	var ifo IsolationForest
	if loadJSON(filepath.Join(dir, detectorFile), &ifo) {
		if err := ifo.validate(); err != nil {
			log.Printf("Warning: ignoring invalid anomaly detector artifact: %v", err)
		} else {
			set.Detector = &ifo
		}
	}

	var sc StandardScaler
	if loadJSON(filepath.Join(dir, scalerFile), &sc) {
		set.Scaler = &sc
	}

	var le LabelEncoder
	if loadJSON(filepath.Join(dir, labelEncoderFile), &le) {
		set.Decoder = &le
	}

	loadJSON(filepath.Join(dir, featureNamesFile), &set.FeatureNames)

	return set
}

// loadJSON reads and unmarshals one artifact file, reporting success.
func loadJSON(path string, v interface{}) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("Warning: artifact %s not found, skipping.", filepath.Base(path))
		} else {
			log.Printf("Warning: could not read artifact %s: %v", filepath.Base(path), err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("Warning: could not decode artifact %s: %v", filepath.Base(path), err)
		return false
	}
	return true
}

// Save writes a serializable artifact as indented JSON, used by tooling that
// exports trained models into the engine's format.
func Save(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	return nil
}
