package artifacts

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStandardScalerTransform(t *testing.T) {
	s := StandardScaler{Mean: []float64{10, 0}, Scale: []float64{2, 0}}
	out, err := s.Transform([][]float64{{14, 3}})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if out[0][0] != 2 {
		t.Errorf("expected (14-10)/2 = 2, got %v", out[0][0])
	}
	// Zero scale degrades to division by one instead of Inf.
	if out[0][1] != 3 {
		t.Errorf("expected zero-scale column to pass through, got %v", out[0][1])
	}

	if _, err := s.Transform([][]float64{{1, 2, 3}}); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestLabelEncoderDecode(t *testing.T) {
	e := LabelEncoder{Classes: []string{"BENIGN", "DDoS"}}
	labels, err := e.Decode([]int{1, 0})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if labels[0] != "DDoS" || labels[1] != "BENIGN" {
		t.Errorf("unexpected labels: %v", labels)
	}

	if _, err := e.Decode([]int{2}); err == nil {
		t.Error("expected out-of-range error")
	}
}

func TestLoadMissingDirectoryDegrades(t *testing.T) {
	set := Load(filepath.Join(t.TempDir(), "nonexistent"))
	if set.Classifier != nil || set.Detector != nil || set.Scaler != nil || set.Decoder != nil {
		t.Error("a missing artifacts directory must leave every capability nil")
	}
	if len(set.FeatureNames) != 0 {
		t.Errorf("expected no feature names, got %v", set.FeatureNames)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	scaler := StandardScaler{Mean: []float64{1, 2}, Scale: []float64{3, 4}}
	encoder := LabelEncoder{Classes: []string{"BENIGN", "Bot"}}
	names := []string{"Flow Duration", "Flow Bytes/s"}

	if err := Save(filepath.Join(dir, "scaler.json"), &scaler); err != nil {
		t.Fatalf("Save scaler failed: %v", err)
	}
	if err := Save(filepath.Join(dir, "label_encoder.json"), &encoder); err != nil {
		t.Fatalf("Save encoder failed: %v", err)
	}
	if err := Save(filepath.Join(dir, "feature_names.json"), names); err != nil {
		t.Fatalf("Save feature names failed: %v", err)
	}

	set := Load(dir)
	if set.Scaler == nil {
		t.Fatal("scaler did not load")
	}
	if set.Decoder == nil {
		t.Fatal("label encoder did not load")
	}
	if len(set.FeatureNames) != 2 || set.FeatureNames[0] != "Flow Duration" {
		t.Errorf("unexpected feature names: %v", set.FeatureNames)
	}

	labels, err := set.Decoder.Decode([]int{1})
	if err != nil || labels[0] != "Bot" {
		t.Errorf("decoded labels wrong: %v (%v)", labels, err)
	}
	// The classifier and detector were never written and must stay absent.
	if set.Classifier != nil || set.Detector != nil {
		t.Error("unwritten artifacts must remain nil")
	}
}

func TestLoadCorruptArtifactIsSkipped(t *testing.T) {
	dir := t.TempDir()
	if err := Save(filepath.Join(dir, "scaler.json"), &StandardScaler{Mean: []float64{1}, Scale: []float64{1}}); err != nil {
		t.Fatal(err)
	}
	// rf_model.json with garbage content must not prevent the rest loading.
	if err := os.WriteFile(filepath.Join(dir, "rf_model.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	set := Load(dir)
	if set.Classifier != nil {
		t.Error("corrupt classifier artifact must be ignored")
	}
	if set.Scaler == nil {
		t.Error("valid scaler must still load")
	}
}
