package scoring

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeWeights(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weights.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// weightsYAML builds a three-class weights file where each class scores its
// bias plus weight*f[0].
func weightsYAML(redW, yellowW, greenW float64) string {
	row := func(class string, w float64) string {
		weights := make([]string, FeatureCount)
		weights[0] = fmt.Sprintf("%g", w)
		for i := 1; i < FeatureCount; i++ {
			weights[i] = "0"
		}
		return fmt.Sprintf("  - class: %s\n    weights: [%s]\n    bias: 0\n",
			class, strings.Join(weights, ", "))
	}
	return "classes:\n" + row("red", redW) + row("yellow", yellowW) + row("green", greenW)
}

func TestLoadLogistic_EmptyPath(t *testing.T) {
	s, err := LoadLogistic("")
	if err != nil {
		t.Fatalf("LoadLogistic(\"\"): %v", err)
	}
	if s.Available() {
		t.Error("empty path should give an unavailable scorer")
	}
}

func TestLoadLogistic_MissingFile(t *testing.T) {
	s, err := LoadLogistic(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if s.Available() {
		t.Error("missing file should give an unavailable scorer")
	}
}

func TestLoadLogistic_InvalidYAML(t *testing.T) {
	path := writeWeights(t, "classes: {broken")
	if _, err := LoadLogistic(path); err == nil {
		t.Fatal("invalid YAML should be an error")
	}
}

func TestLoadLogistic_NoClasses(t *testing.T) {
	path := writeWeights(t, "classes: []")
	if _, err := LoadLogistic(path); err == nil {
		t.Fatal("a weights file with no classes should be an error")
	}
}

func TestLoadLogistic_WrongWeightCount(t *testing.T) {
	path := writeWeights(t, "classes:\n  - class: red\n    weights: [1, 2, 3]\n    bias: 0\n")
	if _, err := LoadLogistic(path); err == nil {
		t.Fatal("a class with the wrong weight count should be an error")
	}
}

func TestLogisticScorer_Predict(t *testing.T) {
	path := writeWeights(t, weightsYAML(2, 0, -2))
	s, err := LoadLogistic(path)
	if err != nil {
		t.Fatalf("LoadLogistic: %v", err)
	}
	if !s.Available() {
		t.Fatal("loaded scorer should be available")
	}

	features := make([]float64, FeatureCount)
	features[0] = 1

	class, prob, err := s.Predict(features)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if class != ClassRed {
		t.Errorf("class = %s, want red for the highest-scoring row", class)
	}
	if prob <= 1.0/3 || prob >= 1 {
		t.Errorf("argmax probability = %v, want in (1/3, 1)", prob)
	}
}

func TestLogisticScorer_PredictFlipsWithSign(t *testing.T) {
	path := writeWeights(t, weightsYAML(2, 0, -2))
	s, err := LoadLogistic(path)
	if err != nil {
		t.Fatalf("LoadLogistic: %v", err)
	}

	features := make([]float64, FeatureCount)
	features[0] = -1

	class, _, err := s.Predict(features)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if class != ClassGreen {
		t.Errorf("class = %s, want green when the feature sign flips", class)
	}
}

func TestLogisticScorer_PredictErrors(t *testing.T) {
	var unloaded *LogisticScorer
	if unloaded.Available() {
		t.Error("nil scorer should be unavailable")
	}
	if _, _, err := (&LogisticScorer{}).Predict(make([]float64, FeatureCount)); err == nil {
		t.Error("predicting with no model should be an error")
	}

	path := writeWeights(t, weightsYAML(1, 0, -1))
	s, err := LoadLogistic(path)
	if err != nil {
		t.Fatalf("LoadLogistic: %v", err)
	}
	if _, _, err := s.Predict([]float64{1, 2}); err == nil {
		t.Error("wrong feature width should be an error")
	}
}
