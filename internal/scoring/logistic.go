package scoring

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// weightsFile is the YAML shape of an exported model: one weight row plus
// bias per class, applied to the frozen feature layout.
type weightsFile struct {
	Classes []classWeights `yaml:"classes"`
}

type classWeights struct {
	Class   Class     `yaml:"class"`
	Weights []float64 `yaml:"weights"`
	Bias    float64   `yaml:"bias"`
}

// LogisticScorer is a multinomial logistic model loaded from an exported
// weights file. Zero value is an unavailable scorer.
type LogisticScorer struct {
	classes []classWeights
}

// LoadLogistic reads a weights file. A missing file is not an error: it
// returns an unavailable scorer, and the model evaluator contributes
// nothing. A present-but-invalid file is an error: a half-loaded model
// must not silently score.
func LoadLogistic(path string) (*LogisticScorer, error) {
	if path == "" {
		return &LogisticScorer{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LogisticScorer{}, nil
		}
		return nil, fmt.Errorf("scoring: read %s: %w", path, err)
	}

	var wf weightsFile
	if err := yaml.Unmarshal(raw, &wf); err != nil {
		return nil, fmt.Errorf("scoring: parse %s: %w", path, err)
	}
	if len(wf.Classes) == 0 {
		return nil, fmt.Errorf("scoring: %s has no classes", path)
	}
	for _, c := range wf.Classes {
		if len(c.Weights) != FeatureCount {
			return nil, fmt.Errorf("scoring: class %s has %d weights, want %d", c.Class, len(c.Weights), FeatureCount)
		}
	}
	return &LogisticScorer{classes: wf.Classes}, nil
}

// Available reports whether a trained model is loaded.
func (s *LogisticScorer) Available() bool {
	return s != nil && len(s.classes) > 0
}

// Predict returns the argmax class and its softmax probability.
func (s *LogisticScorer) Predict(features []float64) (Class, float64, error) {
	if !s.Available() {
		return "", 0, fmt.Errorf("scoring: no model loaded")
	}
	if len(features) != FeatureCount {
		return "", 0, fmt.Errorf("scoring: got %d features, want %d", len(features), FeatureCount)
	}

	scores := make([]float64, len(s.classes))
	maxScore := math.Inf(-1)
	for i, c := range s.classes {
		z := c.Bias
		for j, w := range c.Weights {
			z += w * features[j]
		}
		scores[i] = z
		if z > maxScore {
			maxScore = z
		}
	}

	// Softmax with max subtraction for numeric stability.
	sum := 0.0
	for i := range scores {
		scores[i] = math.Exp(scores[i] - maxScore)
		sum += scores[i]
	}

	best := 0
	for i := range scores {
		scores[i] /= sum
		if scores[i] > scores[best] {
			best = i
		}
	}
	return s.classes[best].Class, scores[best], nil
}
