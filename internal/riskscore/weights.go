package riskscore

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Weights holds the contribution of each sub-score to the composite.
// LeveragePenalty is subtractive; the rest are additive.
type Weights struct {
	Tolerance       float64 `yaml:"tolerance"`
	Capacity        float64 `yaml:"capacity"`
	TimeHorizon     float64 `yaml:"time_horizon"`
	Stability       float64 `yaml:"stability"`
	Knowledge       float64 `yaml:"knowledge"`
	LeveragePenalty float64 `yaml:"leverage_penalty"`
}

// DefaultWeights returns the production weighting. Additive weights sum to 1.
func DefaultWeights() Weights {
	return Weights{
		Tolerance:       0.30,
		Capacity:        0.20,
		TimeHorizon:     0.20,
		Stability:       0.15,
		Knowledge:       0.10,
		LeveragePenalty: 0.05,
	}
}

// Validate checks that a Weights is internally consistent: all weights
// non-negative and the additive weights summing to 1 within float tolerance,
// so an unclamped maximum cannot exceed 100.
func (w Weights) Validate() error {
	var errs []string

	named := []struct {
		name  string
		value float64
	}{
		{"tolerance", w.Tolerance},
		{"capacity", w.Capacity},
		{"time_horizon", w.TimeHorizon},
		{"stability", w.Stability},
		{"knowledge", w.Knowledge},
		{"leverage_penalty", w.LeveragePenalty},
	}
	for _, nv := range named {
		if nv.value < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", nv.name))
		}
	}

	sum := w.Tolerance + w.Capacity + w.TimeHorizon + w.Stability + w.Knowledge
	if math.Abs(sum-1) > 0.001 {
		errs = append(errs, fmt.Sprintf("additive weights must sum to 1, got %.3f", sum))
	}

	if len(errs) > 0 {
		return eris.Errorf("riskscore: weights validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LoadWeights reads a YAML weights file and validates it.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, eris.Wrapf(err, "riskscore: read weights %s", path)
	}

	w := DefaultWeights()
	if err := yaml.Unmarshal(data, &w); err != nil {
		return Weights{}, eris.Wrapf(err, "riskscore: parse weights %s", path)
	}
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}
