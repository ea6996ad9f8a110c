/*
Copyright 2025 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package scorer

import (
	"fmt"
	"math"
	"os"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
	"github.com/llm-d/fleet-induction-planner/internal/config"
)

// Supported model features
const (
	FeatureJobCardsOpen     = "job_cards_open"
	FeatureBrandingHours    = "branding_hours"
	FeatureMileageKm        = "mileage_km"
	FeatureStablingPosition = "stabling_position"
	// FeatureFitnessLevel encodes Valid/Pending/Expired as 2/1/0.
	FeatureFitnessLevel = "fitness_level"
	// FeatureCleaningLevel encodes Complete/In Progress/Pending as 2/1/0.
	FeatureCleaningLevel = "cleaning_level"
)

type featureFunc func(t v1alpha1.Trainset) (float64, error)

var featureFuncs = map[string]featureFunc{
	FeatureJobCardsOpen:     func(t v1alpha1.Trainset) (float64, error) { return float64(t.JobCardsOpen), nil },
	FeatureBrandingHours:    func(t v1alpha1.Trainset) (float64, error) { return float64(t.BrandingHours), nil },
	FeatureMileageKm:        func(t v1alpha1.Trainset) (float64, error) { return float64(t.MileageKm), nil },
	FeatureStablingPosition: func(t v1alpha1.Trainset) (float64, error) { return float64(t.StablingPosition), nil },
	FeatureFitnessLevel:     fitnessLevel,
	FeatureCleaningLevel:    cleaningLevel,
}

func fitnessLevel(t v1alpha1.Trainset) (float64, error) {
	switch t.FitnessStatus {
	case v1alpha1.FitnessValid:
		return 2, nil
	case v1alpha1.FitnessPending:
		return 1, nil
	case v1alpha1.FitnessExpired:
		return 0, nil
	}
	return 0, fmt.Errorf("%w: trainset %d has fitness status %q", ErrMalformedTrainset, t.ID, t.FitnessStatus)
}

func cleaningLevel(t v1alpha1.Trainset) (float64, error) {
	switch t.CleaningStatus {
	case v1alpha1.CleaningComplete:
		return 2, nil
	case v1alpha1.CleaningInProgress:
		return 1, nil
	case v1alpha1.CleaningPending:
		return 0, nil
	}
	return 0, fmt.Errorf("%w: trainset %d has cleaning status %q", ErrMalformedTrainset, t.ID, t.CleaningStatus)
}

// ClassifierModel is a logistic regression classifier trained offline on
// historical attribute to status mappings.
//
// With a single coefficient row the model is binary and the row scores
// Classes[1]; otherwise there is one row per class and probabilities come
// from a softmax over the rows.
type ClassifierModel struct {
	// Features names the model inputs, in coefficient order.
	Features []string `yaml:"features"`

	// Classes is the label encoding of the model outputs.
	Classes []string `yaml:"classes"`

	// PositiveClass is the class whose probability is used as the score (e.g. "Ready" or "Assign").
	PositiveClass string `yaml:"positive_class"`

	// Coefficients holds one row per class, or a single row for a binary model.
	Coefficients [][]float64 `yaml:"coefficients"`

	// Intercepts holds one value per coefficient row.
	Intercepts []float64 `yaml:"intercepts"`

	// Scaler optionally standardizes inputs as (x - mean) / scale.
	Scaler *StandardScaler `yaml:"scaler,omitempty"`
}

// StandardScaler holds per-feature standardization parameters.
type StandardScaler struct {
	Mean  []float64 `yaml:"mean"`
	Scale []float64 `yaml:"scale"`
}

// Validate checks that the model is internally consistent.
func (m *ClassifierModel) Validate() error {
	n := len(m.Features)
	if n == 0 {
		return fmt.Errorf("model has no features")
	}
	for _, f := range m.Features {
		if _, ok := featureFuncs[f]; !ok {
			return fmt.Errorf("unsupported feature %q", f)
		}
	}
	if len(m.Classes) < 2 {
		return fmt.Errorf("model needs at least two classes, got %d", len(m.Classes))
	}
	if !slices.Contains(m.Classes, m.PositiveClass) {
		return fmt.Errorf("positive class %q is not one of %v", m.PositiveClass, m.Classes)
	}
	rows := len(m.Coefficients)
	binary := rows == 1 && len(m.Classes) == 2
	if !binary && rows != len(m.Classes) {
		return fmt.Errorf("expected %d coefficient rows, got %d", len(m.Classes), rows)
	}
	for i, row := range m.Coefficients {
		if len(row) != n {
			return fmt.Errorf("coefficient row %d has %d values, expected %d", i, len(row), n)
		}
	}
	if len(m.Intercepts) != rows {
		return fmt.Errorf("expected %d intercepts, got %d", rows, len(m.Intercepts))
	}
	if m.Scaler != nil {
		if len(m.Scaler.Mean) != n || len(m.Scaler.Scale) != n {
			return fmt.Errorf("scaler must have %d means and scales", n)
		}
		for i, s := range m.Scaler.Scale {
			if s == 0 {
				return fmt.Errorf("scaler scale for feature %q is zero", m.Features[i])
			}
		}
	}
	return nil
}

// ParseModel decodes and validates a YAML model.
func ParseModel(data []byte) (*ClassifierModel, error) {
	model := &ClassifierModel{}
	if err := yaml.Unmarshal(data, model); err != nil {
		return nil, fmt.Errorf("parsing classifier model: %w", err)
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid classifier model: %w", err)
	}
	return model, nil
}

// LoadModel reads a YAML model from path.
func LoadModel(path string) (*ClassifierModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading classifier model %s: %w", path, err)
	}
	return ParseModel(data)
}

// Probabilities returns the class membership probabilities of t, in Classes order.
func (m *ClassifierModel) Probabilities(t v1alpha1.Trainset) ([]float64, error) {
	x := make([]float64, len(m.Features))
	for i, name := range m.Features {
		v, err := featureFuncs[name](t)
		if err != nil {
			return nil, err
		}
		if m.Scaler != nil {
			v = (v - m.Scaler.Mean[i]) / m.Scaler.Scale[i]
		}
		x[i] = v
	}

	logits := make([]float64, len(m.Coefficients))
	for i, row := range m.Coefficients {
		logits[i] = floats.Dot(row, x) + m.Intercepts[i]
	}

	if len(logits) == 1 {
		p := sigmoid(logits[0])
		return []float64{1 - p, p}, nil
	}
	return softmax(logits), nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// softmax is shifted by the max logit to stay finite for large inputs.
func softmax(logits []float64) []float64 {
	maxLogit := floats.Max(logits)
	out := make([]float64, len(logits))
	for i, l := range logits {
		out[i] = math.Exp(l - maxLogit)
	}
	floats.Scale(1/floats.Sum(out), out)
	return out
}

// ProbabilisticScorer scores a trainset by the probability of the model's positive class.
type ProbabilisticScorer struct {
	model    *ClassifierModel
	positive int
}

// NewProbabilisticScorer creates a ProbabilisticScorer backed by model.
func NewProbabilisticScorer(model *ClassifierModel) (*ProbabilisticScorer, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: no classifier model loaded", ErrScorerUnavailable)
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScorerUnavailable, err)
	}
	return &ProbabilisticScorer{
		model:    model,
		positive: slices.Index(model.Classes, model.PositiveClass),
	}, nil
}

// Name implements Scorer.
func (s *ProbabilisticScorer) Name() string { return config.ScorerProbabilistic }

// Score implements Scorer.
func (s *ProbabilisticScorer) Score(t v1alpha1.Trainset) (float64, error) {
	if s.model == nil {
		return 0, fmt.Errorf("%w: no classifier model loaded", ErrScorerUnavailable)
	}
	probs, err := s.model.Probabilities(t)
	if err != nil {
		return 0, err
	}
	p := probs[s.positive]
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, fmt.Errorf("%w: classifier returned %v for trainset %d", ErrScorerUnavailable, p, t.ID)
	}
	return p, nil
}
