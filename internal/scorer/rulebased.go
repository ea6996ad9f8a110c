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

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
	"github.com/llm-d/fleet-induction-planner/internal/config"
)

// Terms is the per-attribute breakdown of a rule-based score.
type Terms struct {
	Certification float64
	JobCards      float64
	Utilization   float64
	Mileage       float64
	Cleaning      float64
	Noise         float64
}

// Total sums all terms.
func (t Terms) Total() float64 {
	return t.Certification + t.JobCards + t.Utilization + t.Mileage + t.Cleaning + t.Noise
}

// RuleBasedScorer computes a weighted additive score with bounded terms.
type RuleBasedScorer struct {
	weights config.ScoringConfig
	noise   NoiseSource
}

// NewRuleBasedScorer creates a RuleBasedScorer. A nil noise source disables perturbation.
func NewRuleBasedScorer(weights config.ScoringConfig, noise NoiseSource) (*RuleBasedScorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring weights: %w", err)
	}
	if noise == nil {
		noise = ZeroNoise{}
	}
	return &RuleBasedScorer{
		weights: weights,
		noise:   noise,
	}, nil
}

// Name implements Scorer.
func (s *RuleBasedScorer) Name() string { return config.ScorerRule }

// Score implements Scorer.
func (s *RuleBasedScorer) Score(t v1alpha1.Trainset) (float64, error) {
	terms, err := s.Breakdown(t)
	if err != nil {
		return 0, err
	}
	return terms.Total(), nil
}

// Breakdown returns the individual terms of the score of t, including one noise sample.
func (s *RuleBasedScorer) Breakdown(t v1alpha1.Trainset) (Terms, error) {
	w := s.weights
	var terms Terms

	switch t.FitnessStatus {
	case v1alpha1.FitnessValid:
		terms.Certification = w.Fitness.Valid
	case v1alpha1.FitnessPending:
		terms.Certification = w.Fitness.Pending
	case v1alpha1.FitnessExpired:
		terms.Certification = w.Fitness.Expired
	default:
		return Terms{}, fmt.Errorf("%w: trainset %d has fitness status %q", ErrMalformedTrainset, t.ID, t.FitnessStatus)
	}

	if t.JobCardsOpen < 0 || t.BrandingHours < 0 || t.MileageKm < 0 {
		return Terms{}, fmt.Errorf("%w: trainset %d has a negative counter", ErrMalformedTrainset, t.ID)
	}

	// more open cards, fewer points; four or more cards contribute nothing with the defaults
	terms.JobCards = math.Max(0, w.JobCards.Base-w.JobCards.PenaltyPerCard*float64(t.JobCardsOpen))

	terms.Utilization = math.Min(w.Utilization.Cap, float64(t.BrandingHours)/w.Utilization.HoursPerPoint)

	switch {
	case t.MileageKm < w.Mileage.LowerKm:
		terms.Mileage = w.Mileage.Below
	case t.MileageKm <= w.Mileage.UpperKm:
		terms.Mileage = w.Mileage.Within
	default:
		terms.Mileage = w.Mileage.Above
	}

	switch t.CleaningStatus {
	case v1alpha1.CleaningComplete:
		terms.Cleaning = w.Cleaning.Complete
	case v1alpha1.CleaningInProgress:
		terms.Cleaning = w.Cleaning.InProgress
	case v1alpha1.CleaningPending:
		terms.Cleaning = w.Cleaning.Pending
	default:
		return Terms{}, fmt.Errorf("%w: trainset %d has cleaning status %q", ErrMalformedTrainset, t.ID, t.CleaningStatus)
	}

	terms.Noise = s.noise.Sample()
	return terms, nil
}
