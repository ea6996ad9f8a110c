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

// Package scorer computes the fitness-for-service score of a trainset.
// Higher scores make a trainset a better candidate for Ready.
package scorer

import (
	"errors"
	"fmt"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
	"github.com/llm-d/fleet-induction-planner/internal/config"
)

var (
	// ErrMalformedTrainset is returned when a trainset attribute is outside its domain.
	ErrMalformedTrainset = errors.New("malformed trainset")
	// ErrScorerUnavailable is returned when a scorer cannot produce a score at all.
	ErrScorerUnavailable = errors.New("scorer unavailable")
)

// Scorer maps a trainset to a scalar desirability score.
// Implementations must not modify the trainset and must return a finite
// score for every valid trainset.
type Scorer interface {
	// Name identifies the strategy in logs and metrics.
	Name() string
	// Score returns the desirability of t.
	Score(t v1alpha1.Trainset) (float64, error)
}

// Strategy is an enumeration of the available scoring strategies
type Strategy int

// enumeration of Strategy
const (
	RuleStrategy Strategy = iota
	ProbabilisticStrategy
)

func (s Strategy) String() string {
	switch s {
	case RuleStrategy:
		return config.ScorerRule
	case ProbabilisticStrategy:
		return config.ScorerProbabilistic
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy converts a configured strategy name into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case config.ScorerRule:
		return RuleStrategy, nil
	case config.ScorerProbabilistic:
		return ProbabilisticStrategy, nil
	default:
		return 0, fmt.Errorf("unsupported scorer strategy: %q", name)
	}
}

// Options carries the dependencies of every strategy; each strategy reads only its own fields.
type Options struct {
	// Weights configures the rule strategy.
	Weights config.ScoringConfig
	// Noise perturbs rule scores. Nil means no perturbation.
	Noise NoiseSource
	// Model backs the probabilistic strategy.
	Model *ClassifierModel
}

// New is a factory that creates a new Scorer based on the provided strategy
func New(strategy Strategy, opts Options) (Scorer, error) {
	switch strategy {
	case RuleStrategy:
		return NewRuleBasedScorer(opts.Weights, opts.Noise)
	case ProbabilisticStrategy:
		return NewProbabilisticScorer(opts.Model)
	default:
		return nil, fmt.Errorf("unsupported scorer strategy: %v", strategy)
	}
}
