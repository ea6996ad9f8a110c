package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/llm-d/fleet-induction-planner/internal/logging"
)

// ScoringConfig holds the weights of the rule-based scorer.
// Every term is bounded; the total without noise lies in [0, 10.5] with the defaults.
type ScoringConfig struct {
	// Fitness maps certification state to points.
	Fitness FitnessWeights `yaml:"fitness" json:"fitness"`

	// JobCards penalizes open job cards linearly, floored at zero.
	JobCards JobCardWeights `yaml:"jobCards" json:"jobCards"`

	// Utilization rewards branding hours up to a cap.
	Utilization UtilizationWeights `yaml:"utilization" json:"utilization"`

	// Mileage awards banded points for cumulative distance.
	Mileage MileageBands `yaml:"mileage" json:"mileage"`

	// Cleaning maps cleaning state to points.
	Cleaning CleaningWeights `yaml:"cleaning" json:"cleaning"`
}

// FitnessWeights are the certification term points.
type FitnessWeights struct {
	Valid   float64 `yaml:"valid" json:"valid"`
	Pending float64 `yaml:"pending" json:"pending"`
	Expired float64 `yaml:"expired" json:"expired"`
}

// JobCardWeights computes max(0, Base - PenaltyPerCard*open).
type JobCardWeights struct {
	Base           float64 `yaml:"base" json:"base"`
	PenaltyPerCard float64 `yaml:"penaltyPerCard" json:"penaltyPerCard"`
}

// UtilizationWeights computes min(Cap, hours/HoursPerPoint).
type UtilizationWeights struct {
	HoursPerPoint float64 `yaml:"hoursPerPoint" json:"hoursPerPoint"`
	Cap           float64 `yaml:"cap" json:"cap"`
}

// MileageBands awards Within for mileage in [LowerKm, UpperKm], Below under it and Above over it.
type MileageBands struct {
	LowerKm int     `yaml:"lowerKm" json:"lowerKm"`
	UpperKm int     `yaml:"upperKm" json:"upperKm"`
	Below   float64 `yaml:"below" json:"below"`
	Within  float64 `yaml:"within" json:"within"`
	Above   float64 `yaml:"above" json:"above"`
}

// CleaningWeights are the cleaning term points.
type CleaningWeights struct {
	Complete   float64 `yaml:"complete" json:"complete"`
	InProgress float64 `yaml:"inProgress" json:"inProgress"`
	Pending    float64 `yaml:"pending" json:"pending"`
}

// DefaultScoringConfig returns the standard induction weights.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Fitness: FitnessWeights{Valid: 3.0, Pending: 1.5, Expired: 0.0},
		JobCards: JobCardWeights{
			Base:           2.0,
			PenaltyPerCard: 0.5,
		},
		Utilization: UtilizationWeights{
			HoursPerPoint: 150.0,
			Cap:           2.0,
		},
		Mileage: MileageBands{
			LowerKm: 60000,
			UpperKm: 100000,
			Below:   1.0,
			Within:  1.5,
			Above:   0.5,
		},
		Cleaning: CleaningWeights{Complete: 2.0, InProgress: 1.0, Pending: 0.0},
	}
}

// Validate checks for invalid weight values.
func (c *ScoringConfig) Validate() error {
	weights := []struct {
		name  string
		value float64
	}{
		{"fitness.valid", c.Fitness.Valid},
		{"fitness.pending", c.Fitness.Pending},
		{"fitness.expired", c.Fitness.Expired},
		{"jobCards.base", c.JobCards.Base},
		{"jobCards.penaltyPerCard", c.JobCards.PenaltyPerCard},
		{"utilization.hoursPerPoint", c.Utilization.HoursPerPoint},
		{"utilization.cap", c.Utilization.Cap},
		{"mileage.below", c.Mileage.Below},
		{"mileage.within", c.Mileage.Within},
		{"mileage.above", c.Mileage.Above},
		{"cleaning.complete", c.Cleaning.Complete},
		{"cleaning.inProgress", c.Cleaning.InProgress},
		{"cleaning.pending", c.Cleaning.Pending},
	}
	for _, w := range weights {
		if math.IsNaN(w.value) || math.IsInf(w.value, 0) {
			return fmt.Errorf("%s must be finite, got %v", w.name, w.value)
		}
		if w.value < 0 {
			return fmt.Errorf("%s must be >= 0, got %.2f", w.name, w.value)
		}
	}
	if c.Utilization.HoursPerPoint == 0 {
		return fmt.Errorf("utilization.hoursPerPoint must be > 0")
	}
	if c.Mileage.LowerKm < 0 {
		return fmt.Errorf("mileage.lowerKm must be >= 0, got %d", c.Mileage.LowerKm)
	}
	if c.Mileage.LowerKm > c.Mileage.UpperKm {
		return fmt.Errorf("mileage.lowerKm (%d) should be <= mileage.upperKm (%d)",
			c.Mileage.LowerKm, c.Mileage.UpperKm)
	}
	return nil
}

// ParseScoringConfig parses YAML weights on top of the defaults.
// Keys absent from data keep their default value.
func ParseScoringConfig(data []byte) (ScoringConfig, error) {
	cfg := DefaultScoringConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ScoringConfig{}, fmt.Errorf("parsing scoring config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return ScoringConfig{}, fmt.Errorf("invalid scoring config: %w", err)
	}
	return cfg, nil
}

// LoadScoringConfig reads weights from path, or returns the defaults when path is empty.
func LoadScoringConfig(path string) (ScoringConfig, error) {
	if path == "" {
		return DefaultScoringConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ScoringConfig{}, fmt.Errorf("reading scoring config %s: %w", path, err)
	}
	cfg, err := ParseScoringConfig(data)
	if err != nil {
		return ScoringConfig{}, err
	}
	ctrl.Log.V(logging.DEBUG).Info("Loaded scoring config", "path", path)
	return cfg, nil
}
