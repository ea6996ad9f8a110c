// Package attrs normalizes raw trainset attribute values, as found in tabular
// fleet exports, into the typed enums of the planner API. Matching is
// case-insensitive and ignores surrounding whitespace.
package attrs

import (
	"errors"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
)

var (
	errUnknownFitness  = errors.New("unknown fitness status")
	errUnknownCleaning = errors.New("unknown cleaning status")
	errUnknownStatus   = errors.New("unknown induction status")
)

// FitnessValueConfig lists the raw values accepted for each fitness status.
type FitnessValueConfig struct {
	ValidValues   []string
	PendingValues []string
	ExpiredValues []string
}

// CleaningValueConfig lists the raw values accepted for each cleaning status.
type CleaningValueConfig struct {
	CompleteValues   []string
	InProgressValues []string
	PendingValues    []string
}

// StatusValueConfig lists the raw values accepted for each induction status.
type StatusValueConfig struct {
	ReadyValues       []string
	StandbyValues     []string
	MaintenanceValues []string
}

// ValueConfig bundles the value lists of every enumerated attribute.
type ValueConfig struct {
	Fitness  FitnessValueConfig
	Cleaning CleaningValueConfig
	Status   StatusValueConfig
}

// DefaultValueConfig returns the value lists used by depot exports.
// "Expiring" certificates are treated as pending renewal.
func DefaultValueConfig() ValueConfig {
	return ValueConfig{
		Fitness: FitnessValueConfig{
			ValidValues:   []string{string(v1alpha1.FitnessValid)},
			PendingValues: []string{string(v1alpha1.FitnessPending), "expiring"},
			ExpiredValues: []string{string(v1alpha1.FitnessExpired)},
		},
		Cleaning: CleaningValueConfig{
			CompleteValues:   []string{string(v1alpha1.CleaningComplete), "completed", "done"},
			InProgressValues: []string{string(v1alpha1.CleaningInProgress), "in_progress", "inprogress", "in-progress"},
			PendingValues:    []string{string(v1alpha1.CleaningPending)},
		},
		Status: StatusValueConfig{
			ReadyValues:       []string{string(v1alpha1.StatusReady)},
			StandbyValues:     []string{string(v1alpha1.StatusStandby)},
			MaintenanceValues: []string{string(v1alpha1.StatusMaintenance)},
		},
	}
}
