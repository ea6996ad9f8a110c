package attrs

import (
	"fmt"
	"strings"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
)

// ParseFitness maps a raw value to a FitnessStatus.
func (c ValueConfig) ParseFitness(raw string) (v1alpha1.FitnessStatus, error) {
	switch {
	case matchValue(raw, c.Fitness.ValidValues):
		return v1alpha1.FitnessValid, nil
	case matchValue(raw, c.Fitness.PendingValues):
		return v1alpha1.FitnessPending, nil
	case matchValue(raw, c.Fitness.ExpiredValues):
		return v1alpha1.FitnessExpired, nil
	}
	return "", fmt.Errorf("%w: %q", errUnknownFitness, raw)
}

// ParseCleaning maps a raw value to a CleaningStatus.
func (c ValueConfig) ParseCleaning(raw string) (v1alpha1.CleaningStatus, error) {
	switch {
	case matchValue(raw, c.Cleaning.CompleteValues):
		return v1alpha1.CleaningComplete, nil
	case matchValue(raw, c.Cleaning.InProgressValues):
		return v1alpha1.CleaningInProgress, nil
	case matchValue(raw, c.Cleaning.PendingValues):
		return v1alpha1.CleaningPending, nil
	}
	return "", fmt.Errorf("%w: %q", errUnknownCleaning, raw)
}

// ParseStatus maps a raw value to an InductionStatus.
// An empty value is treated as Maintenance so that fresh exports without an
// assignment column still hold exactly one status per trainset.
func (c ValueConfig) ParseStatus(raw string) (v1alpha1.InductionStatus, error) {
	switch {
	case strings.TrimSpace(raw) == "":
		return v1alpha1.StatusMaintenance, nil
	case matchValue(raw, c.Status.ReadyValues):
		return v1alpha1.StatusReady, nil
	case matchValue(raw, c.Status.StandbyValues):
		return v1alpha1.StatusStandby, nil
	case matchValue(raw, c.Status.MaintenanceValues):
		return v1alpha1.StatusMaintenance, nil
	}
	return "", fmt.Errorf("%w: %q", errUnknownStatus, raw)
}

// Normalize rewrites the enumerated attributes of t to their canonical values.
func (c ValueConfig) Normalize(t *v1alpha1.Trainset) error {
	fitness, err := c.ParseFitness(string(t.FitnessStatus))
	if err != nil {
		return err
	}
	cleaning, err := c.ParseCleaning(string(t.CleaningStatus))
	if err != nil {
		return err
	}
	status, err := c.ParseStatus(string(t.Status))
	if err != nil {
		return err
	}
	t.FitnessStatus, t.CleaningStatus, t.Status = fitness, cleaning, status
	return nil
}

// matchValue reports whether raw equals one of values, ignoring case and surrounding space.
func matchValue(raw string, values []string) bool {
	raw = strings.TrimSpace(raw)
	for _, v := range values {
		if strings.EqualFold(raw, v) {
			return true
		}
	}
	return false
}
