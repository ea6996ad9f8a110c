package v1alpha1

import (
	"slices"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// ValidateTrainset checks that every attribute of t is within its domain.
func ValidateTrainset(t *Trainset, fldPath *field.Path) field.ErrorList {
	var allErrs field.ErrorList

	if t.ID <= 0 {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("id"), t.ID, "must be positive"))
	}
	if t.Name == "" {
		allErrs = append(allErrs, field.Required(fldPath.Child("name"), ""))
	}
	if !slices.Contains(AllFitnessStatuses, t.FitnessStatus) {
		allErrs = append(allErrs, field.NotSupported(fldPath.Child("fitness_status"), t.FitnessStatus, AllFitnessStatuses))
	}
	if t.JobCardsOpen < 0 {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("job_cards_open"), t.JobCardsOpen, "must be non-negative"))
	}
	if t.BrandingHours < 0 {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("branding_hours"), t.BrandingHours, "must be non-negative"))
	}
	if t.MileageKm < 0 {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("mileage_km"), t.MileageKm, "must be non-negative"))
	}
	if !slices.Contains(AllCleaningStatuses, t.CleaningStatus) {
		allErrs = append(allErrs, field.NotSupported(fldPath.Child("cleaning_status"), t.CleaningStatus, AllCleaningStatuses))
	}
	if t.StablingPosition < 1 {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("stabling_position"), t.StablingPosition, "must be at least 1"))
	}
	if !slices.Contains(AllInductionStatuses, t.Status) {
		allErrs = append(allErrs, field.NotSupported(fldPath.Child("status"), t.Status, AllInductionStatuses))
	}
	return allErrs
}

// ValidateFleet validates every trainset and rejects duplicate IDs and empty fleets.
func ValidateFleet(trainsets []Trainset) field.ErrorList {
	root := field.NewPath("trainsets")
	if len(trainsets) == 0 {
		return field.ErrorList{field.Required(root, "fleet must contain at least one trainset")}
	}

	var allErrs field.ErrorList
	seen := make(map[int]struct{}, len(trainsets))
	for i := range trainsets {
		idxPath := root.Index(i)
		allErrs = append(allErrs, ValidateTrainset(&trainsets[i], idxPath)...)
		if _, dup := seen[trainsets[i].ID]; dup {
			allErrs = append(allErrs, field.Duplicate(idxPath.Child("id"), trainsets[i].ID))
			continue
		}
		seen[trainsets[i].ID] = struct{}{}
	}
	return allErrs
}
