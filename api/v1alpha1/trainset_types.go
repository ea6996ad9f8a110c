// Package v1alpha1 contains the wire types of the induction planner API.
package v1alpha1

// FitnessStatus is the certification state of a trainset.
type FitnessStatus string

const (
	// FitnessValid indicates a current fitness certificate.
	FitnessValid FitnessStatus = "Valid"
	// FitnessPending indicates a certificate that is pending renewal or about to expire.
	FitnessPending FitnessStatus = "Pending"
	// FitnessExpired indicates a lapsed certificate.
	FitnessExpired FitnessStatus = "Expired"
)

// CleaningStatus is the cleaning state of a trainset.
type CleaningStatus string

const (
	CleaningComplete   CleaningStatus = "Complete"
	CleaningInProgress CleaningStatus = "In Progress"
	CleaningPending    CleaningStatus = "Pending"
)

// InductionStatus is the daily operational status assigned by the optimizer.
type InductionStatus string

const (
	// StatusReady marks a trainset inducted into revenue service.
	StatusReady InductionStatus = "Ready"
	// StatusStandby marks a trainset held as hot reserve.
	StatusStandby InductionStatus = "Standby"
	// StatusMaintenance marks a trainset held back in the depot.
	// It is also the residual bucket for trainsets beyond the ready and standby targets.
	StatusMaintenance InductionStatus = "Maintenance"
)

// AllFitnessStatuses lists the valid FitnessStatus values.
var AllFitnessStatuses = []FitnessStatus{FitnessValid, FitnessPending, FitnessExpired}

// AllCleaningStatuses lists the valid CleaningStatus values.
var AllCleaningStatuses = []CleaningStatus{CleaningComplete, CleaningInProgress, CleaningPending}

// AllInductionStatuses lists the valid InductionStatus values in assignment order.
var AllInductionStatuses = []InductionStatus{StatusReady, StatusStandby, StatusMaintenance}

// Trainset is one unit of the fleet together with its operational attributes.
type Trainset struct {
	// ID is the stable identifier of the trainset, unique across the fleet.
	ID int `json:"id" yaml:"id"`

	// Name is the human-readable rake name (e.g. "Rake 07").
	Name string `json:"name" yaml:"name"`

	// FitnessStatus is the certification state.
	FitnessStatus FitnessStatus `json:"fitness_status" yaml:"fitness_status"`

	// JobCardsOpen is the number of outstanding maintenance job cards.
	JobCardsOpen int `json:"job_cards_open" yaml:"job_cards_open"`

	// BrandingHours is the accumulated advertising exposure in hours.
	BrandingHours int `json:"branding_hours" yaml:"branding_hours"`

	// MileageKm is the cumulative distance run.
	MileageKm int `json:"mileage_km" yaml:"mileage_km"`

	// CleaningStatus is the cleaning state.
	CleaningStatus CleaningStatus `json:"cleaning_status" yaml:"cleaning_status"`

	// StablingPosition is the physical yard slot, starting at 1.
	StablingPosition int `json:"stabling_position" yaml:"stabling_position"`

	// Status is the operational status assigned by the last optimization cycle.
	Status InductionStatus `json:"status" yaml:"status"`
}

// OptimizationRequest carries the requested bucket capacities.
// Omitted fields fall back to the server defaults.
type OptimizationRequest struct {
	TargetReady       *int `json:"target_ready,omitempty"`
	TargetStandby     *int `json:"target_standby,omitempty"`
	TargetMaintenance *int `json:"target_maintenance,omitempty"`
}

// StatusDistribution counts trainsets per assigned status.
type StatusDistribution struct {
	Ready       int `json:"Ready"`
	Standby     int `json:"Standby"`
	Maintenance int `json:"Maintenance"`
}

// TargetDistribution echoes resolved capacities, or reports leftover capacity.
type TargetDistribution struct {
	Ready       int `json:"ready"`
	Standby     int `json:"standby"`
	Maintenance int `json:"maintenance"`
}

// OptimizationSummary describes the outcome of one optimization cycle.
type OptimizationSummary struct {
	// OptimizationID uniquely identifies the cycle.
	OptimizationID string `json:"optimization_id"`

	// SnapshotVersion is the version of the fleet snapshot produced by the cycle.
	SnapshotVersion int64 `json:"snapshot_version"`

	// TotalTrainsets is the fleet size.
	TotalTrainsets int `json:"total_trainsets"`

	// StatusDistribution counts the updated assignment.
	StatusDistribution StatusDistribution `json:"status_distribution"`

	// MeanScore is the mean score across all trainsets this cycle.
	MeanScore float64 `json:"mean_score"`

	// OptimizationTimestamp is when the cycle completed, RFC3339.
	OptimizationTimestamp string `json:"optimization_timestamp"`

	// TargetDistribution echoes the requested capacities.
	TargetDistribution TargetDistribution `json:"target_distribution"`

	// UnusedCapacity is the requested capacity left unfilled per bucket.
	// Maintenance overflow is never reported here since that bucket is residual.
	UnusedCapacity TargetDistribution `json:"unused_capacity"`
}

// OptimizationResponse is returned by a successful optimization cycle.
type OptimizationResponse struct {
	OptimizedTrainsets []Trainset          `json:"optimized_trainsets"`
	Summary            OptimizationSummary `json:"summary"`
	// OptimizationScore is the mean score of the cycle.
	OptimizationScore float64 `json:"optimization_score"`
}

// FailureResponse is the structured body of a failed request.
type FailureResponse struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}
