package allocator

import (
	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
)

// UnusedCapacity reports how much of each requested capacity was left
// unfilled by the partition. Buckets filled beyond their target report zero.
func UnusedCapacity(targets Targets, p Partition) v1alpha1.TargetDistribution {
	counts := p.Counts()
	return v1alpha1.TargetDistribution{
		Ready:       max(0, targets.Ready-counts.Ready),
		Standby:     max(0, targets.Standby-counts.Standby),
		Maintenance: max(0, targets.Maintenance-counts.Maintenance),
	}
}
