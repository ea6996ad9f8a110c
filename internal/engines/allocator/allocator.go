// Package allocator partitions a ranked fleet into capacity-bounded status buckets.
package allocator

import (
	"context"
	"errors"
	"fmt"

	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
	"github.com/llm-d/fleet-induction-planner/internal/engines/ranker"
)

// ErrNegativeCapacity is returned when any requested capacity is below zero.
var ErrNegativeCapacity = errors.New("negative capacity")

// Targets are the requested bucket capacities.
// Maintenance is advisory: every trainset beyond Ready+Standby lands in
// Maintenance regardless of its value.
type Targets struct {
	Ready       int
	Standby     int
	Maintenance int
}

// Validate rejects negative capacities.
func (t Targets) Validate() error {
	var errs []error
	if t.Ready < 0 {
		errs = append(errs, fmt.Errorf("%w: ready capacity is %d", ErrNegativeCapacity, t.Ready))
	}
	if t.Standby < 0 {
		errs = append(errs, fmt.Errorf("%w: standby capacity is %d", ErrNegativeCapacity, t.Standby))
	}
	if t.Maintenance < 0 {
		errs = append(errs, fmt.Errorf("%w: maintenance capacity is %d", ErrNegativeCapacity, t.Maintenance))
	}
	return errors.Join(errs...)
}

// Partition is the assignment of a ranked fleet to the three buckets.
// Each bucket keeps rank order.
type Partition struct {
	Ready       []ranker.Ranked
	Standby     []ranker.Ranked
	Maintenance []ranker.Ranked
}

// Counts returns the size of each bucket.
func (p Partition) Counts() v1alpha1.StatusDistribution {
	return v1alpha1.StatusDistribution{
		Ready:       len(p.Ready),
		Standby:     len(p.Standby),
		Maintenance: len(p.Maintenance),
	}
}

// Len is the number of trainsets in the partition.
func (p Partition) Len() int {
	return len(p.Ready) + len(p.Standby) + len(p.Maintenance)
}

// StatusOf returns the bucket holding the trainset with the given id.
func (p Partition) StatusOf(id int) (v1alpha1.InductionStatus, bool) {
	for _, b := range p.buckets() {
		for _, r := range b.members {
			if r.Trainset.ID == id {
				return b.status, true
			}
		}
	}
	return "", false
}

// Ranked returns all trainsets in rank order with their assigned status set.
func (p Partition) Ranked() []ranker.Ranked {
	out := make([]ranker.Ranked, 0, p.Len())
	for _, b := range p.buckets() {
		for _, r := range b.members {
			r.Trainset.Status = b.status
			out = append(out, r)
		}
	}
	return out
}

type bucket struct {
	status  v1alpha1.InductionStatus
	members []ranker.Ranked
}

func (p Partition) buckets() []bucket {
	return []bucket{
		{status: v1alpha1.StatusReady, members: p.Ready},
		{status: v1alpha1.StatusStandby, members: p.Standby},
		{status: v1alpha1.StatusMaintenance, members: p.Maintenance},
	}
}

// Allocate assigns the first targets.Ready entries of ranked to Ready, the
// next targets.Standby to Standby and everything else to Maintenance.
// Zero capacities yield empty buckets. Negative capacities are rejected.
func Allocate(ctx context.Context, ranked []ranker.Ranked, targets Targets) (Partition, error) {
	if err := targets.Validate(); err != nil {
		return Partition{}, err
	}
	logger := ctrl.LoggerFrom(ctx)

	n := len(ranked)
	readyEnd := min(targets.Ready, n)
	// clamp before adding; targets may be close to MaxInt
	standbyEnd := readyEnd + min(targets.Standby, n-readyEnd)

	p := Partition{
		Ready:       clone(ranked[:readyEnd]),
		Standby:     clone(ranked[readyEnd:standbyEnd]),
		Maintenance: clone(ranked[standbyEnd:]),
	}
	if len(p.Maintenance) > targets.Maintenance {
		logger.Info("Maintenance bucket exceeds its target", "target", targets.Maintenance, "assigned", len(p.Maintenance))
	}
	return p, nil
}

func clone(in []ranker.Ranked) []ranker.Ranked {
	return append(make([]ranker.Ranked, 0, len(in)), in...)
}
