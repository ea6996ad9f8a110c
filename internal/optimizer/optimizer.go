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

package optimizer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
	"k8s.io/utils/clock"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
	"github.com/llm-d/fleet-induction-planner/internal/engines/allocator"
	"github.com/llm-d/fleet-induction-planner/internal/engines/ranker"
	"github.com/llm-d/fleet-induction-planner/internal/fleet"
	"github.com/llm-d/fleet-induction-planner/internal/logging"
	"github.com/llm-d/fleet-induction-planner/internal/scorer"
)

// Observer is notified once per cycle run through Optimizer.Run.
// On failure result is nil and err is an *OptimizationError.
type Observer interface {
	ObserveCycle(ctx context.Context, result *Result, err error, duration time.Duration)
}

// Config holds the optional dependencies of an Optimizer.
type Config struct {
	// Clock stamps summaries and times cycles. Defaults to the real clock.
	Clock clock.PassiveClock
	// NewID generates optimization ids. Defaults to random UUIDs.
	NewID func() string
	// Observer is notified of every Run. May be nil.
	Observer Observer
}

// Result is the outcome of one successful cycle.
type Result struct {
	// Snapshot is the next fleet version, trainsets in rank order.
	Snapshot *fleet.Snapshot
	// Ranked holds every trainset with its score and assigned status, in rank order.
	Ranked []ranker.Ranked
	// Partition is the bucket assignment.
	Partition allocator.Partition
	// Summary describes the cycle.
	Summary v1alpha1.OptimizationSummary
}

// Response renders the result in its wire form.
func (r *Result) Response() v1alpha1.OptimizationResponse {
	return v1alpha1.OptimizationResponse{
		OptimizedTrainsets: r.Snapshot.Trainsets(),
		Summary:            r.Summary,
		OptimizationScore:  r.Summary.MeanScore,
	}
}

// Optimizer runs induction optimization cycles.
type Optimizer struct {
	scorer   scorer.Scorer
	clock    clock.PassiveClock
	newID    func() string
	observer Observer
}

// NewOptimizer creates an Optimizer scoring with s. cfg may be nil.
func NewOptimizer(s scorer.Scorer, cfg *Config) (*Optimizer, error) {
	if s == nil {
		return nil, fmt.Errorf("scorer cannot be nil")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	o := &Optimizer{
		scorer:   s,
		clock:    cfg.Clock,
		newID:    cfg.NewID,
		observer: cfg.Observer,
	}
	if o.clock == nil {
		o.clock = clock.RealClock{}
	}
	if o.newID == nil {
		o.newID = func() string { return uuid.NewString() }
	}
	return o, nil
}

// Optimize computes the next snapshot for snap. snap itself is not modified
// and nothing is published.
func (o *Optimizer) Optimize(ctx context.Context, snap *fleet.Snapshot, targets allocator.Targets) (*Result, error) {
	logger := ctrl.LoggerFrom(ctx)

	if err := targets.Validate(); err != nil {
		return nil, newError(MalformedRequest, err)
	}
	if snap == nil {
		return nil, newError(Internal, errors.New("no fleet snapshot loaded"))
	}
	trainsets := snap.Trainsets()
	if errs := v1alpha1.ValidateFleet(trainsets); len(errs) > 0 {
		return nil, newError(MalformedEntity, errs.ToAggregate())
	}

	ranked, err := ranker.Rank(ctx, trainsets, o.scorer)
	if err != nil {
		return nil, classifyScoringError(err)
	}

	partition, err := allocator.Allocate(ctx, ranked, targets)
	if err != nil {
		return nil, newError(MalformedRequest, err)
	}

	assigned := partition.Ranked()
	updated := make([]v1alpha1.Trainset, len(assigned))
	for i, r := range assigned {
		updated[i] = r.Trainset
	}

	meanScore := stat.Mean(ranker.Scores(ranked), nil)
	if math.IsNaN(meanScore) || math.IsInf(meanScore, 0) {
		return nil, newError(Internal, fmt.Errorf("mean score is %v", meanScore))
	}

	now := o.clock.Now()
	next := snap.Next(updated, now)
	result := &Result{
		Snapshot:  next,
		Ranked:    assigned,
		Partition: partition,
		Summary: v1alpha1.OptimizationSummary{
			OptimizationID:        o.newID(),
			SnapshotVersion:       next.Version(),
			TotalTrainsets:        next.Len(),
			StatusDistribution:    next.Counts(),
			MeanScore:             meanScore,
			OptimizationTimestamp: now.UTC().Format(time.RFC3339),
			TargetDistribution: v1alpha1.TargetDistribution{
				Ready:       targets.Ready,
				Standby:     targets.Standby,
				Maintenance: targets.Maintenance,
			},
			UnusedCapacity: allocator.UnusedCapacity(targets, partition),
		},
	}

	logger.V(logging.DEBUG).Info("Optimization cycle computed",
		"version", next.Version(),
		"scorer", o.scorer.Name(),
		"distribution", result.Summary.StatusDistribution,
		"meanScore", meanScore)
	return result, nil
}

// Run performs one serialized cycle against store: read the current snapshot,
// optimize it and publish the result. On failure the prior snapshot stays current.
func (o *Optimizer) Run(ctx context.Context, store fleet.ReadWriter, targets allocator.Targets) (*Result, error) {
	start := o.clock.Now()

	var result *Result
	err := store.Update(func(current *fleet.Snapshot) (*fleet.Snapshot, error) {
		r, err := o.Optimize(ctx, current, targets)
		if err != nil {
			return nil, err
		}
		result = r
		return r.Snapshot, nil
	})
	if err != nil {
		var oe *OptimizationError
		if !errors.As(err, &oe) {
			err = newError(Internal, err)
		}
		result = nil
	}

	if o.observer != nil {
		o.observer.ObserveCycle(ctx, result, err, o.clock.Since(start))
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func classifyScoringError(err error) *OptimizationError {
	switch {
	case errors.Is(err, scorer.ErrScorerUnavailable):
		return newError(ScorerUnavailable, err)
	case errors.Is(err, scorer.ErrMalformedTrainset):
		return newError(MalformedEntity, err)
	default:
		return newError(Internal, err)
	}
}
