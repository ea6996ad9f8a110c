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

package actuator

import (
	"context"
	"sync"
	"time"

	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/llm-d/fleet-induction-planner/internal/fleet"
	"github.com/llm-d/fleet-induction-planner/internal/logging"
	"github.com/llm-d/fleet-induction-planner/internal/metrics"
	"github.com/llm-d/fleet-induction-planner/internal/optimizer"
)

// Actuator publishes cycle outcomes as metrics and log lines.
type Actuator struct {
	recorder *metrics.Recorder

	mu sync.Mutex
	// synced is the highest snapshot version published to the fleet gauges.
	synced int64
}

var _ optimizer.Observer = &Actuator{}

// NewActuator creates an Actuator emitting through recorder.
func NewActuator(recorder *metrics.Recorder) *Actuator {
	return &Actuator{recorder: recorder}
}

// Sync publishes the fleet gauges of snap. Snapshots older than the last
// synced version are ignored, so cycles observed out of order never move
// the gauges backwards.
func (a *Actuator) Sync(snap *fleet.Snapshot) {
	if snap == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if snap.Version() < a.synced {
		return
	}
	a.synced = snap.Version()
	a.recorder.SetFleet(snap.Counts(), snap.Version())
}

// ObserveCycle implements optimizer.Observer.
func (a *Actuator) ObserveCycle(ctx context.Context, result *optimizer.Result, err error, duration time.Duration) {
	logger := ctrl.LoggerFrom(ctx)

	if err != nil {
		kind := optimizer.KindOf(err)
		a.recorder.ObserveFailure(string(kind), duration.Seconds())
		logger.Info("Optimization cycle failed", "kind", kind, "error", err.Error())
		return
	}

	a.recorder.ObserveSuccess(duration.Seconds(), result.Summary.MeanScore)
	a.Sync(result.Snapshot)

	for i, r := range result.Ranked {
		logger.V(logging.DEBUG).Info("Induction decision",
			"rank", i+1,
			"id", r.Trainset.ID,
			"name", r.Trainset.Name,
			"score", r.Score,
			"status", r.Trainset.Status)
	}
	logger.Info("Optimization cycle published",
		"optimizationID", result.Summary.OptimizationID,
		"version", result.Summary.SnapshotVersion,
		"distribution", result.Summary.StatusDistribution,
		"unusedCapacity", result.Summary.UnusedCapacity,
		"duration", duration)
}
