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

// Package metrics defines the Prometheus metrics of the induction planner.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
)

const (
	namespace = "induction"

	// LabelResult is "success" or "failure".
	LabelResult = "result"
	// LabelKind is the failure kind, empty on success.
	LabelKind = "kind"
	// LabelStatus is the induction status of a bucket.
	LabelStatus = "status"

	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Recorder owns the planner collectors.
type Recorder struct {
	cycles          *prometheus.CounterVec
	duration        prometheus.Histogram
	fleetStatus     *prometheus.GaugeVec
	meanScore       prometheus.Gauge
	snapshotVersion prometheus.Gauge
}

// NewRecorder creates the planner collectors and registers them, together
// with the build info collector, on reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimization",
			Name:      "cycles_total",
			Help:      "Optimization cycles by result and failure kind.",
		}, []string{LabelResult, LabelKind}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "optimization",
			Name:      "duration_seconds",
			Help:      "Duration of optimization cycles.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		fleetStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "fleet",
			Name:      "status_trainsets",
			Help:      "Trainsets per induction status in the current snapshot.",
		}, []string{LabelStatus}),
		meanScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "optimization",
			Name:      "mean_score",
			Help:      "Mean trainset score of the last successful cycle.",
		}),
		snapshotVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "fleet",
			Name:      "snapshot_version",
			Help:      "Version of the current fleet snapshot.",
		}),
	}

	for _, c := range []prometheus.Collector{
		r.cycles,
		r.duration,
		r.fleetStatus,
		r.meanScore,
		r.snapshotVersion,
		versioncollector.NewCollector("induction_planner"),
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveSuccess records a successful cycle.
func (r *Recorder) ObserveSuccess(seconds, meanScore float64) {
	r.cycles.WithLabelValues(ResultSuccess, "").Inc()
	r.duration.Observe(seconds)
	r.meanScore.Set(meanScore)
}

// ObserveFailure records a failed cycle of the given kind.
func (r *Recorder) ObserveFailure(kind string, seconds float64) {
	r.cycles.WithLabelValues(ResultFailure, kind).Inc()
	r.duration.Observe(seconds)
}

// SetFleet publishes the status distribution and version of the current snapshot.
func (r *Recorder) SetFleet(counts v1alpha1.StatusDistribution, version int64) {
	r.fleetStatus.WithLabelValues(string(v1alpha1.StatusReady)).Set(float64(counts.Ready))
	r.fleetStatus.WithLabelValues(string(v1alpha1.StatusStandby)).Set(float64(counts.Standby))
	r.fleetStatus.WithLabelValues(string(v1alpha1.StatusMaintenance)).Set(float64(counts.Maintenance))
	r.snapshotVersion.Set(float64(version))
}
