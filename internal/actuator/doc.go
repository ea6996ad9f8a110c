// Package actuator emits the outcome of optimization cycles.
//
// The planner does not move trains. It publishes assignments through the
// fleet snapshot and exposes them as metrics:
//
//	Optimizer → Actuator → Prometheus Metrics → Depot dashboards / alerts
//
// # Actuator Responsibilities
//
//  1. Metric Emission:
//     - induction_fleet_status_trainsets{status} for the current snapshot
//     - induction_fleet_snapshot_version
//     - induction_optimization_cycles_total{result,kind}
//     - induction_optimization_duration_seconds
//     - induction_optimization_mean_score
//
//  2. Decision Logging:
//     - One DEBUG line per trainset with its rank, score and status
//     - One INFO line per cycle with the status distribution
//
// # Usage Example
//
//	rec, err := metrics.NewRecorder(ctrlmetrics.Registry)
//	act := actuator.NewActuator(rec)
//	act.Sync(store.Current())
//
//	opt, err := optimizer.NewOptimizer(s, &optimizer.Config{Observer: act})
//
// See also:
//   - internal/metrics: Prometheus metric definitions
package actuator
