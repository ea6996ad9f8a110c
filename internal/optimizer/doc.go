// Package optimizer implements the induction optimization cycle.
//
// The optimizer composes the scoring and allocation engines:
//
//	Fleet Snapshot → Scorer → Ranker → Allocator → New Snapshot + Summary
//	   (fleet)      (scorer)  (ranker) (allocator)       (fleet)
//
// Data flows one way; no stage calls back into an earlier one.
//
// Example usage:
//
//	opt, err := optimizer.NewOptimizer(s, &optimizer.Config{Observer: act})
//	if err != nil {
//	    return err
//	}
//
//	targets, err := optimizer.ResolveTargets(req, cfg.Optimization.DefaultTargets)
//	if err != nil {
//	    return err // MalformedRequest
//	}
//
//	result, err := opt.Run(ctx, store, targets)
//	if err != nil {
//	    log.Error(err, "optimization failed", "kind", optimizer.KindOf(err))
//	    return err
//	}
//
//	log.Info("optimization complete",
//	    "version", result.Snapshot.Version(),
//	    "ready", result.Summary.StatusDistribution.Ready)
//
// Optimization Flow:
//
//  1. Validate
//     - Reject negative targets (MalformedRequest)
//     - Reject out-of-domain trainsets (MalformedEntity)
//
//  2. Score and rank
//     - Score every trainset independently
//     - Stable sort by score, highest first
//
//  3. Allocate
//     - First targets.Ready trainsets → Ready
//     - Next targets.Standby → Standby
//     - Everything else → Maintenance
//
//  4. Publish
//     - Overwrite each status unconditionally
//     - Build the next snapshot version, in rank order
//     - Summarize counts, mean score, targets and unused capacity
//
// Error Handling:
//
// Every failure is returned as a single *OptimizationError carrying its
// ErrorKind. A failed cycle publishes nothing; the prior snapshot stays current.
package optimizer
