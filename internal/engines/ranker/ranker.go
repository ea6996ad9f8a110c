// Package ranker orders trainsets by score for one optimization cycle.
package ranker

import (
	"context"
	"fmt"
	"slices"

	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
	"github.com/llm-d/fleet-induction-planner/internal/logging"
	"github.com/llm-d/fleet-induction-planner/internal/scorer"
)

// Ranked pairs a trainset with the score it received in the current cycle.
type Ranked struct {
	Trainset v1alpha1.Trainset
	Score    float64
}

// Rank scores every trainset independently and returns them sorted by score,
// highest first. Equal scores keep their input order.
// The first scoring error aborts the ranking.
func Rank(ctx context.Context, trainsets []v1alpha1.Trainset, s scorer.Scorer) ([]Ranked, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: no scorer configured", scorer.ErrScorerUnavailable)
	}
	logger := ctrl.LoggerFrom(ctx)

	ranked := make([]Ranked, len(trainsets))
	for i, t := range trainsets {
		score, err := s.Score(t)
		if err != nil {
			return nil, fmt.Errorf("scoring trainset %d (%s): %w", t.ID, t.Name, err)
		}
		ranked[i] = Ranked{Trainset: t, Score: score}
		logger.V(logging.TRACE).Info("Scored trainset", "id", t.ID, "name", t.Name, "score", score, "scorer", s.Name())
	}

	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return ranked, nil
}

// Scores returns the scores of ranked in rank order.
func Scores(ranked []Ranked) []float64 {
	scores := make([]float64, len(ranked))
	for i, r := range ranked {
		scores[i] = r.Score
	}
	return scores
}

// IDs returns the trainset ids of ranked in rank order.
func IDs(ranked []Ranked) []int {
	ids := make([]int, len(ranked))
	for i, r := range ranked {
		ids[i] = r.Trainset.ID
	}
	return ids
}
