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

package fleet

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
)

// Synthetic attribute ranges, inclusive.
const (
	maxSyntheticJobCards   = 5
	minSyntheticBranding   = 50
	maxSyntheticBranding   = 300
	minSyntheticMileage    = 50000
	maxSyntheticMileage    = 120000
	maxSyntheticStablingAt = 10
)

// SyntheticSource generates a random fleet named "Rake 01", "Rake 02", ...
type SyntheticSource struct {
	// Size is the number of trainsets.
	Size int
	// Seed makes the fleet reproducible; 0 seeds from the clock.
	Seed int64
}

var _ Source = &SyntheticSource{}

// Name implements Source.
func (s *SyntheticSource) Name() string { return "synthetic" }

// Load implements Source.
func (s *SyntheticSource) Load(_ context.Context) ([]v1alpha1.Trainset, error) {
	if s.Size <= 0 {
		return nil, fmt.Errorf("synthetic fleet size must be positive, got %d", s.Size)
	}
	seed := uint64(s.Seed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	r := rand.New(rand.NewPCG(seed, seed^0x5eed))

	trainsets := make([]v1alpha1.Trainset, s.Size)
	for i := range trainsets {
		trainsets[i] = v1alpha1.Trainset{
			ID:               i + 1,
			Name:             fmt.Sprintf("Rake %02d", i+1),
			FitnessStatus:    pick(r, v1alpha1.AllFitnessStatuses),
			JobCardsOpen:     r.IntN(maxSyntheticJobCards + 1),
			BrandingHours:    between(r, minSyntheticBranding, maxSyntheticBranding),
			MileageKm:        between(r, minSyntheticMileage, maxSyntheticMileage),
			CleaningStatus:   pick(r, v1alpha1.AllCleaningStatuses),
			StablingPosition: between(r, 1, maxSyntheticStablingAt),
			Status:           pick(r, v1alpha1.AllInductionStatuses),
		}
	}
	return trainsets, nil
}

func pick[T any](r *rand.Rand, values []T) T {
	return values[r.IntN(len(values))]
}

func between(r *rand.Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}
