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

package scorer

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
	"github.com/llm-d/fleet-induction-planner/internal/config"
)

func makeTrainset(fitness v1alpha1.FitnessStatus, cards, hours, km int, cleaning v1alpha1.CleaningStatus) v1alpha1.Trainset {
	return v1alpha1.Trainset{
		ID:               1,
		Name:             "Rake 01",
		FitnessStatus:    fitness,
		JobCardsOpen:     cards,
		BrandingHours:    hours,
		MileageKm:        km,
		CleaningStatus:   cleaning,
		StablingPosition: 1,
		Status:           v1alpha1.StatusMaintenance,
	}
}

var _ = Describe("RuleBasedScorer", func() {
	var s *RuleBasedScorer

	BeforeEach(func() {
		var err error
		s, err = NewRuleBasedScorer(config.DefaultScoringConfig(), ZeroNoise{})
		Expect(err).NotTo(HaveOccurred())
	})

	DescribeTable("deterministic scores",
		func(t v1alpha1.Trainset, want float64) {
			Expect(s.Score(t)).To(BeNumerically("~", want, 1e-9))
		},
		Entry("best case", makeTrainset(v1alpha1.FitnessValid, 0, 300, 75000, v1alpha1.CleaningComplete), 10.5),
		Entry("middling", makeTrainset(v1alpha1.FitnessPending, 1, 150, 50000, v1alpha1.CleaningInProgress), 6.0),
		Entry("worst case", makeTrainset(v1alpha1.FitnessExpired, 5, 75, 120000, v1alpha1.CleaningPending), 1.0),
	)

	DescribeTable("mileage bands",
		func(km int, want float64) {
			terms, err := s.Breakdown(makeTrainset(v1alpha1.FitnessValid, 0, 0, km, v1alpha1.CleaningComplete))
			Expect(err).NotTo(HaveOccurred())
			Expect(terms.Mileage).To(Equal(want))
		},
		Entry("below band", 59999, 1.0),
		Entry("lower bound inclusive", 60000, 1.5),
		Entry("upper bound inclusive", 100000, 1.5),
		Entry("above band", 100001, 0.5),
		Entry("zero mileage", 0, 1.0),
	)

	DescribeTable("job card term floors at zero",
		func(cards int, want float64) {
			terms, err := s.Breakdown(makeTrainset(v1alpha1.FitnessValid, cards, 0, 0, v1alpha1.CleaningComplete))
			Expect(err).NotTo(HaveOccurred())
			Expect(terms.JobCards).To(Equal(want))
		},
		Entry("no cards", 0, 2.0),
		Entry("three cards", 3, 0.5),
		Entry("four cards", 4, 0.0),
		Entry("many cards", 12, 0.0),
	)

	It("should saturate utilization at the cap", func() {
		terms, err := s.Breakdown(makeTrainset(v1alpha1.FitnessValid, 0, 10000, 0, v1alpha1.CleaningComplete))
		Expect(err).NotTo(HaveOccurred())
		Expect(terms.Utilization).To(Equal(2.0))

		terms, err = s.Breakdown(makeTrainset(v1alpha1.FitnessValid, 0, 75, 0, v1alpha1.CleaningComplete))
		Expect(err).NotTo(HaveOccurred())
		Expect(terms.Utilization).To(BeNumerically("~", 0.5, 1e-9))
	})

	It("should reject unknown enum values", func() {
		_, err := s.Score(makeTrainset("Revoked", 0, 0, 0, v1alpha1.CleaningComplete))
		Expect(err).To(MatchError(ErrMalformedTrainset))

		_, err = s.Score(makeTrainset(v1alpha1.FitnessValid, 0, 0, 0, "Dirty"))
		Expect(err).To(MatchError(ErrMalformedTrainset))
	})

	It("should reject negative counters", func() {
		_, err := s.Score(makeTrainset(v1alpha1.FitnessValid, -1, 0, 0, v1alpha1.CleaningComplete))
		Expect(err).To(MatchError(ErrMalformedTrainset))
	})

	It("should not modify its input", func() {
		t := makeTrainset(v1alpha1.FitnessValid, 2, 100, 70000, v1alpha1.CleaningComplete)
		before := t
		_, err := s.Score(t)
		Expect(err).NotTo(HaveOccurred())
		Expect(t).To(Equal(before))
	})

	Context("with uniform noise", func() {
		It("should stay within the noise amplitude of the deterministic score", func() {
			noisy, err := NewRuleBasedScorer(config.DefaultScoringConfig(), NewUniformNoise(0.2, 42))
			Expect(err).NotTo(HaveOccurred())
			t := makeTrainset(v1alpha1.FitnessPending, 1, 150, 50000, v1alpha1.CleaningInProgress)
			for i := 0; i < 1000; i++ {
				Expect(noisy.Score(t)).To(BeNumerically("~", 6.0, 0.2))
			}
		})

		It("should use zero noise when none is given", func() {
			quiet, err := NewRuleBasedScorer(config.DefaultScoringConfig(), nil)
			Expect(err).NotTo(HaveOccurred())
			t := makeTrainset(v1alpha1.FitnessValid, 0, 300, 75000, v1alpha1.CleaningComplete)
			Expect(quiet.Score(t)).To(Equal(10.5))
		})
	})

	It("should refuse invalid weights", func() {
		weights := config.DefaultScoringConfig()
		weights.Utilization.HoursPerPoint = 0
		_, err := NewRuleBasedScorer(weights, nil)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("UniformNoise", func() {
	It("should sample within the amplitude", func() {
		n := NewUniformNoise(0.2, 7)
		Expect(n.Amplitude()).To(Equal(0.2))
		for i := 0; i < 1000; i++ {
			Expect(n.Sample()).To(BeNumerically("~", 0, 0.2))
		}
	})

	It("should be reproducible for a fixed seed", func() {
		a, b := NewUniformNoise(0.2, 99), NewUniformNoise(0.2, 99)
		for i := 0; i < 10; i++ {
			Expect(a.Sample()).To(Equal(b.Sample()))
		}
	})

	It("should return zero for a zero amplitude", func() {
		Expect(NewUniformNoise(0, 1).Sample()).To(BeZero())
	})
})
