package attrs

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
)

var _ = Describe("ValueConfig", func() {
	var config ValueConfig

	BeforeEach(func() {
		config = DefaultValueConfig()
	})

	Context("fitness values", func() {
		DescribeTable("should map raw values",
			func(raw string, want v1alpha1.FitnessStatus) {
				got, err := config.ParseFitness(raw)
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(want))
			},
			Entry("canonical valid", "Valid", v1alpha1.FitnessValid),
			Entry("lower case valid", "valid", v1alpha1.FitnessValid),
			Entry("padded pending", "  Pending ", v1alpha1.FitnessPending),
			Entry("expiring alias", "Expiring", v1alpha1.FitnessPending),
			Entry("expired", "EXPIRED", v1alpha1.FitnessExpired),
		)

		It("should reject unknown values", func() {
			_, err := config.ParseFitness("Revoked")
			Expect(err).To(MatchError(errUnknownFitness))
		})
	})

	Context("cleaning values", func() {
		DescribeTable("should map raw values",
			func(raw string, want v1alpha1.CleaningStatus) {
				got, err := config.ParseCleaning(raw)
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(want))
			},
			Entry("complete", "Complete", v1alpha1.CleaningComplete),
			Entry("completed alias", "completed", v1alpha1.CleaningComplete),
			Entry("in progress", "In Progress", v1alpha1.CleaningInProgress),
			Entry("snake case in progress", "in_progress", v1alpha1.CleaningInProgress),
			Entry("pending", "pending", v1alpha1.CleaningPending),
		)

		It("should reject unknown values", func() {
			_, err := config.ParseCleaning("Dirty")
			Expect(err).To(MatchError(errUnknownCleaning))
		})
	})

	Context("status values", func() {
		It("should treat an empty status as maintenance", func() {
			Expect(config.ParseStatus("")).To(Equal(v1alpha1.StatusMaintenance))
		})

		It("should map standby", func() {
			Expect(config.ParseStatus("standby")).To(Equal(v1alpha1.StatusStandby))
		})

		It("should reject unknown values", func() {
			_, err := config.ParseStatus("Retired")
			Expect(err).To(MatchError(errUnknownStatus))
		})
	})

	Context("with custom value lists", func() {
		It("should only accept configured values", func() {
			custom := ValueConfig{
				Fitness: FitnessValueConfig{
					ValidValues:   []string{"ok"},
					PendingValues: []string{"due"},
					ExpiredValues: []string{"lapsed"},
				},
			}
			Expect(custom.ParseFitness("OK")).To(Equal(v1alpha1.FitnessValid))
			Expect(custom.ParseFitness("due")).To(Equal(v1alpha1.FitnessPending))
			_, err := custom.ParseFitness("Valid")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Normalize", func() {
		It("should rewrite every enumerated attribute", func() {
			ts := v1alpha1.Trainset{
				ID:             1,
				FitnessStatus:  "expiring",
				CleaningStatus: "inprogress",
				Status:         "READY",
			}
			Expect(config.Normalize(&ts)).To(Succeed())
			Expect(ts.FitnessStatus).To(Equal(v1alpha1.FitnessPending))
			Expect(ts.CleaningStatus).To(Equal(v1alpha1.CleaningInProgress))
			Expect(ts.Status).To(Equal(v1alpha1.StatusReady))
		})

		It("should leave the trainset untouched on error", func() {
			ts := v1alpha1.Trainset{FitnessStatus: "Valid", CleaningStatus: "Dirty", Status: "Ready"}
			Expect(config.Normalize(&ts)).NotTo(Succeed())
			Expect(ts.CleaningStatus).To(Equal(v1alpha1.CleaningStatus("Dirty")))
		})
	})
})
