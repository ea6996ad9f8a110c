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
	"errors"
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
)

func makeFleet(n int, status v1alpha1.InductionStatus) []v1alpha1.Trainset {
	out := make([]v1alpha1.Trainset, n)
	for i := range out {
		out[i] = v1alpha1.Trainset{
			ID:               i + 1,
			Name:             fmt.Sprintf("Rake %02d", i+1),
			FitnessStatus:    v1alpha1.FitnessValid,
			JobCardsOpen:     1,
			BrandingHours:    100,
			MileageKm:        70000,
			CleaningStatus:   v1alpha1.CleaningComplete,
			StablingPosition: 1,
			Status:           status,
		}
	}
	return out
}

var _ = Describe("Snapshot", func() {
	now := time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC)

	It("should copy trainsets on the way in and out", func() {
		in := makeFleet(3, v1alpha1.StatusReady)
		snap := NewSnapshot(1, in, now)

		in[0].Status = v1alpha1.StatusMaintenance
		Expect(snap.Trainsets()[0].Status).To(Equal(v1alpha1.StatusReady))

		out := snap.Trainsets()
		out[1].Status = v1alpha1.StatusStandby
		Expect(snap.Trainsets()[1].Status).To(Equal(v1alpha1.StatusReady))
	})

	It("should bump the version for the next snapshot", func() {
		snap := NewSnapshot(4, makeFleet(2, v1alpha1.StatusReady), now)
		next := snap.Next(makeFleet(2, v1alpha1.StatusStandby), now.Add(time.Minute))
		Expect(next.Version()).To(Equal(int64(5)))
		Expect(next.CreatedAt()).To(Equal(now.Add(time.Minute)))
		Expect(snap.Counts()).To(Equal(v1alpha1.StatusDistribution{Ready: 2}))
		Expect(next.Counts()).To(Equal(v1alpha1.StatusDistribution{Standby: 2}))
	})

	It("should look up trainsets by id", func() {
		snap := NewSnapshot(1, makeFleet(3, v1alpha1.StatusReady), now)
		t, ok := snap.Get(2)
		Expect(ok).To(BeTrue())
		Expect(t.Name).To(Equal("Rake 02"))
		_, ok = snap.Get(9)
		Expect(ok).To(BeFalse())
		Expect(snap.Len()).To(Equal(3))
	})
})

var _ = Describe("Store", func() {
	var (
		now   time.Time
		store *Store
	)

	BeforeEach(func() {
		now = time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC)
		store = NewStore(NewSnapshot(1, makeFleet(5, v1alpha1.StatusMaintenance), now))
	})

	It("should publish the snapshot returned by the update", func() {
		err := store.Update(func(cur *Snapshot) (*Snapshot, error) {
			return cur.Next(makeFleet(5, v1alpha1.StatusReady), now), nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Current().Version()).To(Equal(int64(2)))
		Expect(store.Current().Counts().Ready).To(Equal(5))
	})

	It("should keep the current snapshot when the update fails", func() {
		before := store.Current()
		boom := errors.New("boom")
		err := store.Update(func(cur *Snapshot) (*Snapshot, error) {
			return nil, boom
		})
		Expect(err).To(MatchError(boom))
		Expect(store.Current()).To(BeIdenticalTo(before))
	})

	It("should keep the current snapshot when the update returns nil", func() {
		before := store.Current()
		Expect(store.Update(func(*Snapshot) (*Snapshot, error) { return nil, nil })).To(Succeed())
		Expect(store.Current()).To(BeIdenticalTo(before))
	})

	It("should reject a snapshot that does not follow the current version", func() {
		err := store.Update(func(*Snapshot) (*Snapshot, error) {
			return NewSnapshot(7, makeFleet(5, v1alpha1.StatusReady), now), nil
		})
		Expect(err).To(MatchError(ErrStaleSnapshot))
		Expect(store.Current().Version()).To(Equal(int64(1)))
	})

	It("should never expose a partially updated fleet", func() {
		const writers, cycles = 4, 50
		statuses := v1alpha1.AllInductionStatuses

		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(w int) {
				defer GinkgoRecover()
				defer wg.Done()
				for c := 0; c < cycles; c++ {
					status := statuses[(w+c)%len(statuses)]
					Expect(store.Update(func(cur *Snapshot) (*Snapshot, error) {
						return cur.Next(makeFleet(5, status), now), nil
					})).To(Succeed())
				}
			}(w)
		}

		done := make(chan struct{})
		go func() {
			defer GinkgoRecover()
			for {
				select {
				case <-done:
					return
				default:
				}
				trainsets := store.Current().Trainsets()
				for _, t := range trainsets {
					Expect(t.Status).To(Equal(trainsets[0].Status))
				}
			}
		}()

		wg.Wait()
		close(done)
		Expect(store.Current().Version()).To(Equal(int64(1 + writers*cycles)))
	})
})
