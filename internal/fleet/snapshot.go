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

// Package fleet owns the current fleet snapshot and the sources it is loaded from.
//
// A Snapshot is immutable once built. Each optimization cycle produces a new
// Snapshot with the next version and publishes it through a Store, which
// serializes writers and lets readers fetch the current version without
// blocking. Readers never observe a fleet where some trainsets carry the new
// assignment and others the old one.
package fleet

import (
	"slices"
	"time"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
)

// Snapshot is one immutable version of the fleet.
type Snapshot struct {
	version   int64
	createdAt time.Time
	trainsets []v1alpha1.Trainset
}

// NewSnapshot builds a snapshot holding a copy of trainsets.
func NewSnapshot(version int64, trainsets []v1alpha1.Trainset, createdAt time.Time) *Snapshot {
	return &Snapshot{
		version:   version,
		createdAt: createdAt,
		trainsets: slices.Clone(trainsets),
	}
}

// Next builds the snapshot that follows s, holding a copy of trainsets.
func (s *Snapshot) Next(trainsets []v1alpha1.Trainset, createdAt time.Time) *Snapshot {
	return NewSnapshot(s.version+1, trainsets, createdAt)
}

// Version increases by one with every published optimization cycle.
func (s *Snapshot) Version() int64 { return s.version }

// CreatedAt is when the snapshot was built.
func (s *Snapshot) CreatedAt() time.Time { return s.createdAt }

// Len is the fleet size.
func (s *Snapshot) Len() int { return len(s.trainsets) }

// Trainsets returns a copy of the fleet in snapshot order.
func (s *Snapshot) Trainsets() []v1alpha1.Trainset {
	return slices.Clone(s.trainsets)
}

// Get returns the trainset with the given id.
func (s *Snapshot) Get(id int) (v1alpha1.Trainset, bool) {
	for _, t := range s.trainsets {
		if t.ID == id {
			return t, true
		}
	}
	return v1alpha1.Trainset{}, false
}

// Counts returns the number of trainsets per status.
func (s *Snapshot) Counts() v1alpha1.StatusDistribution {
	var d v1alpha1.StatusDistribution
	for _, t := range s.trainsets {
		switch t.Status {
		case v1alpha1.StatusReady:
			d.Ready++
		case v1alpha1.StatusStandby:
			d.Standby++
		case v1alpha1.StatusMaintenance:
			d.Maintenance++
		}
	}
	return d
}
