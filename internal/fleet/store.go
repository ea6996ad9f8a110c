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
	"sync/atomic"
)

// ErrStaleSnapshot is returned when a writer tries to publish a snapshot
// whose version does not follow the current one.
var ErrStaleSnapshot = errors.New("stale snapshot")

// Store holds the current snapshot. Reads are lock-free; updates are serialized.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

var _ ReadWriter = &Store{}

// NewStore creates a store publishing initial.
func NewStore(initial *Snapshot) *Store {
	s := &Store{}
	s.current.Store(initial)
	return s
}

// Current implements Reader.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Update implements Writer.
func (s *Store) Update(fn func(current *Snapshot) (*Snapshot, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	next, err := fn(cur)
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}
	if cur != nil && next.Version() != cur.Version()+1 {
		return fmt.Errorf("%w: version %d does not follow %d", ErrStaleSnapshot, next.Version(), cur.Version())
	}
	s.current.Store(next)
	return nil
}
