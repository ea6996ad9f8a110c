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

// Reader provides read-only access to the current fleet snapshot.
// This interface is used by the HTTP layer to serve the fleet.
type Reader interface {
	// Current returns the published snapshot. It never blocks on writers.
	Current() *Snapshot
}

// Writer publishes new fleet snapshots.
// This interface is used by the optimizer to commit a cycle.
type Writer interface {
	// Update calls fn with the current snapshot while holding the writer lock
	// and publishes the snapshot fn returns. Nothing is published when fn
	// returns an error or a nil snapshot.
	Update(fn func(current *Snapshot) (*Snapshot, error)) error
}

// ReadWriter combines both read and write access to the fleet.
type ReadWriter interface {
	Reader
	Writer
}
