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

package optimizer

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an optimization cycle failed.
type ErrorKind string

const (
	// MalformedRequest means negative or non-numeric capacity targets.
	MalformedRequest ErrorKind = "MalformedRequest"
	// MalformedEntity means a trainset attribute is missing or out of domain.
	MalformedEntity ErrorKind = "MalformedEntity"
	// ScorerUnavailable means the scorer could not produce a score at all.
	ScorerUnavailable ErrorKind = "ScorerUnavailable"
	// Internal covers every other failure.
	Internal ErrorKind = "Internal"
)

// OptimizationError is the single structured failure of an optimization cycle.
// When it is returned nothing was published.
type OptimizationError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *OptimizationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *OptimizationError) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, err error) *OptimizationError {
	return &OptimizationError{Kind: kind, Message: err.Error(), Err: err}
}

// KindOf returns the kind of err, or Internal when err is not an OptimizationError.
func KindOf(err error) ErrorKind {
	var oe *OptimizationError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return Internal
}

// IsMalformedRequest reports whether err is a MalformedRequest failure.
func IsMalformedRequest(err error) bool { return err != nil && KindOf(err) == MalformedRequest }

// IsMalformedEntity reports whether err is a MalformedEntity failure.
func IsMalformedEntity(err error) bool { return err != nil && KindOf(err) == MalformedEntity }

// IsScorerUnavailable reports whether err is a ScorerUnavailable failure.
func IsScorerUnavailable(err error) bool { return err != nil && KindOf(err) == ScorerUnavailable }
