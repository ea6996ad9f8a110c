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
	"math/rand/v2"
	"sync"
	"time"
)

// NoiseSource produces the perturbation added to rule-based scores.
// It emulates measurement noise and makes exact score ties rare.
type NoiseSource interface {
	Sample() float64
}

// ZeroNoise never perturbs. Use it for deterministic rankings.
type ZeroNoise struct{}

// Sample always returns 0.
func (ZeroNoise) Sample() float64 { return 0 }

// UniformNoise samples uniformly from [-Amplitude, +Amplitude].
// It is safe for concurrent use.
type UniformNoise struct {
	amplitude float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewUniformNoise creates a UniformNoise. A zero seed selects a time-based seed.
func NewUniformNoise(amplitude float64, seed uint64) *UniformNoise {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &UniformNoise{
		amplitude: amplitude,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Amplitude returns the bound of the samples.
func (n *UniformNoise) Amplitude() float64 { return n.amplitude }

// Sample returns a value in [-amplitude, +amplitude].
func (n *UniformNoise) Sample() float64 {
	if n.amplitude == 0 {
		return 0
	}
	n.mu.Lock()
	u := n.rng.Float64()
	n.mu.Unlock()
	return (2*u - 1) * n.amplitude
}
