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
	"errors"
	"fmt"
	"time"

	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
	"github.com/llm-d/fleet-induction-planner/internal/config"
	"github.com/llm-d/fleet-induction-planner/internal/utils/attrs"
)

// ErrInvalidFleet is returned when a loaded fleet fails validation.
var ErrInvalidFleet = errors.New("invalid fleet")

// Source is the interface for pluggable fleet sources.
// Implementations include SyntheticSource, FileSource and ConfigMapSource.
//
// A source is read once at startup; the loaded fleet becomes snapshot version 1.
type Source interface {
	// Name returns the unique name of this source (e.g., "synthetic", "file").
	Name() string

	// Load returns the fleet. Enumerated attributes are already canonical.
	Load(ctx context.Context) ([]v1alpha1.Trainset, error)
}

// NewSource is a factory that creates the Source selected by cfg.
// The client is only used by the configmap source and may be nil otherwise.
func NewSource(cfg config.FleetConfig, c client.Client) (Source, error) {
	switch cfg.Source {
	case config.SourceSynthetic:
		return &SyntheticSource{Size: cfg.Size, Seed: cfg.Seed}, nil
	case config.SourceFile:
		return &FileSource{Path: cfg.Path, Values: attrs.DefaultValueConfig()}, nil
	case config.SourceConfigMap:
		if c == nil {
			return nil, fmt.Errorf("configmap fleet source requires a kubernetes client")
		}
		return &ConfigMapSource{
			Client:        c,
			Namespace:     cfg.ConfigMap.Namespace,
			ConfigMapName: cfg.ConfigMap.Name,
			Key:           cfg.ConfigMap.Key,
			Values:        attrs.DefaultValueConfig(),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported fleet source: %q", cfg.Source)
	}
}

// LoadSnapshot loads the fleet from src, validates it and wraps it as snapshot version 1.
func LoadSnapshot(ctx context.Context, src Source, now time.Time) (*Snapshot, error) {
	logger := ctrl.LoggerFrom(ctx)

	trainsets, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading fleet from %s source: %w", src.Name(), err)
	}
	if errs := v1alpha1.ValidateFleet(trainsets); len(errs) > 0 {
		return nil, fmt.Errorf("%w from %s source: %w", ErrInvalidFleet, src.Name(), errs.ToAggregate())
	}

	snap := NewSnapshot(1, trainsets, now)
	logger.Info("Loaded fleet", "source", src.Name(), "trainsets", snap.Len())
	return snap, nil
}
