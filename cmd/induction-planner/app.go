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

package main

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/llm-d/fleet-induction-planner/internal/actuator"
	"github.com/llm-d/fleet-induction-planner/internal/config"
	"github.com/llm-d/fleet-induction-planner/internal/fleet"
	"github.com/llm-d/fleet-induction-planner/internal/metrics"
	"github.com/llm-d/fleet-induction-planner/internal/optimizer"
	"github.com/llm-d/fleet-induction-planner/internal/scorer"
	"github.com/llm-d/fleet-induction-planner/internal/server"
)

// app bundles the components built from a Config.
type app struct {
	cfg       *config.Config
	store     *fleet.Store
	optimizer *optimizer.Optimizer
}

// newScorer builds the configured scoring strategy.
func newScorer(cfg config.ScorerConfig) (scorer.Scorer, error) {
	strategy, err := scorer.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	opts := scorer.Options{}
	switch strategy {
	case scorer.RuleStrategy:
		weights, err := config.LoadScoringConfig(cfg.WeightsPath)
		if err != nil {
			return nil, err
		}
		opts.Weights = weights
		if cfg.NoiseAmplitude > 0 {
			opts.Noise = scorer.NewUniformNoise(cfg.NoiseAmplitude, 0)
		}
	case scorer.ProbabilisticStrategy:
		model, err := scorer.LoadModel(cfg.ModelPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", scorer.ErrScorerUnavailable, err)
		}
		opts.Model = model
	}
	return scorer.New(strategy, opts)
}

// newKubeClient creates a controller-runtime client from the ambient kubeconfig.
func newKubeClient() (client.Client, error) {
	restConfig, err := ctrl.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("loading kubeconfig: %w", err)
	}
	scheme := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		return nil, err
	}
	return client.New(restConfig, client.Options{Scheme: scheme})
}

// newApp loads the fleet and assembles the optimization pipeline.
// Metrics are registered on the controller-runtime registry.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	s, err := newScorer(cfg.Scorer)
	if err != nil {
		return nil, fmt.Errorf("creating scorer: %w", err)
	}

	var kubeClient client.Client
	if cfg.Fleet.Source == config.SourceConfigMap {
		if kubeClient, err = newKubeClient(); err != nil {
			return nil, err
		}
	}
	src, err := fleet.NewSource(cfg.Fleet, kubeClient)
	if err != nil {
		return nil, err
	}
	snap, err := fleet.LoadSnapshot(ctx, src, time.Now())
	if err != nil {
		return nil, err
	}
	store := fleet.NewStore(snap)

	rec, err := metrics.NewRecorder(ctrlmetrics.Registry)
	if err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}
	act := actuator.NewActuator(rec)
	act.Sync(snap)

	opt, err := optimizer.NewOptimizer(s, &optimizer.Config{Observer: act})
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, store: store, optimizer: opt}, nil
}

// serve runs the HTTP API until ctx is cancelled.
func (a *app) serve(ctx context.Context) error {
	srv, err := server.NewServer(server.Options{
		Store:     a.store,
		Optimizer: a.optimizer,
		Defaults:  a.cfg.Optimization.DefaultTargets,
		Gatherer:  ctrlmetrics.Registry,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx, a.cfg.Server.Address, a.cfg.Server.ShutdownTimeout)
}
