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

// Package server exposes the fleet and the optimization cycle over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/llm-d/fleet-induction-planner/internal/config"
	"github.com/llm-d/fleet-induction-planner/internal/fleet"
	"github.com/llm-d/fleet-induction-planner/internal/optimizer"
)

// Options holds the dependencies of a Server.
type Options struct {
	Store     fleet.ReadWriter
	Optimizer *optimizer.Optimizer
	// Defaults fill the omitted fields of optimization requests.
	Defaults config.Targets
	// Gatherer backs /metrics. When nil the route is not registered.
	Gatherer prometheus.Gatherer
	// Clock stamps health responses. Defaults to time.Now.
	Clock func() time.Time
}

// Server serves the induction planner API.
type Server struct {
	store     fleet.ReadWriter
	optimizer *optimizer.Optimizer
	defaults  config.Targets
	gatherer  prometheus.Gatherer
	now       func() time.Time
}

// NewServer creates a Server from opts.
func NewServer(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("fleet store cannot be nil")
	}
	if opts.Optimizer == nil {
		return nil, fmt.Errorf("optimizer cannot be nil")
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Server{
		store:     opts.Store,
		optimizer: opts.Optimizer,
		defaults:  opts.Defaults,
		gatherer:  opts.Gatherer,
		now:       now,
	}, nil
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(ctrl.Log.WithName("http")))

	router.GET("/", s.Root)
	router.GET("/health", s.Health)
	router.GET("/trainsets", s.ListTrainsets)
	router.POST("/optimize", s.Optimize)
	if s.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
	return router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
// within shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	logger := ctrl.LoggerFrom(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serving induction planner API", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down induction planner API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return <-errCh
}
