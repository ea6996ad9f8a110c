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

package server

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/common/version"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
	"github.com/llm-d/fleet-induction-planner/internal/optimizer"
)

// Root describes the service.
func (s *Server) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Fleet Induction Planner API",
		"version": version.Version,
	})
}

// Health reports liveness.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

// ListTrainsets returns the current fleet in snapshot order. It never mutates the fleet.
func (s *Server) ListTrainsets(c *gin.Context) {
	snap := s.store.Current()
	if snap == nil {
		c.JSON(http.StatusOK, []v1alpha1.Trainset{})
		return
	}
	c.JSON(http.StatusOK, snap.Trainsets())
}

// Optimize runs one optimization cycle. An empty body uses the default targets.
func (s *Server) Optimize(c *gin.Context) {
	ctx := ctrl.LoggerInto(c.Request.Context(), ctrl.Log.WithName("optimizer"))

	body, err := c.GetRawData()
	if err != nil {
		s.fail(c, optimizer.KindOf(err), err)
		return
	}
	req := &v1alpha1.OptimizationRequest{}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := binding.JSON.BindBody(body, req); err != nil {
			s.fail(c, optimizer.MalformedRequest, err)
			return
		}
	}

	targets, err := optimizer.ResolveTargets(req, s.defaults)
	if err != nil {
		s.fail(c, optimizer.KindOf(err), err)
		return
	}

	result, err := s.optimizer.Run(ctx, s.store, targets)
	if err != nil {
		s.fail(c, optimizer.KindOf(err), err)
		return
	}
	c.JSON(http.StatusOK, result.Response())
}

// fail writes a FailureResponse. Malformed requests are 422; everything else is 500.
func (s *Server) fail(c *gin.Context, kind optimizer.ErrorKind, err error) {
	detail := err.Error()
	var oe *optimizer.OptimizationError
	if errors.As(err, &oe) {
		detail = oe.Message
	}

	if kind == optimizer.MalformedRequest {
		c.JSON(http.StatusUnprocessableEntity, v1alpha1.FailureResponse{Kind: string(kind), Detail: detail})
		return
	}
	c.JSON(http.StatusInternalServerError, v1alpha1.FailureResponse{
		Kind:   string(kind),
		Detail: "Optimization failed: " + detail,
	})
}
