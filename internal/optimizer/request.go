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
	"k8s.io/utils/ptr"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
	"github.com/llm-d/fleet-induction-planner/internal/config"
	"github.com/llm-d/fleet-induction-planner/internal/engines/allocator"
)

// ResolveTargets fills the omitted fields of req from defaults and rejects negative values.
// A nil request uses the defaults.
func ResolveTargets(req *v1alpha1.OptimizationRequest, defaults config.Targets) (allocator.Targets, error) {
	if req == nil {
		req = &v1alpha1.OptimizationRequest{}
	}
	targets := allocator.Targets{
		Ready:       ptr.Deref(req.TargetReady, defaults.Ready),
		Standby:     ptr.Deref(req.TargetStandby, defaults.Standby),
		Maintenance: ptr.Deref(req.TargetMaintenance, defaults.Maintenance),
	}
	if err := targets.Validate(); err != nil {
		return allocator.Targets{}, newError(MalformedRequest, err)
	}
	return targets, nil
}
