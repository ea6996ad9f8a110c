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
	"sort"

	corev1 "k8s.io/api/core/v1"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
	"github.com/llm-d/fleet-induction-planner/internal/logging"
	"github.com/llm-d/fleet-induction-planner/internal/utils/attrs"
)

var errNoFleetKey = errors.New("no csv, yaml or json key found in configmap")

// ConfigMapSource reads the fleet from a key of a Kubernetes ConfigMap.
type ConfigMapSource struct {
	Client        client.Client
	Namespace     string
	ConfigMapName string
	// Key selects the data key; when empty the first csv/yaml/json key in sorted order is used.
	Key    string
	Values attrs.ValueConfig
}

var _ Source = &ConfigMapSource{}

// Name implements Source.
func (s *ConfigMapSource) Name() string { return "configmap" }

// Load implements Source.
func (s *ConfigMapSource) Load(ctx context.Context) ([]v1alpha1.Trainset, error) {
	logger := ctrl.LoggerFrom(ctx)

	cm := &corev1.ConfigMap{}
	if err := s.Client.Get(ctx, client.ObjectKey{Namespace: s.Namespace, Name: s.ConfigMapName}, cm); err != nil {
		return nil, fmt.Errorf("getting configmap %s/%s: %w", s.Namespace, s.ConfigMapName, err)
	}

	key, err := s.selectKey(cm)
	if err != nil {
		return nil, fmt.Errorf("configmap %s/%s: %w", s.Namespace, s.ConfigMapName, err)
	}
	format, err := FormatFor(key)
	if err != nil {
		return nil, fmt.Errorf("configmap %s/%s: %w", s.Namespace, s.ConfigMapName, err)
	}

	logger.V(logging.DEBUG).Info("Reading fleet from configmap",
		"namespace", s.Namespace,
		"name", s.ConfigMapName,
		"key", key)
	trainsets, err := Decode(format, []byte(cm.Data[key]), s.Values)
	if err != nil {
		return nil, fmt.Errorf("decoding configmap %s/%s key %s: %w", s.Namespace, s.ConfigMapName, key, err)
	}
	return trainsets, nil
}

func (s *ConfigMapSource) selectKey(cm *corev1.ConfigMap) (string, error) {
	if s.Key != "" {
		if _, ok := cm.Data[s.Key]; !ok {
			return "", fmt.Errorf("key %q not found", s.Key)
		}
		return s.Key, nil
	}

	// sorted keys for deterministic selection
	keys := make([]string, 0, len(cm.Data))
	for key := range cm.Data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if isFleetKey(key) {
			return key, nil
		}
	}
	return "", errNoFleetKey
}
