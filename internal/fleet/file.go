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
	"fmt"
	"os"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
	"github.com/llm-d/fleet-induction-planner/internal/utils/attrs"
)

// FileSource reads the fleet from a csv, yaml or json file.
type FileSource struct {
	Path   string
	Values attrs.ValueConfig
}

var _ Source = &FileSource{}

// Name implements Source.
func (s *FileSource) Name() string { return "file" }

// Load implements Source.
func (s *FileSource) Load(_ context.Context) ([]v1alpha1.Trainset, error) {
	format, err := FormatFor(s.Path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading fleet file: %w", err)
	}
	trainsets, err := Decode(format, data, s.Values)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.Path, err)
	}
	return trainsets, nil
}
