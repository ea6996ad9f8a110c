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
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
	"github.com/llm-d/fleet-induction-planner/internal/utils/attrs"
)

// Format is an on-disk fleet encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var errUnknownFormat = errors.New("unknown fleet format")

// FormatFor infers the format from a file name or ConfigMap key.
func FormatFor(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", errUnknownFormat, name)
}

// isFleetKey reports whether a ConfigMap data key likely holds a fleet.
func isFleetKey(key string) bool {
	_, err := FormatFor(key)
	return err == nil
}

// fleetDocument is the wrapped form of a YAML/JSON fleet.
type fleetDocument struct {
	Trainsets []v1alpha1.Trainset `json:"trainsets"`
}

// Decode parses a fleet in the given format and normalizes its enumerated attributes.
func Decode(format Format, data []byte, values attrs.ValueConfig) ([]v1alpha1.Trainset, error) {
	var (
		trainsets []v1alpha1.Trainset
		err       error
	)
	switch format {
	case FormatCSV:
		trainsets, err = decodeCSV(data)
	case FormatYAML, FormatJSON:
		trainsets, err = decodeDocument(data)
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	for i := range trainsets {
		if err := values.Normalize(&trainsets[i]); err != nil {
			return nil, fmt.Errorf("trainset %d: %w", trainsets[i].ID, err)
		}
	}
	return trainsets, nil
}

// decodeDocument accepts either a bare list or a {trainsets: [...]} document.
// sigs.k8s.io/yaml handles both YAML and JSON.
func decodeDocument(data []byte) ([]v1alpha1.Trainset, error) {
	var list []v1alpha1.Trainset
	listErr := yaml.UnmarshalStrict(data, &list)
	if listErr == nil {
		return list, nil
	}
	var doc fleetDocument
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, errors.Join(
			fmt.Errorf("decoding fleet as a list: %w", listErr),
			fmt.Errorf("decoding fleet as a document: %w", err),
		)
	}
	return doc.Trainsets, nil
}

// CSV columns; status is optional.
const (
	colID               = "id"
	colName             = "name"
	colFitnessStatus    = "fitness_status"
	colJobCardsOpen     = "job_cards_open"
	colBrandingHours    = "branding_hours"
	colMileageKm        = "mileage_km"
	colCleaningStatus   = "cleaning_status"
	colStablingPosition = "stabling_position"
	colStatus           = "status"
)

var requiredColumns = []string{
	colID, colName, colFitnessStatus, colJobCardsOpen, colBrandingHours,
	colMileageKm, colCleaningStatus, colStablingPosition,
}

// decodeCSV reads a header row naming the columns followed by one row per trainset.
func decodeCSV(data []byte) ([]v1alpha1.Trainset, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("csv header is missing column %q", col)
		}
	}

	var trainsets []v1alpha1.Trainset
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv line %d: %w", line, err)
		}
		t, err := parseRecord(rec, index)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		trainsets = append(trainsets, t)
	}
	return trainsets, nil
}

func parseRecord(rec []string, index map[string]int) (v1alpha1.Trainset, error) {
	field := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	var (
		t    v1alpha1.Trainset
		errs []error
	)
	atoi := func(col string) int {
		n, err := strconv.Atoi(field(col))
		if err != nil {
			errs = append(errs, fmt.Errorf("column %s: %w", col, err))
		}
		return n
	}

	t.ID = atoi(colID)
	t.Name = field(colName)
	t.FitnessStatus = v1alpha1.FitnessStatus(field(colFitnessStatus))
	t.JobCardsOpen = atoi(colJobCardsOpen)
	t.BrandingHours = atoi(colBrandingHours)
	t.MileageKm = atoi(colMileageKm)
	t.CleaningStatus = v1alpha1.CleaningStatus(field(colCleaningStatus))
	t.StablingPosition = atoi(colStablingPosition)
	t.Status = v1alpha1.InductionStatus(field(colStatus))
	return t, errors.Join(errs...)
}
