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
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
	"github.com/llm-d/fleet-induction-planner/internal/config"
	"github.com/llm-d/fleet-induction-planner/internal/utils/attrs"
)

const testNamespace = "depot"

const fleetCSV = `id,name,fitness_status,job_cards_open,branding_hours,mileage_km,cleaning_status,stabling_position,status
1,Rake 01,Valid,0,220,75000,Complete,3,Ready
2,Rake 02,expiring,2,90,58000,in_progress,1,
3, Rake 03 ,EXPIRED,5,300,101000,Pending,10,standby
`

const fleetYAML = `
trainsets:
  - id: 1
    name: Rake 01
    fitness_status: Valid
    job_cards_open: 0
    branding_hours: 220
    mileage_km: 75000
    cleaning_status: Completed
    stabling_position: 3
    status: Ready
  - id: 2
    name: Rake 02
    fitness_status: Pending
    job_cards_open: 2
    branding_hours: 90
    mileage_km: 58000
    cleaning_status: In Progress
    stabling_position: 1
`

const fleetJSON = `[
  {"id": 7, "name": "Rake 07", "fitness_status": "Expired", "job_cards_open": 4, "branding_hours": 10,
   "mileage_km": 110000, "cleaning_status": "Pending", "stabling_position": 2, "status": "Maintenance"}
]`

func newScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	_ = clientgoscheme.AddToScheme(scheme)
	return scheme
}

func makeConfigMap(name string, data map[string]string) *corev1.ConfigMap {
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: testNamespace},
		Data:       data,
	}
}

func writeFile(name, content string) string {
	path := filepath.Join(GinkgoT().TempDir(), name)
	Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
	return path
}

var _ = Describe("SyntheticSource", func() {
	It("should generate a valid fleet within the documented ranges", func() {
		trainsets, err := (&SyntheticSource{Size: 25, Seed: 11}).Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(trainsets).To(HaveLen(25))
		Expect(v1alpha1.ValidateFleet(trainsets)).To(BeEmpty())

		for i, t := range trainsets {
			Expect(t.ID).To(Equal(i + 1))
			Expect(t.JobCardsOpen).To(BeNumerically("<=", 5))
			Expect(t.BrandingHours).To(And(BeNumerically(">=", 50), BeNumerically("<=", 300)))
			Expect(t.MileageKm).To(And(BeNumerically(">=", 50000), BeNumerically("<=", 120000)))
			Expect(t.StablingPosition).To(And(BeNumerically(">=", 1), BeNumerically("<=", 10)))
		}
		Expect(trainsets[0].Name).To(Equal("Rake 01"))
		Expect(trainsets[24].Name).To(Equal("Rake 25"))
	})

	It("should be reproducible for a fixed seed", func() {
		a, err := (&SyntheticSource{Size: 10, Seed: 3}).Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		b, err := (&SyntheticSource{Size: 10, Seed: 3}).Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("should reject a non-positive size", func() {
		_, err := (&SyntheticSource{Size: 0}).Load(context.Background())
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Decode", func() {
	values := attrs.DefaultValueConfig()

	It("should decode and normalize csv", func() {
		trainsets, err := Decode(FormatCSV, []byte(fleetCSV), values)
		Expect(err).NotTo(HaveOccurred())
		Expect(trainsets).To(HaveLen(3))

		Expect(trainsets[1].FitnessStatus).To(Equal(v1alpha1.FitnessPending))
		Expect(trainsets[1].CleaningStatus).To(Equal(v1alpha1.CleaningInProgress))
		Expect(trainsets[1].Status).To(Equal(v1alpha1.StatusMaintenance))
		Expect(trainsets[2].Name).To(Equal("Rake 03"))
		Expect(trainsets[2].FitnessStatus).To(Equal(v1alpha1.FitnessExpired))
		Expect(trainsets[2].Status).To(Equal(v1alpha1.StatusStandby))
		Expect(trainsets[2].MileageKm).To(Equal(101000))
	})

	It("should decode a wrapped yaml document", func() {
		trainsets, err := Decode(FormatYAML, []byte(fleetYAML), values)
		Expect(err).NotTo(HaveOccurred())
		Expect(trainsets).To(HaveLen(2))
		Expect(trainsets[0].CleaningStatus).To(Equal(v1alpha1.CleaningComplete))
		Expect(trainsets[1].Status).To(Equal(v1alpha1.StatusMaintenance))
	})

	It("should decode a bare json list", func() {
		trainsets, err := Decode(FormatJSON, []byte(fleetJSON), values)
		Expect(err).NotTo(HaveOccurred())
		Expect(trainsets).To(HaveLen(1))
		Expect(trainsets[0].ID).To(Equal(7))
	})

	DescribeTable("should reject malformed input",
		func(format Format, data string) {
			_, err := Decode(format, []byte(data), values)
			Expect(err).To(HaveOccurred())
		},
		Entry("missing csv column", FormatCSV, "id,name\n1,Rake 01\n"),
		Entry("non-numeric csv field", FormatCSV,
			"id,name,fitness_status,job_cards_open,branding_hours,mileage_km,cleaning_status,stabling_position\n"+
				"1,Rake 01,Valid,many,1,1,Complete,1\n"),
		Entry("unknown fitness", FormatCSV,
			"id,name,fitness_status,job_cards_open,branding_hours,mileage_km,cleaning_status,stabling_position\n"+
				"1,Rake 01,Revoked,0,1,1,Complete,1\n"),
		Entry("unknown yaml field", FormatYAML, "- id: 1\n  colour: red\n"),
		Entry("unknown format", Format("xml"), "<fleet/>"),
	)

	It("should report the list error for a malformed bare list", func() {
		_, err := Decode(FormatYAML, []byte("- id: 1\n  colour: red\n"), values)
		Expect(err).To(MatchError(ContainSubstring("decoding fleet as a list")))
		Expect(err).To(MatchError(ContainSubstring("colour")))
		Expect(err).To(MatchError(ContainSubstring("decoding fleet as a document")))
	})

	DescribeTable("FormatFor",
		func(name string, want Format, wantErr bool) {
			got, err := FormatFor(name)
			if wantErr {
				Expect(err).To(HaveOccurred())
				return
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("csv", "fleet.csv", FormatCSV, false),
		Entry("upper-case yml", "FLEET.YML", FormatYAML, false),
		Entry("json", "/data/fleet.json", FormatJSON, false),
		Entry("no extension", "fleet", Format(""), true),
	)
})

var _ = Describe("FileSource", func() {
	It("should load a csv file", func() {
		src := &FileSource{Path: writeFile("fleet.csv", fleetCSV), Values: attrs.DefaultValueConfig()}
		trainsets, err := src.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(trainsets).To(HaveLen(3))
	})

	It("should fail on a missing file", func() {
		src := &FileSource{Path: filepath.Join(GinkgoT().TempDir(), "missing.csv"), Values: attrs.DefaultValueConfig()}
		_, err := src.Load(context.Background())
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ConfigMapSource", func() {
	It("should read the named key", func() {
		c := fake.NewClientBuilder().WithScheme(newScheme()).WithObjects(
			makeConfigMap("fleet", map[string]string{"fleet.csv": fleetCSV, "other.json": fleetJSON}),
		).Build()
		src := &ConfigMapSource{Client: c, Namespace: testNamespace, ConfigMapName: "fleet", Key: "other.json", Values: attrs.DefaultValueConfig()}
		trainsets, err := src.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(trainsets).To(HaveLen(1))
	})

	It("should pick the first fleet key in sorted order", func() {
		c := fake.NewClientBuilder().WithScheme(newScheme()).WithObjects(
			makeConfigMap("fleet", map[string]string{"README": "ignored", "b.yaml": fleetYAML, "a.csv": fleetCSV}),
		).Build()
		src := &ConfigMapSource{Client: c, Namespace: testNamespace, ConfigMapName: "fleet", Values: attrs.DefaultValueConfig()}
		trainsets, err := src.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(trainsets).To(HaveLen(3))
	})

	It("should fail when no key holds a fleet", func() {
		c := fake.NewClientBuilder().WithScheme(newScheme()).WithObjects(
			makeConfigMap("fleet", map[string]string{"README": "ignored"}),
		).Build()
		src := &ConfigMapSource{Client: c, Namespace: testNamespace, ConfigMapName: "fleet", Values: attrs.DefaultValueConfig()}
		_, err := src.Load(context.Background())
		Expect(err).To(MatchError(errNoFleetKey))
	})

	It("should fail when the configmap does not exist", func() {
		c := fake.NewClientBuilder().WithScheme(newScheme()).Build()
		src := &ConfigMapSource{Client: c, Namespace: testNamespace, ConfigMapName: "fleet", Values: attrs.DefaultValueConfig()}
		_, err := src.Load(context.Background())
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("NewSource", func() {
	It("should build each configured source", func() {
		src, err := NewSource(config.FleetConfig{Source: config.SourceSynthetic, Size: 3}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(src.Name()).To(Equal("synthetic"))

		src, err = NewSource(config.FleetConfig{Source: config.SourceFile, Path: "fleet.csv"}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(src.Name()).To(Equal("file"))

		c := fake.NewClientBuilder().WithScheme(newScheme()).Build()
		src, err = NewSource(config.FleetConfig{Source: config.SourceConfigMap, ConfigMap: config.ConfigMapConfig{Name: "fleet"}}, c)
		Expect(err).NotTo(HaveOccurred())
		Expect(src.Name()).To(Equal("configmap"))
	})

	It("should load the configured configmap", func() {
		c := fake.NewClientBuilder().WithScheme(newScheme()).WithObjects(
			makeConfigMap("depot-fleet", map[string]string{"fleet.csv": fleetCSV}),
		).Build()
		src, err := NewSource(config.FleetConfig{
			Source:    config.SourceConfigMap,
			ConfigMap: config.ConfigMapConfig{Namespace: testNamespace, Name: "depot-fleet"},
		}, c)
		Expect(err).NotTo(HaveOccurred())

		cms, ok := src.(*ConfigMapSource)
		Expect(ok).To(BeTrue())
		Expect(cms.ConfigMapName).To(Equal("depot-fleet"))
		Expect(cms.Name()).To(Equal("configmap"))

		trainsets, err := src.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(trainsets).To(HaveLen(3))
	})

	It("should require a client for the configmap source", func() {
		_, err := NewSource(config.FleetConfig{Source: config.SourceConfigMap}, nil)
		Expect(err).To(HaveOccurred())
	})

	It("should reject unknown sources", func() {
		_, err := NewSource(config.FleetConfig{Source: "ftp"}, nil)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("LoadSnapshot", func() {
	now := time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC)

	It("should wrap a valid fleet as version 1", func() {
		snap, err := LoadSnapshot(context.Background(), &SyntheticSource{Size: 5, Seed: 1}, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(snap.Version()).To(Equal(int64(1)))
		Expect(snap.Len()).To(Equal(5))
		Expect(snap.CreatedAt()).To(Equal(now))
	})

	It("should reject a fleet with duplicate ids", func() {
		src := &FileSource{Path: writeFile("dup.json", `[
  {"id": 1, "name": "Rake 01", "fitness_status": "Valid", "cleaning_status": "Complete", "stabling_position": 1},
  {"id": 1, "name": "Rake 01b", "fitness_status": "Valid", "cleaning_status": "Complete", "stabling_position": 2}
]`), Values: attrs.DefaultValueConfig()}
		_, err := LoadSnapshot(context.Background(), src, now)
		Expect(err).To(MatchError(ErrInvalidFleet))
	})
})
