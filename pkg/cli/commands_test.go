// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/text2moo/pkg/config"
	"github.com/NVIDIA/text2moo/pkg/errors"
	"github.com/NVIDIA/text2moo/pkg/pipeline"
	"github.com/NVIDIA/text2moo/pkg/report"
)

const enginesCSV = `id,name,cost,power
e1,Engine A,10,50
e2,Engine B,20,80
e3,Engine C,30,60
`

// Engines come from a source, propellers from the payload.
const dronePayloadYAML = `data:
  propeller:
    - {id: p1, name: Prop A, cost: 3, power: 5}
    - {id: p2, name: Prop B, cost: 6, power: 9}
variable: [engine, propeller]
variable_attributes: [cost, power]
objective:
  cost: minimize
  power: maximize
population_size: 20
generation_count: 15
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	return newRootCmd().Run(context.Background(), append([]string{name, "--log-level", "error"}, args...))
}

func readOutput(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return b
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{"ingest": false, "validate": false, "evaluate": false, "optimize": false}
	for _, c := range root.Commands {
		if _, ok := want[c.Name]; ok {
			want[c.Name] = true
		}
	}
	for n, found := range want {
		if !found {
			t.Errorf("command %q not registered", n)
		}
	}
}

func TestIngestCommand(t *testing.T) {
	src := writeTemp(t, "engines.csv", enginesCSV)
	out := filepath.Join(t.TempDir(), "groups.yaml")

	if err := run(t, "ingest", "--source", "engine="+src, "--output", out); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	var doc GroupDocument
	if err := yaml.Unmarshal(readOutput(t, out), &doc); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if doc.Kind != "Group" {
		t.Errorf("kind = %q, want Group", doc.Kind)
	}
	if len(doc.Groups) != 1 || doc.Groups[0].Variable != "engine" {
		t.Fatalf("unexpected groups: %+v", doc.Groups)
	}
	if got := len(doc.Groups[0].Units); got != 3 {
		t.Errorf("units = %d, want 3", got)
	}
}

func TestIngestCommand_Check(t *testing.T) {
	good := writeTemp(t, "engines.csv", enginesCSV)
	if err := run(t, "ingest", "--check", "--source", "engine="+good); err != nil {
		t.Fatalf("check failed: %v", err)
	}

	dup := writeTemp(t, "dup.csv", "id,name\ne1,A\ne1,B\n")
	err := run(t, "ingest", "--check", "--source", "engine="+dup)
	if !errors.IsCode(err, errors.ErrCodeDuplicateID) {
		t.Errorf("expected %s, got %v", errors.ErrCodeDuplicateID, err)
	}
}

func TestIngestCommand_NoSources(t *testing.T) {
	err := run(t, "ingest")
	if !errors.IsCode(err, errors.ErrCodeInvalidRequest) {
		t.Errorf("expected %s, got %v", errors.ErrCodeInvalidRequest, err)
	}
}

func TestValidateCommand(t *testing.T) {
	src := writeTemp(t, "engines.csv", enginesCSV)
	payload := writeTemp(t, "payload.yaml", dronePayloadYAML)
	out := filepath.Join(t.TempDir(), "config.json")

	if err := run(t, "validate", "-s", "engine="+src, "-p", payload, "-o", out); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	var doc config.Document
	if err := json.Unmarshal(readOutput(t, out), &doc); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if doc.Configuration == nil {
		t.Fatal("configuration missing")
	}
	if doc.Configuration.ConstraintPenalty == nil || *doc.Configuration.ConstraintPenalty != 1e6 {
		t.Errorf("constraint penalty default not applied: %v", doc.Configuration.ConstraintPenalty)
	}
	if len(doc.Variables) != 2 {
		t.Errorf("variables = %d, want 2", len(doc.Variables))
	}
}

func TestValidateCommand_Errors(t *testing.T) {
	src := writeTemp(t, "engines.csv", enginesCSV)
	unknownAttr := writeTemp(t, "payload.yaml",
		strings.Replace(dronePayloadYAML, "objective:\n", "objective:\n  mass: minimize\n", 1))

	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{"missing payload", []string{"validate", "-s", "engine=" + src}, errors.ErrCodeInvalidRequest},
		{"bad source", []string{"validate", "-s", src}, errors.ErrCodeInvalidRequest},
		{"unknown attribute", []string{"validate", "-s", "engine=" + src, "-p", unknownAttr}, errors.ErrCodeUnknownAttribute},
		{"missing variable data", []string{"validate", "-p", writeTemp(t, "p.yaml", dronePayloadYAML)}, errors.ErrCodeUnknownVariable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(t, tt.args...)
			if !errors.IsCode(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestEvaluateCommand(t *testing.T) {
	src := writeTemp(t, "engines.csv", enginesCSV)
	payload := writeTemp(t, "payload.yaml", dronePayloadYAML)
	out := filepath.Join(t.TempDir(), "eval.json")

	err := run(t, "evaluate", "-s", "engine="+src, "-p", payload,
		"--decision", "0,0", "--decision", "1,1", "-o", out)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	var ev pipeline.Evaluation
	if err := json.Unmarshal(readOutput(t, out), &ev); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(ev.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(ev.Rows))
	}
	// e1+p1: cost 13, power 55 stored negated
	if got := ev.Rows[0].Objectives; len(got) != 2 || got[0] != 13 || got[1] != -55 {
		t.Errorf("objectives = %v, want [13 -55]", got)
	}
	if got := ev.Rows[1].Totals; len(got) != 2 || got[0] != 26 || got[1] != 89 {
		t.Errorf("totals = %v, want [26 89]", got)
	}
}

func TestEvaluateCommand_Text(t *testing.T) {
	src := writeTemp(t, "engines.csv", enginesCSV)
	payload := writeTemp(t, "payload.yaml", dronePayloadYAML)
	out := filepath.Join(t.TempDir(), "eval.txt")

	if err := run(t, "evaluate", "-s", "engine="+src, "-p", payload, "-d", "2,1", "-o", out); err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	got := string(readOutput(t, out))
	for _, want := range []string{"Decision 1: [2 1]", "units: Engine C, Prop B", "total_cost: 36", "total_power: 69"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestEvaluateCommand_OutOfRange(t *testing.T) {
	src := writeTemp(t, "engines.csv", enginesCSV)
	payload := writeTemp(t, "payload.yaml", dronePayloadYAML)

	err := run(t, "evaluate", "-s", "engine="+src, "-p", payload, "-d", "3,0")
	if !errors.IsCode(err, errors.ErrCodeOutOfRange) {
		t.Errorf("expected %s, got %v", errors.ErrCodeOutOfRange, err)
	}

	err = run(t, "evaluate", "-s", "engine="+src, "-p", payload, "-d", "0,0", "--mode", "soft")
	if !errors.IsCode(err, errors.ErrCodeInvalidEnum) {
		t.Errorf("expected %s, got %v", errors.ErrCodeInvalidEnum, err)
	}
}

func TestOptimizeCommand(t *testing.T) {
	src := writeTemp(t, "engines.csv", enginesCSV)
	payload := writeTemp(t, "payload.yaml", dronePayloadYAML)
	dir := t.TempDir()
	out := filepath.Join(dir, "report.json")
	plot := filepath.Join(dir, "front.html")

	err := run(t, "optimize", "-s", "engine="+src, "-p", payload,
		"--algorithm", "nsga2", "-o", out, "--plot", plot)
	if err != nil {
		t.Fatalf("optimize failed: %v", err)
	}

	var rep report.Report
	if err := json.Unmarshal(readOutput(t, out), &rep); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if rep.Algorithm != "nsga2" {
		t.Errorf("algorithm = %q, want nsga2", rep.Algorithm)
	}
	// Engines A and B dominate C; both propellers trade cost for power.
	if len(rep.Solutions) != 4 {
		t.Errorf("solutions = %d, want 4", len(rep.Solutions))
	}
	for _, s := range rep.Solutions {
		if x := s.Decision(); x[0] == 2 {
			t.Errorf("dominated engine in solution %v", x)
		}
	}

	html := string(readOutput(t, plot))
	if !strings.Contains(html, "<html") {
		t.Errorf("plot is not an HTML document")
	}
}

func TestOptimizeCommand_Text(t *testing.T) {
	src := writeTemp(t, "engines.csv", enginesCSV)
	payload := writeTemp(t, "payload.yaml", dronePayloadYAML)
	out := filepath.Join(t.TempDir(), "report.txt")

	if err := run(t, "optimize", "-s", "engine="+src, "-p", payload, "-a", "nsga2", "-o", out); err != nil {
		t.Fatalf("optimize failed: %v", err)
	}
	got := string(readOutput(t, out))
	for _, want := range []string{"Solution 1:\n", "engine: Engine ", "propeller: Prop ", "total_cost: ", "total_power: ", "\n\nSolution 2:\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestOptimizeCommand_UnknownAlgorithm(t *testing.T) {
	src := writeTemp(t, "engines.csv", enginesCSV)
	payload := writeTemp(t, "payload.yaml", dronePayloadYAML)

	err := run(t, "optimize", "-s", "engine="+src, "-p", payload, "--algorithm", "sms-emoa")
	if !errors.IsCode(err, errors.ErrCodeInvalidEnum) {
		t.Errorf("expected %s, got %v", errors.ErrCodeInvalidEnum, err)
	}
}
