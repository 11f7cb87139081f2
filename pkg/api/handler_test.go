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

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NVIDIA/text2moo/pkg/pipeline"
	"github.com/NVIDIA/text2moo/pkg/report"
	"github.com/NVIDIA/text2moo/pkg/server"
)

const droneBody = `{
  "payload": {
    "data": {
      "engine": [
        {"id": "e1", "name": "Engine A", "cost": 10, "power": 50},
        {"id": "e2", "name": "Engine B", "cost": 20, "power": 80}
      ],
      "propeller": [
        {"id": "p1", "name": "Prop A", "cost": 3, "power": 5},
        {"id": "p2", "name": "Prop B", "cost": 6, "power": 9}
      ]
    },
    "variable": ["engine", "propeller"],
    "variable_attributes": ["cost", "power"],
    "objective": {"cost": "minimize", "power": "maximize"},
    "pop_size": 8,
    "n_gen": 5
  },
  "algorithm": "nsga2"
}`

const droneYAML = `payload:
  data:
    engine:
      - {id: e1, name: Engine A, cost: 10, power: 50}
    propeller:
      - {id: p1, name: Prop A, cost: 3, power: 5}
  variable: [engine, propeller]
  variable_attributes: [cost, power]
  objective: {cost: minimize}
decisions: [[0, 0]]
`

// TestConstants verifies package constants are properly defined
func TestConstants(t *testing.T) {
	if name != "moosd" {
		t.Errorf("name = %q, want %q", name, "moosd")
	}
	if versionDefault != "dev" {
		t.Errorf("versionDefault = %q, want %q", versionDefault, "dev")
	}
	if version == "" || commit == "" || date == "" {
		t.Error("build variables should not be empty")
	}
}

func TestRoutes(t *testing.T) {
	routes := NewHandler(nil).Routes()
	for _, path := range []string{"/v1/evaluate", "/v1/optimize"} {
		if h, ok := routes[path]; !ok || h == nil {
			t.Errorf("expected %s route", path)
		}
	}
	if len(routes) != 2 {
		t.Errorf("expected exactly 2 routes, got %d", len(routes))
	}
}

func TestReady(t *testing.T) {
	if err := NewHandler(nil).Ready(context.Background()); err != nil {
		t.Fatalf("Ready() = %v", err)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := NewHandler(nil)
	for path, handler := range h.Routes() {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			t.Run(method+" "+path, func(t *testing.T) {
				w := httptest.NewRecorder()
				handler(w, httptest.NewRequest(method, path, nil))

				if w.Code != http.StatusMethodNotAllowed {
					t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
				}
				if w.Header().Get("Allow") != http.MethodPost {
					t.Errorf("expected Allow: POST, got %q", w.Header().Get("Allow"))
				}
			})
		}
	}
}

func TestHandleOptimize(t *testing.T) {
	h := NewHandler(pipeline.New(pipeline.WithVersion("test")))

	req := httptest.NewRequest(http.MethodPost, "/v1/optimize", strings.NewReader(droneBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleOptimize(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var rep report.Report
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if rep.Algorithm != "nsga2" {
		t.Errorf("expected algorithm nsga2, got %q", rep.Algorithm)
	}
	// e1p1 (13,55), e1p2 (16,59), e2p1 (23,85), e2p2 (26,89) are all non-dominated
	if len(rep.Solutions) != 4 {
		t.Errorf("expected 4 solutions, got %d", len(rep.Solutions))
	}
}

func TestHandleOptimize_Canceled(t *testing.T) {
	h := NewHandler(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/v1/optimize", strings.NewReader(droneBody)).WithContext(ctx)
	w := httptest.NewRecorder()

	h.HandleOptimize(w, req)

	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected status 504, got %d: %s", w.Code, w.Body.String())
	}
	var resp server.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Code != "TIMEOUT" {
		t.Errorf("expected code TIMEOUT, got %s", resp.Code)
	}
}

func TestHandleOptimize_Text(t *testing.T) {
	h := NewHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/optimize", strings.NewReader(droneBody))
	req.Header.Set("Accept", "text/plain")
	w := httptest.NewRecorder()

	h.HandleOptimize(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("expected text/plain, got %q", w.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(w.Body.String(), "Solution 1:\n") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestHandleEvaluate_YAML(t *testing.T) {
	h := NewHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/evaluate", strings.NewReader(droneYAML))
	req.Header.Set("Content-Type", "application/x-yaml; charset=utf-8")
	w := httptest.NewRecorder()

	h.HandleEvaluate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var doc pipeline.Evaluation
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("failed to decode evaluation: %v", err)
	}
	if len(doc.Rows) != 1 || doc.Rows[0].Totals[0] != 13 {
		t.Errorf("unexpected evaluation: %+v", doc.Rows)
	}
}

func TestHandlers_Errors(t *testing.T) {
	h := NewHandler(nil)

	tests := []struct {
		name     string
		handler  http.HandlerFunc
		body     string
		wantCode int
		wantErr  string
	}{
		{"empty body", h.HandleOptimize, "", http.StatusBadRequest, "INVALID_REQUEST"},
		{"invalid JSON", h.HandleOptimize, "{invalid}", http.StatusBadRequest, "INVALID_REQUEST"},
		{"missing payload", h.HandleOptimize, `{"algorithm":"nsga2"}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown algorithm", h.HandleOptimize,
			strings.Replace(droneBody, `"nsga2"`, `"simplex"`, 1),
			http.StatusUnprocessableEntity, "INVALID_ENUM"},
		{"unknown direction", h.HandleOptimize,
			strings.Replace(droneBody, `"cost": "minimize"`, `"cost": "minimise"`, 1),
			http.StatusUnprocessableEntity, "INVALID_ENUM"},
		{"unknown attribute", h.HandleOptimize,
			strings.Replace(droneBody, `"power": "maximize"`, `"mass": "maximize"`, 1),
			http.StatusUnprocessableEntity, "UNKNOWN_ATTRIBUTE"},
		{"population above limit", h.HandleOptimize,
			strings.Replace(droneBody, `"pop_size": 8`, `"pop_size": 2000000000`, 1),
			http.StatusUnprocessableEntity, "INVALID_NUMERIC_PARAMETER"},
		{"generations above limit", h.HandleOptimize,
			strings.Replace(droneBody, `"n_gen": 5`, `"n_gen": 1000000`, 1),
			http.StatusUnprocessableEntity, "INVALID_NUMERIC_PARAMETER"},
		{"moead population above limit", h.HandleOptimize,
			strings.Replace(strings.Replace(droneBody, `"nsga2"`, `"moead"`, 1),
				`"pop_size": 8`, `"pop_size": 2000000000`, 1),
			http.StatusUnprocessableEntity, "INVALID_NUMERIC_PARAMETER"},
		{"out of range", h.HandleEvaluate,
			strings.Replace(droneYAML, "[[0, 0]]", "[[0, 5]]", 1),
			http.StatusUnprocessableEntity, "OUT_OF_RANGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/v1/optimize"
			if strings.Contains(tt.body, "decisions") {
				path = "/v1/evaluate"
			}
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(tt.body))
			if strings.Contains(tt.body, "decisions") {
				req.Header.Set("Content-Type", "application/yaml")
			}
			w := httptest.NewRecorder()

			tt.handler(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			var resp server.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if resp.Code != tt.wantErr {
				t.Errorf("expected code %s, got %s (%s)", tt.wantErr, resp.Code, resp.Message)
			}
		})
	}
}
