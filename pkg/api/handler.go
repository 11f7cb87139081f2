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
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/text2moo/pkg/config"
	"github.com/NVIDIA/text2moo/pkg/defaults"
	"github.com/NVIDIA/text2moo/pkg/errors"
	"github.com/NVIDIA/text2moo/pkg/pipeline"
	"github.com/NVIDIA/text2moo/pkg/serializer"
	"github.com/NVIDIA/text2moo/pkg/server"
)

// Handler serves the evaluate and optimize endpoints.
type Handler struct {
	runner *pipeline.Runner
}

// NewHandler returns a Handler running requests through runner.
func NewHandler(runner *pipeline.Runner) *Handler {
	if runner == nil {
		runner = pipeline.New()
	}
	return &Handler{runner: runner}
}

// Ready runs a one-unit probe problem through the runner so /ready fails
// when the evaluation path is broken.
func (h *Handler) Ready(ctx context.Context) error {
	doc, err := h.runner.Evaluate(ctx, &pipeline.EvaluateRequest{
		Request: pipeline.Request{
			Payload: &config.Payload{
				Data: map[string][]any{
					"probe": {map[string]any{"id": "probe", "name": "probe", "value": 1}},
				},
				Variables:          []string{"probe"},
				VariableAttributes: []string{"value"},
				Objectives:         config.ObjectiveSpecs{{Attribute: "value", Direction: "maximize"}},
			},
			Workers: 1,
		},
		Decisions: [][]int{{0}},
	})
	if err != nil {
		return fmt.Errorf("probe evaluation failed: %w", err)
	}
	if got := doc.Rows[0].Totals[0]; got != 1 {
		return fmt.Errorf("probe evaluation returned %v, expected 1", got)
	}
	return nil
}

// Routes returns the handler map registered with the server.
func (h *Handler) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/evaluate": h.HandleEvaluate,
		"/v1/optimize": h.HandleOptimize,
	}
}

// HandleEvaluate scores the decision vectors in a POST body against its
// payload. Sources are not accepted over HTTP; units come from the
// payload's inline data.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	if !allowPost(w, r) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), defaults.EvaluateHandlerTimeout)
	defer cancel()

	var req pipeline.EvaluateRequest
	if err := decodeBody(r, &req); err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid evaluate request", nil)
		return
	}

	req.Workers = min(req.Workers, runtime.GOMAXPROCS(0))
	doc, err := h.runner.Evaluate(ctx, &req)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to evaluate decision vectors", nil)
		return
	}
	respond(w, r, doc)
}

// HandleOptimize runs a full optimization for the payload in a POST body
// and returns the report. The run itself stops at OptimizeRunTimeout so the
// error response still fits within OptimizeHandlerTimeout.
func (h *Handler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	if !allowPost(w, r) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), defaults.OptimizeHandlerTimeout)
	defer cancel()

	var req pipeline.Request
	if err := decodeBody(r, &req); err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid optimize request", nil)
		return
	}

	slog.Debug("optimize request",
		"requestID", server.RequestID(r.Context()),
		"algorithm", req.Algorithm,
		"workers", req.Workers)
	req.Workers = min(req.Workers, runtime.GOMAXPROCS(0))

	runCtx, runCancel := context.WithTimeout(ctx, defaults.OptimizeRunTimeout)
	defer runCancel()

	rep, err := h.runner.Run(runCtx, &req)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Optimization failed", nil)
		return
	}
	respond(w, r, rep)
}

func allowPost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodPost {
		return true
	}
	w.Header().Set("Allow", http.MethodPost)
	server.WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{
			"method":  r.Method,
			"allowed": []string{http.MethodPost},
		})
	return false
}

// decodeBody reads a JSON or YAML request by Content-Type, defaulting to
// JSON.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "request body is required")
	}
	defer r.Body.Close()

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "failed to read request body", err)
	}
	if len(data) == 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "request body is empty")
	}

	ct := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	if i := strings.Index(ct, ";"); i != -1 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case "application/x-yaml", "application/yaml", "text/yaml":
		err = yaml.Unmarshal(data, v)
	default:
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("failed to parse %s body", bodyKind(ct)), err)
	}
	return nil
}

func bodyKind(contentType string) string {
	if strings.Contains(contentType, "yaml") {
		return "YAML"
	}
	return "JSON"
}

// respond writes v as JSON, or as text when the client asks for text/plain
// and v renders itself.
func respond(w http.ResponseWriter, r *http.Request, v any) {
	if t, ok := v.(serializer.Texter); ok && strings.Contains(r.Header.Get("Accept"), "text/plain") {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, t.Text()); err != nil {
			slog.Warn("response write failed", "error", err)
		}
		return
	}
	serializer.RespondJSON(w, http.StatusOK, v)
}
