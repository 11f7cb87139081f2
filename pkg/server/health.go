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

package server

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/NVIDIA/text2moo/pkg/errors"
	"github.com/NVIDIA/text2moo/pkg/serializer"
)

// readinessCheckTimeout bounds all readiness checks of one /ready call.
const readinessCheckTimeout = 2 * time.Second

// ReadinessCheck reports whether a dependency of the service can take work.
type ReadinessCheck func(ctx context.Context) error

// HealthResponse is the body of /health and /ready.
type HealthResponse struct {
	Status    string            `json:"status" yaml:"status"`
	Name      string            `json:"name,omitempty" yaml:"name,omitempty"`
	Version   string            `json:"version,omitempty" yaml:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty" yaml:"uptime,omitempty"`
	Timestamp time.Time         `json:"timestamp" yaml:"timestamp"`
	Reason    string            `json:"reason,omitempty" yaml:"reason,omitempty"`
	Checks    map[string]string `json:"checks,omitempty" yaml:"checks,omitempty"`
}

func (s *Server) healthResponse(status string) HealthResponse {
	resp := HealthResponse{
		Status:    status,
		Name:      s.config.Name,
		Version:   s.config.Version,
		Timestamp: time.Now(),
	}
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started.IsZero() {
		resp.Uptime = time.Since(started).Round(time.Second).String()
	}
	return resp
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{"method": r.Method})
		return
	}

	serializer.RespondJSON(w, http.StatusOK, s.healthResponse("healthy"))
}

// handleReady handles GET /ready. The service is ready once started and
// every registered readiness check passes.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{"method": r.Method})
		return
	}

	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()

	if !ready {
		resp := s.healthResponse("not_ready")
		resp.Reason = "service is initializing"
		serializer.RespondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	failed := s.runReadinessChecks(r.Context())
	if len(failed) > 0 {
		resp := s.healthResponse("not_ready")
		resp.Reason = "readiness checks failed"
		resp.Checks = failed
		serializer.RespondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, s.healthResponse("ready"))
}

// runReadinessChecks returns the error message of every failing check.
func (s *Server) runReadinessChecks(ctx context.Context) map[string]string {
	if len(s.checks) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, readinessCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	var failed map[string]string
	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			if failed == nil {
				failed = make(map[string]string)
			}
			failed[name] = err.Error()
		}
	}
	return failed
}
