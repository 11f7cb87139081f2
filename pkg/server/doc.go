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

// Package server provides the HTTP runtime for the text2moo API: routing,
// middleware, health probes, Prometheus metrics and graceful shutdown.
// Domain handlers are supplied by the caller through WithHandler; see
// pkg/api for the evaluate and optimize endpoints.
//
// # Architecture
//
// Every configured handler runs behind this middleware chain, outermost
// first:
//
//   - Prometheus RED metrics (moo_http_*)
//   - API version negotiation (Accept: application/vnd.nvidia.moo.v1+json)
//   - Request ID tracking (X-Request-Id, UUID)
//   - Panic recovery
//   - Token bucket rate limiting (golang.org/x/time/rate)
//   - Request body limit
//   - Debug request logging
//
// System endpoints bypass the chain:
//
//	GET /health   liveness, always 200
//	GET /ready    readiness, 503 until the listener is up and during shutdown
//	GET /metrics  Prometheus exposition
//
// # Usage
//
//	s := server.New(
//	    server.WithName("moosd"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/optimize": handler.HandleOptimize,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// # Errors
//
// Handlers report failures with WriteErrorFromErr. Structured errors keep
// their code and context; the HTTP status follows the code's category:
//
//	INVALID_REQUEST                          400
//	ingestion, configuration, evaluation     422
//	NOT_FOUND                                404
//	RATE_LIMIT_EXCEEDED                      429
//	TIMEOUT                                  504
//	anything else                            500
//
// # Configuration
//
// PORT sets the listen port (default 8080). SHUTDOWN_TIMEOUT_SECONDS sets
// the graceful shutdown window to match the pod's termination grace period.
package server
