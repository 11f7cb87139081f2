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

// Package api exposes the optimization core over HTTP.
//
// Serve wires the evaluate and optimize handlers into pkg/server and
// blocks until SIGINT or SIGTERM:
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Endpoints
//
// Application endpoints (behind rate limiting and the rest of the chain):
//   - POST /v1/evaluate - score decision vectors against a payload
//   - POST /v1/optimize - run an optimizer and return the report
//
// System endpoints:
//   - GET /health, GET /ready, GET /metrics
//
// # Request Body
//
// Bodies are JSON by default, YAML with Content-Type application/x-yaml.
// Units are supplied as inline payload data; file, URL and ConfigMap
// sources are only available from the CLI.
//
//	payload:
//	  data:
//	    engine:
//	      - {id: e1, name: Engine A, cost: 10, power: 50}
//	      - {id: e2, name: Engine B, cost: 20, power: 80}
//	    propeller:
//	      - {id: p1, name: Prop A, cost: 3, power: 5}
//	  variable: [engine, propeller]
//	  variable_attributes: [cost, power]
//	  objective: {cost: minimize, power: maximize}
//	  constraints:
//	    cost: {type: "<=", value: 25}
//	algorithm: nsga2
//
// /v1/evaluate additionally takes decisions (a list of index vectors) and
// mode (separate or inline).
//
// Responses are JSON documents; send Accept: text/plain for the plain
// text rendering. Errors use server.ErrorResponse with 400 for malformed
// requests and 422 for data the core rejects.
package api
