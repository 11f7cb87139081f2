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

// Package pipeline wires ingestion, validation, evaluation, optimization
// and reporting into single calls shared by the CLI and the API server.
//
// A run flows through these stages:
//
//	sources ─▶ ingest.Registry ─▶ config.New ─▶ optimizer.New
//	                                               │
//	        report.Build ◀─ Optimize ◀─ problem.New ◀─ evaluator.New(mode)
//
// The evaluator's constraint mode is taken from the optimizer: NSGA-II
// reads the separate constraint channel, MOEA/D expects penalties inline.
//
// Usage:
//
//	rep, err := pipeline.New(pipeline.WithVersion(version)).Run(ctx, &pipeline.Request{
//	    Sources:   []pipeline.Source{{Variable: "engine", Location: "engines.csv"}},
//	    Payload:   payload,
//	    Algorithm: "nsga2",
//	})
package pipeline
