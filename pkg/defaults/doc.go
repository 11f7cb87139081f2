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

// Package defaults provides centralized configuration constants for text2moo.
//
// This package defines optimization defaults, timeout values and request
// limits used across the codebase. Centralizing these values ensures
// consistency and makes tuning easier.
//
// # Categories
//
//   - Configuration defaults: penalty, population size, generation count, seed
//   - Optimizer tuning: partitions, neighborhood, crossover and mutation
//   - Handler timeouts: For HTTP request processing
//   - Server timeouts: For HTTP server configuration
//   - ConfigMap timeouts: For Kubernetes ConfigMap reads and writes
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/NVIDIA/text2moo/pkg/defaults"
//
//	if cfg.ConstraintPenalty == 0 {
//	    cfg.ConstraintPenalty = defaults.ConstraintPenalty
//	}
package defaults
