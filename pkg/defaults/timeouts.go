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

package defaults

import "time"

// Handler timeouts for HTTP request processing.
const (
	// EvaluateHandlerTimeout is the timeout for decision vector evaluation requests.
	EvaluateHandlerTimeout = 30 * time.Second

	// OptimizeHandlerTimeout is the timeout for full optimization requests.
	// Longer than evaluation since a run spans many generations.
	OptimizeHandlerTimeout = 5 * time.Minute

	// OptimizeRunTimeout is the internal timeout for an optimization run.
	// Should be less than OptimizeHandlerTimeout to allow error handling.
	OptimizeRunTimeout = 4*time.Minute + 30*time.Second
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	// Covers OptimizeHandlerTimeout.
	ServerWriteTimeout = 6 * time.Minute

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 8 * time.Minute

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// ConfigMap timeouts for Kubernetes ConfigMap operations.
const (
	// ConfigMapReadTimeout is the timeout for reading payloads from ConfigMaps.
	ConfigMapReadTimeout = 30 * time.Second

	// ConfigMapWriteTimeout is the timeout for writing to ConfigMaps.
	ConfigMapWriteTimeout = 30 * time.Second
)

// CLI timeouts for command-line operations.
const (
	// CLIOptimizeTimeout is the default timeout for optimize runs.
	CLIOptimizeTimeout = 30 * time.Minute
)

// Remote source settings for http(s) locations.
const (
	// SourceFetchTimeout bounds a whole remote source download.
	SourceFetchTimeout = 30 * time.Second

	// SourceConnectTimeout bounds connection setup to a remote source.
	SourceConnectTimeout = 5 * time.Second

	// SourceTLSHandshakeTimeout bounds the TLS handshake with a remote source.
	SourceTLSHandshakeTimeout = 5 * time.Second

	// SourceKeepAlive is the keep-alive period of remote source connections.
	SourceKeepAlive = 30 * time.Second
)
