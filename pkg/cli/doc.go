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

// Package cli implements the moo command-line interface.
//
// # Commands
//
// ingest - Convert unit sources into normalized groups:
//
//	moo ingest --source engine=engines.csv [--check]
//
// validate - Check sources and payload and print the resolved configuration:
//
//	moo validate --source engine=engines.csv --payload payload.yaml
//
// evaluate - Score explicit decision vectors:
//
//	moo evaluate -s engine=engines.csv -p payload.yaml --decision 0,1 [--mode inline]
//
// optimize - Search for Pareto-optimal combinations:
//
//	moo optimize -s engine=engines.csv -p payload.yaml [--algorithm nsga2] [--plot front.html]
//
// # Sources
//
// Sources take the form variable=location[:format]. Locations are file
// paths, HTTP/HTTPS URLs or ConfigMap URIs (cm://namespace/name[/key]).
// The format suffix is only recognized when it names a registered
// converter (csv, xlsx, json, yaml); otherwise it is inferred from the
// location's extension.
//
// # Global Flags
//
//	--log-level    debug, info, warn, error (env: MOO_LOG_LEVEL, LOG_LEVEL)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// Each command also accepts --output/-o and --format/-t. Reports and
// evaluations default to text; groups and configurations default to YAML.
//
// # Exit Codes
//
//	0  success
//	1  any error
//	2  interrupted or timed out
package cli
