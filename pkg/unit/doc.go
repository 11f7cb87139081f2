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

// Package unit defines the Unit and Group data model.
//
// A Unit is one selectable option (an engine, a supplier, ...) with a unique
// ID, an optional display name and a sparse set of attributes. A Group is the
// ordered list of Units a single decision variable indexes into: decision
// index i selects Group.Units[i].
//
// Attribute values are scalars wrapped by Scalar[T]. They marshal to their
// bare value in JSON and YAML:
//
//	u := unit.NewBuilder("E1", "Engine 1").
//	    SetFloat64("cost", 10).
//	    SetInt("weight", 5).
//	    Build()
//
// Groups are built once per ingestion call and are read-only afterwards, so
// they can be shared across concurrent evaluations.
package unit
