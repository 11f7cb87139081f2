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

// Package evaluator scores decision vectors against a validated
// configuration.
//
// A decision vector holds one index per variable. Index i of dimension d
// selects Group(d).Units[i]; indexes outside [0, |units|-1] are an
// OUT_OF_RANGE fault and are never clamped.
//
// Each objective sums one attribute over the selected units. Units lacking
// the attribute contribute zero. Maximize objectives are stored negated so
// every objective is minimized; Recover undoes the negation.
//
// Constraints are checked per unit: a constraint is violated when any
// selected unit holding the attribute breaks it. Two reporting modes exist:
//
//	ModeSeparate  one constraint value per constraint, penalty or 0
//	ModeInline    no constraint values; any violation turns every
//	              objective into the penalty
//
// Evaluation is a pure function of the configuration and the vector, so
// batches are scored in parallel.
package evaluator
