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

// Package config validates configuration payloads into immutable
// Configurations.
//
// A payload names the decision variables, the attributes they expose, the
// objectives and the constraints:
//
//	variable: [engine, propeller]
//	variable_attributes: [cost, weight, power]
//	objective:
//	  cost: minimize
//	  power: maximize
//	constraints:
//	  weight: {type: "<=", value: 50}
//	constraint_penalty: 1000000
//	population_size: 100
//	generation_count: 50
//	random_seed: 42
//
// Objective and constraint key order is preserved: it fixes the order of
// the objective and constraint vectors. The sum_min and sum_max directions
// and the pop_size, n_gen and seed parameter names are accepted as aliases.
//
// New is the only way to obtain a Configuration. It rejects, in order,
// unknown variables, unknown attributes, invalid enums and invalid numeric
// parameters, then applies defaults.
package config
