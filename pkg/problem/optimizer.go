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

package problem

import (
	"context"

	"github.com/NVIDIA/text2moo/pkg/evaluator"
)

// Individual is one evaluated decision vector.
type Individual struct {
	X []int     `json:"x" yaml:"x"`
	F []float64 `json:"f" yaml:"f"`
	G []float64 `json:"g,omitempty" yaml:"g,omitempty"`
}

// Violation returns the summed constraint values, 0 when feasible.
func (ind Individual) Violation() float64 {
	var v float64
	for _, g := range ind.G {
		if g > 0 {
			v += g
		}
	}
	return v
}

// Result is what an optimizer hands back: the solutions it considers final,
// possibly with repeats.
type Result struct {
	Algorithm   string       `json:"algorithm" yaml:"algorithm"`
	Generations int          `json:"generations" yaml:"generations"`
	Evaluations int          `json:"evaluations" yaml:"evaluations"`
	Solutions   []Individual `json:"solutions" yaml:"solutions"`
}

// Optimizer searches a Problem. Implementations check ctx only between
// generations.
type Optimizer interface {
	Name() string
	// Mode is the constraint mode the optimizer expects its Problem to use.
	Mode() evaluator.Mode
	Optimize(ctx context.Context, p Problem) (*Result, error)
}
