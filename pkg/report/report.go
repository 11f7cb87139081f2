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

package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/NVIDIA/text2moo/pkg/config"
	"github.com/NVIDIA/text2moo/pkg/errors"
	"github.com/NVIDIA/text2moo/pkg/header"
	"github.com/NVIDIA/text2moo/pkg/problem"
)

// Selection is the unit chosen for one decision dimension.
type Selection struct {
	Variable string `json:"variable" yaml:"variable"`
	Index    int    `json:"index" yaml:"index"`
	UnitID   string `json:"unitId" yaml:"unitId"`
	UnitName string `json:"unitName" yaml:"unitName"`
}

// Total is the recovered attribute sum of one objective.
type Total struct {
	Objective string  `json:"objective" yaml:"objective"`
	Direction string  `json:"direction" yaml:"direction"`
	Value     float64 `json:"value" yaml:"value"`
}

// Solution is one retained optimizer result.
type Solution struct {
	Selections []Selection `json:"selections" yaml:"selections"`
	Totals     []Total     `json:"totals" yaml:"totals"`

	// Feasible is set only when the optimizer reported constraint values.
	Feasible *bool `json:"feasible,omitempty" yaml:"feasible,omitempty"`
}

// Decision returns the decision vector of the solution.
func (s Solution) Decision() []int {
	x := make([]int, len(s.Selections))
	for i, sel := range s.Selections {
		x[i] = sel.Index
	}
	return x
}

// Report is the de-duplicated, human-readable result of a run.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	Algorithm   string     `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	Generations int        `json:"generations" yaml:"generations"`
	Evaluations int        `json:"evaluations" yaml:"evaluations"`
	Duplicates  int        `json:"duplicates" yaml:"duplicates"`
	Solutions   []Solution `json:"solutions" yaml:"solutions"`
}

// Option is a functional option for Build.
type Option func(*Report)

// WithVersion stamps the tool version into the report metadata.
func WithVersion(v string) Option {
	return func(r *Report) {
		if v != "" {
			r.Metadata["version"] = v
		}
	}
}

// Build maps optimizer output back to units and recovered objective values.
// Solutions repeating an earlier (decision vector, recovered objectives)
// pair are dropped.
func Build(cfg *config.Configuration, res *problem.Result, opts ...Option) (*Report, error) {
	if cfg == nil || res == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "configuration and result are required")
	}

	r := &Report{
		Algorithm:   res.Algorithm,
		Generations: res.Generations,
		Evaluations: res.Evaluations,
		Solutions:   make([]Solution, 0, len(res.Solutions)),
	}
	r.Init(header.KindReport, header.APIVersion, "")
	r.Metadata["algorithm"] = res.Algorithm
	for _, opt := range opts {
		opt(r)
	}

	seen := make(map[string]struct{}, len(res.Solutions))
	for i, ind := range res.Solutions {
		sol, err := resolve(cfg, ind)
		if err != nil {
			return nil, fmt.Errorf("solution %d: %w", i, err)
		}

		k := dedupKey(ind.X, sol.Totals)
		if _, ok := seen[k]; ok {
			r.Duplicates++
			continue
		}
		seen[k] = struct{}{}
		r.Solutions = append(r.Solutions, sol)
	}
	return r, nil
}

func resolve(cfg *config.Configuration, ind problem.Individual) (Solution, error) {
	if len(ind.X) != cfg.Dimensions() {
		return Solution{}, errors.NewWithContext(errors.ErrCodeOutOfRange,
			fmt.Sprintf("expected %d dimensions, got %d", cfg.Dimensions(), len(ind.X)),
			map[string]any{"got": len(ind.X), "want": cfg.Dimensions()})
	}
	if len(ind.F) != len(cfg.Objectives) {
		return Solution{}, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("expected %d objective values, got %d", len(cfg.Objectives), len(ind.F)),
			map[string]any{"got": len(ind.F), "want": len(cfg.Objectives)})
	}

	sol := Solution{
		Selections: make([]Selection, len(ind.X)),
		Totals:     make([]Total, len(ind.F)),
	}
	for d, idx := range ind.X {
		u := cfg.Group(d).At(idx)
		if u == nil {
			return Solution{}, errors.NewWithContext(errors.ErrCodeOutOfRange,
				fmt.Sprintf("index %d outside variable %q", idx, cfg.Variables[d]),
				map[string]any{"variable": cfg.Variables[d], "index": idx, "upper": cfg.Upper(d)})
		}
		sol.Selections[d] = Selection{
			Variable: cfg.Variables[d],
			Index:    idx,
			UnitID:   u.ID,
			UnitName: u.DisplayName(),
		}
	}
	for j, f := range ind.F {
		obj := cfg.Objectives[j]
		v := obj.Direction.Recover(f)
		if v == 0 {
			v = 0 // drop negative zero
		}
		sol.Totals[j] = Total{
			Objective: obj.Attribute,
			Direction: string(obj.Direction),
			Value:     v,
		}
	}
	if ind.G != nil {
		feasible := ind.Violation() == 0
		sol.Feasible = &feasible
	}
	return sol, nil
}

func dedupKey(x []int, totals []Total) string {
	var sb strings.Builder
	for _, v := range x {
		sb.WriteString(strconv.Itoa(v))
		sb.WriteByte(',')
	}
	sb.WriteByte('|')
	for _, t := range totals {
		sb.WriteString(strconv.FormatUint(math.Float64bits(t.Value), 16))
		sb.WriteByte(',')
	}
	return sb.String()
}

// Text renders the report as plain text: a "Solution <n>:" header, one
// "<variable>: <unit name>" line per dimension and one
// "total_<objective>: <value>" line per objective, with a blank line
// between solutions.
func (r *Report) Text() string {
	var sb strings.Builder
	for i, s := range r.Solutions {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "Solution %d:\n", i+1)
		for _, sel := range s.Selections {
			fmt.Fprintf(&sb, "%s: %s\n", sel.Variable, sel.UnitName)
		}
		for _, t := range s.Totals {
			fmt.Fprintf(&sb, "total_%s: %s\n", t.Objective, FormatValue(t.Value))
		}
	}
	return sb.String()
}

// FormatValue renders v in its shortest exact decimal form.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
