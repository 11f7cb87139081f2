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

package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/NVIDIA/text2moo/pkg/defaults"
	"github.com/NVIDIA/text2moo/pkg/errors"
	"github.com/NVIDIA/text2moo/pkg/evaluator"
	"github.com/NVIDIA/text2moo/pkg/header"
	"github.com/NVIDIA/text2moo/pkg/report"
)

// EvaluateRequest scores explicit decision vectors against a payload.
type EvaluateRequest struct {
	Request `json:",inline" yaml:",inline"`

	Mode      string  `json:"mode,omitempty" yaml:"mode,omitempty"`
	Decisions [][]int `json:"decisions" yaml:"decisions"`
}

// Row is the evaluation of one decision vector. Objectives hold stored
// values (maximized objectives negated); Totals hold the attribute sums.
type Row struct {
	Decision    []int     `json:"decision" yaml:"decision"`
	Units       []string  `json:"units" yaml:"units"`
	Objectives  []float64 `json:"objectives" yaml:"objectives"`
	Totals      []float64 `json:"totals" yaml:"totals"`
	Constraints []float64 `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Feasible    bool      `json:"feasible" yaml:"feasible"`
}

// Evaluation is the document produced by Evaluate.
type Evaluation struct {
	header.Header `json:",inline" yaml:",inline"`

	Mode       string   `json:"mode" yaml:"mode"`
	Objectives []string `json:"objectives" yaml:"objectives"`
	Rows       []Row    `json:"rows" yaml:"rows"`
}

// Evaluate validates req and scores its decision vectors in parallel.
// An out-of-range index faults the whole request.
func (r *Runner) Evaluate(ctx context.Context, req *EvaluateRequest) (*Evaluation, error) {
	if req == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "request is required")
	}
	if len(req.Decisions) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "at least one decision vector is required")
	}
	if len(req.Decisions) > defaults.MaxDecisionVectors {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("too many decision vectors: %d", len(req.Decisions)),
			map[string]any{"count": len(req.Decisions), "max": defaults.MaxDecisionVectors})
	}
	mode, err := evaluator.ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}

	cfg, err := r.Configure(ctx, &req.Request)
	if err != nil {
		return nil, err
	}
	ev, err := evaluator.New(cfg,
		evaluator.WithMode(mode),
		evaluator.WithWorkers(req.Workers),
		evaluator.WithLogger(r.logger))
	if err != nil {
		return nil, err
	}

	results, err := ev.EvaluateBatch(ctx, req.Decisions)
	if err != nil {
		return nil, err
	}

	doc := &Evaluation{
		Mode:       mode.String(),
		Objectives: make([]string, len(cfg.Objectives)),
		Rows:       make([]Row, len(results)),
	}
	doc.Init(header.KindEvaluation, header.APIVersion, r.version)
	for j, o := range cfg.Objectives {
		doc.Objectives[j] = o.Attribute
	}
	for i, res := range results {
		combo, err := ev.Combination(req.Decisions[i])
		if err != nil {
			return nil, err
		}
		names := make([]string, len(combo))
		for k, u := range combo {
			names[k] = u.DisplayName()
		}
		doc.Rows[i] = Row{
			Decision:    req.Decisions[i],
			Units:       names,
			Objectives:  res.Objectives,
			Totals:      ev.Recover(res.Objectives),
			Constraints: res.Constraints,
			Feasible:    res.Feasible,
		}
	}
	return doc, nil
}

// Text renders one block per decision vector.
func (e *Evaluation) Text() string {
	var b strings.Builder
	for i, row := range e.Rows {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Decision %d: %s\n", i+1, joinInts(row.Decision))
		fmt.Fprintf(&b, "units: %s\n", strings.Join(row.Units, ", "))
		for j, v := range row.Totals {
			name := strconv.Itoa(j)
			if j < len(e.Objectives) {
				name = e.Objectives[j]
			}
			fmt.Fprintf(&b, "total_%s: %s\n", name, report.FormatValue(v))
		}
		if len(row.Constraints) > 0 {
			vals := make([]string, len(row.Constraints))
			for k, c := range row.Constraints {
				vals[k] = report.FormatValue(c)
			}
			fmt.Fprintf(&b, "constraints: %s\n", strings.Join(vals, ", "))
		}
		fmt.Fprintf(&b, "feasible: %t\n", row.Feasible)
	}
	return b.String()
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
