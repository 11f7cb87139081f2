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

package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/text2moo/pkg/config"
	"github.com/NVIDIA/text2moo/pkg/errors"
	"github.com/NVIDIA/text2moo/pkg/unit"
)

// Result holds the evaluation of one decision vector. Objective values are
// stored in minimization form: maximize objectives are negated.
type Result struct {
	Objectives  []float64 `json:"objectives" yaml:"objectives"`
	Constraints []float64 `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Feasible    bool      `json:"feasible" yaml:"feasible"`
}

// Evaluator scores decision vectors against a Configuration. It holds no
// mutable state and is safe for concurrent use.
type Evaluator struct {
	cfg     *config.Configuration
	mode    Mode
	workers int
	logger  *slog.Logger
}

// Option is a functional option for configuring Evaluator instances.
type Option func(*Evaluator)

// WithMode sets the constraint reporting mode. Default is ModeSeparate.
func WithMode(m Mode) Option {
	return func(e *Evaluator) {
		e.mode = m
	}
}

// WithWorkers bounds batch parallelism. Values below 1 use GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Evaluator) {
		e.workers = n
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = l
	}
}

// New creates an Evaluator for a validated configuration.
func New(cfg *config.Configuration, opts ...Option) (*Evaluator, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "configuration is required")
	}
	e := &Evaluator{
		cfg:    cfg,
		mode:   ModeSeparate,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	return e, nil
}

// Config returns the configuration the evaluator scores against.
func (e *Evaluator) Config() *config.Configuration {
	return e.cfg
}

// Mode returns the constraint reporting mode.
func (e *Evaluator) Mode() Mode {
	return e.mode
}

// ConstraintCount returns the length of constraint vectors, 0 in inline mode.
func (e *Evaluator) ConstraintCount() int {
	if e.mode == ModeInline {
		return 0
	}
	return len(e.cfg.Constraints)
}

// Combination resolves a decision vector to its units. Indexes outside
// [0, |units|-1] are an OUT_OF_RANGE fault, never clamped.
func (e *Evaluator) Combination(x []int) ([]*unit.Unit, error) {
	if len(x) != e.cfg.Dimensions() {
		return nil, errors.NewWithContext(errors.ErrCodeOutOfRange,
			fmt.Sprintf("decision vector has %d dimensions, expected %d", len(x), e.cfg.Dimensions()),
			map[string]any{"got": len(x), "want": e.cfg.Dimensions()})
	}

	combo := make([]*unit.Unit, len(x))
	for i, idx := range x {
		u := e.cfg.Group(i).At(idx)
		if u == nil {
			return nil, errors.NewWithContext(errors.ErrCodeOutOfRange,
				fmt.Sprintf("index %d of variable %q outside [0, %d]", idx, e.cfg.Variables[i], e.cfg.Upper(i)),
				map[string]any{"variable": e.cfg.Variables[i], "dimension": i, "index": idx, "upper": e.cfg.Upper(i)})
		}
		combo[i] = u
	}
	return combo, nil
}

// Evaluate scores a single decision vector.
func (e *Evaluator) Evaluate(x []int) (*Result, error) {
	combo, err := e.Combination(x)
	if err != nil {
		evaluationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	res := &Result{
		Objectives: make([]float64, len(e.cfg.Objectives)),
		Feasible:   true,
	}
	for j, obj := range e.cfg.Objectives {
		res.Objectives[j] = obj.Direction.Apply(sum(combo, obj.Attribute))
	}

	violated := make([]bool, len(e.cfg.Constraints))
	for j, c := range e.cfg.Constraints {
		violated[j] = violates(combo, c)
		if violated[j] {
			res.Feasible = false
		}
	}

	switch e.mode {
	case ModeInline:
		if !res.Feasible {
			for j := range res.Objectives {
				res.Objectives[j] = e.cfg.ConstraintPenalty
			}
		}
	default:
		if len(violated) > 0 {
			res.Constraints = make([]float64, len(violated))
			for j, v := range violated {
				if v {
					res.Constraints[j] = e.cfg.ConstraintPenalty
				}
			}
		}
	}

	if res.Feasible {
		evaluationsTotal.WithLabelValues("feasible").Inc()
	} else {
		evaluationsTotal.WithLabelValues("infeasible").Inc()
	}
	return res, nil
}

// EvaluateBatch scores independent decision vectors in parallel. Results
// keep the input order. The first fault aborts the batch. Cancellation of
// ctx does not interrupt a batch in flight; callers observe it between
// batches.
func (e *Evaluator) EvaluateBatch(ctx context.Context, xs [][]int) ([]*Result, error) {
	start := time.Now()
	defer func() {
		batchDuration.Observe(time.Since(start).Seconds())
	}()

	results := make([]*Result, len(xs))
	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
	g.SetLimit(e.workers)

	for i, x := range xs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			r, err := e.Evaluate(x)
			if err != nil {
				return fmt.Errorf("decision vector %d: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Debug("batch evaluated", "size", len(xs), "mode", e.mode.String(),
		"duration", time.Since(start))
	return results, nil
}

// Recover converts stored objective values back to attribute sums.
func (e *Evaluator) Recover(objectives []float64) []float64 {
	out := make([]float64, len(objectives))
	for j, v := range objectives {
		if j < len(e.cfg.Objectives) {
			out[j] = e.cfg.Objectives[j].Direction.Recover(v)
		} else {
			out[j] = v
		}
	}
	return out
}

// sum adds the numeric attribute over the combination. Units lacking the
// attribute contribute zero.
func sum(combo []*unit.Unit, attr string) float64 {
	var total float64
	for _, u := range combo {
		v, present, numeric := u.Number(attr)
		if !present {
			continue
		}
		if !numeric {
			nonNumericValues.Inc()
			continue
		}
		total += v
	}
	return total
}

// violates reports whether any unit holding the attribute breaks the
// constraint. Units lacking it are not checked.
func violates(combo []*unit.Unit, c config.Constraint) bool {
	for _, u := range combo {
		v, present, numeric := u.Number(c.Attribute)
		if !present {
			continue
		}
		if !numeric {
			nonNumericValues.Inc()
			continue
		}
		if c.Operator.Violated(v, c.Threshold) {
			return true
		}
	}
	return false
}
