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
	"fmt"

	"github.com/NVIDIA/text2moo/pkg/errors"
	"github.com/NVIDIA/text2moo/pkg/evaluator"
)

// Bounds is the inclusive integer range of one dimension.
type Bounds struct {
	Lower int `json:"lower" yaml:"lower"`
	Upper int `json:"upper" yaml:"upper"`
}

// Contains reports whether v lies within the bounds.
func (b Bounds) Contains(v int) bool {
	return v >= b.Lower && v <= b.Upper
}

// Evaluation holds batch results row aligned with the input vectors.
// G is nil when the problem has no constraint channel.
type Evaluation struct {
	F [][]float64
	G [][]float64
}

// Problem is the contract an optimizer searches over. All objectives are
// minimized; a constraint value of 0 means satisfied.
type Problem interface {
	Name() string
	Dimensions() int
	Bounds() []Bounds
	ObjectiveCount() int
	ConstraintCount() int
	EvaluateBatch(ctx context.Context, xs [][]int) (*Evaluation, error)
}

// Adapter exposes an Evaluator as a Problem.
type Adapter struct {
	name   string
	eval   *evaluator.Evaluator
	bounds []Bounds
}

// Option is a functional option for configuring Adapter instances.
type Option func(*Adapter)

// WithName sets the problem name reported to optimizers.
func WithName(name string) Option {
	return func(a *Adapter) {
		a.name = name
	}
}

// New wraps e. Bounds are [0, |units|-1] per variable.
func New(e *evaluator.Evaluator, opts ...Option) *Adapter {
	cfg := e.Config()
	a := &Adapter{
		name:   "combinatorial",
		eval:   e,
		bounds: make([]Bounds, cfg.Dimensions()),
	}
	for i := range a.bounds {
		a.bounds[i] = Bounds{Lower: 0, Upper: cfg.Upper(i)}
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name implements Problem.
func (a *Adapter) Name() string { return a.name }

// Dimensions implements Problem.
func (a *Adapter) Dimensions() int { return len(a.bounds) }

// Bounds implements Problem. The returned slice is a copy.
func (a *Adapter) Bounds() []Bounds {
	out := make([]Bounds, len(a.bounds))
	copy(out, a.bounds)
	return out
}

// ObjectiveCount implements Problem.
func (a *Adapter) ObjectiveCount() int { return len(a.eval.Config().Objectives) }

// ConstraintCount implements Problem.
func (a *Adapter) ConstraintCount() int { return a.eval.ConstraintCount() }

// Evaluator returns the wrapped evaluator.
func (a *Adapter) Evaluator() *evaluator.Evaluator { return a.eval }

// EvaluateBatch implements Problem. Every row is checked against the
// dimension count and bounds before evaluation; a violation is a contract
// fault of the caller.
func (a *Adapter) EvaluateBatch(ctx context.Context, xs [][]int) (*Evaluation, error) {
	for i, x := range xs {
		if err := a.check(x); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}

	results, err := a.eval.EvaluateBatch(ctx, xs)
	if err != nil {
		return nil, err
	}

	out := &Evaluation{F: make([][]float64, len(results))}
	if a.ConstraintCount() > 0 {
		out.G = make([][]float64, len(results))
	}
	for i, r := range results {
		out.F[i] = r.Objectives
		if out.G != nil {
			out.G[i] = r.Constraints
		}
	}
	return out, nil
}

func (a *Adapter) check(x []int) error {
	if len(x) != len(a.bounds) {
		return errors.NewWithContext(errors.ErrCodeOutOfRange,
			fmt.Sprintf("expected %d dimensions, got %d", len(a.bounds), len(x)),
			map[string]any{"got": len(x), "want": len(a.bounds)})
	}
	for d, v := range x {
		if !a.bounds[d].Contains(v) {
			return errors.NewWithContext(errors.ErrCodeOutOfRange,
				fmt.Sprintf("dimension %d value %d outside [%d, %d]", d, v, a.bounds[d].Lower, a.bounds[d].Upper),
				map[string]any{"dimension": d, "index": v, "upper": a.bounds[d].Upper})
		}
	}
	return nil
}
