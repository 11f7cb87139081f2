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

package optimizer

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/NVIDIA/text2moo/pkg/defaults"
	"github.com/NVIDIA/text2moo/pkg/errors"
	"github.com/NVIDIA/text2moo/pkg/evaluator"
	"github.com/NVIDIA/text2moo/pkg/problem"
)

// maxDirections bounds the reference direction count of one run.
const maxDirections = 100_000

// MOEAD decomposes the problem into scalar Tchebycheff subproblems, one per
// reference direction, and evolves them with neighborhood mating. It reads
// objectives only, so constraints must be folded in by the evaluator.
type MOEAD struct {
	base

	Partitions        int
	Neighbors         int
	MatingProbability float64
	Generations       int
	Seed              int64

	// PopulationSize is the subproblem count for single-objective problems,
	// where reference directions collapse to one point.
	PopulationSize int

	CrossoverEta float64
	MutationEta  float64
}

// NewMOEAD creates a MOEAD with default operator tuning.
func NewMOEAD(partitions, neighbors int, matingProb float64, generations int, seed int64, opts ...Option) *MOEAD {
	m := &MOEAD{
		Partitions:        partitions,
		Neighbors:         neighbors,
		MatingProbability: matingProb,
		Generations:       generations,
		Seed:              seed,
		PopulationSize:    defaults.PopulationSize,
		CrossoverEta:      defaults.DecompositionEta,
		MutationEta:       defaults.DecompositionEta,
	}
	for _, opt := range opts {
		opt(&m.base)
	}
	return m
}

// Name implements problem.Optimizer.
func (m *MOEAD) Name() string { return string(AlgorithmMOEAD) }

// Mode implements problem.Optimizer.
func (m *MOEAD) Mode() evaluator.Mode { return evaluator.ModeInline }

// Optimize implements problem.Optimizer. Each generation breeds one child
// per subproblem from the generation's starting population, evaluates the
// children as one batch, then applies replacements in subproblem order.
func (m *MOEAD) Optimize(ctx context.Context, p problem.Problem) (*problem.Result, error) {
	if err := checkProblem(p); err != nil {
		return nil, err
	}

	dirs, err := m.directions(p.ObjectiveCount())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		runDuration.WithLabelValues(m.Name()).Observe(time.Since(start).Seconds())
	}()

	rng := newRand(m.Seed)
	bounds := p.Bounds()
	size := len(dirs)
	hood := neighborhoods(dirs, min(max(m.Neighbors, 2), size))
	everyone := make([]int, size)
	for i := range everyone {
		everyone[i] = i
	}

	res := &problem.Result{Algorithm: m.Name()}

	xs := sampleUnique(rng, bounds, size, defaults.SamplingAttempts)
	pop, err := evaluate(ctx, p, xs)
	if err != nil {
		return nil, err
	}
	res.Evaluations += len(xs)

	ideal := make([]float64, p.ObjectiveCount())
	for k := range ideal {
		ideal[k] = math.Inf(1)
	}
	for _, s := range pop {
		updateIdeal(ideal, s.f)
	}

	for gen := 0; gen < m.Generations; gen++ {
		if ctx.Err() != nil {
			return nil, interrupted(ctx, AlgorithmMOEAD, gen)
		}

		order := rng.Perm(size)
		pools := make([][]int, size)
		children := make([][]int, size)
		for k, i := range order {
			pool := hood[i]
			if rng.Float64() >= m.MatingProbability {
				pool = everyone
			}
			pools[k] = pool

			a, b := pickTwo(rng, pool)
			child, _ := sbx(rng, pop[a].x, pop[b].x, bounds, m.CrossoverEta)
			mutate(rng, child, bounds, m.MutationEta, 1.0/float64(len(bounds)))
			children[k] = child
		}

		off, err := evaluate(ctx, p, children)
		if err != nil {
			return nil, err
		}
		res.Evaluations += len(children)

		replaced := 0
		for k, child := range off {
			updateIdeal(ideal, child.f)
			for _, j := range pools[k] {
				if tchebycheff(child.f, dirs[j], ideal) < tchebycheff(pop[j].f, dirs[j], ideal) {
					pop[j] = child
					replaced++
				}
			}
		}

		res.Generations = gen + 1
		generationsTotal.WithLabelValues(m.Name()).Inc()
		m.log().Debug("generation complete", "algorithm", m.Name(), "generation", gen+1,
			"replaced", replaced)
	}

	res.Solutions = best(pop)
	frontSize.WithLabelValues(m.Name()).Observe(float64(len(res.Solutions)))
	m.log().Info("optimization complete", "algorithm", m.Name(),
		"generations", res.Generations, "evaluations", res.Evaluations,
		"directions", size, "solutions", len(res.Solutions), "duration", time.Since(start))
	return res, nil
}

func (m *MOEAD) directions(objectives int) ([][]float64, error) {
	if objectives == 1 {
		dirs := make([][]float64, max(m.PopulationSize, 2))
		for i := range dirs {
			dirs[i] = []float64{1}
		}
		return dirs, nil
	}
	if m.Partitions < 1 {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidNumericParameter,
			"partition count must be positive", map[string]any{"field": "n_partitions"})
	}
	n := combin.GeneralizedBinomial(float64(m.Partitions+objectives-1), float64(objectives-1))
	if n > maxDirections {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidNumericParameter,
			fmt.Sprintf("%d partitions over %d objectives yield %.0f directions, limit is %d",
				m.Partitions, objectives, n, maxDirections),
			map[string]any{"field": "n_partitions"})
	}
	return ReferenceDirections(objectives, m.Partitions), nil
}

// ReferenceDirections returns the Das-Dennis simplex lattice: every weight
// vector of the given dimension whose components are multiples of
// 1/partitions and sum to one.
func ReferenceDirections(objectives, partitions int) [][]float64 {
	if objectives < 1 || partitions < 1 {
		return nil
	}
	if objectives == 1 {
		return [][]float64{{1}}
	}

	// Stars and bars: choosing objectives-1 bar positions among
	// partitions+objectives-1 slots fixes one composition.
	slots := partitions + objectives - 1
	bars := combin.Combinations(slots, objectives-1)
	dirs := make([][]float64, len(bars))
	for i, c := range bars {
		w := make([]float64, objectives)
		prev := -1
		for k, pos := range c {
			w[k] = float64(pos-prev-1) / float64(partitions)
			prev = pos
		}
		w[objectives-1] = float64(slots-prev-1) / float64(partitions)
		dirs[i] = w
	}
	return dirs
}

// neighborhoods lists, per direction, the indices of its t nearest
// directions by Euclidean distance, itself included.
func neighborhoods(dirs [][]float64, t int) [][]int {
	out := make([][]int, len(dirs))
	dist := make([]float64, len(dirs))
	for i, d := range dirs {
		for j, e := range dirs {
			dist[j] = floats.Distance(d, e, 2)
		}
		idx := make([]int, len(dirs))
		floats.ArgsortStable(dist, idx)
		out[i] = idx[:t]
	}
	return out
}

// tchebycheff is the weighted Chebyshev distance of f from the ideal point.
// Zero weights are floored so every objective breaks ties.
func tchebycheff(f, w, ideal []float64) float64 {
	v := math.Inf(-1)
	for k := range f {
		v = math.Max(v, math.Max(w[k], 1e-6)*math.Abs(f[k]-ideal[k]))
	}
	return v
}

func updateIdeal(ideal, f []float64) {
	for k := range ideal {
		ideal[k] = math.Min(ideal[k], f[k])
	}
}

func pickTwo(rng *rand.Rand, pool []int) (int, int) {
	if len(pool) < 2 {
		return pool[0], pool[0]
	}
	i := rng.IntN(len(pool))
	j := rng.IntN(len(pool) - 1)
	if j >= i {
		j++
	}
	return pool[i], pool[j]
}
