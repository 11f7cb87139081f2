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
	"math/rand/v2"
	"sort"
	"time"

	"github.com/NVIDIA/text2moo/pkg/defaults"
	"github.com/NVIDIA/text2moo/pkg/evaluator"
	"github.com/NVIDIA/text2moo/pkg/problem"
)

// NSGA2 is an elitist non-dominated sorting genetic algorithm over integer
// decision vectors. Constraints are read from the problem's separate
// constraint channel.
type NSGA2 struct {
	base

	PopulationSize int
	Generations    int
	Seed           int64

	CrossoverRate float64
	CrossoverEta  float64
	MutationEta   float64

	// MutationRate is the per-variable mutation probability. Zero means
	// 1/dimensions.
	MutationRate float64
}

// NewNSGA2 creates an NSGA2 with default operator tuning.
func NewNSGA2(popSize, generations int, seed int64, opts ...Option) *NSGA2 {
	n := &NSGA2{
		PopulationSize: popSize,
		Generations:    generations,
		Seed:           seed,
		CrossoverRate:  defaults.CrossoverRate,
		CrossoverEta:   defaults.CrossoverEta,
		MutationEta:    defaults.MutationEta,
	}
	for _, opt := range opts {
		opt(&n.base)
	}
	return n
}

// Name implements problem.Optimizer.
func (n *NSGA2) Name() string { return string(AlgorithmNSGA2) }

// Mode implements problem.Optimizer.
func (n *NSGA2) Mode() evaluator.Mode { return evaluator.ModeSeparate }

// Optimize implements problem.Optimizer.
func (n *NSGA2) Optimize(ctx context.Context, p problem.Problem) (*problem.Result, error) {
	if err := checkProblem(p); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		runDuration.WithLabelValues(n.Name()).Observe(time.Since(start).Seconds())
	}()

	rng := newRand(n.Seed)
	bounds := p.Bounds()
	size := max(n.PopulationSize, 2)
	rate := n.MutationRate
	if rate <= 0 {
		rate = 1.0 / float64(len(bounds))
	}

	res := &problem.Result{Algorithm: n.Name()}

	xs := sampleUnique(rng, bounds, size, defaults.SamplingAttempts)
	pop, err := evaluate(ctx, p, xs)
	if err != nil {
		return nil, err
	}
	res.Evaluations += len(xs)
	rankAndCrowd(pop)

	for gen := 0; gen < n.Generations; gen++ {
		if ctx.Err() != nil {
			return nil, interrupted(ctx, AlgorithmNSGA2, gen)
		}

		children := n.offspring(rng, pop, bounds, size, rate)
		off, err := evaluate(ctx, p, children)
		if err != nil {
			return nil, err
		}
		res.Evaluations += len(children)

		pop = survive(append(pop, off...), size)
		res.Generations = gen + 1
		generationsTotal.WithLabelValues(n.Name()).Inc()

		n.log().Debug("generation complete", "algorithm", n.Name(), "generation", gen+1,
			"offspring", len(children), "front", countRank(pop, 0))
	}

	res.Solutions = best(pop)
	frontSize.WithLabelValues(n.Name()).Observe(float64(len(res.Solutions)))
	n.log().Info("optimization complete", "algorithm", n.Name(),
		"generations", res.Generations, "evaluations", res.Evaluations,
		"solutions", len(res.Solutions), "duration", time.Since(start))
	return res, nil
}

// offspring breeds up to size children that repeat neither the parents nor
// each other.
func (n *NSGA2) offspring(rng *rand.Rand, pop []*member, bounds []problem.Bounds, size int, rate float64) [][]int {
	seen := make(map[string]struct{}, len(pop)+size)
	for _, m := range pop {
		seen[key(m.x)] = struct{}{}
	}

	children := make([][]int, 0, size)
	add := func(x []int) {
		if len(children) >= size {
			return
		}
		k := key(x)
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		children = append(children, x)
	}

	for try := 0; len(children) < size && try < size*defaults.SamplingAttempts; try += 2 {
		p1 := tournament(rng, pop)
		p2 := tournament(rng, pop)

		var c1, c2 []int
		if rng.Float64() < n.CrossoverRate {
			c1, c2 = sbx(rng, p1.x, p2.x, bounds, n.CrossoverEta)
		} else {
			c1, c2 = append([]int(nil), p1.x...), append([]int(nil), p2.x...)
		}

		mutate(rng, c1, bounds, n.MutationEta, rate)
		mutate(rng, c2, bounds, n.MutationEta, rate)

		add(c1)
		add(c2)
	}
	return children
}

// tournament picks the better of two random members by rank, then crowding.
func tournament(rng *rand.Rand, pop []*member) *member {
	a := pop[rng.IntN(len(pop))]
	b := pop[rng.IntN(len(pop))]
	if b.rank < a.rank || (b.rank == a.rank && b.distance > a.distance) {
		return b
	}
	return a
}

// survive keeps the best size members of combined, filling whole fronts and
// breaking the last one by crowding distance.
func survive(combined []*member, size int) []*member {
	fronts := nonDominatedSort(combined)
	next := make([]*member, 0, size)
	for _, front := range fronts {
		crowdingDistance(front)
		if len(next)+len(front) <= size {
			next = append(next, front...)
			continue
		}
		sort.SliceStable(front, func(i, j int) bool {
			return front[i].distance > front[j].distance
		})
		next = append(next, front[:size-len(next)]...)
		break
	}
	return next
}

func rankAndCrowd(pop []*member) {
	for _, front := range nonDominatedSort(pop) {
		crowdingDistance(front)
	}
}

func countRank(pop []*member, rank int) int {
	n := 0
	for _, m := range pop {
		if m.rank == rank {
			n++
		}
	}
	return n
}
