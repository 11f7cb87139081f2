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
	"math"
	"sort"

	"github.com/NVIDIA/text2moo/pkg/problem"
)

// member is an evaluated individual plus ranking state.
type member struct {
	x         []int
	f         []float64
	g         []float64
	violation float64

	rank     int
	distance float64
}

func (m *member) individual() problem.Individual {
	return problem.Individual{X: m.x, F: m.f, G: m.g}
}

// evaluate scores xs through the problem in a single batch.
func evaluate(ctx context.Context, p problem.Problem, xs [][]int) ([]*member, error) {
	if len(xs) == 0 {
		return nil, nil
	}
	ev, err := p.EvaluateBatch(ctx, xs)
	if err != nil {
		return nil, err
	}
	out := make([]*member, len(xs))
	for i, x := range xs {
		m := &member{x: x, f: ev.F[i]}
		if ev.G != nil {
			m.g = ev.G[i]
			m.violation = m.individual().Violation()
		}
		out[i] = m
	}
	return out, nil
}

// dominates applies constraint domination: a feasible member beats an
// infeasible one, two infeasible members compare by total violation, and two
// feasible members compare by Pareto dominance.
func dominates(a, b *member) bool {
	switch {
	case a.violation == 0 && b.violation > 0:
		return true
	case a.violation > 0 && b.violation == 0:
		return false
	case a.violation > 0 && b.violation > 0:
		return a.violation < b.violation
	}

	better := false
	for i := range a.f {
		if a.f[i] > b.f[i] {
			return false
		}
		if a.f[i] < b.f[i] {
			better = true
		}
	}
	return better
}

// nonDominatedSort partitions pop into fronts and sets each member's rank.
func nonDominatedSort(pop []*member) [][]*member {
	if len(pop) == 0 {
		return nil
	}

	dominated := make([][]int, len(pop))
	count := make([]int, len(pop))
	for i := range pop {
		for j := range pop {
			if i == j {
				continue
			}
			if dominates(pop[i], pop[j]) {
				dominated[i] = append(dominated[i], j)
			} else if dominates(pop[j], pop[i]) {
				count[i]++
			}
		}
	}

	var current []int
	for i := range pop {
		if count[i] == 0 {
			pop[i].rank = 0
			current = append(current, i)
		}
	}

	var fronts [][]*member
	for rank := 0; len(current) > 0; rank++ {
		front := make([]*member, len(current))
		var next []int
		for k, i := range current {
			front[k] = pop[i]
			for _, j := range dominated[i] {
				count[j]--
				if count[j] == 0 {
					pop[j].rank = rank + 1
					next = append(next, j)
				}
			}
		}
		fronts = append(fronts, front)
		current = next
	}
	return fronts
}

// crowdingDistance sets the distance of each member in front. Boundary
// members get +Inf.
func crowdingDistance(front []*member) {
	if len(front) <= 2 {
		for _, m := range front {
			m.distance = math.Inf(1)
		}
		return
	}

	for _, m := range front {
		m.distance = 0
	}

	sorted := make([]*member, len(front))
	copy(sorted, front)
	for obj := range front[0].f {
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].f[obj] < sorted[j].f[obj]
		})

		last := len(sorted) - 1
		sorted[0].distance = math.Inf(1)
		sorted[last].distance = math.Inf(1)

		span := sorted[last].f[obj] - sorted[0].f[obj]
		if span == 0 {
			continue
		}
		for i := 1; i < last; i++ {
			sorted[i].distance += (sorted[i+1].f[obj] - sorted[i-1].f[obj]) / span
		}
	}
}

// best returns the first front of pop.
func best(pop []*member) []problem.Individual {
	fronts := nonDominatedSort(pop)
	if len(fronts) == 0 {
		return nil
	}
	out := make([]problem.Individual, len(fronts[0]))
	for i, m := range fronts[0] {
		out[i] = m.individual()
	}
	return out
}
