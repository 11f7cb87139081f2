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
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/NVIDIA/text2moo/pkg/problem"
)

// newRand returns a deterministic generator for seed.
func newRand(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// sample draws one decision vector uniformly within bounds.
func sample(rng *rand.Rand, bounds []problem.Bounds) []int {
	x := make([]int, len(bounds))
	for i, b := range bounds {
		x[i] = b.Lower + rng.IntN(b.Upper-b.Lower+1)
	}
	return x
}

// sampleUnique draws n vectors, avoiding repeats while the attempt budget
// lasts. Small search spaces fall back to repeats once it is spent.
func sampleUnique(rng *rand.Rand, bounds []problem.Bounds, n, attempts int) [][]int {
	seen := make(map[string]struct{}, n)
	xs := make([][]int, 0, n)
	for try := 0; len(xs) < n && try < n*attempts; try++ {
		x := sample(rng, bounds)
		k := key(x)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		xs = append(xs, x)
	}
	for len(xs) < n {
		xs = append(xs, sample(rng, bounds))
	}
	return xs
}

// sbx applies bounded simulated binary crossover to two integer parents.
// Children are rounded back onto the integer grid.
func sbx(rng *rand.Rand, p1, p2 []int, bounds []problem.Bounds, eta float64) ([]int, []int) {
	c1 := make([]float64, len(p1))
	c2 := make([]float64, len(p2))
	for i := range p1 {
		c1[i], c2[i] = float64(p1[i]), float64(p2[i])

		lo, hi := float64(bounds[i].Lower), float64(bounds[i].Upper)
		if hi <= lo || rng.Float64() > 0.5 || p1[i] == p2[i] {
			continue
		}

		y1, y2 := math.Min(c1[i], c2[i]), math.Max(c1[i], c2[i])
		exp := 1.0 / (eta + 1.0)
		u := rng.Float64()

		spread := func(beta float64) float64 {
			alpha := 2.0 - math.Pow(beta, -(eta+1.0))
			if u <= 1.0/alpha {
				return math.Pow(u*alpha, exp)
			}
			return math.Pow(1.0/(2.0-u*alpha), exp)
		}

		lower := 0.5 * ((y1 + y2) - spread(1.0+2.0*(y1-lo)/(y2-y1))*(y2-y1))
		upper := 0.5 * ((y1 + y2) + spread(1.0+2.0*(hi-y2)/(y2-y1))*(y2-y1))

		lower = math.Max(lo, math.Min(hi, lower))
		upper = math.Max(lo, math.Min(hi, upper))

		if rng.Float64() <= 0.5 {
			c1[i], c2[i] = upper, lower
		} else {
			c1[i], c2[i] = lower, upper
		}
	}
	return round(c1, bounds), round(c2, bounds)
}

// mutate applies bounded polynomial mutation in place, each variable with
// probability rate.
func mutate(rng *rand.Rand, x []int, bounds []problem.Bounds, eta, rate float64) {
	exp := 1.0 / (eta + 1.0)
	for i := range x {
		lo, hi := float64(bounds[i].Lower), float64(bounds[i].Upper)
		if hi <= lo || rng.Float64() >= rate {
			continue
		}

		y := float64(x[i])
		d1 := (y - lo) / (hi - lo)
		d2 := (hi - y) / (hi - lo)
		u := rng.Float64()

		var dq float64
		if u < 0.5 {
			v := 2.0*u + (1.0-2.0*u)*math.Pow(1.0-d1, eta+1.0)
			dq = math.Pow(v, exp) - 1.0
		} else {
			v := 2.0*(1.0-u) + 2.0*(u-0.5)*math.Pow(1.0-d2, eta+1.0)
			dq = 1.0 - math.Pow(v, exp)
		}

		y = math.Max(lo, math.Min(hi, y+dq*(hi-lo)))
		x[i] = int(math.Round(y))
	}
}

// round repairs real-valued genes onto the integer grid within bounds.
func round(v []float64, bounds []problem.Bounds) []int {
	x := make([]int, len(v))
	for i, f := range v {
		n := int(math.Round(f))
		x[i] = min(max(n, bounds[i].Lower), bounds[i].Upper)
	}
	return x
}

// key identifies a decision vector for duplicate elimination.
func key(x []int) string {
	var sb strings.Builder
	for i, v := range x {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}
