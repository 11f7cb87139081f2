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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NVIDIA/text2moo/pkg/problem"
)

func TestOperatorsRespectBounds(t *testing.T) {
	bounds := []problem.Bounds{{Lower: 0, Upper: 0}, {Lower: 0, Upper: 4}, {Lower: 2, Upper: 9}}
	rng := newRand(7)

	within := func(x []int) {
		for i, v := range x {
			assert.True(t, bounds[i].Contains(v), "dimension %d value %d", i, v)
		}
	}

	for i := 0; i < 500; i++ {
		a, b := sample(rng, bounds), sample(rng, bounds)
		within(a)
		within(b)

		c1, c2 := sbx(rng, a, b, bounds, 3)
		within(c1)
		within(c2)

		mutate(rng, c1, bounds, 3, 1)
		within(c1)
	}
}

func TestSampleUnique(t *testing.T) {
	bounds := []problem.Bounds{{Lower: 0, Upper: 1}, {Lower: 0, Upper: 2}}

	xs := sampleUnique(newRand(1), bounds, 6, 50)
	seen := make(map[string]bool)
	for _, x := range xs {
		seen[key(x)] = true
	}
	assert.Len(t, seen, 6)

	xs = sampleUnique(newRand(1), bounds, 10, 50)
	assert.Len(t, xs, 10)
}

func TestNewRandDeterministic(t *testing.T) {
	a, b := newRand(42), newRand(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "1,20,3", key([]int{1, 20, 3}))
	assert.NotEqual(t, key([]int{1, 23}), key([]int{12, 3}))
	assert.Equal(t, "", key(nil))
}

func TestRound(t *testing.T) {
	bounds := []problem.Bounds{{Lower: 0, Upper: 3}, {Lower: 0, Upper: 3}}
	assert.Equal(t, []int{2, 3}, round([]float64{1.6, 7.2}, bounds))
}
