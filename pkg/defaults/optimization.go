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

package defaults

// Configuration defaults applied when a payload leaves a field unset.
const (
	// ConstraintPenalty is the value substituted for violated constraints.
	ConstraintPenalty = 1_000_000.0

	// PopulationSize is the default number of candidates per generation.
	PopulationSize = 100

	// GenerationCount is the default number of generations.
	GenerationCount = 50

	// RandomSeed seeds the optimizer for reproducible runs.
	RandomSeed int64 = 42
)

// Decomposition-based optimizer tuning.
const (
	// Partitions is the number of reference direction partitions per objective.
	Partitions = 12

	// Neighbors is the neighborhood size of each subproblem.
	Neighbors = 10

	// MatingProbability is the chance of selecting parents from the neighborhood
	// rather than the whole population.
	MatingProbability = 0.7

	// DecompositionEta is the crossover and mutation distribution index used
	// with decomposition.
	DecompositionEta = 3.0
)

// Dominance-based optimizer tuning.
const (
	// CrossoverRate is the probability that two parents recombine.
	CrossoverRate = 0.9

	// CrossoverEta is the distribution index of simulated binary crossover.
	CrossoverEta = 15.0

	// MutationEta is the distribution index of polynomial mutation.
	MutationEta = 20.0

	// SamplingAttempts bounds duplicate-free sampling at this multiple of the
	// requested population size.
	SamplingAttempts = 10
)

// Evaluation limits.
const (
	// MaxDecisionVectors bounds a single evaluation request.
	MaxDecisionVectors = 10_000

	// MaxPopulationSize bounds the candidates held per generation.
	MaxPopulationSize = 10_000

	// MaxGenerationCount bounds the generations of a single run.
	MaxGenerationCount = 10_000

	// MaxRequestBytes bounds request bodies accepted by the API server.
	MaxRequestBytes = 16 << 20
)

// MaxSourceBytes bounds a single remote or ConfigMap source.
const MaxSourceBytes = 64 << 20
