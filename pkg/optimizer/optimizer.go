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
	"log/slog"
	"strings"

	"github.com/NVIDIA/text2moo/pkg/config"
	"github.com/NVIDIA/text2moo/pkg/errors"
	"github.com/NVIDIA/text2moo/pkg/problem"
)

// Algorithm names a search engine.
type Algorithm string

const (
	AlgorithmNSGA2 Algorithm = "nsga2"
	AlgorithmMOEAD Algorithm = "moead"

	// DefaultAlgorithm is used when no algorithm is named.
	DefaultAlgorithm = AlgorithmMOEAD
)

// Algorithms returns the supported algorithm names.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmMOEAD, AlgorithmNSGA2}
}

// ParseAlgorithm resolves a case-insensitive algorithm name. Empty input
// selects DefaultAlgorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return DefaultAlgorithm, nil
	case AlgorithmNSGA2, AlgorithmMOEAD:
		return a, nil
	case "nsga-ii":
		return AlgorithmNSGA2, nil
	case "moea/d":
		return AlgorithmMOEAD, nil
	default:
		return "", errors.NewWithContext(errors.ErrCodeInvalidEnum,
			fmt.Sprintf("unsupported algorithm %q", s),
			map[string]any{"field": "algorithm", "supported": Algorithms()})
	}
}

// base holds settings shared by all engines.
type base struct {
	logger *slog.Logger
}

func (b *base) log() *slog.Logger {
	if b.logger == nil {
		return slog.Default()
	}
	return b.logger
}

// Option is a functional option shared by all engines.
type Option func(*base)

// WithLogger sets the logger used for progress reporting.
func WithLogger(l *slog.Logger) Option {
	return func(b *base) {
		b.logger = l
	}
}

// New builds the named engine tuned from cfg. An empty name selects
// DefaultAlgorithm.
func New(alg Algorithm, cfg *config.Configuration, opts ...Option) (problem.Optimizer, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "configuration is required")
	}
	alg, err := ParseAlgorithm(string(alg))
	if err != nil {
		return nil, err
	}
	if alg == AlgorithmNSGA2 {
		return NewNSGA2(cfg.PopulationSize, cfg.GenerationCount, cfg.RandomSeed, opts...), nil
	}
	m := NewMOEAD(cfg.Partitions, cfg.Neighbors, cfg.MatingProbability,
		cfg.GenerationCount, cfg.RandomSeed, opts...)
	m.PopulationSize = cfg.PopulationSize
	return m, nil
}

// checkProblem rejects problems no engine can search.
func checkProblem(p problem.Problem) error {
	if p == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "problem is required")
	}
	if p.Dimensions() == 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "problem has no dimensions")
	}
	if p.ObjectiveCount() == 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "problem has no objectives")
	}
	for i, b := range p.Bounds() {
		if b.Upper < b.Lower {
			return errors.NewWithContext(errors.ErrCodeOutOfRange,
				fmt.Sprintf("dimension %d has empty bounds", i),
				map[string]any{"dimension": i})
		}
	}
	return nil
}

// interrupted reports a cancellation observed at a generation boundary.
func interrupted(ctx context.Context, alg Algorithm, gen int) error {
	canceledRuns.WithLabelValues(string(alg)).Inc()
	return errors.WrapWithContext(errors.ErrCodeTimeout,
		fmt.Sprintf("%s stopped before generation %d", alg, gen+1), ctx.Err(),
		map[string]any{"generation": gen})
}
