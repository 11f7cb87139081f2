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
	"log/slog"
	"strings"

	"github.com/NVIDIA/text2moo/pkg/config"
	"github.com/NVIDIA/text2moo/pkg/errors"
	"github.com/NVIDIA/text2moo/pkg/evaluator"
	"github.com/NVIDIA/text2moo/pkg/ingest"
	"github.com/NVIDIA/text2moo/pkg/optimizer"
	"github.com/NVIDIA/text2moo/pkg/problem"
	"github.com/NVIDIA/text2moo/pkg/report"
	"github.com/NVIDIA/text2moo/pkg/unit"
)

// Source names a location holding the units of one variable.
type Source struct {
	Variable string
	Location string
	Format   string
}

// ParseSource parses "variable=location[:format]". The format suffix is
// only taken when it names a registered format, so URLs and cm:// URIs
// keep their colons.
func ParseSource(s string, reg *ingest.Registry) (Source, error) {
	variable, location, ok := strings.Cut(s, "=")
	variable = strings.TrimSpace(variable)
	location = strings.TrimSpace(location)
	if !ok || variable == "" || location == "" {
		return Source{}, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid source %q, expected variable=location[:format]", s),
			map[string]any{"source": s})
	}

	src := Source{Variable: variable, Location: location}
	if i := strings.LastIndex(location, ":"); i > 0 && reg != nil {
		if _, err := reg.Lookup(location[i+1:]); err == nil {
			src.Location, src.Format = location[:i], location[i+1:]
		}
	}
	return src, nil
}

// Request describes one run. Groups and Sources are ingested before the
// payload is validated; inline payload data fills the remaining variables.
type Request struct {
	Groups  map[string]*unit.Group `json:"-" yaml:"-"`
	Sources []Source               `json:"-" yaml:"-"`

	Payload   *config.Payload `json:"payload" yaml:"payload"`
	Algorithm string          `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	Workers   int             `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// Runner executes requests. The zero value is not usable; call New.
type Runner struct {
	registry *ingest.Registry
	logger   *slog.Logger
	version  string
}

// Option configures a Runner.
type Option func(*Runner)

// WithRegistry sets the converter registry used for sources.
func WithRegistry(r *ingest.Registry) Option {
	return func(rn *Runner) {
		rn.registry = r
	}
}

// WithLogger sets the logger passed to every stage.
func WithLogger(l *slog.Logger) Option {
	return func(rn *Runner) {
		if l != nil {
			rn.logger = l
		}
	}
}

// WithVersion stamps produced documents with the tool version.
func WithVersion(v string) Option {
	return func(rn *Runner) {
		rn.version = v
	}
}

// New returns a Runner using the default converter registry, which then
// shares the Runner's logger.
func New(opts ...Option) *Runner {
	r := &Runner{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = ingest.DefaultRegistry().WithLogger(r.logger)
	}
	return r
}

// Run executes req with a default Runner.
func Run(ctx context.Context, req *Request) (*report.Report, error) {
	return New().Run(ctx, req)
}

// Ingest converts every source of req and merges the result with
// req.Groups. A variable named twice is rejected.
func (r *Runner) Ingest(ctx context.Context, req *Request) (map[string]*unit.Group, error) {
	groups := make(map[string]*unit.Group, len(req.Groups)+len(req.Sources))
	for k, g := range req.Groups {
		groups[k] = g
	}
	for _, src := range req.Sources {
		if _, dup := groups[src.Variable]; dup {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("variable %q has more than one source", src.Variable),
				map[string]any{"variable": src.Variable})
		}
		g, err := r.registry.Convert(ctx, src.Location, src.Format)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", src.Variable, err)
		}
		groups[src.Variable] = g
	}
	return groups, nil
}

// Configure ingests the sources of req and validates its payload.
func (r *Runner) Configure(ctx context.Context, req *Request) (*config.Configuration, error) {
	if req == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "request is required")
	}
	groups, err := r.Ingest(ctx, req)
	if err != nil {
		return nil, err
	}
	return config.New(groups, req.Payload, config.WithLogger(r.logger))
}

// Run ingests, validates, optimizes and reports. The evaluator's
// constraint mode follows the selected algorithm.
func (r *Runner) Run(ctx context.Context, req *Request) (*report.Report, error) {
	cfg, err := r.Configure(ctx, req)
	if err != nil {
		return nil, err
	}

	opt, err := optimizer.New(optimizer.Algorithm(req.Algorithm), cfg, optimizer.WithLogger(r.logger))
	if err != nil {
		return nil, err
	}

	ev, err := evaluator.New(cfg,
		evaluator.WithMode(opt.Mode()),
		evaluator.WithWorkers(req.Workers),
		evaluator.WithLogger(r.logger))
	if err != nil {
		return nil, err
	}

	res, err := opt.Optimize(ctx, problem.New(ev))
	if err != nil {
		return nil, fmt.Errorf("%s run failed: %w", opt.Name(), err)
	}

	rep, err := report.Build(cfg, res, report.WithVersion(r.version))
	if err != nil {
		return nil, err
	}
	r.logger.Info("optimization complete",
		"algorithm", rep.Algorithm,
		"generations", rep.Generations,
		"evaluations", rep.Evaluations,
		"solutions", len(rep.Solutions),
		"duplicates", rep.Duplicates)
	return rep, nil
}
