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

package config

import (
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"

	"k8s.io/utils/ptr"

	"github.com/NVIDIA/text2moo/pkg/defaults"
	"github.com/NVIDIA/text2moo/pkg/errors"
	"github.com/NVIDIA/text2moo/pkg/ingest"
	"github.com/NVIDIA/text2moo/pkg/unit"
)

// Configuration is a validated problem definition. It is immutable after
// New returns and safe to share across goroutines.
type Configuration struct {
	// Data maps each variable to its Group.
	Data map[string]*unit.Group

	// Variables is the dimension order of decision vectors.
	Variables []string

	// VariableAttributes lists the attributes objectives and constraints may use.
	VariableAttributes []string

	// Objectives in declared order, which is the objective vector order.
	Objectives []Objective

	// Constraints in declared order, which is the constraint vector order.
	Constraints []Constraint

	ConstraintPenalty float64
	PopulationSize    int
	GenerationCount   int
	RandomSeed        int64

	// Tuning passed through to decomposition-based optimizers.
	Neighbors         int
	MatingProbability float64
	Partitions        int
}

// Option is a functional option for New.
type Option func(*builder)

type builder struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for validation warnings.
func WithLogger(l *slog.Logger) Option {
	return func(b *builder) {
		b.logger = l
	}
}

// New validates payload against the ingested groups and returns the
// Configuration with defaults applied. Inline payload data is ingested for
// variables that have no group in groups. Checks run in this order:
// unknown variables, unknown attributes, enum values, numeric parameters.
func New(groups map[string]*unit.Group, payload *Payload, opts ...Option) (*Configuration, error) {
	b := &builder{logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}

	if payload == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "configuration payload is required")
	}

	data, err := resolveData(groups, payload)
	if err != nil {
		return nil, err
	}

	if len(payload.Variables) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "at least one variable is required")
	}
	if len(payload.Objectives) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "at least one objective is required")
	}

	for i, v := range payload.Variables {
		if _, ok := data[v]; !ok {
			return nil, errors.NewWithContext(errors.ErrCodeUnknownVariable,
				fmt.Sprintf("variable %q has no data", v),
				map[string]any{"variable": v, "index": i, "known": slices.Sorted(maps.Keys(data))})
		}
		if g := data[v]; g == nil || g.Len() == 0 {
			return nil, errors.NewWithContext(errors.ErrCodeEmptyDataset,
				fmt.Sprintf("variable %q has no units", v),
				map[string]any{"variable": v, "index": i})
		}
	}

	for _, o := range payload.Objectives {
		if !slices.Contains(payload.VariableAttributes, o.Attribute) {
			return nil, errors.NewWithContext(errors.ErrCodeUnknownAttribute,
				fmt.Sprintf("objective attribute %q is not a variable attribute", o.Attribute),
				map[string]any{"attribute": o.Attribute, "kind": "objective"})
		}
	}
	for _, c := range payload.Constraints {
		if !slices.Contains(payload.VariableAttributes, c.Attribute) {
			return nil, errors.NewWithContext(errors.ErrCodeUnknownAttribute,
				fmt.Sprintf("constraint attribute %q is not a variable attribute", c.Attribute),
				map[string]any{"attribute": c.Attribute, "kind": "constraint"})
		}
	}

	objectives := make([]Objective, 0, len(payload.Objectives))
	for _, o := range payload.Objectives {
		dir, err := ParseDirection(o.Direction)
		if err != nil {
			return nil, withAttribute(err, o.Attribute)
		}
		objectives = append(objectives, Objective{Attribute: o.Attribute, Direction: dir})
	}
	constraints := make([]Constraint, 0, len(payload.Constraints))
	for _, c := range payload.Constraints {
		op, err := ParseOperator(c.Type)
		if err != nil {
			return nil, withAttribute(err, c.Attribute)
		}
		constraints = append(constraints, Constraint{Attribute: c.Attribute, Operator: op, Threshold: c.Value})
	}

	cfg := &Configuration{
		Data:               make(map[string]*unit.Group, len(payload.Variables)),
		Variables:          slices.Clone(payload.Variables),
		VariableAttributes: slices.Clone(payload.VariableAttributes),
		Objectives:         objectives,
		Constraints:        constraints,
		ConstraintPenalty:  floatOr(payload.ConstraintPenalty, defaults.ConstraintPenalty),
		PopulationSize:     intOr(payload.PopulationSize, defaults.PopulationSize),
		GenerationCount:    intOr(payload.GenerationCount, defaults.GenerationCount),
		RandomSeed:         defaults.RandomSeed,
		Neighbors:          intOr(payload.Neighbors, defaults.Neighbors),
		MatingProbability:  floatOr(payload.MatingProbability, defaults.MatingProbability),
		Partitions:         intOr(payload.Partitions, defaults.Partitions),
	}
	if payload.RandomSeed != nil {
		cfg.RandomSeed = *payload.RandomSeed
	}
	for _, v := range cfg.Variables {
		cfg.Data[v] = data[v]
	}

	if err := cfg.checkNumeric(); err != nil {
		return nil, err
	}

	cfg.warnUnusedAttributes(b.logger)
	return cfg, nil
}

func (c *Configuration) checkNumeric() error {
	if c.ConstraintPenalty <= 0 || math.IsNaN(c.ConstraintPenalty) || math.IsInf(c.ConstraintPenalty, 0) {
		return invalidNumeric("constraint_penalty", c.ConstraintPenalty, "must be positive and finite")
	}
	if c.PopulationSize <= 0 {
		return invalidNumeric("population_size", c.PopulationSize, "must be positive")
	}
	if c.PopulationSize > defaults.MaxPopulationSize {
		return invalidNumeric("population_size", c.PopulationSize,
			fmt.Sprintf("must not exceed %d", defaults.MaxPopulationSize))
	}
	if c.GenerationCount <= 0 {
		return invalidNumeric("generation_count", c.GenerationCount, "must be positive")
	}
	if c.GenerationCount > defaults.MaxGenerationCount {
		return invalidNumeric("generation_count", c.GenerationCount,
			fmt.Sprintf("must not exceed %d", defaults.MaxGenerationCount))
	}
	if c.Neighbors <= 0 {
		return invalidNumeric("n_neighbors", c.Neighbors, "must be positive")
	}
	if c.Partitions <= 0 {
		return invalidNumeric("n_partitions", c.Partitions, "must be positive")
	}
	if c.MatingProbability < 0 || c.MatingProbability > 1 || math.IsNaN(c.MatingProbability) {
		return invalidNumeric("prob_neighbor_mating", c.MatingProbability, "must be within [0, 1]")
	}
	for _, k := range c.Constraints {
		if math.IsNaN(k.Threshold) || math.IsInf(k.Threshold, 0) {
			return invalidNumeric("constraints."+k.Attribute+".value", k.Threshold, "must be finite")
		}
	}
	return nil
}

// warnUnusedAttributes logs objective and constraint attributes no unit of
// any selected group carries. Such attributes sum to zero.
func (c *Configuration) warnUnusedAttributes(logger *slog.Logger) {
	attrs := make([]string, 0, len(c.Objectives)+len(c.Constraints))
	for _, o := range c.Objectives {
		attrs = append(attrs, o.Attribute)
	}
	for _, k := range c.Constraints {
		attrs = append(attrs, k.Attribute)
	}
	for _, a := range attrs {
		found := false
		for _, g := range c.Data {
			if g.HasAttribute(a) {
				found = true
				break
			}
		}
		if !found {
			logger.Warn("attribute not present in any selected group", "attribute", a)
		}
	}
}

// Group returns the Group of the variable at dimension i.
func (c *Configuration) Group(i int) *unit.Group {
	return c.Data[c.Variables[i]]
}

// Dimensions returns the number of decision variables.
func (c *Configuration) Dimensions() int {
	return len(c.Variables)
}

// Upper returns the inclusive upper decision bound of dimension i.
func (c *Configuration) Upper(i int) int {
	return c.Group(i).Len() - 1
}

// Payload renders the configuration back into its payload form with all
// defaults made explicit and without inline data.
func (c *Configuration) Payload() *Payload {
	p := &Payload{
		Variables:          slices.Clone(c.Variables),
		VariableAttributes: slices.Clone(c.VariableAttributes),
		Objectives:         make(ObjectiveSpecs, 0, len(c.Objectives)),
		ConstraintPenalty:  ptr.To(c.ConstraintPenalty),
		PopulationSize:     ptr.To(c.PopulationSize),
		GenerationCount:    ptr.To(c.GenerationCount),
		RandomSeed:         ptr.To(c.RandomSeed),
		Neighbors:          ptr.To(c.Neighbors),
		MatingProbability:  ptr.To(c.MatingProbability),
		Partitions:         ptr.To(c.Partitions),
	}
	for _, o := range c.Objectives {
		p.Objectives = append(p.Objectives, ObjectiveSpec{Attribute: o.Attribute, Direction: string(o.Direction)})
	}
	for _, k := range c.Constraints {
		p.Constraints = append(p.Constraints, ConstraintSpec{Attribute: k.Attribute, Type: string(k.Operator), Value: k.Threshold})
	}
	return p
}

// resolveData merges ingested groups with inline payload data. Ingested
// groups win when both name the same variable.
func resolveData(groups map[string]*unit.Group, payload *Payload) (map[string]*unit.Group, error) {
	data := make(map[string]*unit.Group, len(groups)+len(payload.Data))
	for k, g := range groups {
		if g != nil {
			data[k] = g
		}
	}
	for _, k := range slices.Sorted(maps.Keys(payload.Data)) {
		if _, ok := data[k]; ok {
			continue
		}
		g, err := ingest.ConvertItems(payload.Data[k])
		if err != nil {
			return nil, withVariable(err, k)
		}
		data[k] = g
	}
	return data, nil
}

func invalidNumeric(field string, value any, reason string) error {
	return errors.NewWithContext(errors.ErrCodeInvalidNumericParameter,
		fmt.Sprintf("%s %s, got %v", field, reason, value),
		map[string]any{"field": field, "value": value})
}

func withAttribute(err error, attr string) error {
	return addContext(err, "attribute", attr)
}

func withVariable(err error, variable string) error {
	return addContext(err, "variable", variable)
}

func addContext(err error, key string, value any) error {
	se, ok := err.(*errors.StructuredError)
	if !ok {
		return err
	}
	if se.Context == nil {
		se.Context = make(map[string]any)
	}
	se.Context[key] = value
	return se
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
