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
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/text2moo/pkg/defaults"
	"github.com/NVIDIA/text2moo/pkg/errors"
	"github.com/NVIDIA/text2moo/pkg/unit"
)

func testGroups(t *testing.T) map[string]*unit.Group {
	t.Helper()
	engines, err := unit.NewGroup([]*unit.Unit{
		unit.NewBuilder("E1", "Engine 1").SetFloat64("cost", 10).SetFloat64("weight", 5).Build(),
		unit.NewBuilder("E2", "Engine 2").SetFloat64("cost", 12).SetFloat64("weight", 4).Build(),
	}, []string{"cost", "weight"})
	require.NoError(t, err)

	props, err := unit.NewGroup([]*unit.Unit{
		unit.NewBuilder("P1", "Prop 1").SetFloat64("cost", 3).Build(),
		unit.NewBuilder("P2", "Prop 2").SetFloat64("cost", 2).Build(),
		unit.NewBuilder("P3", "Prop 3").SetFloat64("cost", 1).Build(),
	}, []string{"cost"})
	require.NoError(t, err)

	return map[string]*unit.Group{"engine": engines, "propeller": props}
}

func basePayload() *Payload {
	return &Payload{
		Variables:          []string{"engine", "propeller"},
		VariableAttributes: []string{"cost", "weight"},
		Objectives: ObjectiveSpecs{
			{Attribute: "cost", Direction: "minimize"},
			{Attribute: "weight", Direction: "maximize"},
		},
	}
}

func TestNew_Defaults(t *testing.T) {
	cfg, err := New(testGroups(t), basePayload())
	require.NoError(t, err)

	assert.Equal(t, 1_000_000.0, cfg.ConstraintPenalty)
	assert.Equal(t, 100, cfg.PopulationSize)
	assert.Equal(t, 50, cfg.GenerationCount)
	assert.Equal(t, int64(42), cfg.RandomSeed)
	assert.Equal(t, 10, cfg.Neighbors)
	assert.Equal(t, 12, cfg.Partitions)
	assert.InDelta(t, 0.7, cfg.MatingProbability, 1e-12)

	assert.Equal(t, 2, cfg.Dimensions())
	assert.Equal(t, 1, cfg.Upper(0))
	assert.Equal(t, 2, cfg.Upper(1))
	assert.Equal(t, []Objective{
		{Attribute: "cost", Direction: DirectionMinimize},
		{Attribute: "weight", Direction: DirectionMaximize},
	}, cfg.Objectives)
}

func TestNew_ExplicitParameters(t *testing.T) {
	p := basePayload()
	p.ConstraintPenalty = ptr.To(500.0)
	p.PopulationSize = ptr.To(8)
	p.GenerationCount = ptr.To(3)
	p.RandomSeed = ptr.To(int64(0))
	p.Constraints = ConstraintSpecs{{Attribute: "weight", Type: "<=", Value: 4.5}}

	cfg, err := New(testGroups(t), p)
	require.NoError(t, err)
	assert.Equal(t, 500.0, cfg.ConstraintPenalty)
	assert.Equal(t, 8, cfg.PopulationSize)
	assert.Equal(t, 3, cfg.GenerationCount)
	assert.Equal(t, int64(0), cfg.RandomSeed)
	assert.Equal(t, []Constraint{{Attribute: "weight", Operator: OperatorLTE, Threshold: 4.5}}, cfg.Constraints)
}

func TestNew_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Payload)
		groups func(g map[string]*unit.Group)
		code   errors.ErrorCode
	}{
		{
			name:   "unknown variable",
			mutate: func(p *Payload) { p.Variables = append(p.Variables, "wing") },
			code:   errors.ErrCodeUnknownVariable,
		},
		{
			name: "unknown objective attribute",
			mutate: func(p *Payload) {
				p.Objectives = append(p.Objectives, ObjectiveSpec{Attribute: "power", Direction: "maximize"})
			},
			code: errors.ErrCodeUnknownAttribute,
		},
		{
			name: "unknown constraint attribute",
			mutate: func(p *Payload) {
				p.Constraints = ConstraintSpecs{{Attribute: "power", Type: ">=", Value: 1}}
			},
			code: errors.ErrCodeUnknownAttribute,
		},
		{
			name:   "invalid direction",
			mutate: func(p *Payload) { p.Objectives[0].Direction = "cheapest" },
			code:   errors.ErrCodeInvalidEnum,
		},
		{
			name: "invalid operator",
			mutate: func(p *Payload) {
				p.Constraints = ConstraintSpecs{{Attribute: "cost", Type: "==", Value: 1}}
			},
			code: errors.ErrCodeInvalidEnum,
		},
		{
			name:   "zero penalty",
			mutate: func(p *Payload) { p.ConstraintPenalty = ptr.To(0.0) },
			code:   errors.ErrCodeInvalidNumericParameter,
		},
		{
			name:   "infinite penalty",
			mutate: func(p *Payload) { p.ConstraintPenalty = ptr.To(math.Inf(1)) },
			code:   errors.ErrCodeInvalidNumericParameter,
		},
		{
			name:   "negative population",
			mutate: func(p *Payload) { p.PopulationSize = ptr.To(-1) },
			code:   errors.ErrCodeInvalidNumericParameter,
		},
		{
			name:   "zero generations",
			mutate: func(p *Payload) { p.GenerationCount = ptr.To(0) },
			code:   errors.ErrCodeInvalidNumericParameter,
		},
		{
			name:   "population above limit",
			mutate: func(p *Payload) { p.PopulationSize = ptr.To(2_000_000_000) },
			code:   errors.ErrCodeInvalidNumericParameter,
		},
		{
			name:   "generations above limit",
			mutate: func(p *Payload) { p.GenerationCount = ptr.To(defaults.MaxGenerationCount + 1) },
			code:   errors.ErrCodeInvalidNumericParameter,
		},
		{
			name:   "group without units",
			mutate: func(p *Payload) {},
			groups: func(g map[string]*unit.Group) { g["propeller"] = &unit.Group{} },
			code:   errors.ErrCodeEmptyDataset,
		},
		{
			name:   "every group without units",
			mutate: func(p *Payload) {},
			groups: func(g map[string]*unit.Group) {
				g["engine"] = &unit.Group{}
				g["propeller"] = &unit.Group{}
			},
			code: errors.ErrCodeEmptyDataset,
		},
		{
			name:   "mating probability above one",
			mutate: func(p *Payload) { p.MatingProbability = ptr.To(1.5) },
			code:   errors.ErrCodeInvalidNumericParameter,
		},
		{
			name: "non finite threshold",
			mutate: func(p *Payload) {
				p.Constraints = ConstraintSpecs{{Attribute: "cost", Type: "<=", Value: math.NaN()}}
			},
			code: errors.ErrCodeInvalidNumericParameter,
		},
		{
			name:   "no variables",
			mutate: func(p *Payload) { p.Variables = nil },
			code:   errors.ErrCodeInvalidRequest,
		},
		{
			name:   "no objectives",
			mutate: func(p *Payload) { p.Objectives = nil },
			code:   errors.ErrCodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := basePayload()
			tt.mutate(p)
			groups := testGroups(t)
			if tt.groups != nil {
				tt.groups(groups)
			}
			cfg, err := New(groups, p)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Equal(t, tt.code, errors.CodeOf(err), err.Error())
		})
	}
}

func TestNew_CheckOrder(t *testing.T) {
	// Every check fails at once; the first in order wins.
	p := basePayload()
	p.Variables = append(p.Variables, "wing")
	p.Objectives = append(p.Objectives, ObjectiveSpec{Attribute: "power", Direction: "best"})
	p.PopulationSize = ptr.To(0)

	_, err := New(testGroups(t), p)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownVariable))

	p.Variables = p.Variables[:2]
	_, err = New(testGroups(t), p)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownAttribute))

	p.VariableAttributes = append(p.VariableAttributes, "power")
	_, err = New(testGroups(t), p)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidEnum))

	p.Objectives[2].Direction = "sum_max"
	_, err = New(testGroups(t), p)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidNumericParameter))
}

func TestNew_InlineData(t *testing.T) {
	p := basePayload()
	p.Variables = []string{"engine", "wing"}
	p.Data = map[string][]any{
		"wing": {
			map[string]any{"id": "W1", "name": "Wing 1", "cost": 4.0},
			map[string]any{"id": "W2", "name": "Wing 2", "cost": 6.0},
		},
		// Ingested groups take precedence over inline data.
		"engine": {map[string]any{"id": "X", "name": "ignored"}},
	}

	cfg, err := New(testGroups(t), p)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Data["wing"].Len())
	assert.Equal(t, "E1", cfg.Data["engine"].Units[0].ID)

	p.Data["wing"] = append(p.Data["wing"], map[string]any{"id": "W1", "name": "dup"})
	_, err = New(testGroups(t), p)
	var se *errors.StructuredError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, errors.ErrCodeDuplicateID, se.Code)
	assert.Equal(t, "wing", se.Context["variable"])
}

func TestNew_WarnsAboutAbsentAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	p := basePayload()
	p.VariableAttributes = append(p.VariableAttributes, "power")
	p.Objectives = append(p.Objectives, ObjectiveSpec{Attribute: "power", Direction: "maximize"})

	_, err := New(testGroups(t), p, WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "attribute=power")
}

func TestDirection(t *testing.T) {
	for _, in := range []string{"minimize", "MINIMIZE", "sum_min"} {
		d, err := ParseDirection(in)
		require.NoError(t, err)
		assert.Equal(t, DirectionMinimize, d)
	}
	for _, in := range []string{"maximize", "sum_max"} {
		d, err := ParseDirection(in)
		require.NoError(t, err)
		assert.Equal(t, DirectionMaximize, d)
	}

	assert.Equal(t, -25.0, DirectionMaximize.Apply(25))
	assert.Equal(t, 25.0, DirectionMaximize.Recover(-25))
	assert.Equal(t, 25.0, DirectionMinimize.Apply(25))
	assert.Equal(t, 25.0, DirectionMinimize.Recover(25))
}

func TestOperatorViolated(t *testing.T) {
	tests := []struct {
		op        Operator
		value     float64
		threshold float64
		want      bool
	}{
		{OperatorGTE, 9, 10, true},
		{OperatorGTE, 10, 10, false},
		{OperatorGTE, 11, 10, false},
		{OperatorLTE, 11, 10, true},
		{OperatorLTE, 10, 10, false},
		{OperatorLTE, 9, 10, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.op.Violated(tt.value, tt.threshold), "%v %s %v", tt.value, tt.op, tt.threshold)
	}

	_, err := ParseOperator(">")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidEnum))
}

func TestDocument(t *testing.T) {
	p := basePayload()
	p.Constraints = ConstraintSpecs{{Attribute: "cost", Type: "<=", Value: 11}}
	cfg, err := New(testGroups(t), p)
	require.NoError(t, err)

	doc := cfg.Document("v0.1.0")
	assert.Equal(t, "Configuration", doc.Kind.String())
	require.Len(t, doc.Variables, 2)
	assert.Equal(t, VariableSummary{Name: "propeller", Units: 3, Upper: 2, Attributes: []string{"cost"}}, doc.Variables[1])
	assert.Equal(t, "minimize", doc.Configuration.Objectives[0].Direction)
	require.NotNil(t, doc.Configuration.PopulationSize)
	assert.Equal(t, 100, *doc.Configuration.PopulationSize)

	// The payload view does not alias the configuration.
	*doc.Configuration.PopulationSize = 1
	assert.Equal(t, 100, cfg.PopulationSize)
}
