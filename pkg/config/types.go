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
	"strings"

	"github.com/NVIDIA/text2moo/pkg/errors"
)

// Direction is the optimization sense of an objective.
type Direction string

const (
	// DirectionMinimize keeps the attribute sum as is.
	DirectionMinimize Direction = "minimize"

	// DirectionMaximize stores the negated attribute sum so every objective
	// can be minimized.
	DirectionMaximize Direction = "maximize"
)

// ParseDirection parses a direction, accepting the sum_min and sum_max
// spellings as aliases.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimize", "sum_min":
		return DirectionMinimize, nil
	case "maximize", "sum_max":
		return DirectionMaximize, nil
	default:
		return "", errors.NewWithContext(errors.ErrCodeInvalidEnum,
			fmt.Sprintf("unknown objective direction %q, expected minimize or maximize", s),
			map[string]any{"value": s})
	}
}

// Sign returns the factor applied to raw sums.
func (d Direction) Sign() float64 {
	if d == DirectionMaximize {
		return -1
	}
	return 1
}

// Apply converts a raw attribute sum into the stored objective value.
func (d Direction) Apply(raw float64) float64 {
	return d.Sign() * raw
}

// Recover converts a stored objective value back to the raw attribute sum.
func (d Direction) Recover(stored float64) float64 {
	return d.Sign() * stored
}

// Operator is the comparison of a per-unit constraint.
type Operator string

const (
	// OperatorGTE requires the unit value to be at least the threshold.
	OperatorGTE Operator = ">="

	// OperatorLTE requires the unit value to be at most the threshold.
	OperatorLTE Operator = "<="
)

// ParseOperator parses a constraint operator.
func ParseOperator(s string) (Operator, error) {
	switch Operator(strings.TrimSpace(s)) {
	case OperatorGTE:
		return OperatorGTE, nil
	case OperatorLTE:
		return OperatorLTE, nil
	default:
		return "", errors.NewWithContext(errors.ErrCodeInvalidEnum,
			fmt.Sprintf("unknown constraint operator %q, expected >= or <=", s),
			map[string]any{"value": s})
	}
}

// Violated reports whether value breaks the constraint.
func (o Operator) Violated(value, threshold float64) bool {
	switch o {
	case OperatorGTE:
		return value < threshold
	case OperatorLTE:
		return value > threshold
	default:
		return false
	}
}

// Objective sums one attribute over the selected units.
type Objective struct {
	Attribute string    `json:"attribute" yaml:"attribute"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// Constraint is checked against every selected unit holding the attribute.
type Constraint struct {
	Attribute string   `json:"attribute" yaml:"attribute"`
	Operator  Operator `json:"type" yaml:"type"`
	Threshold float64  `json:"value" yaml:"value"`
}

// String renders the constraint as "attr >= 10".
func (c Constraint) String() string {
	return fmt.Sprintf("%s %s %g", c.Attribute, c.Operator, c.Threshold)
}
