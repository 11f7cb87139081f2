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

package unit

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AllowedScalar is a constraint (compile-time) for what we allow as attribute values.
type AllowedScalar interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 |
		~bool |
		~string
}

// Value is a *runtime* interface so attributes of mixed types share one map.
type Value interface {
	isValue()
	Any() any
	String() string
	// Float64 returns the numeric value and true, or false for bool and
	// string values and for NaN.
	Float64() (float64, bool)

	json.Marshaler
	json.Unmarshaler
	yaml.Marshaler
	yaml.Unmarshaler
}

// Scalar wraps an allowed scalar type.
type Scalar[T AllowedScalar] struct {
	V T
}

func (Scalar[T]) isValue() {}

func (s Scalar[T]) Any() any { return s.V }

// String returns the string representation of the underlying scalar value.
func (s Scalar[T]) String() string {
	return fmt.Sprintf("%v", s.V)
}

// Float64 converts numeric scalars to float64.
func (s Scalar[T]) Float64() (float64, bool) {
	var f float64
	switch v := any(s.V).(type) {
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case float32:
		f = float64(v)
	case float64:
		f = v
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// MarshalJSON makes the JSON value be the underlying scalar (not an object wrapper).
func (s Scalar[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.V)
}

// MarshalYAML makes the YAML value be the underlying scalar (not an object wrapper).
func (s Scalar[T]) MarshalYAML() (any, error) {
	return s.V, nil
}

// UnmarshalJSON unmarshals a JSON value into the underlying scalar.
func (s *Scalar[T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &s.V)
}

// UnmarshalYAML unmarshals a YAML value into the underlying scalar.
func (s *Scalar[T]) UnmarshalYAML(node *yaml.Node) error {
	return node.Decode(&s.V)
}

// ToValue creates a Value from a decoded scalar. JSON numbers decoded with
// UseNumber become int64 when integral and float64 otherwise. The second
// result is false when v was not a scalar and got stringified.
func ToValue(v any) (Value, bool) {
	switch val := v.(type) {
	case int:
		return Int(val), true
	case int32:
		return Int64(int64(val)), true
	case int64:
		return Int64(val), true
	case uint:
		return Uint(val), true
	case uint64:
		return Uint64(val), true
	case float32:
		return Float64(float64(val)), true
	case float64:
		return Float64(val), true
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int64(i), true
		}
		if f, err := val.Float64(); err == nil {
			return Float64(f), true
		}
		return Str(val.String()), true
	case bool:
		return Bool(val), true
	case string:
		return Str(val), true
	default:
		return Str(fmt.Sprintf("%v", val)), false
	}
}

// ParseValue types a raw tabular cell: integers become int64, decimals
// float64, true/false bool, anything else stays a string.
func ParseValue(s string) Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int64(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Float64(f)
	}
	switch strings.ToLower(s) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	return Str(s)
}

// Convenience constructors for each allowed scalar type.
func Int(v int) Value         { return &Scalar[int]{V: v} }
func Int64(v int64) Value     { return &Scalar[int64]{V: v} }
func Uint(v uint) Value       { return &Scalar[uint]{V: v} }
func Uint64(v uint64) Value   { return &Scalar[uint64]{V: v} }
func Float64(v float64) Value { return &Scalar[float64]{V: v} }
func Bool(v bool) Value       { return &Scalar[bool]{V: v} }
func Str(v string) Value      { return &Scalar[string]{V: v} }
