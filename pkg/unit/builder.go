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

// Builder provides a fluent API for building Unit instances.
type Builder struct {
	u *Unit
}

// NewBuilder creates a Builder for a unit with the given id and name.
func NewBuilder(id, name string) *Builder {
	return &Builder{u: &Unit{
		ID:         id,
		Name:       name,
		Attributes: make(map[string]Value),
	}}
}

// Set adds or updates an attribute.
func (b *Builder) Set(key string, value Value) *Builder {
	b.u.Attributes[key] = value
	return b
}

// SetFloat64 is a convenience method for adding float64 values.
func (b *Builder) SetFloat64(key string, value float64) *Builder {
	return b.Set(key, Float64(value))
}

// SetInt is a convenience method for adding int values.
func (b *Builder) SetInt(key string, value int) *Builder {
	return b.Set(key, Int(value))
}

// SetString is a convenience method for adding string values.
func (b *Builder) SetString(key, value string) *Builder {
	return b.Set(key, Str(value))
}

// SetBool is a convenience method for adding bool values.
func (b *Builder) SetBool(key string, value bool) *Builder {
	return b.Set(key, Bool(value))
}

// Build returns the constructed Unit.
func (b *Builder) Build() *Unit {
	return b.u
}
