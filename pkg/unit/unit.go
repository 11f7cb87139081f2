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
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/text2moo/pkg/errors"
)

// Reserved record keys. They are never treated as attributes.
const (
	KeyID   = "id"
	KeyName = "name"
)

// IsReserved reports whether key is one of the reserved record keys.
func IsReserved(key string) bool {
	return key == KeyID || key == KeyName
}

// Unit is one selectable option with a unique ID and sparse attributes.
type Unit struct {
	ID         string
	Name       string
	Attributes map[string]Value
}

// Get returns the attribute value, or nil when the unit lacks it.
func (u *Unit) Get(attr string) Value {
	return u.Attributes[attr]
}

// Has reports whether the unit carries the attribute.
func (u *Unit) Has(attr string) bool {
	_, ok := u.Attributes[attr]
	return ok
}

// Number returns the numeric attribute value. present is false when the
// unit lacks the attribute; numeric is false when it is present but not a number.
func (u *Unit) Number(attr string) (v float64, present, numeric bool) {
	val, ok := u.Attributes[attr]
	if !ok || val == nil {
		return 0, false, false
	}
	f, ok := val.Float64()
	return f, true, ok
}

// DisplayName returns Name, falling back to ID when the name is empty.
func (u *Unit) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}

// flatten renders the unit as a single record with id and name first.
func (u *Unit) flatten() map[string]any {
	m := make(map[string]any, len(u.Attributes)+2)
	for k, v := range u.Attributes {
		m[k] = v
	}
	m[KeyID] = u.ID
	m[KeyName] = u.Name
	return m
}

// MarshalJSON renders the unit as a flat record.
func (u *Unit) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.flatten())
}

// MarshalYAML renders the unit as a flat record with id and name leading.
func (u *Unit) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	add := func(k string, v any) error {
		var val yaml.Node
		if err := val.Encode(v); err != nil {
			return err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, &val)
		return nil
	}
	if err := add(KeyID, u.ID); err != nil {
		return nil, err
	}
	if err := add(KeyName, u.Name); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(u.Attributes))
	for k := range u.Attributes {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := add(k, u.Attributes[k].Any()); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// UnmarshalJSON reads a flat record.
func (u *Unit) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	return u.fromRecord(raw)
}

// UnmarshalYAML reads a flat record.
func (u *Unit) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return u.fromRecord(raw)
}

func (u *Unit) fromRecord(raw map[string]any) error {
	u.Attributes = make(map[string]Value, len(raw))
	for k, v := range raw {
		switch k {
		case KeyID:
			u.ID = fmt.Sprintf("%v", v)
		case KeyName:
			u.Name = fmt.Sprintf("%v", v)
		default:
			if v == nil {
				continue
			}
			val, _ := ToValue(v)
			u.Attributes[k] = val
		}
	}
	return nil
}

// Group is the validated, ordered set of Units for one decision variable.
// It is read-only once built.
type Group struct {
	AttributeNames []string `json:"attributes" yaml:"attributes"`
	Units          []*Unit  `json:"units" yaml:"units"`

	index map[string]int
}

// NewGroup builds a Group, rejecting empty unit lists and repeated IDs.
func NewGroup(units []*Unit, attributeNames []string) (*Group, error) {
	if len(units) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "group has no units")
	}

	index := make(map[string]int, len(units))
	for i, u := range units {
		if u == nil || u.ID == "" {
			return nil, errors.NewWithContext(errors.ErrCodeMissingField,
				"unit is missing an id", map[string]any{"field": KeyID, "index": i})
		}
		if prev, dup := index[u.ID]; dup {
			return nil, errors.NewWithContext(errors.ErrCodeDuplicateID,
				fmt.Sprintf("duplicate unit id %q", u.ID),
				map[string]any{"id": u.ID, "index": i, "first": prev})
		}
		index[u.ID] = i
	}

	return &Group{
		AttributeNames: attributeNames,
		Units:          units,
		index:          index,
	}, nil
}

// Len returns the number of units.
func (g *Group) Len() int {
	return len(g.Units)
}

// At returns the unit at position i, or nil when i is out of range.
func (g *Group) At(i int) *Unit {
	if i < 0 || i >= len(g.Units) {
		return nil
	}
	return g.Units[i]
}

// Lookup finds a unit by ID.
func (g *Group) Lookup(id string) (*Unit, bool) {
	if g.index != nil {
		i, ok := g.index[id]
		if !ok {
			return nil, false
		}
		return g.Units[i], true
	}
	for _, u := range g.Units {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

// HasAttribute reports whether the attribute appears in AttributeNames.
func (g *Group) HasAttribute(name string) bool {
	return slices.Contains(g.AttributeNames, name)
}
