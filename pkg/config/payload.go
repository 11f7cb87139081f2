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
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Payload is the configuration as supplied by a user or an extraction
// step, before validation. Unset numeric fields are nil and receive
// defaults during validation.
type Payload struct {
	// Data optionally carries the unit lists inline, keyed by variable.
	Data map[string][]any `json:"data,omitempty" yaml:"data,omitempty"`

	Variables          []string        `json:"variable" yaml:"variable"`
	VariableAttributes []string        `json:"variable_attributes" yaml:"variable_attributes"`
	Objectives         ObjectiveSpecs  `json:"objective" yaml:"objective"`
	Constraints        ConstraintSpecs `json:"constraints,omitempty" yaml:"constraints,omitempty"`

	ConstraintPenalty *float64 `json:"constraint_penalty,omitempty" yaml:"constraint_penalty,omitempty"`
	PopulationSize    *int     `json:"population_size,omitempty" yaml:"population_size,omitempty"`
	GenerationCount   *int     `json:"generation_count,omitempty" yaml:"generation_count,omitempty"`
	RandomSeed        *int64   `json:"random_seed,omitempty" yaml:"random_seed,omitempty"`

	Neighbors         *int     `json:"n_neighbors,omitempty" yaml:"n_neighbors,omitempty"`
	MatingProbability *float64 `json:"prob_neighbor_mating,omitempty" yaml:"prob_neighbor_mating,omitempty"`
	Partitions        *int     `json:"n_partitions,omitempty" yaml:"n_partitions,omitempty"`
}

type payloadFields Payload

// payloadWire adds the short parameter names used by extraction prompts.
type payloadWire struct {
	payloadFields `yaml:",inline"`

	PopSize *int   `json:"pop_size,omitempty" yaml:"pop_size,omitempty"`
	NGen    *int   `json:"n_gen,omitempty" yaml:"n_gen,omitempty"`
	Seed    *int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

func (w *payloadWire) payload() Payload {
	p := Payload(w.payloadFields)
	if p.PopulationSize == nil {
		p.PopulationSize = w.PopSize
	}
	if p.GenerationCount == nil {
		p.GenerationCount = w.NGen
	}
	if p.RandomSeed == nil {
		p.RandomSeed = w.Seed
	}
	return p
}

// UnmarshalJSON accepts pop_size, n_gen and seed as aliases.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var w payloadWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = w.payload()
	return nil
}

// UnmarshalYAML accepts pop_size, n_gen and seed as aliases.
func (p *Payload) UnmarshalYAML(node *yaml.Node) error {
	var w payloadWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	*p = w.payload()
	return nil
}

// ObjectiveSpec is one raw objective entry.
type ObjectiveSpec struct {
	Attribute string
	Direction string
}

// ObjectiveSpecs decodes from a mapping of attribute to direction and keeps
// the declared key order, which is the objective vector order.
type ObjectiveSpecs []ObjectiveSpec

// UnmarshalJSON implements json.Unmarshaler.
func (o *ObjectiveSpecs) UnmarshalJSON(data []byte) error {
	specs := ObjectiveSpecs{}
	err := decodeOrderedJSON(data, func(key string, raw json.RawMessage) error {
		var dir string
		if err := json.Unmarshal(raw, &dir); err != nil {
			return fmt.Errorf("objective %q: %w", key, err)
		}
		specs = append(specs, ObjectiveSpec{Attribute: key, Direction: dir})
		return nil
	})
	if err != nil {
		return err
	}
	*o = specs
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (o *ObjectiveSpecs) UnmarshalYAML(node *yaml.Node) error {
	specs := ObjectiveSpecs{}
	err := decodeOrderedYAML(node, func(key string, value *yaml.Node) error {
		var dir string
		if err := value.Decode(&dir); err != nil {
			return fmt.Errorf("objective %q: %w", key, err)
		}
		specs = append(specs, ObjectiveSpec{Attribute: key, Direction: dir})
		return nil
	})
	if err != nil {
		return err
	}
	*o = specs
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o ObjectiveSpecs) MarshalJSON() ([]byte, error) {
	values := make([]any, len(o))
	keys := make([]string, len(o))
	for i, s := range o {
		keys[i], values[i] = s.Attribute, s.Direction
	}
	return encodeOrderedJSON(keys, values)
}

// MarshalYAML implements yaml.Marshaler.
func (o ObjectiveSpecs) MarshalYAML() (any, error) {
	values := make([]any, len(o))
	keys := make([]string, len(o))
	for i, s := range o {
		keys[i], values[i] = s.Attribute, s.Direction
	}
	return encodeOrderedYAML(keys, values)
}

// ConstraintSpec is one raw constraint entry.
type ConstraintSpec struct {
	Attribute string
	Type      string
	Value     float64
}

type constraintBody struct {
	Type  string   `json:"type" yaml:"type"`
	Value *float64 `json:"value" yaml:"value"`
}

// ConstraintSpecs decodes from a mapping of attribute to {type, value} and
// keeps the declared key order, which is the constraint vector order.
type ConstraintSpecs []ConstraintSpec

func (b constraintBody) spec(key string) (ConstraintSpec, error) {
	if b.Value == nil {
		return ConstraintSpec{}, fmt.Errorf("constraint %q: value is required", key)
	}
	return ConstraintSpec{Attribute: key, Type: b.Type, Value: *b.Value}, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *ConstraintSpecs) UnmarshalJSON(data []byte) error {
	specs := ConstraintSpecs{}
	err := decodeOrderedJSON(data, func(key string, raw json.RawMessage) error {
		var body constraintBody
		if err := json.Unmarshal(raw, &body); err != nil {
			return fmt.Errorf("constraint %q: %w", key, err)
		}
		spec, err := body.spec(key)
		if err != nil {
			return err
		}
		specs = append(specs, spec)
		return nil
	})
	if err != nil {
		return err
	}
	*c = specs
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *ConstraintSpecs) UnmarshalYAML(node *yaml.Node) error {
	specs := ConstraintSpecs{}
	err := decodeOrderedYAML(node, func(key string, value *yaml.Node) error {
		var body constraintBody
		if err := value.Decode(&body); err != nil {
			return fmt.Errorf("constraint %q: %w", key, err)
		}
		spec, err := body.spec(key)
		if err != nil {
			return err
		}
		specs = append(specs, spec)
		return nil
	})
	if err != nil {
		return err
	}
	*c = specs
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c ConstraintSpecs) MarshalJSON() ([]byte, error) {
	keys := make([]string, len(c))
	values := make([]any, len(c))
	for i, s := range c {
		keys[i] = s.Attribute
		values[i] = map[string]any{"type": s.Type, "value": s.Value}
	}
	return encodeOrderedJSON(keys, values)
}

// MarshalYAML implements yaml.Marshaler.
func (c ConstraintSpecs) MarshalYAML() (any, error) {
	keys := make([]string, len(c))
	values := make([]any, len(c))
	for i, s := range c {
		keys[i] = s.Attribute
		values[i] = constraintBody{Type: s.Type, Value: &s.Value}
	}
	return encodeOrderedYAML(keys, values)
}

// decodeOrderedJSON walks a JSON object in document order. null decodes to
// an empty set.
func decodeOrderedJSON(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected an object, got %v", tok)
	}

	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected an object key, got %v", tok)
		}
		if seen[key] {
			return fmt.Errorf("key %q repeated", key)
		}
		seen[key] = true

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

// decodeOrderedYAML walks a YAML mapping in document order. null decodes to
// an empty set.
func decodeOrderedYAML(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}

	seen := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if seen[key] {
			return fmt.Errorf("line %d: key %q repeated", node.Content[i].Line, key)
		}
		seen[key] = true
		if err := fn(key, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func encodeOrderedJSON(keys []string, values []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeOrderedYAML(keys []string, values []any) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i, k := range keys {
		var v yaml.Node
		if err := v.Encode(values[i]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, &v)
	}
	return node, nil
}
