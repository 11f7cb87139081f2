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
	"slices"

	"github.com/NVIDIA/text2moo/pkg/header"
)

// VariableSummary describes one decision dimension.
type VariableSummary struct {
	Name       string   `json:"name" yaml:"name"`
	Units      int      `json:"units" yaml:"units"`
	Lower      int      `json:"lower" yaml:"lower"`
	Upper      int      `json:"upper" yaml:"upper"`
	Attributes []string `json:"attributes" yaml:"attributes"`
}

// Document is the serializable view of a validated Configuration.
type Document struct {
	header.Header `json:",inline" yaml:",inline"`

	Variables     []VariableSummary `json:"variables" yaml:"variables"`
	Configuration *Payload          `json:"configuration" yaml:"configuration"`
}

// Document returns the serializable view of the configuration.
func (c *Configuration) Document(version string) *Document {
	doc := &Document{
		Variables:     make([]VariableSummary, 0, len(c.Variables)),
		Configuration: c.Payload(),
	}
	doc.Init(header.KindConfiguration, header.APIVersion, version)

	for i, v := range c.Variables {
		g := c.Group(i)
		doc.Variables = append(doc.Variables, VariableSummary{
			Name:       v,
			Units:      g.Len(),
			Lower:      0,
			Upper:      c.Upper(i),
			Attributes: slices.Clone(g.AttributeNames),
		})
	}
	return doc
}
