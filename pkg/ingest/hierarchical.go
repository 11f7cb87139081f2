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

package ingest

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/text2moo/pkg/errors"
	"github.com/NVIDIA/text2moo/pkg/unit"
)

// Wrapper keys accepted around a hierarchical item list.
const (
	keyData  = "data"
	keyUnits = "units"
)

// NewJSONConverter returns the converter for JSON sources. The document may
// be a list of objects, an object holding the list under "data" or "units",
// or a single object treated as one item.
func NewJSONConverter() Converter {
	return &recordConverter{format: FormatJSON, decode: decodeJSON}
}

// NewYAMLConverter returns the converter for YAML sources. It accepts the
// same document shapes as the JSON converter.
func NewYAMLConverter() Converter {
	return &recordConverter{format: FormatYAML, decode: decodeYAML}
}

func decodeJSON(r io.Reader) (*dataset, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.New(errors.ErrCodeEmptyDataset, "source is empty")
		}
		return nil, errors.Wrap(errors.ErrCodeMalformedSource, "invalid JSON", err)
	}
	return fromDocument(doc)
}

func decodeYAML(r io.Reader) (*dataset, error) {
	var doc any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.New(errors.ErrCodeEmptyDataset, "source is empty")
		}
		return nil, errors.Wrap(errors.ErrCodeMalformedSource, "invalid YAML", err)
	}
	return fromDocument(normalize(doc))
}

// ConvertItems validates already decoded items, as found inline in a
// configuration payload, and builds the Group.
func ConvertItems(items []any) (*unit.Group, error) {
	ds, err := fromDocument(normalize(items))
	if err != nil {
		return nil, err
	}
	if err := validate(ds); err != nil {
		return nil, err
	}
	return build(ds)
}

// fromDocument unwraps the accepted document shapes into records.
func fromDocument(doc any) (*dataset, error) {
	var items []any
	switch v := doc.(type) {
	case nil:
		return nil, errors.New(errors.ErrCodeEmptyDataset, "source is empty")
	case []any:
		items = v
	case map[string]any:
		wrapped, key := v[keyData], keyData
		if _, ok := v[keyData]; !ok {
			wrapped, key = v[keyUnits], keyUnits
		}
		if _, ok := v[key]; !ok {
			items = []any{v}
			break
		}
		list, ok := wrapped.([]any)
		if !ok {
			if wrapped == nil {
				return nil, errors.New(errors.ErrCodeEmptyDataset, fmt.Sprintf("%q holds no items", key))
			}
			return nil, errors.NewWithContext(errors.ErrCodeMalformedSource,
				fmt.Sprintf("%q must hold a list of objects", key),
				map[string]any{"key": key, "type": fmt.Sprintf("%T", wrapped)})
		}
		items = list
	default:
		return nil, errors.NewWithContext(errors.ErrCodeMalformedSource,
			"source must contain a list or an object",
			map[string]any{"type": fmt.Sprintf("%T", doc)})
	}

	ds := &dataset{records: make([]record, 0, len(items))}
	for i, item := range items {
		rec := record{index: i, raw: item}
		if m, ok := item.(map[string]any); ok {
			rec.fields = m
		}
		ds.records = append(ds.records, rec)
	}
	return ds, nil
}

// normalize rewrites YAML maps with non-string keys into string keyed maps.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, item := range t {
			m[fmt.Sprintf("%v", k)] = normalize(item)
		}
		return m
	case []any:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	default:
		return v
	}
}
