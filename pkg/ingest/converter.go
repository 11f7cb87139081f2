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
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/NVIDIA/text2moo/pkg/errors"
	"github.com/NVIDIA/text2moo/pkg/unit"
)

// Converter turns one encoded source into a validated Group.
type Converter interface {
	// Convert decodes the source, validates it and builds the Group.
	Convert(ctx context.Context, r io.Reader) (*unit.Group, error)
	// Validate decodes and checks the source without building a Group.
	Validate(ctx context.Context, r io.Reader) error
}

// record is one decoded item. fields is nil when the item was not an object.
type record struct {
	index  int
	fields map[string]any
	raw    any
}

// dataset is the decoder output shared by all converters.
type dataset struct {
	records []record
	// columns is the header order of tabular sources, nil for hierarchical ones.
	columns []string
}

func (d *dataset) tabular() bool {
	return d.columns != nil
}

// decodeFunc reads a source into a dataset.
type decodeFunc func(r io.Reader) (*dataset, error)

// recordConverter implements Converter on top of a format specific decoder.
type recordConverter struct {
	format string
	decode decodeFunc
}

// Convert implements Converter.
func (c *recordConverter) Convert(ctx context.Context, r io.Reader) (*unit.Group, error) {
	ds, err := c.load(ctx, r)
	if err != nil {
		return nil, err
	}
	return build(ds)
}

// Validate implements Converter.
func (c *recordConverter) Validate(ctx context.Context, r io.Reader) error {
	_, err := c.load(ctx, r)
	return err
}

func (c *recordConverter) load(ctx context.Context, r io.Reader) (*dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, "ingestion canceled", err)
	}
	ds, err := c.decode(r)
	if err != nil {
		return nil, err
	}
	if err := validate(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// validate checks, in order: emptiness, required columns, then per item
// shape, id and name presence, empty ids and repeated ids.
func validate(ds *dataset) error {
	if len(ds.records) == 0 {
		return errors.New(errors.ErrCodeEmptyDataset, "source contains no records")
	}

	if ds.tabular() {
		for _, col := range []string{unit.KeyID, unit.KeyName} {
			if !slices.Contains(ds.columns, col) {
				return errors.NewWithContext(errors.ErrCodeMissingField,
					fmt.Sprintf("required column %q missing", col),
					map[string]any{"field": col})
			}
		}
	}

	seen := make(map[string]int, len(ds.records))
	for _, rec := range ds.records {
		if rec.fields == nil {
			return errors.NewWithContext(errors.ErrCodeMalformedSource,
				fmt.Sprintf("item at index %d is not an object", rec.index),
				map[string]any{"index": rec.index, "type": fmt.Sprintf("%T", rec.raw)})
		}
		for _, key := range []string{unit.KeyID, unit.KeyName} {
			if _, ok := rec.fields[key]; !ok {
				return errors.NewWithContext(errors.ErrCodeMissingField,
					fmt.Sprintf("item at index %d missing %q field", rec.index, key),
					map[string]any{"field": key, "index": rec.index})
			}
		}

		id := idOf(rec.fields[unit.KeyID])
		if id == "" {
			return errors.NewWithContext(errors.ErrCodeMissingField,
				fmt.Sprintf("item at index %d has an empty id", rec.index),
				map[string]any{"field": unit.KeyID, "index": rec.index})
		}
		if first, dup := seen[id]; dup {
			return errors.NewWithContext(errors.ErrCodeDuplicateID,
				fmt.Sprintf("duplicate id %q", id),
				map[string]any{"id": id, "index": rec.index, "first": first})
		}
		seen[id] = rec.index

		for key, v := range rec.fields {
			if unit.IsReserved(key) || v == nil {
				continue
			}
			if _, ok := unit.ToValue(v); !ok {
				return errors.NewWithContext(errors.ErrCodeMalformedSource,
					fmt.Sprintf("attribute %q of item %q is not a scalar", key, id),
					map[string]any{"attribute": key, "id": id, "index": rec.index})
			}
		}
	}
	return nil
}

// build assumes ds passed validate.
func build(ds *dataset) (*unit.Group, error) {
	units := make([]*unit.Unit, 0, len(ds.records))
	for _, rec := range ds.records {
		u := &unit.Unit{
			ID:         idOf(rec.fields[unit.KeyID]),
			Attributes: make(map[string]unit.Value, len(rec.fields)),
		}
		if name := rec.fields[unit.KeyName]; name != nil {
			u.Name = fmt.Sprintf("%v", name)
		}
		for key, v := range rec.fields {
			if unit.IsReserved(key) || v == nil {
				continue
			}
			val, _ := unit.ToValue(v)
			u.Attributes[key] = val
		}
		units = append(units, u)
	}

	return unit.NewGroup(units, attributeNames(ds))
}

// attributeNames keeps column order for tabular sources and sorts the key
// union for hierarchical ones.
func attributeNames(ds *dataset) []string {
	names := make([]string, 0)
	if ds.tabular() {
		for _, col := range ds.columns {
			if !unit.IsReserved(col) {
				names = append(names, col)
			}
		}
		return names
	}

	seen := make(map[string]bool)
	for _, rec := range ds.records {
		for key := range rec.fields {
			if !unit.IsReserved(key) && !seen[key] {
				seen[key] = true
				names = append(names, key)
			}
		}
	}
	slices.Sort(names)
	return names
}

func idOf(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
