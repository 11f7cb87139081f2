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
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/NVIDIA/text2moo/pkg/errors"
	"github.com/NVIDIA/text2moo/pkg/serializer"
	"github.com/NVIDIA/text2moo/pkg/unit"
)

// Built-in format keys.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatYML   = "yml"
	FormatCSV   = "csv"
	FormatXLSX  = "xlsx"
	FormatExcel = "excel"
)

// Registry maps format keys to converters. Adding a format never touches
// the existing ones. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	converters map[string]Converter
	sourceOpts []serializer.Option
	logger     *slog.Logger
}

// NewRegistry returns an empty registry logging to slog.Default.
func NewRegistry() *Registry {
	return &Registry{
		converters: make(map[string]Converter),
		logger:     slog.Default(),
	}
}

// DefaultRegistry returns a registry with all built-in converters.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(FormatJSON, NewJSONConverter())
	yamlConverter := NewYAMLConverter()
	r.Register(FormatYAML, yamlConverter)
	r.Register(FormatYML, yamlConverter)
	r.Register(FormatCSV, NewCSVConverter())
	xlsxConverter := NewXLSXConverter("")
	r.Register(FormatXLSX, xlsxConverter)
	r.Register(FormatExcel, xlsxConverter)
	return r
}

// WithSourceOptions sets the options used to open sources, such as an
// injected Kubernetes client for cm:// locations.
func (r *Registry) WithSourceOptions(opts ...serializer.Option) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sourceOpts = opts
	return r
}

// WithLogger sets the logger ingestion events are written to. A nil
// logger is ignored.
func (r *Registry) WithLogger(l *slog.Logger) *Registry {
	if l == nil {
		return r
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = l
	return r
}

// Register adds or replaces the converter for a format key.
// Keys are case-insensitive.
func (r *Registry) Register(format string, c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.converters[normalizeFormat(format)] = c
}

// Lookup returns the converter registered for format.
func (r *Registry) Lookup(format string) (Converter, error) {
	r.mu.RLock()
	c, ok := r.converters[normalizeFormat(format)]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.NewWithContext(errors.ErrCodeUnsupportedFormat,
			fmt.Sprintf("unsupported format %q, supported formats: %s", format, strings.Join(r.Formats(), ", ")),
			map[string]any{"format": format})
	}
	return c, nil
}

// Formats returns the registered format keys, sorted.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.converters))
	for k := range r.converters {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Convert ingests the source at path, which may be a file path, an
// http(s) URL or a cm://namespace/name[/key] ConfigMap URI. An empty
// format is inferred from the path suffix, or from the ConfigMap key.
func (r *Registry) Convert(ctx context.Context, path, format string) (*unit.Group, error) {
	src, c, format, err := r.open(ctx, path, format)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	g, err := convert(ctx, c, src, format)
	if err != nil {
		return nil, annotate(err, path)
	}
	r.mu.RLock()
	logger := r.logger
	r.mu.RUnlock()
	logger.Debug("source ingested", "path", path, "format", format,
		"units", g.Len(), "attributes", len(g.AttributeNames))
	return g, nil
}

// ConvertReader ingests an already opened source. The format is required.
func (r *Registry) ConvertReader(ctx context.Context, in io.Reader, format string) (*unit.Group, error) {
	c, err := r.Lookup(format)
	if err != nil {
		return nil, err
	}
	return convert(ctx, c, in, format)
}

// Validate checks the source at path without building a Group.
func (r *Registry) Validate(ctx context.Context, path, format string) error {
	src, c, _, err := r.open(ctx, path, format)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := c.Validate(ctx, src); err != nil {
		return annotate(err, path)
	}
	return nil
}

// open resolves the converter before touching the source when the format
// is known up front, so an unsupported format never triggers a fetch.
func (r *Registry) open(ctx context.Context, path, format string) (*serializer.Source, Converter, string, error) {
	if format == "" {
		format = FormatFromPath(path)
	}
	var c Converter
	if format != "" {
		var err error
		if c, err = r.Lookup(format); err != nil {
			return nil, nil, "", err
		}
	}

	r.mu.RLock()
	opts := r.sourceOpts
	r.mu.RUnlock()

	src, err := serializer.Open(ctx, path, opts...)
	if err != nil {
		return nil, nil, "", errors.WrapWithContext(errors.ErrCodeNotFound, "failed to open source", err,
			map[string]any{"path": path})
	}

	if c == nil {
		format = FormatFromPath(src.Name)
		if c, err = r.Lookup(format); err != nil {
			src.Close()
			return nil, nil, "", err
		}
	}
	return src, c, format, nil
}

func convert(ctx context.Context, c Converter, in io.Reader, format string) (*unit.Group, error) {
	g, err := c.Convert(ctx, in)
	if err != nil {
		ingestErrors.WithLabelValues(normalizeFormat(format), string(errors.CodeOf(err))).Inc()
		return nil, err
	}
	ingestUnits.WithLabelValues(normalizeFormat(format)).Add(float64(g.Len()))
	return g, nil
}

// FormatFromPath returns the lower-cased suffix of path without the dot.
func FormatFromPath(path string) string {
	return normalizeFormat(filepath.Ext(path))
}

func normalizeFormat(format string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".")
}

// annotate records the source path on structured errors.
func annotate(err error, path string) error {
	var se *errors.StructuredError
	if !stderrors.As(err, &se) {
		return err
	}
	if se.Context == nil {
		se.Context = make(map[string]any)
	}
	se.Context["source"] = path
	return err
}
