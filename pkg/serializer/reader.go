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

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Reader deserializes JSON or YAML documents from an io.Reader.
//
// Close must be called to release resources when the input is closeable.
// It is safe to call Close multiple times.
type Reader struct {
	format Format
	input  io.Reader
	closer io.Closer
}

// NewReader creates a new Reader for deserializing data from an io.Reader source.
// Only readable formats (JSON, YAML) are accepted. If input implements
// io.Closer, Reader.Close closes it.
func NewReader(format Format, input io.Reader) (*Reader, error) {
	if format.IsUnknown() {
		return nil, fmt.Errorf("unknown format: %s", format)
	}
	if !format.Readable() {
		return nil, fmt.Errorf("%s format does not support deserialization", format)
	}

	r := &Reader{
		format: format,
		input:  input,
	}
	if closer, ok := input.(io.Closer); ok {
		r.closer = closer
	}
	return r, nil
}

// Deserialize reads data from the input source and unmarshals it into v,
// which must be a pointer.
func (r *Reader) Deserialize(v any) error {
	if r == nil {
		return fmt.Errorf("reader is nil")
	}
	if r.input == nil {
		return fmt.Errorf("input source is nil")
	}

	switch r.format {
	case FormatJSON:
		if err := json.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
		return nil
	case FormatYAML:
		if err := yaml.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format for deserialization: %s", r.format)
	}
}

// Close releases any resources held by the Reader.
// Safe to call on nil Reader and multiple times.
func (r *Reader) Close() error {
	if r == nil {
		return nil
	}
	if r.closer != nil {
		err := r.closer.Close()
		r.closer = nil // Prevent double-close
		return err
	}
	return nil
}

// Source is an opened location.
type Source struct {
	io.ReadCloser

	// Name carries the extension used for format detection: the file path,
	// the URL path, or the ConfigMap data key.
	Name string
}

// Open opens a location for reading. Supported locations:
//   - Local file paths: /path/to/engines.csv, ./payload.yaml
//   - HTTP URLs: https://example.com/data/engines.json
//   - ConfigMap URIs: cm://namespace/name or cm://namespace/name/key
func Open(ctx context.Context, location string, opts ...Option) (*Source, error) {
	o := newOptions(opts)
	trimmed := strings.TrimSpace(location)

	switch {
	case strings.HasPrefix(trimmed, ConfigMapURIScheme):
		loc, err := parseConfigMapURI(trimmed)
		if err != nil {
			return nil, err
		}
		key, content, err := readConfigMap(ctx, loc, o)
		if err != nil {
			return nil, err
		}
		return &Source{ReadCloser: io.NopCloser(bytes.NewReader(content)), Name: key}, nil

	case strings.HasPrefix(trimmed, "http://"), strings.HasPrefix(trimmed, "https://"):
		content, err := o.httpReader().ReadWithContext(ctx, trimmed)
		if err != nil {
			return nil, err
		}
		name := trimmed
		if u, perr := url.Parse(trimmed); perr == nil {
			name = u.Path
		}
		return &Source{ReadCloser: io.NopCloser(bytes.NewReader(content)), Name: name}, nil

	default:
		f, err := os.Open(trimmed)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		return &Source{ReadCloser: f, Name: trimmed}, nil
	}
}

// FromFile reads and deserializes the document at path into type T. The
// format is detected from the path extension, the URL path or the
// ConfigMap data key, defaulting to JSON.
//
// Example:
//
//	payload, err := FromFile[config.Payload](ctx, "cm://moo/drone-payload")
func FromFile[T any](ctx context.Context, path string, opts ...Option) (*T, error) {
	src, err := Open(ctx, path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}

	format := FormatFromPath(src.Name)
	if !format.Readable() {
		format = FormatJSON
	}
	slog.Debug("determined file format",
		slog.String("path", path),
		slog.String("format", string(format)),
	)

	reader, err := NewReader(format, src)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("failed to create reader for %q: %w", path, err)
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			slog.Warn("failed to close reader", "error", closeErr)
		}
	}()

	var v T
	if err := reader.Deserialize(&v); err != nil {
		return nil, fmt.Errorf("failed to deserialize object from %q: %w", path, err)
	}
	return &v, nil
}
