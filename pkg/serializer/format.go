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
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/NVIDIA/text2moo/pkg/errors"
)

// Format represents the document format.
type Format string

const (
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
	// FormatTable outputs data as flattened FIELD/VALUE rows
	FormatTable Format = "table"
	// FormatText outputs the plain-text rendering of values implementing Texter
	FormatText Format = "text"
)

// Texter is implemented by documents with a plain-text rendering.
type Texter interface {
	Text() string
}

// IsUnknown reports whether f is not a supported format.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable, FormatText:
		return false
	default:
		return true
	}
}

// Readable reports whether documents in f can be deserialized.
func (f Format) Readable() bool {
	return f == FormatJSON || f == FormatYAML
}

// Extension returns the file extension used when storing f.
func (f Format) Extension() string {
	switch f {
	case FormatTable, FormatText:
		return "txt"
	case FormatYAML:
		return "yaml"
	default:
		return "json"
	}
}

// SupportedFormats returns a list of all supported output formats
// for serialization.
func SupportedFormats() []string {
	return []string{
		string(FormatJSON),
		string(FormatYAML),
		string(FormatTable),
		string(FormatText),
	}
}

// ParseFormat resolves a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "yml" {
		return FormatYAML, nil
	}
	if f.IsUnknown() {
		return "", errors.NewWithContext(errors.ErrCodeInvalidEnum,
			fmt.Sprintf("unsupported output format %q", s),
			map[string]any{"supported": SupportedFormats()})
	}
	return f, nil
}

// FormatFromPath determines the serialization format based on file extension.
// Supported extensions:
//   - .json → FormatJSON
//   - .yaml, .yml → FormatYAML
//   - .table → FormatTable
//   - .txt → FormatText
//
// Returns FormatJSON as default for unknown extensions.
// Extension matching is case-insensitive.
func FormatFromPath(filePath string) Format {
	switch strings.ToLower(path.Ext(filePath)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".table":
		return FormatTable
	case ".txt":
		return FormatText
	default:
		slog.Debug("unknown file extension, defaulting to JSON", "filePath", filePath)
		return FormatJSON
	}
}
