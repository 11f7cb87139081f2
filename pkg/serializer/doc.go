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

// Package serializer reads and writes text2moo documents.
//
// Writers support four formats:
//   - JSON: Machine-readable structured data with proper indentation
//   - YAML: Human-readable configuration format
//   - Table: Flattened FIELD/VALUE rows
//   - Text: The document's own plain-text rendering (reports)
//
// Destinations are stdout, local files, or Kubernetes ConfigMaps addressed
// as cm://namespace/name:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatText, "report.txt")
//	defer w.(serializer.Closer).Close()
//	if err := w.Serialize(ctx, rep); err != nil {
//		return err
//	}
//
// Open and FromFile read local files, http(s) URLs and ConfigMaps:
//
//	payload, err := serializer.FromFile[config.Payload](ctx, "payload.yaml")
//
// For HTTP responses:
//
//	serializer.RespondJSON(w, http.StatusOK, data)
package serializer
