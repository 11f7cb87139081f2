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

// Package ingest turns raw option data into validated unit Groups.
//
// Each encoding is handled by a Converter registered under one or more
// format keys in a Registry:
//
//	json         hierarchical: [ {...}, ... ], {"data": [...]}, {"units": [...]} or one object
//	yaml, yml    same shapes as json
//	csv          tabular: header row naming id, name and attribute columns
//	xlsx, excel  tabular: first sheet of the workbook
//
// Sources are validated before any Group is built:
//
//  1. the source holds at least one record (EMPTY_DATASET)
//  2. every record has id and name (MISSING_FIELD)
//  3. ids are non-empty and unique (MISSING_FIELD, DUPLICATE_ID)
//  4. records are objects with scalar attributes (MALFORMED_SOURCE)
//
// Hierarchical sources report attribute names as the sorted union of record
// keys; tabular sources keep column order. Missing attributes stay absent,
// nothing is inferred.
//
// Usage:
//
//	reg := ingest.DefaultRegistry()
//	group, err := reg.Convert(ctx, "engines.json", "")
//
// New formats are added without touching existing ones:
//
//	reg.Register("parquet", myParquetConverter)
package ingest
