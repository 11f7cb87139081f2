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
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/NVIDIA/text2moo/pkg/errors"
	"github.com/NVIDIA/text2moo/pkg/unit"
)

// NewCSVConverter returns the converter for comma separated sources. The
// first row is the header and must name the id and name columns.
func NewCSVConverter() Converter {
	return &recordConverter{format: FormatCSV, decode: decodeCSV}
}

// NewXLSXConverter returns the converter for Excel workbooks. An empty sheet
// selects the first sheet of the workbook.
func NewXLSXConverter(sheet string) Converter {
	return &recordConverter{
		format: FormatXLSX,
		decode: func(r io.Reader) (*dataset, error) {
			return decodeXLSX(r, sheet)
		},
	}
}

func decodeCSV(r io.Reader) (*dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedSource, "invalid CSV", err)
	}
	return fromRows(rows)
}

func decodeXLSX(r io.Reader, sheet string) (*dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedSource, "invalid workbook", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New(errors.ErrCodeEmptyDataset, "workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeMalformedSource, "failed to read sheet", err,
			map[string]any{"sheet": sheet})
	}
	return fromRows(rows)
}

// fromRows turns a header row plus data rows into records. Empty attribute
// cells are left out so units stay sparse.
func fromRows(rows [][]string) (*dataset, error) {
	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "source contains no rows")
	}

	header := make([]string, len(rows[0]))
	seen := make(map[string]bool, len(header))
	for i, cell := range rows[0] {
		name := strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
		if name == "" {
			return nil, errors.NewWithContext(errors.ErrCodeMalformedSource,
				fmt.Sprintf("header column %d is empty", i),
				map[string]any{"column": i})
		}
		if seen[name] {
			return nil, errors.NewWithContext(errors.ErrCodeMalformedSource,
				fmt.Sprintf("header column %q repeated", name),
				map[string]any{"column": name})
		}
		seen[name] = true
		header[i] = name
	}

	ds := &dataset{columns: header, records: make([]record, 0, len(rows)-1)}
	for i, row := range rows[1:] {
		if len(row) > len(header) {
			return nil, errors.NewWithContext(errors.ErrCodeMalformedSource,
				fmt.Sprintf("row %d has %d cells, header has %d", i, len(row), len(header)),
				map[string]any{"index": i})
		}
		fields := make(map[string]any, len(header))
		for j, col := range header {
			cell := ""
			if j < len(row) {
				cell = strings.TrimSpace(row[j])
			}
			switch {
			case unit.IsReserved(col):
				fields[col] = cell
			case cell != "":
				fields[col] = unit.ParseValue(cell).Any()
			}
		}
		ds.records = append(ds.records, record{index: i, fields: fields, raw: row})
	}
	return ds, nil
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		if strings.TrimSpace(strings.Join(row, "")) != "" {
			out = append(out, row)
		}
	}
	return out
}
