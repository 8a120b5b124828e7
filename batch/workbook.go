// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

// Package batch processes spreadsheet files of addresses through the
// resolution engine: one resolved record per row, coordinates appended, and a
// failure report at the end.
package batch

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook is the first sheet of an input file, split into a header row and
// data rows. All cells are read as strings; the geocoding columns are
// untyped text in every export we have seen.
type Workbook struct {
	Sheet   string
	Headers []string
	Rows    [][]string
}

// OpenWorkbook reads the workbook at path.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}

	defer f.Close()

	return loadWorkbook(f)
}

// ReadWorkbook reads a workbook from a stream (the serve mode's upload).
func ReadWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading workbook: %w", err)
	}

	defer f.Close()

	return loadWorkbook(f)
}

func loadWorkbook(f *excelize.File) (*Workbook, error) {
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	return &Workbook{
		Sheet:   sheet,
		Headers: rows[0],
		Rows:    rows[1:],
	}, nil
}

// ColumnIndex returns the zero-based index of a header, matched
// case-insensitively after trimming.
func (w *Workbook) ColumnIndex(name string) (int, error) {
	want := strings.TrimSpace(strings.ToLower(name))

	for i, h := range w.Headers {
		if strings.TrimSpace(strings.ToLower(h)) == want {
			return i, nil
		}
	}

	return 0, fmt.Errorf("column %q not found (available: %s)", name, strings.Join(w.Headers, ", "))
}

// Cell returns the value at the given column of a data row; rows shorter than
// the header (trailing empty cells are not materialized) yield "".
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return row[idx]
}
