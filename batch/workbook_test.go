// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildTestWorkbook(t *testing.T, rows [][]interface{}) *Workbook {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}

		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("writing test row: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("writing test workbook: %v", err)
	}

	wb, err := ReadWorkbook(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadWorkbook() error = %v", err)
	}

	return wb
}

func TestReadWorkbook(t *testing.T) {
	wb := buildTestWorkbook(t, [][]interface{}{
		{"Adresse", "Entreprise", "Date début"},
		{"Rue de la Loi 16, 1000 Bruxelles", "Colas", "2024-03-01"},
		{"Bruxelles", "", ""},
	})

	if len(wb.Headers) != 3 {
		t.Fatalf("Headers = %v", wb.Headers)
	}

	if len(wb.Rows) != 2 {
		t.Fatalf("Rows = %d, want 2", len(wb.Rows))
	}

	if wb.Rows[0][0] != "Rue de la Loi 16, 1000 Bruxelles" {
		t.Errorf("first cell = %q", wb.Rows[0][0])
	}
}

func TestReadWorkbookNotASpreadsheet(t *testing.T) {
	if _, err := ReadWorkbook(bytes.NewReader([]byte("not a workbook"))); err == nil {
		t.Fatal("expected error on garbage input")
	}
}

func TestColumnIndex(t *testing.T) {
	wb := buildTestWorkbook(t, [][]interface{}{
		{"Adresse", "Entreprise"},
		{"a", "b"},
	})

	tests := []struct {
		name    string
		column  string
		want    int
		wantErr bool
	}{
		{name: "exact", column: "Adresse", want: 0},
		{name: "case insensitive", column: "adresse", want: 0},
		{name: "trimmed", column: " Entreprise ", want: 1},
		{name: "missing", column: "Latitude", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := wb.ColumnIndex(tt.column)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ColumnIndex(%q) error = %v, wantErr %v", tt.column, err, tt.wantErr)
			}

			if err == nil && got != tt.want {
				t.Errorf("ColumnIndex(%q) = %d, want %d", tt.column, got, tt.want)
			}
		})
	}
}

func TestCellOutOfRange(t *testing.T) {
	row := []string{"a", "b"}

	if got := Cell(row, 1); got != "b" {
		t.Errorf("Cell(1) = %q", got)
	}

	if got := Cell(row, 5); got != "" {
		t.Errorf("Cell(5) = %q, want empty", got)
	}

	if got := Cell(row, -1); got != "" {
		t.Errorf("Cell(-1) = %q, want empty", got)
	}
}
