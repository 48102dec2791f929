// SPDX-FileCopyrightText: 2026 Labwatch Authors
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"testing"

	"github.com/icudata/labwatch/db"
	"github.com/icudata/labwatch/parse"
)

func storedRecord(id, date, time string, params map[string]float64) db.StoredRecord {
	rec := db.StoredRecord{
		Sample: &parse.SampleRecord{
			SampleDate: date,
			SampleTime: time,
			Parameters: params,
		},
	}
	rec.ID = id
	rec.SampleDate = date
	rec.SampleTime = time
	return rec
}

func TestBuildHistoryTable(t *testing.T) {
	t.Parallel()

	history := []db.StoredRecord{
		storedRecord("b", "2024-05-11", "09:00", map[string]float64{"Na": 138, "K": 4.4}),
		storedRecord("a", "2024-05-10", "08:30", map[string]float64{"Na": 140, "Creatinina": 1.24}),
	}

	table := buildHistoryTable(history, parse.DefaultCatalog())

	if len(table.Columns) != 2 {
		t.Fatalf("got %d columns, want 2", len(table.Columns))
	}
	if table.Columns[0].RecordID != "b" || table.Columns[1].RecordID != "a" {
		t.Fatalf("column order = %v, want newest first", table.Columns)
	}

	// Catalog order: Creatinina before Na before K.
	wantRows := []string{"Creatinina", "Na", "K"}
	if len(table.Rows) != len(wantRows) {
		t.Fatalf("got %d rows, want %d: %+v", len(table.Rows), len(wantRows), table.Rows)
	}
	for i, key := range wantRows {
		if table.Rows[i].Key != key {
			t.Fatalf("row %d key = %q, want %q", i, table.Rows[i].Key, key)
		}
	}

	for _, row := range table.Rows {
		if len(row.Cells) != 2 {
			t.Fatalf("row %q has %d cells, want 2", row.Key, len(row.Cells))
		}
	}

	var na HistoryRow
	for _, row := range table.Rows {
		if row.Key == "Na" {
			na = row
		}
	}
	if na.Cells[0] != "138" || na.Cells[1] != "140" {
		t.Fatalf("Na cells = %v, want [138 140]", na.Cells)
	}

	var cr HistoryRow
	for _, row := range table.Rows {
		if row.Key == "Creatinina" {
			cr = row
		}
	}
	if cr.Cells[0] != "" || cr.Cells[1] != "1.24" {
		t.Fatalf("Creatinina cells = %v, want [ 1.24]", cr.Cells)
	}
}

func TestBuildHistoryTableEmpty(t *testing.T) {
	t.Parallel()

	table := buildHistoryTable(nil, parse.DefaultCatalog())
	if len(table.Columns) != 0 || len(table.Rows) != 0 {
		t.Fatalf("empty history should yield an empty table, got %+v", table)
	}
}
