// SPDX-FileCopyrightText: 2026 Labwatch Authors
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"reflect"
	"testing"

	"github.com/icudata/labwatch/db"
	"github.com/icudata/labwatch/parse"
)

func TestHistoryCSV(t *testing.T) {
	t.Parallel()

	history := []db.StoredRecord{
		storedRecord("b", "2024-05-11", "09:00", map[string]float64{"Na": 138}),
		storedRecord("a", "2024-05-10", "", map[string]float64{"Na": 140, "K": 4.1}),
	}
	table := buildHistoryTable(history, parse.DefaultCatalog())

	got := historyCSV(table)
	want := [][]string{
		{"Parameter", "Unit", "2024-05-11 09:00", "2024-05-10"},
		{"Na", "mEq/l", "138", "140"},
		{"K", "mEq/l", "", "4.1"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("historyCSV = %v, want %v", got, want)
	}
}
