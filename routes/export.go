/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/csv"
	"errors"
	"log"
	"net/http"

	"github.com/flamego/flamego"

	"github.com/icudata/labwatch/db"
	"github.com/icudata/labwatch/parse"
)

// historyCSV renders a history pivot as CSV rows: a header of record
// dates, then one row per parameter.
func historyCSV(table HistoryTable) [][]string {
	header := make([]string, 0, len(table.Columns)+2)
	header = append(header, "Parameter", "Unit")
	for _, col := range table.Columns {
		label := col.SampleDate
		if col.SampleTime != "" {
			label += " " + col.SampleTime
		}
		header = append(header, label)
	}

	rows := [][]string{header}
	for _, row := range table.Rows {
		line := make([]string, 0, len(row.Cells)+2)
		line = append(line, row.Abbreviation, row.Unit)
		line = append(line, row.Cells...)
		rows = append(rows, line)
	}

	return rows
}

// ExportHistoryCSV downloads a patient's full history as CSV.
func ExportHistoryCSV(c flamego.Context) {
	ctx := c.Request().Context()
	id := c.Param("id")
	if !validID(id) {
		c.ResponseWriter().WriteHeader(http.StatusNotFound)
		return
	}

	patient, err := db.GetPatient(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrPatientNotFound) {
			c.ResponseWriter().WriteHeader(http.StatusNotFound)
			return
		}
		log.Printf("Error fetching patient: %v", err)
		c.ResponseWriter().WriteHeader(http.StatusInternalServerError)
		return
	}

	history, err := db.GetPatientHistory(ctx, id)
	if err != nil {
		log.Printf("Error fetching patient history: %v", err)
		c.ResponseWriter().WriteHeader(http.StatusInternalServerError)
		return
	}

	table := buildHistoryTable(history, parse.DefaultCatalog())

	header := c.ResponseWriter().Header()
	header.Set("Content-Type", "text/csv; charset=utf-8")
	header.Set("Content-Disposition", `attachment; filename="`+patient.Name+`.csv"`)

	w := csv.NewWriter(c.ResponseWriter())
	if err := w.WriteAll(historyCSV(table)); err != nil {
		log.Printf("Error writing CSV: %v", err)
	}
}
