/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	"log"
	"net/http"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/icudata/labwatch/db"
	"github.com/icudata/labwatch/parse"
)

// HistoryTable is a patient's records pivoted for display: one column per
// record, one row per parameter seen anywhere in the history.
type HistoryTable struct {
	// Columns hold per-record headers, newest first.
	Columns []HistoryColumn
	// Rows follow catalog order; parameters absent from the whole history
	// are omitted.
	Rows []HistoryRow
}

// HistoryColumn is one record's header cell.
type HistoryColumn struct {
	RecordID   string
	SampleDate string
	SampleTime string
}

// HistoryRow is one parameter across all records. Cells align with
// Columns; a cell is empty when the record lacks the parameter.
type HistoryRow struct {
	Key          string
	Abbreviation string
	Unit         string
	Cells        []string
}

// buildHistoryTable pivots a history slice into a parameter-by-record
// table using the catalog for row order and labels.
func buildHistoryTable(history []db.StoredRecord, catalog *parse.Catalog) HistoryTable {
	var table HistoryTable

	for _, rec := range history {
		table.Columns = append(table.Columns, HistoryColumn{
			RecordID:   rec.ID,
			SampleDate: rec.SampleDate,
			SampleTime: rec.SampleTime,
		})
	}

	for _, spec := range catalog.Specs() {
		present := false
		cells := make([]string, len(history))
		for i, rec := range history {
			if v, ok := rec.Sample.Parameters[spec.Key]; ok {
				cells[i] = parse.FormatValue(v)
				present = true
			}
		}
		if !present {
			continue
		}

		abbr := spec.Abbreviation
		if abbr == "" {
			abbr = spec.Key
		}
		table.Rows = append(table.Rows, HistoryRow{
			Key:          spec.Key,
			Abbreviation: abbr,
			Unit:         spec.Unit,
			Cells:        cells,
		})
	}

	return table
}

// PatientList displays all patients with record counts.
func PatientList(c flamego.Context, t template.Template, data template.Data) {
	patients, err := db.ListPatients(c.Request().Context())
	if err != nil {
		log.Printf("Error fetching patients: %v", err)
		data["Error"] = "Failed to load patients"
	} else {
		data["Patients"] = patients
	}

	data["IsPatients"] = true
	t.HTML(http.StatusOK, "patients")
}

// PatientHistory displays a patient's records as a pivot table.
func PatientHistory(c flamego.Context, t template.Template, data template.Data) {
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
		data["Error"] = "Failed to load patient"
		t.HTML(http.StatusInternalServerError, "patient")
		return
	}

	history, err := db.GetPatientHistory(ctx, id)
	if err != nil {
		log.Printf("Error fetching patient history: %v", err)
		data["Error"] = "Failed to load patient history"
		t.HTML(http.StatusInternalServerError, "patient")
		return
	}

	data["Patient"] = patient
	data["History"] = buildHistoryTable(history, parse.DefaultCatalog())
	t.HTML(http.StatusOK, "patient")
}

// DeletePatient removes a patient and all of their records.
func DeletePatient(c flamego.Context, s session.Session) {
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
		SetErrorFlash(s, "Failed to delete patient")
		c.Redirect("/patients", http.StatusSeeOther)
		return
	}

	if err := db.DeletePatient(ctx, id); err != nil {
		log.Printf("Error deleting patient: %v", err)
		SetErrorFlash(s, "Failed to delete patient")
		c.Redirect("/patient/"+id, http.StatusSeeOther)
		return
	}

	SetSuccessFlash(s, "Deleted "+patient.Name+" and all their reports")
	c.Redirect("/patients", http.StatusSeeOther)
}
