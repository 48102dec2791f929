/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/icudata/labwatch/db"
	"github.com/icudata/labwatch/parse"
)

var extractor = parse.NewExtractor(parse.DefaultCatalog())

// RecordView is one stored record prepared for rendering.
type RecordView struct {
	ID          string
	PatientID   string
	PatientName string
	ProtocolID  string
	SampleDate  string
	SampleTime  string
	Values      []ValueView
	CompactLine string
	RawText     string
}

// ValueView is one parameter value with its catalog presentation.
type ValueView struct {
	Key          string
	Abbreviation string
	Unit         string
	Value        string
}

// recordView assembles the render form of a stored record, values in
// catalog order.
func recordView(rec db.StoredRecord, patientID, patientName string) RecordView {
	view := RecordView{
		ID:          rec.ID,
		PatientID:   patientID,
		PatientName: patientName,
		ProtocolID:  rec.ProtocolID,
		SampleDate:  rec.SampleDate,
		SampleTime:  rec.SampleTime,
		CompactLine: parse.CompactLine(rec.Sample, parse.DefaultCatalog()),
		RawText:     rec.RawText,
	}
	for _, spec := range parse.DefaultCatalog().Specs() {
		v, ok := rec.Sample.Parameters[spec.Key]
		if !ok {
			continue
		}
		abbr := spec.Abbreviation
		if abbr == "" {
			abbr = spec.Key
		}
		view.Values = append(view.Values, ValueView{
			Key:          spec.Key,
			Abbreviation: abbr,
			Unit:         spec.Unit,
			Value:        parse.FormatValue(v),
		})
	}
	return view
}

// Home renders the paste form and the most recent records.
func Home(c flamego.Context, t template.Template, data template.Data) {
	ctx := c.Request().Context()

	records, patients, err := db.ListRecentRecords(ctx, 20)
	if err != nil {
		log.Printf("Error fetching recent records: %v", err)
		data["Error"] = "Failed to load recent records"
	} else {
		views := make([]RecordView, 0, len(records))
		for i, rec := range records {
			views = append(views, recordView(rec, patients[i].ID, patients[i].Name))
		}
		data["Records"] = views
	}

	data["IsHome"] = true
	t.HTML(http.StatusOK, "home")
}

// CreateRecord parses pasted report text and stores the result.
func CreateRecord(c flamego.Context, s session.Session) {
	ctx := c.Request().Context()

	if err := c.Request().ParseForm(); err != nil {
		log.Printf("Error parsing form: %v", err)
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	rawText := c.Request().Form.Get("report_text")
	if strings.TrimSpace(rawText) == "" {
		SetErrorFlash(s, "Paste the report text first")
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	rec, err := extractor.Extract(rawText)
	if err != nil {
		switch {
		case errors.Is(err, parse.ErrPatientNotIdentified):
			SetErrorFlash(s, "No patient name found in the report")
		case errors.Is(err, parse.ErrNoParametersDetected):
			SetErrorFlash(s, "No known parameters found in the report")
		default:
			log.Printf("Error extracting report: %v", err)
			SetErrorFlash(s, "Failed to process the report")
		}
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	patient, err := db.GetOrCreatePatient(ctx, rec.PatientName)
	if err != nil {
		log.Printf("Error getting patient: %v", err)
		SetErrorFlash(s, "Failed to store the report")
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	history, err := db.GetPatientHistory(ctx, patient.ID)
	if err != nil {
		log.Printf("Error loading patient history: %v", err)
		SetErrorFlash(s, "Failed to store the report")
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	if prior := (parse.DuplicateDetector{}).Find(rec, db.Samples(history)); prior != nil {
		SetWarningFlash(s, "This report is already stored for "+patient.Name)
		c.Redirect("/patient/"+patient.ID, http.StatusSeeOther)
		return
	}

	id, err := db.SaveRecord(ctx, patient.ID, rec)
	if err != nil {
		log.Printf("Error saving record: %v", err)
		SetErrorFlash(s, "Failed to store the report")
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	SetSuccessFlash(s, "Report stored for "+patient.Name)
	c.Redirect("/records/"+id, http.StatusSeeOther)
}

// ViewRecord displays one stored record.
func ViewRecord(c flamego.Context, t template.Template, data template.Data) {
	ctx := c.Request().Context()
	id := c.Param("id")
	if !validID(id) {
		c.ResponseWriter().WriteHeader(http.StatusNotFound)
		return
	}

	rec, values, err := db.GetRecord(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.ResponseWriter().WriteHeader(http.StatusNotFound)
			return
		}
		log.Printf("Error fetching record: %v", err)
		data["Error"] = "Failed to load record"
		t.HTML(http.StatusInternalServerError, "record")
		return
	}

	patient, err := db.GetPatient(ctx, rec.PatientID)
	if err != nil {
		log.Printf("Error fetching patient: %v", err)
		data["Error"] = "Failed to load record"
		t.HTML(http.StatusInternalServerError, "record")
		return
	}

	stored := db.StoredRecord{
		LabRecord: *rec,
		Sample: &parse.SampleRecord{
			PatientName: patient.Name,
			ProtocolID:  rec.ProtocolID,
			SampleDate:  rec.SampleDate,
			SampleTime:  rec.SampleTime,
			Parameters:  values,
			RawText:     rec.RawText,
			Timestamp:   rec.SampleAt,
		},
	}

	data["Record"] = recordView(stored, patient.ID, patient.Name)
	t.HTML(http.StatusOK, "record")
}

// RecordCompactLine serves the single-line summary for pasting into the
// clinical history system.
func RecordCompactLine(c flamego.Context) {
	ctx := c.Request().Context()
	id := c.Param("id")
	if !validID(id) {
		c.ResponseWriter().WriteHeader(http.StatusNotFound)
		return
	}

	_, values, err := db.GetRecord(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.ResponseWriter().WriteHeader(http.StatusNotFound)
			return
		}
		log.Printf("Error fetching record: %v", err)
		c.ResponseWriter().WriteHeader(http.StatusInternalServerError)
		return
	}

	line := parse.CompactLine(&parse.SampleRecord{Parameters: values}, parse.DefaultCatalog())

	c.ResponseWriter().Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.ResponseWriter().Write([]byte(line + "\n"))
}

// PatientCompactLine serves the summary line of a patient's most recent
// record.
func PatientCompactLine(c flamego.Context) {
	ctx := c.Request().Context()
	id := c.Param("id")
	if !validID(id) {
		c.ResponseWriter().WriteHeader(http.StatusNotFound)
		return
	}

	history, err := db.GetPatientHistory(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrPatientNotFound) {
			c.ResponseWriter().WriteHeader(http.StatusNotFound)
			return
		}
		log.Printf("Error fetching patient history: %v", err)
		c.ResponseWriter().WriteHeader(http.StatusInternalServerError)
		return
	}
	if len(history) == 0 {
		c.ResponseWriter().WriteHeader(http.StatusNotFound)
		return
	}

	line := parse.CompactLine(history[0].Sample, parse.DefaultCatalog())

	c.ResponseWriter().Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.ResponseWriter().Write([]byte(line + "\n"))
}

// DeleteRecord removes a stored record.
func DeleteRecord(c flamego.Context, s session.Session) {
	ctx := c.Request().Context()
	id := c.Param("id")
	if !validID(id) {
		c.ResponseWriter().WriteHeader(http.StatusNotFound)
		return
	}

	rec, _, err := db.GetRecord(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.ResponseWriter().WriteHeader(http.StatusNotFound)
			return
		}
		log.Printf("Error fetching record: %v", err)
		SetErrorFlash(s, "Failed to delete record")
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	if err := db.DeleteRecord(ctx, id); err != nil {
		log.Printf("Error deleting record: %v", err)
		SetErrorFlash(s, "Failed to delete record")
		c.Redirect("/records/"+id, http.StatusSeeOther)
		return
	}

	SetSuccessFlash(s, "Record deleted")
	c.Redirect("/patient/"+rec.PatientID, http.StatusSeeOther)
}
