// SPDX-FileCopyrightText: 2026 Labwatch Authors
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/icudata/labwatch/parse"
)

func testRecord(day int, clock string) *parse.SampleRecord {
	date := time.Date(2024, time.May, day, 0, 0, 0, 0, time.UTC)
	at, _ := time.Parse("2006-01-02 15:04", date.Format("2006-01-02")+" "+clock)
	return &parse.SampleRecord{
		PatientName: "PEREZ JUANA",
		SampleDate:  date.Format("2006-01-02"),
		SampleTime:  clock,
		Parameters:  map[string]float64{"Na": 140, "K": 4.1},
		RawText:     "SODIO 140 POTASIO 4,1",
		Timestamp:   at,
	}
}

func TestGetOrCreatePatientConverges(t *testing.T) {
	requireDatabase(t)
	resetDatabase(t)
	ctx := context.Background()

	first, err := GetOrCreatePatient(ctx, "  perez   juana ")
	if err != nil {
		t.Fatalf("GetOrCreatePatient failed: %v", err)
	}
	if first.Name != "PEREZ JUANA" {
		t.Fatalf("expected canonical name, got %q", first.Name)
	}

	second, err := GetOrCreatePatient(ctx, "PEREZ JUANA")
	if err != nil {
		t.Fatalf("GetOrCreatePatient failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same patient row, got %s and %s", first.ID, second.ID)
	}

	other, err := GetOrCreatePatient(ctx, "GOMEZ CARLOS")
	if err != nil {
		t.Fatalf("GetOrCreatePatient failed: %v", err)
	}
	if other.ID == first.ID {
		t.Fatal("expected a distinct patient row")
	}
}

func TestSaveAndFetchRecord(t *testing.T) {
	requireDatabase(t)
	resetDatabase(t)
	ctx := context.Background()

	patient, err := GetOrCreatePatient(ctx, "PEREZ JUANA")
	if err != nil {
		t.Fatalf("GetOrCreatePatient failed: %v", err)
	}

	rec := testRecord(10, "08:30")
	id, err := SaveRecord(ctx, patient.ID, rec)
	if err != nil {
		t.Fatalf("SaveRecord failed: %v", err)
	}

	stored, values, err := GetRecord(ctx, id)
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if stored.SampleDate != "2024-05-10" || stored.SampleTime != "08:30" {
		t.Errorf("unexpected sample fields: %q %q", stored.SampleDate, stored.SampleTime)
	}
	if !stored.SampleAt.Equal(rec.Timestamp) {
		t.Errorf("SampleAt = %v, want %v", stored.SampleAt, rec.Timestamp)
	}
	if len(values) != 2 || values["Na"] != 140 || values["K"] != 4.1 {
		t.Errorf("unexpected values: %v", values)
	}

	if _, err := SaveRecord(ctx, patient.ID, testRecord(11, "09:00")); err != nil {
		t.Fatalf("SaveRecord failed: %v", err)
	}

	history, err := GetPatientHistory(ctx, patient.ID)
	if err != nil {
		t.Fatalf("GetPatientHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 records, got %d", len(history))
	}
	if history[0].SampleDate != "2024-05-11" {
		t.Errorf("expected newest record first, got %q", history[0].SampleDate)
	}
	if history[0].Sample == nil || history[0].Sample.PatientName != "PEREZ JUANA" {
		t.Errorf("history sample not reconstructed: %+v", history[0].Sample)
	}

	points, err := GetParameterSeries(ctx, patient.ID, "Na")
	if err != nil {
		t.Fatalf("GetParameterSeries failed: %v", err)
	}
	if len(points) != 2 || !points[0].SampleAt.Before(points[1].SampleAt) {
		t.Errorf("expected 2 ascending points, got %v", points)
	}

	if err := DeleteRecord(ctx, id); err != nil {
		t.Fatalf("DeleteRecord failed: %v", err)
	}
	if _, _, err := GetRecord(ctx, id); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound after delete, got %v", err)
	}
}

func TestDuplicateDetectionAgainstStoredHistory(t *testing.T) {
	requireDatabase(t)
	resetDatabase(t)
	ctx := context.Background()

	patient, err := GetOrCreatePatient(ctx, "PEREZ JUANA")
	if err != nil {
		t.Fatalf("GetOrCreatePatient failed: %v", err)
	}
	if _, err := SaveRecord(ctx, patient.ID, testRecord(10, "08:30")); err != nil {
		t.Fatalf("SaveRecord failed: %v", err)
	}

	history, err := GetPatientHistory(ctx, patient.ID)
	if err != nil {
		t.Fatalf("GetPatientHistory failed: %v", err)
	}

	resubmit := testRecord(10, "08:45")
	if prior := (parse.DuplicateDetector{}).Find(resubmit, Samples(history)); prior == nil {
		t.Fatal("expected a stored near-in-time record to be flagged")
	}

	nextDay := testRecord(11, "08:30")
	if prior := (parse.DuplicateDetector{}).Find(nextDay, Samples(history)); prior != nil {
		t.Fatalf("unexpected duplicate: %+v", prior)
	}
}

func TestDeletePatientCascades(t *testing.T) {
	requireDatabase(t)
	resetDatabase(t)
	ctx := context.Background()

	patient, err := GetOrCreatePatient(ctx, "PEREZ JUANA")
	if err != nil {
		t.Fatalf("GetOrCreatePatient failed: %v", err)
	}
	id, err := SaveRecord(ctx, patient.ID, testRecord(10, "08:30"))
	if err != nil {
		t.Fatalf("SaveRecord failed: %v", err)
	}

	if err := DeletePatient(ctx, patient.ID); err != nil {
		t.Fatalf("DeletePatient failed: %v", err)
	}
	if _, err := GetPatient(ctx, patient.ID); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
	if _, _, err := GetRecord(ctx, id); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected record to cascade away, got %v", err)
	}
}

func TestListCatalogParametersOrdered(t *testing.T) {
	requireDatabase(t)

	params, err := ListCatalogParameters(context.Background())
	if err != nil {
		t.Fatalf("ListCatalogParameters failed: %v", err)
	}
	if len(params) != parse.DefaultCatalog().Len() {
		t.Fatalf("expected %d parameters, got %d", parse.DefaultCatalog().Len(), len(params))
	}
	for i, p := range params {
		if p.Position != i {
			t.Fatalf("parameter %q at index %d has position %d", p.Key, i, p.Position)
		}
	}
}
