/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import "time"

// Patient is one person whose reports are tracked. Identity is the
// extracted name, uppercased and whitespace-collapsed, so repeat reports
// from the same lab converge on one row.
type Patient struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PatientSummary is a patient row with listing aggregates.
type PatientSummary struct {
	Patient
	RecordCount  int
	LastSampleAt *time.Time
}

// LabRecord is one stored laboratory report.
type LabRecord struct {
	ID        string
	PatientID string
	// ProtocolID is the lab's report identifier; empty when the report
	// carried none.
	ProtocolID string
	// SampleDate is the ISO draw date, empty when undetected.
	SampleDate string
	// SampleTime is HH:MM, empty when no date was detected.
	SampleTime string
	// SampleAt orders records chronologically.
	SampleAt  time.Time
	RawText   string
	CreatedAt time.Time
}

// ParameterPoint is one (time, value) sample of a parameter series.
type ParameterPoint struct {
	SampleAt time.Time
	Value    float64
}
