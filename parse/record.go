/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package parse

import (
	"time"
)

// SampleRecord is one processed laboratory report. Records are built once
// by Extract and never mutated; corrections require a new record.
type SampleRecord struct {
	// PatientName is trimmed and whitespace-collapsed; never empty.
	PatientName string
	// ProtocolID is the lab's own report identifier; may be empty.
	ProtocolID string
	// SampleDate is the ISO date the specimen was drawn; may be empty.
	SampleDate string
	// SampleTime is HH:MM; the midday sentinel when the report carried a
	// date but no draw time.
	SampleTime string
	// Parameters maps catalog keys to extracted values.
	Parameters map[string]float64
	// RawText retains the original input for audit.
	RawText string
	// Timestamp is derived from SampleDate+SampleTime, or the extraction
	// moment when no date was found. Used only for chronological ordering
	// and duplicate proximity checks.
	Timestamp time.Time
}

// Extractor runs the full extraction pipeline against a fixed catalog.
// It is stateless and safe for concurrent use.
type Extractor struct {
	catalog *Catalog
	window  int
	now     func() time.Time
}

// ExtractorOption adjusts Extractor construction.
type ExtractorOption func(*Extractor)

// WithWindowSize overrides the value-scan window.
func WithWindowSize(window int) ExtractorOption {
	return func(e *Extractor) { e.window = window }
}

// WithClock overrides the time source; tests pin it.
func WithClock(now func() time.Time) ExtractorOption {
	return func(e *Extractor) { e.now = now }
}

// NewExtractor builds an extractor over an immutable catalog.
func NewExtractor(catalog *Catalog, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		catalog: catalog,
		window:  DefaultWindowSize,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses raw report text into a SampleRecord.
//
// It fails with ErrPatientNotIdentified when no patient name is present and
// with ErrNoParametersDetected when the catalog scan finds nothing. Both
// are recoverable operator-facing conditions, never process faults.
func (e *Extractor) Extract(rawText string) (*SampleRecord, error) {
	meta := ExtractMetadata(rawText)
	if meta.PatientName == "" {
		return nil, ErrPatientNotIdentified
	}

	params := make(map[string]float64)
	for _, spec := range e.catalog.Specs() {
		if v, ok := ExtractValueWindow(rawText, spec, e.window); ok {
			params[spec.Key] = v
		}
	}
	if len(params) == 0 {
		return nil, ErrNoParametersDetected
	}

	return &SampleRecord{
		PatientName: meta.PatientName,
		ProtocolID:  meta.ProtocolID,
		SampleDate:  meta.SampleDate,
		SampleTime:  meta.SampleTime,
		Parameters:  params,
		RawText:     rawText,
		Timestamp:   deriveTimestamp(meta.SampleDate, meta.SampleTime, e.now),
	}, nil
}

// deriveTimestamp combines date and time into an ordering timestamp,
// falling back to the current moment when the date is unknown.
func deriveTimestamp(date, clock string, now func() time.Time) time.Time {
	if date == "" {
		return now()
	}
	if clock == "" {
		clock = DefaultSampleTime
	}
	ts, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.Local)
	if err != nil {
		return now()
	}
	return ts
}
