/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package parse

import "time"

// DefaultDuplicateTolerance is how close two same-day timestamps must be
// for date-based duplicate detection to merge them.
const DefaultDuplicateTolerance = time.Hour

// DuplicateDetector decides whether a candidate record duplicates one
// already in a patient's history.
type DuplicateDetector struct {
	// Tolerance is the timestamp proximity window for records without a
	// protocol id; zero means DefaultDuplicateTolerance. Same-day repeat
	// draws inside the window are merged — a documented trade-off, not a
	// bug to fix here.
	Tolerance time.Duration
}

// Find returns the first prior record the candidate duplicates, or nil.
//
// A shared non-empty protocol id is authoritative: the lab assigns it
// uniquely per report, so any other field may differ and the records are
// still the same report. Date proximity is only a fallback for reports
// lacking an id.
func (d DuplicateDetector) Find(candidate *SampleRecord, history []*SampleRecord) *SampleRecord {
	tolerance := d.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultDuplicateTolerance
	}

	for _, prior := range history {
		if prior == nil {
			continue
		}
		if candidate.ProtocolID != "" && prior.ProtocolID == candidate.ProtocolID {
			return prior
		}
	}

	if candidate.SampleDate == "" {
		return nil
	}
	for _, prior := range history {
		if prior == nil || prior.SampleDate != candidate.SampleDate {
			continue
		}
		delta := candidate.Timestamp.Sub(prior.Timestamp)
		if delta < 0 {
			delta = -delta
		}
		if delta < tolerance {
			return prior
		}
	}
	return nil
}

// IsDuplicate reports whether candidate duplicates any record in history
// using the default tolerance.
func IsDuplicate(candidate *SampleRecord, history []*SampleRecord) bool {
	return DuplicateDetector{}.Find(candidate, history) != nil
}
