/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package parse

import (
	"regexp"
	"strings"
)

// DefaultWindowSize bounds, in bytes, how far past a parameter name the
// extractor scans for its value. Reports interleave methodology notes,
// reference ranges and flags after the name; an unbounded scan would bind
// values belonging to later parameters.
const DefaultWindowSize = 80

var (
	spaceRun     = regexp.MustCompile(`\s+`)
	datePattern  = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
	clockPattern = regexp.MustCompile(`\d{1,2}:\d{2}(?::\d{2})?`)
	numberToken  = regexp.MustCompile(`-?\d+(?:[.,]\d+)*`)
)

// collapseSpaces flattens all whitespace runs to single spaces so that
// OCR line breaks inside a "name ... value" pair do not break matching.
func collapseSpaces(text string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(text, " "))
}

// ExtractValue locates the value for one catalog parameter inside report
// text using the default window size.
func ExtractValue(text string, spec ParameterSpec) (float64, bool) {
	return ExtractValueWindow(text, spec, DefaultWindowSize)
}

// ExtractValueWindow returns the first plausible numeric value following
// the first mention of the parameter's name, scanning at most window bytes
// past the name.
//
// Calendar dates and clock times inside the window are blanked first; lab
// layouts frequently place the sample date right after a section header
// that happens to contain a parameter name. Candidates that fail the
// spec's plausibility range are skipped and the scan continues, so a
// mis-OCR'd year next to a potassium value does not mask the real result.
// The first in-range candidate wins; no ranking among survivors.
func ExtractValueWindow(text string, spec ParameterSpec, window int) (float64, bool) {
	flat := collapseSpaces(text)

	_, end, ok := spec.Name.Find(flat)
	if !ok {
		return 0, false
	}

	stop := end + window
	if stop > len(flat) {
		stop = len(flat)
	}
	scan := flat[end:stop]

	scan = datePattern.ReplaceAllString(scan, " ")
	scan = clockPattern.ReplaceAllString(scan, " ")

	for _, token := range numberToken.FindAllString(scan, -1) {
		v, err := NormalizeNumber(token)
		if err != nil {
			continue
		}
		if spec.PlausibleRange != nil && !spec.PlausibleRange.Contains(v) {
			continue
		}
		return v, true
	}
	return 0, false
}
