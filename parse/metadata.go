/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultSampleTime is the sentinel time-of-day assigned when a report
// carries a sample date but no draw time.
const DefaultSampleTime = "12:00"

// Metadata holds the identity fields extracted from a report.
type Metadata struct {
	PatientName string
	ProtocolID  string
	SampleDate  string // ISO date (2006-01-02), empty when undetected
	SampleTime  string // HH:MM, empty when no date was detected
}

var (
	patientLabel = regexp.MustCompile(`(?i)\b(?:NOMBRE\s+DEL?\s+PACIENTE|PACIENTE|NOMBRE)\b\s*\.?:?\s*([^\n\r]+)`)
	// Secondary labels appended on the same line as the name; everything
	// from the label onward is dropped (v. "JUANA PEREZ F. Nac: 01/02/60").
	patientTrailer = regexp.MustCompile(`(?i)\s*\b(?:F\.?\s*NAC(?:IMIENTO)?|FECHA|DNI|EDAD|SEXO|PROTOCOLO|REGISTRO|TOMA\s+DE\s+MUESTRA)\b.*$`)
	nameRun        = regexp.MustCompile(`^[\p{L}][\p{L} .'-]*`)

	protocolLabel = regexp.MustCompile(`(?i)\b(?:PROTOCOLO|ACCESSION|REGISTRO)\b\s*(?:N\s*[ºO°]?\.?)?\s*:?\s*([A-Za-z0-9][A-Za-z0-9./-]*)`)

	dateCapture  = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})`)
	clockCapture = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})`)

	birthContext = regexp.MustCompile(`(?i)(?:NACIMIENTO|NACIM|F\.?\s*NAC|BIRTH|D\.?O\.?B)`)
)

// Labels that introduce the specimen draw date, most specific first. OCR
// drops characters and vendors vary wording, so each is tried separately.
var sampleDateLabels = []*regexp.Regexp{
	regexp.MustCompile(`(?i)TOMA\s+DE\s+MUESTRA\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})((?:\s+\d{1,2}:\d{2})?)`),
	regexp.MustCompile(`(?i)FECHA\s+DE\s+EXTRACCI[ÓO]N\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})((?:\s+\d{1,2}:\d{2})?)`),
	regexp.MustCompile(`(?i)FECHA\s+DE\s+MUESTRA\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})((?:\s+\d{1,2}:\d{2})?)`),
	regexp.MustCompile(`(?i)FECHA\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})((?:\s+\d{1,2}:\d{2})?)`),
}

// dateStrategy is one tier of the sample-date fallback chain. Tiers run in
// order until one produces a normalizable date.
type dateStrategy struct {
	name    string
	extract func(text string) (date, clock string, ok bool)
}

var sampleDateStrategies = []dateStrategy{
	{name: "labeled sample date", extract: labeledSampleDate},
	{name: "first non-birth date", extract: firstNonBirthDate},
	{name: "first date", extract: firstDate},
}

// ExtractMetadata pulls patient name, protocol id and sample date/time out
// of raw report text. Every field is best-effort; callers decide which
// absences are fatal.
func ExtractMetadata(text string) Metadata {
	meta := Metadata{
		PatientName: extractPatientName(text),
		ProtocolID:  extractProtocolID(text),
	}

	for _, strategy := range sampleDateStrategies {
		rawDate, rawClock, ok := strategy.extract(text)
		if !ok {
			continue
		}
		date, err := normalizeDate(rawDate)
		if err != nil {
			continue
		}
		meta.SampleDate = date
		meta.SampleTime = normalizeClock(rawClock)
		break
	}
	return meta
}

func extractPatientName(text string) string {
	m := patientLabel.FindStringSubmatch(text)
	if m == nil {
		return ""
	}

	name := patientTrailer.ReplaceAllString(m[1], "")
	name = nameRun.FindString(strings.TrimSpace(name))
	name = collapseSpaces(name)
	name = strings.Trim(name, " .'-")
	return name
}

func extractProtocolID(text string) string {
	m := protocolLabel.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

func labeledSampleDate(text string) (string, string, bool) {
	for _, label := range sampleDateLabels {
		m := label.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		return m[1], strings.TrimSpace(m[2]), true
	}
	return "", "", false
}

// firstNonBirthDate returns the first date whose preceding context does not
// mention a birth label. Print dates and header dates survive this filter;
// that is acceptable, the tier below catches nothing better.
func firstNonBirthDate(text string) (string, string, bool) {
	prevEnd := 0
	for _, loc := range dateCapture.FindAllStringIndex(text, -1) {
		from := loc[0] - 30
		if from < prevEnd {
			// A birth label binds to its nearest date only; never let
			// it bleed past an intervening date.
			from = prevEnd
		}
		if from < 0 {
			from = 0
		}
		rejected := birthContext.MatchString(text[from:loc[0]])
		prevEnd = loc[1]
		if rejected {
			continue
		}
		return text[loc[0]:loc[1]], adjacentClock(text, loc[1]), true
	}
	return "", "", false
}

func firstDate(text string) (string, string, bool) {
	loc := dateCapture.FindStringIndex(text)
	if loc == nil {
		return "", "", false
	}
	return text[loc[0]:loc[1]], adjacentClock(text, loc[1]), true
}

// adjacentClock returns a clock time immediately following a date match.
func adjacentClock(text string, from int) string {
	to := from + 10
	if to > len(text) {
		to = len(text)
	}
	m := clockCapture.FindStringSubmatch(text[from:to])
	if m == nil {
		return ""
	}
	return m[1] + ":" + m[2]
}

// normalizeDate converts a dd/mm/yyyy (or dd-mm-yy) token to ISO form.
// Two-digit years are read as the 2000s.
func normalizeDate(raw string) (string, error) {
	m := dateCapture.FindStringSubmatch(raw)
	if m == nil {
		return "", fmt.Errorf("not a date: %q", raw)
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year := m[3]
	if len(year) == 2 {
		year = "20" + year
	}
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return "", fmt.Errorf("implausible date: %q", raw)
	}
	return fmt.Sprintf("%s-%02d-%02d", year, month, day), nil
}

// normalizeClock pads a hh:mm token; empty input yields the sentinel.
func normalizeClock(raw string) string {
	m := clockCapture.FindStringSubmatch(raw)
	if m == nil {
		return DefaultSampleTime
	}
	hour, _ := strconv.Atoi(m[1])
	if hour > 23 {
		return DefaultSampleTime
	}
	return fmt.Sprintf("%02d:%s", hour, m[2])
}
