// SPDX-FileCopyrightText: 2026 Labwatch Authors
// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"testing"
	"time"
)

func sampleAt(protocol, date, clock string) *SampleRecord {
	ts := time.Time{}
	if date != "" {
		ts, _ = time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.Local)
	}
	return &SampleRecord{
		PatientName: "JUANA PEREZ",
		ProtocolID:  protocol,
		SampleDate:  date,
		SampleTime:  clock,
		Parameters:  map[string]float64{"Na": 140},
		Timestamp:   ts,
	}
}

func TestDuplicateByProtocol(t *testing.T) {
	t.Parallel()

	prior := sampleAt("12345", "2024-05-10", "08:30")

	t.Run("resubmission is caught", func(t *testing.T) {
		t.Parallel()
		if !IsDuplicate(sampleAt("12345", "2024-05-10", "08:30"), []*SampleRecord{prior}) {
			t.Fatal("second submission of the same report must be a duplicate")
		}
	})

	t.Run("protocol match overrides every other field", func(t *testing.T) {
		t.Parallel()
		candidate := sampleAt("12345", "2024-06-20", "17:00")
		candidate.Parameters = map[string]float64{"K": 4.1}
		if !IsDuplicate(candidate, []*SampleRecord{prior}) {
			t.Fatal("a shared protocol id is authoritative")
		}
	})

	t.Run("different protocol on a different day is new", func(t *testing.T) {
		t.Parallel()
		if IsDuplicate(sampleAt("99999", "2024-05-11", "08:30"), []*SampleRecord{prior}) {
			t.Fatal("distinct reports must not collide")
		}
	})

	t.Run("empty protocols never match each other", func(t *testing.T) {
		t.Parallel()
		a := sampleAt("", "2024-05-10", "08:30")
		b := sampleAt("", "2024-06-20", "08:30")
		if IsDuplicate(a, []*SampleRecord{b}) {
			t.Fatal("empty ids carry no identity")
		}
	})
}

func TestDuplicateByDateProximity(t *testing.T) {
	t.Parallel()

	prior := sampleAt("", "2024-05-10", "08:30")

	cases := []struct {
		name  string
		clock string
		want  bool
	}{
		{"within tolerance", "09:00", true},
		{"just outside tolerance", "09:30", false},
		{"same day far apart", "20:00", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := IsDuplicate(sampleAt("", "2024-05-10", tc.clock), []*SampleRecord{prior})
			if got != tc.want {
				t.Fatalf("IsDuplicate at %s = %v, want %v", tc.clock, got, tc.want)
			}
		})
	}

	t.Run("different day is never proximate", func(t *testing.T) {
		t.Parallel()
		if IsDuplicate(sampleAt("", "2024-05-11", "08:30"), []*SampleRecord{prior}) {
			t.Fatal("proximity applies within one sample date only")
		}
	})

	t.Run("undated candidate is never a date duplicate", func(t *testing.T) {
		t.Parallel()
		if IsDuplicate(sampleAt("", "", ""), []*SampleRecord{prior}) {
			t.Fatal("no date means no proximity check")
		}
	})
}

func TestDuplicateToleranceOverride(t *testing.T) {
	t.Parallel()

	prior := sampleAt("", "2024-05-10", "08:30")
	candidate := sampleAt("", "2024-05-10", "11:00")

	wide := DuplicateDetector{Tolerance: 4 * time.Hour}
	if wide.Find(candidate, []*SampleRecord{prior}) == nil {
		t.Fatal("wider tolerance should merge the pair")
	}
	narrow := DuplicateDetector{Tolerance: time.Minute}
	if narrow.Find(candidate, []*SampleRecord{prior}) != nil {
		t.Fatal("narrow tolerance should keep the pair distinct")
	}
}

func TestDuplicateSkipsNilHistory(t *testing.T) {
	t.Parallel()

	history := []*SampleRecord{nil, sampleAt("12345", "2024-05-10", "08:30")}
	if !IsDuplicate(sampleAt("12345", "2024-05-10", "08:30"), history) {
		t.Fatal("nil entries must not mask a real duplicate")
	}
}
