// SPDX-FileCopyrightText: 2026 Labwatch Authors
// SPDX-License-Identifier: Apache-2.0

package db

import "testing"

func TestCanonicalPatientName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Juana Perez", "JUANA PEREZ"},
		{"  JUANA   PEREZ ", "JUANA PEREZ"},
		{"maría núñez", "MARÍA NÚÑEZ"},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := canonicalPatientName(tc.in); got != tc.want {
			t.Errorf("canonicalPatientName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
