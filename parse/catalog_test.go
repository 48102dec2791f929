// SPDX-FileCopyrightText: 2026 Labwatch Authors
// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"strings"
	"testing"
)

func TestDefaultCatalogInvariants(t *testing.T) {
	t.Parallel()

	catalog := DefaultCatalog()
	if catalog.Len() == 0 {
		t.Fatal("default catalog is empty")
	}

	seen := make(map[string]bool)
	for _, spec := range catalog.Specs() {
		if spec.Key == "" {
			t.Fatal("catalog contains an empty key")
		}
		if seen[spec.Key] {
			t.Fatalf("duplicate key %q", spec.Key)
		}
		seen[spec.Key] = true

		if spec.Name == nil {
			t.Fatalf("parameter %q has no matcher", spec.Key)
		}
		if r := spec.PlausibleRange; r != nil && r.Min >= r.Max {
			t.Fatalf("parameter %q has invalid range [%v, %v]", spec.Key, r.Min, r.Max)
		}
	}
}

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	t.Parallel()

	specs := []ParameterSpec{
		{Key: "Na", Name: MatchName(`\bSODIO\b`)},
		{Key: "Na", Name: MatchName(`\bNATREMIA\b`)},
	}
	if _, err := NewCatalog(specs); err == nil {
		t.Fatal("expected duplicate-key error")
	}
}

func TestNewCatalogRejectsInvalidRange(t *testing.T) {
	t.Parallel()

	specs := []ParameterSpec{
		{Key: "K", Name: MatchName(`\bPOTASIO\b`), PlausibleRange: &Range{Min: 10, Max: 1}},
	}
	if _, err := NewCatalog(specs); err == nil {
		t.Fatal("expected invalid-range error")
	}
}

func TestMatchNameIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	m := MatchName(`\bSODIO\b`)
	for _, text := range []string{"SODIO 140", "sodio 140", "Sodio 140"} {
		if _, _, ok := m.Find(text); !ok {
			t.Fatalf("expected match in %q", text)
		}
	}
}

func TestMatchNameGuardedSkipsExcludedContext(t *testing.T) {
	t.Parallel()

	m := MatchNameGuarded(`\bHEMOGLOBINA\b`, "", `\s*GLICOSILADA`)

	if _, _, ok := m.Find("HEMOGLOBINA GLICOSILADA 6.5"); ok {
		t.Fatal("guard should reject the glycated form")
	}

	text := "HEMOGLOBINA GLICOSILADA 6.5 ... HEMOGLOBINA 12.3"
	start, _, ok := m.Find(text)
	if !ok {
		t.Fatal("expected the later plain mention to match")
	}
	if !strings.HasPrefix(text[start:], "HEMOGLOBINA 12.3") {
		t.Fatalf("matched at %d, want the plain mention", start)
	}
}

func TestMatchNameGuardedPrecedingContext(t *testing.T) {
	t.Parallel()

	m := MatchNameGuarded(`\b(COLESTEROL\s+HDL|HDL)\b`, `\bNO\s*`, "")

	if _, _, ok := m.Find("COLESTEROL NO HDL 150"); ok {
		t.Fatal("guard should reject the non-HDL mention")
	}
	if _, _, ok := m.Find("COLESTEROL HDL 45"); !ok {
		t.Fatal("expected plain HDL to match")
	}
}
