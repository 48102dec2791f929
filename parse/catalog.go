/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package parse

import (
	"fmt"
	"regexp"
)

// NameMatcher locates the first usable mention of a parameter name inside
// report text. Implementations must be safe for concurrent use.
type NameMatcher interface {
	// Find returns the byte offsets of the first match, or ok=false.
	Find(text string) (start, end int, ok bool)
}

// Guard context windows, in bytes around a candidate match.
const (
	guardBeforeWindow = 20
	guardAfterWindow  = 40
)

type regexpMatcher struct {
	re *regexp.Regexp
	// notBefore rejects a match whose preceding text matches (anchored at
	// its end); notAfter rejects on the following text (anchored at its
	// start). Either may be nil. Rejected matches are skipped and the
	// scan continues, so "COLESTEROL NO HDL" does not shadow a later
	// standalone "COLESTEROL HDL".
	notBefore *regexp.Regexp
	notAfter  *regexp.Regexp
}

func (m regexpMatcher) Find(text string) (int, int, bool) {
	offset := 0
	for offset <= len(text) {
		loc := m.re.FindStringIndex(text[offset:])
		if loc == nil {
			return 0, 0, false
		}
		start, end := offset+loc[0], offset+loc[1]

		if m.rejected(text, start, end) {
			offset = end
			continue
		}
		return start, end, true
	}
	return 0, 0, false
}

func (m regexpMatcher) rejected(text string, start, end int) bool {
	if m.notBefore != nil {
		from := start - guardBeforeWindow
		if from < 0 {
			from = 0
		}
		if m.notBefore.MatchString(text[from:start]) {
			return true
		}
	}
	if m.notAfter != nil {
		to := end + guardAfterWindow
		if to > len(text) {
			to = len(text)
		}
		if m.notAfter.MatchString(text[end:to]) {
			return true
		}
	}
	return false
}

// MatchName compiles a case-insensitive name pattern into a NameMatcher.
// Patterns list the known names, abbreviations and synonyms of one
// parameter, e.g. `\b(NA|SODIO|NATREMIA)\b`.
func MatchName(pattern string) NameMatcher {
	return regexpMatcher{re: regexp.MustCompile(`(?i)` + pattern)}
}

// MatchNameGuarded is MatchName with context guards. A match is skipped when
// notBefore matches the end of the preceding text or notAfter matches the
// start of the following text. Guards substitute for the lookaround the
// regexp engine does not provide ("HEMOGLOBINA" but not "HEMOGLOBINA
// GLICOSILADA"). Empty guard patterns are ignored.
func MatchNameGuarded(pattern, notBefore, notAfter string) NameMatcher {
	m := regexpMatcher{re: regexp.MustCompile(`(?i)` + pattern)}
	if notBefore != "" {
		m.notBefore = regexp.MustCompile(`(?i)` + notBefore + `$`)
	}
	if notAfter != "" {
		m.notAfter = regexp.MustCompile(`(?i)^` + notAfter)
	}
	return m
}

// Range holds inclusive plausibility bounds for a parameter value. Values
// outside the range are treated as mis-captures (years, page numbers,
// reference-range boundaries) and skipped.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v falls within the inclusive bounds.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// ParameterSpec describes one recognized clinical parameter.
type ParameterSpec struct {
	// Key is the stable identifier used in records and exports.
	Key string
	// Name matches the parameter's known names and synonyms in source text.
	Name NameMatcher
	// Unit is the canonical unit string; empty for dimensionless values.
	Unit string
	// Abbreviation is the short label used in compact export output.
	Abbreviation string
	// PlausibleRange, when non-nil, rejects spurious numeric matches.
	PlausibleRange *Range
}

// Catalog is an immutable table of recognized parameters. Build it once at
// startup and share it freely; it is never mutated after construction.
type Catalog struct {
	specs []ParameterSpec
	byKey map[string]int
}

// NewCatalog validates the specs and builds a catalog. Keys must be unique
// and plausible ranges must satisfy min < max.
func NewCatalog(specs []ParameterSpec) (*Catalog, error) {
	byKey := make(map[string]int, len(specs))
	for i, spec := range specs {
		if spec.Key == "" {
			return nil, fmt.Errorf("parameter at index %d has empty key", i)
		}
		if _, exists := byKey[spec.Key]; exists {
			return nil, fmt.Errorf("duplicate parameter key %q", spec.Key)
		}
		if spec.Name == nil {
			return nil, fmt.Errorf("parameter %q has no name matcher", spec.Key)
		}
		if r := spec.PlausibleRange; r != nil && r.Min >= r.Max {
			return nil, fmt.Errorf("parameter %q has invalid range [%v, %v]", spec.Key, r.Min, r.Max)
		}
		byKey[spec.Key] = i
	}
	return &Catalog{specs: specs, byKey: byKey}, nil
}

// Specs returns the parameters in catalog order. Callers must not modify
// the returned slice.
func (c *Catalog) Specs() []ParameterSpec {
	return c.specs
}

// Get returns the spec for a key.
func (c *Catalog) Get(key string) (ParameterSpec, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return ParameterSpec{}, false
	}
	return c.specs[i], true
}

// Len returns the number of parameters in the catalog.
func (c *Catalog) Len() int {
	return len(c.specs)
}

func rangePtr(min, max float64) *Range {
	return &Range{Min: min, Max: max}
}

// DefaultCatalog returns the authoritative parameter table for Spanish-language
// ICU laboratory reports. Order matters: compact export lines follow it.
//
// Synonym patterns tolerate vendor wording differences and OCR noise;
// plausibility bounds are deliberately wide so only gross mis-captures such
// as 4-digit years are rejected.
func DefaultCatalog() *Catalog {
	specs := []ParameterSpec{
		// Hematology
		{Key: "Hemoglobina", Name: MatchNameGuarded(`\b(HEMOGLOBINA(?:\s+EN\s+SANGRE)?|HGB|HEMOG)\b`, "", `\s*GLICOSILADA`), Unit: "g/dl", Abbreviation: "Hb", PlausibleRange: rangePtr(3, 25)},
		{Key: "Hematocrito", Name: MatchName(`\b(HEMATOCRITO|HCT|HTO)\b`), Unit: "%", Abbreviation: "Hto", PlausibleRange: rangePtr(10, 70)},
		{Key: "Plaquetas", Name: MatchName(`\b(RECUENTO\s+DE\s+PLAQUETAS|PLAQUETAS|PLT)\b`), Unit: "×10³/μl", Abbreviation: "Plaq", PlausibleRange: rangePtr(1, 2000)},
		{Key: "Leucocitos", Name: MatchName(`\b(LEUCOCITOS|GLOBULOS\s+BLANCOS|GB)\b`), Unit: "×10³/μl", Abbreviation: "GB", PlausibleRange: rangePtr(0.1, 200)},

		// Metabolic / renal
		{Key: "Glucosa", Name: MatchName(`\b(GLUCOSA(?:\s+EN\s+SANGRE)?|GLUCEMIA|GLICEMIA)\b`), Unit: "mg/dl", Abbreviation: "Glu", PlausibleRange: rangePtr(10, 1500)},
		{Key: "HbA1c", Name: MatchName(`\b(HEMOGLOBINA\s+GLICOSILADA|HBA1C)\b`), Unit: "%", Abbreviation: "HbA1c", PlausibleRange: rangePtr(3, 20)},
		{Key: "Urea", Name: MatchName(`\b(UREA(?:\s+EN\s+SANGRE)?|UREMIA)\b`), Unit: "mg/dl", Abbreviation: "Urea", PlausibleRange: rangePtr(2, 500)},
		{Key: "Creatinina", Name: MatchNameGuarded(`\b(CREATININA(?:\s+EN\s+SANGRE)?|CREA)\b`, "", `\s*(?:EN\s+)?ORINA`), Unit: "mg/dl", Abbreviation: "Cr", PlausibleRange: rangePtr(0.1, 30)},
		{Key: "AcidoUrico", Name: MatchName(`\b(ACIDO\s+URICO(?:\s+EN\s+SANGRE)?|URICEMIA)\b`), Unit: "mg/dl", Abbreviation: "AU", PlausibleRange: rangePtr(0.5, 25)},

		// Electrolytes
		{Key: "Na", Name: MatchName(`\b(SODIO|NATREMIA|NA)\b`), Unit: "mEq/l", Abbreviation: "Na", PlausibleRange: rangePtr(100, 200)},
		{Key: "K", Name: MatchName(`\b(POTASIO|KALEMIA|K)\b`), Unit: "mEq/l", Abbreviation: "K", PlausibleRange: rangePtr(1, 10)},
		{Key: "Cl", Name: MatchName(`\b(CLORO|CLOREMIA|CL)\b`), Unit: "mEq/l", Abbreviation: "Cl", PlausibleRange: rangePtr(60, 140)},
		{Key: "Magnesio", Name: MatchName(`\b(MAGNESIO(?:\s+EN\s+SANGRE)?|MAGNESEMIA)\b`), Unit: "mg/dl", Abbreviation: "Mg", PlausibleRange: rangePtr(0.3, 10)},
		{Key: "Calcio", Name: MatchName(`\b(CALCEMIA\s+TOTAL|CALCIO(?:\s+EN\s+SANGRE|\s+TOTAL)?)\b`), Unit: "mg/dl", Abbreviation: "Ca", PlausibleRange: rangePtr(3, 20)},
		{Key: "Fosfato", Name: MatchName(`\b(FOSFATO|FOSFORO\s+INORGANICO|FOSFATEMIA)\b`), Unit: "mg/dl", Abbreviation: "P", PlausibleRange: rangePtr(0.5, 15)},

		// Lipid panel
		{Key: "ColesterolTotal", Name: MatchName(`\bCOLESTEROL\s+TOTAL\b`), Unit: "mg/dl", Abbreviation: "CT", PlausibleRange: rangePtr(50, 600)},
		{Key: "LDL", Name: MatchName(`\b(COLESTEROL\s+LDL|LDL)\b`), Unit: "mg/dl", Abbreviation: "LDL", PlausibleRange: rangePtr(10, 400)},
		{Key: "HDL", Name: MatchNameGuarded(`\b(COLESTEROL\s+HDL|HDL)\b`, `\bNO\s*`, ""), Unit: "mg/dl", Abbreviation: "HDL", PlausibleRange: rangePtr(10, 150)},
		{Key: "ColesterolNoHDL", Name: MatchName(`\b(COLESTEROL\s+NO\s+HDL|NO\s+HDL)\b`), Unit: "mg/dl", Abbreviation: "noHDL", PlausibleRange: rangePtr(10, 500)},
		{Key: "Trigliceridos", Name: MatchName(`\b(TRIGLICERIDOS|TGL)\b`), Unit: "mg/dl", Abbreviation: "TG", PlausibleRange: rangePtr(20, 3000)},

		// Liver
		{Key: "BilirrubinaTotal", Name: MatchName(`\b(BILIRRUBINA\s+TOTAL|BT)\b`), Unit: "mg/dl", Abbreviation: "BT", PlausibleRange: rangePtr(0.05, 50)},
		{Key: "BilirrubinaDirecta", Name: MatchName(`\b(BILIRRUBINA\s+DIRECTA|BD)\b`), Unit: "mg/dl", Abbreviation: "BD", PlausibleRange: rangePtr(0.01, 40)},
		{Key: "AST", Name: MatchName(`\b(ASPARTATO\s+AMINOTRANSFERASA|ASAT|GOT|TGO|AST)\b`), Unit: "UI/l", Abbreviation: "AST", PlausibleRange: rangePtr(2, 10000)},
		{Key: "ALT", Name: MatchName(`\b(ALANINA\s+AMINOTRANSFERASA|ALAT|GPT|TGP|ALT)\b`), Unit: "UI/l", Abbreviation: "ALT", PlausibleRange: rangePtr(2, 10000)},
		{Key: "FosfatasaAlcalina", Name: MatchName(`\b(FOSFATASA\s+ALCALINA|FAL)\b`), Unit: "UI/l", Abbreviation: "FA", PlausibleRange: rangePtr(10, 3000)},
		{Key: "GGT", Name: MatchName(`\b(GAMMA\s*GLUTAMIL\s*TRANSFERASA|GGT)\b`), Unit: "UI/l", Abbreviation: "GGT", PlausibleRange: rangePtr(2, 3000)},
		{Key: "ProteinasTotales", Name: MatchName(`\bPROTEINAS\s+TOTALES\b`), Unit: "g/dl", Abbreviation: "ProtT", PlausibleRange: rangePtr(2, 12)},
		{Key: "Albumina", Name: MatchNameGuarded(`\b(ALBUMINA|ALBUMINEMIA)\b`, "", `\s*(?:EN\s+)?ORINA`), Unit: "g/dl", Abbreviation: "Alb", PlausibleRange: rangePtr(0.5, 7)},

		// Muscle / cardiac
		{Key: "CPK", Name: MatchNameGuarded(`\b(CREATINQUINASA|CREATIN\s*KINASA|CPK)\b`, "", `[\s.-]*MB\b`), Unit: "UI/l", Abbreviation: "CPK", PlausibleRange: rangePtr(5, 100000)},
		{Key: "CPKMB", Name: MatchName(`\b(CPK[\s.-]?MB|CREATINQUINASA\s+MB)\b`), Unit: "UI/l", Abbreviation: "CPK-MB", PlausibleRange: rangePtr(1, 5000)},
		{Key: "LDH", Name: MatchName(`\b(LACTATO\s+DESHIDROGENASA|LDH)\b`), Unit: "UI/l", Abbreviation: "LDH", PlausibleRange: rangePtr(50, 20000)},
		{Key: "Troponina", Name: MatchName(`\bTROPONINA(?:\s+ULTRASENSIBLE)?\b`), Unit: "ng/l", Abbreviation: "Tn", PlausibleRange: rangePtr(0.001, 100000)},
		{Key: "NTproBNP", Name: MatchName(`\bNT[\s.-]?PRO[\s.-]?BNP\b`), Unit: "pg/ml", Abbreviation: "proBNP", PlausibleRange: rangePtr(1, 100000)},

		// Inflammation / sepsis
		{Key: "PCR", Name: MatchName(`\b(PROTEINA\s+C\s+REACTIVA|PCR)\b`), Unit: "mg/l", Abbreviation: "PCR", PlausibleRange: rangePtr(0.01, 1000)},
		{Key: "Procalcitonina", Name: MatchName(`\b(PROCALCITONINA|PCT)\b`), Unit: "ng/ml", Abbreviation: "PCT", PlausibleRange: rangePtr(0.01, 1000)},
		{Key: "Ferritina", Name: MatchName(`\bFERRITINA\b`), Unit: "ng/ml", Abbreviation: "Ferr", PlausibleRange: rangePtr(1, 100000)},
		{Key: "Lactato", Name: MatchNameGuarded(`\bLACTATO\b`, "", `\s*DESHIDROGENASA`), Unit: "mmol/l", Abbreviation: "Lac", PlausibleRange: rangePtr(0.1, 30)},

		// Coagulation
		{Key: "INR", Name: MatchName(`\bINR\b`), Unit: "", Abbreviation: "INR", PlausibleRange: rangePtr(0.5, 20)},
		{Key: "TP", Name: MatchName(`\b(TIEMPO\s+DE\s+PROTROMBINA|TP)\b`), Unit: "%", Abbreviation: "TP", PlausibleRange: rangePtr(5, 150)},
		{Key: "TTPa", Name: MatchName(`\b(TIEMPO\s+DE\s+TROMBOPLASTINA\s+PARCIAL\s+ACTIVADO|TTPA|KPTT)\b`), Unit: "s", Abbreviation: "TTPa", PlausibleRange: rangePtr(10, 300)},
		{Key: "Fibrinogeno", Name: MatchName(`\bFIBRINOGENO\b`), Unit: "mg/dl", Abbreviation: "Fib", PlausibleRange: rangePtr(30, 2000)},
		{Key: "DDimero", Name: MatchName(`\bD[\s.-]?DIMERO\b`), Unit: "ng/ml", Abbreviation: "DD", PlausibleRange: rangePtr(10, 100000)},

		// Pancreatic
		{Key: "Amilasa", Name: MatchName(`\b(AMILASA|AMILASEMIA)\b`), Unit: "UI/l", Abbreviation: "Ami", PlausibleRange: rangePtr(5, 10000)},
		{Key: "Lipasa", Name: MatchName(`\bLIPASA\b`), Unit: "UI/l", Abbreviation: "Lip", PlausibleRange: rangePtr(5, 10000)},

		// Thyroid
		{Key: "TSH", Name: MatchName(`\b(TIROTROFINA|TSH)\b`), Unit: "μUI/ml", Abbreviation: "TSH", PlausibleRange: rangePtr(0.001, 150)},
	}

	catalog, err := NewCatalog(specs)
	if err != nil {
		// The default table is static; a constraint violation here is a
		// programming error, not an input condition.
		panic(err)
	}
	return catalog
}
