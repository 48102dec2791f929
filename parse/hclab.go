/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package parse

import (
	"math"
	"strconv"
	"strings"
)

// CompactLine renders a record as the single-line summary pasted into the
// clinical history system: abbreviated parameter names with values, in
// catalog order ("Hb 10.2, Hto 31, Na 140, K 4.1").
func CompactLine(record *SampleRecord, catalog *Catalog) string {
	parts := make([]string, 0, len(record.Parameters))
	for _, spec := range catalog.Specs() {
		v, ok := record.Parameters[spec.Key]
		if !ok {
			continue
		}
		label := spec.Abbreviation
		if label == "" {
			label = spec.Key
		}
		parts = append(parts, label+" "+FormatValue(v))
	}
	return strings.Join(parts, ", ")
}

// FormatValue renders a result value the way clinicians write them: two
// decimals under 10, one decimal under 100, integers bare.
func FormatValue(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	prec := 1
	if math.Abs(v) < 10 {
		prec = 2
	}
	s := strconv.FormatFloat(v, 'f', prec, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
