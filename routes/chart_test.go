// SPDX-FileCopyrightText: 2026 Labwatch Authors
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"strings"
	"testing"
	"time"

	"github.com/icudata/labwatch/db"
	"github.com/icudata/labwatch/parse"
)

func TestRenderParameterChart(t *testing.T) {
	t.Parallel()

	spec, ok := parse.DefaultCatalog().Get("K")
	if !ok {
		t.Fatal("catalog is missing K")
	}

	base := time.Date(2024, time.May, 10, 8, 30, 0, 0, time.UTC)
	points := []db.ParameterPoint{
		{SampleAt: base, Value: 4.1},
		{SampleAt: base.Add(24 * time.Hour), Value: 4.4},
	}

	html, err := renderParameterChart(spec, points)
	if err != nil {
		t.Fatalf("renderParameterChart error: %v", err)
	}

	out := string(html)
	if !strings.Contains(out, "K (K)") && !strings.Contains(out, `"K"`) {
		t.Fatalf("rendered chart does not mention the parameter: %.200s", out)
	}
	if !strings.Contains(out, "4.1") || !strings.Contains(out, "4.4") {
		t.Fatal("rendered chart is missing series values")
	}
}
