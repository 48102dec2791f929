/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"
	"errors"
	"log"
	"net/http"

	"github.com/flamego/flamego"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/icudata/labwatch/db"
	"github.com/icudata/labwatch/parse"
)

// ParameterChart serves a rendered trend chart for one parameter of a
// patient.
func ParameterChart(c flamego.Context) {
	ctx := c.Request().Context()
	patientID := c.Param("id")
	key := c.Param("key")
	if !validID(patientID) {
		c.ResponseWriter().WriteHeader(http.StatusNotFound)
		return
	}

	spec, ok := parse.DefaultCatalog().Get(key)
	if !ok {
		c.ResponseWriter().WriteHeader(http.StatusNotFound)
		return
	}

	if _, err := db.GetPatient(ctx, patientID); err != nil {
		if errors.Is(err, db.ErrPatientNotFound) {
			c.ResponseWriter().WriteHeader(http.StatusNotFound)
			return
		}
		log.Printf("Error fetching patient: %v", err)
		c.ResponseWriter().WriteHeader(http.StatusInternalServerError)
		return
	}

	points, err := db.GetParameterSeries(ctx, patientID, key)
	if err != nil {
		log.Printf("Error fetching parameter series: %v", err)
		c.ResponseWriter().WriteHeader(http.StatusInternalServerError)
		return
	}

	html, err := renderParameterChart(spec, points)
	if err != nil {
		log.Printf("Error rendering chart: %v", err)
		c.ResponseWriter().WriteHeader(http.StatusInternalServerError)
		return
	}

	c.ResponseWriter().Header().Set("Content-Type", "text/html; charset=utf-8")
	c.ResponseWriter().Write(html)
}

// renderParameterChart draws one parameter's series as a line chart.
func renderParameterChart(spec parse.ParameterSpec, points []db.ParameterPoint) ([]byte, error) {
	title := spec.Key
	if spec.Abbreviation != "" && spec.Abbreviation != spec.Key {
		title = spec.Key + " (" + spec.Abbreviation + ")"
	}

	xAxis := make([]string, 0, len(points))
	yData := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		xAxis = append(xAxis, p.SampleAt.Format("02/01 15:04"))
		yData = append(yData, opts.LineData{Value: p.Value})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: spec.Unit,
		}),
	)

	line.SetXAxis(xAxis).
		AddSeries(spec.Key, yData).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{
				Smooth:     opts.Bool(true),
				ShowSymbol: opts.Bool(true),
			}),
			charts.WithMarkPointNameTypeItemOpts(
				opts.MarkPointNameTypeItem{Name: "Max", Type: "max"},
				opts.MarkPointNameTypeItem{Name: "Min", Type: "min"},
			),
		)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
