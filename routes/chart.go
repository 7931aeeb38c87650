/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/humaidq/growthwave/who"
)

const bmiSeriesName = "BMI"

// thresholdSeries describes one reference line drawn under the BMI series.
type thresholdSeries struct {
	name  string
	color string
	value func(who.ZScoreBand) float64
}

var bmiThresholds = []thresholdSeries{
	{name: "Median", color: "rgba(128, 128, 128, 0.8)", value: func(b who.ZScoreBand) float64 { return b.Median }},
	{name: "Underweight (-2 SD)", color: "rgba(52, 152, 219, 0.7)", value: func(b who.ZScoreBand) float64 { return b.Underweight }},
	{name: "Overweight (+2 SD)", color: "rgba(230, 126, 34, 0.7)", value: func(b who.ZScoreBand) float64 { return b.Overweight }},
	{name: "Obese (+3 SD)", color: "rgba(192, 57, 43, 0.7)", value: func(b who.ZScoreBand) float64 { return b.Obese }},
}

// generateBMIChart renders the BMI history with the WHO threshold lines at
// each measurement's age. Threshold lines are omitted while the reference
// is pending.
func generateBMIChart(title string, rows []HistoryRow) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}

	xAxis := make([]string, 0, len(rows))
	bmiData := make([]opts.LineData, 0, len(rows))
	ready := true

	dataMin, dataMax := rows[0].BMI, rows[0].BMI
	for _, row := range rows {
		xAxis = append(xAxis, row.MeasuredOn.Format("Jan 2, 2006"))
		bmiData = append(bmiData, opts.LineData{Value: row.BMI, Name: string(row.Assessment.Category)})

		if row.BMI < dataMin {
			dataMin = row.BMI
		}
		if row.BMI > dataMax {
			dataMax = row.BMI
		}
		if !row.Assessment.Ready() {
			ready = false
		}
	}

	if ready {
		for _, row := range rows {
			if row.Assessment.Band.Underweight < dataMin {
				dataMin = row.Assessment.Band.Underweight
			}
			if row.Assessment.Band.Obese > dataMax {
				dataMax = row.Assessment.Band.Obese
			}
		}
	}

	padding := (dataMax - dataMin) * 0.1
	if padding == 0 {
		padding = 1
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "BMI-for-age against the WHO median",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(ready),
			Top:  "bottom",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "kg/m²",
			Min:  who.RoundTo(dataMin-padding, 1),
			Max:  who.RoundTo(dataMax+padding, 1),
		}),
	)

	line.SetXAxis(xAxis).
		AddSeries(bmiSeriesName, bmiData,
			charts.WithLineChartOpts(opts.LineChart{
				Smooth:     opts.Bool(true),
				ShowSymbol: opts.Bool(true),
			}),
			charts.WithMarkPointNameTypeItemOpts(
				opts.MarkPointNameTypeItem{Name: "Max", Type: "max"},
				opts.MarkPointNameTypeItem{Name: "Min", Type: "min"},
			),
		)

	if ready {
		for _, threshold := range bmiThresholds {
			data := make([]opts.LineData, 0, len(rows))
			for _, row := range rows {
				data = append(data, opts.LineData{Value: who.RoundTo(threshold.value(row.Assessment.Band), 2)})
			}

			line.AddSeries(threshold.name, data,
				charts.WithLineChartOpts(opts.LineChart{
					ShowSymbol: opts.Bool(false),
				}),
				charts.WithLineStyleOpts(opts.LineStyle{
					Color: threshold.color,
					Type:  "dashed",
					Width: 1.5,
				}),
			)
		}
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}
