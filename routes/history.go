/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/humaidq/growthwave/db"
	"github.com/humaidq/growthwave/who"
)

// HistoryRow is one growth record together with its classification.
type HistoryRow struct {
	RecordID   uuid.UUID
	MeasuredOn time.Time
	AgeMonths  int
	WeightKg   float64
	HeightCm   float64
	BMI        float64
	Notes      *string
	Assessment who.Assessment
}

// CategoryClass returns the CSS modifier for the row's category.
func (r HistoryRow) CategoryClass() string {
	if !r.Assessment.Ready() {
		return "pending"
	}
	switch r.Assessment.Category {
	case who.Underweight:
		return "underweight"
	case who.Overweight:
		return "overweight"
	case who.Obese:
		return "obese"
	default:
		return "normal"
	}
}

// buildHistory classifies every record against table. Records are
// expected in measurement order.
func buildHistory(child *db.Child, records []db.GrowthRecord, table *who.ReferenceTable) []HistoryRow {
	rows := make([]HistoryRow, 0, len(records))
	for i := range records {
		rec := &records[i]
		m := rec.Measurement(child)
		rows = append(rows, HistoryRow{
			RecordID:   rec.ID,
			MeasuredOn: rec.MeasuredOn,
			AgeMonths:  m.AgeMonths,
			WeightKg:   rec.WeightKg,
			HeightCm:   rec.HeightCm,
			BMI:        who.RoundTo(m.BMI, 2),
			Notes:      rec.Notes,
			Assessment: table.Assess(m),
		})
	}
	return rows
}

var historyCSVHeader = []string{
	"measured_on", "age_months", "weight_kg", "height_cm", "bmi",
	"category", "range", "reference_median",
}

// writeHistoryCSV writes the history rows in the export format. Pending
// rows carry empty classification columns.
func writeHistoryCSV(w io.Writer, rows []HistoryRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(historyCSVHeader); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.MeasuredOn.Format("2006-01-02"),
			strconv.Itoa(row.AgeMonths),
			strconv.FormatFloat(row.WeightKg, 'f', -1, 64),
			strconv.FormatFloat(row.HeightCm, 'f', -1, 64),
			strconv.FormatFloat(row.BMI, 'f', 2, 64),
			"", "", "",
		}
		if row.Assessment.Ready() {
			record[5] = string(row.Assessment.Category)
			record[6] = row.Assessment.RangeLabel
			record[7] = strconv.FormatFloat(row.Assessment.ReferenceMedian, 'f', 2, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
