/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package who

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"
)

//go:embed data/bmi_for_age_median.csv
var standardCSV []byte

var (
	standardOnce  sync.Once
	standardRows  []PercentileRow
	standardTable *ReferenceTable
)

func loadStandard() {
	rows, rowErrs, err := ParseRowsCSV(bytes.NewReader(standardCSV))
	if err != nil || len(rowErrs) > 0 {
		panic(fmt.Sprintf("embedded WHO dataset is invalid: %v %v", err, rowErrs))
	}
	standardRows = rows
	standardTable = BuildReferenceTable(rows)
}

// StandardRows returns the embedded WHO BMI-for-age median rows.
func StandardRows() []PercentileRow {
	standardOnce.Do(loadStandard)
	out := make([]PercentileRow, len(standardRows))
	copy(out, standardRows)
	return out
}

// StandardTable returns the table built from the embedded dataset.
func StandardTable() *ReferenceTable {
	standardOnce.Do(loadStandard)
	return standardTable
}
