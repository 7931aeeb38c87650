/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package who

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// RowError describes an input row that was skipped while parsing.
type RowError struct {
	Index int // zero-based position in the input, header excluded
	Field string
	Err   error
}

func (e RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("row %d: %s: %v", e.Index, e.Field, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Accepted spellings for each field, in lookup order.
var (
	ageKeys        = []string{"ageMonth", "ageMonths", "age_month", "age_months", "age"}
	genderKeys     = []string{"gender", "sex"}
	percentileKeys = []string{"percentile", "percentileValue"}
	bmiKeys        = []string{"bmi", "bmiValue", "value"}
)

// ParseRowsJSON decodes a growth-standards payload. The payload is either
// a JSON array of rows or an object with the array under "data". Values
// may be numbers or numeric strings. Rows that cannot be read are skipped
// and reported; only a payload that is not JSON at all returns an error.
func ParseRowsJSON(r io.Reader) ([]PercentileRow, []RowError, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read growth standards: %w", err)
	}

	var raw []map[string]json.RawMessage

	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) == 0:
		return nil, nil, ErrMalformedPayload
	case trimmed[0] == '{':
		var envelope struct {
			Data []map[string]json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		raw = envelope.Data
	default:
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
	}

	rows := make([]PercentileRow, 0, len(raw))
	var rowErrs []RowError

	for i, fields := range raw {
		row, rowErr := rowFromJSON(fields)
		if rowErr != nil {
			rowErr.Index = i
			rowErrs = append(rowErrs, *rowErr)
			continue
		}
		rows = append(rows, row)
	}

	return rows, rowErrs, nil
}

func rowFromJSON(fields map[string]json.RawMessage) (PercentileRow, *RowError) {
	lookup := func(keys []string) (string, json.RawMessage, bool) {
		for _, k := range keys {
			if v, ok := fields[k]; ok {
				return k, v, true
			}
		}
		return keys[0], nil, false
	}

	var row PercentileRow

	key, rawAge, ok := lookup(ageKeys)
	if !ok {
		return row, &RowError{Field: key, Err: ErrMissingField}
	}
	age, err := jsonNumber(rawAge)
	if err != nil {
		return row, &RowError{Field: key, Err: err}
	}
	row.AgeMonths, err = wholeAge(age)
	if err != nil {
		return row, &RowError{Field: key, Err: err}
	}

	key, rawGender, ok := lookup(genderKeys)
	if !ok {
		return row, &RowError{Field: key, Err: ErrMissingField}
	}
	row.Gender, err = jsonGender(rawGender)
	if err != nil {
		return row, &RowError{Field: key, Err: err}
	}

	key, rawPercentile, ok := lookup(percentileKeys)
	if !ok {
		return row, &RowError{Field: key, Err: ErrMissingField}
	}
	row.Percentile, err = jsonNumber(rawPercentile)
	if err != nil {
		return row, &RowError{Field: key, Err: err}
	}

	key, rawBMI, ok := lookup(bmiKeys)
	if !ok {
		return row, &RowError{Field: key, Err: ErrMissingField}
	}
	row.BMI, err = jsonNumber(rawBMI)
	if err != nil {
		return row, &RowError{Field: key, Err: err}
	}
	if row.BMI <= 0 {
		return row, &RowError{Field: key, Err: ErrNonPositiveBMI}
	}

	return row, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func jsonNumber(raw json.RawMessage) (float64, error) {
	if isNull(raw) {
		return 0, ErrNonNumeric
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, ErrNonNumeric
	}
	return parseNumber(s)
}

func jsonGender(raw json.RawMessage) (Gender, error) {
	if isNull(raw) {
		return 0, ErrUnknownGender
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		code, err := wholeAge(n)
		if err != nil || !Gender(code).Valid() {
			return 0, ErrUnknownGender
		}
		return Gender(code), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, ErrUnknownGender
	}
	g, err := ParseGender(s)
	if err != nil {
		return 0, ErrUnknownGender
	}
	return g, nil
}

func parseNumber(s string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, ErrNonNumeric
	}
	return n, nil
}

func wholeAge(n float64) (int, error) {
	if n != math.Trunc(n) {
		return 0, ErrFractionalAge
	}
	if n < 0 {
		return 0, ErrNegativeAge
	}
	if n > MaxAgeMonths {
		return 0, ErrAgeOutOfRange
	}
	return int(n), nil
}

// CSVHeader is the column order written and expected by the CSV codec.
var CSVHeader = []string{"age_months", "gender", "percentile", "bmi"}

// ParseRowsCSV reads rows with the CSVHeader columns. Column order is
// taken from the header line. Lines starting with '#' are comments.
func ParseRowsCSV(r io.Reader) ([]PercentileRow, []RowError, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range CSVHeader {
		if _, ok := columns[name]; !ok {
			return nil, nil, fmt.Errorf("%w: csv column %q", ErrMissingField, name)
		}
	}

	var rows []PercentileRow
	var rowErrs []RowError

	for index := 0; ; index++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rows, rowErrs, fmt.Errorf("failed to read csv row %d: %w", index, err)
		}

		row, rowErr := rowFromCSV(record, columns)
		if rowErr != nil {
			rowErr.Index = index
			rowErrs = append(rowErrs, *rowErr)
			continue
		}
		rows = append(rows, row)
	}

	return rows, rowErrs, nil
}

func rowFromCSV(record []string, columns map[string]int) (PercentileRow, *RowError) {
	field := func(name string) (string, bool) {
		i := columns[name]
		if i >= len(record) {
			return "", false
		}
		return record[i], true
	}

	var row PercentileRow

	value, ok := field("age_months")
	if !ok {
		return row, &RowError{Field: "age_months", Err: ErrMissingField}
	}
	age, err := parseNumber(value)
	if err != nil {
		return row, &RowError{Field: "age_months", Err: err}
	}
	if row.AgeMonths, err = wholeAge(age); err != nil {
		return row, &RowError{Field: "age_months", Err: err}
	}

	value, ok = field("gender")
	if !ok {
		return row, &RowError{Field: "gender", Err: ErrMissingField}
	}
	if row.Gender, err = ParseGender(value); err != nil {
		return row, &RowError{Field: "gender", Err: ErrUnknownGender}
	}

	value, ok = field("percentile")
	if !ok {
		return row, &RowError{Field: "percentile", Err: ErrMissingField}
	}
	if row.Percentile, err = parseNumber(value); err != nil {
		return row, &RowError{Field: "percentile", Err: err}
	}

	value, ok = field("bmi")
	if !ok {
		return row, &RowError{Field: "bmi", Err: ErrMissingField}
	}
	if row.BMI, err = parseNumber(value); err != nil {
		return row, &RowError{Field: "bmi", Err: err}
	}
	if row.BMI <= 0 {
		return row, &RowError{Field: "bmi", Err: ErrNonPositiveBMI}
	}

	return row, nil
}

// WriteRowsCSV writes rows in CSVHeader order with numeric gender codes.
func WriteRowsCSV(w io.Writer, rows []PercentileRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.AgeMonths),
			strconv.Itoa(int(row.Gender)),
			strconv.FormatFloat(row.Percentile, 'f', -1, 64),
			strconv.FormatFloat(row.BMI, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
