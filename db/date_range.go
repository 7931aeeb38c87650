/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DateRange limits growth records to measurement dates between From and
// To, both inclusive. A nil bound is open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// ParseDateRange parses optional YYYY-MM-DD bounds.
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange

	if from = strings.TrimSpace(from); from != "" {
		parsed, err := time.Parse(dateLayout, from)
		if err != nil {
			return r, fmt.Errorf("invalid start date %q: %w", from, err)
		}
		r.From = &parsed
	}

	if to = strings.TrimSpace(to); to != "" {
		parsed, err := time.Parse(dateLayout, to)
		if err != nil {
			return r, fmt.Errorf("invalid end date %q: %w", to, err)
		}
		r.To = &parsed
	}

	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return r, ErrInvalidDateRange
	}

	return r, nil
}

// IsZero reports whether the range has no bounds.
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// Contains reports whether the calendar day of t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if r.From != nil && day.Before(dateOnly(*r.From)) {
		return false
	}
	if r.To != nil && day.After(dateOnly(*r.To)) {
		return false
	}
	return true
}

// Filter returns the records whose measurement date is inside the range.
func (r DateRange) Filter(records []GrowthRecord) []GrowthRecord {
	if r.IsZero() {
		return records
	}
	out := make([]GrowthRecord, 0, len(records))
	for _, rec := range records {
		if r.Contains(rec.MeasuredOn) {
			out = append(out, rec)
		}
	}
	return out
}

// FromString formats the start bound for form fields.
func (r DateRange) FromString() string {
	if r.From == nil {
		return ""
	}
	return r.From.Format(dateLayout)
}

// ToString formats the end bound for form fields.
func (r DateRange) ToString() string {
	if r.To == nil {
		return ""
	}
	return r.To.Format(dateLayout)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
