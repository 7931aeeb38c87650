// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateRange(t *testing.T) {
	t.Parallel()

	r, err := ParseDateRange("", "")
	if err != nil || !r.IsZero() {
		t.Fatalf("expected open range, got %+v, %v", r, err)
	}

	r, err = ParseDateRange("2024-01-01", " 2024-06-30 ")
	if err != nil {
		t.Fatalf("ParseDateRange failed: %v", err)
	}
	if r.FromString() != "2024-01-01" || r.ToString() != "2024-06-30" {
		t.Fatalf("unexpected bounds: %q %q", r.FromString(), r.ToString())
	}

	if _, err := ParseDateRange("2024-07-01", "2024-06-30"); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
	if _, err := ParseDateRange("01/02/2024", ""); err == nil {
		t.Fatalf("expected error for bad date")
	}
}

func TestDateRangeContainsIsInclusive(t *testing.T) {
	t.Parallel()

	r, err := ParseDateRange("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("ParseDateRange failed: %v", err)
	}

	cases := []struct {
		at   time.Time
		want bool
	}{
		{at: date(2023, 12, 31), want: false},
		{at: date(2024, 1, 1), want: true},
		{at: time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC), want: true},
		{at: date(2024, 2, 1), want: false},
	}
	for _, tc := range cases {
		if got := r.Contains(tc.at); got != tc.want {
			t.Fatalf("Contains(%v) = %v, want %v", tc.at, got, tc.want)
		}
	}

	from := date(2024, 1, 15)
	open := DateRange{From: &from}
	if !open.Contains(date(2030, 1, 1)) || open.Contains(date(2024, 1, 14)) {
		t.Fatalf("unexpected open-ended range behaviour")
	}
}

func TestDateRangeFilter(t *testing.T) {
	t.Parallel()

	records := []GrowthRecord{
		{MeasuredOn: date(2024, 1, 1)},
		{MeasuredOn: date(2024, 2, 1)},
		{MeasuredOn: date(2024, 3, 1)},
	}

	r, _ := ParseDateRange("2024-01-15", "2024-03-01")
	got := r.Filter(records)
	if len(got) != 2 || !got[0].MeasuredOn.Equal(date(2024, 2, 1)) {
		t.Fatalf("unexpected filtered records: %+v", got)
	}

	if got := (DateRange{}).Filter(records); len(got) != 3 {
		t.Fatalf("expected open range to keep all records, got %d", len(got))
	}
}
