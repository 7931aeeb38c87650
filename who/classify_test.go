// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package who

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestBandsAtKnownAge(t *testing.T) {
	t.Parallel()

	band := sampleTable().Bands(24, Male)

	assertFloatClose(t, band.Median, 15.8)
	assertFloatClose(t, band.EstimatedSD(), 1.58)
	assertFloatClose(t, band.Underweight, 12.64)
	assertFloatClose(t, band.Overweight, 18.96)
	assertFloatClose(t, band.Obese, 20.54)
}

func TestBandsAreOrdered(t *testing.T) {
	t.Parallel()

	table := StandardTable()
	for _, g := range Genders {
		for age := 0; age <= 72; age++ {
			b := table.Bands(age, g)
			if !(b.Underweight < b.Median && b.Median < b.Overweight && b.Overweight < b.Obese) {
				t.Fatalf("bands out of order for %s at %d: %+v", g, age, b)
			}
		}
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	table := sampleTable()

	tests := []struct {
		name  string
		bmi   float64
		want  Category
		label string
	}{
		{name: "overweight", bmi: 20.0, want: Overweight, label: "19.0-20.5"},
		{name: "obese", bmi: 23.0, want: Obese, label: "≥ 20.5"},
		{name: "normal", bmi: 15.8, want: Normal, label: "12.6-19.0"},
		{name: "underweight", bmi: 12.0, want: Underweight, label: "< 12.6"},
		{name: "zero bmi", bmi: 0, want: Underweight, label: "< 12.6"},
		{name: "negative bmi", bmi: -4, want: Underweight, label: "< 12.6"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := table.Classify(Measurement{AgeMonths: 24, Gender: Male, BMI: tc.bmi})
			if got.Category != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got.Category)
			}
			if got.RangeLabel != tc.label {
				t.Fatalf("expected label %q, got %q", tc.label, got.RangeLabel)
			}
			assertFloatClose(t, got.ReferenceMedian, 15.8)
		})
	}
}

func TestClassifyOverweightBoundaryIsInclusive(t *testing.T) {
	t.Parallel()

	band := BandsForMedian(15.8)
	got := ClassifyBand(band.Overweight, band)
	if got.Category != Overweight {
		t.Fatalf("expected Overweight at the threshold, got %s", got.Category)
	}

	got = ClassifyBand(band.Underweight, band)
	if got.Category != Normal {
		t.Fatalf("expected Normal at the underweight threshold, got %s", got.Category)
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	t.Parallel()

	table := StandardTable()
	m := Measurement{AgeMonths: 17, Gender: Female, BMI: 18.2}

	first := table.Classify(m)
	second := table.Classify(m)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("classification changed between calls (-first +second):\n%s", diff)
	}
}

func TestClassifyEmptyTableIsUnderweight(t *testing.T) {
	t.Parallel()

	table := BuildReferenceTable(nil)

	for _, bmi := range []float64{0.5, 15, 40} {
		got := table.Classify(Measurement{AgeMonths: 12, Gender: Male, BMI: bmi})
		if got.Category != Underweight {
			t.Fatalf("expected Underweight for %v with empty table, got %s", bmi, got.Category)
		}
		if got.ReferenceMedian != 0 {
			t.Fatalf("expected zero median, got %v", got.ReferenceMedian)
		}
	}
}

func TestAssessPendingWithoutData(t *testing.T) {
	t.Parallel()

	table := sampleTable()

	pending := table.Assess(Measurement{AgeMonths: 12, Gender: Female, BMI: 16})
	if pending.Ready() {
		t.Fatalf("expected pending assessment for a gender with no data")
	}
	if diff := cmp.Diff(Classification{}, pending.Classification); diff != "" {
		t.Fatalf("expected empty classification (-want +got):\n%s", diff)
	}

	ready := table.Assess(Measurement{AgeMonths: 24, Gender: Male, BMI: 20})
	if !ready.Ready() {
		t.Fatalf("expected ready assessment")
	}

	want := Classification{
		Category:        Overweight,
		ReferenceMedian: 15.8,
		RangeLabel:      "19.0-20.5",
		Band:            ZScoreBand{Median: 15.8, Underweight: 12.64, Overweight: 18.96, Obese: 20.54},
	}
	if diff := cmp.Diff(want, ready.Classification, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("unexpected classification (-want +got):\n%s", diff)
	}
}
