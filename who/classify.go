/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package who

import "fmt"

// Category is the BMI-for-age classification label.
type Category string

// Category values, from lowest to highest BMI.
const (
	Underweight Category = "Underweight"
	Normal      Category = "Normal"
	Overweight  Category = "Overweight"
	Obese       Category = "Obese"
)

// Measurement is the subject being classified.
type Measurement struct {
	AgeMonths int     `json:"age_months"`
	Gender    Gender  `json:"gender"`
	BMI       float64 `json:"bmi"`
}

// Classification is the outcome of classifying one measurement.
type Classification struct {
	Category        Category   `json:"category"`
	ReferenceMedian float64    `json:"reference_median"`
	RangeLabel      string     `json:"range_label"`
	Band            ZScoreBand `json:"band"`
}

// Status tells whether an Assessment carries a classification.
type Status string

// Assessment statuses.
const (
	StatusReady   Status = "ready"
	StatusPending Status = "pending"
)

// Assessment is a classification that is only meaningful when Status is
// StatusReady. A pending assessment means no reference data is loaded for
// the measurement's gender.
type Assessment struct {
	Status         Status `json:"status"`
	Classification `json:"classification"`
}

// Ready reports whether the assessment was classified.
func (a Assessment) Ready() bool {
	return a.Status == StatusReady
}

// ClassifyBand maps a BMI onto the thresholds of band. The checks run in
// a fixed order: underweight, obese, overweight, then normal. A band with
// no positive median (no reference data) always yields Underweight.
func ClassifyBand(bmi float64, band ZScoreBand) Classification {
	var category Category

	switch {
	case band.Median <= 0:
		category = Underweight
	case bmi < band.Underweight:
		category = Underweight
	case bmi >= band.Obese:
		category = Obese
	case bmi >= band.Overweight:
		category = Overweight
	default:
		category = Normal
	}

	return Classification{
		Category:        category,
		ReferenceMedian: band.Median,
		RangeLabel:      RangeLabel(category, band),
		Band:            band,
	}
}

// RangeLabel renders the BMI range that category covers in band.
func RangeLabel(category Category, band ZScoreBand) string {
	switch category {
	case Underweight:
		return fmt.Sprintf("< %.1f", band.Underweight)
	case Overweight:
		return fmt.Sprintf("%.1f-%.1f", band.Overweight, band.Obese)
	case Obese:
		return fmt.Sprintf("≥ %.1f", band.Obese)
	default:
		return fmt.Sprintf("%.1f-%.1f", band.Underweight, band.Overweight)
	}
}

// Classify maps m onto the table's thresholds. With no data for m.Gender
// the median is 0 and every BMI above zero comes back Underweight; use
// Assess to tell that case apart.
func (t *ReferenceTable) Classify(m Measurement) Classification {
	return ClassifyBand(m.BMI, t.Bands(m.AgeMonths, m.Gender))
}

// Assess is Classify with an explicit pending result when the table has
// no points for the measurement's gender.
func (t *ReferenceTable) Assess(m Measurement) Assessment {
	if !t.Ready(m.Gender) {
		return Assessment{Status: StatusPending}
	}
	return Assessment{Status: StatusReady, Classification: t.Classify(m)}
}
