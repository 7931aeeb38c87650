/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package who

// EstimatedSDRatio approximates one standard deviation as a fixed share of
// the median. This is not the WHO LMS method.
const EstimatedSDRatio = 0.1

// Z-score offsets for each threshold.
const (
	UnderweightZ = -2
	OverweightZ  = 2
	ObeseZ       = 3
)

// ZScoreBand holds the thresholds derived for one age and gender.
type ZScoreBand struct {
	Median      float64 `json:"median"`
	Underweight float64 `json:"underweight"`
	Overweight  float64 `json:"overweight"`
	Obese       float64 `json:"obese"`
}

// EstimatedSD returns the approximated standard deviation of the band.
func (b ZScoreBand) EstimatedSD() float64 {
	return b.Median * EstimatedSDRatio
}

// BandsForMedian derives the thresholds from a reference median.
func BandsForMedian(median float64) ZScoreBand {
	sd := median * EstimatedSDRatio
	return ZScoreBand{
		Median:      median,
		Underweight: median + UnderweightZ*sd,
		Overweight:  median + OverweightZ*sd,
		Obese:       median + ObeseZ*sd,
	}
}

// Bands returns the thresholds at ageMonths for g.
func (t *ReferenceTable) Bands(ageMonths int, g Gender) ZScoreBand {
	return BandsForMedian(t.Median(ageMonths, g))
}
