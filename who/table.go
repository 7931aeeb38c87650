/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package who

import (
	"math"
	"sort"
)

// MedianPercentile is the only percentile the loader keeps.
const MedianPercentile = 50

// PercentileRow is a single WHO BMI-for-age row as delivered by the
// growth-standards endpoint.
type PercentileRow struct {
	AgeMonths  int     `json:"age_months"`
	Gender     Gender  `json:"gender"`
	Percentile float64 `json:"percentile"`
	BMI        float64 `json:"bmi"`
}

// ReferencePoint is a median BMI for one age and gender.
type ReferencePoint struct {
	AgeMonths int     `json:"age_months"`
	Gender    Gender  `json:"gender"`
	MedianBMI float64 `json:"median_bmi"`
}

type genderTable struct {
	ages    []int
	medians map[int]float64
}

// ReferenceTable holds the median BMI per age for each gender. It is never
// modified after construction, so a single table can be shared between
// goroutines. Refreshing the data means building a new table.
type ReferenceTable struct {
	byGender map[Gender]*genderTable
}

// BuildReferenceTable keeps the 50th percentile rows and indexes them by
// gender and age. Rows with any other percentile are ignored, as are rows
// that cannot describe a valid point. When two rows share a gender and
// age the later one wins.
func BuildReferenceTable(rows []PercentileRow) *ReferenceTable {
	points := make([]ReferencePoint, 0, len(rows))
	for _, row := range rows {
		if row.Percentile != MedianPercentile {
			continue
		}
		points = append(points, ReferencePoint{
			AgeMonths: row.AgeMonths,
			Gender:    row.Gender,
			MedianBMI: row.BMI,
		})
	}

	return NewReferenceTable(points)
}

// NewReferenceTable indexes already filtered median points.
func NewReferenceTable(points []ReferencePoint) *ReferenceTable {
	t := &ReferenceTable{byGender: make(map[Gender]*genderTable, len(Genders))}
	for _, g := range Genders {
		t.byGender[g] = &genderTable{medians: make(map[int]float64)}
	}

	for _, p := range points {
		if !validPoint(p) {
			continue
		}
		t.byGender[p.Gender].medians[p.AgeMonths] = p.MedianBMI
	}

	for _, gt := range t.byGender {
		gt.ages = make([]int, 0, len(gt.medians))
		for age := range gt.medians {
			gt.ages = append(gt.ages, age)
		}
		sort.Ints(gt.ages)
	}

	return t
}

// MaxAgeMonths is the largest age accepted from external input.
const MaxAgeMonths = math.MaxInt32

// Valid reports whether the row can contribute to a reference table: a
// known gender, a non-negative age and a positive finite BMI.
func (r PercentileRow) Valid() bool {
	return validPoint(ReferencePoint{AgeMonths: r.AgeMonths, Gender: r.Gender, MedianBMI: r.BMI})
}

func validPoint(p ReferencePoint) bool {
	if !p.Gender.Valid() || p.AgeMonths < 0 {
		return false
	}
	return p.MedianBMI > 0 && !math.IsInf(p.MedianBMI, 0) && !math.IsNaN(p.MedianBMI)
}

func (t *ReferenceTable) gender(g Gender) *genderTable {
	if t == nil {
		return nil
	}
	return t.byGender[g]
}

// Ready reports whether the table holds at least one point for g.
func (t *ReferenceTable) Ready(g Gender) bool {
	gt := t.gender(g)
	return gt != nil && len(gt.ages) > 0
}

// Len returns the number of points across both genders.
func (t *ReferenceTable) Len() int {
	n := 0
	for _, g := range Genders {
		if gt := t.gender(g); gt != nil {
			n += len(gt.ages)
		}
	}
	return n
}

// Ages returns the known ages for g in ascending order.
func (t *ReferenceTable) Ages(g Gender) []int {
	gt := t.gender(g)
	if gt == nil {
		return nil
	}
	out := make([]int, len(gt.ages))
	copy(out, gt.ages)
	return out
}

// Points returns the known points for g in ascending age order.
func (t *ReferenceTable) Points(g Gender) []ReferencePoint {
	gt := t.gender(g)
	if gt == nil {
		return nil
	}
	out := make([]ReferencePoint, 0, len(gt.ages))
	for _, age := range gt.ages {
		out = append(out, ReferencePoint{AgeMonths: age, Gender: g, MedianBMI: gt.medians[age]})
	}
	return out
}

// Median estimates the median BMI at ageMonths by linear interpolation
// between the two nearest known ages. Ages outside the known range are
// clamped to the boundary value. An empty table yields 0.
func (t *ReferenceTable) Median(ageMonths int, g Gender) float64 {
	gt := t.gender(g)
	if gt == nil || len(gt.ages) == 0 {
		return 0
	}

	if median, ok := gt.medians[ageMonths]; ok {
		return median
	}

	ages := gt.ages
	first, last := ages[0], ages[len(ages)-1]
	if ageMonths <= first {
		return gt.medians[first]
	}
	if ageMonths >= last {
		return gt.medians[last]
	}

	for i := 0; i < len(ages)-1; i++ {
		lower, upper := ages[i], ages[i+1]
		if lower > ageMonths || ageMonths > upper {
			continue
		}

		lowerMedian := gt.medians[lower]
		if upper == lower {
			return lowerMedian
		}
		upperMedian := gt.medians[upper]
		ratio := float64(ageMonths-lower) / float64(upper-lower)
		return lowerMedian + ratio*(upperMedian-lowerMedian)
	}

	// Unreachable with a sorted, deduplicated age list.
	return gt.medians[last]
}
