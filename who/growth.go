/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package who

import (
	"math"
	"time"
)

// AgeInMonths returns the completed calendar months between dob and at.
// It never returns a negative value.
func AgeInMonths(dob, at time.Time) int {
	months := (at.Year()-dob.Year())*12 + int(at.Month()) - int(dob.Month())
	// The month is not completed until the day of birth is reached
	if at.Day() < dob.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// ComputeBMI returns weight / height² with height given in centimetres.
func ComputeBMI(weightKg, heightCm float64) (float64, error) {
	if weightKg <= 0 || math.IsNaN(weightKg) || math.IsInf(weightKg, 0) {
		return 0, ErrInvalidWeight
	}
	if heightCm <= 0 || math.IsNaN(heightCm) || math.IsInf(heightCm, 0) {
		return 0, ErrInvalidHeight
	}
	meters := heightCm / 100
	return weightKg / (meters * meters), nil
}

// RoundTo rounds v half away from zero to the given decimal places.
func RoundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
