/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/humaidq/growthwave/who"
)

// Child represents a child whose growth is being tracked
type Child struct {
	ID          uuid.UUID  `db:"id"`
	Name        string     `db:"name"`
	DateOfBirth time.Time  `db:"date_of_birth"`
	Gender      who.Gender `db:"gender"`
	Notes       *string    `db:"notes"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// AgeMonths returns the child's age in completed months at a given date
func (c *Child) AgeMonths(atDate time.Time) int {
	return who.AgeInMonths(c.DateOfBirth, atDate)
}

// ChildSummary represents a child with growth record statistics
type ChildSummary struct {
	Child
	RecordCount    int        `db:"record_count"`
	LastMeasuredOn *time.Time `db:"last_measured_on"`
}

// GrowthRecord represents a single height and weight measurement
type GrowthRecord struct {
	ID         uuid.UUID `db:"id"`
	ChildID    uuid.UUID `db:"child_id"`
	MeasuredOn time.Time `db:"measured_on"`
	WeightKg   float64   `db:"weight_kg"`
	HeightCm   float64   `db:"height_cm"`
	Notes      *string   `db:"notes"`
	CreatedAt  time.Time `db:"created_at"`
}

// BMI returns the body mass index of the record, or 0 if it cannot be computed
func (r *GrowthRecord) BMI() float64 {
	bmi, err := who.ComputeBMI(r.WeightKg, r.HeightCm)
	if err != nil {
		return 0
	}
	return bmi
}

// Measurement builds the classifier input for this record
func (r *GrowthRecord) Measurement(child *Child) who.Measurement {
	return who.Measurement{
		AgeMonths: child.AgeMonths(r.MeasuredOn),
		Gender:    child.Gender,
		BMI:       r.BMI(),
	}
}

// CreateChildInput represents input for creating or updating a child
type CreateChildInput struct {
	Name        string
	DateOfBirth time.Time
	Gender      who.Gender
	Notes       *string
}

// AddGrowthRecordInput represents input for recording a measurement
type AddGrowthRecordInput struct {
	ChildID    string
	MeasuredOn time.Time
	WeightKg   float64
	HeightCm   float64
	Notes      *string
}
