// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"testing"
	"time"

	"github.com/humaidq/growthwave/who"
)

func testContext() context.Context {
	return context.Background()
}

func stringPtr(value string) *string {
	return &value
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func mustCreateChild(t *testing.T, name string, dob time.Time, gender who.Gender) string {
	t.Helper()

	id, err := CreateChild(testContext(), CreateChildInput{Name: name, DateOfBirth: dob, Gender: gender})
	if err != nil {
		t.Fatalf("CreateChild failed: %v", err)
	}

	return id
}

func mustAddGrowthRecord(t *testing.T, childID string, measuredOn time.Time, weightKg, heightCm float64) string {
	t.Helper()

	id, err := AddGrowthRecord(testContext(), AddGrowthRecordInput{
		ChildID:    childID,
		MeasuredOn: measuredOn,
		WeightKg:   weightKg,
		HeightCm:   heightCm,
	})
	if err != nil {
		t.Fatalf("AddGrowthRecord failed: %v", err)
	}

	return id
}
