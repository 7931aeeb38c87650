// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"errors"
	"testing"

	"github.com/humaidq/growthwave/who"
)

func TestChildLifecycle(t *testing.T) {
	resetDatabase(t)
	ctx := testContext()

	id := mustCreateChild(t, "Omar", date(2023, 2, 14), who.Male)

	child, err := GetChild(ctx, id)
	if err != nil {
		t.Fatalf("GetChild failed: %v", err)
	}
	if child.Name != "Omar" || child.Gender != who.Male || !child.DateOfBirth.Equal(date(2023, 2, 14)) {
		t.Fatalf("unexpected child: %+v", child)
	}

	update := CreateChildInput{Name: "Omar A.", DateOfBirth: date(2023, 2, 15), Gender: who.Male, Notes: stringPtr("premature")}
	if err := UpdateChild(ctx, id, update); err != nil {
		t.Fatalf("UpdateChild failed: %v", err)
	}

	child, err = GetChild(ctx, id)
	if err != nil {
		t.Fatalf("GetChild failed: %v", err)
	}
	if child.Name != "Omar A." || child.Notes == nil || *child.Notes != "premature" {
		t.Fatalf("update not applied: %+v", child)
	}

	if err := DeleteChild(ctx, id); err != nil {
		t.Fatalf("DeleteChild failed: %v", err)
	}
	if _, err := GetChild(ctx, id); !errors.Is(err, ErrChildNotFound) {
		t.Fatalf("expected ErrChildNotFound after delete, got %v", err)
	}
	if err := DeleteChild(ctx, id); !errors.Is(err, ErrChildNotFound) {
		t.Fatalf("expected ErrChildNotFound on second delete, got %v", err)
	}
}

func TestGetChildRejectsInvalidID(t *testing.T) {
	resetDatabase(t)

	if _, err := GetChild(testContext(), "not-a-uuid"); !errors.Is(err, ErrChildNotFound) {
		t.Fatalf("expected ErrChildNotFound, got %v", err)
	}
}

func TestListChildrenIncludesRecordSummary(t *testing.T) {
	resetDatabase(t)
	ctx := testContext()

	layla := mustCreateChild(t, "Layla", date(2022, 6, 1), who.Female)
	mustCreateChild(t, "Adam", date(2023, 1, 1), who.Male)

	mustAddGrowthRecord(t, layla, date(2023, 6, 1), 9.1, 74)
	mustAddGrowthRecord(t, layla, date(2024, 6, 1), 11.2, 85)

	children, err := ListChildren(ctx)
	if err != nil {
		t.Fatalf("ListChildren failed: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}

	if children[0].Name != "Adam" || children[0].RecordCount != 0 || children[0].LastMeasuredOn != nil {
		t.Fatalf("unexpected first summary: %+v", children[0])
	}
	if children[1].RecordCount != 2 || children[1].LastMeasuredOn == nil || !children[1].LastMeasuredOn.Equal(date(2024, 6, 1)) {
		t.Fatalf("unexpected second summary: %+v", children[1])
	}
}
