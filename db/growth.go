/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/humaidq/growthwave/who"
)

// ========== Growth Record Operations ==========

// ListGrowthRecords returns a child's measurements in date order, limited
// to the given range
func ListGrowthRecords(ctx context.Context, childID string, dateRange DateRange) ([]GrowthRecord, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	if _, err := uuid.Parse(childID); err != nil {
		return nil, ErrChildNotFound
	}

	query := `
		SELECT id, child_id, measured_on, weight_kg, height_cm, notes, created_at
		FROM growth_records
		WHERE child_id = $1
		  AND ($2::date IS NULL OR measured_on >= $2::date)
		  AND ($3::date IS NULL OR measured_on <= $3::date)
		ORDER BY measured_on ASC, created_at ASC
	`

	rows, err := pool.Query(ctx, query, childID, dateRange.From, dateRange.To)
	if err != nil {
		return nil, fmt.Errorf("failed to list growth records: %w", err)
	}
	defer rows.Close()

	var records []GrowthRecord
	for rows.Next() {
		var rec GrowthRecord
		err := rows.Scan(
			&rec.ID, &rec.ChildID, &rec.MeasuredOn, &rec.WeightKg, &rec.HeightCm,
			&rec.Notes, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan growth record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating growth records: %w", err)
	}

	return records, nil
}

// AddGrowthRecord stores a measurement for a child and returns its ID
func AddGrowthRecord(ctx context.Context, input AddGrowthRecordInput) (string, error) {
	if pool == nil {
		return "", ErrDatabaseConnectionNotInitialized
	}

	child, err := GetChild(ctx, input.ChildID)
	if err != nil {
		return "", err
	}

	if err := validateGrowthInput(child, input); err != nil {
		return "", err
	}

	notes := input.Notes
	if notes != nil && strings.TrimSpace(*notes) == "" {
		notes = nil
	}

	var id string
	query := `
		INSERT INTO growth_records (child_id, measured_on, weight_kg, height_cm, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err = pool.QueryRow(ctx, query, input.ChildID, input.MeasuredOn, input.WeightKg, input.HeightCm, notes).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to add growth record: %w", err)
	}

	return id, nil
}

func validateGrowthInput(child *Child, input AddGrowthRecordInput) error {
	if _, err := who.ComputeBMI(input.WeightKg, input.HeightCm); err != nil {
		return err
	}
	if dateOnly(input.MeasuredOn).Before(dateOnly(child.DateOfBirth)) {
		return ErrMeasuredBeforeBirth
	}
	return nil
}

// DeleteGrowthRecord deletes a measurement belonging to a child
func DeleteGrowthRecord(ctx context.Context, childID, recordID string) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	if _, err := uuid.Parse(recordID); err != nil {
		return ErrGrowthRecordNotFound
	}
	if _, err := uuid.Parse(childID); err != nil {
		return ErrGrowthRecordNotFound
	}

	tag, err := pool.Exec(ctx, `DELETE FROM growth_records WHERE id = $1 AND child_id = $2`, recordID, childID)
	if err != nil {
		return fmt.Errorf("failed to delete growth record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGrowthRecordNotFound
	}

	return nil
}
