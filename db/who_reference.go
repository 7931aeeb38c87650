/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/humaidq/growthwave/who"
)

// SyncWHOReference seeds the WHO BMI-for-age rows bundled with the binary
// when the reference table is empty. A snapshot pulled from the backend is
// never overwritten by the bundled data.
func SyncWHOReference(ctx context.Context) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	var existing int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM who_bmi_reference`).Scan(&existing); err != nil {
		return fmt.Errorf("failed to count WHO reference rows: %w", err)
	}
	if existing > 0 {
		logger.Debug("WHO reference already present, skipping seed", "rows", existing)
		return nil
	}

	rows := who.StandardRows()
	logger.Infof("Seeding %d WHO reference rows to database...", len(rows))

	query := `
		INSERT INTO who_bmi_reference (age_months, gender, percentile, bmi)
		VALUES ($1, $2, $3, $4)
	`

	syncCount := 0

	for _, row := range rows {
		_, err := pool.Exec(ctx, query, row.AgeMonths, int16(row.Gender), row.Percentile, row.BMI)
		if err != nil {
			return fmt.Errorf("failed to seed WHO reference row %d/%s/%v: %w",
				row.AgeMonths, row.Gender, row.Percentile, err)
		}

		syncCount++
	}

	logger.Infof("Successfully seeded %d WHO reference rows", syncCount)

	return nil
}

// ReplaceWHOReference swaps the stored snapshot for rows in a single
// transaction. Rows without a usable median are rejected up front so a bad
// refresh cannot leave the table empty.
func ReplaceWHOReference(ctx context.Context, rows []who.PercentileRow) (int, error) {
	if pool == nil {
		return 0, ErrDatabaseConnectionNotInitialized
	}

	if who.BuildReferenceTable(rows).Len() == 0 {
		return 0, ErrEmptyReferenceSnapshot
	}

	// Last row wins for duplicate keys, matching the in-memory loader
	type key struct {
		age        int
		gender     who.Gender
		percentile float64
	}
	index := make(map[key]int, len(rows))
	deduped := make([]who.PercentileRow, 0, len(rows))
	for _, row := range rows {
		if !row.Valid() {
			continue
		}
		k := key{row.AgeMonths, row.Gender, row.Percentile}
		if i, ok := index[k]; ok {
			deduped[i] = row
			continue
		}
		index[k] = len(deduped)
		deduped = append(deduped, row)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM who_bmi_reference`); err != nil {
		return 0, fmt.Errorf("failed to clear WHO reference: %w", err)
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"who_bmi_reference"},
		[]string{"age_months", "gender", "percentile", "bmi"},
		pgx.CopyFromSlice(len(deduped), func(i int) ([]any, error) {
			row := deduped[i]
			return []any{row.AgeMonths, int16(row.Gender), row.Percentile, row.BMI}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy WHO reference rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit WHO reference replacement: %w", err)
	}

	logger.Info("Replaced WHO reference snapshot", "rows", copied)

	return int(copied), nil
}

// ListWHOReferenceRows returns every stored row ordered by gender and age
func ListWHOReferenceRows(ctx context.Context) ([]who.PercentileRow, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT age_months, gender, percentile, bmi
		FROM who_bmi_reference
		ORDER BY gender, age_months, percentile
	`

	dbRows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list WHO reference rows: %w", err)
	}
	defer dbRows.Close()

	var rows []who.PercentileRow
	for dbRows.Next() {
		var row who.PercentileRow
		var gender int16
		if err := dbRows.Scan(&row.AgeMonths, &gender, &row.Percentile, &row.BMI); err != nil {
			return nil, fmt.Errorf("failed to scan WHO reference row: %w", err)
		}
		row.Gender = who.Gender(gender)
		rows = append(rows, row)
	}

	if err := dbRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating WHO reference rows: %w", err)
	}

	return rows, nil
}

// LoadReferenceTable builds the in-memory reference table from the stored rows
func LoadReferenceTable(ctx context.Context) (*who.ReferenceTable, error) {
	rows, err := ListWHOReferenceRows(ctx)
	if err != nil {
		return nil, err
	}
	return who.BuildReferenceTable(rows), nil
}
