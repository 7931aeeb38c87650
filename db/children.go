/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/humaidq/growthwave/who"
)

const childColumns = `id, name, date_of_birth, gender, notes, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChild(row rowScanner, extra ...any) (*Child, error) {
	var child Child
	var gender int16

	dest := []any{
		&child.ID, &child.Name, &child.DateOfBirth, &gender, &child.Notes,
		&child.CreatedAt, &child.UpdatedAt,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	child.Gender = who.Gender(gender)

	return &child, nil
}

func validateChildInput(input CreateChildInput) (CreateChildInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return input, ErrChildNameRequired
	}
	if !input.Gender.Valid() {
		return input, ErrInvalidGender
	}
	if input.DateOfBirth.After(time.Now()) {
		return input, ErrDateOfBirthInFuture
	}
	if input.Notes != nil && strings.TrimSpace(*input.Notes) == "" {
		input.Notes = nil
	}
	return input, nil
}

// ========== Child Operations ==========

// ListChildren returns all children with growth record counts
func ListChildren(ctx context.Context) ([]ChildSummary, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT ` + childColumns + `, record_count, last_measured_on
		FROM children_summary
		ORDER BY name ASC
	`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	defer rows.Close()

	var children []ChildSummary
	for rows.Next() {
		var summary ChildSummary
		child, err := scanChild(rows, &summary.RecordCount, &summary.LastMeasuredOn)
		if err != nil {
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		summary.Child = *child
		children = append(children, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating children: %w", err)
	}

	return children, nil
}

// GetChild returns a single child by ID
func GetChild(ctx context.Context, id string) (*Child, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrChildNotFound
	}

	query := `SELECT ` + childColumns + ` FROM children WHERE id = $1`

	child, err := scanChild(pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChildNotFound
		}
		return nil, fmt.Errorf("failed to get child: %w", err)
	}

	return child, nil
}

// CreateChild creates a new child and returns its ID
func CreateChild(ctx context.Context, input CreateChildInput) (string, error) {
	if pool == nil {
		return "", ErrDatabaseConnectionNotInitialized
	}

	input, err := validateChildInput(input)
	if err != nil {
		return "", err
	}

	var id string
	query := `
		INSERT INTO children (name, date_of_birth, gender, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err = pool.QueryRow(ctx, query, input.Name, input.DateOfBirth, int16(input.Gender), input.Notes).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create child: %w", err)
	}

	return id, nil
}

// UpdateChild updates a child's details
func UpdateChild(ctx context.Context, id string, input CreateChildInput) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	if _, err := uuid.Parse(id); err != nil {
		return ErrChildNotFound
	}

	input, err := validateChildInput(input)
	if err != nil {
		return err
	}

	query := `
		UPDATE children
		SET name = $1, date_of_birth = $2, gender = $3, notes = $4
		WHERE id = $5
	`

	tag, err := pool.Exec(ctx, query, input.Name, input.DateOfBirth, int16(input.Gender), input.Notes, id)
	if err != nil {
		return fmt.Errorf("failed to update child: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrChildNotFound
	}

	return nil
}

// DeleteChild deletes a child (cascades to growth records)
func DeleteChild(ctx context.Context, id string) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	if _, err := uuid.Parse(id); err != nil {
		return ErrChildNotFound
	}

	tag, err := pool.Exec(ctx, `DELETE FROM children WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete child: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrChildNotFound
	}

	return nil
}
