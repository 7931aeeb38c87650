/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import "errors"

var (
	ErrDatabaseConnectionNotInitialized = errors.New("database connection not initialized")
	ErrDatabaseURLEnvVarNotSet          = errors.New("DATABASE_URL environment variable not set")
	ErrDatabaseNameNotSpecified         = errors.New("database name not specified in connection string")
	ErrChildNotFound                    = errors.New("child not found")
	ErrGrowthRecordNotFound             = errors.New("growth record not found")
	ErrChildNameRequired                = errors.New("child name is required")
	ErrInvalidGender                    = errors.New("invalid gender")
	ErrDateOfBirthInFuture              = errors.New("date of birth is in the future")
	ErrMeasuredBeforeBirth              = errors.New("measurement date is before date of birth")
	ErrInvalidDateRange                 = errors.New("date range start is after its end")
	ErrEmptyReferenceSnapshot           = errors.New("reference snapshot has no median rows")
)
