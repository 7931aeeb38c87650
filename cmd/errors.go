/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "errors"

var (
	errDatabaseURLRequired   = errors.New("database-url is required (set via --database-url or DATABASE_URL env var)")
	errMigrationNameRequired = errors.New("migration name is required")
	errCSRFSecretRequired    = errors.New("CSRF_SECRET is required outside development mode")
	errReferenceFileRequired = errors.New("--file is required")
	errBackendURLRequired    = errors.New("backend-url is required (set via --backend-url or GROWTH_BACKEND_URL env var)")
	errAgeRequired           = errors.New("either --age-months or --dob is required")
	errMeasurementRequired   = errors.New("either --bmi or --weight and --height is required")
	errReferencePending      = errors.New("no reference data is loaded for this gender")
	errEmptyReferenceFile    = errors.New("reference file has no median rows")
)
