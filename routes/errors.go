/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import "errors"

var (
	errMissingDate          = errors.New("missing date")
	errMissingNumber        = errors.New("missing number")
	errMissingGender        = errors.New("gender is required")
	errMissingAge           = errors.New("either age_months or date_of_birth and measured_on is required")
	errMissingMeasurement   = errors.New("either bmi or weight_kg and height_cm is required")
	errBackendNotConfigured = errors.New("growth standards backend is not configured")
)
