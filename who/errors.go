/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package who

import "errors"

var (
	ErrUnknownGender    = errors.New("unknown gender")
	ErrMissingField     = errors.New("missing field")
	ErrNonNumeric       = errors.New("value is not numeric")
	ErrFractionalAge    = errors.New("age in months must be a whole number")
	ErrNegativeAge      = errors.New("age in months must not be negative")
	ErrAgeOutOfRange    = errors.New("age in months is out of range")
	ErrNonPositiveBMI   = errors.New("bmi must be a positive finite number")
	ErrInvalidWeight    = errors.New("weight must be positive")
	ErrInvalidHeight    = errors.New("height must be positive")
	ErrMalformedPayload = errors.New("malformed growth standards payload")
)
