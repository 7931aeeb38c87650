/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package growthapi

import (
	"errors"
	"fmt"
)

var (
	ErrBaseURLRequired = errors.New("backend base URL is required")
	ErrTokenVarNotSet  = errors.New("backend token environment variable is not set")
	ErrEmptyReference  = errors.New("backend returned no median reference rows")
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Body)
}
