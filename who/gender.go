/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package who

import (
	"fmt"
	"strings"
)

// Gender is the binary sex code used by the WHO growth standards.
// The numeric values match the upstream growth-standards endpoint.
type Gender int

// Gender codes as sent by the backend.
const (
	Male   Gender = 0
	Female Gender = 1
)

// Genders lists the supported codes in table order.
var Genders = []Gender{Male, Female}

func (g Gender) String() string {
	switch g {
	case Male:
		return "Male"
	case Female:
		return "Female"
	default:
		return fmt.Sprintf("Gender(%d)", int(g))
	}
}

// Valid reports whether g is one of the known codes.
func (g Gender) Valid() bool {
	return g == Male || g == Female
}

// ParseGender accepts the numeric code or a common spelling.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "male", "m", "boy":
		return Male, nil
	case "1", "female", "f", "girl":
		return Female, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownGender, s)
	}
}
