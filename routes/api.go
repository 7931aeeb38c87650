/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/flamego/flamego"

	"github.com/humaidq/growthwave/db"
	"github.com/humaidq/growthwave/who"
)

const maxClassifyBody = 64 << 10

var pingFn = db.Ping

// classifyRequest accepts either a precomputed age and BMI or the raw
// dates and measurements they are derived from.
type classifyRequest struct {
	AgeMonths   *float64        `json:"age_months"`
	DateOfBirth string          `json:"date_of_birth"`
	MeasuredOn  string          `json:"measured_on"`
	Gender      json.RawMessage `json:"gender"`
	BMI         *float64        `json:"bmi"`
	WeightKg    *float64        `json:"weight_kg"`
	HeightCm    *float64        `json:"height_cm"`
}

type classifyResponse struct {
	Status         who.Status         `json:"status"`
	Measurement    who.Measurement    `json:"measurement"`
	Classification who.Classification `json:"classification"`
}

type referenceResponse struct {
	Gender string               `json:"gender"`
	Points []who.ReferencePoint `json:"points"`
}

type pendingResponse struct {
	Status who.Status `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c flamego.Context, status int, v interface{}) {
	c.ResponseWriter().Header().Set("Content-Type", "application/json")
	c.ResponseWriter().WriteHeader(status)
	if err := json.NewEncoder(c.ResponseWriter()).Encode(v); err != nil {
		logger.Warn("Failed to encode JSON response", "error", err)
	}
}

func writeJSONError(c flamego.Context, status int, err error) {
	writeJSON(c, status, errorResponse{Error: err.Error()})
}

func parseRequestGender(raw json.RawMessage) (who.Gender, error) {
	value := strings.TrimSpace(string(raw))
	if value == "" || value == "null" {
		return 0, errMissingGender
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return who.ParseGender(s)
	}
	return who.ParseGender(value)
}

func parseRequestDate(field, value string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q", field, value)
	}
	return parsed, nil
}

// measurementFromRequest resolves the request into a classifier input
func measurementFromRequest(req classifyRequest) (who.Measurement, error) {
	var m who.Measurement

	gender, err := parseRequestGender(req.Gender)
	if err != nil {
		return m, err
	}
	m.Gender = gender

	switch {
	case req.AgeMonths != nil:
		age := *req.AgeMonths
		if math.IsNaN(age) || math.IsInf(age, 0) || age != math.Trunc(age) {
			return m, who.ErrFractionalAge
		}
		if age < 0 {
			return m, who.ErrNegativeAge
		}
		if age > who.MaxAgeMonths {
			return m, who.ErrAgeOutOfRange
		}
		m.AgeMonths = int(age)
	case req.DateOfBirth != "" && req.MeasuredOn != "":
		dob, err := parseRequestDate("date_of_birth", req.DateOfBirth)
		if err != nil {
			return m, err
		}
		measuredOn, err := parseRequestDate("measured_on", req.MeasuredOn)
		if err != nil {
			return m, err
		}
		if measuredOn.Before(dob) {
			return m, db.ErrMeasuredBeforeBirth
		}
		m.AgeMonths = who.AgeInMonths(dob, measuredOn)
	default:
		return m, errMissingAge
	}

	switch {
	case req.BMI != nil:
		if math.IsNaN(*req.BMI) || math.IsInf(*req.BMI, 0) {
			return m, who.ErrNonPositiveBMI
		}
		m.BMI = *req.BMI
	case req.WeightKg != nil && req.HeightCm != nil:
		bmi, err := who.ComputeBMI(*req.WeightKg, *req.HeightCm)
		if err != nil {
			return m, err
		}
		m.BMI = bmi
	default:
		return m, errMissingMeasurement
	}

	return m, nil
}

// ========== JSON API Handlers ==========

// ClassifyAPI classifies a single measurement against the loaded reference
func ClassifyAPI(c flamego.Context, source *who.Source) {
	var req classifyRequest

	decoder := json.NewDecoder(http.MaxBytesReader(c.ResponseWriter(), c.Request().Request.Body, maxClassifyBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeJSONError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	m, err := measurementFromRequest(req)
	if err != nil {
		writeJSONError(c, http.StatusBadRequest, err)
		return
	}

	assessment := source.Table().Assess(m)
	if !assessment.Ready() {
		writeJSON(c, http.StatusServiceUnavailable, pendingResponse{Status: who.StatusPending})
		return
	}

	writeJSON(c, http.StatusOK, classifyResponse{
		Status:         assessment.Status,
		Measurement:    m,
		Classification: assessment.Classification,
	})
}

// ReferenceAPI returns the median points loaded for one gender
func ReferenceAPI(c flamego.Context, source *who.Source) {
	gender, err := who.ParseGender(c.Param("gender"))
	if err != nil {
		writeJSONError(c, http.StatusBadRequest, err)
		return
	}

	table := source.Table()
	if !table.Ready(gender) {
		writeJSON(c, http.StatusServiceUnavailable, pendingResponse{Status: who.StatusPending})
		return
	}

	writeJSON(c, http.StatusOK, referenceResponse{
		Gender: strings.ToLower(gender.String()),
		Points: table.Points(gender),
	})
}

// Healthz reports whether the database is reachable
func Healthz(c flamego.Context) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := pingFn(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Warn("Health check failed", "error", err)
		}
		writeJSON(c, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	writeJSON(c, http.StatusOK, map[string]string{"status": "ok"})
}
