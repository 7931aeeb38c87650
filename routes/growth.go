/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/growthwave/db"
	"github.com/humaidq/growthwave/who"
)

var (
	addGrowthRecordFn    = db.AddGrowthRecord
	deleteGrowthRecordFn = db.DeleteGrowthRecord
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ========== Growth Record Handlers ==========

// AddGrowthRecord records a height and weight measurement
func AddGrowthRecord(c flamego.Context, s session.Session) {
	childID := c.Param("id")
	childURL := "/child/" + childID

	if err := c.Request().ParseForm(); err != nil {
		log.Printf("Error parsing form: %v", err)
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect(childURL, http.StatusSeeOther)
		return
	}

	form := c.Request().Form

	measuredOn, err := parseFormDate(form.Get("measured_on"))
	if err != nil {
		SetErrorFlash(s, "A valid measurement date is required")
		c.Redirect(childURL, http.StatusSeeOther)
		return
	}

	weight, err := parseFormFloat(form.Get("weight_kg"))
	if err != nil {
		SetErrorFlash(s, "Weight must be a number")
		c.Redirect(childURL, http.StatusSeeOther)
		return
	}

	height, err := parseFormFloat(form.Get("height_cm"))
	if err != nil {
		SetErrorFlash(s, "Height must be a number")
		c.Redirect(childURL, http.StatusSeeOther)
		return
	}

	input := db.AddGrowthRecordInput{
		ChildID:    childID,
		MeasuredOn: measuredOn,
		WeightKg:   weight,
		HeightCm:   height,
		Notes:      getOptionalString(form.Get("notes")),
	}

	if _, err := addGrowthRecordFn(c.Request().Context(), input); err != nil {
		switch {
		case errors.Is(err, db.ErrChildNotFound):
			SetErrorFlash(s, "Child not found")
			c.Redirect("/", http.StatusSeeOther)
			return
		case errors.Is(err, who.ErrInvalidWeight):
			SetErrorFlash(s, "Weight must be greater than zero")
		case errors.Is(err, who.ErrInvalidHeight):
			SetErrorFlash(s, "Height must be greater than zero")
		case errors.Is(err, db.ErrMeasuredBeforeBirth):
			SetErrorFlash(s, "Measurement date is before the date of birth")
		default:
			log.Printf("Error adding growth record for %s: %v", childID, err)
			SetErrorFlash(s, "Failed to add measurement")
		}
		c.Redirect(childURL, http.StatusSeeOther)
		return
	}

	SetSuccessFlash(s, "Measurement added")
	c.Redirect(childURL, http.StatusSeeOther)
}

// DeleteGrowthRecord removes a measurement
func DeleteGrowthRecord(c flamego.Context, s session.Session) {
	childID := c.Param("id")
	recordID := c.Param("record_id")

	if err := deleteGrowthRecordFn(c.Request().Context(), childID, recordID); err != nil {
		if errors.Is(err, db.ErrGrowthRecordNotFound) {
			SetErrorFlash(s, "Measurement not found")
		} else {
			log.Printf("Error deleting growth record %s: %v", recordID, err)
			SetErrorFlash(s, "Failed to delete measurement")
		}
		c.Redirect("/child/"+childID, http.StatusSeeOther)
		return
	}

	SetSuccessFlash(s, "Measurement deleted")
	c.Redirect("/child/"+childID, http.StatusSeeOther)
}

// ExportGrowthCSV downloads the classified growth history as CSV
func ExportGrowthCSV(c flamego.Context, t template.Template, data template.Data, source *who.Source) {
	childID := c.Param("id")
	ctx := c.Request().Context()

	dateRange, err := db.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		data["Error"] = "Invalid date range"
		t.HTML(http.StatusBadRequest, "error")
		return
	}

	child, err := getChildFn(ctx, childID)
	if err != nil {
		if !errors.Is(err, db.ErrChildNotFound) {
			log.Printf("Error fetching child %s: %v", childID, err)
		}
		data["Error"] = "Child not found"
		t.HTML(http.StatusNotFound, "error")
		return
	}

	records, err := listGrowthRecordsFn(ctx, childID, dateRange)
	if err != nil {
		log.Printf("Error fetching growth records for %s: %v", childID, err)
		data["Error"] = "Failed to load growth records"
		t.HTML(http.StatusInternalServerError, "error")
		return
	}

	var buf bytes.Buffer
	if err := writeHistoryCSV(&buf, buildHistory(child, records, source.Table())); err != nil {
		log.Printf("Error writing CSV for %s: %v", childID, err)
		data["Error"] = "Failed to export growth records"
		t.HTML(http.StatusInternalServerError, "error")
		return
	}

	header := c.ResponseWriter().Header()
	header.Set("Content-Type", "text/csv; charset=utf-8")
	header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(child.Name)))
	header.Set("Content-Length", strconv.Itoa(buf.Len()))

	c.ResponseWriter().WriteHeader(http.StatusOK)
	_, _ = c.ResponseWriter().Write(buf.Bytes())
}

// exportFilename builds a download name from the child's name
func exportFilename(name string) string {
	slug := strings.Trim(unsafeFilenameChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		slug = "child"
	}
	return slug + "-growth.csv"
}

func parseFormFloat(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errMissingNumber
	}
	return strconv.ParseFloat(value, 64)
}
