/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	htmltemplate "html/template"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"golang.org/x/sync/errgroup"

	"github.com/humaidq/growthwave/db"
	"github.com/humaidq/growthwave/who"
)

var (
	listChildrenFn      = db.ListChildren
	getChildFn          = db.GetChild
	createChildFn       = db.CreateChild
	updateChildFn       = db.UpdateChild
	deleteChildFn       = db.DeleteChild
	listGrowthRecordsFn = db.ListGrowthRecords
)

// ========== Child Handlers ==========

// ListChildren renders the children overview
func ListChildren(c flamego.Context, t template.Template, data template.Data) {
	data["IsChildren"] = true
	data["Breadcrumbs"] = []BreadcrumbItem{
		childrenBreadcrumb(true),
	}

	children, err := listChildrenFn(c.Request().Context())
	if err != nil {
		log.Printf("Error fetching children: %v", err)
		data["Error"] = "Failed to load children"
	} else {
		data["Children"] = children
	}

	data["Today"] = time.Now()
	t.HTML(http.StatusOK, "children_list")
}

// NewChildForm renders the add child form
func NewChildForm(t template.Template, data template.Data) {
	data["IsChildren"] = true
	data["Breadcrumbs"] = []BreadcrumbItem{
		childrenBreadcrumb(false),
		{Name: "New Child", URL: "", IsCurrent: true},
	}
	data["Genders"] = who.Genders
	t.HTML(http.StatusOK, "child_new")
}

// parseChildForm reads the shared child form fields
func parseChildForm(form url.Values) (db.CreateChildInput, error) {
	input := db.CreateChildInput{
		Name:  strings.TrimSpace(form.Get("name")),
		Notes: getOptionalString(form.Get("notes")),
	}

	dob, err := parseFormDate(form.Get("date_of_birth"))
	if err != nil {
		return input, err
	}
	input.DateOfBirth = dob

	gender, err := who.ParseGender(form.Get("gender"))
	if err != nil {
		return input, err
	}
	input.Gender = gender

	return input, nil
}

// childFormError maps validation failures to a user-facing message
func childFormError(err error) string {
	switch {
	case errors.Is(err, db.ErrChildNameRequired):
		return "Name is required"
	case errors.Is(err, errMissingDate):
		return "Date of birth is required"
	case errors.Is(err, db.ErrDateOfBirthInFuture):
		return "Date of birth cannot be in the future"
	case errors.Is(err, who.ErrUnknownGender), errors.Is(err, db.ErrInvalidGender):
		return "Please select a gender"
	default:
		return "Invalid date of birth format"
	}
}

// CreateChild handles child creation
func CreateChild(c flamego.Context, s session.Session) {
	if err := c.Request().ParseForm(); err != nil {
		log.Printf("Error parsing form: %v", err)
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect("/child/new", http.StatusSeeOther)
		return
	}

	input, err := parseChildForm(c.Request().Form)
	if err != nil {
		SetErrorFlash(s, childFormError(err))
		c.Redirect("/child/new", http.StatusSeeOther)
		return
	}

	childID, err := createChildFn(c.Request().Context(), input)
	if err != nil {
		if errors.Is(err, db.ErrChildNameRequired) || errors.Is(err, db.ErrDateOfBirthInFuture) || errors.Is(err, db.ErrInvalidGender) {
			SetErrorFlash(s, childFormError(err))
			c.Redirect("/child/new", http.StatusSeeOther)
			return
		}
		log.Printf("Error creating child: %v", err)
		SetErrorFlash(s, "Failed to create child")
		c.Redirect("/child/new", http.StatusSeeOther)
		return
	}

	SetSuccessFlash(s, "Child added")
	c.Redirect("/child/"+childID, http.StatusSeeOther)
}

// ViewChild renders a child's growth history, classification and chart
func ViewChild(c flamego.Context, t template.Template, data template.Data, source *who.Source) {
	childID := c.Param("id")
	ctx := c.Request().Context()

	dateRange, err := db.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		data["Error"] = "Invalid date range"
		dateRange = db.DateRange{}
	}

	var (
		child   *db.Child
		records []db.GrowthRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		child, err = getChildFn(gctx, childID)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = listGrowthRecordsFn(gctx, childID, dateRange)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, db.ErrChildNotFound) {
			data["Error"] = "Child not found"
			t.HTML(http.StatusNotFound, "error")
			return
		}
		log.Printf("Error loading child %s: %v", childID, err)
		data["Error"] = "Failed to load child"
		t.HTML(http.StatusInternalServerError, "error")
		return
	}

	history := buildHistory(child, records, source.Table())

	chart, err := generateBMIChart(child.Name, history)
	if err != nil {
		log.Printf("Error generating BMI chart for %s: %v", childID, err)
	} else if chart != "" {
		data["Chart"] = htmltemplate.HTML(chart)
	}

	now := time.Now()
	data["IsChildren"] = true
	data["Breadcrumbs"] = []BreadcrumbItem{
		childrenBreadcrumb(false),
		childBreadcrumb(childID, child.Name, true),
	}
	data["Child"] = child
	data["AgeMonths"] = child.AgeMonths(now)
	data["History"] = history
	data["HistoryPending"] = !source.Table().Ready(child.Gender)
	data["From"] = dateRange.FromString()
	data["To"] = dateRange.ToString()
	data["Today"] = now.Format("2006-01-02")
	if len(history) > 0 {
		data["Latest"] = history[len(history)-1]
	}

	t.HTML(http.StatusOK, "child_view")
}

// EditChildForm renders the edit form
func EditChildForm(c flamego.Context, t template.Template, data template.Data) {
	childID := c.Param("id")

	child, err := getChildFn(c.Request().Context(), childID)
	if err != nil {
		log.Printf("Error fetching child %s: %v", childID, err)
		data["Error"] = "Child not found"
		t.HTML(http.StatusNotFound, "error")
		return
	}

	data["IsChildren"] = true
	data["Breadcrumbs"] = []BreadcrumbItem{
		childrenBreadcrumb(false),
		childBreadcrumb(childID, child.Name, false),
		{Name: "Edit", URL: "", IsCurrent: true},
	}
	data["Child"] = child
	data["Genders"] = who.Genders
	t.HTML(http.StatusOK, "child_edit")
}

// UpdateChild handles child updates
func UpdateChild(c flamego.Context, s session.Session) {
	childID := c.Param("id")
	editURL := "/child/" + childID + "/edit"

	if err := c.Request().ParseForm(); err != nil {
		log.Printf("Error parsing form: %v", err)
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect(editURL, http.StatusSeeOther)
		return
	}

	input, err := parseChildForm(c.Request().Form)
	if err != nil {
		SetErrorFlash(s, childFormError(err))
		c.Redirect(editURL, http.StatusSeeOther)
		return
	}

	if err := updateChildFn(c.Request().Context(), childID, input); err != nil {
		switch {
		case errors.Is(err, db.ErrChildNotFound):
			SetErrorFlash(s, "Child not found")
			c.Redirect("/", http.StatusSeeOther)
		case errors.Is(err, db.ErrChildNameRequired), errors.Is(err, db.ErrDateOfBirthInFuture), errors.Is(err, db.ErrInvalidGender):
			SetErrorFlash(s, childFormError(err))
			c.Redirect(editURL, http.StatusSeeOther)
		default:
			log.Printf("Error updating child %s: %v", childID, err)
			SetErrorFlash(s, "Failed to update child")
			c.Redirect(editURL, http.StatusSeeOther)
		}
		return
	}

	SetSuccessFlash(s, "Child updated")
	c.Redirect("/child/"+childID, http.StatusSeeOther)
}

// DeleteChild handles child deletion
func DeleteChild(c flamego.Context, s session.Session) {
	childID := c.Param("id")

	if err := deleteChildFn(c.Request().Context(), childID); err != nil {
		if errors.Is(err, db.ErrChildNotFound) {
			SetErrorFlash(s, "Child not found")
		} else {
			log.Printf("Error deleting child %s: %v", childID, err)
			SetErrorFlash(s, "Failed to delete child")
		}
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	SetSuccessFlash(s, "Child deleted")
	c.Redirect("/", http.StatusSeeOther)
}

// parseFormDate parses a YYYY-MM-DD form value
func parseFormDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errMissingDate
	}
	return time.Parse("2006-01-02", value)
}

func getOptionalString(val string) *string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
