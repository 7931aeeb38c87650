/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/growthwave/db"
	"github.com/humaidq/growthwave/who"
)

// OriginBackend labels a reference table pulled from the growth backend.
const OriginBackend = "backend"

var replaceReferenceFn = db.ReplaceWHOReference

// ReferenceFetcher pulls BMI-for-age rows from the growth standards backend.
type ReferenceFetcher interface {
	FetchGrowthStandards(ctx context.Context) ([]who.PercentileRow, []who.RowError, error)
}

type noBackend struct{}

func (noBackend) FetchGrowthStandards(context.Context) ([]who.PercentileRow, []who.RowError, error) {
	return nil, nil, errBackendNotConfigured
}

// NoBackend is the fetcher used when no backend URL is configured.
func NoBackend() ReferenceFetcher {
	return noBackend{}
}

// ReferenceRow is a single age on the reference overview.
type ReferenceRow struct {
	AgeMonths int
	Band      who.ZScoreBand
}

// ReferenceGender groups the reference overview by gender.
type ReferenceGender struct {
	Gender who.Gender
	Ready  bool
	Rows   []ReferenceRow
}

func referenceOverview(table *who.ReferenceTable) []ReferenceGender {
	out := make([]ReferenceGender, 0, len(who.Genders))
	for _, g := range who.Genders {
		view := ReferenceGender{Gender: g, Ready: table.Ready(g)}
		for _, age := range table.Ages(g) {
			view.Rows = append(view.Rows, ReferenceRow{AgeMonths: age, Band: table.Bands(age, g)})
		}
		out = append(out, view)
	}
	return out
}

// ========== Reference Handlers ==========

// ReferencePage renders the loaded WHO medians and derived thresholds
func ReferencePage(t template.Template, data template.Data, source *who.Source, fetcher ReferenceFetcher) {
	loadedAt, origin := source.LoadedAt()

	_, unconfigured := fetcher.(noBackend)

	data["IsReference"] = true
	data["Breadcrumbs"] = []BreadcrumbItem{
		referenceBreadcrumb(true),
	}
	data["Genders"] = referenceOverview(source.Table())
	data["LoadedAt"] = loadedAt
	data["Origin"] = origin
	data["BackendConfigured"] = !unconfigured
	t.HTML(http.StatusOK, "reference")
}

// RefreshReference pulls a new snapshot from the backend, stores it and
// swaps the shared table. The previous table stays in place on any failure.
func RefreshReference(c flamego.Context, s session.Session, source *who.Source, fetcher ReferenceFetcher) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), time.Minute)
	defer cancel()

	rows, rowErrs, err := fetcher.FetchGrowthStandards(ctx)
	if err != nil {
		if errors.Is(err, errBackendNotConfigured) {
			SetWarningFlash(s, "No growth standards backend is configured")
		} else {
			logger.Error("Failed to fetch growth standards", "error", err)
			SetErrorFlash(s, "Failed to fetch growth standards")
		}
		c.Redirect("/reference", http.StatusSeeOther)
		return
	}

	table := who.BuildReferenceTable(rows)
	if table.Len() == 0 {
		SetErrorFlash(s, "The backend returned no median rows, keeping the current reference")
		c.Redirect("/reference", http.StatusSeeOther)
		return
	}

	stored, err := replaceReferenceFn(ctx, rows)
	if err != nil {
		logger.Error("Failed to store growth standards", "error", err)
		SetErrorFlash(s, "Failed to store growth standards")
		c.Redirect("/reference", http.StatusSeeOther)
		return
	}

	source.Replace(table, OriginBackend)
	logger.Info("Reference table refreshed", "rows", stored, "points", table.Len(), "skipped", len(rowErrs))

	msg := fmt.Sprintf("Loaded %d reference rows", stored)
	if len(rowErrs) > 0 {
		msg += fmt.Sprintf(" (%d malformed rows skipped)", len(rowErrs))
	}
	SetSuccessFlash(s, msg)
	c.Redirect("/reference", http.StatusSeeOther)
}
