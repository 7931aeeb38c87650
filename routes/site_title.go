/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"os"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/template"
)

const (
	defaultSiteTitle = "Growthwave"
	siteTitleEnvVar  = "SITE_TITLE"
)

func siteTitle() string {
	title := strings.TrimSpace(os.Getenv(siteTitleEnvVar))
	if title == "" {
		return defaultSiteTitle
	}
	return title
}

// SiteTitleInjector sets the page title used by the header template.
func SiteTitleInjector() flamego.Handler {
	return func(data template.Data) {
		data["PageTitle"] = siteTitle()
	}
}
