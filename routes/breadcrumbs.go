/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

// BreadcrumbItem represents a single breadcrumb navigation item
type BreadcrumbItem struct {
	Name      string
	URL       string
	IsCurrent bool
}

// childrenBreadcrumb returns the base "Children" breadcrumb
func childrenBreadcrumb(isCurrent bool) BreadcrumbItem {
	return BreadcrumbItem{Name: "Children", URL: "/", IsCurrent: isCurrent}
}

// childBreadcrumb returns a breadcrumb for a single child
func childBreadcrumb(childID, name string, isCurrent bool) BreadcrumbItem {
	return BreadcrumbItem{Name: name, URL: "/child/" + childID, IsCurrent: isCurrent}
}

func referenceBreadcrumb(isCurrent bool) BreadcrumbItem {
	return BreadcrumbItem{Name: "WHO Reference", URL: "/reference", IsCurrent: isCurrent}
}
