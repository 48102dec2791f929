/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"log"
	"net/http"

	"github.com/flamego/flamego"
	"github.com/flamego/template"

	"github.com/icudata/labwatch/db"
)

// CatalogList displays the recognized parameters with their units and
// summary-line abbreviations.
func CatalogList(c flamego.Context, t template.Template, data template.Data) {
	params, err := db.ListCatalogParameters(c.Request().Context())
	if err != nil {
		log.Printf("Error fetching catalog: %v", err)
		data["Error"] = "Failed to load the parameter catalog"
	} else {
		data["Parameters"] = params
	}

	data["IsCatalog"] = true
	t.HTML(http.StatusOK, "catalog")
}
