/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"fmt"

	"github.com/icudata/labwatch/parse"
)

// CatalogParameter is one catalog row as stored for reporting queries.
type CatalogParameter struct {
	Key          string
	Unit         string
	Abbreviation string
	Position     int
}

// SyncCatalog upserts the compiled-in parameter catalog. The code is the
// source of truth; rows are only read by SQL reporting and the export
// endpoints.
func SyncCatalog(ctx context.Context) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, spec := range parse.DefaultCatalog().Specs() {
		_, err = tx.Exec(ctx, `
			INSERT INTO catalog_parameters (key, unit, abbreviation, position)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (key) DO UPDATE
			SET unit = EXCLUDED.unit,
				abbreviation = EXCLUDED.abbreviation,
				position = EXCLUDED.position
		`, spec.Key, spec.Unit, spec.Abbreviation, i)
		if err != nil {
			return fmt.Errorf("failed to upsert catalog parameter %s: %w", spec.Key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit catalog sync: %w", err)
	}

	logger.Debug("Parameter catalog synced", "parameters", parse.DefaultCatalog().Len())

	return nil
}

// ListCatalogParameters returns the stored catalog in display order.
func ListCatalogParameters(ctx context.Context) ([]CatalogParameter, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `
		SELECT key, unit, abbreviation, position
		FROM catalog_parameters
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog parameters: %w", err)
	}
	defer rows.Close()

	var params []CatalogParameter
	for rows.Next() {
		var p CatalogParameter
		if err := rows.Scan(&p.Key, &p.Unit, &p.Abbreviation, &p.Position); err != nil {
			return nil, fmt.Errorf("failed to scan catalog parameter: %w", err)
		}
		params = append(params, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog parameters: %w", err)
	}

	return params, nil
}
