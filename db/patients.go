/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// canonicalPatientName normalizes an extracted name for identity matching.
func canonicalPatientName(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), " "))
}

// GetOrCreatePatient returns the patient row for an extracted name,
// creating it on first sight.
func GetOrCreatePatient(ctx context.Context, name string) (*Patient, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	canonical := canonicalPatientName(name)
	if canonical == "" {
		return nil, ErrPatientNotFound
	}

	var patient Patient
	query := `
		INSERT INTO patients (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET updated_at = now()
		RETURNING id, name, created_at, updated_at
	`

	err := pool.QueryRow(ctx, query, canonical).Scan(
		&patient.ID, &patient.Name, &patient.CreatedAt, &patient.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create patient: %w", err)
	}

	return &patient, nil
}

// GetPatient returns a single patient by ID
func GetPatient(ctx context.Context, id string) (*Patient, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	var patient Patient
	query := `
		SELECT id, name, created_at, updated_at
		FROM patients
		WHERE id = $1
	`

	err := pool.QueryRow(ctx, query, id).Scan(
		&patient.ID, &patient.Name, &patient.CreatedAt, &patient.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	return &patient, nil
}

// ListPatients returns all patients with record counts, most recently
// sampled first.
func ListPatients(ctx context.Context) ([]PatientSummary, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT p.id, p.name, p.created_at, p.updated_at,
			COUNT(r.id), MAX(r.sample_at)
		FROM patients p
		LEFT JOIN lab_records r ON r.patient_id = p.id
		GROUP BY p.id
		ORDER BY MAX(r.sample_at) DESC NULLS LAST, p.name ASC
	`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	var patients []PatientSummary
	for rows.Next() {
		var p PatientSummary
		err := rows.Scan(
			&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt,
			&p.RecordCount, &p.LastSampleAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patients: %w", err)
	}

	return patients, nil
}

// DeletePatient deletes a patient (cascades to records and values)
func DeletePatient(ctx context.Context, id string) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	_, err := pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	return nil
}
