/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/icudata/labwatch/parse"
)

// SaveRecord stores a parsed report under a patient and returns the new
// record id. The record row and its values are written in one transaction.
func SaveRecord(ctx context.Context, patientID string, rec *parse.SampleRecord) (string, error) {
	if pool == nil {
		return "", ErrDatabaseConnectionNotInitialized
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id string
	query := `
		INSERT INTO lab_records (patient_id, protocol_id, sample_date, sample_time, sample_at, raw_text)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err = tx.QueryRow(ctx, query,
		patientID, rec.ProtocolID, rec.SampleDate, rec.SampleTime, rec.Timestamp, rec.RawText,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert record: %w", err)
	}

	for key, value := range rec.Parameters {
		_, err = tx.Exec(ctx, `
			INSERT INTO lab_record_values (record_id, parameter_key, value)
			VALUES ($1, $2, $3)
		`, id, key, value)
		if err != nil {
			return "", fmt.Errorf("failed to insert value %s: %w", key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit record: %w", err)
	}

	return id, nil
}

// GetRecord returns one stored record with its values.
func GetRecord(ctx context.Context, id string) (*LabRecord, map[string]float64, error) {
	if pool == nil {
		return nil, nil, ErrDatabaseConnectionNotInitialized
	}

	var rec LabRecord
	query := `
		SELECT id, patient_id, protocol_id, sample_date, sample_time, sample_at, raw_text, created_at
		FROM lab_records
		WHERE id = $1
	`

	err := pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.PatientID, &rec.ProtocolID, &rec.SampleDate, &rec.SampleTime,
		&rec.SampleAt, &rec.RawText, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrRecordNotFound
		}
		return nil, nil, fmt.Errorf("failed to get record: %w", err)
	}

	values, err := recordValues(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return &rec, values, nil
}

func recordValues(ctx context.Context, recordID string) (map[string]float64, error) {
	rows, err := pool.Query(ctx, `
		SELECT parameter_key, value
		FROM lab_record_values
		WHERE record_id = $1
	`, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query record values: %w", err)
	}
	defer rows.Close()

	values := make(map[string]float64)
	for rows.Next() {
		var key string
		var value float64
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		values[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating values: %w", err)
	}

	return values, nil
}

// StoredRecord pairs a record row with its reconstructed parse form.
type StoredRecord struct {
	LabRecord
	Sample *parse.SampleRecord
}

// GetPatientHistory returns a patient's records newest first, each with
// its values reassembled into a SampleRecord for duplicate checks and
// rendering.
func GetPatientHistory(ctx context.Context, patientID string) ([]StoredRecord, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	patient, err := GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, `
		SELECT id, patient_id, protocol_id, sample_date, sample_time, sample_at, raw_text, created_at
		FROM lab_records
		WHERE patient_id = $1
		ORDER BY sample_at DESC, created_at DESC
	`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query patient history: %w", err)
	}
	defer rows.Close()

	var records []StoredRecord
	for rows.Next() {
		var rec LabRecord
		err := rows.Scan(
			&rec.ID, &rec.PatientID, &rec.ProtocolID, &rec.SampleDate, &rec.SampleTime,
			&rec.SampleAt, &rec.RawText, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, StoredRecord{LabRecord: rec})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	for i := range records {
		values, err := recordValues(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Sample = &parse.SampleRecord{
			PatientName: patient.Name,
			ProtocolID:  records[i].ProtocolID,
			SampleDate:  records[i].SampleDate,
			SampleTime:  records[i].SampleTime,
			Parameters:  values,
			RawText:     records[i].RawText,
			Timestamp:   records[i].SampleAt,
		}
	}

	return records, nil
}

// Samples extracts the parse-form records from a history slice.
func Samples(history []StoredRecord) []*parse.SampleRecord {
	samples := make([]*parse.SampleRecord, len(history))
	for i := range history {
		samples[i] = history[i].Sample
	}
	return samples
}

// GetParameterSeries returns one parameter's chronological values for a
// patient, oldest first, for trend charts.
func GetParameterSeries(ctx context.Context, patientID, parameterKey string) ([]ParameterPoint, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `
		SELECT r.sample_at, v.value
		FROM lab_record_values v
		JOIN lab_records r ON r.id = v.record_id
		WHERE r.patient_id = $1 AND v.parameter_key = $2
		ORDER BY r.sample_at ASC
	`, patientID, parameterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query parameter series: %w", err)
	}
	defer rows.Close()

	var points []ParameterPoint
	for rows.Next() {
		var p ParameterPoint
		if err := rows.Scan(&p.SampleAt, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating points: %w", err)
	}

	return points, nil
}

// ListRecentRecords returns the newest records across all patients.
func ListRecentRecords(ctx context.Context, limit int) ([]StoredRecord, []Patient, error) {
	if pool == nil {
		return nil, nil, ErrDatabaseConnectionNotInitialized
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := pool.Query(ctx, `
		SELECT r.id, r.patient_id, r.protocol_id, r.sample_date, r.sample_time, r.sample_at, r.raw_text, r.created_at,
			p.id, p.name, p.created_at, p.updated_at
		FROM lab_records r
		JOIN patients p ON p.id = r.patient_id
		ORDER BY r.sample_at DESC, r.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list recent records: %w", err)
	}
	defer rows.Close()

	var records []StoredRecord
	var patients []Patient
	for rows.Next() {
		var rec LabRecord
		var p Patient
		err := rows.Scan(
			&rec.ID, &rec.PatientID, &rec.ProtocolID, &rec.SampleDate, &rec.SampleTime,
			&rec.SampleAt, &rec.RawText, &rec.CreatedAt,
			&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, StoredRecord{LabRecord: rec})
		patients = append(patients, p)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating records: %w", err)
	}

	for i := range records {
		values, err := recordValues(ctx, records[i].ID)
		if err != nil {
			return nil, nil, err
		}
		records[i].Sample = &parse.SampleRecord{
			PatientName: patients[i].Name,
			ProtocolID:  records[i].ProtocolID,
			SampleDate:  records[i].SampleDate,
			SampleTime:  records[i].SampleTime,
			Parameters:  values,
			RawText:     records[i].RawText,
			Timestamp:   records[i].SampleAt,
		}
	}

	return records, patients, nil
}

// DeleteRecord deletes a record (cascades to its values)
func DeleteRecord(ctx context.Context, id string) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	_, err := pool.Exec(ctx, `DELETE FROM lab_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	return nil
}
