/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import "errors"

var (
	ErrDatabaseConnectionNotInitialized = errors.New("database connection not initialized")
	ErrDatabaseURLEnvVarNotSet          = errors.New("DATABASE_URL environment variable not set")
	ErrDatabaseNameNotSpecified         = errors.New("database URL does not specify a database name")
	ErrPatientNotFound                  = errors.New("patient not found")
	ErrRecordNotFound                   = errors.New("record not found")
)
