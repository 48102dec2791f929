/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package parse

import "errors"

var (
	// ErrPatientNotIdentified is returned when no patient name could be
	// extracted. Callers are expected to ask an operator for the name.
	ErrPatientNotIdentified = errors.New("patient not identified in report text")

	// ErrNoParametersDetected is returned when the full catalog scan
	// yields nothing; the report is unreadable or in an unsupported format.
	ErrNoParametersDetected = errors.New("no known parameters detected in report text")

	// ErrNotANumber is returned by the number normalizer for empty,
	// oversized or unparseable tokens.
	ErrNotANumber = errors.New("token is not a number")
)
