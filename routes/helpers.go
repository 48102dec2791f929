/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import "github.com/google/uuid"

// validID reports whether a route id parameter is a well-formed UUID.
// Rejecting garbage here keeps malformed ids from surfacing as database
// type errors.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
