/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import "github.com/icudata/labwatch/logging"

var logger = logging.Logger(logging.SourceDB)
