/*
 * Copyright 2026 Labwatch Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "github.com/icudata/labwatch/logging"

var appLogger = logging.Logger(logging.SourceApp)
var importLogger = logging.Logger(logging.SourceImport)
