/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package growthapi

import "github.com/humaidq/growthwave/logging"

var logger = logging.Logger(logging.SourceGrowthAPI)
