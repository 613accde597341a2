// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategorySystem    = "system"
	EventCategoryMenu      = "menu"
	EventCategoryPage      = "page"
	EventCategoryScheduler = "scheduler"
)

// Event represents an operational event log entry. WARN and ERROR logs
// are mirrored here so that cascade inconsistencies stay visible after
// the fact.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	Metadata  sql.NullString
	CreatedAt time.Time
}
