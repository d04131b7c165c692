// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

// Event is a tech event shown on the calendar. Start and End are Unix
// timestamps in milliseconds, matching what the frontend calendar expects.
type Event struct { //nolint:govet // fieldalignment: readability over optimization
	ID          int64  `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	AllDay      int64  `db:"all_day" json:"allDay"`
	Start       int64  `db:"start" json:"start"`
	End         int64  `db:"end" json:"end"`
	Description string `db:"description" json:"desc"`
	Creator     int64  `db:"creator" json:"-"`
}
