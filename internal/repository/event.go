// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/iteratehackerspace/silicondzor/internal/models"
)

// ListEvents returns all events ordered by start time.
func (r *Repository) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := r.db.SelectContext(ctx, &events, `SELECT * FROM event ORDER BY start`)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// CreateEvent inserts a new event.
func (r *Repository) CreateEvent(ctx context.Context, event *models.Event) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO event (title, all_day, start, "end", description, creator)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		event.Title, event.AllDay, event.Start, event.End, event.Description, event.Creator)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		event.ID = id
	}
	return nil
}
