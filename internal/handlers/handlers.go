// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package handlers contains all HTTP handlers.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iteratehackerspace/silicondzor/internal/repository"
	"github.com/iteratehackerspace/silicondzor/internal/templates"
)

// Handlers contains the public, non-auth HTTP handlers.
type Handlers struct {
	repo *repository.Repository
}

// New creates a new Handlers instance.
func New(repo *repository.Repository) *Handlers {
	return &Handlers{repo: repo}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Home renders the event calendar page with all events embedded as JSON, so
// the frontend bundle does not need a second request to fetch them.
func (h *Handlers) Home(c echo.Context) error {
	events, err := h.repo.ListEvents(c.Request().Context())
	if err != nil {
		slog.Error("failed to list events", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return Render(c, http.StatusOK, templates.Home(events))
}

// NotFound is the catch-all handler for unmatched routes.
func (h *Handlers) NotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, Fail(ReasonUnknownResource))
}
