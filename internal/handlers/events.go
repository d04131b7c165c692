// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iteratehackerspace/silicondzor/internal/models"
	"github.com/iteratehackerspace/silicondzor/internal/repository"
	"github.com/iteratehackerspace/silicondzor/internal/services/session"
)

// EventHandlers contains handlers for event creation.
type EventHandlers struct {
	repo     *repository.Repository
	sessions *session.Manager
}

// NewEvents creates a new EventHandlers instance.
func NewEvents(repo *repository.Repository, sessions *session.Manager) *EventHandlers {
	return &EventHandlers{repo: repo, sessions: sessions}
}

// AddEventRequest is the request body for creating an event. Start and End
// are RFC 3339 timestamps.
type AddEventRequest struct {
	Title       string `json:"event_title" form:"event_title"`
	Start       string `json:"start" form:"start"`
	End         string `json:"end" form:"end"`
	Description string `json:"event_description" form:"event_description"`
}

// AddEvent creates a tech event for the signed-in account. The session check
// runs before anything touches the store, so an unauthenticated request has
// no side effects at all.
func (h *EventHandlers) AddEvent(c echo.Context) error {
	sess := h.sessions.Get(c.Request())
	if !sess.LoggedIn {
		return c.JSON(http.StatusOK, Fail(ReasonInvalidSession))
	}

	var req AddEventRequest
	if err := c.Bind(&req); err != nil || req.Title == "" {
		return c.JSON(http.StatusOK, Fail(ReasonBadRequest))
	}

	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		return c.JSON(http.StatusOK, Fail(ReasonBadRequest))
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		return c.JSON(http.StatusOK, Fail(ReasonBadRequest))
	}

	ctx := c.Request().Context()

	creator, err := h.repo.GetVerifiedAccount(ctx, sess.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusOK, Fail(ReasonInvalidSession))
		}
		slog.Error("failed to load event creator", "email", sess.Username, "error", err)
		return c.JSON(http.StatusOK, Fail(ReasonEventFailed))
	}

	event := &models.Event{
		Title:       req.Title,
		AllDay:      boolToInt64(start.Equal(end)),
		Start:       start.UnixMilli(),
		End:         end.UnixMilli(),
		Description: req.Description,
		Creator:     creator.ID,
	}
	if err := h.repo.CreateEvent(ctx, event); err != nil {
		slog.Error("failed to create event", "title", req.Title, "error", err)
		return c.JSON(http.StatusOK, Fail(ReasonEventFailed))
	}

	return c.JSON(http.StatusOK, Ok())
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
