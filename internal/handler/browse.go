// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines handlers for the public browsing API. These routes allow
// unauthenticated users to browse events and their stand floor plans without
// requiring authentication. Internal fields are filtered from responses.

package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/expoflow/exhibition-backend/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated browsing.
// It produces sanitized responses suitable for public consumption.
type PublicHandler struct {
	EventRepo *repository.EventRepo // provides access to event data
	StandRepo *repository.StandRepo // provides access to stand data
}

// PublicEvent represents an event exposed via the public API. It contains
// only safe fields.
type PublicEvent struct {
	ID       uint64    `json:"id"`
	Name     string    `json:"name"`
	Venue    string    `json:"venue"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// ListEvents returns all published events, soonest first.
// Response JSON contains an "items" array of PublicEvent.
func (h *PublicHandler) ListEvents(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := h.EventRepo.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, PublicEvent{ID: ev.ID, Name: ev.Name, Venue: ev.Venue, StartsAt: ev.StartsAt, EndsAt: ev.EndsAt})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetEvent returns details of a single published event.
func (h *PublicHandler) GetEvent(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ev, err := h.EventRepo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, PublicEvent{ID: ev.ID, Name: ev.Name, Venue: ev.Venue, StartsAt: ev.StartsAt, EndsAt: ev.EndsAt})
}

// ListEventStands returns the floor plan of an event: every active stand
// offered at the event with its type, services and availability status.
// Reserved stands are included so clients can render the full plan.
func (h *PublicHandler) ListEventStands(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	// ensure event exists
	if _, err := h.EventRepo.GetByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	stands, err := h.StandRepo.ListForEvent(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": stands})
}
