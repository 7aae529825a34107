package handler

import (
	"errors"
	"fmt"
	"net/http"

	"sportreminder/internal/application/dto"
	"sportreminder/internal/application/service"
	"sportreminder/internal/pkg/clock"
	appErrors "sportreminder/internal/pkg/errors"
	"sportreminder/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ReminderHandler serves the reminder boards and their mutations as JSON.
type ReminderHandler struct {
	reminderService service.ReminderService
	feed            *service.AlertFeed
	clock           clock.Clock
	log             logger.Logger
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(
	reminderService service.ReminderService,
	feed *service.AlertFeed,
	clk clock.Clock,
	log logger.Logger,
) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
		feed:            feed,
		clock:           clk,
		log:             log,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// ListCategories handles GET /api/categories.
func (h *ReminderHandler) ListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, h.reminderService.ListCategories())
}

// GetBoards handles GET /api/boards.
func (h *ReminderHandler) GetBoards(c echo.Context) error {
	now := h.clock.Now()
	boards := h.reminderService.GetBoards(c.Request().Context(), now)
	return c.JSON(http.StatusOK, dto.ToBoardsResponse(boards, now))
}

// AddReminder handles POST /api/reminders.
func (h *ReminderHandler) AddReminder(c echo.Context) error {
	var req dto.AddReminderRequest
	if err := c.Bind(&req); err != nil {
		return h.respondError(c, fmt.Errorf("%w: malformed request body", appErrors.ErrValidation))
	}
	reminder, err := h.reminderService.AddReminder(c.Request().Context(), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.ToReminderResponse(reminder, h.clock.Now()))
}

// Snooze handles POST /api/reminders/:id/snooze. The body is optional.
func (h *ReminderHandler) Snooze(c echo.Context) error {
	var req dto.SnoozeRequest
	if err := c.Bind(&req); err != nil {
		return h.respondError(c, fmt.Errorf("%w: malformed request body", appErrors.ErrValidation))
	}
	if err := h.reminderService.Snooze(c.Request().Context(), c.Param("id"), req.Minutes); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkDone handles POST /api/reminders/:id/done.
func (h *ReminderHandler) MarkDone(c echo.Context) error {
	if err := h.reminderService.MarkDone(c.Request().Context(), c.Param("id")); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/reminders/:id.
func (h *ReminderHandler) Delete(c echo.Context) error {
	if err := h.reminderService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PollAlerts handles POST /api/alerts/poll. It returns alerts queued by the
// scheduler that are still pending, followed by anything newly due right now.
// The feed is only drained after a successful poll so a failure loses nothing.
func (h *ReminderHandler) PollAlerts(c echo.Context) error {
	now := h.clock.Now()
	fresh, err := h.reminderService.PollForAlerts(c.Request().Context(), now)
	if err != nil {
		return h.respondError(c, err)
	}
	queued := h.reminderService.ConfirmAlerts(c.Request().Context(), h.feed.Drain())
	alerts := append(queued, fresh...)
	return c.JSON(http.StatusOK, dto.AlertsResponse{Alerts: dto.ToReminderResponseList(alerts, now)})
}

// respondError maps application errors onto HTTP status codes.
func (h *ReminderHandler) respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, appErrors.ErrValidation), errors.Is(err, appErrors.ErrInvalidDateTime):
		h.log.Warn(fmt.Sprintf("Bad request on %s %s: %v", c.Request().Method, c.Path(), err))
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		h.log.Error(fmt.Sprintf("Request failed on %s %s", c.Request().Method, c.Path()), err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: appErrors.ErrInternalServer.Error()})
	}
}
