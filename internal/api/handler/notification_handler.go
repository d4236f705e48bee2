package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/newsnotify/notification-system/internal/api/metrics"
	"github.com/newsnotify/notification-system/internal/core/ports"
)

// NotificationHandler handles the ownership-scoped notification CRUD.
// Every route is registered behind the Auth middleware.
type NotificationHandler struct {
	service ports.NotificationService
}

func NewNotificationHandler(service ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// Create registers a new notification owned by the authenticated user.
//
// @Summary      Create a notification
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createNotificationRequest  true  "Notification details"
// @Success      201   {object}  notificationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/notifications [post]
func (h *NotificationHandler) Create(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.service.Create(c.Request().Context(), user.ID, ports.CreateNotificationInput{
		Receivers:      req.Receivers,
		SearchQuery:    req.SearchQuery,
		RelevancyScore: req.RelevancyScore,
		Frequency:      req.Frequency,
		Days:           req.Days,
		Time:           req.Time,
		Timezone:       req.Timezone,
	})
	if err != nil {
		return err
	}

	metrics.NotificationsCreatedTotal.WithLabelValues(string(created.Frequency)).Inc()
	return c.JSON(http.StatusCreated, notificationResponse{
		Message:      "Notification created successfully",
		Notification: created,
	})
}

// List returns every notification owned by the authenticated user. An
// owner with none gets an empty array, not a 404.
//
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Notification
// @Failure      401  {object}  errorResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	items, err := h.service.List(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, items)
}

// Update applies a partial update to an owned notification.
//
// @Summary      Update a notification
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                     true  "Notification id"
// @Param        body  body      updateNotificationRequest  true  "Fields to change"
// @Success      200   {object}  notificationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/notifications/{id} [put]
func (h *NotificationHandler) Update(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req updateNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.service.Update(c.Request().Context(), user.ID, c.Param("id"), ports.UpdateNotificationInput{
		Receivers:      req.Receivers,
		SearchQuery:    req.SearchQuery,
		RelevancyScore: req.RelevancyScore,
		Frequency:      req.Frequency,
		Days:           req.Days,
		Time:           req.Time,
		Timezone:       req.Timezone,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, notificationResponse{
		Message:      "Notification updated successfully",
		Notification: updated,
	})
}

// Delete removes an owned notification.
//
// @Summary      Delete a notification
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Notification id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/notifications/{id} [delete]
func (h *NotificationHandler) Delete(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Notification removed successfully."})
}
