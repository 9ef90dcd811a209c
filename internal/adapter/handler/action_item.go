package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/internal/adapter/dto"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
	"github.com/johnquangdev/meeting-notes/internal/usecase/actionitem"
)

const (
	invalidPriorityMsg       = "Invalid priority. Must be High, Medium, or Low"
	invalidActionItemStatMsg = "Invalid status. Must be Pending or Completed"
)

// ActionItemHandler serves the action item endpoints
type ActionItemHandler struct {
	service actionitem.Service
	logger  *zap.Logger
}

// NewActionItemHandler creates an action item handler
func NewActionItemHandler(service actionitem.Service, logger *zap.Logger) *ActionItemHandler {
	return &ActionItemHandler{service: service, logger: logger}
}

// List godoc
// @Summary List action items
// @Description List action items across meetings, highest priority first
// @Tags action-items
// @Produce json
// @Param priority query string false "Filter by priority"
// @Param status query string false "Filter by status"
// @Param meetingId query string false "Filter by meeting"
// @Success 200 {object} successResponse
// @Router /api/action-items [get]
func (h *ActionItemHandler) List(c echo.Context) error {
	var filters repositories.ActionItemFilters

	if priority := c.QueryParam("priority"); priority != "" {
		parsed := entities.ActionItemPriority(priority)
		if !parsed.Valid() {
			return HandleBadRequest(c, invalidPriorityMsg)
		}
		filters.Priority = parsed
	}
	if status := c.QueryParam("status"); status != "" {
		parsed := entities.ActionItemStatus(status)
		if !parsed.Valid() {
			return HandleBadRequest(c, invalidActionItemStatMsg)
		}
		filters.Status = parsed
	}
	if meetingID := c.QueryParam("meetingId"); meetingID != "" {
		parsed, err := uuid.Parse(meetingID)
		if err != nil {
			return HandleBadRequest(c, "Invalid meeting ID")
		}
		filters.MeetingID = &parsed
	}
	if before := c.QueryParam("dueBefore"); before != "" {
		t, ok := dto.ParseDate(before)
		if !ok {
			return HandleBadRequest(c, "Invalid dueBefore format")
		}
		filters.DueBefore = &t
	}
	if after := c.QueryParam("dueAfter"); after != "" {
		t, ok := dto.ParseDate(after)
		if !ok {
			return HandleBadRequest(c, "Invalid dueAfter format")
		}
		filters.DueAfter = &t
	}

	items, err := h.service.List(c.Request().Context(), filters)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	responses := make([]dto.ActionItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.NewActionItemResponse(item))
	}
	return HandleList(c, responses, len(responses))
}

// ListByMeeting godoc
// @Summary List action items for a meeting
// @Tags action-items
// @Produce json
// @Param meetingId path string true "Meeting ID"
// @Success 200 {object} successResponse
// @Failure 404 {object} errorResponse
// @Router /api/action-items/meeting/{meetingId} [get]
func (h *ActionItemHandler) ListByMeeting(c echo.Context) error {
	meetingID, err := uuid.Parse(c.Param("meetingId"))
	if err != nil {
		return HandleBadRequest(c, "Invalid meeting ID")
	}

	items, err := h.service.ListByMeeting(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleList(c, items, len(items))
}

// Get godoc
// @Summary Get an action item
// @Tags action-items
// @Produce json
// @Param id path string true "Action item ID"
// @Success 200 {object} successResponse
// @Failure 404 {object} errorResponse
// @Router /api/action-items/{id} [get]
func (h *ActionItemHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleBadRequest(c, "Invalid action item ID")
	}

	item, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleSuccess(c, item)
}

// Create godoc
// @Summary Create an action item
// @Tags action-items
// @Accept json
// @Produce json
// @Param item body dto.CreateActionItemRequest true "Action item"
// @Success 201 {object} successResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/action-items [post]
func (h *ActionItemHandler) Create(c echo.Context) error {
	var req dto.CreateActionItemRequest
	if err := c.Bind(&req); err != nil {
		return HandleBadRequest(c, "Invalid request body")
	}

	if req.MeetingID == "" || req.Text == "" {
		return HandleBadRequest(c, "Missing required fields: meetingId and text are required")
	}
	meetingID, err := uuid.Parse(req.MeetingID)
	if err != nil {
		return HandleBadRequest(c, "Invalid meeting ID")
	}

	input := actionitem.CreateActionItemInput{
		MeetingID: meetingID,
		Text:      req.Text,
		Priority:  entities.ActionItemPriorityMedium,
		Assignee:  req.Assignee,
	}
	if req.Priority != "" {
		priority := entities.ActionItemPriority(req.Priority)
		if !priority.Valid() {
			return HandleBadRequest(c, invalidPriorityMsg)
		}
		input.Priority = priority
	}
	if req.DueDate != "" {
		due, ok := dto.ParseDate(req.DueDate)
		if !ok {
			return HandleBadRequest(c, "Invalid dueDate format")
		}
		input.DueDate = &due
	}

	created, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleCreated(c, created)
}

// Update godoc
// @Summary Update an action item
// @Tags action-items
// @Accept json
// @Produce json
// @Param id path string true "Action item ID"
// @Param item body dto.UpdateActionItemRequest true "Fields to update"
// @Success 200 {object} successResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/action-items/{id} [patch]
func (h *ActionItemHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleBadRequest(c, "Invalid action item ID")
	}

	var req dto.UpdateActionItemRequest
	if err := c.Bind(&req); err != nil {
		return HandleBadRequest(c, "Invalid request body")
	}
	if req.Empty() {
		return HandleBadRequest(c, "No updates provided")
	}

	input := actionitem.UpdateActionItemInput{
		Text:     req.Text,
		Assignee: req.Assignee,
	}
	if req.Priority != nil {
		priority := entities.ActionItemPriority(*req.Priority)
		if !priority.Valid() {
			return HandleBadRequest(c, invalidPriorityMsg)
		}
		input.Priority = &priority
	}
	if req.Status != nil {
		status := entities.ActionItemStatus(*req.Status)
		if !status.Valid() {
			return HandleBadRequest(c, invalidActionItemStatMsg)
		}
		input.Status = &status
	}
	if req.DueDate != nil {
		due, ok := dto.ParseDate(*req.DueDate)
		if !ok {
			return HandleBadRequest(c, "Invalid dueDate format")
		}
		input.DueDate = &due
	}

	updated, err := h.service.Update(c.Request().Context(), id, input)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleSuccess(c, updated)
}

// Delete godoc
// @Summary Delete an action item
// @Tags action-items
// @Produce json
// @Param id path string true "Action item ID"
// @Success 200 {object} successResponse
// @Failure 404 {object} errorResponse
// @Router /api/action-items/{id} [delete]
func (h *ActionItemHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleBadRequest(c, "Invalid action item ID")
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleMessage(c, "Action item deleted successfully")
}

// Stats godoc
// @Summary Action item statistics
// @Description Aggregate action item counts, optionally scoped to a meeting
// @Tags action-items
// @Produce json
// @Param meetingId query string false "Scope to one meeting"
// @Success 200 {object} successResponse
// @Router /api/action-items/stats [get]
func (h *ActionItemHandler) Stats(c echo.Context) error {
	var meetingID *uuid.UUID
	if raw := c.QueryParam("meetingId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return HandleBadRequest(c, "Invalid meeting ID")
		}
		meetingID = &parsed
	}

	stats, err := h.service.Stats(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleSuccess(c, stats)
}
