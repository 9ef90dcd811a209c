package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/internal/adapter/dto"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
	"github.com/johnquangdev/meeting-notes/internal/usecase/meeting"
)

const invalidMeetingStatusMsg = "Invalid status. Must be one of: pending, processing, completed, failed"

// MeetingHandler serves the meeting endpoints
type MeetingHandler struct {
	service meeting.Service
	logger  *zap.Logger
}

// NewMeetingHandler creates a meeting handler
func NewMeetingHandler(service meeting.Service, logger *zap.Logger) *MeetingHandler {
	return &MeetingHandler{service: service, logger: logger}
}

// List godoc
// @Summary List meetings
// @Description List meetings with optional status and date range filters
// @Tags meetings
// @Produce json
// @Param status query string false "Filter by status"
// @Param dateFrom query string false "Earliest meeting date"
// @Param dateTo query string false "Latest meeting date"
// @Success 200 {object} successResponse
// @Router /api/meetings [get]
func (h *MeetingHandler) List(c echo.Context) error {
	var filters repositories.MeetingFilters

	if status := c.QueryParam("status"); status != "" {
		parsed := entities.MeetingStatus(status)
		if !parsed.Valid() {
			return HandleBadRequest(c, invalidMeetingStatusMsg)
		}
		filters.Status = parsed
	}
	if from := c.QueryParam("dateFrom"); from != "" {
		t, ok := dto.ParseDate(from)
		if !ok {
			return HandleBadRequest(c, "Invalid dateFrom format")
		}
		filters.DateFrom = &t
	}
	if to := c.QueryParam("dateTo"); to != "" {
		t, ok := dto.ParseDate(to)
		if !ok {
			return HandleBadRequest(c, "Invalid dateTo format")
		}
		filters.DateTo = &t
	}

	meetings, err := h.service.List(c.Request().Context(), filters)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleList(c, meetings, len(meetings))
}

// Get godoc
// @Summary Get a meeting
// @Description Get one meeting with its action items
// @Tags meetings
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} successResponse
// @Failure 404 {object} errorResponse
// @Router /api/meetings/{id} [get]
func (h *MeetingHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleBadRequest(c, "Invalid meeting ID")
	}

	found, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleSuccess(c, found)
}

// Create godoc
// @Summary Create a meeting
// @Description Create a meeting; a notetaker bot is invited when a meeting URL is given
// @Tags meetings
// @Accept json
// @Produce json
// @Param meeting body dto.CreateMeetingRequest true "Meeting"
// @Success 201 {object} successResponse
// @Failure 400 {object} errorResponse
// @Router /api/meetings [post]
func (h *MeetingHandler) Create(c echo.Context) error {
	var req dto.CreateMeetingRequest
	if err := c.Bind(&req); err != nil {
		return HandleBadRequest(c, "Invalid request body")
	}

	if req.Title == "" || req.Date == "" || req.Duration == nil {
		return HandleBadRequest(c, "Missing required fields: title, date, and duration are required")
	}
	if *req.Duration <= 0 {
		return HandleBadRequest(c, "Duration must be a positive number")
	}
	date, ok := dto.ParseDate(req.Date)
	if !ok {
		return HandleBadRequest(c, "Invalid date format")
	}

	input := meeting.CreateMeetingInput{
		Title:             req.Title,
		Date:              date,
		Duration:          *req.Duration,
		MeetingURL:        req.MeetingURL,
		ExternalMeetingID: req.ExternalMeetingID,
		TranscriptURL:     req.TranscriptURL,
		TranscriptText:    req.TranscriptText,
		Metadata:          req.Metadata,
	}
	if req.Provider != "" {
		provider := entities.MeetingProvider(req.Provider)
		if !provider.Valid() {
			return HandleBadRequest(c, "Invalid provider. Must be one of: zoom, google_meet, microsoft_teams")
		}
		input.Provider = provider
	}

	created, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleCreated(c, created)
}

// Update godoc
// @Summary Update a meeting
// @Description Partially update a meeting
// @Tags meetings
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param meeting body dto.UpdateMeetingRequest true "Fields to update"
// @Success 200 {object} successResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/meetings/{id} [patch]
func (h *MeetingHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleBadRequest(c, "Invalid meeting ID")
	}

	var req dto.UpdateMeetingRequest
	if err := c.Bind(&req); err != nil {
		return HandleBadRequest(c, "Invalid request body")
	}
	if req.Empty() {
		return HandleBadRequest(c, "No updates provided")
	}
	if req.Duration != nil && *req.Duration <= 0 {
		return HandleBadRequest(c, "Duration must be a positive number")
	}

	input := meeting.UpdateMeetingInput{
		Title:          req.Title,
		Duration:       req.Duration,
		MeetingURL:     req.MeetingURL,
		TranscriptURL:  req.TranscriptURL,
		TranscriptText: req.TranscriptText,
		Summary:        req.Summary,
		Metadata:       req.Metadata,
	}
	if req.Date != nil {
		date, ok := dto.ParseDate(*req.Date)
		if !ok {
			return HandleBadRequest(c, "Invalid date format")
		}
		input.Date = &date
	}

	updated, err := h.service.Update(c.Request().Context(), id, input)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleSuccess(c, updated)
}

// Delete godoc
// @Summary Delete a meeting
// @Description Delete a meeting and its action items
// @Tags meetings
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} successResponse
// @Failure 404 {object} errorResponse
// @Router /api/meetings/{id} [delete]
func (h *MeetingHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleBadRequest(c, "Invalid meeting ID")
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleMessage(c, "Meeting deleted successfully")
}

// Process godoc
// @Summary Process a meeting
// @Description Run summarization and action item extraction over the transcript
// @Tags meetings
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} successResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/meetings/{id}/process [post]
func (h *MeetingHandler) Process(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleBadRequest(c, "Invalid meeting ID")
	}

	processed, err := h.service.Process(c.Request().Context(), id)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleSuccess(c, processed)
}

// Stats godoc
// @Summary Meeting statistics
// @Description Per-status meeting counts
// @Tags meetings
// @Produce json
// @Success 200 {object} successResponse
// @Router /api/meetings/stats [get]
func (h *MeetingHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleSuccess(c, stats)
}

// Health godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
