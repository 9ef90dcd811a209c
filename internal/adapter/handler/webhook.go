package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-notes/pkg/nylas"
)

// WebhookHandler receives Nylas notetaker callbacks
type WebhookHandler struct {
	service       meeting.Service
	webhookSecret string
	logger        *zap.Logger
}

// NewWebhookHandler creates the webhook handler. An empty secret
// disables signature verification; this is logged loudly at startup.
func NewWebhookHandler(service meeting.Service, webhookSecret string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{service: service, webhookSecret: webhookSecret, logger: logger}
}

type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		NotetakerID string `json:"notetaker_id"`
		Object      struct {
			NotetakerID string `json:"notetaker_id"`
			MediaType   string `json:"media_type"`
			MeetingLink string `json:"meeting_link"`
			Text        string `json:"text"`
			Summary     string `json:"summary"`
		} `json:"object"`
	} `json:"data"`
}

func (e webhookEvent) notetakerID() string {
	if e.Data.NotetakerID != "" {
		return e.Data.NotetakerID
	}
	return e.Data.Object.NotetakerID
}

// Challenge godoc
// @Summary Nylas webhook verification
// @Description Echoes the challenge parameter Nylas sends during webhook registration
// @Tags webhooks
// @Param challenge query string true "Challenge token"
// @Success 200 {string} string
// @Failure 400 {object} errorResponse
// @Router /api/webhooks/nylas [get]
func (h *WebhookHandler) Challenge(c echo.Context) error {
	challenge := c.QueryParam("challenge")
	if challenge == "" {
		return HandleBadRequest(c, "No challenge parameter received")
	}
	// Nylas expects the raw token back, not a JSON envelope
	return c.String(http.StatusOK, challenge)
}

// Receive godoc
// @Summary Nylas webhook events
// @Description Handles notetaker lifecycle and media events
// @Tags webhooks
// @Accept json
// @Success 200 {object} successResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /api/webhooks/nylas [post]
func (h *WebhookHandler) Receive(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleBadRequest(c, "Unable to read request body")
	}

	if h.webhookSecret != "" {
		signature := c.Request().Header.Get("X-Nylas-Signature")
		if !nylas.VerifyHMAC(h.webhookSecret, body, signature) {
			h.logger.Warn("rejected webhook with bad signature")
			return HandleError(c, h.logger, apperrors.ErrSignature())
		}
	} else {
		h.logger.Warn("accepting webhook without signature verification")
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return HandleBadRequest(c, "Invalid webhook payload")
	}

	switch event.Type {
	case "notetaker.media":
		notetakerID := event.notetakerID()
		if notetakerID == "" {
			return HandleBadRequest(c, "Webhook event missing notetaker id")
		}
		err := h.service.ApplyNotetakerMedia(
			c.Request().Context(),
			notetakerID,
			event.Data.Object.MeetingLink,
			event.Data.Object.Text,
			event.Data.Object.Summary,
		)
		if err != nil {
			return HandleError(c, h.logger, err)
		}
	case "notetaker.created", "notetaker.meeting_state":
		h.logger.Info("notetaker event",
			zap.String("type", event.Type),
			zap.String("notetaker_id", event.notetakerID()))
	default:
		h.logger.Debug("ignoring webhook event", zap.String("type", event.Type))
	}

	return HandleMessage(c, "Webhook received")
}
