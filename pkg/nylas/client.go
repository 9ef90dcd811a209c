package nylas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

const notetakerDisplayName = "Notetaker Bot (Recording & Transcribing)"

// Client talks to the Nylas v3 notetaker API. A client constructed
// without an API key is disabled and every call becomes a no-op.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a Nylas API client
func NewClient(apiKey, baseURL string, logger *zap.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// Enabled reports whether the client has credentials
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type inviteRequest struct {
	MeetingLink                 string `json:"meeting_link"`
	JoinTime                    int64  `json:"join_time,omitempty"`
	DisplayName                 string `json:"display_name"`
	SendRecordingConsentMessage bool   `json:"send_recording_consent_message"`
}

type inviteResponse struct {
	Data struct {
		ID          string `json:"id"`
		NotetakerID string `json:"notetaker_id"`
	} `json:"data"`
	ID          string `json:"id"`
	NotetakerID string `json:"notetaker_id"`
}

func (r inviteResponse) sessionID() string {
	switch {
	case r.Data.ID != "":
		return r.Data.ID
	case r.Data.NotetakerID != "":
		return r.Data.NotetakerID
	case r.ID != "":
		return r.ID
	default:
		return r.NotetakerID
	}
}

// InviteNotetaker asks Nylas to send the recording bot to a meeting and
// returns the notetaker session id. The provider is recorded for
// logging only; Nylas infers the platform from the link.
func (c *Client) InviteNotetaker(ctx context.Context, provider entities.MeetingProvider, meetingURL string, startsAt *time.Time) (string, error) {
	if !c.Enabled() {
		return "", nil
	}

	payload := inviteRequest{
		MeetingLink:                 meetingURL,
		DisplayName:                 notetakerDisplayName,
		SendRecordingConsentMessage: true,
	}
	if startsAt != nil && startsAt.After(time.Now()) {
		payload.JoinTime = startsAt.Unix()
	}

	var parsed inviteResponse
	if err := c.do(ctx, http.MethodPost, "/notetakers", payload, &parsed); err != nil {
		return "", fmt.Errorf("invite notetaker: %w", err)
	}
	id := parsed.sessionID()
	if id == "" {
		return "", fmt.Errorf("invite notetaker: response contained no session id")
	}
	c.logger.Info("notetaker invited",
		zap.String("provider", string(provider)),
		zap.String("notetaker_id", id))
	return id, nil
}

type transcriptionResponse struct {
	Data struct {
		TranscriptionText string `json:"transcription_text"`
		Text              string `json:"text"`
		Summary           string `json:"summary"`
	} `json:"data"`
	TranscriptionText string `json:"transcription_text"`
	Text              string `json:"text"`
	Summary           string `json:"summary"`
}

// FetchTranscription retrieves the transcript for a notetaker session.
// Failures are logged and read as empty strings: a transcript that
// cannot be fetched is treated the same as one that is not ready yet.
func (c *Client) FetchTranscription(ctx context.Context, notetakerID string) (text, summary string) {
	if !c.Enabled() {
		return "", ""
	}

	var parsed transcriptionResponse
	if err := c.do(ctx, http.MethodGet, "/notetakers/"+notetakerID+"/transcription", nil, &parsed); err != nil {
		c.logger.Warn("failed to fetch transcription",
			zap.String("notetaker_id", notetakerID), zap.Error(err))
		return "", ""
	}

	text = parsed.Data.TranscriptionText
	if text == "" {
		text = parsed.Data.Text
	}
	if text == "" {
		text = parsed.TranscriptionText
	}
	if text == "" {
		text = parsed.Text
	}
	summary = parsed.Data.Summary
	if summary == "" {
		summary = parsed.Summary
	}
	return text, summary
}

type webhookEntry struct {
	ID         string `json:"id"`
	WebhookURL string `json:"webhook_url"`
}

type listWebhooksResponse struct {
	Data []webhookEntry `json:"data"`
}

type createWebhookRequest struct {
	TriggerTypes []string `json:"trigger_types"`
	WebhookURL   string   `json:"webhook_url"`
	Description  string   `json:"description"`
}

// SetupWebhooks registers the notetaker webhook callback, replacing any
// stale registration pointing at the same URL. Registration is retried
// a few times because the service often comes up before its public URL
// resolves.
func (c *Client) SetupWebhooks(ctx context.Context, publicBaseURL string) error {
	if !c.Enabled() {
		return nil
	}
	callbackURL := publicBaseURL + "/api/webhooks/nylas"

	operation := func() error {
		var existing listWebhooksResponse
		if err := c.do(ctx, http.MethodGet, "/webhooks", nil, &existing); err != nil {
			return fmt.Errorf("list webhooks: %w", err)
		}
		for _, hook := range existing.Data {
			if hook.WebhookURL != callbackURL {
				continue
			}
			if err := c.do(ctx, http.MethodDelete, "/webhooks/"+hook.ID, nil, nil); err != nil {
				c.logger.Warn("failed to remove stale webhook",
					zap.String("webhook_id", hook.ID), zap.Error(err))
			}
		}

		payload := createWebhookRequest{
			TriggerTypes: []string{"notetaker.created", "notetaker.media", "notetaker.meeting_state"},
			WebhookURL:   callbackURL,
			Description:  "Meeting notes notetaker events",
		}
		if err := c.do(ctx, http.MethodPost, "/webhooks", payload, nil); err != nil {
			return fmt.Errorf("create webhook: %w", err)
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(2*time.Second), 2), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return err
	}
	c.logger.Info("nylas webhook registered", zap.String("url", callbackURL))
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("nylas returned %d: %s", resp.StatusCode, string(raw))
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
