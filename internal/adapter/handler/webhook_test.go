package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/internal/usecase/meeting"
)

type mediaCapture struct {
	notetakerID string
	meetingURL  string
	text        string
}

type stubWebhookMeetingService struct {
	meeting.Service
	media *mediaCapture
}

func (s *stubWebhookMeetingService) ApplyNotetakerMedia(_ context.Context, notetakerID, meetingURL, text, _ string) error {
	s.media = &mediaCapture{notetakerID: notetakerID, meetingURL: meetingURL, text: text}
	return nil
}

func newWebhookEcho(svc meeting.Service, secret string) *echo.Echo {
	e := echo.New()
	h := NewWebhookHandler(svc, secret, zap.NewNop())
	e.GET("/api/webhooks/nylas", h.Challenge)
	e.POST("/api/webhooks/nylas", h.Receive)
	return e
}

func signBody(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookChallenge(t *testing.T) {
	e := newWebhookEcho(&stubWebhookMeetingService{}, "")

	req := httptest.NewRequest(http.MethodGet, "/api/webhooks/nylas?challenge=abc123", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	if rec.Body.String() != "abc123" {
		t.Errorf("challenge must be echoed verbatim, got %q", rec.Body.String())
	}
}

func TestWebhookChallengeMissing(t *testing.T) {
	e := newWebhookEcho(&stubWebhookMeetingService{}, "")

	req := httptest.NewRequest(http.MethodGet, "/api/webhooks/nylas", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "No challenge parameter received" {
		t.Errorf("got error %q", msg)
	}
}

func TestWebhookMediaEvent(t *testing.T) {
	svc := &stubWebhookMeetingService{}
	e := newWebhookEcho(svc, "secret")

	body := `{"type":"notetaker.media","data":{"object":{"notetaker_id":"nt-5","meeting_link":"https://zoom.us/j/5","text":"raw transcript"}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/nylas", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Nylas-Signature", signBody("secret", body))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}
	if svc.media == nil {
		t.Fatal("media event was not forwarded")
	}
	if svc.media.notetakerID != "nt-5" || svc.media.text != "raw transcript" {
		t.Errorf("forwarded %+v", svc.media)
	}
}

func TestWebhookBadSignature(t *testing.T) {
	svc := &stubWebhookMeetingService{}
	e := newWebhookEcho(svc, "secret")

	body := `{"type":"notetaker.media","data":{"object":{"notetaker_id":"nt-5"}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/nylas", strings.NewReader(body))
	req.Header.Set("X-Nylas-Signature", "deadbeef")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", rec.Code)
	}
	if svc.media != nil {
		t.Error("unsigned event must not reach the service")
	}
}

func TestWebhookNoSecretSkipsVerification(t *testing.T) {
	svc := &stubWebhookMeetingService{}
	e := newWebhookEcho(svc, "")

	body := `{"type":"notetaker.media","data":{"notetaker_id":"nt-6","object":{"text":"hello"}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/nylas", strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	if svc.media == nil || svc.media.notetakerID != "nt-6" {
		t.Errorf("forwarded %+v", svc.media)
	}
}

func TestWebhookMediaMissingNotetakerID(t *testing.T) {
	e := newWebhookEcho(&stubWebhookMeetingService{}, "")

	body := `{"type":"notetaker.media","data":{}}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/nylas", strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	svc := &stubWebhookMeetingService{}
	e := newWebhookEcho(svc, "")

	body := `{"type":"notetaker.meeting_state","data":{"notetaker_id":"nt-7"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/nylas", strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("lifecycle events must still be acknowledged, got %d", rec.Code)
	}
	if svc.media != nil {
		t.Error("lifecycle event should not be treated as media")
	}
}
