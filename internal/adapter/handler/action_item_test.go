package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
	"github.com/johnquangdev/meeting-notes/internal/usecase/actionitem"
)

type stubActionItemService struct {
	created *actionitem.CreateActionItemInput
	err     error
}

func (s *stubActionItemService) Create(_ context.Context, input actionitem.CreateActionItemInput) (*entities.ActionItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = &input
	return entities.NewActionItem(input.MeetingID, input.Text, input.Priority), nil
}

func (s *stubActionItemService) List(_ context.Context, _ repositories.ActionItemFilters) ([]entities.ActionItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []entities.ActionItem{}, nil
}

func (s *stubActionItemService) ListByMeeting(_ context.Context, _ uuid.UUID) ([]entities.ActionItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []entities.ActionItem{}, nil
}

func (s *stubActionItemService) Get(_ context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return entities.NewActionItem(uuid.New(), "stub", entities.ActionItemPriorityMedium), nil
}

func (s *stubActionItemService) Update(_ context.Context, _ uuid.UUID, _ actionitem.UpdateActionItemInput) (*entities.ActionItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return entities.NewActionItem(uuid.New(), "stub", entities.ActionItemPriorityMedium), nil
}

func (s *stubActionItemService) Delete(_ context.Context, _ uuid.UUID) error {
	return s.err
}

func (s *stubActionItemService) Stats(_ context.Context, _ *uuid.UUID) (*repositories.ActionItemStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &repositories.ActionItemStats{}, nil
}

func newActionItemEcho(svc actionitem.Service) *echo.Echo {
	e := echo.New()
	h := NewActionItemHandler(svc, zap.NewNop())
	e.GET("/api/action-items", h.List)
	e.GET("/api/action-items/stats", h.Stats)
	e.GET("/api/action-items/meeting/:meetingId", h.ListByMeeting)
	e.GET("/api/action-items/:id", h.Get)
	e.POST("/api/action-items", h.Create)
	e.PATCH("/api/action-items/:id", h.Update)
	e.DELETE("/api/action-items/:id", h.Delete)
	return e
}

func TestCreateActionItemHandler(t *testing.T) {
	svc := &stubActionItemService{}
	e := newActionItemEcho(svc)

	rec := doJSON(e, http.MethodPost, "/api/action-items",
		`{"meetingId":"`+uuid.NewString()+`","text":"Ship the release","priority":"High"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if svc.created == nil || svc.created.Priority != entities.ActionItemPriorityHigh {
		t.Errorf("service received %+v", svc.created)
	}
}

func TestCreateActionItemDefaultsPriority(t *testing.T) {
	svc := &stubActionItemService{}
	e := newActionItemEcho(svc)

	rec := doJSON(e, http.MethodPost, "/api/action-items",
		`{"meetingId":"`+uuid.NewString()+`","text":"No priority given"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201", rec.Code)
	}
	if svc.created.Priority != entities.ActionItemPriorityMedium {
		t.Errorf("got priority %s, want Medium default", svc.created.Priority)
	}
}

func TestCreateActionItemInvalidPriority(t *testing.T) {
	e := newActionItemEcho(&stubActionItemService{})

	rec := doJSON(e, http.MethodPost, "/api/action-items",
		`{"meetingId":"`+uuid.NewString()+`","text":"Task","priority":"Urgent"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Invalid priority. Must be High, Medium, or Low" {
		t.Errorf("got error %q", msg)
	}
}

func TestListActionItemsInvalidStatus(t *testing.T) {
	e := newActionItemEcho(&stubActionItemService{})

	rec := doJSON(e, http.MethodGet, "/api/action-items?status=Done", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Invalid status. Must be Pending or Completed" {
		t.Errorf("got error %q", msg)
	}
}

func TestUpdateActionItemNoFieldsHandler(t *testing.T) {
	e := newActionItemEcho(&stubActionItemService{})

	rec := doJSON(e, http.MethodPatch, "/api/action-items/"+uuid.NewString(), `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "No updates provided" {
		t.Errorf("got error %q", msg)
	}
}

func TestGetActionItemNotFoundHandler(t *testing.T) {
	svc := &stubActionItemService{err: apperrors.ErrNotFound("Action item")}
	e := newActionItemEcho(svc)

	rec := doJSON(e, http.MethodGet, "/api/action-items/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Action item not found" {
		t.Errorf("got error %q", msg)
	}
}

func TestActionItemStatsRoute(t *testing.T) {
	e := newActionItemEcho(&stubActionItemService{})

	rec := doJSON(e, http.MethodGet, "/api/action-items/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stats route should not be captured by :id, got %d", rec.Code)
	}
}

func TestActionItemStatsBadMeetingID(t *testing.T) {
	e := newActionItemEcho(&stubActionItemService{})

	rec := doJSON(e, http.MethodGet, "/api/action-items/stats?meetingId=nope", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
}
