package actionitem

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
)

// CreateActionItemInput carries validated fields for a new action item
type CreateActionItemInput struct {
	MeetingID uuid.UUID
	Text      string
	Priority  entities.ActionItemPriority
	DueDate   *time.Time
	Assignee  string
}

// UpdateActionItemInput carries optional fields for a partial update
type UpdateActionItemInput struct {
	Text     *string
	Priority *entities.ActionItemPriority
	Status   *entities.ActionItemStatus
	DueDate  *time.Time
	Assignee *string
}

// Empty reports whether the update contains no fields
func (u UpdateActionItemInput) Empty() bool {
	return u.Text == nil && u.Priority == nil && u.Status == nil &&
		u.DueDate == nil && u.Assignee == nil
}

// Service exposes the action item operations
type Service interface {
	Create(ctx context.Context, input CreateActionItemInput) (*entities.ActionItem, error)
	List(ctx context.Context, filters repositories.ActionItemFilters) ([]entities.ActionItem, error)
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.ActionItem, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateActionItemInput) (*entities.ActionItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, meetingID *uuid.UUID) (*repositories.ActionItemStats, error)
}

type service struct {
	items    repositories.ActionItemRepository
	meetings repositories.MeetingRepository
	logger   *zap.Logger
}

// NewService creates the action item service
func NewService(items repositories.ActionItemRepository, meetings repositories.MeetingRepository, logger *zap.Logger) Service {
	return &service{items: items, meetings: meetings, logger: logger}
}

func (s *service) Create(ctx context.Context, input CreateActionItemInput) (*entities.ActionItem, error) {
	meeting, err := s.meetings.FindByID(ctx, input.MeetingID)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if meeting == nil {
		return nil, apperrors.ErrNotFound("Meeting")
	}

	item := entities.NewActionItem(input.MeetingID, input.Text, input.Priority)
	item.DueDate = input.DueDate
	item.Assignee = input.Assignee
	if err := s.items.Create(ctx, item); err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	return item, nil
}

func (s *service) List(ctx context.Context, filters repositories.ActionItemFilters) ([]entities.ActionItem, error) {
	items, err := s.items.List(ctx, filters)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	return items, nil
}

func (s *service) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.ActionItem, error) {
	meeting, err := s.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if meeting == nil {
		return nil, apperrors.ErrNotFound("Meeting")
	}

	items, err := s.items.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if item == nil {
		return nil, apperrors.ErrNotFound("Action item")
	}
	return item, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateActionItemInput) (*entities.ActionItem, error) {
	if input.Empty() {
		return nil, apperrors.ErrValidation("No updates provided")
	}

	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if item == nil {
		return nil, apperrors.ErrNotFound("Action item")
	}

	updates := map[string]interface{}{}
	if input.Text != nil {
		updates["text"] = *input.Text
	}
	if input.Priority != nil {
		updates["priority"] = *input.Priority
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.DueDate != nil {
		updates["due_date"] = *input.DueDate
	}
	if input.Assignee != nil {
		updates["assignee"] = *input.Assignee
	}

	if err := s.items.Updates(ctx, id, updates); err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return apperrors.ErrInternal(err)
	}
	if item == nil {
		return apperrors.ErrNotFound("Action item")
	}
	return s.items.Delete(ctx, id)
}

func (s *service) Stats(ctx context.Context, meetingID *uuid.UUID) (*repositories.ActionItemStats, error) {
	stats, err := s.items.Stats(ctx, meetingID)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	return stats, nil
}
