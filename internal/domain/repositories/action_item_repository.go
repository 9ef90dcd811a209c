package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

// ActionItemFilters narrows an action item listing
type ActionItemFilters struct {
	Priority  entities.ActionItemPriority
	Status    entities.ActionItemStatus
	MeetingID *uuid.UUID
	DueBefore *time.Time
	DueAfter  *time.Time
}

// ActionItemStats is the aggregate breakdown of action items,
// optionally scoped to one meeting.
type ActionItemStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
	High      int64 `json:"high"`
	Medium    int64 `json:"medium"`
	Low       int64 `json:"low"`
}

// ActionItemRepository defines data access for action items.
// Find methods return (nil, nil) when no row matches.
type ActionItemRepository interface {
	Create(ctx context.Context, item *entities.ActionItem) error
	CreateBatch(ctx context.Context, items []*entities.ActionItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error)
	// List returns items ordered by priority rank then recency, with
	// the owning meeting preloaded for annotation.
	List(ctx context.Context, filters ActionItemFilters) ([]entities.ActionItem, error)
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.ActionItem, error)
	Updates(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByMeeting(ctx context.Context, meetingID uuid.UUID) error
	Stats(ctx context.Context, meetingID *uuid.UUID) (*ActionItemStats, error)
}
