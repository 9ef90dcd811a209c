package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

// MeetingFilters narrows a meeting listing
type MeetingFilters struct {
	Status   entities.MeetingStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// MeetingListItem is a meeting annotated with its action item count
type MeetingListItem struct {
	entities.Meeting
	ActionItemCount int64 `json:"actionItemCount"`
}

// MeetingStats is the per-status breakdown of all meetings
type MeetingStats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
}

// MeetingRepository defines data access for meetings.
// Find methods return (nil, nil) when no row matches.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *entities.Meeting) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	FindByNotetakerID(ctx context.Context, notetakerID string) (*entities.Meeting, error)
	FindByMeetingURL(ctx context.Context, meetingURL string) (*entities.Meeting, error)
	List(ctx context.Context, filters MeetingFilters) ([]MeetingListItem, error)
	Updates(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	// ClaimForProcessing atomically moves an eligible meeting into
	// processing. Returns false when another caller already claimed it
	// or the meeting is not in a claimable status.
	ClaimForProcessing(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*MeetingStats, error)
}
