package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
)

type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a GORM-backed meeting repository
func NewMeetingRepository(db *gorm.DB) repositories.MeetingRepository {
	return &meetingRepository{db: db}
}

func (r *meetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	return r.db.WithContext(ctx).Create(meeting).Error
}

func (r *meetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&meeting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

func (r *meetingRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).
		Preload("ActionItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("CASE priority WHEN 'High' THEN 1 WHEN 'Medium' THEN 2 ELSE 3 END, created_at DESC")
		}).
		Where("id = ?", id).
		First(&meeting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

func (r *meetingRepository) FindByNotetakerID(ctx context.Context, notetakerID string) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).Where("notetaker_id = ?", notetakerID).First(&meeting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

func (r *meetingRepository) FindByMeetingURL(ctx context.Context, meetingURL string) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).Where("meeting_url = ?", meetingURL).First(&meeting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

func (r *meetingRepository) List(ctx context.Context, filters repositories.MeetingFilters) ([]repositories.MeetingListItem, error) {
	query := r.db.WithContext(ctx).Model(&entities.Meeting{})
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("date <= ?", *filters.DateTo)
	}

	var meetings []entities.Meeting
	if err := query.Order("date DESC").Find(&meetings).Error; err != nil {
		return nil, err
	}
	if len(meetings) == 0 {
		return []repositories.MeetingListItem{}, nil
	}

	ids := make([]uuid.UUID, 0, len(meetings))
	for _, m := range meetings {
		ids = append(ids, m.ID)
	}
	var counts []struct {
		MeetingID uuid.UUID
		Count     int64
	}
	err := r.db.WithContext(ctx).Model(&entities.ActionItem{}).
		Select("meeting_id, COUNT(*) AS count").
		Where("meeting_id IN ?", ids).
		Group("meeting_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	countByID := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		countByID[c.MeetingID] = c.Count
	}

	items := make([]repositories.MeetingListItem, 0, len(meetings))
	for _, m := range meetings {
		items = append(items, repositories.MeetingListItem{
			Meeting:         m,
			ActionItemCount: countByID[m.ID],
		})
	}
	return items, nil
}

func (r *meetingRepository) Updates(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entities.Meeting{}).Where("id = ?", id).Updates(updates).Error
}

func (r *meetingRepository) ClaimForProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entities.Meeting{}).
		Where("id = ? AND status IN ?", id, []entities.MeetingStatus{
			entities.MeetingStatusPending,
			entities.MeetingStatusFailed,
		}).
		Update("status", entities.MeetingStatusProcessing)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *meetingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error {
	return r.db.WithContext(ctx).Model(&entities.Meeting{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *meetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Meeting{}).Error
}

func (r *meetingRepository) Stats(ctx context.Context) (*repositories.MeetingStats, error) {
	var stats repositories.MeetingStats
	err := r.db.WithContext(ctx).Model(&entities.Meeting{}).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'processing') AS processing,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE status = 'failed') AS failed`).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
