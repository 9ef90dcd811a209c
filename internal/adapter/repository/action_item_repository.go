package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
)

// priorityRankExpr sorts High before Medium before Low in SQL so the
// ordering happens in one query instead of in application code.
const priorityRankExpr = "CASE priority WHEN 'High' THEN 1 WHEN 'Medium' THEN 2 ELSE 3 END"

type actionItemRepository struct {
	db *gorm.DB
}

// NewActionItemRepository creates a GORM-backed action item repository
func NewActionItemRepository(db *gorm.DB) repositories.ActionItemRepository {
	return &actionItemRepository{db: db}
}

func (r *actionItemRepository) Create(ctx context.Context, item *entities.ActionItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *actionItemRepository) CreateBatch(ctx context.Context, items []*entities.ActionItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(items).Error
}

func (r *actionItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	var item entities.ActionItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *actionItemRepository) List(ctx context.Context, filters repositories.ActionItemFilters) ([]entities.ActionItem, error) {
	query := r.db.WithContext(ctx).Model(&entities.ActionItem{}).Preload("Meeting")
	if filters.Priority != "" {
		query = query.Where("priority = ?", filters.Priority)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.MeetingID != nil {
		query = query.Where("meeting_id = ?", *filters.MeetingID)
	}
	if filters.DueBefore != nil {
		query = query.Where("due_date <= ?", *filters.DueBefore)
	}
	if filters.DueAfter != nil {
		query = query.Where("due_date >= ?", *filters.DueAfter)
	}

	var items []entities.ActionItem
	err := query.Order(priorityRankExpr + ", created_at DESC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *actionItemRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]entities.ActionItem, error) {
	var items []entities.ActionItem
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order(priorityRankExpr + ", created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *actionItemRepository) Updates(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entities.ActionItem{}).Where("id = ?", id).Updates(updates).Error
}

func (r *actionItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.ActionItem{}).Error
}

func (r *actionItemRepository) DeleteByMeeting(ctx context.Context, meetingID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).Delete(&entities.ActionItem{}).Error
}

func (r *actionItemRepository) Stats(ctx context.Context, meetingID *uuid.UUID) (*repositories.ActionItemStats, error) {
	query := r.db.WithContext(ctx).Model(&entities.ActionItem{})
	if meetingID != nil {
		query = query.Where("meeting_id = ?", *meetingID)
	}
	var stats repositories.ActionItemStats
	err := query.Select(`COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'Pending') AS pending,
		COUNT(*) FILTER (WHERE status = 'Completed') AS completed,
		COUNT(*) FILTER (WHERE priority = 'High') AS high,
		COUNT(*) FILTER (WHERE priority = 'Medium') AS medium,
		COUNT(*) FILTER (WHERE priority = 'Low') AS low`).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
