package entities

import (
	"time"

	"github.com/google/uuid"
)

// ActionItemPriority is the urgency tier assigned by the extraction step
type ActionItemPriority string

const (
	ActionItemPriorityHigh   ActionItemPriority = "High"
	ActionItemPriorityMedium ActionItemPriority = "Medium"
	ActionItemPriorityLow    ActionItemPriority = "Low"
)

// Valid reports whether the priority is a known value
func (p ActionItemPriority) Valid() bool {
	switch p {
	case ActionItemPriorityHigh, ActionItemPriorityMedium, ActionItemPriorityLow:
		return true
	}
	return false
}

// Rank returns the sort position of the priority, highest first
func (p ActionItemPriority) Rank() int {
	switch p {
	case ActionItemPriorityHigh:
		return 1
	case ActionItemPriorityMedium:
		return 2
	default:
		return 3
	}
}

// ActionItemStatus tracks completion of a single action item
type ActionItemStatus string

const (
	ActionItemStatusPending   ActionItemStatus = "Pending"
	ActionItemStatusCompleted ActionItemStatus = "Completed"
)

// Valid reports whether the status is a known value
func (s ActionItemStatus) Valid() bool {
	return s == ActionItemStatusPending || s == ActionItemStatusCompleted
}

// ActionItem is a single follow-up task extracted from a meeting
// transcript or created by hand.
type ActionItem struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	MeetingID uuid.UUID          `gorm:"type:uuid;not null;index" json:"meetingId"`
	Meeting   *Meeting           `gorm:"foreignKey:MeetingID" json:"-"`
	Text      string             `gorm:"type:text;not null" json:"text"`
	Priority  ActionItemPriority `gorm:"type:varchar(10);not null;default:'Medium';index" json:"priority"`
	Status    ActionItemStatus   `gorm:"type:varchar(10);not null;default:'Pending';index" json:"status"`
	DueDate   *time.Time         `json:"dueDate,omitempty"`
	Assignee  string             `gorm:"type:varchar(255)" json:"assignee,omitempty"`
	CreatedAt time.Time          `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time          `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for ActionItem
func (ActionItem) TableName() string {
	return "action_items"
}

// NewActionItem creates a pending action item for a meeting
func NewActionItem(meetingID uuid.UUID, text string, priority ActionItemPriority) *ActionItem {
	if !priority.Valid() {
		priority = ActionItemPriorityMedium
	}
	return &ActionItem{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Text:      text,
		Priority:  priority,
		Status:    ActionItemStatusPending,
	}
}
