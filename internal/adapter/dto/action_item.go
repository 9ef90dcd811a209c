package dto

import (
	"time"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

// CreateActionItemRequest is the payload for POST /api/action-items
type CreateActionItemRequest struct {
	MeetingID string `json:"meetingId"`
	Text      string `json:"text"`
	Priority  string `json:"priority"`
	DueDate   string `json:"dueDate"`
	Assignee  string `json:"assignee"`
}

// UpdateActionItemRequest is the payload for PATCH /api/action-items/:id
type UpdateActionItemRequest struct {
	Text     *string `json:"text"`
	Priority *string `json:"priority"`
	Status   *string `json:"status"`
	DueDate  *string `json:"dueDate"`
	Assignee *string `json:"assignee"`
}

// Empty reports whether the request contains no fields
func (r UpdateActionItemRequest) Empty() bool {
	return r.Text == nil && r.Priority == nil && r.Status == nil &&
		r.DueDate == nil && r.Assignee == nil
}

// ActionItemResponse is an action item annotated with its meeting
type ActionItemResponse struct {
	entities.ActionItem
	MeetingTitle string     `json:"meetingTitle,omitempty"`
	MeetingDate  *time.Time `json:"meetingDate,omitempty"`
}

// NewActionItemResponse annotates an item with meeting context when the
// meeting was preloaded.
func NewActionItemResponse(item entities.ActionItem) ActionItemResponse {
	resp := ActionItemResponse{ActionItem: item}
	if item.Meeting != nil {
		resp.MeetingTitle = item.Meeting.Title
		date := item.Meeting.Date
		resp.MeetingDate = &date
	}
	resp.Meeting = nil
	return resp
}
