package entities

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessageRole identifies the author of a chat turn
type ChatMessageRole string

const (
	ChatMessageRoleUser      ChatMessageRole = "user"
	ChatMessageRoleAssistant ChatMessageRole = "assistant"
	ChatMessageRoleSystem    ChatMessageRole = "system"
)

// Valid reports whether the role is a known value
func (r ChatMessageRole) Valid() bool {
	switch r {
	case ChatMessageRoleUser, ChatMessageRoleAssistant, ChatMessageRoleSystem:
		return true
	}
	return false
}

// ChatMessage stores one turn of a Q&A conversation scoped to a meeting
type ChatMessage struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	MeetingID uuid.UUID       `gorm:"type:uuid;not null;index" json:"meetingId"`
	Role      ChatMessageRole `gorm:"type:varchar(20);not null" json:"role"`
	Content   string          `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for ChatMessage
func (ChatMessage) TableName() string {
	return "chat_messages"
}
