package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MeetingProvider identifies the call platform the notetaker bot joins
type MeetingProvider string

const (
	MeetingProviderZoom       MeetingProvider = "zoom"
	MeetingProviderGoogleMeet MeetingProvider = "google_meet"
	MeetingProviderTeams      MeetingProvider = "microsoft_teams"
)

// Valid reports whether the provider is a known value
func (p MeetingProvider) Valid() bool {
	switch p {
	case MeetingProviderZoom, MeetingProviderGoogleMeet, MeetingProviderTeams:
		return true
	}
	return false
}

// MeetingStatus represents the processing lifecycle of a meeting
type MeetingStatus string

const (
	MeetingStatusPending    MeetingStatus = "pending"
	MeetingStatusProcessing MeetingStatus = "processing"
	MeetingStatusCompleted  MeetingStatus = "completed"
	MeetingStatusFailed     MeetingStatus = "failed"
)

// Valid reports whether the status is a known value
func (s MeetingStatus) Valid() bool {
	switch s {
	case MeetingStatusPending, MeetingStatusProcessing, MeetingStatusCompleted, MeetingStatusFailed:
		return true
	}
	return false
}

// Meeting is the canonical meeting record. It merges the recorded-meeting
// fields (transcript url/text, summary, lifecycle status) with the
// calendar-join fields (provider, meeting url, external id, notetaker
// session id) into one schema.
type Meeting struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Title             string          `gorm:"type:varchar(255);not null" json:"title"`
	Date              time.Time       `gorm:"not null;index" json:"date"`
	Duration          int             `gorm:"not null" json:"duration"` // minutes
	Provider          MeetingProvider `gorm:"type:varchar(30)" json:"provider,omitempty"`
	MeetingURL        string          `gorm:"type:text" json:"meetingUrl,omitempty"`
	ExternalMeetingID string          `gorm:"type:varchar(255);index" json:"externalMeetingId,omitempty"`
	NotetakerID       string          `gorm:"type:varchar(255);index" json:"notetakerId,omitempty"`
	TranscriptURL     string          `gorm:"type:text" json:"transcriptUrl,omitempty"`
	TranscriptText    string          `gorm:"type:text" json:"transcriptText,omitempty"`
	Summary           string          `gorm:"type:text" json:"summary,omitempty"`
	Metadata          datatypes.JSON  `gorm:"type:jsonb;default:'{}'" json:"metadata,omitempty"`
	Status            MeetingStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ActionItems       []ActionItem    `gorm:"foreignKey:MeetingID" json:"actionItems,omitempty"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a pending meeting
func NewMeeting(title string, date time.Time, duration int) *Meeting {
	return &Meeting{
		ID:       uuid.New(),
		Title:    title,
		Date:     date,
		Duration: duration,
		Status:   MeetingStatusPending,
	}
}

// CanProcess reports whether the processing pipeline may claim this
// meeting. Only pending and failed meetings are eligible; a completed or
// in-flight meeting must be rejected, not re-run.
func (m *Meeting) CanProcess() bool {
	return m.Status == MeetingStatusPending || m.Status == MeetingStatusFailed
}

// HasTranscriptSource reports whether any transcript source is attached
func (m *Meeting) HasTranscriptSource() bool {
	return m.TranscriptText != "" || m.TranscriptURL != "" || m.NotetakerID != ""
}
