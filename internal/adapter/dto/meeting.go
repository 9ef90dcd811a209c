package dto

import (
	"time"

	"gorm.io/datatypes"
)

// CreateMeetingRequest is the payload for POST /api/meetings
type CreateMeetingRequest struct {
	Title             string         `json:"title"`
	Date              string         `json:"date"`
	Duration          *int           `json:"duration"`
	Provider          string         `json:"provider"`
	MeetingURL        string         `json:"meetingUrl"`
	ExternalMeetingID string         `json:"externalMeetingId"`
	TranscriptURL     string         `json:"transcriptUrl"`
	TranscriptText    string         `json:"transcriptText"`
	Metadata          datatypes.JSON `json:"metadata"`
}

// UpdateMeetingRequest is the payload for PATCH /api/meetings/:id.
// Pointer fields distinguish absent keys from zero values. There is no
// status field: the lifecycle is driven by the processing pipeline and
// a client-supplied status is ignored.
type UpdateMeetingRequest struct {
	Title          *string        `json:"title"`
	Date           *string        `json:"date"`
	Duration       *int           `json:"duration"`
	MeetingURL     *string        `json:"meetingUrl"`
	TranscriptURL  *string        `json:"transcriptUrl"`
	TranscriptText *string        `json:"transcriptText"`
	Summary        *string        `json:"summary"`
	Metadata       datatypes.JSON `json:"metadata"`
}

// Empty reports whether the request contains no fields
func (r UpdateMeetingRequest) Empty() bool {
	return r.Title == nil && r.Date == nil && r.Duration == nil &&
		r.MeetingURL == nil && r.TranscriptURL == nil && r.TranscriptText == nil &&
		r.Summary == nil && r.Metadata == nil
}

// dateLayouts are the accepted formats for meeting dates
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDate parses a meeting date in RFC3339 or YYYY-MM-DD form
func ParseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
