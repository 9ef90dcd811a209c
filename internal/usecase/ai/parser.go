package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

type extractionPayload struct {
	Items []entities.ExtractedActionItem `json:"items"`
}

// extractJSON strips markdown code fences the model sometimes wraps
// around its output and trims to the outermost JSON object.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// parseActionItems decodes and validates the extraction response
func parseActionItems(raw string) ([]entities.ExtractedActionItem, error) {
	var payload extractionPayload
	if err := json.Unmarshal([]byte(extractJSON(raw)), &payload); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}

	items := make([]entities.ExtractedActionItem, 0, len(payload.Items))
	for i, item := range payload.Items {
		if strings.TrimSpace(item.Text) == "" {
			return nil, fmt.Errorf("extraction item %d has empty text", i)
		}
		if !entities.ActionItemPriority(item.Priority).Valid() {
			return nil, fmt.Errorf("extraction item %d has invalid priority %q", i, item.Priority)
		}
		item.Text = strings.TrimSpace(item.Text)
		items = append(items, item)
	}
	return items, nil
}
