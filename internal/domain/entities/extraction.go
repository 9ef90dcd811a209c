package entities

// ExtractedActionItem is one task as returned by the language model
// before it is validated and persisted. DueDate stays a string here;
// the model is asked for YYYY-MM-DD but does not always comply.
type ExtractedActionItem struct {
	Text     string `json:"text"`
	Priority string `json:"priority"`
	DueDate  string `json:"dueDate,omitempty"`
	Assignee string `json:"assignee,omitempty"`
}
