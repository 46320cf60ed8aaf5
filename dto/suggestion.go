package dto

// AnalyzeRequest is the inbound body for a suggestion analysis call. The
// user id comes from the bearer token, not the body.
type AnalyzeRequest struct {
	Text       string `json:"text" validate:"required,max=10000"`
	DocumentID string `json:"document_id,omitempty" validate:"omitempty,max=128"`
	Language   string `json:"language,omitempty" validate:"omitempty,max=16"`
}

// SuggestionPosition marks the character span a suggestion applies to.
type SuggestionPosition struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// WritingSuggestion is a single normalized suggestion produced by the
// analyzer. Immutable once returned; accept/dismiss feedback is logged, not
// written back onto the suggestion.
type WritingSuggestion struct {
	ID            string              `json:"id"`
	Type          string              `json:"type"`
	Severity      string              `json:"severity"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Suggestion    string              `json:"suggestion"`
	OriginalText  string              `json:"original_text,omitempty"`
	SuggestedText string              `json:"suggested_text,omitempty"`
	Position      *SuggestionPosition `json:"position,omitempty"`
}

// TokenUsage mirrors the completion provider's usage counters.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// SuggestionResponse is the unit returned to callers and stored in the
// suggestion cache.
type SuggestionResponse struct {
	Suggestions      []WritingSuggestion `json:"suggestions"`
	WordCount        int                 `json:"word_count"`
	ReadabilityScore int                 `json:"readability_score"`
	ProcessingTime   int64               `json:"processing_time"`
	Cached           bool                `json:"cached"`
	Usage            *TokenUsage         `json:"usage,omitempty"`
}

// FeedbackRequest records the user's reaction to a suggestion.
type FeedbackRequest struct {
	SuggestionID string `json:"suggestion_id" validate:"required,max=128"`
	Action       string `json:"action" validate:"required,oneof=accept dismiss"`
	DocumentID   string `json:"document_id,omitempty" validate:"omitempty,max=128"`
}
