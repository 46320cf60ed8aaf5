package shared

const (
	UserID = "user_id"

	EventTypeSuggestion = "suggestion"

	ActionRequest = "request"
	ActionAccept  = "accept"
	ActionDismiss = "dismiss"

	SuggestionTypeGrammar = "grammar"
	SuggestionTypeStyle   = "style"
	SuggestionTypeClarity = "clarity"
	SuggestionTypeTone    = "tone"

	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"

	// Quota ceilings per calendar window
	MonthlyRequestLimit = 100
	DailyRequestLimit   = 25
	HourlyRequestLimit  = 10

	MinAnalyzeLength = 10
	MaxAnalyzeLength = 10000
)
