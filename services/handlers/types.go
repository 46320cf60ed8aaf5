package handlers

import (
	"context"

	"github.com/inkwell-labs/inkwell_api/dto"
)

type SuggestionServiceInterface interface {
	Analyze(ctx context.Context, userID string, req dto.AnalyzeRequest) (*dto.SuggestionResponse, error)
	RecordFeedback(userID string, req dto.FeedbackRequest) error
	GetRateLimitStatus(userID string) (*dto.RateLimitStatus, error)
}
