package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/inkwell-labs/inkwell_api/dto"
	"github.com/inkwell-labs/inkwell_api/model"
	"github.com/inkwell-labs/inkwell_api/shared"
	log "github.com/sirupsen/logrus"
)

// SuggestionService is the request pipeline: validate, rate limit, cache,
// score, analyze, cache write, usage log.
type SuggestionService struct {
	appContext.DefaultService

	store          SqlStore
	rateLimitSvc   *RateLimitService
	cacheSvc       *SuggestionCacheService
	readabilitySvc *ReadabilityService
	analyzerSvc    *AnalyzerService
}

const SUGGESTION_SVC = "suggestion_svc"

func (svc SuggestionService) Id() string {
	return SUGGESTION_SVC
}

func (svc *SuggestionService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *SuggestionService) Start() error {
	svc.store = svc.Service(POSTGRES_SVC).(SqlStore)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.cacheSvc = svc.Service(SUGGESTION_CACHE_SVC).(*SuggestionCacheService)
	svc.readabilitySvc = svc.Service(READABILITY_SVC).(*ReadabilityService)
	svc.analyzerSvc = svc.Service(ANALYZER_SVC).(*AnalyzerService)
	return nil
}

// requestMetadata is what a "request" usage log row carries. Marshaled to
// the metadata column as JSON.
type requestMetadata struct {
	TextLength       int    `json:"text_length"`
	WordCount        int    `json:"word_count,omitempty"`
	SuggestionCount  int    `json:"suggestion_count,omitempty"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
	PromptTokens     int    `json:"prompt_tokens,omitempty"`
	CompletionTokens int    `json:"completion_tokens,omitempty"`
	TotalTokens      int    `json:"total_tokens,omitempty"`
	DocumentID       string `json:"document_id,omitempty"`
	Language         string `json:"language,omitempty"`
	Error            string `json:"error,omitempty"`
}

// Analyze runs the full suggestion pipeline for one request.
func (svc *SuggestionService) Analyze(ctx context.Context, userID string, req dto.AnalyzeRequest) (*dto.SuggestionResponse, error) {
	started := time.Now()

	if userID == "" {
		return nil, shared.NewUnauthorizedError(errors.New("missing user id"), "Unauthorized")
	}
	if req.Text == "" {
		return nil, shared.NewBadRequestError(errors.New("missing text"), "Text is required")
	}

	// Short text means nothing to analyze, not an error: no quota spent,
	// no cache entry, no log row.
	if len(req.Text) < shared.MinAnalyzeLength {
		return &dto.SuggestionResponse{
			Suggestions:      []dto.WritingSuggestion{},
			WordCount:        0,
			ReadabilityScore: 0,
			ProcessingTime:   time.Since(started).Milliseconds(),
			Cached:           false,
		}, nil
	}

	if len(req.Text) > shared.MaxAnalyzeLength {
		return nil, shared.NewBadRequestError(errors.New("text too long"), "Text exceeds the 10000 character limit")
	}

	if !svc.rateLimitSvc.CheckRateLimit(userID) {
		return nil, shared.NewRateLimitError("Rate limit exceeded. Please try again later.")
	}

	fingerprint := svc.cacheSvc.Fingerprint(req.Text, userID)
	if cached := svc.cacheSvc.Get(ctx, fingerprint); cached != nil {
		suggestionCacheHits.Inc()
		return cached, nil
	}
	suggestionCacheMisses.Inc()

	readabilityScore := svc.readabilitySvc.Score(req.Text)
	wordCount := len(strings.Fields(req.Text))

	analyzeStarted := time.Now()
	suggestions, usage, err := svc.analyzerSvc.Analyze(ctx, req.Text)
	modelRequestDurationSeconds.Observe(time.Since(analyzeStarted).Seconds())

	if err != nil {
		processingTime := time.Since(started).Milliseconds()
		log.WithError(err).WithField("user_id", userID).Error("Suggestion analysis failed")
		suggestionRequestsTotal.WithLabelValues("failed").Inc()

		svc.logSuggestionEvent(userID, shared.ActionRequest, requestMetadata{
			TextLength:       len(req.Text),
			ProcessingTimeMs: processingTime,
			DocumentID:       req.DocumentID,
			Language:         req.Language,
			Error:            err.Error(),
		})

		// The provider error stays in the logs; callers get a generic
		// failure.
		return nil, shared.NewInternalError(err, "Analysis failed")
	}

	response := &dto.SuggestionResponse{
		Suggestions:      suggestions,
		WordCount:        wordCount,
		ReadabilityScore: readabilityScore,
		ProcessingTime:   time.Since(started).Milliseconds(),
		Cached:           false,
		Usage:            usage,
	}

	if err := svc.cacheSvc.Put(ctx, fingerprint, response); err != nil {
		log.WithError(err).Warn("Failed to cache suggestion response")
	}

	metadata := requestMetadata{
		TextLength:       len(req.Text),
		WordCount:        wordCount,
		SuggestionCount:  len(suggestions),
		ProcessingTimeMs: response.ProcessingTime,
		DocumentID:       req.DocumentID,
		Language:         req.Language,
	}
	if usage != nil {
		metadata.PromptTokens = usage.PromptTokens
		metadata.CompletionTokens = usage.CompletionTokens
		metadata.TotalTokens = usage.TotalTokens
		modelTokensTotal.WithLabelValues("prompt").Add(float64(usage.PromptTokens))
		modelTokensTotal.WithLabelValues("completion").Add(float64(usage.CompletionTokens))
	}
	svc.logSuggestionEvent(userID, shared.ActionRequest, metadata)

	suggestionRequestsTotal.WithLabelValues("served").Inc()
	return response, nil
}

// RecordFeedback appends an accept/dismiss event for a suggestion. The
// suggestion itself is not persisted; the audit trail is the record.
func (svc *SuggestionService) RecordFeedback(userID string, req dto.FeedbackRequest) error {
	if req.Action != shared.ActionAccept && req.Action != shared.ActionDismiss {
		return shared.NewBadRequestError(errors.New("invalid action"), "Action must be accept or dismiss")
	}

	metadata, _ := json.Marshal(map[string]string{
		"suggestion_id": req.SuggestionID,
		"document_id":   req.DocumentID,
	})

	entry := newUsageLog(userID, req.Action, string(metadata))
	return svc.store.CreateUsageLog(&entry)
}

// GetRateLimitStatus reports the caller's quota windows.
func (svc *SuggestionService) GetRateLimitStatus(userID string) (*dto.RateLimitStatus, error) {
	return svc.rateLimitSvc.GetRateLimitStatus(userID)
}

// logSuggestionEvent is a best effort side effect: a failed write is logged
// and swallowed so metering trouble never fails the primary request.
func (svc *SuggestionService) logSuggestionEvent(userID, action string, metadata requestMetadata) {
	data, err := json.Marshal(metadata)
	if err != nil {
		log.WithError(err).Warn("Failed to marshal usage metadata")
		data = []byte("{}")
	}

	entry := newUsageLog(userID, action, string(data))
	if err := svc.store.CreateUsageLog(&entry); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Failed to write usage log")
	}
}

func newUsageLog(userID, action, metadata string) model.UsageLog {
	return model.UsageLog{
		UserID:    userID,
		EventType: shared.EventTypeSuggestion,
		Action:    action,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}
