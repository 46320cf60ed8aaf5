package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/inkwell-labs/inkwell_api/dto"
	"github.com/inkwell-labs/inkwell_api/shared"
	log "github.com/sirupsen/logrus"
)

// AnalyzerService calls the completion provider and normalizes its output
// into WritingSuggestions. The model's output is untrusted: malformed JSON
// degrades to zero suggestions, individual bad items are repaired or
// dropped, and only a failed API call itself is an error.
type AnalyzerService struct {
	appContext.DefaultService

	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
}

const ANALYZER_SVC = "analyzer_svc"

const analyzerTemperature = 0.3

const systemInstruction = "You are a writing assistant. Respond with JSON only. Never wrap the JSON in markdown or add commentary."

func (svc AnalyzerService) Id() string {
	return ANALYZER_SVC
}

func (svc *AnalyzerService) Configure(ctx *appContext.Context) error {
	svc.httpClient = &http.Client{
		Timeout: 30 * time.Second,
	}

	svc.baseURL = os.Getenv("LLM_BASE_URL")
	if svc.baseURL == "" {
		svc.baseURL = "https://api.openai.com/v1"
	}
	svc.apiKey = os.Getenv("LLM_API_KEY")
	svc.model = os.Getenv("LLM_MODEL")
	if svc.model == "" {
		svc.model = "gpt-4o-mini"
	}

	svc.maxTokens = 2048
	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			svc.maxTokens = n
		}
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *AnalyzerService) Start() error {
	return nil
}

// Wire shapes for the chat-completions call.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// rawSuggestion is the loose intermediate the model output parses into
// before validation.
type rawSuggestion struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Severity      string                  `json:"severity"`
	Title         string                  `json:"title"`
	Description   string                  `json:"description"`
	Suggestion    string                  `json:"suggestion"`
	OriginalText  string                  `json:"originalText"`
	SuggestedText string                  `json:"suggestedText"`
	Position      *dto.SuggestionPosition `json:"position"`
}

// Analyze asks the model for suggestions on text. Transport, auth, and
// provider errors propagate; the orchestrator decides what the caller sees.
func (svc *AnalyzerService) Analyze(ctx context.Context, text string) ([]dto.WritingSuggestion, *dto.TokenUsage, error) {
	reqBody := chatCompletionRequest{
		Model: svc.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: buildAnalysisPrompt(text)},
		},
		Temperature: analyzerTemperature,
		MaxTokens:   svc.maxTokens,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+svc.apiKey)

	resp, err := svc.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, nil, fmt.Errorf("failed to decode completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if completion.Error != nil {
			return nil, nil, fmt.Errorf("completion provider error (%s): %s", completion.Error.Type, completion.Error.Message)
		}
		return nil, nil, fmt.Errorf("completion provider returned status %d", resp.StatusCode)
	}

	var usage *dto.TokenUsage
	if completion.Usage != nil {
		usage = &dto.TokenUsage{
			PromptTokens:     completion.Usage.PromptTokens,
			CompletionTokens: completion.Usage.CompletionTokens,
			TotalTokens:      completion.Usage.TotalTokens,
		}
	}

	if len(completion.Choices) == 0 {
		return []dto.WritingSuggestion{}, usage, nil
	}

	return parseSuggestions(completion.Choices[0].Message.Content), usage, nil
}

// buildAnalysisPrompt embeds the raw text in a fixed instruction block. The
// no-hyphen rule constrains the model's suggestion text, not the analyzed
// input.
func buildAnalysisPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Analyze the following text for grammar, style, clarity, and tone issues. ")
	b.WriteString("Return a JSON array where each element has the fields: ")
	b.WriteString(`"id", "type" (grammar|style|clarity|tone), "severity" (low|medium|high), `)
	b.WriteString(`"title", "description", "suggestion", and optionally "originalText", "suggestedText", `)
	b.WriteString(`and "position" with integer "start" and "end". `)
	b.WriteString("Do not use hyphens or dashes anywhere in your output. ")
	b.WriteString("Return only the JSON array, with no surrounding text.\n\nText:\n")
	b.WriteString(text)
	return b.String()
}

// parseSuggestions turns the model's text into validated suggestions.
// Non-JSON content yields an empty slice, never an error. Items missing any
// required field are dropped; invalid enums are coerced to defaults.
func parseSuggestions(content string) []dto.WritingSuggestion {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var raw []rawSuggestion
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		log.WithError(err).Warn("Model returned non-JSON suggestions, treating as empty")
		return []dto.WritingSuggestion{}
	}

	suggestions := make([]dto.WritingSuggestion, 0, len(raw))
	for i, item := range raw {
		normalized, ok := normalizeSuggestion(item, i)
		if !ok {
			continue
		}
		suggestions = append(suggestions, normalized)
	}
	return suggestions
}

func normalizeSuggestion(item rawSuggestion, index int) (dto.WritingSuggestion, bool) {
	// Required content fields; an item without them is unusable.
	if item.Title == "" || item.Description == "" || item.Suggestion == "" {
		return dto.WritingSuggestion{}, false
	}

	id := item.ID
	if id == "" {
		id = fmt.Sprintf("suggestion-%d", index+1)
	}

	suggestionType := item.Type
	switch suggestionType {
	case shared.SuggestionTypeGrammar, shared.SuggestionTypeStyle, shared.SuggestionTypeClarity, shared.SuggestionTypeTone:
	default:
		suggestionType = shared.SuggestionTypeStyle
	}

	severity := item.Severity
	switch severity {
	case shared.SeverityLow, shared.SeverityMedium, shared.SeverityHigh:
	default:
		severity = shared.SeverityMedium
	}

	return dto.WritingSuggestion{
		ID:            id,
		Type:          suggestionType,
		Severity:      severity,
		Title:         item.Title,
		Description:   item.Description,
		Suggestion:    item.Suggestion,
		OriginalText:  item.OriginalText,
		SuggestedText: item.SuggestedText,
		Position:      item.Position,
	}, true
}
