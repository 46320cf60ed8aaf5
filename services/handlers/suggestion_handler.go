package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/inkwell-labs/inkwell_api/dto"
	"github.com/inkwell-labs/inkwell_api/shared"
)

type SuggestionHandler struct {
	suggestionSvc SuggestionServiceInterface
}

func NewSuggestionHandler(suggestionSvc SuggestionServiceInterface) *SuggestionHandler {
	return &SuggestionHandler{
		suggestionSvc: suggestionSvc,
	}
}

// validationError turns validator output into a 400 whose data names each
// violated constraint.
func validationError(err error) *shared.AppError {
	appErr := shared.NewBadRequestError(err, "Validation failed")
	appErr.Data = dto.FormatValidationErrors(err)
	return appErr
}

// @Summary Analyze text
// @Description Run the writing suggestion pipeline over a block of text
// @Tags suggestions
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param analyzeRequest body dto.AnalyzeRequest true "Text to analyze"
// @Success 200 {object} shared.Response{data=dto.SuggestionResponse}
// @Router /api/v1/suggestions/analyze [post]
func (h *SuggestionHandler) Analyze(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := dto.GetValidator().Struct(req); err != nil {
		return validationError(err)
	}

	response, err := h.suggestionSvc.Analyze(c.UserContext(), userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, response)
}

// @Summary Get rate limit status
// @Description Report used, limit, and remaining for the monthly, daily, and hourly quota windows
// @Tags suggestions
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.RateLimitStatus}
// @Router /api/v1/suggestions/limits [get]
func (h *SuggestionHandler) GetLimits(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	status, err := h.suggestionSvc.GetRateLimitStatus(userID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, status)
}

// @Summary Record suggestion feedback
// @Description Log an accept or dismiss action for a suggestion
// @Tags suggestions
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param feedbackRequest body dto.FeedbackRequest true "Feedback"
// @Success 200 {object} shared.Response
// @Router /api/v1/suggestions/feedback [post]
func (h *SuggestionHandler) Feedback(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := dto.GetValidator().Struct(req); err != nil {
		return validationError(err)
	}

	if err := h.suggestionSvc.RecordFeedback(userID, req); err != nil {
		return err
	}

	return shared.ResponseOK(c, nil)
}
