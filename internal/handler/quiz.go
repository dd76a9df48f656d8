package handler

import (
	"context"

	"vocab-quiz/internal/domain"
	"vocab-quiz/internal/dto"
	"vocab-quiz/internal/logger"
	"vocab-quiz/internal/middleware"
	"vocab-quiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizSession is the part of service.Scheduler the HTTP layer drives.
type QuizSession interface {
	GetNextItem(ctx context.Context) (*service.ServedItem, error)
	GradeAnswer(ctx context.Context, itemID, selected string) (*service.GradeResult, error)
	GetExplanation(ctx context.Context, selected string) (itemID, text string, err error)
	Progress() service.Progress
	Vocabulary() []string
}

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	session    QuizSession
	validation *middleware.ValidationMiddleware
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(session QuizSession) *QuizHandler {
	return &QuizHandler{
		session:    session,
		validation: middleware.NewValidationMiddleware(),
	}
}

// RegisterRoutes mounts the quiz endpoints on router.
func (h *QuizHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/quiz/next", h.GetNextItem)
	router.Post("/quiz/answer", h.validation.ValidateAnswerRequest(), h.SubmitAnswer)
	router.Get("/quiz/explain", h.validation.ValidateSelectedOption(), h.GetExplanation)
	router.Get("/progress", h.GetProgress)
	router.Get("/vocabulary", h.GetVocabulary)
}

// GetNextItem godoc
// @Summary Get the next quiz item
// @Description Serves the next item. The first call generates synchronously; later calls take the prefetched item.
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.QuizItemResponse
// @Failure 503 {object} dto.LoadingResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quiz/next [get]
func (h *QuizHandler) GetNextItem(c *fiber.Ctx) error {
	served, err := h.session.GetNextItem(c.UserContext())
	if err != nil {
		return err
	}

	item := served.Item
	return c.JSON(dto.QuizItemResponse{
		ID:             item.ID,
		Variant:        string(item.Variant),
		Definition:     item.DefinitionText,
		Gloss:          item.DefinitionGloss,
		Options:        served.DisplayOptions,
		TargetIndex:    item.TargetWordIndex,
		VocabularySize: served.VocabularySize,
	})
}

// SubmitAnswer godoc
// @Summary Grade an answer
// @Description Grades the selected option of the current item and updates the difficulty model
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.AnswerRequest true "Answer details"
// @Success 200 {object} dto.AnswerResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quiz/answer [post]
func (h *QuizHandler) SubmitAnswer(c *fiber.Ctx) error {
	req, ok := c.Locals(middleware.ValidatedAnswerKey).(dto.AnswerRequest)
	if !ok {
		return domain.NewInternalError("answer request was not validated", nil)
	}

	result, err := h.session.GradeAnswer(c.UserContext(), req.ItemID, req.SelectedOption)
	if err != nil {
		return err
	}

	logger.Get().Debug("Answer graded",
		zap.String("item_id", result.ItemID),
		zap.Bool("correct", result.Correct))

	return c.JSON(dto.AnswerResponse{
		ItemID:         result.ItemID,
		Correct:        result.Correct,
		CorrectAnswer:  result.CorrectAnswer,
		SelectedOption: result.Selected,
		TargetIndex:    result.TargetIndex,
		Mean:           result.Difficulty.Mean,
		Variance:       result.Difficulty.Variance,
	})
}

// GetExplanation godoc
// @Summary Explain the current item
// @Description Returns the cached explanation of the current item, generating it on first use
// @Tags quiz
// @Produce json
// @Param selected_option query string false "Option the learner picked"
// @Success 200 {object} dto.ExplanationResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/explain [get]
func (h *QuizHandler) GetExplanation(c *fiber.Ctx) error {
	selected, _ := c.Locals(middleware.ValidatedSelectedKey).(string)

	itemID, text, err := h.session.GetExplanation(c.UserContext(), selected)
	if err != nil {
		return err
	}
	return c.JSON(dto.ExplanationResponse{
		ItemID:      itemID,
		Explanation: text,
	})
}

// GetProgress godoc
// @Summary Get learner progress
// @Tags progress
// @Produce json
// @Success 200 {object} dto.ProgressResponse
// @Router /progress [get]
func (h *QuizHandler) GetProgress(c *fiber.Ctx) error {
	p := h.session.Progress()
	return c.JSON(dto.ProgressResponse{
		VocabularySize: p.VocabularySize,
		Mean:           p.Difficulty.Mean,
		Variance:       p.Difficulty.Variance,
		WindowLower:    p.WindowLower,
		WindowUpper:    p.WindowUpper,
	})
}

// GetVocabulary godoc
// @Summary List known words
// @Tags progress
// @Produce json
// @Success 200 {object} dto.VocabularyResponse
// @Router /vocabulary [get]
func (h *QuizHandler) GetVocabulary(c *fiber.Ctx) error {
	words := h.session.Vocabulary()
	return c.JSON(dto.VocabularyResponse{Words: words, Count: len(words)})
}
