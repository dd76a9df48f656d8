package middleware

import (
	"strings"

	"vocab-quiz/internal/domain"
	"vocab-quiz/internal/dto"
	"vocab-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const (
	ValidatedAnswerKey   = "validated_answer"
	ValidatedSelectedKey = "validated_selected_option"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateAnswerRequest parses and validates the answer body, storing the
// result under ValidatedAnswerKey.
func (vm *ValidationMiddleware) ValidateAnswerRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.AnswerRequest
		if err := c.BodyParser(&req); err != nil {
			return domain.NewInvalidInputError("Request body must be a JSON object with item_id and selected_option")
		}
		req.ItemID = strings.TrimSpace(req.ItemID)
		req.SelectedOption = strings.TrimSpace(req.SelectedOption)

		if errors := vm.validator.ValidateAnswerRequest(req.ItemID, req.SelectedOption); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}

		c.Locals(ValidatedAnswerKey, req)
		return c.Next()
	}
}

// ValidateSelectedOption validates the optional selected_option query
// parameter, storing it under ValidatedSelectedKey.
func (vm *ValidationMiddleware) ValidateSelectedOption() fiber.Handler {
	return func(c *fiber.Ctx) error {
		selected := utils.CopyString(strings.TrimSpace(c.Query("selected_option")))
		if errors := vm.validator.ValidateSelectedOption(selected); len(errors) > 0 {
			return errors
		}
		c.Locals(ValidatedSelectedKey, selected)
		return c.Next()
	}
}
