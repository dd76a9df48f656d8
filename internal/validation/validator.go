package validation

import (
	"strings"
	"unicode/utf8"

	"vocab-quiz/internal/domain"

	"github.com/oklog/ulid/v2"
)

// MaxOptionLength bounds a submitted option; generated options are single
// words, so anything longer cannot match.
const MaxOptionLength = 200

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAnswerRequest validates an answer submission.
func (v *Validator) ValidateAnswerRequest(itemID, selected string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(itemID) == "" {
		errors = append(errors, domain.NewMissingFieldError("item_id"))
	} else if !isValidULID(itemID) {
		errors = append(errors, domain.NewInvalidFormatError("item_id", itemID))
	}

	if strings.TrimSpace(selected) == "" {
		errors = append(errors, domain.NewMissingFieldError("selected_option"))
	} else if n := utf8.RuneCountInString(selected); n > MaxOptionLength {
		errors = append(errors, domain.NewOutOfRangeError("selected_option", n, 1, MaxOptionLength))
	}

	return errors
}

// ValidateSelectedOption validates the optional option of an explanation
// request.
func (v *Validator) ValidateSelectedOption(selected string) domain.ValidationErrors {
	if n := utf8.RuneCountInString(selected); n > MaxOptionLength {
		return domain.ValidationErrors{domain.NewOutOfRangeError("selected_option", n, 0, MaxOptionLength)}
	}
	return nil
}

func isValidULID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
