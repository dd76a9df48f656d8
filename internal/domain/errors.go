package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	ErrNoItem          ErrorCode = "NO_ITEM_AVAILABLE"
	ErrItemMismatch    ErrorCode = "ITEM_MISMATCH"
	ErrLLMServiceError ErrorCode = "LLM_SERVICE_ERROR"
	ErrStorage         ErrorCode = "STORAGE_ERROR"
)

var (
	// ErrNoItemAvailable means generation was exhausted or the look-ahead
	// slot did not fill in time. Callers present it as "loading".
	ErrNoItemAvailable = errors.New("no quiz item available")

	// ErrEmptyVocabulary means the difficulty window had no candidates.
	ErrEmptyVocabulary = errors.New("vocabulary is empty")

	// ErrMalformedResponse is wrapped by every structural validation failure
	// of a generator response.
	ErrMalformedResponse = errors.New("malformed generator response")
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewNoItemError(err error) *DomainError {
	return NewError(ErrNoItem, "No quiz item available yet, try again shortly", err)
}

func NewItemMismatchError(itemID string) *DomainError {
	return NewError(ErrItemMismatch, fmt.Sprintf("Item %s is not the current quiz item", itemID), nil)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(ErrLLMServiceError, "Failed to process with LLM service", err)
}

func NewStorageError(message string, err error) *DomainError {
	return NewError(ErrStorage, message, err)
}
