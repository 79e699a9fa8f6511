package service

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the recipe lifecycle and engagement tracker. The
// messages are part of the API contract and are returned verbatim in the
// `detail` field.
var (
	ErrRecipeNotFound  = errors.New("No Recipe matches the given query.")
	ErrRecipeHidden    = errors.New("This recipe has been flagged as inappropriate and is hidden.")
	ErrRecipeDeleted   = errors.New("This recipe has been deleted.")
	ErrAlreadyDeleted  = errors.New("This recipe has already been deleted.")
	ErrNotDeleted      = errors.New("This recipe has not been deleted.")
	ErrAlreadyLiked    = errors.New("You have already liked this recipe.")
	ErrNotLiked        = errors.New("You haven't liked this recipe yet.")
	ErrAlreadyReported = errors.New("You have already reported this recipe.")
	ErrNoRecipes       = errors.New("No recipes found.")
	ErrNotOwner        = errors.New("User must be owner.")
	ErrForbidden       = errors.New("You do not have permission to perform this action.")

	ErrUserExists         = errors.New("A user with this email or username already exists.")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTagNotFound = errors.New("No Tag matches the given query.")
	ErrTagExists   = errors.New("A tag with this name already exists.")
)

// ValidationError carries per-field message lists, mirroring the request body
// shape the API returns for malformed input.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
