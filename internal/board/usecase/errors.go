package usecase

import (
	"errors"
	"fmt"

	"stock-board/internal/board/repository"
)

// ValidationError reports malformed or out-of-range input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports that the targeted post does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

var (
	errInvalidPostID = &ValidationError{Message: "invalid post id"}
	errNoFields      = &ValidationError{Message: "no fields to update"}
	errPostNotFound  = &NotFoundError{Message: "post not found"}
)

// notFoundOr translates the repository sentinel into a NotFoundError and
// passes every other error through.
func notFoundOr(err error) error {
	if errors.Is(err, repository.ErrPostNotFound) {
		return errPostNotFound
	}
	return err
}
