package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidRequest = errors.New("invalid request body")
	ErrValidation     = errors.New("validation failed")

	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrNoActiveAssignment = errors.New("record has no active assignment")
	ErrNoPreviousHolder   = errors.New("no previous holder to revert to")

	ErrDuplicateErrorID   = errors.New("error id already exists")
	ErrAssignmentConflict = errors.New("record already has an active assignment")
)

type RecordNotFoundError struct{ RecordID int }

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("record with id '%d' not found", e.RecordID)
}
func (e *RecordNotFoundError) Is(target error) bool { return target == ErrNotFound }

type UserNotFoundError struct{ UserID int }

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user with id '%d' not found", e.UserID)
}
func (e *UserNotFoundError) Is(target error) bool { return target == ErrNotFound }

type DraftNotFoundError struct{ DraftID int }

func (e *DraftNotFoundError) Error() string {
	return fmt.Sprintf("draft with id '%d' not found", e.DraftID)
}
func (e *DraftNotFoundError) Is(target error) bool { return target == ErrNotFound }
