// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"github.com/prolance/prolance-backend/internal/i18n"
	"github.com/prolance/prolance-backend/internal/models"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrGigNotFound   = fmt.Errorf("gig %w", ErrNotFound)
	ErrOrderNotFound = fmt.Errorf("order %w", ErrNotFound)
	ErrUserNotFound  = fmt.Errorf("user %w", ErrNotFound)

	ErrFileTooLarge        = errors.New("file too large")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// ValidationError rejects a single input field. Key and Args select the
// localized message.
type ValidationError struct {
	Field string
	Key   string
	Args  []interface{}
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message("en")
}

func (e *ValidationError) Message(lang string) string {
	return i18n.T(lang, e.Key, e.Args...)
}

// InvalidTransitionError carries the statuses of a rejected status change.
type InvalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
