package errors

import (
	"errors"
	"fmt"
	"strings"
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func NewFieldValidationError(field, msg string) error {
	return &ValidationError{Msg: fmt.Sprintf("%s %s", field, msg)}
}

// IsValidationError reports whether err is caused by bad client input,
// either a single ValidationError or a ValidationErrors list.
func IsValidationError(err error) bool {
	var validationError *ValidationError
	if errors.As(err, &validationError) {
		return true
	}
	return IsValidationErrors(err)
}

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrViewNotFound        = errors.New("view not found")
	// ErrViewNameTaken is returned by the view store when an insert hits the
	// unique view_name constraint.
	ErrViewNameTaken = errors.New("view with this name already exists")
)

type ValidationErrors struct {
	Errors []error
}

func (ve *ValidationErrors) Error() string {
	errorMessages := ve.Messages()
	if len(errorMessages) == 1 {
		return errorMessages[0]
	}
	return fmt.Sprintf("multiple validation errors: %s", strings.Join(errorMessages, "; "))
}

func (ve *ValidationErrors) Add(err error) {
	ve.Errors = append(ve.Errors, err)
}

func (ve *ValidationErrors) Messages() []string {
	errorMessages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		errorMessages[i] = err.Error()
	}
	return errorMessages
}

// ErrOrNil returns nil when nothing was collected so callers can
// `return ve.ErrOrNil()` without a typed-nil interface.
func (ve *ValidationErrors) ErrOrNil() error {
	if ve == nil || len(ve.Errors) == 0 {
		return nil
	}
	return ve
}

func IsValidationErrors(err error) bool {
	var validationErrors *ValidationErrors
	ok := errors.As(err, &validationErrors)
	return ok
}

// ValidationMessages flattens err into the messages reported to the client.
func ValidationMessages(err error) []string {
	var validationErrors *ValidationErrors
	if errors.As(err, &validationErrors) {
		return validationErrors.Messages()
	}
	var validationError *ValidationError
	if errors.As(err, &validationError) {
		return []string{validationError.Msg}
	}
	return nil
}
