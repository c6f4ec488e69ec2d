package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a concurrent modification was detected (optimistic lock version mismatch).
// Callers may reload and retry.
var ErrConflict = errors.New("concurrent modification conflict")

// ErrPrecondition indicates that a posting could not be built because something it depends on
// (category mapping, party relation, reference) is missing or malformed. Nothing has been written.
var ErrPrecondition = errors.New("precondition failed")

// ErrCategoryNotEditable indicates an edit or delete was attempted on a transaction category
// that is referenced by posted line items or is flagged as system managed.
var ErrCategoryNotEditable = errors.New("transaction category is not editable")

// ErrInvariantViolation marks a broken ledger invariant. It signals a bug, not bad input.
var ErrInvariantViolation = errors.New("ledger invariant violated")

// ErrInternal indicates an unexpected failure in infrastructure (database, driver).
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code and message alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError wraps ErrNotFound with a resource description.
func NewNotFoundError(resource string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, resource)
}

// NewInternalError wraps ErrInternal together with the underlying cause.
func NewInternalError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, errors.Join(ErrInternal, err))
}

// StatusCode maps an error from the core to the status code the HTTP host should return.
func StatusCode(err error) int {
	var appErr *AppError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrPrecondition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrCategoryNotEditable), errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.As(err, &appErr) && appErr.Code != 0:
		return appErr.Code
	default:
		return http.StatusInternalServerError
	}
}
