package model

import (
	"errors"
	"fmt"
	"net/http"
)

// CategoryError is the error type returned by the category service.
// Two CategoryErrors match under errors.Is when their codes are equal.
type CategoryError struct {
	Code    string
	Message string
	Err     error
}

func (e *CategoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *CategoryError) Unwrap() error {
	return e.Err
}

func (e *CategoryError) Is(target error) bool {
	t, ok := target.(*CategoryError)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy with a more specific message.
func (e *CategoryError) WithMessage(format string, args ...interface{}) *CategoryError {
	return &CategoryError{Code: e.Code, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

// Wrap returns a copy carrying err as the cause.
func (e *CategoryError) Wrap(err error) *CategoryError {
	return &CategoryError{Code: e.Code, Message: e.Message, Err: err}
}

// Error codes
const (
	CodeInvalidName      = "INVALID_NAME"
	CodeParentNotFound   = "PARENT_NOT_FOUND"
	CodeCircularParent   = "CIRCULAR_PARENT"
	CodeDepthExceeded    = "DEPTH_EXCEEDED"
	CodeDuplicateName    = "DUPLICATE_NAME"
	CodeNoFieldsProvided = "NO_FIELDS_PROVIDED"
	CodeNotFound         = "NOT_FOUND"
	CodeHasSubcategories = "HAS_SUBCATEGORIES"
	CodeHasProducts      = "HAS_PRODUCTS"
	CodeStorageFailure   = "STORAGE_FAILURE"
	CodeInvalidID        = "INVALID_ID"
	CodeInvalidStatus    = "INVALID_STATUS"
	CodeInvalidMedia     = "INVALID_MEDIA"
	CodeValidation       = "VALIDATION_ERROR"
)

var (
	ErrInvalidName = &CategoryError{
		Code:    CodeInvalidName,
		Message: "Category name is required",
	}
	ErrParentNotFound = &CategoryError{
		Code:    CodeParentNotFound,
		Message: "Parent category not found",
	}
	ErrCircularParent = &CategoryError{
		Code:    CodeCircularParent,
		Message: "Parent would create a circular reference",
	}
	ErrDepthExceeded = &CategoryError{
		Code:    CodeDepthExceeded,
		Message: "Category hierarchy is too deep",
	}
	ErrDuplicateName = &CategoryError{
		Code:    CodeDuplicateName,
		Message: "A category with this name already exists at this level",
	}
	ErrNoFieldsProvided = &CategoryError{
		Code:    CodeNoFieldsProvided,
		Message: "No fields provided for update",
	}
	ErrNotFound = &CategoryError{
		Code:    CodeNotFound,
		Message: "Category not found",
	}
	ErrHasSubcategories = &CategoryError{
		Code:    CodeHasSubcategories,
		Message: "Cannot delete category with subcategories",
	}
	ErrHasProducts = &CategoryError{
		Code:    CodeHasProducts,
		Message: "Cannot delete category linked to products",
	}
	ErrStorageFailure = &CategoryError{
		Code:    CodeStorageFailure,
		Message: "Internal server error",
	}
	ErrInvalidID = &CategoryError{
		Code:    CodeInvalidID,
		Message: "Invalid category id",
	}
	ErrInvalidStatus = &CategoryError{
		Code:    CodeInvalidStatus,
		Message: "Status must be 'active' or 'inactive'",
	}
	ErrInvalidMedia = &CategoryError{
		Code:    CodeInvalidMedia,
		Message: "Invalid media upload",
	}
	ErrValidation = &CategoryError{
		Code:    CodeValidation,
		Message: "Invalid request",
	}
)

var statusByCode = map[string]int{
	CodeInvalidName:      http.StatusBadRequest,
	CodeParentNotFound:   http.StatusNotFound,
	CodeCircularParent:   http.StatusBadRequest,
	CodeDepthExceeded:    http.StatusUnprocessableEntity,
	CodeDuplicateName:    http.StatusConflict,
	CodeNoFieldsProvided: http.StatusBadRequest,
	CodeNotFound:         http.StatusNotFound,
	CodeHasSubcategories: http.StatusConflict,
	CodeHasProducts:      http.StatusConflict,
	CodeStorageFailure:   http.StatusInternalServerError,
	CodeInvalidID:        http.StatusBadRequest,
	CodeInvalidStatus:    http.StatusBadRequest,
	CodeInvalidMedia:     http.StatusBadRequest,
	CodeValidation:       http.StatusBadRequest,
}

// NewStorageError wraps an unexpected persistence error.
// Category errors pass through unchanged.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var catErr *CategoryError
	if errors.As(err, &catErr) {
		return err
	}
	return ErrStorageFailure.Wrap(fmt.Errorf("%s: %w", op, err))
}

func asCategoryError(err error) (*CategoryError, bool) {
	var catErr *CategoryError
	if errors.As(err, &catErr) {
		return catErr, true
	}
	return nil, false
}

// GetHTTPStatusCode maps an error to its HTTP status. Unknown errors are 500.
func GetHTTPStatusCode(err error) int {
	if catErr, ok := asCategoryError(err); ok {
		if status, found := statusByCode[catErr.Code]; found {
			return status
		}
	}
	return http.StatusInternalServerError
}

func GetErrorCode(err error) string {
	if catErr, ok := asCategoryError(err); ok {
		return catErr.Code
	}
	return CodeStorageFailure
}

// GetErrorMessage returns a message safe to show to clients.
func GetErrorMessage(err error) string {
	catErr, ok := asCategoryError(err)
	if !ok || catErr.Code == CodeStorageFailure {
		return ErrStorageFailure.Message
	}
	return catErr.Message
}
