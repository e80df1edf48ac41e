package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Authorization errors
	ErrCodeForbidden = "FORBIDDEN"

	// Validation errors
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeDepartmentMismatch = "DEPARTMENT_MISMATCH"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeConflict = "CONFLICT"

	// Service errors
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeStoreUnavailable = "STORE_UNAVAILABLE"
)

// Kind classifies a domain error so callers can distinguish "bad input" from
// "not permitted" from "gone" without string matching.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindAuthorization      Kind = "authorization"
	KindNotFound           Kind = "not_found"
	KindDepartmentMismatch Kind = "department_mismatch"
	KindConflict           Kind = "conflict"
	KindStoreUnavailable   Kind = "store_unavailable"
)

// DomainError is the error type returned by the core packages. Field carries
// the offending input field (validation) or the denial reason (authorization)
// so the presentation layer can render a precise message.
type DomainError struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *DomainError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Validation reports malformed input on a named field.
func Validation(field, message string) *DomainError {
	return &DomainError{Kind: KindValidation, Field: field, Message: message}
}

// Authorization reports a role or ownership denial. reason is a stable
// machine-readable value such as "NotOwner" or "RoleNotPermitted".
func Authorization(reason, message string) *DomainError {
	return &DomainError{Kind: KindAuthorization, Field: reason, Message: message}
}

// NotFoundID reports that the referenced record does not exist.
func NotFoundID(entity string, id uint64) *DomainError {
	return &DomainError{Kind: KindNotFound, Field: entity, Message: fmt.Sprintf("%s %d not found", entity, id)}
}

// DepartmentMismatch reports the creation-time cross-field invariant
// violation between a task's department and its assignee's department.
func DepartmentMismatch() *DomainError {
	return &DomainError{
		Kind:    KindDepartmentMismatch,
		Field:   "department_id",
		Message: "assigned user does not belong to the selected department",
	}
}

// Conflict reports a detected lost update.
func Conflict(message string) *DomainError {
	return &DomainError{Kind: KindConflict, Message: message}
}

// StoreUnavailable wraps a persistence failure.
func StoreUnavailable(err error) *DomainError {
	return &DomainError{Kind: KindStoreUnavailable, Message: fmt.Sprintf("store unavailable: %v", err)}
}

// AsDomain extracts a DomainError from an error chain.
func AsDomain(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsKind reports whether err is a DomainError of the given kind.
func IsKind(err error, kind Kind) bool {
	de, ok := AsDomain(err)
	return ok && de.Kind == kind
}

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// RespondDomain maps a core error onto the HTTP surface. Unknown errors are
// reported as internal so nothing is swallowed silently.
func RespondDomain(c *gin.Context, err error) {
	de, ok := AsDomain(err)
	if !ok {
		InternalError(c, "")
		return
	}

	switch de.Kind {
	case KindValidation:
		RespondWithError(c, http.StatusBadRequest, &APIError{
			Code:    ErrCodeInvalidInput,
			Message: de.Message,
			Details: gin.H{"field": de.Field},
		})
	case KindDepartmentMismatch:
		RespondWithError(c, http.StatusBadRequest, &APIError{
			Code:    ErrCodeDepartmentMismatch,
			Message: de.Message,
			Details: gin.H{"field": de.Field},
		})
	case KindAuthorization:
		RespondWithError(c, http.StatusForbidden, &APIError{
			Code:    ErrCodeForbidden,
			Message: de.Message,
			Details: gin.H{"reason": de.Field},
		})
	case KindNotFound:
		RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, de.Message))
	case KindConflict:
		RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeConflict, de.Message))
	case KindStoreUnavailable:
		RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(ErrCodeStoreUnavailable, de.Message))
	default:
		InternalError(c, "")
	}
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}
