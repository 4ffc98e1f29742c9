package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/hardercore-api/internal/model"
	"github.com/mcoot/hardercore-api/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidPlayerID     = "INVALID_PLAYER_ID"
	CodeUnknownStatField    = "UNKNOWN_STAT_FIELD"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeNotFound            = "NOT_FOUND"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeGenerationNotFound  = "GENERATION_NOT_FOUND"
	CodeDirectoryNotFound   = "DIRECTORY_NOT_FOUND"
	CodeStoreNotEmpty       = "STORE_NOT_EMPTY"
	CodeCounterOverflow     = "COUNTER_OVERFLOW"
	CodeIdentityUnavailable = "IDENTITY_UNAVAILABLE"
	CodeIdentityDecode      = "IDENTITY_DECODE"
	CodeCorruptRecord       = "CORRUPT_RECORD"
	CodeStorageError        = "STORAGE_ERROR"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}
	var gnf *model.GenerationNotFoundError
	if errors.As(err, &gnf) {
		return &httpError{http.StatusNotFound, APIError{CodeGenerationNotFound, gnf.Error()}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player has no stats in the current world"}}
	case errors.Is(err, model.ErrGenerationNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGenerationNotFound, "World not found"}}
	case errors.Is(err, model.ErrDirectoryNotFound),
		errors.Is(err, model.ErrGenerationsDirectoryNotFound),
		errors.Is(err, model.ErrNoGenerations):
		return &httpError{http.StatusNotFound, APIError{CodeDirectoryNotFound, "World directory not found"}}
	case errors.Is(err, model.ErrStoreNotEmpty):
		return &httpError{http.StatusConflict, APIError{CodeStoreNotEmpty, "Store already contains worlds"}}
	case errors.Is(err, model.ErrOverflow):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeCounterOverflow, "Counter would overflow"}}
	case errors.Is(err, model.ErrInvalidPlayerID):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPlayerID, "Invalid player id"}}
	case errors.Is(err, model.ErrUnknownStatField):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownStatField, "Unknown stat field"}}
	case errors.Is(err, model.ErrIdentityUnavailable):
		return &httpError{http.StatusBadGateway, APIError{CodeIdentityUnavailable, "Profile lookup failed"}}
	case errors.Is(err, model.ErrIdentityDecode):
		return &httpError{http.StatusBadGateway, APIError{CodeIdentityDecode, "Profile textures could not be decoded"}}
	case errors.Is(err, model.ErrRecordParse),
		errors.Is(err, model.ErrMetadataParse),
		errors.Is(err, model.ErrInvalidGenerationName):
		return &httpError{http.StatusInternalServerError, APIError{CodeCorruptRecord, "Stored data is corrupt"}}
	case errors.Is(err, model.ErrIO):
		return &httpError{http.StatusInternalServerError, APIError{CodeStorageError, "Storage error"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid token"}}
	case errors.Is(err, auth.ErrMissingCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewNotFoundError creates a route not found error
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{CodeNotFound, "Not found"}}
}

// NewMethodNotAllowedError creates a method not allowed error
func NewMethodNotAllowedError() error {
	return &httpError{http.StatusMethodNotAllowed, APIError{CodeMethodNotAllowed, "Method not allowed"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
