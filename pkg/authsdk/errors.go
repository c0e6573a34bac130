package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/brianwits/cowsaltpro/pkg/httpx"
)

// Error codes returned in the "error" field of failed responses.
const (
	ErrorCodeInvalidRequest         = "invalid_request"
	ErrorCodeInvalidCredentials     = "invalid_credentials"
	ErrorCodeInvalidToken           = "invalid_token"
	ErrorCodeForbidden              = "forbidden"
	ErrorCodePasswordChangeRequired = "password_change_required"
	ErrorCodeNotFound               = "not_found"
	ErrorCodeDuplicateUsername      = "duplicate_username"
	ErrorCodeCannotDeleteSelf       = "cannot_delete_self"
	ErrorCodeServerError            = "server_error"
)

// APIError is the wire form of a failed request. It implements the error
// interface so the client can return it directly, and the server uses it to
// write error responses.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// WithDescription returns a copy of the error carrying a specific description.
func (e *APIError) WithDescription(desc string) *APIError {
	clone := *e
	clone.Description = desc
	return &clone
}

var (
	// ErrInvalidRequest is returned when the request body is malformed or a
	// field fails validation.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidCredentials is returned when a login fails. The same error
	// covers unknown usernames and wrong passwords.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid username or password",
	}

	// ErrInvalidToken is returned when the bearer token is missing, malformed,
	// expired, or has been replaced by a newer login.
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "missing or invalid session token",
	}

	// ErrForbidden is returned when the authenticated user lacks the rights
	// for the operation.
	ErrForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeForbidden,
		Description: "insufficient privileges",
	}

	// ErrPasswordChangeRequired is returned when the account must rotate its
	// password before using any other endpoint.
	ErrPasswordChangeRequired = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodePasswordChangeRequired,
		Description: "password change required before continuing",
	}

	// ErrNotFound is returned when the addressed user does not exist.
	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "user not found",
	}

	// ErrDuplicateUsername is returned when creating a user with a username
	// that is already taken.
	ErrDuplicateUsername = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeDuplicateUsername,
		Description: "username is already taken",
	}

	// ErrCannotDeleteSelf is returned when a user attempts to delete their
	// own account.
	ErrCannotDeleteSelf = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeCannotDeleteSelf,
		Description: "users cannot delete their own account",
	}

	// ErrServerError is returned for unexpected failures. Details stay in the
	// server log.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)
