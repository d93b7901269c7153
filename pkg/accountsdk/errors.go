package accountsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/stackhaven/accounts/pkg/httpx"
)

// Error codes surfaced by the account service.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeConflict           = "conflict"
	ErrorCodeServerError        = "server_error"
)

// APIError is the account service's error envelope. It implements the error
// interface and is used both by the server (to write HTTP responses) and by
// the SDK client (to represent decoded errors).
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g. "invalid_request")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`

	// Fields maps offending request field names to what is wrong with them.
	// Only populated for validation failures.
	Fields map[string]string `json:"fields,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

// NewValidationError builds a 400 invalid_request error carrying per-field
// detail.
func NewValidationError(fields map[string]string) *APIError {
	return &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "one or more fields failed validation",
		Fields:      fields,
	}
}

var (
	// ErrInvalidRequest is returned when the request body is malformed or
	// missing required parameters.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidCredentials is returned by the token endpoint for any
	// authentication failure. Deliberately vague: the client cannot tell an
	// unknown email from a wrong password.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidCredentials,
		Description: "unable to authenticate with provided credentials",
	}

	// ErrInvalidToken is returned when a bearer token is missing, unknown,
	// or no longer usable.
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "invalid or missing bearer token",
	}

	// ErrBootstrapForbidden is returned when the bootstrap token does not
	// match.
	ErrBootstrapForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeForbidden,
		Description: "bootstrap not authorized",
	}

	// ErrAlreadyBootstrapped is returned once any user exists.
	ErrAlreadyBootstrapped = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "system already bootstrapped",
	}

	// ErrServerError is the catch-all for internal failures. No internals
	// leak through it.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)
