package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey indicates the client was constructed without a credential.
	ErrMissingAPIKey = errors.New("llm api key is not configured")

	// ErrRateLimited indicates the client-side request cap was reached.
	ErrRateLimited = errors.New("too many AI requests, please wait a moment before trying again")

	// ErrServerRateLimited indicates the service answered 429.
	ErrServerRateLimited = errors.New("the AI service is rate limiting requests, try again shortly")

	// ErrInvalidCredential indicates the service answered 401 or 403.
	ErrInvalidCredential = errors.New("the AI service rejected the API key")

	// ErrBadRequest indicates the service answered 400.
	ErrBadRequest = errors.New("the AI service rejected the request, try rephrasing the prompt")

	// ErrUpstream indicates any other non-success status from the service.
	ErrUpstream = errors.New("the AI service returned an error")

	// ErrEmptyGeneration indicates a successful response without candidates.
	ErrEmptyGeneration = errors.New("the AI service returned no content")

	// ErrTransport indicates the request never got a response.
	ErrTransport = errors.New("could not reach the AI service")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")
)

// APIError carries the status and raw body of an unsuccessful response.
// It unwraps to the sentinel matching the status class.
type APIError struct {
	StatusCode int
	Body       string
	kind       error
}

func (e *APIError) Error() string {
	if e.kind == ErrUpstream {
		return fmt.Sprintf("%v (status %d): %s", e.kind, e.StatusCode, e.Body)
	}
	return e.kind.Error()
}

func (e *APIError) Unwrap() error { return e.kind }

// statusError maps a non-2xx HTTP status to an APIError.
func statusError(status int, body string) *APIError {
	var kind error
	switch {
	case status == 429:
		kind = ErrServerRateLimited
	case status == 401 || status == 403:
		kind = ErrInvalidCredential
	case status == 400:
		kind = ErrBadRequest
	default:
		kind = ErrUpstream
	}
	return &APIError{StatusCode: status, Body: body, kind: kind}
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRateLimited):
		return "CLIENT_RATE_LIMIT"
	case errors.Is(err, ErrServerRateLimited):
		return "SERVER_RATE_LIMIT"
	case errors.Is(err, ErrInvalidCredential):
		return "CREDENTIAL"
	case errors.Is(err, ErrBadRequest):
		return "BAD_REQUEST"
	case errors.Is(err, ErrUpstream):
		return "UPSTREAM"
	case errors.Is(err, ErrEmptyGeneration):
		return "EMPTY_GENERATION"
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrTransport):
		return "TRANSPORT"
	default:
		return "UNKNOWN"
	}
}
