package sparql

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Common errors returned by the SPARQL client.
var (
	// ErrNetworkError indicates the endpoint could not be reached.
	ErrNetworkError = errors.New("network error communicating with SPARQL endpoint")

	// ErrInvalidResponse indicates a body that is not SPARQL Results JSON.
	ErrInvalidResponse = errors.New("invalid response from SPARQL endpoint")

	// ErrInvalidIRI indicates an entity identifier that cannot be embedded as <iri>.
	ErrInvalidIRI = errors.New("invalid IRI")

	// ErrEmptyQuery indicates a blank free-form query.
	ErrEmptyQuery = errors.New("empty query")
)

// HTTPError is returned when the endpoint answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Body       string // First bytes of the response body, for diagnostics
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("SPARQL error %d", e.StatusCode)
}

// IsHTTPStatus returns true if err is an HTTPError with the given status.
func IsHTTPStatus(err error, status int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == status
	}
	return false
}

// IsRateLimited returns true if the endpoint refused the request for load reasons.
func IsRateLimited(err error) bool {
	return IsHTTPStatus(err, http.StatusTooManyRequests) || IsHTTPStatus(err, http.StatusServiceUnavailable)
}

// checkHTTPErrors returns an HTTPError if the response status is not 2xx.
func checkHTTPErrors(resp *http.Response) *HTTPError {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
}

// maxErrorBody caps how much of an error body is kept.
const maxErrorBody = 512
