package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidEndpoint means the endpoint could not be resolved against the base URL.
	ErrInvalidEndpoint = errors.New("backend: invalid endpoint")
	// ErrEncodingFailed means the request body could not be serialized.
	ErrEncodingFailed = errors.New("backend: failed to encode request body")
	// ErrDecodingFailed means the response body could not be parsed into the expected shape.
	ErrDecodingFailed = errors.New("backend: failed to decode response")
	// ErrInvalidResponse means the transport returned no usable HTTP response.
	ErrInvalidResponse = errors.New("backend: invalid response")
)

// HTTPError reports a non-2xx status from the backend.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("backend: http status %d", e.Status)
}

// StatusCode returns the HTTP status. Callers outside this package match it
// via errors.As on an interface{ StatusCode() int } without importing backend.
func (e *HTTPError) StatusCode() int {
	return e.Status
}

// IsNotFound reports whether err is an HTTP 404 from the backend.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound
}
