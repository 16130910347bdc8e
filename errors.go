package minihttpd

import (
	"errors"
	"net/http"
)

// Error kinds produced while handling a request. Callers wrap them with
// fmt.Errorf("%w") and dispatch with errors.Is.
var (
	ErrMalformedRequest     = errors.New("malformed request")
	ErrMethodNotAllowed     = errors.New("method not allowed")
	ErrNotFound             = errors.New("not found")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)

// StatusCode returns the response status for an error kind.
// A nil error is 200; unknown errors are treated as malformed requests.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	}
	return http.StatusBadRequest
}
