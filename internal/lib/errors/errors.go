package errors

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrValidation          = errors.New("validation failed")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrSessionExpired      = errors.New("session expired")
)

// StatusCoder is implemented by errors carrying the status of a failed
// upstream response.
type StatusCoder interface {
	HTTPStatus() int
}

// StatusCode maps an error to the status of the page that should be rendered
// for it. Upstream failures keep their own status; otherwise the taxonomy
// above decides and unknown errors are internal errors.
func StatusCode(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) && sc.HTTPStatus() >= http.StatusBadRequest {
		return sc.HTTPStatus()
	}

	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
