package dataapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/render"

	"brief_responses/internal/lib/errors"
)

// API failures match the shared error taxonomy so handlers can switch on it.
var (
	ErrNotFound    = errors.ErrNotFound
	ErrBadRequest  = errors.ErrValidation
	ErrForbidden   = errors.ErrForbidden
	ErrUnavailable = errors.ErrUpstreamUnavailable
)

// HTTPError is returned for every unsuccessful API call. Message holds the
// "error" member of the response body, which is a string for most failures
// and an object of field -> error code for validation failures.
type HTTPError struct {
	StatusCode int
	Message    any
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("data api: %d: %v", e.StatusCode, e.Message)
}

func (e *HTTPError) HTTPStatus() int {
	return e.StatusCode
}

func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrBadRequest:
		return e.StatusCode == http.StatusBadRequest
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrUnavailable:
		return e.StatusCode == http.StatusServiceUnavailable
	}
	return false
}

// FieldErrors returns the structured validation payload of a 400 response, or
// nil when the body did not carry one.
func (e *HTTPError) FieldErrors() map[string]any {
	m, _ := e.Message.(map[string]any)
	return m
}

type Storage struct {
	baseURL   string
	authToken string
	client    *http.Client
}

func New(baseURL, authToken string, timeout time.Duration) *Storage {
	return &Storage{
		baseURL:   strings.TrimRight(baseURL, "/"),
		authToken: authToken,
		client:    &http.Client{Timeout: timeout},
	}
}

func (s *Storage) request(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := s.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.authToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return &HTTPError{StatusCode: http.StatusServiceUnavailable, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := render.DecodeJSON(resp.Body, out); err != nil {
		return &HTTPError{StatusCode: http.StatusInternalServerError, Message: err.Error()}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error any `json:"error"`
	}
	if err := render.DecodeJSON(resp.Body, &payload); err != nil || payload.Error == nil {
		return &HTTPError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: payload.Error}
}
