package view

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type noFlashes struct{}

func (noFlashes) Flashes(http.ResponseWriter, *http.Request) map[string][]string {
	return map[string][]string{"message": {"Your application has been updated."}}
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	v, err := New(slog.New(slog.NewTextHandler(io.Discard, nil)), noFlashes{}, "/suppliers/opportunities")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v
}

func TestErrorPages(t *testing.T) {
	v := newRenderer(t)

	tests := []struct {
		status int
		want   int
		text   string
	}{
		{http.StatusNotFound, http.StatusNotFound, "Page not found"},
		{http.StatusForbidden, http.StatusForbidden, "permission"},
		{http.StatusServiceUnavailable, http.StatusServiceUnavailable, "technical difficulties"},
		{http.StatusGone, http.StatusGone, "no longer available"},
		{http.StatusConflict, http.StatusConflict, "technical difficulties"},
		{http.StatusOK, http.StatusInternalServerError, "technical difficulties"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			w := httptest.NewRecorder()
			v.Error(w, httptest.NewRequest(http.MethodGet, "/", nil), tt.status)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			if !strings.Contains(w.Body.String(), tt.text) {
				t.Fatalf("body does not mention %q", tt.text)
			}
			if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
				t.Fatalf("Content-Type = %q", w.Header().Get("Content-Type"))
			}
		})
	}
}

func TestRenderShowsFlashes(t *testing.T) {
	v := newRenderer(t)
	w := httptest.NewRecorder()
	v.Render(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, pageError, "Title",
		errorPage{Heading: "Heading", Message: "Message"})

	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Your application has been updated.") {
		t.Fatalf("unexpected page %d %s", w.Code, w.Body.String())
	}
}

func TestUnknownPageIsAnInternalError(t *testing.T) {
	v := newRenderer(t)
	w := httptest.NewRecorder()
	v.Render(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "missing", "Title", nil)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}
