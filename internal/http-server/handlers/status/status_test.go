package status

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeAPI struct {
	status map[string]any
	err    error
}

func (f fakeAPI) Status(context.Context) (map[string]any, error) {
	return f.status, f.err
}

func TestStatus(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		api        fakeAPI
		wantCode   int
		wantStatus string
	}{
		{"api up", fakeAPI{status: map[string]any{"status": "ok"}}, http.StatusOK, "ok"},
		{"api down", fakeAPI{err: errors.New("connection refused")}, http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			New(log, tt.api)(rec, httptest.NewRequest(http.MethodGet, "/_status", nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", rec.Code, tt.wantCode)
			}

			var got Response
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", got.Status, tt.wantStatus)
			}
		})
	}
}
