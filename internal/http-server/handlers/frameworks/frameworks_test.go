package frameworks

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"brief_responses/internal/http-server/middleware/auth"
	"brief_responses/internal/models/brief"
	"brief_responses/internal/models/user"
	"brief_responses/internal/storage/dataapi"
)

var now = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

type fakeStorage struct {
	frameworks  map[string]brief.Framework
	onFramework bool
	interestErr error
	responses   []brief.Response
	filter      dataapi.ResponseFilter
}

func (s *fakeStorage) GetFramework(_ context.Context, slug string) (brief.Framework, error) {
	fw, ok := s.frameworks[slug]
	if !ok {
		return brief.Framework{}, &dataapi.HTTPError{StatusCode: http.StatusNotFound, Message: "Not found"}
	}
	return fw, nil
}

func (s *fakeStorage) GetSupplierFramework(_ context.Context, supplierID int, slug string) (brief.SupplierFramework, error) {
	if s.interestErr != nil {
		return brief.SupplierFramework{}, s.interestErr
	}
	return brief.SupplierFramework{SupplierID: supplierID, FrameworkSlug: slug, OnFramework: s.onFramework}, nil
}

func (s *fakeStorage) FindBriefResponses(_ context.Context, filter dataapi.ResponseFilter) ([]brief.Response, error) {
	s.filter = filter
	return s.responses, nil
}

type fakePages struct {
	status int
	data   any
}

func (p *fakePages) Render(w http.ResponseWriter, _ *http.Request, status int, _, _ string, data any) {
	p.status, p.data = status, data
	w.WriteHeader(status)
}

func (p *fakePages) Error(w http.ResponseWriter, _ *http.Request, status int) {
	p.status, p.data = status, nil
	w.WriteHeader(status)
}

func response(id int, status brief.ResponseStatus, briefStatus brief.Status, closedDaysAgo int) brief.Response {
	closed := brief.Timestamp{Time: now.AddDate(0, 0, -closedDaysAgo)}
	return brief.Response{
		ID:     id,
		Status: status,
		Brief:  brief.BriefSummary{ID: id * 10, Status: briefStatus, ApplicationsClosedAt: closed},
	}
}

func newStorage() *fakeStorage {
	return &fakeStorage{
		frameworks: map[string]brief.Framework{
			"digital-outcomes-and-specialists-5": {
				Slug: "digital-outcomes-and-specialists-5", Name: "DOS 5", Family: brief.DOSFamily, Status: brief.FrameworkLive,
			},
			"g-cloud-14": {Slug: "g-cloud-14", Name: "G-Cloud 14", Family: "g-cloud", Status: brief.FrameworkLive},
		},
		onFramework: true,
	}
}

func serve(storage *fakeStorage, pages *fakePages, path string) *httptest.ResponseRecorder {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	u := user.User{ID: 1, Role: user.RoleSupplier, Active: true, Supplier: &user.Supplier{SupplierID: 1000}}

	router := chi.NewRouter()
	router.Get("/frameworks/{frameworkSlug}", func(w http.ResponseWriter, r *http.Request) {
		h := NewOpportunitiesDashboard(log, pages, storage, func() time.Time { return now })
		h(w, r.WithContext(auth.WithUser(r.Context(), u)))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestDashboardRefusals(t *testing.T) {
	tests := []struct {
		name     string
		slug     string
		modify   func(s *fakeStorage)
		wantCode int
	}{
		{"unknown framework", "nope", func(*fakeStorage) {}, http.StatusNotFound},
		{"other family", "g-cloud-14", func(*fakeStorage) {}, http.StatusNotFound},
		{"not on framework", "digital-outcomes-and-specialists-5", func(s *fakeStorage) { s.onFramework = false }, http.StatusNotFound},
		{
			"api unavailable",
			"digital-outcomes-and-specialists-5",
			func(s *fakeStorage) {
				s.interestErr = &dataapi.HTTPError{StatusCode: http.StatusServiceUnavailable, Message: "down"}
			},
			http.StatusServiceUnavailable,
		},
		{
			"api status passed through",
			"digital-outcomes-and-specialists-5",
			func(s *fakeStorage) {
				s.interestErr = &dataapi.HTTPError{StatusCode: http.StatusGone, Message: "gone"}
			},
			http.StatusGone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newStorage()
			tt.modify(storage)

			rec := serve(storage, &fakePages{}, "/frameworks/"+tt.slug)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestDashboard(t *testing.T) {
	storage := newStorage()
	storage.responses = []brief.Response{
		response(1, brief.ResponseDraft, brief.StatusClosed, 15),
		response(2, brief.ResponseDraft, brief.StatusClosed, 13),
		response(3, brief.ResponseDraft, brief.StatusLive, -5),
		response(4, brief.ResponseSubmitted, brief.StatusClosed, 2),
		response(5, brief.ResponseAwarded, brief.StatusAwarded, 40),
	}
	pages := &fakePages{}

	rec := serve(storage, pages, "/frameworks/digital-outcomes-and-specialists-5")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want %d", rec.Code, http.StatusOK)
	}

	if storage.filter.SupplierID != 1000 || storage.filter.Framework != "digital-outcomes-and-specialists-5" {
		t.Errorf("filter = %+v", storage.filter)
	}
	if storage.filter.WithData == nil || *storage.filter.WithData {
		t.Error("responses were requested with their data")
	}

	page := pages.data.(dashboardPage)

	var drafts []int
	for _, row := range page.Drafts {
		drafts = append(drafts, row.Response.ID)
	}
	if len(drafts) != 2 || drafts[0] != 3 || drafts[1] != 2 {
		t.Errorf("drafts = %v, want [3 2]", drafts)
	}

	if len(page.Completed) != 2 || page.Completed[0].Response.ID != 4 {
		t.Fatalf("completed = %+v", page.Completed)
	}
	if page.Completed[0].Label == "" || page.Completed[1].Label == "" {
		t.Error("completed rows are missing their labels")
	}
}
