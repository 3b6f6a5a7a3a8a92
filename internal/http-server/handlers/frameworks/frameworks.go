package frameworks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"brief_responses/internal/briefs"
	"brief_responses/internal/http-server/middleware/auth"
	"brief_responses/internal/http-server/view"
	"brief_responses/internal/lib/errors"
	"brief_responses/internal/lib/logger/sl"
	"brief_responses/internal/models/brief"
	"brief_responses/internal/storage/dataapi"
)

type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any)
	Error(w http.ResponseWriter, r *http.Request, status int)
}

type Storage interface {
	GetFramework(ctx context.Context, slug string) (brief.Framework, error)
	GetSupplierFramework(ctx context.Context, supplierID int, frameworkSlug string) (brief.SupplierFramework, error)
	FindBriefResponses(ctx context.Context, filter dataapi.ResponseFilter) ([]brief.Response, error)
}

type dashboardPage struct {
	Framework brief.Framework
	Drafts    []briefs.Row
	Completed []briefs.Row
}

// NewOpportunitiesDashboard lists the supplier's applications on a framework.
func NewOpportunitiesDashboard(log *slog.Logger, pages Renderer, storage Storage, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.frameworks.NewOpportunitiesDashboard"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx := r.Context()

		fail := func(err error) {
			status := errors.StatusCode(err)
			if status >= http.StatusInternalServerError {
				log.Error("failed to build dashboard", sl.Err(err))
			}
			pages.Error(w, r, status)
		}

		u, ok := auth.User(r)
		if !ok {
			fail(fmt.Errorf("%s: no supplier user on request", op))
			return
		}

		fw, err := storage.GetFramework(ctx, chi.URLParam(r, "frameworkSlug"))
		if err != nil {
			fail(fmt.Errorf("%s: %w", op, err))
			return
		}
		if fw.Family != brief.DOSFamily {
			fail(fmt.Errorf("%s: framework %s is not %s: %w", op, fw.Slug, brief.DOSFamily, errors.ErrNotFound))
			return
		}

		interest, err := storage.GetSupplierFramework(ctx, u.SupplierID(), fw.Slug)
		if err != nil {
			fail(fmt.Errorf("%s: %w", op, err))
			return
		}
		if !interest.OnFramework {
			fail(fmt.Errorf("%s: supplier %d is not on %s: %w", op, u.SupplierID(), fw.Slug, errors.ErrNotFound))
			return
		}

		withData := false
		responses, err := storage.FindBriefResponses(ctx, dataapi.ResponseFilter{
			SupplierID: u.SupplierID(),
			Framework:  fw.Slug,
			Statuses:   brief.DashboardResponseStatuses,
			WithData:   &withData,
		})
		if err != nil {
			fail(fmt.Errorf("%s: %w", op, err))
			return
		}

		d := briefs.BuildDashboard(responses, now())

		pages.Render(w, r, http.StatusOK, view.PageDashboard, "Your "+fw.Name+" opportunities", dashboardPage{
			Framework: fw,
			Drafts:    d.Drafts,
			Completed: d.Completed,
		})
	}
}
