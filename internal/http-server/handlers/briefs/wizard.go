package briefs

import (
	"context"
	serrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"brief_responses/internal/briefs"
	"brief_responses/internal/content"
	"brief_responses/internal/http-server/view"
	"brief_responses/internal/lib/errors"
	"brief_responses/internal/lib/logger/sl"
	"brief_responses/internal/models/brief"
	"brief_responses/internal/session"
	"brief_responses/internal/storage/dataapi"
)

type ResponseUpdater interface {
	UpdateBriefResponse(ctx context.Context, responseID int, data map[string]any, updatedBy string, pageQuestions []string) (brief.Response, error)
}

type ResponseEditor interface {
	BriefGetter
	EligibilityChecker
	FrameworkGetter
	ResponseGetter
	ResponseUpdater
}

type questionPage struct {
	Brief       brief.Brief
	Question    content.Question
	Values      map[string]any
	Errors      content.Errors
	IsLastPage  bool
	PreviousURL string
	Action      string
}

// NewEditResponse serves the question pages of the application wizard. Under
// a route ending in /edit a single answer is changed and the supplier goes
// straight back to the review page.
func NewEditResponse(log *slog.Logger, env Env, storage ResponseEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.briefs.NewEditResponse"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx := r.Context()

		u, err := currentUser(r)
		if err != nil {
			fail(w, r, log, env, err)
			return
		}

		briefID, err := urlInt(r, "briefID")
		if err != nil {
			fail(w, r, log, env, err)
			return
		}
		responseID, err := urlInt(r, "responseID")
		if err != nil {
			fail(w, r, log, env, err)
			return
		}
		questionID := chi.URLParam(r, "questionID")
		singleQuestion := strings.HasSuffix(chi.RouteContext(ctx).RoutePattern(), "/edit")

		b, err := getBrief(ctx, storage, briefID, briefs.EditStatuses)
		if err != nil {
			fail(w, r, log, env, err)
			return
		}

		resp, err := getOwnResponse(ctx, storage, b, u, responseID)
		if err != nil {
			fail(w, r, log, env, err)
			return
		}

		if !checkEligible(w, r, log, env, storage, u, b, false) {
			return
		}

		_, lot, err := frameworkLot(ctx, storage, b)
		if err != nil {
			fail(w, r, log, env, err)
			return
		}

		maxDayRate, err := briefs.MaxDayRate(ctx, storage, u.SupplierID(), b)
		if err != nil {
			fail(w, r, log, env, err)
			return
		}

		manifest, err := env.Manifests.Manifest(b.FrameworkSlug, content.EditBriefResponse)
		if err != nil {
			fail(w, r, log, env, fmt.Errorf("%s: %w", op, err))
			return
		}

		c := manifest.Filter(content.Context{Lot: lot.Slug, Brief: b.Data, MaxDayRate: maxDayRate})
		section := c.Section(c.NextEditableSectionID())
		if section == nil || !section.Editable {
			fail(w, r, log, env, fmt.Errorf("%s: no editable section for %s: %w", op, b.FrameworkSlug, errors.ErrNotFound))
			return
		}

		if briefs.Skipped(b, questionID) {
			fail(w, r, log, env, fmt.Errorf("%s: question %s is skipped: %w", op, questionID, errors.ErrNotFound))
			return
		}

		next := briefs.NextQuestionID(section, b, questionID)

		if questionID == "" {
			if next == "" {
				http.Redirect(w, r, env.Paths.Review(b.ID, resp.ID), http.StatusFound)
				return
			}
			http.Redirect(w, r, env.Paths.Question(b.ID, resp.ID, next), http.StatusFound)
			return
		}

		q := section.Question(questionID)
		if q == nil {
			fail(w, r, log, env, fmt.Errorf("%s: unknown question %s: %w", op, questionID, errors.ErrNotFound))
			return
		}

		page := questionPage{
			Brief:      b,
			Question:   q,
			Values:     q.UnformatData(resp.Answers()),
			IsLastPage: next == "",
			Action:     r.URL.Path,
		}
		if !singleQuestion {
			if previous := briefs.PreviousQuestionID(section, b, questionID); previous != "" {
				page.PreviousURL = env.Paths.Question(b.ID, resp.ID, previous)
			}
		}

		status := http.StatusOK

		if r.Method == http.MethodPost {
			if err := r.ParseForm(); err != nil {
				fail(w, r, log, env, fmt.Errorf("%s: %w: %w", op, errors.ErrValidation, err))
				return
			}

			data := q.GetData(r.PostForm)

			_, err := storage.UpdateBriefResponse(ctx, resp.ID, data, u.EmailAddress, []string{q.ID()})
			if err == nil {
				log.Info("brief response updated", slog.Int("brief_response_id", resp.ID), slog.String("question", q.ID()))

				if singleQuestion || next == "" {
					if singleQuestion {
						flash(w, r, log, env, session.FlashMessage, briefs.MsgApplicationUpdated)
					}
					http.Redirect(w, r, env.Paths.Review(b.ID, resp.ID), http.StatusFound)
					return
				}
				http.Redirect(w, r, env.Paths.Question(b.ID, resp.ID, next), http.StatusFound)
				return
			}

			var httpErr *dataapi.HTTPError
			if !serrors.As(err, &httpErr) || httpErr.StatusCode != http.StatusBadRequest {
				fail(w, r, log, env, fmt.Errorf("%s: %w", op, err))
				return
			}

			log.Info("brief response rejected", slog.Int("brief_response_id", resp.ID), sl.Err(err))

			status = http.StatusBadRequest
			page.Errors = q.ErrorMessages(httpErr.FieldErrors())
			page.Values = q.UnformatData(data)
		}

		env.Pages.Render(w, r, status, view.PageEditQuestion, q.Label(), page)
	}
}
