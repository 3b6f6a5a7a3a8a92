package briefs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"brief_responses/internal/briefs"
	"brief_responses/internal/content"
	"brief_responses/internal/http-server/view"
	"brief_responses/internal/lib/logger/sl"
	"brief_responses/internal/models/brief"
	"brief_responses/internal/session"
	"brief_responses/internal/storage/dataapi"
)

type ResponseCreator interface {
	CreateBriefResponse(ctx context.Context, briefID, supplierID int, data map[string]any, updatedBy string) (brief.Response, error)
}

type ResponseSubmitter interface {
	SubmitBriefResponse(ctx context.Context, responseID int, updatedBy string) (brief.Response, error)
}

type ResponseStarter interface {
	BriefGetter
	EligibilityChecker
	ResponseFinder
	ResponseCreator
}

type ResponseReviewer interface {
	BriefGetter
	EligibilityChecker
	FrameworkGetter
	ResponseGetter
	ResponseSubmitter
}

type ResultGetter interface {
	BriefGetter
	EligibilityChecker
	FrameworkGetter
	ResponseFinder
}

type startPage struct {
	Brief         brief.Brief
	ExistingDraft bool
	Action        string
}

// NewStartResponse shows the page before the wizard and creates the draft
// response when it is posted. A supplier has at most one response per brief.
func NewStartResponse(log *slog.Logger, env Env, storage ResponseStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.briefs.NewStartResponse"

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

		b, err := getBrief(ctx, storage, briefID, briefs.EditStatuses)
		if err != nil {
			fail(w, r, log, env, err)
			return
		}

		if !checkEligible(w, r, log, env, storage, u, b, false) {
			return
		}

		existing, err := storage.FindBriefResponses(ctx, dataapi.ResponseFilter{
			BriefID:    b.ID,
			SupplierID: u.SupplierID(),
			Statuses:   []brief.ResponseStatus{brief.ResponseDraft, brief.ResponseSubmitted},
		})
		if err != nil {
			fail(w, r, log, env, fmt.Errorf("%s: %w", op, err))
			return
		}

		var draft *brief.Response
		if len(existing) > 0 {
			if existing[0].Status == brief.ResponseSubmitted {
				http.Redirect(w, r, env.Paths.Review(b.ID, existing[0].ID), http.StatusFound)
				return
			}
			draft = &existing[0]
		}

		if r.Method == http.MethodPost {
			if draft != nil {
				http.Redirect(w, r, env.Paths.Response(b.ID, draft.ID), http.StatusFound)
				return
			}

			created, err := storage.CreateBriefResponse(ctx, b.ID, u.SupplierID(), map[string]any{}, u.EmailAddress)
			if err != nil {
				fail(w, r, log, env, fmt.Errorf("%s: %w", op, err))
				return
			}

			log.Info("brief response created", slog.Int("brief_id", b.ID), slog.Int("brief_response_id", created.ID))

			http.Redirect(w, r, env.Paths.Response(b.ID, created.ID), http.StatusFound)
			return
		}

		env.Pages.Render(w, r, http.StatusOK, view.PageStart, "Apply for "+b.Title, startPage{
			Brief:         b,
			ExistingDraft: draft != nil,
			Action:        r.URL.Path,
		})
	}
}

type reviewPage struct {
	Brief         brief.Brief
	Response      brief.Response
	Sections      []content.SummarySection
	ShowEditLinks bool
	ResponseURL   string
	CanSubmit     bool
	Action        string
}

// NewReviewResponse shows every answer of a response and submits it when
// posted.
func NewReviewResponse(log *slog.Logger, env Env, storage ResponseReviewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.briefs.NewReviewResponse"

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

		b, err := getBrief(ctx, storage, briefID, briefs.ReviewStatuses)
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

		if r.Method == http.MethodPost {
			message := briefs.MsgOpportunityClosed
			if b.Status == brief.StatusLive {
				submitted, err := storage.SubmitBriefResponse(ctx, resp.ID, u.EmailAddress)

				var logged bool
				var fatal error
				message, logged, fatal = briefs.SubmitMessage(submitted, err)
				if fatal != nil {
					fail(w, r, log, env, fmt.Errorf("%s: %w", op, fatal))
					return
				}
				if logged {
					log.Error("brief response submission failed", slog.Int("brief_response_id", resp.ID), sl.Err(err))
				}
			}

			if message == "" {
				log.Info("brief response submitted", slog.Int("brief_response_id", resp.ID))

				result := env.Paths.Result(b.ID)
				flash(w, r, log, env, session.FlashMessage, briefs.MsgApplicationSubmitted)
				flash(w, r, log, env, session.FlashTrackPageView, result+"?result=success")
				http.Redirect(w, r, result, http.StatusFound)
				return
			}

			flash(w, r, log, env, session.FlashError, message)
		}

		manifest, err := env.Manifests.Manifest(b.FrameworkSlug, resp.Shape().DisplayManifest())
		if err != nil {
			fail(w, r, log, env, fmt.Errorf("%s: %w", op, err))
			return
		}

		c := manifest.Filter(content.Context{Lot: lot.Slug, Brief: b.Data})
		c.InjectBriefQuestions(b.Data)

		env.Pages.Render(w, r, http.StatusOK, view.PageCheckAnswers, "Your application for "+b.Title, reviewPage{
			Brief:         b,
			Response:      resp,
			Sections:      briefs.WithoutSkipped(b, c.Summary(resp.Answers())),
			ShowEditLinks: resp.Shape() == brief.ShapeCurrent && briefs.ShowEditLinks(resp.Status, b.Status),
			ResponseURL:   env.Paths.Response(b.ID, resp.ID),
			CanSubmit:     resp.Status == brief.ResponseDraft && b.Status == brief.StatusLive,
			Action:        r.URL.Path,
		})
	}
}

type resultPage struct {
	Brief        brief.Brief
	Response     brief.Response
	Sections     []content.SummarySection
	BriefSummary []content.SummarySection
}

// NewResult shows a submitted response next to the brief it answers. Drafts
// and legacy responses go to the review page instead.
func NewResult(log *slog.Logger, env Env, storage ResultGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.briefs.NewResult"

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

		b, err := getBrief(ctx, storage, briefID, briefs.ResultStatuses)
		if err != nil {
			fail(w, r, log, env, err)
			return
		}

		if !checkEligible(w, r, log, env, storage, u, b, false) {
			return
		}

		responses, err := storage.FindBriefResponses(ctx, dataapi.ResponseFilter{BriefID: b.ID, SupplierID: u.SupplierID()})
		if err != nil {
			fail(w, r, log, env, fmt.Errorf("%s: %w", op, err))
			return
		}
		if len(responses) == 0 {
			http.Redirect(w, r, env.Paths.Start(b.ID), http.StatusFound)
			return
		}

		resp := responses[0]
		if resp.Shape() == brief.ShapeLegacy || resp.Status == brief.ResponseDraft {
			http.Redirect(w, r, env.Paths.Review(b.ID, resp.ID), http.StatusFound)
			return
		}

		_, lot, err := frameworkLot(ctx, storage, b)
		if err != nil {
			fail(w, r, log, env, err)
			return
		}

		display, err := env.Manifests.Manifest(b.FrameworkSlug, content.DisplayBriefResponse)
		if err != nil {
			fail(w, r, log, env, fmt.Errorf("%s: %w", op, err))
			return
		}
		briefManifest, err := env.Manifests.Manifest(b.FrameworkSlug, content.EditBrief)
		if err != nil {
			fail(w, r, log, env, fmt.Errorf("%s: %w", op, err))
			return
		}

		c := display.Filter(content.Context{Lot: lot.Slug, Brief: b.Data})
		c.InjectBriefQuestions(b.Data)

		env.Pages.Render(w, r, http.StatusOK, view.PageSubmitted, "Your application for "+b.Title, resultPage{
			Brief:        b,
			Response:     resp,
			Sections:     briefs.WithoutSkipped(b, c.Summary(resp.Answers())),
			BriefSummary: briefManifest.Filter(content.Context{Lot: lot.Slug}).Summary(b.Data),
		})
	}
}
