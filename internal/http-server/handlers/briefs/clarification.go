package briefs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"brief_responses/internal/briefs"
	"brief_responses/internal/http-server/view"
	"brief_responses/internal/lib/errors"
	"brief_responses/internal/models/brief"
	"brief_responses/internal/models/user"
	"brief_responses/internal/session"
)

const guidanceURL = "https://www.gov.uk/guidance/how-to-answer-supplier-questions-about-your-digital-outcomes-and-specialists-requirements"

type ClarificationQuestionSender interface {
	Send(ctx context.Context, b brief.Brief, u user.User, question string) error
}

type BriefChecker interface {
	BriefGetter
	EligibilityChecker
}

// openForQuestions fetches a live brief that still takes clarification
// questions and checks the supplier may ask them.
func openForQuestions(w http.ResponseWriter, r *http.Request, log *slog.Logger, env Env, storage BriefChecker) (brief.Brief, user.User, bool) {
	u, err := currentUser(r)
	if err != nil {
		fail(w, r, log, env, err)
		return brief.Brief{}, user.User{}, false
	}

	briefID, err := urlInt(r, "briefID")
	if err != nil {
		fail(w, r, log, env, err)
		return brief.Brief{}, user.User{}, false
	}

	b, err := getBrief(r.Context(), storage, briefID, briefs.EditStatuses)
	if err != nil {
		fail(w, r, log, env, err)
		return brief.Brief{}, user.User{}, false
	}

	if b.ClarificationQuestionsAreClosed {
		fail(w, r, log, env, fmt.Errorf("clarification questions closed for brief %d: %w", b.ID, errors.ErrNotFound))
		return brief.Brief{}, user.User{}, false
	}

	if !checkEligible(w, r, log, env, storage, u, b, true) {
		return brief.Brief{}, user.User{}, false
	}

	return b, u, true
}

type questionAndAnswerPage struct {
	Brief  brief.Brief
	AskURL string
}

// NewQuestionAndAnswerSession shows how to join the buyer's question and
// answer session.
func NewQuestionAndAnswerSession(log *slog.Logger, env Env, storage BriefChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.briefs.NewQuestionAndAnswerSession"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		b, _, ok := openForQuestions(w, r, log, env, storage)
		if !ok {
			return
		}

		env.Pages.Render(w, r, http.StatusOK, view.PageQuestionAndAnswer, "Question and answer session", questionAndAnswerPage{
			Brief:  b,
			AskURL: env.Paths.AskQuestion(b.ID),
		})
	}
}

type clarificationPage struct {
	Brief       brief.Brief
	Question    string
	Error       string
	Action      string
	GuidanceURL string
}

// NewAskQuestion takes a clarification question for the buyer.
func NewAskQuestion(log *slog.Logger, env Env, storage BriefChecker, sender ClarificationQuestionSender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.briefs.NewAskQuestion"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		b, u, ok := openForQuestions(w, r, log, env, storage)
		if !ok {
			return
		}

		page := clarificationPage{
			Brief:       b,
			Action:      env.Paths.AskQuestion(b.ID),
			GuidanceURL: guidanceURL,
		}
		status := http.StatusOK

		if r.Method == http.MethodPost {
			if err := r.ParseForm(); err != nil {
				fail(w, r, log, env, fmt.Errorf("%s: %w: %w", op, errors.ErrValidation, err))
				return
			}

			question, message := briefs.ValidateClarificationQuestion(r.PostForm.Get("clarification_question"))
			if message != "" {
				status = http.StatusBadRequest
				page.Question = question
				page.Error = message
			} else {
				if err := sender.Send(r.Context(), b, u, question); err != nil {
					fail(w, r, log, env, fmt.Errorf("%s: %w", op, err))
					return
				}

				log.Info("clarification question sent", slog.Int("brief_id", b.ID), slog.Int("supplier_id", u.SupplierID()))

				flash(w, r, log, env, session.FlashMessage, briefs.ClarificationSentMessage(b))
				flash(w, r, log, env, session.FlashTrackPageView, page.Action+"?submitted=true")
			}
		}

		env.Pages.Render(w, r, status, view.PageClarification, "Ask a question about "+b.Title, page)
	}
}
