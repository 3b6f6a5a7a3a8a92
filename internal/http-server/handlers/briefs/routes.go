package briefs

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
)

type Storage interface {
	BriefGetter
	EligibilityChecker
	FrameworkGetter
	ResponseGetter
	ResponseFinder
	ResponseCreator
	ResponseUpdater
	ResponseSubmitter
}

// Routes registers the supplier's pages for a single brief.
func Routes(log *slog.Logger, env Env, storage Storage, sender ClarificationQuestionSender) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/{briefID}/question-and-answer-session", NewQuestionAndAnswerSession(log, env, storage))

		ask := NewAskQuestion(log, env, storage, sender)
		r.Get("/{briefID}/ask-a-question", ask)
		r.Post("/{briefID}/ask-a-question", ask)

		start := NewStartResponse(log, env, storage)
		r.Get("/{briefID}/responses/start", start)
		r.Post("/{briefID}/responses/start", start)

		r.Get("/{briefID}/responses/result", NewResult(log, env, storage))

		edit := NewEditResponse(log, env, storage)
		r.Get("/{briefID}/responses/{responseID}", edit)
		r.Get("/{briefID}/responses/{responseID}/{questionID}", edit)
		r.Post("/{briefID}/responses/{responseID}/{questionID}", edit)
		r.Get("/{briefID}/responses/{responseID}/{questionID}/edit", edit)
		r.Post("/{briefID}/responses/{responseID}/{questionID}/edit", edit)

		review := NewReviewResponse(log, env, storage)
		r.Get("/{briefID}/responses/{responseID}/application", review)
		r.Post("/{briefID}/responses/{responseID}/application", review)
	}
}
