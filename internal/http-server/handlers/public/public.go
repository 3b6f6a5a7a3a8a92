package public

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"brief_responses/internal/briefs"
	"brief_responses/internal/lib/errors"
	"brief_responses/internal/lib/logger/sl"
	"brief_responses/internal/models/brief"
)

type BriefGetter interface {
	GetBrief(ctx context.Context, briefID int) (brief.Brief, error)
}

type ErrorRenderer interface {
	Error(w http.ResponseWriter, r *http.Request, status int)
}

// NewBriefRedirect sends visitors to the opportunity's page on the buyer
// frontend. webURL may be empty, giving a path on the same host.
func NewBriefRedirect(log *slog.Logger, pages ErrorRenderer, storage BriefGetter, webURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.public.NewBriefRedirect"

		log := log.With(slog.String("op", op))

		briefID, err := strconv.Atoi(chi.URLParam(r, "briefID"))
		if err != nil {
			pages.Error(w, r, http.StatusNotFound)
			return
		}

		b, err := storage.GetBrief(r.Context(), briefID)
		if err != nil {
			status := errors.StatusCode(err)
			if status >= http.StatusInternalServerError {
				log.Error("failed to get brief", sl.Err(err))
			}
			pages.Error(w, r, status)
			return
		}

		http.Redirect(w, r, webURL+briefs.PublicBriefPath(b), http.StatusFound)
	}
}
