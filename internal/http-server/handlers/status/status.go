package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"brief_responses/internal/lib/logger/sl"
)

type APIStatusGetter interface {
	Status(ctx context.Context) (map[string]any, error)
}

type Response struct {
	Status    string         `json:"status"`
	Message   string         `json:"message,omitempty"`
	APIStatus map[string]any `json:"api_status,omitempty"`
}

// New reports whether the service and the Data API behind it are up.
func New(log *slog.Logger, api APIStatusGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.status.New"

		log := log.With(slog.String("op", op))

		apiStatus, err := api.Status(r.Context())
		if err != nil {
			log.Error("data api status check failed", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, Response{
				Status:  "error",
				Message: "Error connecting to the Data API",
			})
			return
		}

		render.JSON(w, r, Response{Status: "ok", APIStatus: apiStatus})
	}
}
