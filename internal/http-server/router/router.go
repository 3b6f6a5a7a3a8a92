package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"brief_responses/internal/config"
	"brief_responses/internal/http-server/handlers/briefs"
	"brief_responses/internal/http-server/handlers/frameworks"
	"brief_responses/internal/http-server/handlers/public"
	"brief_responses/internal/http-server/handlers/status"
	"brief_responses/internal/http-server/middleware/auth"
	mwLogger "brief_responses/internal/http-server/middleware/logger"
)

type Storage interface {
	briefs.Storage
	frameworks.Storage
	status.APIStatusGetter
	auth.UserGetter
}

type Sessions interface {
	auth.Sessions
	Middleware(next http.Handler) http.Handler
}

type Deps struct {
	Storage        Storage
	Sessions       Sessions
	Pages          briefs.Renderer
	Manifests      briefs.ManifestProvider
	Clarifications briefs.ClarificationQuestionSender
}

// New builds the application's handler. Every page lives under
// cfg.URLPrefix; only the status check and the public brief redirect are
// served without logging in.
func New(log *slog.Logger, cfg *config.Config, d Deps) http.Handler {
	env := briefs.Env{
		Pages:     d.Pages,
		Flashes:   d.Sessions,
		Manifests: d.Manifests,
		Paths:     briefs.Paths{Prefix: cfg.URLPrefix},
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.RedirectSlashes)

	pages := func(r chi.Router) {
		r.Get("/_status", status.New(log, d.Storage))

		r.Group(func(r chi.Router) {
			r.Use(d.Sessions.Middleware)
			r.Use(auth.CSRF(log, cfg.SecretKey, cfg.SessionCookieSecure, cfg.CSRFEnabled, d.Sessions))

			r.Get("/{briefID}", public.NewBriefRedirect(log, d.Pages, d.Storage, cfg.WebURL))

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireSupplier(log, d.Sessions, d.Storage))
				r.Use(noCache)

				r.Get("/frameworks/{frameworkSlug}", frameworks.NewOpportunitiesDashboard(log, d.Pages, d.Storage, time.Now))

				briefs.Routes(log, env, d.Storage, d.Clarifications)(r)
			})
		})
	}

	if cfg.URLPrefix == "" {
		pages(router)
	} else {
		router.Route(cfg.URLPrefix, pages)
	}

	return router
}

func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		next.ServeHTTP(w, r)
	})
}
