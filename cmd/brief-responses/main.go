package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brief_responses/internal/briefs"
	"brief_responses/internal/config"
	"brief_responses/internal/content"
	"brief_responses/internal/http-server/router"
	"brief_responses/internal/http-server/view"
	"brief_responses/internal/lib/logger/sl"
	"brief_responses/internal/notify"
	"brief_responses/internal/session"
	"brief_responses/internal/storage/dataapi"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("failed to load config", sl.Err(err))
		os.Exit(1)
	}

	log := setupLogger(cfg)
	log = log.With(slog.String("app", cfg.AppName), slog.String("env", cfg.Environment))

	manifests := content.NewLoader(content.DefaultSpecs())
	if err := manifests.Load(); err != nil {
		log.Error("failed to load content", sl.Err(err))
		os.Exit(1)
	}

	storage := dataapi.New(cfg.DataAPIURL, cfg.DataAPIAuthToken, cfg.DataAPITimeout)

	emails, err := notify.New(log, cfg.NotifyAPIKey, cfg.NotifyBaseURL, cfg.RedirectDomains())
	if err != nil {
		log.Error("failed to create notify client", sl.Err(err))
		os.Exit(1)
	}

	sessions := session.New(cfg.SecretKey, cfg.SessionCookieName, cfg.SessionLifetime, cfg.SessionCookieSecure)

	pages, err := view.New(log, sessions, cfg.URLPrefix)
	if err != nil {
		log.Error("failed to parse templates", sl.Err(err))
		os.Exit(1)
	}

	clarifications := briefs.NewClarificationSender(
		log,
		emails,
		storage,
		cfg.NotifyClarificationQuestionTemplate,
		cfg.NotifyConfirmationTemplate,
		cfg.WebURL,
	)

	handler := router.New(log, &cfg, router.Deps{
		Storage:        storage,
		Sessions:       sessions,
		Pages:          pages,
		Manifests:      manifests,
		Clarifications: clarifications,
	})

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start the server", sl.Err(err))
			done <- syscall.SIGTERM
		}
	}()

	log.Info("starting server", slog.String("address", cfg.HTTPAddress), slog.String("prefix", cfg.URLPrefix))
	<-done
	log.Info("stopping server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("failed to stop server", sl.Err(err))
		return
	}

	log.Info("server stopped")
}

func setupLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	if cfg.PlainTextLogs {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
