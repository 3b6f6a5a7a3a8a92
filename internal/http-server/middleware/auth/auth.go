// Package auth makes sure only logged in suppliers reach the application
// pages, and protects form posts against cross-site request forgery.
package auth

import (
	"context"
	"crypto/sha256"
	serrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/csrf"

	"brief_responses/internal/lib/errors"
	"brief_responses/internal/lib/logger/sl"
	"brief_responses/internal/models/user"
	"brief_responses/internal/session"
)

const (
	LoginPath = "/user/login"

	MsgMustLogin      = "You must log in to view this page."
	MsgSessionExpired = "Your session has expired. Please log in again."
)

type ctxKey struct{}

type UserGetter interface {
	GetUser(ctx context.Context, userID int) (user.User, error)
}

type Sessions interface {
	UserID(r *http.Request) (int, bool)
	Flash(w http.ResponseWriter, r *http.Request, category, message string) error
}

// User returns the supplier user loaded by RequireSupplier.
func User(r *http.Request) (user.User, bool) {
	u, ok := r.Context().Value(ctxKey{}).(user.User)
	return u, ok
}

// WithUser stores u on the request context as RequireSupplier does.
func WithUser(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// RequireSupplier loads the session's user and redirects to the login page
// unless it is an active supplier user.
func RequireSupplier(log *slog.Logger, sessions Sessions, users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.auth.RequireSupplier"

			log := log.With(slog.String("op", op))

			id, ok := sessions.UserID(r)
			if !ok {
				redirectToLogin(w, r, sessions, session.FlashMustLogin, MsgMustLogin)
				return
			}

			u, err := users.GetUser(r.Context(), id)
			if err != nil {
				if !serrors.Is(err, errors.ErrNotFound) {
					log.Error("failed to load user", sl.Err(err), slog.Int("user_id", id))
				}
				redirectToLogin(w, r, sessions, session.FlashMustLogin, MsgMustLogin)
				return
			}
			if !u.CanActAsSupplier() {
				redirectToLogin(w, r, sessions, session.FlashMustLogin, MsgMustLogin)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, sessions Sessions, category, message string) {
	_ = sessions.Flash(w, r, category, message)
	http.Redirect(w, r, LoginPath+"?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
}

// CSRF protects every unsafe request. A missing or stale token sends the
// user to log in again instead of showing an error.
func CSRF(log *slog.Logger, secret string, secure, enabled bool, sessions Sessions) func(http.Handler) http.Handler {
	if !enabled {
		return func(next http.Handler) http.Handler { return next }
	}

	key := csrfKey(secret)
	return csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.FieldName("csrf_token"),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := errors.ErrSessionExpired
			if reason := csrf.FailureReason(r); reason != nil {
				err = fmt.Errorf("%w: %w", errors.ErrSessionExpired, reason)
			}
			log.Info("csrf check failed", slog.String("op", "middleware.auth.CSRF"), sl.Err(err))
			redirectToLogin(w, r, sessions, session.FlashError, MsgSessionExpired)
		})),
	)
}

// csrfKey derives the 32 byte key csrf needs from the app secret.
func csrfKey(secret string) []byte {
	sum := sha256.Sum256([]byte("csrf:" + secret))
	return sum[:]
}
