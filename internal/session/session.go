// Package session keeps the logged in user and flash messages in a signed
// cookie.
package session

import (
	"encoding/gob"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const userIDKey = "user_id"

// Flash categories.
const (
	FlashMessage       = "message"
	FlashError         = "error"
	FlashMustLogin     = "must_login"
	FlashTrackPageView = "track-page-view"
)

var flashCategories = []string{FlashMessage, FlashError, FlashMustLogin, FlashTrackPageView}

func init() {
	// flashes are kept as a list of values
	gob.Register([]any{})
}

type Manager struct {
	store *sessions.CookieStore
	name  string
}

func New(secret, cookieName string, lifetime time.Duration, secure bool) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store, name: cookieName}
}

// get never fails: a cookie that cannot be decoded starts a new session.
func (m *Manager) get(r *http.Request) *sessions.Session {
	s, _ := m.store.Get(r, m.name)
	return s
}

// UserID is the id of the logged in user, if any.
func (m *Manager) UserID(r *http.Request) (int, bool) {
	id, ok := m.get(r).Values[userIDKey].(int)
	return id, ok
}

// Refresh re-issues the cookie so the session expires a full lifetime after
// the latest request.
func (m *Manager) Refresh(w http.ResponseWriter, r *http.Request) error {
	const op = "session.Refresh"

	s := m.get(r)
	if s.IsNew {
		return nil
	}
	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, category, message string) error {
	const op = "session.Flash"

	s := m.get(r)
	s.AddFlash(message, category)
	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Flashes removes and returns every pending flash message by category.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) map[string][]string {
	s := m.get(r)
	result := make(map[string][]string)
	for _, category := range flashCategories {
		for _, f := range s.Flashes(category) {
			if msg, ok := f.(string); ok {
				result[category] = append(result[category], msg)
			}
		}
	}
	if len(result) > 0 {
		_ = s.Save(r, w)
	}
	return result
}

// Middleware refreshes the session cookie on every request.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = m.Refresh(w, r)
		next.ServeHTTP(w, r)
	})
}
