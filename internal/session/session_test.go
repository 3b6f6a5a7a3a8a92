package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func roundTrip(t *testing.T, m *Manager, cookies []*http.Cookie, handle func(w http.ResponseWriter, r *http.Request)) []*http.Cookie {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	handle(w, r)
	if got := w.Result().Cookies(); len(got) > 0 {
		return got
	}
	return cookies
}

// login stores a user id the way the marketplace's login app does.
func login(w http.ResponseWriter, r *http.Request, m *Manager, userID int) error {
	s := m.get(r)
	s.Values[userIDKey] = userID
	return s.Save(r, w)
}

func TestLoginAndFlashes(t *testing.T) {
	m := New("verySecretKey", "dm_session", time.Hour, false)

	cookies := roundTrip(t, m, nil, func(w http.ResponseWriter, r *http.Request) {
		if _, ok := m.UserID(r); ok {
			t.Fatalf("new session should have no user")
		}
		if err := login(w, r, m, 123); err != nil {
			t.Fatalf("login: %v", err)
		}
		if err := m.Flash(w, r, FlashTrackPageView, "/suppliers/opportunities/1/responses/result?result=success"); err != nil {
			t.Fatalf("Flash: %v", err)
		}
	})
	if len(cookies) == 0 || !cookies[len(cookies)-1].HttpOnly {
		t.Fatalf("expected an http only session cookie, got %v", cookies)
	}

	cookies = roundTrip(t, m, cookies[len(cookies)-1:], func(w http.ResponseWriter, r *http.Request) {
		id, ok := m.UserID(r)
		if !ok || id != 123 {
			t.Fatalf("UserID = %d, %v", id, ok)
		}
		flashes := m.Flashes(w, r)
		if len(flashes[FlashTrackPageView]) != 1 {
			t.Fatalf("unexpected flashes %v", flashes)
		}
	})

	roundTrip(t, m, cookies[len(cookies)-1:], func(w http.ResponseWriter, r *http.Request) {
		if flashes := m.Flashes(w, r); len(flashes) != 0 {
			t.Fatalf("flashes should only be shown once, got %v", flashes)
		}
	})
}

func TestTamperedCookieStartsNewSession(t *testing.T) {
	m := New("verySecretKey", "dm_session", time.Hour, false)
	other := New("anotherKey", "dm_session", time.Hour, false)

	cookies := roundTrip(t, other, nil, func(w http.ResponseWriter, r *http.Request) {
		_ = login(w, r, other, 1)
	})
	roundTrip(t, m, cookies, func(w http.ResponseWriter, r *http.Request) {
		if _, ok := m.UserID(r); ok {
			t.Fatalf("a cookie signed with another key must not log anyone in")
		}
	})
}

func TestMiddlewareRefreshesCookie(t *testing.T) {
	m := New("verySecretKey", "dm_session", time.Hour, false)
	cookies := roundTrip(t, m, nil, func(w http.ResponseWriter, r *http.Request) {
		_ = login(w, r, m, 1)
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	w := httptest.NewRecorder()
	m.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(w, r)

	refreshed := w.Result().Cookies()
	if len(refreshed) != 1 || refreshed[0].MaxAge != int(time.Hour.Seconds()) {
		t.Fatalf("expected a refreshed cookie, got %v", refreshed)
	}
}
