package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	uiauth "github.com/ashirdev/ashare/admin-gateway/internal/ui/auth"
	"github.com/ashirdev/ashare/admin-gateway/internal/ui/navigate"
)

// newTestSessionAuth собирает middleware сессии без хранилища:
// тесты покрывают отказ до обращения к учётным данным.
func newTestSessionAuth(t *testing.T) *SessionAuth {
	t.Helper()
	sessions, err := uiauth.NewSessionManager("0123456789abcdef0123456789abcdef", false, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionManager() вернул ошибку: %v", err)
	}
	return NewSessionAuth(sessions, nil, nil, navigate.NewRedirector(testLogger()), testLogger())
}

// TestSessionAuth_NoCookieAPI — запрос API без сессии получает 401 JSON.
func TestSessionAuth_NoCookieAPI(t *testing.T) {
	auth := newTestSessionAuth(t)
	handler := auth.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler не должен быть вызван")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("ожидался статус 401, получен %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, ожидался application/json", ct)
	}
}

// TestSessionAuth_NoCookieBrowser — браузерный GET без сессии
// перенаправляется на страницу входа с сохранением адреса.
func TestSessionAuth_NoCookieBrowser(t *testing.T) {
	auth := newTestSessionAuth(t)
	handler := auth.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler не должен быть вызван")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/users?page=2", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("ожидался статус 302, получен %d", rec.Code)
	}
	location := rec.Header().Get("Location")
	want := "/login?redirect=%2Fadmin%2Fusers%3Fpage%3D2"
	if location != want {
		t.Errorf("Location = %q, ожидалось %q", location, want)
	}
}

// TestSessionAuth_PostWithoutSession — POST без сессии всегда получает 401.
func TestSessionAuth_PostWithoutSession(t *testing.T) {
	auth := newTestSessionAuth(t)
	handler := auth.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler не должен быть вызван")
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("ожидался статус 401, получен %d", rec.Code)
	}
}

// TestSessionAuth_WithSessionMissingCookie — публичный маршрут без
// cookie получает uuid.Nil в контексте.
func TestSessionAuth_WithSessionMissingCookie(t *testing.T) {
	auth := newTestSessionAuth(t)

	called := false
	handler := auth.WithSession()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if id := SessionIDFromContext(r.Context()); id.String() != "00000000-0000-0000-0000-000000000000" {
			t.Errorf("session id = %s, ожидался nil uuid", id)
		}
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("handler не был вызван")
	}
}
