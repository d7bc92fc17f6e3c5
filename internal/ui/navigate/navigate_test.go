package navigate

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// TestIsLoginPath проверяет распознавание обоих псевдонимов страницы входа.
func TestIsLoginPath(t *testing.T) {
	cases := []struct {
		path     string
		expected bool
	}{
		{"/login", true},
		{"/signin", true},
		{"/", false},
		{"/admin/users", false},
		{"/login/extra", false},
		{"/signup", false},
	}

	for _, tc := range cases {
		if got := IsLoginPath(tc.path); got != tc.expected {
			t.Errorf("IsLoginPath(%q) = %v, ожидается %v", tc.path, got, tc.expected)
		}
	}
}

// TestNavigateToLogin проверяет перенаправление с сохранением исходного пути.
func TestNavigateToLogin(t *testing.T) {
	n := NewRedirector(testLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/users?page=2", nil)
	w := httptest.NewRecorder()

	if !n.NavigateToLogin(w, req) {
		t.Fatal("NavigateToLogin() вернул false, ожидается перенаправление")
	}

	resp := w.Result()
	if resp.StatusCode != http.StatusFound {
		t.Errorf("StatusCode = %d, ожидается 302", resp.StatusCode)
	}

	location := resp.Header.Get("Location")
	parsed, err := url.Parse(location)
	if err != nil {
		t.Fatalf("Некорректный Location %q: %v", location, err)
	}
	if parsed.Path != "/login" {
		t.Errorf("Location path = %q, ожидается /login", parsed.Path)
	}
	if redirect := parsed.Query().Get("redirect"); redirect != "/admin/users?page=2" {
		t.Errorf("redirect = %q, ожидается /admin/users?page=2", redirect)
	}
}

// TestNavigateToLogin_AlreadyOnLoginPage проверяет защиту от циклов:
// на страницах входа перенаправление не выполняется.
func TestNavigateToLogin_AlreadyOnLoginPage(t *testing.T) {
	n := NewRedirector(testLogger())

	for _, path := range []string{"/login", "/signin"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()

		if n.NavigateToLogin(w, req) {
			t.Errorf("NavigateToLogin() на %s вернул true, ожидается no-op", path)
		}

		resp := w.Result()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("На %s записан статус %d, ожидается отсутствие перенаправления", path, resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != "" {
			t.Errorf("На %s установлен Location %q, ожидается пустой", path, loc)
		}
	}
}

// TestNavigateTo проверяет обычное перенаправление.
func TestNavigateTo(t *testing.T) {
	n := NewRedirector(testLogger())

	req := httptest.NewRequest(http.MethodGet, "/somewhere", nil)
	w := httptest.NewRecorder()
	n.NavigateTo(w, req, "/admin/offers")

	resp := w.Result()
	if resp.StatusCode != http.StatusFound {
		t.Errorf("StatusCode = %d, ожидается 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/admin/offers" {
		t.Errorf("Location = %q, ожидается /admin/offers", loc)
	}
}

// TestReplace проверяет перенаправление с заменой истории.
func TestReplace(t *testing.T) {
	n := NewRedirector(testLogger())

	req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	w := httptest.NewRecorder()
	n.Replace(w, req, "/admin/dashboard")

	resp := w.Result()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("StatusCode = %d, ожидается 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/admin/dashboard" {
		t.Errorf("Location = %q, ожидается /admin/dashboard", loc)
	}
}

// TestGoBack проверяет возврат по Referer и fallback на корень.
func TestGoBack(t *testing.T) {
	n := NewRedirector(testLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/roles", nil)
	req.Header.Set("Referer", "/admin/users")
	w := httptest.NewRecorder()
	n.GoBack(w, req)

	if loc := w.Result().Header.Get("Location"); loc != "/admin/users" {
		t.Errorf("Location = %q, ожидается /admin/users", loc)
	}

	// Без Referer — на корень
	req = httptest.NewRequest(http.MethodGet, "/admin/roles", nil)
	w = httptest.NewRecorder()
	n.GoBack(w, req)

	if loc := w.Result().Header.Get("Location"); loc != "/" {
		t.Errorf("Location без Referer = %q, ожидается /", loc)
	}
}
