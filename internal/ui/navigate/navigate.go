// Пакет navigate — перенаправление на страницу входа и навигационные
// helper-функции административного шлюза.
package navigate

import (
	"log/slog"
	"net/http"
	"net/url"
)

// LoginPath — канонический путь страницы входа.
const LoginPath = "/login"

// loginAliases — распознаваемые пути страницы входа.
var loginAliases = []string{"/login", "/signin"}

// IsLoginPath сообщает, является ли путь страницей входа.
// Учитываются оба псевдонима: /login и /signin.
func IsLoginPath(path string) bool {
	for _, alias := range loginAliases {
		if path == alias {
			return true
		}
	}
	return false
}

// Redirector — навигационные перенаправления шлюза.
type Redirector struct {
	logger *slog.Logger
}

// NewRedirector создаёт Redirector.
func NewRedirector(logger *slog.Logger) *Redirector {
	return &Redirector{
		logger: logger.With(slog.String("component", "navigate")),
	}
}

// NavigateToLogin перенаправляет на страницу входа, сохраняя исходный
// путь (включая query) в параметре redirect. Если запрос уже адресован
// странице входа — ничего не делает и возвращает false, защищая от
// циклов перенаправления.
func (n *Redirector) NavigateToLogin(w http.ResponseWriter, r *http.Request) bool {
	if IsLoginPath(r.URL.Path) {
		return false
	}

	target := LoginPath + "?redirect=" + url.QueryEscape(r.URL.RequestURI())

	n.logger.Debug("Перенаправление на страницу входа",
		slog.String("from", r.URL.RequestURI()),
	)

	http.Redirect(w, r, target, http.StatusFound)
	return true
}

// NavigateTo перенаправляет на произвольный путь (302).
func (n *Redirector) NavigateTo(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusFound)
}

// Replace перенаправляет с заменой записи истории (303 See Other).
func (n *Redirector) Replace(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// GoBack возвращает на предыдущую страницу по заголовку Referer.
// Без Referer — на корень.
func (n *Redirector) GoBack(w http.ResponseWriter, r *http.Request) {
	back := r.Header.Get("Referer")
	if back == "" {
		back = "/"
	}
	http.Redirect(w, r, back, http.StatusFound)
}
