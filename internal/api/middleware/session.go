// session.go — middleware сессии: cookie → sessionID → access token → claims.
// Запрос без действующей сессии или токена для браузерного GET
// перенаправляется на страницу входа, для остальных — 401 JSON.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	apierrors "github.com/ashirdev/ashare/admin-gateway/internal/api/errors"
	"github.com/ashirdev/ashare/admin-gateway/internal/credstore"
	uiauth "github.com/ashirdev/ashare/admin-gateway/internal/ui/auth"
	"github.com/ashirdev/ashare/admin-gateway/internal/ui/navigate"
)

// SessionAuth — middleware аутентификации по сессионной cookie.
type SessionAuth struct {
	sessions   *uiauth.SessionManager
	creds      *credstore.Store
	verifier   *TokenVerifier
	redirector *navigate.Redirector
	logger     *slog.Logger
}

// NewSessionAuth создаёт middleware сессии.
func NewSessionAuth(
	sessions *uiauth.SessionManager,
	creds *credstore.Store,
	verifier *TokenVerifier,
	redirector *navigate.Redirector,
	logger *slog.Logger,
) *SessionAuth {
	return &SessionAuth{
		sessions:   sessions,
		creds:      creds,
		verifier:   verifier,
		redirector: redirector,
		logger:     logger.With(slog.String("component", "session_auth")),
	}
}

// WithSession возвращает middleware, которое кладёт идентификатор
// сессии в контекст, не требуя аутентификации. Используется на
// публичных маршрутах (login, refresh), где сессия может отсутствовать.
func (s *SessionAuth) WithSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, err := s.sessions.GetSessionFromRequest(r)
			if err != nil {
				// Невалидная cookie равносильна её отсутствию
				sessionID = uuid.Nil
			}
			ctx := context.WithValue(r.Context(), ContextKeySession, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Middleware возвращает middleware, требующий действующую сессию
// с валидным access token. Claims токена помещаются в контекст.
func (s *SessionAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, err := s.sessions.GetSessionFromRequest(r)
			if err != nil || sessionID == uuid.Nil {
				s.reject(w, r, "Отсутствует сессия")
				return
			}

			token, err := s.creds.Get(r.Context(), sessionID, credstore.KeyAuthToken)
			if err != nil || token == "" {
				s.reject(w, r, "Сессия не аутентифицирована")
				return
			}

			claims, err := s.verifier.Verify(r.Context(), token)
			if err != nil {
				s.logger.Debug("Токен сессии не прошёл проверку",
					slog.String("session_id", sessionID.String()),
					slog.String("error", err.Error()),
				)
				s.reject(w, r, "Невалидный или просроченный токен")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, sessionID)
			ctx = context.WithValue(ctx, ContextKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// reject завершает неаутентифицированный запрос: браузерный GET
// перенаправляется на страницу входа, остальные получают 401.
func (s *SessionAuth) reject(w http.ResponseWriter, r *http.Request, message string) {
	if isBrowserGet(r) {
		s.redirector.NavigateToLogin(w, r)
		return
	}
	apierrors.Unauthorized(w, message)
}

// isBrowserGet определяет навигационный запрос браузера.
func isBrowserGet(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// SessionIDFromContext извлекает идентификатор сессии из контекста.
// Возвращает uuid.Nil, если сессия не найдена.
func SessionIDFromContext(ctx context.Context) uuid.UUID {
	sessionID, _ := ctx.Value(ContextKeySession).(uuid.UUID)
	return sessionID
}
