// auth.go — проверка access token auth-сервиса.
// Токен хранится на сервере в учётных данных сессии; middleware сессии
// достаёт его и валидирует подпись через JWKS auth-сервиса (RS256).
// Claims с ролью и списком прав помещаются в контекст запроса.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	apierrors "github.com/ashirdev/ashare/admin-gateway/internal/api/errors"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

const (
	// ContextKeyClaims — извлечённые claims в контексте запроса.
	ContextKeyClaims contextKey = "token_claims"
	// ContextKeySession — идентификатор сессии в контексте запроса.
	ContextKeySession contextKey = "session_id"
)

// AuthClaims — извлечённые claims access token auth-сервиса.
// Помещаются в контекст запроса для downstream handlers.
type AuthClaims struct {
	// Subject — sub из токена (идентификатор администратора).
	Subject string
	// Email — email из токена.
	Email string
	// FullName — полное имя из токена.
	FullName string
	// Role — имя роли администратора.
	Role string
	// Permissions — права вида resource.action (users.read, offers.write).
	Permissions []string
}

// HasPermission проверяет наличие указанного права.
func (c *AuthClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// HasAnyPermission проверяет наличие хотя бы одного из указанных прав.
func (c *AuthClaims) HasAnyPermission(permissions ...string) bool {
	for _, p := range permissions {
		if c.HasPermission(p) {
			return true
		}
	}
	return false
}

// tokenClaims — raw claims access token для парсинга.
type tokenClaims struct {
	jwt.RegisteredClaims
	// Email — электронная почта.
	Email string `json:"email,omitempty"`
	// FullName — полное имя.
	FullName string `json:"fullName,omitempty"`
	// Role — имя роли.
	Role string `json:"role,omitempty"`
	// Permissions — список прав.
	Permissions []string `json:"permissions,omitempty"`
	// Scope — права через пробел (альтернативный формат).
	Scope string `json:"scope,omitempty"`
}

// TokenVerifier — валидация access token через JWKS auth-сервиса.
type TokenVerifier struct {
	jwks   keyfunc.Keyfunc
	issuer string
	leeway time.Duration
	logger *slog.Logger
}

// NewTokenVerifier создаёт валидатор с JWKS из auth-сервиса.
// jwksURL — URL к JWKS endpoint.
// issuer — ожидаемый issuer токена (пустой — не проверяется).
// refreshInterval — интервал фонового обновления JWKS-ключей.
func NewTokenVerifier(
	jwksURL string,
	issuer string,
	refreshInterval time.Duration,
	leeway time.Duration,
	logger *slog.Logger,
) (*TokenVerifier, error) {
	// JWKS Storage с фоновым обновлением.
	// NoErrorReturnFirstHTTPReq — стартуем даже если auth-сервис ещё недоступен.
	storage, err := jwkset.NewStorageFromHTTP(jwksURL, jwkset.HTTPClientStorageOptions{
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           refreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("Ошибка обновления JWKS",
				slog.String("error", err.Error()),
				slog.String("url", jwksURL),
			)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("создание JWKS storage: %w", err)
	}

	k, err := keyfunc.New(keyfunc.Options{
		Storage: storage,
	})
	if err != nil {
		return nil, fmt.Errorf("создание keyfunc: %w", err)
	}

	return &TokenVerifier{
		jwks:   k,
		issuer: issuer,
		leeway: leeway,
		logger: logger.With(slog.String("component", "token_verifier")),
	}, nil
}

// NewTokenVerifierWithKeyfunc создаёт валидатор с предоставленной keyfunc.
// Используется в тестах для подстановки mock JWKS.
func NewTokenVerifierWithKeyfunc(kf keyfunc.Keyfunc, issuer string, logger *slog.Logger) *TokenVerifier {
	return &TokenVerifier{
		jwks:   kf,
		issuer: issuer,
		logger: logger.With(slog.String("component", "token_verifier")),
	}
}

// Verify валидирует подпись и срок действия токена и возвращает claims.
func (v *TokenVerifier) Verify(ctx context.Context, tokenString string) (*AuthClaims, error) {
	rawClaims := &tokenClaims{}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, rawClaims, v.jwks.KeyfuncCtx(ctx), parserOpts...)
	if err != nil {
		return nil, fmt.Errorf("валидация токена: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("невалидный токен")
	}

	subject, err := rawClaims.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("отсутствует sub в токене")
	}

	permissions := rawClaims.Permissions
	if len(permissions) == 0 && rawClaims.Scope != "" {
		permissions = strings.Fields(rawClaims.Scope)
	}

	return &AuthClaims{
		Subject:     subject,
		Email:       rawClaims.Email,
		FullName:    rawClaims.FullName,
		Role:        rawClaims.Role,
		Permissions: permissions,
	}, nil
}

// RequirePermission возвращает middleware, требующий одно из указанных прав.
// Должен использоваться ПОСЛЕ middleware сессии.
func RequirePermission(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				apierrors.Unauthorized(w, "Отсутствуют claims в контексте")
				return
			}

			if !claims.HasAnyPermission(permissions...) {
				apierrors.Forbidden(w, fmt.Sprintf("Недостаточно прав: требуется %s", strings.Join(permissions, " или ")))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// --- Context helpers ---

// ClaimsFromContext извлекает AuthClaims из контекста запроса.
// Возвращает nil, если claims не найдены.
func ClaimsFromContext(ctx context.Context) *AuthClaims {
	claims, _ := ctx.Value(ContextKeyClaims).(*AuthClaims)
	return claims
}

// SubjectFromContext извлекает sub из контекста запроса.
// Возвращает пустую строку, если claims не найдены.
func SubjectFromContext(ctx context.Context) string {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return ""
	}
	return claims.Subject
}
