package middleware

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// testKeyID — идентификатор ключа для тестов.
const testKeyID = "test-key-ag"

// testIssuer — issuer токенов в тестах.
const testIssuer = "https://auth.test/ashare"

// generateTestKey генерирует RSA ключ для тестов.
func generateTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	return key
}

// buildJWKSetJSON строит JWKS JSON из RSA публичного ключа.
func buildJWKSetJSON(pub *rsa.PublicKey, kid string) json.RawMessage {
	nB64 := base64.RawURLEncoding.EncodeToString(pub.N.Bytes())
	eB64 := base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes())

	jwks := map[string]any{
		"keys": []map[string]any{
			{
				"kty": "RSA",
				"kid": kid,
				"use": "sig",
				"alg": "RS256",
				"n":   nB64,
				"e":   eB64,
			},
		},
	}

	data, _ := json.Marshal(jwks)
	return data
}

// testLogger создаёт logger для тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestVerifier создаёт TokenVerifier с ключом из теста.
func newTestVerifier(t *testing.T, key *rsa.PrivateKey) *TokenVerifier {
	t.Helper()
	jwksJSON := buildJWKSetJSON(&key.PublicKey, testKeyID)
	kf, err := keyfunc.NewJWKSetJSON(jwksJSON)
	if err != nil {
		t.Fatalf("не удалось создать keyfunc: %v", err)
	}
	return NewTokenVerifierWithKeyfunc(kf, testIssuer, testLogger())
}

// generateToken генерирует access token с указанными claims.
func generateToken(t *testing.T, key *rsa.PrivateKey, sub, issuer string, permissions []string, expired bool) string {
	t.Helper()

	exp := time.Now().Add(time.Hour)
	if expired {
		exp = time.Now().Add(-time.Hour)
	}

	claims := jwt.MapClaims{
		"sub":      sub,
		"email":    "admin@example.com",
		"fullName": "Администратор",
		"role":     "admin",
		"iss":      issuer,
		"exp":      jwt.NewNumericDate(exp),
		"nbf":      jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		"iat":      jwt.NewNumericDate(time.Now()),
	}
	if len(permissions) > 0 {
		claims["permissions"] = permissions
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID
	tokenStr, err := token.SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return tokenStr
}

// --- Тесты TokenVerifier ---

// TestTokenVerifier_ValidToken — валидный токен с правами.
func TestTokenVerifier_ValidToken(t *testing.T) {
	key := generateTestKey(t)
	verifier := newTestVerifier(t, key)

	tokenStr := generateToken(t, key, "user-123", testIssuer,
		[]string{"users.read", "offers.write"}, false)

	claims, err := verifier.Verify(context.Background(), tokenStr)
	if err != nil {
		t.Fatalf("Verify() вернул ошибку: %v", err)
	}

	if claims.Subject != "user-123" {
		t.Errorf("ожидался sub=user-123, получен %s", claims.Subject)
	}
	if claims.Email != "admin@example.com" {
		t.Errorf("ожидался email=admin@example.com, получен %s", claims.Email)
	}
	if claims.Role != "admin" {
		t.Errorf("ожидался role=admin, получен %s", claims.Role)
	}
	if !claims.HasPermission("users.read") {
		t.Error("ожидалось право users.read")
	}
	if claims.HasPermission("roles.write") {
		t.Error("не ожидалось право roles.write")
	}
}

// TestTokenVerifier_ExpiredToken — просроченный токен.
func TestTokenVerifier_ExpiredToken(t *testing.T) {
	key := generateTestKey(t)
	verifier := newTestVerifier(t, key)

	tokenStr := generateToken(t, key, "user-123", testIssuer, nil, true)

	if _, err := verifier.Verify(context.Background(), tokenStr); err == nil {
		t.Error("Verify() принял просроченный токен")
	}
}

// TestTokenVerifier_WrongIssuer — токен с неверным issuer.
func TestTokenVerifier_WrongIssuer(t *testing.T) {
	key := generateTestKey(t)
	verifier := newTestVerifier(t, key)

	tokenStr := generateToken(t, key, "user-123", "https://other.test", nil, false)

	if _, err := verifier.Verify(context.Background(), tokenStr); err == nil {
		t.Error("Verify() принял токен с чужим issuer")
	}
}

// TestTokenVerifier_WrongKey — токен, подписанный другим ключом.
func TestTokenVerifier_WrongKey(t *testing.T) {
	key := generateTestKey(t)
	otherKey := generateTestKey(t)
	verifier := newTestVerifier(t, key)

	tokenStr := generateToken(t, otherKey, "user-123", testIssuer, nil, false)

	if _, err := verifier.Verify(context.Background(), tokenStr); err == nil {
		t.Error("Verify() принял токен с неверной подписью")
	}
}

// TestTokenVerifier_ScopeFallback — права из claim scope при
// отсутствии permissions.
func TestTokenVerifier_ScopeFallback(t *testing.T) {
	key := generateTestKey(t)
	verifier := newTestVerifier(t, key)

	claims := jwt.MapClaims{
		"sub":   "user-123",
		"scope": "users.read offers.read",
		"iss":   testIssuer,
		"exp":   jwt.NewNumericDate(time.Now().Add(time.Hour)),
		"iat":   jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID
	tokenStr, err := token.SignedString(key)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := verifier.Verify(context.Background(), tokenStr)
	if err != nil {
		t.Fatalf("Verify() вернул ошибку: %v", err)
	}
	if !parsed.HasPermission("users.read") || !parsed.HasPermission("offers.read") {
		t.Errorf("права из scope не разобраны: %v", parsed.Permissions)
	}
}

// --- Тесты RequirePermission ---

// TestRequirePermission_HasPermission — пользователь с нужным правом.
func TestRequirePermission_HasPermission(t *testing.T) {
	handler := RequirePermission("users.read")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	claims := &AuthClaims{Permissions: []string{"users.read", "users.write"}}
	ctx := context.WithValue(context.Background(), ContextKeyClaims, claims)
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("ожидался статус 200, получен %d", rec.Code)
	}
}

// TestRequirePermission_MissingPermission — пользователь без нужного права.
func TestRequirePermission_MissingPermission(t *testing.T) {
	handler := RequirePermission("roles.write")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler не должен быть вызван")
	}))

	claims := &AuthClaims{Permissions: []string{"users.read"}}
	ctx := context.WithValue(context.Background(), ContextKeyClaims, claims)
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("ожидался статус 403, получен %d", rec.Code)
	}
}

// TestRequirePermission_AnyOf — достаточно одного права из списка.
func TestRequirePermission_AnyOf(t *testing.T) {
	handler := RequirePermission("offers.write", "offers.admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	claims := &AuthClaims{Permissions: []string{"offers.admin"}}
	ctx := context.WithValue(context.Background(), ContextKeyClaims, claims)
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("ожидался статус 200, получен %d", rec.Code)
	}
}

// TestRequirePermission_NoClaims — отсутствие claims в контексте.
func TestRequirePermission_NoClaims(t *testing.T) {
	handler := RequirePermission("users.read")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler не должен быть вызван")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("ожидался статус 401, получен %d", rec.Code)
	}
}

// --- Тесты context helpers ---

// TestClaimsFromContext_Empty — пустой контекст.
func TestClaimsFromContext_Empty(t *testing.T) {
	if claims := ClaimsFromContext(context.Background()); claims != nil {
		t.Errorf("ожидался nil, получено %+v", claims)
	}
}

// TestSubjectFromContext — извлечение subject.
func TestSubjectFromContext(t *testing.T) {
	claims := &AuthClaims{Subject: "user-123"}
	ctx := context.WithValue(context.Background(), ContextKeyClaims, claims)

	if sub := SubjectFromContext(ctx); sub != "user-123" {
		t.Errorf("ожидался user-123, получен %q", sub)
	}
}

// TestSubjectFromContext_Empty — пустой контекст.
func TestSubjectFromContext_Empty(t *testing.T) {
	if sub := SubjectFromContext(context.Background()); sub != "" {
		t.Errorf("ожидалась пустая строка, получено %q", sub)
	}
}
