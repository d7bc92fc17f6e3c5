package store

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ashirdev/ashare/admin-gateway/internal/backends"
)

// testLogger — логгер, пишущий в никуда.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testFacade — фасад, у которого все backend-сервисы указывают
// на один httptest-сервер.
func testFacade(t *testing.T, handler http.Handler) *backends.Facade {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := testLogger()
	registry := backends.NewRegistry(map[string]string{
		backends.ServiceAuth:           server.URL,
		backends.ServiceUserProfiles:   server.URL,
		backends.ServiceOffersManager:  server.URL,
		backends.ServiceOffersSearcher: server.URL,
	}, 5*time.Second, logger)

	tokens := backends.TokenSourceFunc(func(ctx context.Context) (string, error) {
		return "test-token", nil
	})
	login := backends.LoginNotifierFunc(func(ctx context.Context) {})

	return backends.NewFacade(registry, tokens, login, logger)
}
