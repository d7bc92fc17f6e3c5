package credstore

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ashirdev/ashare/admin-gateway/internal/config"
	"github.com/ashirdev/ashare/admin-gateway/internal/database"
)

// setupTestStore запускает PostgreSQL контейнер, применяет миграции
// и возвращает хранилище вместе с пулом подключений.
func setupTestStore(t *testing.T) (*Store, *pgxpool.Pool) {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("ashare_test"),
		postgres.WithUsername("ashare"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}

	os.Setenv("AG_DB_HOST", host)
	os.Setenv("AG_DB_PORT", port.Port())
	os.Setenv("AG_DB_NAME", "ashare_test")
	os.Setenv("AG_DB_USER", "ashare")
	os.Setenv("AG_DB_PASSWORD", "test-password")
	os.Setenv("AG_DB_SSL_MODE", "disable")
	os.Setenv("AG_AUTH_SERVICE_URL", "http://localhost:5001")
	os.Setenv("AG_USER_PROFILES_URL", "http://localhost:5002")
	os.Setenv("AG_OFFERS_MANAGER_URL", "http://localhost:5003")
	os.Setenv("AG_OFFERS_SEARCHER_URL", "http://localhost:5004")
	os.Setenv("AG_SESSION_KEY", "test-session-key-test-session-key")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if err := database.Migrate(cfg, logger); err != nil {
		t.Fatalf("Ошибка применения миграций: %v", err)
	}

	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Ошибка подключения к PostgreSQL: %v", err)
	}
	t.Cleanup(pool.Close)

	return New(pool, logger), pool
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	sessionID, err := store.CreateSession(ctx, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession() вернул ошибку: %v", err)
	}

	if err := store.Set(ctx, sessionID, KeyAuthToken, "token-123"); err != nil {
		t.Fatalf("Set() вернул ошибку: %v", err)
	}

	got, err := store.Get(ctx, sessionID, KeyAuthToken)
	if err != nil {
		t.Fatalf("Get() вернул ошибку: %v", err)
	}
	if got != "token-123" {
		t.Errorf("Get() = %q, ожидается token-123", got)
	}

	// Повторный Set перезаписывает значение (upsert)
	if err := store.Set(ctx, sessionID, KeyAuthToken, "token-456"); err != nil {
		t.Fatalf("Повторный Set() вернул ошибку: %v", err)
	}
	got, _ = store.Get(ctx, sessionID, KeyAuthToken)
	if got != "token-456" {
		t.Errorf("Get() после upsert = %q, ожидается token-456", got)
	}
}

func TestStore_GetMissingReturnsEmpty(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	sessionID, err := store.CreateSession(ctx, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession() вернул ошибку: %v", err)
	}

	got, err := store.Get(ctx, sessionID, KeyRefreshToken)
	if err != nil {
		t.Fatalf("Get() по отсутствующему ключу вернул ошибку: %v", err)
	}
	if got != "" {
		t.Errorf("Get() по отсутствующему ключу = %q, ожидается пустая строка", got)
	}
}

func TestStore_UnknownKey(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	sessionID, err := store.CreateSession(ctx, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession() вернул ошибку: %v", err)
	}

	if _, err := store.Get(ctx, sessionID, "random_key"); err != ErrUnknownKey {
		t.Errorf("Get() с неизвестным ключом вернул %v, ожидается ErrUnknownKey", err)
	}
	if err := store.Set(ctx, sessionID, "random_key", "v"); err != ErrUnknownKey {
		t.Errorf("Set() с неизвестным ключом вернул %v, ожидается ErrUnknownKey", err)
	}
	if err := store.Remove(ctx, sessionID, "random_key"); err != ErrUnknownKey {
		t.Errorf("Remove() с неизвестным ключом вернул %v, ожидается ErrUnknownKey", err)
	}
}

// TestStore_RemoveAll проверяет, что RemoveAll удаляет ровно три
// фиксированных ключа и не трогает посторонние записи.
func TestStore_RemoveAll(t *testing.T) {
	store, pool := setupTestStore(t)
	ctx := context.Background()

	sessionID, err := store.CreateSession(ctx, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession() вернул ошибку: %v", err)
	}

	for _, key := range []string{KeyAuthToken, KeyRefreshToken, KeyUserInfo} {
		if err := store.Set(ctx, sessionID, key, "value-"+key); err != nil {
			t.Fatalf("Set(%s) вернул ошибку: %v", key, err)
		}
	}

	// Посторонняя запись, вставленная мимо хранилища
	_, err = pool.Exec(ctx,
		`INSERT INTO session_credentials (session_id, key, value) VALUES ($1, $2, $3)`,
		sessionID, "ui_theme", "dark",
	)
	if err != nil {
		t.Fatalf("Не удалось вставить постороннюю запись: %v", err)
	}

	if err := store.RemoveAll(ctx, sessionID); err != nil {
		t.Fatalf("RemoveAll() вернул ошибку: %v", err)
	}

	for _, key := range []string{KeyAuthToken, KeyRefreshToken, KeyUserInfo} {
		got, _ := store.Get(ctx, sessionID, key)
		if got != "" {
			t.Errorf("После RemoveAll() ключ %s = %q, ожидается пустое значение", key, got)
		}
	}

	var count int
	err = pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM session_credentials WHERE session_id = $1 AND key = 'ui_theme'`,
		sessionID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("Ошибка проверки посторонней записи: %v", err)
	}
	if count != 1 {
		t.Errorf("RemoveAll() удалил постороннюю запись, count = %d", count)
	}
}

func TestStore_DeleteSessionCascade(t *testing.T) {
	store, pool := setupTestStore(t)
	ctx := context.Background()

	sessionID, err := store.CreateSession(ctx, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession() вернул ошибку: %v", err)
	}
	if err := store.Set(ctx, sessionID, KeyAuthToken, "token"); err != nil {
		t.Fatalf("Set() вернул ошибку: %v", err)
	}

	if err := store.DeleteSession(ctx, sessionID); err != nil {
		t.Fatalf("DeleteSession() вернул ошибку: %v", err)
	}

	var count int
	err = pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM session_credentials WHERE session_id = $1`, sessionID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("Ошибка проверки каскадного удаления: %v", err)
	}
	if count != 0 {
		t.Errorf("После DeleteSession() осталось %d записей учётных данных", count)
	}

	if err := store.DeleteSession(ctx, sessionID); err != ErrSessionNotFound {
		t.Errorf("Повторный DeleteSession() вернул %v, ожидается ErrSessionNotFound", err)
	}

	if err := store.DeleteSession(ctx, uuid.New()); err != ErrSessionNotFound {
		t.Errorf("DeleteSession() несуществующей сессии вернул %v, ожидается ErrSessionNotFound", err)
	}
}

func TestStore_DeleteExpired(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	expired, err := store.CreateSession(ctx, -time.Minute)
	if err != nil {
		t.Fatalf("CreateSession() вернул ошибку: %v", err)
	}
	alive, err := store.CreateSession(ctx, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession() вернул ошибку: %v", err)
	}

	deleted, err := store.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired() вернул ошибку: %v", err)
	}
	if deleted < 1 {
		t.Errorf("DeleteExpired() удалил %d сессий, ожидается хотя бы 1", deleted)
	}

	exists, err := store.SessionExists(ctx, expired)
	if err != nil {
		t.Fatalf("SessionExists() вернул ошибку: %v", err)
	}
	if exists {
		t.Error("Истёкшая сессия не удалена")
	}

	exists, err = store.SessionExists(ctx, alive)
	if err != nil {
		t.Fatalf("SessionExists() вернул ошибку: %v", err)
	}
	if !exists {
		t.Error("Действующая сессия удалена по ошибке")
	}
}
