// Пакет credstore — персистентное хранилище учётных данных сессий.
// Хранит access token, refresh token и сериализованную информацию
// о пользователе под тремя фиксированными ключами в PostgreSQL.
// Все запросы — чистый SQL через pgx, без ORM.
package credstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Фиксированные ключи учётных данных.
const (
	// KeyAuthToken — access token.
	KeyAuthToken = "auth_token"
	// KeyRefreshToken — refresh token.
	KeyRefreshToken = "refresh_token"
	// KeyUserInfo — сериализованная информация о пользователе (JSON).
	KeyUserInfo = "user_info"
)

// credentialKeys — полный список допустимых ключей.
// RemoveAll удаляет ровно эти ключи и ничего больше.
var credentialKeys = []string{KeyAuthToken, KeyRefreshToken, KeyUserInfo}

// Ошибки хранилища.
var (
	// ErrUnknownKey — ключ вне фиксированного списка.
	ErrUnknownKey = errors.New("неизвестный ключ учётных данных")
	// ErrSessionNotFound — сессия не найдена или истекла.
	ErrSessionNotFound = errors.New("сессия не найдена")
)

// DBTX — интерфейс для выполнения SQL-запросов.
// Реализуется как *pgxpool.Pool, так и pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store — хранилище учётных данных, привязанных к сессиям.
type Store struct {
	db     DBTX
	logger *slog.Logger
}

// New создаёт хранилище учётных данных.
func New(db DBTX, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With(slog.String("component", "credstore")),
	}
}

// ValidKey сообщает, входит ли key в фиксированный список ключей.
func ValidKey(key string) bool {
	for _, k := range credentialKeys {
		if k == key {
			return true
		}
	}
	return false
}

// CreateSession создаёт новую сессию с заданным временем жизни.
func (s *Store) CreateSession(ctx context.Context, ttl time.Duration) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.Exec(ctx,
		`INSERT INTO sessions (id, expires_at) VALUES ($1, $2)`,
		id, time.Now().Add(ttl),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("ошибка создания сессии: %w", err)
	}
	return id, nil
}

// SessionExists проверяет, что сессия существует и не истекла.
func (s *Store) SessionExists(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1 AND expires_at > now())`,
		sessionID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки сессии: %w", err)
	}
	return exists, nil
}

// DeleteSession удаляет сессию вместе с её учётными данными (каскадно).
func (s *Store) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("ошибка удаления сессии: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteExpired удаляет истёкшие сессии. Возвращает количество удалённых.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки истёкших сессий: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Get возвращает значение ключа для сессии.
// Отсутствующее значение и ошибки чтения дают пустую строку:
// ошибка чтения логируется, но наружу не отдаётся.
func (s *Store) Get(ctx context.Context, sessionID uuid.UUID, key string) (string, error) {
	if !ValidKey(key) {
		return "", ErrUnknownKey
	}

	var value string
	err := s.db.QueryRow(ctx,
		`SELECT value FROM session_credentials WHERE session_id = $1 AND key = $2`,
		sessionID, key,
	).Scan(&value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		s.logger.Error("Ошибка чтения учётных данных",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return "", nil
	}
	return value, nil
}

// Set записывает значение ключа для сессии (upsert).
// Ошибка записи логируется и возвращается вызывающему.
func (s *Store) Set(ctx context.Context, sessionID uuid.UUID, key, value string) error {
	if !ValidKey(key) {
		return ErrUnknownKey
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO session_credentials (session_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = now()`,
		sessionID, key, value,
	)
	if err != nil {
		s.logger.Error("Ошибка записи учётных данных",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("ошибка записи учётных данных %q: %w", key, err)
	}
	return nil
}

// Remove удаляет значение ключа для сессии.
// Отсутствие записи ошибкой не считается.
func (s *Store) Remove(ctx context.Context, sessionID uuid.UUID, key string) error {
	if !ValidKey(key) {
		return ErrUnknownKey
	}

	_, err := s.db.Exec(ctx,
		`DELETE FROM session_credentials WHERE session_id = $1 AND key = $2`,
		sessionID, key,
	)
	if err != nil {
		return fmt.Errorf("ошибка удаления учётных данных %q: %w", key, err)
	}
	return nil
}

// RemoveAll удаляет ровно три фиксированных ключа сессии.
// Прочие строки таблицы не затрагиваются.
func (s *Store) RemoveAll(ctx context.Context, sessionID uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM session_credentials WHERE session_id = $1 AND key = ANY($2)`,
		sessionID, credentialKeys,
	)
	if err != nil {
		return fmt.Errorf("ошибка очистки учётных данных: %w", err)
	}
	return nil
}
