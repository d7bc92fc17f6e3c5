// Пакет config — загрузка и валидация конфигурации Admin Gateway
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Admin Gateway.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL (серверное хранилище сессий и учётных данных) ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- Backend-сервисы ---

	// Базовый URL сервиса аутентификации и identity
	AuthServiceURL string
	// Базовый URL сервиса профилей пользователей
	UserProfilesURL string
	// Базовый URL сервиса управления объявлениями
	OffersManagerURL string
	// Базовый URL сервиса поиска объявлений
	OffersSearcherURL string
	// Таймаут HTTP-запросов к backend-сервисам
	BackendTimeout time.Duration

	// --- JWT (валидация access token из auth-сервиса) ---

	// Issuer JWT (авто-вычисляется из AuthServiceURL, если не задан)
	JWTIssuer string
	// URL JWKS endpoint (авто-вычисляется из AuthServiceURL, если не задан)
	JWTJWKSURL string

	// --- Сессии ---

	// Секретный ключ шифрования сессионной cookie (обязательный)
	SessionKey string
	// Выставлять Secure flag на cookie (true за TLS termination)
	SessionSecure bool
	// Время жизни сессии
	SessionTTL time.Duration
	// Интервал очистки истёкших сессий
	SessionCleanupInterval time.Duration

	// --- Кэш справочников ---

	// Время жизни записей кэша справочников
	LookupCacheTTL time.Duration
	// Максимальный размер кэша справочников
	LookupCacheSize int

	// --- Мониторинг ---

	// Группа сервиса в метриках topologymetrics
	DephealthGroup string
	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// AG_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("AG_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("AG_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("AG_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// AG_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("AG_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("AG_LOG_LEVEL: %w", err)
	}

	// AG_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("AG_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("AG_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	// AG_DB_HOST — обязательный
	cfg.DBHost, err = getEnvRequired("AG_DB_HOST")
	if err != nil {
		return nil, err
	}

	// AG_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("AG_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("AG_DB_PORT: %w", err)
	}

	// AG_DB_NAME — обязательный
	cfg.DBName, err = getEnvRequired("AG_DB_NAME")
	if err != nil {
		return nil, err
	}

	// AG_DB_USER — обязательный
	cfg.DBUser, err = getEnvRequired("AG_DB_USER")
	if err != nil {
		return nil, err
	}

	// AG_DB_PASSWORD — обязательный
	cfg.DBPassword, err = getEnvRequired("AG_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// AG_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("AG_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("AG_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- Backend-сервисы ---

	// AG_AUTH_SERVICE_URL — обязательный
	cfg.AuthServiceURL, err = getEnvRequired("AG_AUTH_SERVICE_URL")
	if err != nil {
		return nil, err
	}
	cfg.AuthServiceURL = strings.TrimRight(cfg.AuthServiceURL, "/")

	// AG_USER_PROFILES_URL — обязательный
	cfg.UserProfilesURL, err = getEnvRequired("AG_USER_PROFILES_URL")
	if err != nil {
		return nil, err
	}
	cfg.UserProfilesURL = strings.TrimRight(cfg.UserProfilesURL, "/")

	// AG_OFFERS_MANAGER_URL — обязательный
	cfg.OffersManagerURL, err = getEnvRequired("AG_OFFERS_MANAGER_URL")
	if err != nil {
		return nil, err
	}
	cfg.OffersManagerURL = strings.TrimRight(cfg.OffersManagerURL, "/")

	// AG_OFFERS_SEARCHER_URL — обязательный
	cfg.OffersSearcherURL, err = getEnvRequired("AG_OFFERS_SEARCHER_URL")
	if err != nil {
		return nil, err
	}
	cfg.OffersSearcherURL = strings.TrimRight(cfg.OffersSearcherURL, "/")

	// AG_BACKEND_TIMEOUT — таймаут запросов к backend (по умолчанию 30s)
	cfg.BackendTimeout, err = getEnvDuration("AG_BACKEND_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AG_BACKEND_TIMEOUT: %w", err)
	}

	// --- JWT ---

	// AG_JWT_ISSUER — авто-вычисляется из AuthServiceURL, если не задан
	cfg.JWTIssuer = getEnvDefault("AG_JWT_ISSUER", cfg.AuthServiceURL)

	// AG_JWT_JWKS_URL — авто-вычисляется из AuthServiceURL, если не задан
	cfg.JWTJWKSURL = getEnvDefault("AG_JWT_JWKS_URL",
		fmt.Sprintf("%s/.well-known/jwks.json", cfg.AuthServiceURL))

	// --- Сессии ---

	// AG_SESSION_KEY — обязательный секрет шифрования cookie
	cfg.SessionKey, err = getEnvRequired("AG_SESSION_KEY")
	if err != nil {
		return nil, err
	}
	if len(cfg.SessionKey) < 16 {
		return nil, fmt.Errorf("AG_SESSION_KEY: длина %d меньше минимальной (16 символов)", len(cfg.SessionKey))
	}

	// AG_SESSION_SECURE — Secure flag cookie (по умолчанию false)
	cfg.SessionSecure, err = getEnvBool("AG_SESSION_SECURE", false)
	if err != nil {
		return nil, fmt.Errorf("AG_SESSION_SECURE: %w", err)
	}

	// AG_SESSION_TTL — время жизни сессии (по умолчанию 24h)
	cfg.SessionTTL, err = getEnvDuration("AG_SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("AG_SESSION_TTL: %w", err)
	}

	// AG_SESSION_CLEANUP_INTERVAL — интервал очистки сессий (по умолчанию 1h)
	cfg.SessionCleanupInterval, err = getEnvDuration("AG_SESSION_CLEANUP_INTERVAL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("AG_SESSION_CLEANUP_INTERVAL: %w", err)
	}

	// --- Кэш справочников ---

	// AG_LOOKUP_CACHE_TTL — TTL кэша справочников (по умолчанию 5m)
	cfg.LookupCacheTTL, err = getEnvDuration("AG_LOOKUP_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("AG_LOOKUP_CACHE_TTL: %w", err)
	}

	// AG_LOOKUP_CACHE_SIZE — размер кэша справочников (по умолчанию 128)
	cfg.LookupCacheSize, err = getEnvInt("AG_LOOKUP_CACHE_SIZE", 128)
	if err != nil {
		return nil, fmt.Errorf("AG_LOOKUP_CACHE_SIZE: %w", err)
	}
	if cfg.LookupCacheSize < 1 || cfg.LookupCacheSize > 100000 {
		return nil, fmt.Errorf("AG_LOOKUP_CACHE_SIZE: значение %d вне допустимого диапазона 1-100000", cfg.LookupCacheSize)
	}

	// --- Мониторинг ---

	// AG_DEPHEALTH_GROUP — группа сервиса в метриках (по умолчанию ashare)
	cfg.DephealthGroup = getEnvDefault("AG_DEPHEALTH_GROUP", "ashare")

	// AG_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("AG_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AG_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	// AG_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("AG_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AG_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL подключения к PostgreSQL
// (для topologymetrics и migrate).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// ServiceURLs возвращает отображение имени backend-сервиса на его базовый URL.
func (c *Config) ServiceURLs() map[string]string {
	return map[string]string{
		"auth":           c.AuthServiceURL,
		"userProfiles":   c.UserProfilesURL,
		"offersManager":  c.OffersManagerURL,
		"offersSearcher": c.OffersSearcherURL,
	}
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
