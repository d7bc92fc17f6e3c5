// Точка входа Admin Gateway — административный шлюз системы Ashare.
// Загружает конфигурацию, подключается к PostgreSQL, применяет миграции,
// создаёт реестр клиентов backend-сервисов, сервисный слой и контейнеры
// состояния, запускает фоновые задачи (очистка сессий, topologymetrics),
// HTTP-сервер с сессионной аутентификацией и graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/ashirdev/ashare/admin-gateway/internal/api/handlers"
	"github.com/ashirdev/ashare/admin-gateway/internal/api/middleware"
	"github.com/ashirdev/ashare/admin-gateway/internal/backends"
	"github.com/ashirdev/ashare/admin-gateway/internal/config"
	"github.com/ashirdev/ashare/admin-gateway/internal/credstore"
	"github.com/ashirdev/ashare/admin-gateway/internal/database"
	"github.com/ashirdev/ashare/admin-gateway/internal/server"
	"github.com/ashirdev/ashare/admin-gateway/internal/service"
	"github.com/ashirdev/ashare/admin-gateway/internal/store"
	uiauth "github.com/ashirdev/ashare/admin-gateway/internal/ui/auth"
	"github.com/ashirdev/ashare/admin-gateway/internal/ui/navigate"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения.
	// .env — удобство локальной разработки, отсутствие файла не ошибка.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Admin Gateway запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	if os.Getenv("AG_DEPHEALTH_GROUP") == "" {
		logger.Warn("AG_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode).
	// Проверка здоровья PostgreSQL идёт через существующий пул соединений,
	// что позволяет обнаружить его исчерпание.
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Хранилище учётных данных сессий
	creds := credstore.New(pool, logger)

	// 6. Менеджер сессионных cookie (AES-256-GCM)
	sessions, err := uiauth.NewSessionManager(cfg.SessionKey, cfg.SessionSecure, cfg.SessionTTL)
	if err != nil {
		logger.Error("Ошибка создания менеджера сессий", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 7. Реестр HTTP-клиентов backend-сервисов (ленивое создание, кэш)
	registry := backends.NewRegistry(cfg.ServiceURLs(), cfg.BackendTimeout, logger)

	// 8. Фасад запросов. Токен берётся из учётных данных сессии текущего
	// запроса; вызов без токена завершается до сети с уведомлением о входе.
	tokens := backends.TokenSourceFunc(func(ctx context.Context) (string, error) {
		sessionID := middleware.SessionIDFromContext(ctx)
		if sessionID == uuid.Nil {
			return "", nil
		}
		return creds.Get(ctx, sessionID, credstore.KeyAuthToken)
	})
	login := backends.LoginNotifierFunc(func(ctx context.Context) {
		logger.Info("Запрос без токена, требуется вход")
	})
	facade := backends.NewFacade(registry, tokens, login, logger)

	// 9. Сервисный слой
	authSvc := service.NewAuthService(facade, creds, logger)
	adminUsersSvc := service.NewAdminUserService(facade, logger)
	rolesSvc := service.NewRoleService(facade, logger)
	offersSvc := service.NewOfferService(facade, logger)
	appUsersSvc := service.NewAppUserService(facade, logger)
	lookupsSvc := service.NewLookupService(facade, cfg.LookupCacheSize, cfg.LookupCacheTTL, logger)
	dashboardSvc := service.NewDashboardService(facade, logger)

	// 10. Контейнеры состояния
	usersStore := store.NewAdminUserStore(adminUsersSvc, logger)
	rolesStore := store.NewRoleStore(rolesSvc, logger)
	offersStore := store.NewOfferStore(offersSvc, logger)
	appUsersStore := store.NewAppUserStore(appUsersSvc, logger)
	lookupsStore := store.NewLookupStore(lookupsSvc, logger)
	dashboardStore := store.NewDashboardStore(dashboardSvc, logger)

	// 11. Валидатор access token (JWKS auth-сервиса)
	verifier, err := middleware.NewTokenVerifier(
		cfg.JWTJWKSURL,
		cfg.JWTIssuer,
		time.Hour,
		30*time.Second,
		logger,
	)
	if err != nil {
		logger.Error("Ошибка создания валидатора токенов", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Валидатор токенов инициализирован",
		slog.String("jwks_url", cfg.JWTJWKSURL),
		slog.String("issuer", cfg.JWTIssuer),
	)

	// 12. Сессионная аутентификация
	redirector := navigate.NewRedirector(logger)
	sessionAuth := middleware.NewSessionAuth(sessions, creds, verifier, redirector, logger)

	// 13. Readiness checkers (PostgreSQL + auth-сервис)
	pgChecker := database.NewReadinessChecker(pool)
	authChecker := handlers.NewHTTPReadinessChecker("auth", cfg.AuthServiceURL, 3*time.Second)
	healthHandler := handlers.NewHealthHandler(pgChecker, authChecker)

	// 14. API handler
	apiHandler := handlers.NewAPIHandler(
		healthHandler,
		sessions,
		registry,
		creds,
		cfg.SessionTTL,
		authSvc,
		adminUsersSvc,
		rolesSvc,
		offersSvc,
		appUsersSvc,
		usersStore,
		rolesStore,
		offersStore,
		appUsersStore,
		lookupsStore,
		dashboardStore,
		logger,
	)

	// 15. Фоновая очистка истёкших сессий
	cleanupCtx, cancelCleanup := context.WithCancel(ctx)
	defer cancelCleanup()
	go sessionJanitor(cleanupCtx, creds, cfg.SessionCleanupInterval, logger)

	// 15.1 topologymetrics — мониторинг зависимостей
	// (PostgreSQL + backend-сервисы)
	var dephealthSvc *service.DephealthService
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"admin-gateway",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.ServiceURLs(),
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 16. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler, sessionAuth)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 17. Graceful shutdown фоновых задач
	logger.Info("Останавливаем фоновые задачи...")

	cancelCleanup()
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Admin Gateway остановлен")
}

// sessionJanitor периодически удаляет истёкшие сессии вместе с их
// учётными данными.
func sessionJanitor(ctx context.Context, creds *credstore.Store, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := creds.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("Ошибка очистки истёкших сессий", slog.String("error", err.Error()))
				continue
			}
			if deleted > 0 {
				logger.Info("Истёкшие сессии удалены", slog.Int64("count", deleted))
			}
		}
	}
}
