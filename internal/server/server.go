// Пакет server — HTTP-сервер Admin Gateway с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на внешнем прокси.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ashirdev/ashare/admin-gateway/internal/api/handlers"
	"github.com/ashirdev/ashare/admin-gateway/internal/api/middleware"
	"github.com/ashirdev/ashare/admin-gateway/internal/config"
)

// Server — HTTP-сервер Admin Gateway.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными маршрутами и middleware.
// sessionAuth — middleware сессионной аутентификации (может быть nil
// для тестирования: защищённые маршруты тогда открыты).
func New(cfg *config.Config, logger *slog.Logger, handler *handlers.APIHandler, sessionAuth *middleware.SessionAuth) *Server {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Публичные маршруты: probes, метрики, вход.
	// Health и metrics проверяются Kubernetes напрямую.
	router.Get("/healthz", handler.HealthLive)
	router.Get("/readyz", handler.HealthReady)
	router.Get("/metrics", handler.GetMetrics)

	router.Get("/login", handler.LoginPage)
	router.Get("/signin", handler.LoginPage)

	// Вход и обновление токенов: сессия извлекается, но не требуется.
	router.Group(func(r chi.Router) {
		if sessionAuth != nil {
			r.Use(sessionAuth.WithSession())
		}
		r.Post("/admin/login", handler.Login)
		r.Post("/admin/refresh", handler.Refresh)
		r.Post("/admin/logout", handler.Logout)
	})

	// Защищённые маршруты: требуется сессия с валидным access token.
	router.Group(func(r chi.Router) {
		if sessionAuth != nil {
			r.Use(sessionAuth.Middleware())
		}

		r.Get("/admin/me", handler.Me)
		r.Post("/admin/change-password", handler.ChangePassword)

		r.Route("/admin/users", func(r chi.Router) {
			r.With(middleware.RequirePermission("users.read")).Group(func(r chi.Router) {
				r.Get("/", handler.ListAdminUsers)
				r.Post("/search", handler.SearchAdminUsers)
				r.Get("/statistics", handler.AdminUserStatistics)
				r.Get("/{id}", handler.GetAdminUser)
			})
			r.With(middleware.RequirePermission("users.create")).Post("/", handler.CreateAdminUser)
			r.With(middleware.RequirePermission("users.update")).Group(func(r chi.Router) {
				r.Put("/{id}", handler.UpdateAdminUser)
				r.Post("/{id}/activate", handler.ActivateAdminUser)
				r.Post("/{id}/deactivate", handler.DeactivateAdminUser)
				r.Post("/{id}/reset-password", handler.ResetAdminUserPassword)
				r.Post("/{id}/restore", handler.RestoreAdminUser)
				r.Post("/bulk-activate", handler.BulkActivateAdminUsers)
				r.Post("/bulk-deactivate", handler.BulkDeactivateAdminUsers)
				r.Post("/bulk-restore", handler.BulkRestoreAdminUsers)
				r.Post("/bulk-assign-role", handler.BulkAssignRole)
			})
			r.With(middleware.RequirePermission("users.delete")).Group(func(r chi.Router) {
				r.Delete("/{id}", handler.DeleteAdminUser)
				r.Post("/bulk-delete", handler.BulkDeleteAdminUsers)
			})
		})

		r.Route("/admin/roles", func(r chi.Router) {
			r.With(middleware.RequirePermission("roles.read")).Group(func(r chi.Router) {
				r.Get("/", handler.ListRoles)
				r.Post("/search", handler.SearchRoles)
				r.Get("/permissions", handler.ListPermissions)
				r.Get("/{id}", handler.GetRole)
			})
			r.With(middleware.RequirePermission("roles.create")).Post("/", handler.CreateRole)
			r.With(middleware.RequirePermission("roles.update")).Put("/{id}", handler.UpdateRole)
			r.With(middleware.RequirePermission("roles.delete")).Delete("/{id}", handler.DeleteRole)
		})

		r.Route("/admin/offers", func(r chi.Router) {
			r.With(middleware.RequirePermission("offers.read")).Group(func(r chi.Router) {
				r.Get("/", handler.ListOffers)
				r.Post("/search", handler.SearchOffers)
				r.Get("/statistics", handler.OfferStatistics)
				r.Get("/{id}", handler.GetOffer)
			})
			r.With(middleware.RequirePermission("offers.create")).Post("/", handler.CreateOffer)
			r.With(middleware.RequirePermission("offers.update")).Group(func(r chi.Router) {
				r.Patch("/{id}/toggle-status", handler.ToggleOfferStatus)
				r.Post("/{id}/activate", handler.ActivateOffer)
				r.Post("/{id}/deactivate", handler.DeactivateOffer)
				r.Post("/bulk-activate", handler.BulkActivateOffers)
				r.Post("/bulk-deactivate", handler.BulkDeactivateOffers)
			})
			r.With(middleware.RequirePermission("offers.delete")).Group(func(r chi.Router) {
				r.Delete("/{id}", handler.DeleteOffer)
				r.Post("/bulk-delete", handler.BulkDeleteOffers)
			})
		})

		r.Route("/admin/app-users", func(r chi.Router) {
			r.With(middleware.RequirePermission("users.read")).Group(func(r chi.Router) {
				r.Get("/", handler.ListAppUsers)
				r.Get("/statistics", handler.AppUserStatistics)
				r.Get("/{id}", handler.GetAppUser)
			})
			r.With(middleware.RequirePermission("users.update")).Group(func(r chi.Router) {
				r.Patch("/{id}/toggle-status", handler.ToggleAppUserStatus)
				r.Post("/{id}/confirm-email", handler.ConfirmAppUserEmail)
				r.Post("/{id}/confirm-phone", handler.ConfirmAppUserPhone)
			})
			r.With(middleware.RequirePermission("users.delete")).Delete("/{id}", handler.DeleteAppUser)
		})

		r.Route("/admin/lookups", func(r chi.Router) {
			r.Get("/", handler.GetLookups)
			r.Post("/invalidate", handler.InvalidateLookups)
			// Справочники принадлежат offers-manager, поэтому изменения
			// закрыты правами offers.*.
			r.With(middleware.RequirePermission("offers.create")).Post("/{table}", handler.CreateLookupItem)
			r.With(middleware.RequirePermission("offers.update")).Put("/{table}/{id}", handler.UpdateLookupItem)
			r.With(middleware.RequirePermission("offers.delete")).Delete("/{table}/{id}", handler.DeleteLookupItem)
		})

		r.With(middleware.RequirePermission("offers.read")).Get("/admin/dashboard", handler.GetDashboard)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
