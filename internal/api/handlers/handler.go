// handler.go — основной обработчик API Admin Gateway.
// Объединяет доменные обработчики и делегирует запросы контейнерам
// состояния и сервисному слою.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	apierrors "github.com/ashirdev/ashare/admin-gateway/internal/api/errors"
	"github.com/ashirdev/ashare/admin-gateway/internal/backends"
	"github.com/ashirdev/ashare/admin-gateway/internal/credstore"
	"github.com/ashirdev/ashare/admin-gateway/internal/service"
	"github.com/ashirdev/ashare/admin-gateway/internal/store"
	uiauth "github.com/ashirdev/ashare/admin-gateway/internal/ui/auth"
)

// APIHandler — основной обработчик API Admin Gateway.
type APIHandler struct {
	health   *HealthHandler
	sessions *uiauth.SessionManager
	registry *backends.Registry
	creds    *credstore.Store
	// sessionTTL — срок жизни создаваемых сессий
	sessionTTL time.Duration

	auth        *service.AuthService
	usersSvc    *service.AdminUserService
	rolesSvc    *service.RoleService
	offersSvc   *service.OfferService
	appUsersSvc *service.AppUserService

	users     *store.AdminUserStore
	roles     *store.RoleStore
	offers    *store.OfferStore
	appUsers  *store.AppUserStore
	lookups   *store.LookupStore
	dashboard *store.DashboardStore

	logger *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	sessions *uiauth.SessionManager,
	registry *backends.Registry,
	creds *credstore.Store,
	sessionTTL time.Duration,
	auth *service.AuthService,
	usersSvc *service.AdminUserService,
	rolesSvc *service.RoleService,
	offersSvc *service.OfferService,
	appUsersSvc *service.AppUserService,
	users *store.AdminUserStore,
	roles *store.RoleStore,
	offers *store.OfferStore,
	appUsers *store.AppUserStore,
	lookups *store.LookupStore,
	dashboard *store.DashboardStore,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:      health,
		sessions:    sessions,
		registry:    registry,
		creds:       creds,
		sessionTTL:  sessionTTL,
		auth:        auth,
		usersSvc:    usersSvc,
		rolesSvc:    rolesSvc,
		offersSvc:   offersSvc,
		appUsersSvc: appUsersSvc,
		users:       users,
		roles:       roles,
		offers:      offers,
		appUsers:    appUsers,
		lookups:     lookups,
		dashboard:   dashboard,
		logger:      logger.With(slog.String("component", "api_handler")),
	}
}

// HealthLive — liveness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON разбирает тело запроса. При ошибке пишет 400 и
// возвращает false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return false
	}
	return true
}

// paginationParams читает параметры пагинации из строки запроса.
// Возвращает нормализованные page и pageSize.
func paginationParams(r *http.Request) (int, int) {
	page := 1
	pageSize := 20

	if v := r.URL.Query().Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if v := r.URL.Query().Get("pageSize"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			pageSize = parsed
			if pageSize > 100 {
				pageSize = 100
			}
		}
	}

	return page, pageSize
}
