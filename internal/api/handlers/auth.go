// auth.go — обработчики аутентификации: вход, выход, обновление
// токенов, профиль и смена пароля текущего администратора.
package handlers

import (
	"net/http"

	"github.com/google/uuid"

	apierrors "github.com/ashirdev/ashare/admin-gateway/internal/api/errors"
	"github.com/ashirdev/ashare/admin-gateway/internal/api/middleware"
	"github.com/ashirdev/ashare/admin-gateway/internal/domain/model"
)

// Login — POST /admin/login. Выполняет вход через auth-сервис и
// сохраняет учётные данные в серверном хранилище. Если у клиента ещё
// нет сессии — создаёт её и выставляет зашифрованный cookie.
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		apierrors.ValidationError(w, "Поля email и password обязательны")
		return
	}

	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == uuid.Nil {
		id, err := h.creds.CreateSession(r.Context(), h.sessionTTL)
		if err != nil {
			h.logger.Error("Ошибка создания сессии", "error", err.Error())
			apierrors.InternalError(w, "Не удалось создать сессию")
			return
		}
		if err := h.sessions.SetSessionCookie(w, id); err != nil {
			h.logger.Error("Ошибка установки cookie сессии", "error", err.Error())
			apierrors.InternalError(w, "Не удалось установить cookie сессии")
			return
		}
		sessionID = id
	}

	resp, err := h.auth.Login(r.Context(), sessionID, req)
	if err != nil {
		apierrors.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Refresh — POST /admin/refresh. Обновляет токены по refresh token
// текущей сессии.
func (h *APIHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == uuid.Nil {
		apierrors.Unauthorized(w, "Сессия отсутствует")
		return
	}

	resp, err := h.auth.Refresh(r.Context(), sessionID)
	if err != nil {
		apierrors.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Logout — POST /admin/logout. Завершает сессию: очищает учётные
// данные, удаляет сессию, сбрасывает cookie и кэш HTTP-клиентов.
func (h *APIHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID != uuid.Nil {
		if err := h.auth.Logout(r.Context(), sessionID); err != nil {
			h.logger.Warn("Ошибка очистки учётных данных при выходе", "error", err.Error())
		}
		if err := h.creds.DeleteSession(r.Context(), sessionID); err != nil {
			h.logger.Warn("Ошибка удаления сессии при выходе", "error", err.Error())
		}
	}

	h.sessions.ClearSessionCookie(w)
	h.registry.ResetAll()

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Me — GET /admin/me. Возвращает профиль текущего администратора.
func (h *APIHandler) Me(w http.ResponseWriter, r *http.Request) {
	info, err := h.auth.Me(r.Context())
	if err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// ChangePassword — POST /admin/change-password.
func (h *APIHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req model.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		apierrors.ValidationError(w, "Поля currentPassword и newPassword обязательны")
		return
	}

	if err := h.auth.ChangePassword(r.Context(), req); err != nil {
		apierrors.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// LoginPage — GET /login и GET /signin. Интерфейс рендерится отдельным
// фронтендом; шлюз отвечает подсказкой, куда отправлять учётные данные.
func (h *APIHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"login":    "/admin/login",
		"redirect": r.URL.Query().Get("redirect"),
	})
}
