// app_users.go — обработчики /admin/app-users: пользователи
// приложения из profiles-сервиса.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/ashirdev/ashare/admin-gateway/internal/api/errors"
	"github.com/ashirdev/ashare/admin-gateway/internal/domain/model"
)

// appUserListResponse — ответ списочных операций.
type appUserListResponse struct {
	Items      []model.AppUser `json:"items"`
	Pagination any             `json:"pagination"`
}

// ListAppUsers — GET /admin/app-users. Необязательные параметры
// searchTerm и isActive передаются в profiles-сервис.
func (h *APIHandler) ListAppUsers(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationParams(r)

	searchTerm := r.URL.Query().Get("searchTerm")
	var isActive *bool
	if v := r.URL.Query().Get("isActive"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			apierrors.ValidationError(w, "Параметр isActive должен быть true или false")
			return
		}
		isActive = &parsed
	}

	if err := h.appUsers.Fetch(r.Context(), page, pageSize, searchTerm, isActive); err != nil {
		apierrors.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, appUserListResponse{
		Items:      h.appUsers.Users(),
		Pagination: h.appUsers.Pagination(),
	})
}

// GetAppUser — GET /admin/app-users/{id}.
func (h *APIHandler) GetAppUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.appUsersSvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DeleteAppUser — DELETE /admin/app-users/{id}.
func (h *APIHandler) DeleteAppUser(w http.ResponseWriter, r *http.Request) {
	if err := h.appUsers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierrors.FromError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleAppUserStatus — PATCH /admin/app-users/{id}/toggle-status.
func (h *APIHandler) ToggleAppUserStatus(w http.ResponseWriter, r *http.Request) {
	if err := h.appUsers.ToggleStatus(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ConfirmAppUserEmail — POST /admin/app-users/{id}/confirm-email.
func (h *APIHandler) ConfirmAppUserEmail(w http.ResponseWriter, r *http.Request) {
	if err := h.appUsers.ConfirmEmail(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ConfirmAppUserPhone — POST /admin/app-users/{id}/confirm-phone.
func (h *APIHandler) ConfirmAppUserPhone(w http.ResponseWriter, r *http.Request) {
	if err := h.appUsers.ConfirmPhone(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AppUserStatistics — GET /admin/app-users/statistics.
func (h *APIHandler) AppUserStatistics(w http.ResponseWriter, r *http.Request) {
	if err := h.appUsers.FetchStatistics(r.Context()); err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.appUsers.Statistics())
}
