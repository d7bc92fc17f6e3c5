// admin_users.go — обработчики /admin/users: управление
// административными пользователями auth-сервиса.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/ashirdev/ashare/admin-gateway/internal/api/errors"
	"github.com/ashirdev/ashare/admin-gateway/internal/domain/model"
)

// adminUserListResponse — ответ списочных операций: текущая коллекция
// контейнера состояния вместе с пагинацией.
type adminUserListResponse struct {
	Items      []model.AdminUser `json:"items"`
	Pagination any               `json:"pagination"`
}

// ListAdminUsers — GET /admin/users.
func (h *APIHandler) ListAdminUsers(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationParams(r)

	if err := h.users.Fetch(r.Context(), page, pageSize); err != nil {
		apierrors.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, adminUserListResponse{
		Items:      h.users.Users(),
		Pagination: h.users.Pagination(),
	})
}

// SearchAdminUsers — POST /admin/users/search. Умный поиск с фильтрами.
func (h *APIHandler) SearchAdminUsers(w http.ResponseWriter, r *http.Request) {
	var req model.SmartSearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	if err := h.users.Search(r.Context(), req); err != nil {
		apierrors.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, adminUserListResponse{
		Items:      h.users.Users(),
		Pagination: h.users.Pagination(),
	})
}

// GetAdminUser — GET /admin/users/{id}.
func (h *APIHandler) GetAdminUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.usersSvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// CreateAdminUser — POST /admin/users. Новый пользователь встаёт
// в начало коллекции.
func (h *APIHandler) CreateAdminUser(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAdminUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		apierrors.ValidationError(w, "Поля email и password обязательны")
		return
	}

	user, err := h.users.Create(r.Context(), req)
	if err != nil {
		apierrors.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// UpdateAdminUser — PUT /admin/users/{id}.
func (h *APIHandler) UpdateAdminUser(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateAdminUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		apierrors.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// DeleteAdminUser — DELETE /admin/users/{id}.
func (h *APIHandler) DeleteAdminUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierrors.FromError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ActivateAdminUser — POST /admin/users/{id}/activate.
func (h *APIHandler) ActivateAdminUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Activate(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeactivateAdminUser — POST /admin/users/{id}/deactivate.
func (h *APIHandler) DeactivateAdminUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ResetAdminUserPassword — POST /admin/users/{id}/reset-password.
func (h *APIHandler) ResetAdminUserPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.NewPassword == "" {
		apierrors.ValidationError(w, "Поле newPassword обязательно")
		return
	}

	if err := h.usersSvc.ResetPassword(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		apierrors.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RestoreAdminUser — POST /admin/users/{id}/restore.
func (h *APIHandler) RestoreAdminUser(w http.ResponseWriter, r *http.Request) {
	if err := h.usersSvc.Restore(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AdminUserStatistics — GET /admin/users/statistics.
func (h *APIHandler) AdminUserStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.usersSvc.Statistics(r.Context())
	if err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// decodeBulkUserIDs читает список идентификаторов массовой операции.
func decodeBulkUserIDs(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	var req model.BulkUserIDsRequest
	if !decodeJSON(w, r, &req) {
		return nil, false
	}
	if len(req.UserIDs) == 0 {
		apierrors.ValidationError(w, "Список userIds пуст")
		return nil, false
	}
	return req.UserIDs, true
}

// BulkActivateAdminUsers — POST /admin/users/bulk-activate.
func (h *APIHandler) BulkActivateAdminUsers(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeBulkUserIDs(w, r)
	if !ok {
		return
	}
	if err := h.users.BulkActivate(r.Context(), ids); err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// BulkDeactivateAdminUsers — POST /admin/users/bulk-deactivate.
func (h *APIHandler) BulkDeactivateAdminUsers(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeBulkUserIDs(w, r)
	if !ok {
		return
	}
	if err := h.users.BulkDeactivate(r.Context(), ids); err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// BulkDeleteAdminUsers — POST /admin/users/bulk-delete.
func (h *APIHandler) BulkDeleteAdminUsers(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeBulkUserIDs(w, r)
	if !ok {
		return
	}
	if err := h.users.BulkDelete(r.Context(), ids); err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// BulkRestoreAdminUsers — POST /admin/users/bulk-restore.
func (h *APIHandler) BulkRestoreAdminUsers(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeBulkUserIDs(w, r)
	if !ok {
		return
	}
	if err := h.usersSvc.BulkRestore(r.Context(), ids); err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// BulkAssignRole — POST /admin/users/bulk-assign-role.
func (h *APIHandler) BulkAssignRole(w http.ResponseWriter, r *http.Request) {
	var req model.BulkAssignRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.UserIDs) == 0 || req.RoleID == "" {
		apierrors.ValidationError(w, "Поля userIds и roleId обязательны")
		return
	}

	if err := h.users.BulkAssignRole(r.Context(), req.UserIDs, req.RoleID); err != nil {
		apierrors.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
