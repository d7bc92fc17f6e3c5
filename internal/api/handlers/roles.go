// roles.go — обработчики /admin/roles: роли и права доступа.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/ashirdev/ashare/admin-gateway/internal/api/errors"
	"github.com/ashirdev/ashare/admin-gateway/internal/domain/model"
)

// roleListResponse — ответ списочных операций. Элементы в поле data,
// как отдаёт auth-сервис для ролей.
type roleListResponse struct {
	Data       []model.Role `json:"data"`
	Pagination any          `json:"pagination"`
}

// ListRoles — GET /admin/roles.
func (h *APIHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationParams(r)

	if err := h.roles.Fetch(r.Context(), page, pageSize); err != nil {
		apierrors.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, roleListResponse{
		Data:       h.roles.Roles(),
		Pagination: h.roles.Pagination(),
	})
}

// SearchRoles — POST /admin/roles/search.
func (h *APIHandler) SearchRoles(w http.ResponseWriter, r *http.Request) {
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

	if err := h.roles.Search(r.Context(), req); err != nil {
		apierrors.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, roleListResponse{
		Data:       h.roles.Roles(),
		Pagination: h.roles.Pagination(),
	})
}

// GetRole — GET /admin/roles/{id}.
func (h *APIHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.rolesSvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, role)
}

// CreateRole — POST /admin/roles. Новая роль встаёт в конец коллекции.
func (h *APIHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		apierrors.ValidationError(w, "Поле name обязательно")
		return
	}

	role, err := h.roles.Create(r.Context(), req)
	if err != nil {
		apierrors.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, role)
}

// UpdateRole — PUT /admin/roles/{id}.
func (h *APIHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	role, err := h.roles.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		apierrors.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, role)
}

// DeleteRole — DELETE /admin/roles/{id}.
func (h *APIHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	if err := h.roles.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierrors.FromError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPermissions — GET /admin/roles/permissions. Полный каталог прав.
func (h *APIHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	if err := h.roles.FetchPermissions(r.Context()); err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.roles.Permissions())
}
