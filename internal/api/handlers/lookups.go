// lookups.go — обработчики /admin/lookups: справочники
// offers-manager-сервиса с кэшированием в шлюзе.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/ashirdev/ashare/admin-gateway/internal/api/errors"
	"github.com/ashirdev/ashare/admin-gateway/internal/domain/model"
)

// GetLookups — GET /admin/lookups. Возвращает все шесть справочников
// одним ответом; промахи кэша дозагружаются параллельно.
func (h *APIHandler) GetLookups(w http.ResponseWriter, r *http.Request) {
	if err := h.lookups.Fetch(r.Context()); err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.lookups.Lookups())
}

// InvalidateLookups — POST /admin/lookups/invalidate. Сбрасывает кэш
// справочников; следующий запрос пойдёт в backend.
func (h *APIHandler) InvalidateLookups(w http.ResponseWriter, r *http.Request) {
	h.lookups.Invalidate()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateLookupItem — POST /admin/lookups/{table}.
func (h *APIHandler) CreateLookupItem(w http.ResponseWriter, r *http.Request) {
	var req model.CreateLookupItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		apierrors.ValidationError(w, "Поле name обязательно")
		return
	}

	item, err := h.lookups.CreateItem(r.Context(), chi.URLParam(r, "table"), req.Name)
	if err != nil {
		apierrors.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// UpdateLookupItem — PUT /admin/lookups/{table}/{id}.
func (h *APIHandler) UpdateLookupItem(w http.ResponseWriter, r *http.Request) {
	id, ok := lookupItemID(w, r)
	if !ok {
		return
	}

	var req model.UpdateLookupItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		apierrors.ValidationError(w, "Поле name обязательно")
		return
	}

	if err := h.lookups.UpdateItem(r.Context(), chi.URLParam(r, "table"), id, req.Name); err != nil {
		apierrors.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeleteLookupItem — DELETE /admin/lookups/{table}/{id}.
func (h *APIHandler) DeleteLookupItem(w http.ResponseWriter, r *http.Request) {
	id, ok := lookupItemID(w, r)
	if !ok {
		return
	}

	if err := h.lookups.DeleteItem(r.Context(), chi.URLParam(r, "table"), id); err != nil {
		apierrors.FromError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// lookupItemID читает числовой идентификатор записи справочника из пути.
func lookupItemID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.ValidationError(w, "Идентификатор записи справочника должен быть числом")
		return 0, false
	}
	return id, true
}
