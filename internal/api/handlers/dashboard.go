// dashboard.go — обработчик /admin/dashboard: сводная статистика
// по объявлениям и пользователям.
package handlers

import (
	"net/http"

	apierrors "github.com/ashirdev/ashare/admin-gateway/internal/api/errors"
)

// GetDashboard — GET /admin/dashboard. Собирает статистику двух
// backend-сервисов и согласует помесячные ряды.
func (h *APIHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.Fetch(r.Context()); err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.dashboard.Statistics())
}
