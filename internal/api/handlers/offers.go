// offers.go — обработчики /admin/offers: объявления о недвижимости.
// Создание принимает multipart/form-data с изображениями и видео.
package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/ashirdev/ashare/admin-gateway/internal/api/errors"
	"github.com/ashirdev/ashare/admin-gateway/internal/domain/model"
)

// maxOfferUploadSize — предел размера multipart-формы создания объявления.
const maxOfferUploadSize = 256 << 20 // 256 MiB

// offerListResponse — ответ списочных операций. Элементы в поле offers,
// как отдают offers-сервисы.
type offerListResponse struct {
	Offers     []model.Offer `json:"offers"`
	Pagination any           `json:"pagination"`
}

// ListOffers — GET /admin/offers.
func (h *APIHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationParams(r)

	if err := h.offers.Fetch(r.Context(), page, pageSize); err != nil {
		apierrors.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, offerListResponse{
		Offers:     h.offers.Offers(),
		Pagination: h.offers.Pagination(),
	})
}

// SearchOffers — POST /admin/offers/search. Поиск идёт через отдельный
// сервис offers-searcher.
func (h *APIHandler) SearchOffers(w http.ResponseWriter, r *http.Request) {
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

	if err := h.offers.Search(r.Context(), req); err != nil {
		apierrors.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, offerListResponse{
		Offers:     h.offers.Offers(),
		Pagination: h.offers.Pagination(),
	})
}

// GetOffer — GET /admin/offers/{id}. Выбирает объявление в контейнере.
func (h *APIHandler) GetOffer(w http.ResponseWriter, r *http.Request) {
	offer, err := h.offers.FetchOne(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

// CreateOffer — POST /admin/offers. Принимает multipart/form-data:
// скалярные поля строками, featureIds как JSON-массив, файлы под
// полями images и videos. Валидация выполняется до обращения к backend.
func (h *APIHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	input, ok := parseOfferForm(w, r)
	if !ok {
		return
	}

	offer, err := h.offers.Create(r.Context(), *input)
	if err != nil {
		apierrors.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, offer)
}

// OfferStatistics — GET /admin/offers/statistics.
func (h *APIHandler) OfferStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.offersSvc.Statistics(r.Context())
	if err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// DeleteOffer — DELETE /admin/offers/{id}.
func (h *APIHandler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	if err := h.offers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierrors.FromError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleOfferStatus — PATCH /admin/offers/{id}/toggle-status.
func (h *APIHandler) ToggleOfferStatus(w http.ResponseWriter, r *http.Request) {
	if err := h.offers.ToggleStatus(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ActivateOffer — POST /admin/offers/{id}/activate.
func (h *APIHandler) ActivateOffer(w http.ResponseWriter, r *http.Request) {
	if err := h.offers.Activate(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeactivateOffer — POST /admin/offers/{id}/deactivate.
func (h *APIHandler) DeactivateOffer(w http.ResponseWriter, r *http.Request) {
	if err := h.offers.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeBulkOfferIDs читает список идентификаторов массовой операции.
func decodeBulkOfferIDs(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	var req model.BulkOfferIDsRequest
	if !decodeJSON(w, r, &req) {
		return nil, false
	}
	if len(req.OfferIDs) == 0 {
		apierrors.ValidationError(w, "Список offerIds пуст")
		return nil, false
	}
	return req.OfferIDs, true
}

// BulkActivateOffers — POST /admin/offers/bulk-activate.
func (h *APIHandler) BulkActivateOffers(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeBulkOfferIDs(w, r)
	if !ok {
		return
	}
	if err := h.offers.BulkActivate(r.Context(), ids); err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// BulkDeactivateOffers — POST /admin/offers/bulk-deactivate.
func (h *APIHandler) BulkDeactivateOffers(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeBulkOfferIDs(w, r)
	if !ok {
		return
	}
	if err := h.offers.BulkDeactivate(r.Context(), ids); err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// BulkDeleteOffers — POST /admin/offers/bulk-delete.
func (h *APIHandler) BulkDeleteOffers(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeBulkOfferIDs(w, r)
	if !ok {
		return
	}
	if err := h.offers.BulkDelete(r.Context(), ids); err != nil {
		apierrors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseOfferForm разбирает multipart-форму создания объявления.
// При ошибке пишет ответ и возвращает false.
func parseOfferForm(w http.ResponseWriter, r *http.Request) (*model.CreateOfferInput, bool) {
	if err := r.ParseMultipartForm(maxOfferUploadSize); err != nil {
		apierrors.ValidationError(w, "Некорректная multipart-форма: "+err.Error())
		return nil, false
	}

	input := &model.CreateOfferInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Address:     r.FormValue("address"),
	}

	if v := r.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			apierrors.ValidationError(w, "Поле price должно быть числом")
			return nil, false
		}
		input.Price = price
	}

	intFields := []struct {
		name string
		dst  *int
	}{
		{"offerTypeId", &input.OfferTypeID},
		{"unitTypeId", &input.UnitTypeID},
		{"timeUnitId", &input.TimeUnitID},
		{"floorId", &input.FloorID},
		{"propertyTypeId", &input.PropertyTypeID},
	}
	for _, f := range intFields {
		v := r.FormValue(f.name)
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			apierrors.ValidationError(w, "Поле "+f.name+" должно быть числом")
			return nil, false
		}
		*f.dst = parsed
	}

	if v := r.FormValue("featureIds"); v != "" {
		if err := json.Unmarshal([]byte(v), &input.FeatureIDs); err != nil {
			apierrors.ValidationError(w, "Поле featureIds должно быть JSON-массивом чисел")
			return nil, false
		}
	}

	var ok bool
	if input.Images, ok = readMediaFiles(w, r.MultipartForm.File["images"]); !ok {
		return nil, false
	}
	if input.Videos, ok = readMediaFiles(w, r.MultipartForm.File["videos"]); !ok {
		return nil, false
	}

	return input, true
}

// readMediaFiles читает загруженные файлы одного поля формы.
func readMediaFiles(w http.ResponseWriter, headers []*multipart.FileHeader) ([]model.MediaFile, bool) {
	files := make([]model.MediaFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			apierrors.ValidationError(w, "Ошибка чтения файла "+fh.Filename)
			return nil, false
		}
		content, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			apierrors.ValidationError(w, "Ошибка чтения файла "+fh.Filename)
			return nil, false
		}
		files = append(files, model.MediaFile{
			Content:     content,
			ContentType: fh.Header.Get("Content-Type"),
		})
	}
	return files, true
}
