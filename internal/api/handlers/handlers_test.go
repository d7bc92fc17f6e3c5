package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

// buildOfferForm собирает multipart-форму создания объявления.
func buildOfferForm(t *testing.T, fields map[string]string, images, videos int) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("WriteField(%q) вернул ошибку: %v", name, err)
		}
	}
	for i := 0; i < images; i++ {
		fw, err := mw.CreateFormFile("images", "photo.jpg")
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write([]byte("jpeg-data"))
	}
	for i := 0; i < videos; i++ {
		fw, err := mw.CreateFormFile("videos", "tour.mp4")
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write([]byte("mp4-data"))
	}

	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

// TestParseOfferForm — разбор корректной формы создания объявления.
func TestParseOfferForm(t *testing.T) {
	body, contentType := buildOfferForm(t, map[string]string{
		"title":          "Квартира у моря",
		"description":    "Две комнаты, балкон",
		"price":          "2500.50",
		"address":        "Набережная, 7",
		"offerTypeId":    "2",
		"unitTypeId":     "1",
		"propertyTypeId": "3",
		"featureIds":     "[3,7,11]",
	}, 2, 1)

	req := httptest.NewRequest(http.MethodPost, "/admin/offers", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	input, ok := parseOfferForm(rec, req)
	if !ok {
		t.Fatalf("parseOfferForm() вернул ошибку: %s", rec.Body.String())
	}

	if input.Title != "Квартира у моря" {
		t.Errorf("Title = %q", input.Title)
	}
	if input.Price != 2500.50 {
		t.Errorf("Price = %v, ожидалось 2500.50", input.Price)
	}
	if input.OfferTypeID != 2 || input.UnitTypeID != 1 || input.PropertyTypeID != 3 {
		t.Errorf("справочные поля разобраны неверно: %+v", input)
	}
	if len(input.FeatureIDs) != 3 || input.FeatureIDs[1] != 7 {
		t.Errorf("FeatureIDs = %v, ожидалось [3 7 11]", input.FeatureIDs)
	}
	if len(input.Images) != 2 || len(input.Videos) != 1 {
		t.Errorf("файлы: %d изображений, %d видео", len(input.Images), len(input.Videos))
	}
	if string(input.Images[0].Content) != "jpeg-data" {
		t.Errorf("содержимое изображения не прочитано: %q", input.Images[0].Content)
	}
}

// TestParseOfferFormBadPrice — нечисловая цена отклоняется с 400.
func TestParseOfferFormBadPrice(t *testing.T) {
	body, contentType := buildOfferForm(t, map[string]string{
		"title": "Объявление",
		"price": "дорого",
	}, 0, 0)

	req := httptest.NewRequest(http.MethodPost, "/admin/offers", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	if _, ok := parseOfferForm(rec, req); ok {
		t.Fatal("parseOfferForm() принял нечисловую цену")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("ожидался статус 400, получен %d", rec.Code)
	}
}

// TestParseOfferFormBadFeatureIDs — featureIds не JSON-массив.
func TestParseOfferFormBadFeatureIDs(t *testing.T) {
	body, contentType := buildOfferForm(t, map[string]string{
		"title":      "Объявление",
		"featureIds": "3,7",
	}, 0, 0)

	req := httptest.NewRequest(http.MethodPost, "/admin/offers", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	if _, ok := parseOfferForm(rec, req); ok {
		t.Fatal("parseOfferForm() принял некорректные featureIds")
	}
}

// TestPaginationParams — значения по умолчанию, разбор и верхний предел.
func TestPaginationParams(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		page     int
		pageSize int
	}{
		{"без параметров", "", 1, 20},
		{"заданы оба", "?page=3&pageSize=50", 3, 50},
		{"pageSize выше предела", "?pageSize=500", 1, 100},
		{"отрицательная страница игнорируется", "?page=-2", 1, 20},
		{"нечисловые значения игнорируются", "?page=abc&pageSize=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/users"+tt.query, nil)
			page, pageSize := paginationParams(req)
			if page != tt.page || pageSize != tt.pageSize {
				t.Errorf("paginationParams() = (%d, %d), ожидалось (%d, %d)",
					page, pageSize, tt.page, tt.pageSize)
			}
		})
	}
}

// TestLoginPage — подсказка страницы входа сохраняет параметр redirect.
func TestLoginPage(t *testing.T) {
	h := &APIHandler{}
	req := httptest.NewRequest(http.MethodGet, "/login?redirect=%2Fadmin%2Fusers", nil)
	rec := httptest.NewRecorder()

	h.LoginPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался статус 200, получен %d", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("ответ не JSON: %v", err)
	}
	if resp["login"] != "/admin/login" {
		t.Errorf("login = %q, ожидалось /admin/login", resp["login"])
	}
	if resp["redirect"] != "/admin/users" {
		t.Errorf("redirect = %q, ожидалось /admin/users", resp["redirect"])
	}
}
