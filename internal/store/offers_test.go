package store

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ashirdev/ashare/admin-gateway/internal/domain/model"
	"github.com/ashirdev/ashare/admin-gateway/internal/service"
)

// offersBackend — минимальный backend объявлений для тестов контейнера.
func offersBackend(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/admin/offers", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.OfferPage{
			Offers: []model.Offer{
				{ID: "o1", Title: "Квартира", IsActive: true},
				{ID: "o2", Title: "Офис", IsActive: false},
			},
			TotalCount: 2,
			PageNumber: 1,
			PageSize:   20,
		})
	})
	mux.HandleFunc("PATCH /api/admin/offers/{id}/toggle-status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /api/admin/offers/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/admin/offers/bulk-deactivate", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

// newOffersStore собирает контейнер поверх тестового backend.
func newOffersStore(t *testing.T, handler http.Handler) *OfferStore {
	t.Helper()
	facade := testFacade(t, handler)
	svc := service.NewOfferService(facade, testLogger())
	return NewOfferStore(svc, testLogger())
}

// TestOfferStoreToggleMirrorsSelection проверяет, что переключение
// статуса отражается и в коллекции, и в выбранном элементе.
func TestOfferStoreToggleMirrorsSelection(t *testing.T) {
	s := newOffersStore(t, offersBackend(t))

	if err := s.Fetch(context.Background(), 1, 20); err != nil {
		t.Fatalf("Fetch() вернул ошибку: %v", err)
	}
	s.Select("o1")

	if err := s.ToggleStatus(context.Background(), "o1"); err != nil {
		t.Fatalf("ToggleStatus() вернул ошибку: %v", err)
	}

	for _, o := range s.Offers() {
		if o.ID == "o1" && o.IsActive {
			t.Error("o1 остался активным после ToggleStatus()")
		}
	}
	selected := s.Selected()
	if selected == nil || selected.IsActive {
		t.Errorf("выбранный элемент = %+v, ожидался неактивный o1", selected)
	}

	// Повторное переключение возвращает исходное состояние
	if err := s.ToggleStatus(context.Background(), "o1"); err != nil {
		t.Fatalf("повторный ToggleStatus() вернул ошибку: %v", err)
	}
	selected = s.Selected()
	if selected == nil || !selected.IsActive {
		t.Errorf("выбранный элемент = %+v, ожидался активный o1", selected)
	}
}

// TestOfferStoreDeleteSplices проверяет удаление из коллекции
// и уменьшение totalCount.
func TestOfferStoreDeleteSplices(t *testing.T) {
	s := newOffersStore(t, offersBackend(t))

	if err := s.Fetch(context.Background(), 1, 20); err != nil {
		t.Fatalf("Fetch() вернул ошибку: %v", err)
	}

	if err := s.Delete(context.Background(), "o2"); err != nil {
		t.Fatalf("Delete() вернул ошибку: %v", err)
	}

	offers := s.Offers()
	if len(offers) != 1 || offers[0].ID != "o1" {
		t.Errorf("коллекция после удаления = %+v, ожидался только o1", offers)
	}
	if got := s.Pagination().TotalCount; got != 1 {
		t.Errorf("totalCount = %d, ожидалось 1", got)
	}
}

// TestOfferStoreBulkDeactivate проверяет массовое снятие активности.
func TestOfferStoreBulkDeactivate(t *testing.T) {
	s := newOffersStore(t, offersBackend(t))

	if err := s.Fetch(context.Background(), 1, 20); err != nil {
		t.Fatalf("Fetch() вернул ошибку: %v", err)
	}

	if err := s.BulkDeactivate(context.Background(), []string{"o1", "o2"}); err != nil {
		t.Fatalf("BulkDeactivate() вернул ошибку: %v", err)
	}

	for _, o := range s.Offers() {
		if o.IsActive {
			t.Errorf("%s остался активным после BulkDeactivate()", o.ID)
		}
	}
}

// TestOfferStoreCreateValidationError проверяет, что ошибка валидации
// не меняет коллекцию и попадает в Err().
func TestOfferStoreCreateValidationError(t *testing.T) {
	s := newOffersStore(t, offersBackend(t))

	if err := s.Fetch(context.Background(), 1, 20); err != nil {
		t.Fatalf("Fetch() вернул ошибку: %v", err)
	}

	_, err := s.Create(context.Background(), model.CreateOfferInput{Title: ""})
	if err == nil {
		t.Fatal("Create() не вернул ошибку валидации")
	}
	if len(s.Offers()) != 2 {
		t.Errorf("коллекция изменилась при ошибке валидации: %d элементов", len(s.Offers()))
	}
	if s.Err() == "" {
		t.Error("Err() пуст после ошибки валидации")
	}
	if got := s.Pagination().TotalCount; got != 2 {
		t.Errorf("totalCount = %d, ожидалось 2", got)
	}
}
