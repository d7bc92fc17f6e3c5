// offers.go — контейнер состояния объявлений.
package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ashirdev/ashare/admin-gateway/internal/domain/model"
	"github.com/ashirdev/ashare/admin-gateway/internal/service"
)

// OfferStore — состояние списка объявлений.
type OfferStore struct {
	mu  sync.Mutex
	svc *service.OfferService
	log *slog.Logger

	offers     []model.Offer
	selected   *model.Offer
	loading    bool
	err        string
	pagination Pagination
	searchTerm string
}

// NewOfferStore создаёт контейнер объявлений.
func NewOfferStore(svc *service.OfferService, logger *slog.Logger) *OfferStore {
	return &OfferStore{
		svc: svc,
		log: logger.With(slog.String("component", "offers_store")),
	}
}

func (s *OfferStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *OfferStore) settle() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *OfferStore) fail(err error, fallback string) error {
	s.mu.Lock()
	s.err = errorMessage(err, fallback)
	s.mu.Unlock()
	return err
}

// Fetch загружает страницу объявлений, целиком заменяя коллекцию.
func (s *OfferStore) Fetch(ctx context.Context, page, pageSize int) error {
	s.begin()
	defer s.settle()

	result, err := s.svc.List(ctx, page, pageSize)
	if err != nil {
		return s.fail(err, "Не удалось загрузить объявления")
	}

	s.mu.Lock()
	s.offers = result.Offers
	s.pagination = Pagination{
		Page:            result.PageNumber,
		PageSize:        result.PageSize,
		TotalCount:      result.TotalCount,
		TotalPages:      result.TotalPages,
		HasNextPage:     result.HasNextPage,
		HasPreviousPage: result.HasPreviousPage,
	}
	s.mu.Unlock()
	return nil
}

// Search выполняет умный поиск объявлений и заменяет коллекцию результатом.
func (s *OfferStore) Search(ctx context.Context, req model.SmartSearchRequest) error {
	s.begin()
	defer s.settle()

	result, err := s.svc.Search(ctx, req)
	if err != nil {
		return s.fail(err, "Не удалось выполнить поиск объявлений")
	}

	s.mu.Lock()
	s.searchTerm = req.SearchTerm
	s.offers = result.Offers
	s.pagination = Pagination{
		Page:            result.PageNumber,
		PageSize:        result.PageSize,
		TotalCount:      result.TotalCount,
		TotalPages:      result.TotalPages,
		HasNextPage:     result.HasNextPage,
		HasPreviousPage: result.HasPreviousPage,
	}
	s.mu.Unlock()
	return nil
}

// Create создаёт объявление. Новый элемент встаёт в начало коллекции.
func (s *OfferStore) Create(ctx context.Context, input model.CreateOfferInput) (*model.Offer, error) {
	s.begin()
	defer s.settle()

	offer, err := s.svc.Create(ctx, input)
	if err != nil {
		return nil, s.fail(err, "Не удалось создать объявление")
	}

	s.mu.Lock()
	s.offers = append([]model.Offer{*offer}, s.offers...)
	s.pagination.TotalCount++
	s.mu.Unlock()
	return offer, nil
}

// FetchOne загружает объявление по id и делает его выбранным.
func (s *OfferStore) FetchOne(ctx context.Context, id string) (*model.Offer, error) {
	s.begin()
	defer s.settle()

	offer, err := s.svc.Get(ctx, id)
	if err != nil {
		return nil, s.fail(err, "Не удалось загрузить объявление")
	}

	s.mu.Lock()
	selected := *offer
	s.selected = &selected
	s.mu.Unlock()
	return offer, nil
}

// Delete удаляет объявление из backend и из коллекции.
// Если удалено выбранное объявление, выбор сбрасывается.
func (s *OfferStore) Delete(ctx context.Context, id string) error {
	s.begin()
	defer s.settle()

	if err := s.svc.Delete(ctx, id); err != nil {
		return s.fail(err, "Не удалось удалить объявление")
	}

	s.mu.Lock()
	s.removeLocked(id)
	s.mu.Unlock()
	return nil
}

// ToggleStatus переключает активность объявления. Новое значение
// отражается и в коллекции, и в выбранном элементе.
func (s *OfferStore) ToggleStatus(ctx context.Context, id string) error {
	s.begin()
	defer s.settle()

	if err := s.svc.ToggleStatus(ctx, id); err != nil {
		return s.fail(err, "Не удалось переключить статус объявления")
	}

	s.mu.Lock()
	for i := range s.offers {
		if s.offers[i].ID == id {
			s.offers[i].IsActive = !s.offers[i].IsActive
			break
		}
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected.IsActive = !s.selected.IsActive
	}
	s.mu.Unlock()
	return nil
}

// Activate активирует объявление.
func (s *OfferStore) Activate(ctx context.Context, id string) error {
	s.begin()
	defer s.settle()

	if err := s.svc.Activate(ctx, id); err != nil {
		return s.fail(err, "Не удалось активировать объявление")
	}
	s.setActive([]string{id}, true)
	return nil
}

// Deactivate деактивирует объявление.
func (s *OfferStore) Deactivate(ctx context.Context, id string) error {
	s.begin()
	defer s.settle()

	if err := s.svc.Deactivate(ctx, id); err != nil {
		return s.fail(err, "Не удалось деактивировать объявление")
	}
	s.setActive([]string{id}, false)
	return nil
}

// BulkActivate активирует объявления списком.
func (s *OfferStore) BulkActivate(ctx context.Context, ids []string) error {
	s.begin()
	defer s.settle()

	if err := s.svc.BulkActivate(ctx, ids); err != nil {
		return s.fail(err, "Не удалось активировать объявления")
	}
	s.setActive(ids, true)
	return nil
}

// BulkDeactivate деактивирует объявления списком.
func (s *OfferStore) BulkDeactivate(ctx context.Context, ids []string) error {
	s.begin()
	defer s.settle()

	if err := s.svc.BulkDeactivate(ctx, ids); err != nil {
		return s.fail(err, "Не удалось деактивировать объявления")
	}
	s.setActive(ids, false)
	return nil
}

// BulkDelete удаляет объявления списком.
func (s *OfferStore) BulkDelete(ctx context.Context, ids []string) error {
	s.begin()
	defer s.settle()

	if err := s.svc.BulkDelete(ctx, ids); err != nil {
		return s.fail(err, "Не удалось удалить объявления")
	}

	s.mu.Lock()
	for _, id := range ids {
		s.removeLocked(id)
	}
	s.mu.Unlock()
	return nil
}

// Select выбирает объявление из коллекции по id.
func (s *OfferStore) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.offers {
		if s.offers[i].ID == id {
			selected := s.offers[i]
			s.selected = &selected
			return
		}
	}
}

// ClearSelected сбрасывает выбор.
func (s *OfferStore) ClearSelected() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

// Offers возвращает копию коллекции.
func (s *OfferStore) Offers() []model.Offer {
	s.mu.Lock()
	defer s.mu.Unlock()
	offers := make([]model.Offer, len(s.offers))
	copy(offers, s.offers)
	return offers
}

// Selected возвращает копию выбранного объявления или nil.
func (s *OfferStore) Selected() *model.Offer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	selected := *s.selected
	return &selected
}

// Loading сообщает, выполняется ли действие.
func (s *OfferStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err возвращает текст последней ошибки действия.
func (s *OfferStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Pagination возвращает состояние пагинации.
func (s *OfferStore) Pagination() Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

// removeLocked удаляет объявление из коллекции.
// Вызывается под мьютексом.
func (s *OfferStore) removeLocked(id string) {
	for i := range s.offers {
		if s.offers[i].ID == id {
			s.offers = append(s.offers[:i], s.offers[i+1:]...)
			s.pagination.TotalCount--
			break
		}
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
}

// setActive выставляет признак активности объявлениям по списку id.
func (s *OfferStore) setActive(ids []string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	match := make(map[string]bool, len(ids))
	for _, id := range ids {
		match[id] = true
	}
	for i := range s.offers {
		if match[s.offers[i].ID] {
			s.offers[i].IsActive = active
		}
	}
	if s.selected != nil && match[s.selected.ID] {
		s.selected.IsActive = active
	}
}
