// app_users.go — контейнер состояния пользователей приложения.
package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ashirdev/ashare/admin-gateway/internal/domain/model"
	"github.com/ashirdev/ashare/admin-gateway/internal/service"
)

// AppUserStore — состояние списка пользователей приложения.
type AppUserStore struct {
	mu  sync.Mutex
	svc *service.AppUserService
	log *slog.Logger

	users      []model.AppUser
	statistics *model.AppUserStatistics
	selected   *model.AppUser
	loading    bool
	err        string
	pagination Pagination
}

// NewAppUserStore создаёт контейнер пользователей приложения.
func NewAppUserStore(svc *service.AppUserService, logger *slog.Logger) *AppUserStore {
	return &AppUserStore{
		svc: svc,
		log: logger.With(slog.String("component", "app_users_store")),
	}
}

func (s *AppUserStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *AppUserStore) settle() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *AppUserStore) fail(err error, fallback string) error {
	s.mu.Lock()
	s.err = errorMessage(err, fallback)
	s.mu.Unlock()
	return err
}

// Fetch загружает страницу пользователей, целиком заменяя коллекцию.
// searchTerm и isActive — необязательные фильтры списка.
func (s *AppUserStore) Fetch(ctx context.Context, page, pageSize int, searchTerm string, isActive *bool) error {
	s.begin()
	defer s.settle()

	result, err := s.svc.List(ctx, page, pageSize, searchTerm, isActive)
	if err != nil {
		return s.fail(err, "Не удалось загрузить пользователей")
	}

	s.mu.Lock()
	s.users = result.Items
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

// Delete удаляет пользователя из backend и из коллекции.
// Если удалён выбранный элемент, выбор сбрасывается.
func (s *AppUserStore) Delete(ctx context.Context, id string) error {
	s.begin()
	defer s.settle()

	if err := s.svc.Delete(ctx, id); err != nil {
		return s.fail(err, "Не удалось удалить пользователя")
	}

	s.mu.Lock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			s.pagination.TotalCount--
			break
		}
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.mu.Unlock()
	return nil
}

// ToggleStatus переключает активность пользователя.
func (s *AppUserStore) ToggleStatus(ctx context.Context, id string) error {
	s.begin()
	defer s.settle()

	if err := s.svc.ToggleStatus(ctx, id); err != nil {
		return s.fail(err, "Не удалось переключить статус пользователя")
	}

	s.mu.Lock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].IsActive = !s.users[i].IsActive
			break
		}
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected.IsActive = !s.selected.IsActive
	}
	s.mu.Unlock()
	return nil
}

// ConfirmEmail подтверждает email пользователя.
func (s *AppUserStore) ConfirmEmail(ctx context.Context, id string) error {
	s.begin()
	defer s.settle()

	if err := s.svc.ConfirmEmail(ctx, id); err != nil {
		return s.fail(err, "Не удалось подтвердить email")
	}

	s.mu.Lock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].EmailConfirmed = true
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// ConfirmPhone подтверждает телефон пользователя.
func (s *AppUserStore) ConfirmPhone(ctx context.Context, id string) error {
	s.begin()
	defer s.settle()

	if err := s.svc.ConfirmPhone(ctx, id); err != nil {
		return s.fail(err, "Не удалось подтвердить телефон")
	}

	s.mu.Lock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].PhoneNumberConfirmed = true
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// FetchStatistics загружает статистику пользователей приложения.
func (s *AppUserStore) FetchStatistics(ctx context.Context) error {
	s.begin()
	defer s.settle()

	stats, err := s.svc.Statistics(ctx)
	if err != nil {
		return s.fail(err, "Не удалось загрузить статистику пользователей")
	}

	s.mu.Lock()
	s.statistics = stats
	s.mu.Unlock()
	return nil
}

// Select выбирает пользователя из коллекции по id.
func (s *AppUserStore) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			selected := s.users[i]
			s.selected = &selected
			return
		}
	}
}

// ClearSelected сбрасывает выбор.
func (s *AppUserStore) ClearSelected() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

// Users возвращает копию коллекции.
func (s *AppUserStore) Users() []model.AppUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]model.AppUser, len(s.users))
	copy(users, s.users)
	return users
}

// Statistics возвращает копию загруженной статистики или nil.
func (s *AppUserStore) Statistics() *model.AppUserStatistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statistics == nil {
		return nil
	}
	stats := *s.statistics
	return &stats
}

// Selected возвращает копию выбранного пользователя или nil.
func (s *AppUserStore) Selected() *model.AppUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	selected := *s.selected
	return &selected
}

// Loading сообщает, выполняется ли действие.
func (s *AppUserStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err возвращает текст последней ошибки действия.
func (s *AppUserStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Pagination возвращает состояние пагинации.
func (s *AppUserStore) Pagination() Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}
