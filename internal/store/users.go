// users.go — контейнер состояния администраторов.
package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ashirdev/ashare/admin-gateway/internal/domain/model"
	"github.com/ashirdev/ashare/admin-gateway/internal/service"
)

// AdminUserStore — состояние списка администраторов.
type AdminUserStore struct {
	mu  sync.Mutex
	svc *service.AdminUserService
	log *slog.Logger

	users      []model.AdminUser
	selected   *model.AdminUser
	loading    bool
	err        string
	pagination Pagination
	searchTerm string
}

// NewAdminUserStore создаёт контейнер администраторов.
func NewAdminUserStore(svc *service.AdminUserService, logger *slog.Logger) *AdminUserStore {
	return &AdminUserStore{
		svc: svc,
		log: logger.With(slog.String("component", "users_store")),
	}
}

// begin помечает начало действия: ставит флаг загрузки и сбрасывает ошибку.
func (s *AdminUserStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

// settle снимает флаг загрузки.
func (s *AdminUserStore) settle() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// fail записывает текст ошибки действия и возвращает исходную ошибку.
func (s *AdminUserStore) fail(err error, fallback string) error {
	s.mu.Lock()
	s.err = errorMessage(err, fallback)
	s.mu.Unlock()
	return err
}

// Fetch загружает страницу администраторов, целиком заменяя коллекцию.
func (s *AdminUserStore) Fetch(ctx context.Context, page, pageSize int) error {
	s.begin()
	defer s.settle()

	result, err := s.svc.List(ctx, page, pageSize)
	if err != nil {
		return s.fail(err, "Не удалось загрузить администраторов")
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

// Search выполняет умный поиск и заменяет коллекцию результатом.
func (s *AdminUserStore) Search(ctx context.Context, req model.SmartSearchRequest) error {
	s.begin()
	defer s.settle()

	result, err := s.svc.Search(ctx, req)
	if err != nil {
		return s.fail(err, "Не удалось выполнить поиск администраторов")
	}

	s.mu.Lock()
	s.searchTerm = req.SearchTerm
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

// Create создаёт администратора. Новый элемент встаёт в начало коллекции.
func (s *AdminUserStore) Create(ctx context.Context, req model.CreateAdminUserRequest) (*model.AdminUser, error) {
	s.begin()
	defer s.settle()

	user, err := s.svc.Create(ctx, req)
	if err != nil {
		return nil, s.fail(err, "Не удалось создать администратора")
	}

	s.mu.Lock()
	s.users = append([]model.AdminUser{*user}, s.users...)
	s.pagination.TotalCount++
	s.mu.Unlock()
	return user, nil
}

// Update обновляет администратора и заменяет его в коллекции по id.
func (s *AdminUserStore) Update(ctx context.Context, id string, req model.UpdateAdminUserRequest) (*model.AdminUser, error) {
	s.begin()
	defer s.settle()

	user, err := s.svc.Update(ctx, id, req)
	if err != nil {
		return nil, s.fail(err, "Не удалось обновить администратора")
	}

	s.mu.Lock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i] = *user
			break
		}
	}
	if s.selected != nil && s.selected.ID == id {
		updated := *user
		s.selected = &updated
	}
	s.mu.Unlock()
	return user, nil
}

// Delete удаляет администратора из backend и из коллекции.
// Если удалён выбранный элемент, выбор сбрасывается.
func (s *AdminUserStore) Delete(ctx context.Context, id string) error {
	s.begin()
	defer s.settle()

	if err := s.svc.Delete(ctx, id); err != nil {
		return s.fail(err, "Не удалось удалить администратора")
	}

	s.mu.Lock()
	s.removeLocked(id)
	s.mu.Unlock()
	return nil
}

// Activate активирует администратора и отражает это в коллекции.
func (s *AdminUserStore) Activate(ctx context.Context, id string) error {
	s.begin()
	defer s.settle()

	if err := s.svc.Activate(ctx, id); err != nil {
		return s.fail(err, "Не удалось активировать администратора")
	}
	s.setActive([]string{id}, true)
	return nil
}

// Deactivate деактивирует администратора и отражает это в коллекции.
func (s *AdminUserStore) Deactivate(ctx context.Context, id string) error {
	s.begin()
	defer s.settle()

	if err := s.svc.Deactivate(ctx, id); err != nil {
		return s.fail(err, "Не удалось деактивировать администратора")
	}
	s.setActive([]string{id}, false)
	return nil
}

// BulkActivate активирует администраторов списком.
func (s *AdminUserStore) BulkActivate(ctx context.Context, ids []string) error {
	s.begin()
	defer s.settle()

	if err := s.svc.BulkActivate(ctx, ids); err != nil {
		return s.fail(err, "Не удалось активировать администраторов")
	}
	s.setActive(ids, true)
	return nil
}

// BulkDeactivate деактивирует администраторов списком.
func (s *AdminUserStore) BulkDeactivate(ctx context.Context, ids []string) error {
	s.begin()
	defer s.settle()

	if err := s.svc.BulkDeactivate(ctx, ids); err != nil {
		return s.fail(err, "Не удалось деактивировать администраторов")
	}
	s.setActive(ids, false)
	return nil
}

// BulkDelete удаляет администраторов списком.
func (s *AdminUserStore) BulkDelete(ctx context.Context, ids []string) error {
	s.begin()
	defer s.settle()

	if err := s.svc.BulkDelete(ctx, ids); err != nil {
		return s.fail(err, "Не удалось удалить администраторов")
	}

	s.mu.Lock()
	for _, id := range ids {
		s.removeLocked(id)
	}
	s.mu.Unlock()
	return nil
}

// BulkAssignRole назначает роль администраторам списком.
func (s *AdminUserStore) BulkAssignRole(ctx context.Context, ids []string, roleID string) error {
	s.begin()
	defer s.settle()

	if err := s.svc.BulkAssignRole(ctx, ids, roleID); err != nil {
		return s.fail(err, "Не удалось назначить роль")
	}

	s.mu.Lock()
	assigned := make(map[string]bool, len(ids))
	for _, id := range ids {
		assigned[id] = true
	}
	for i := range s.users {
		if assigned[s.users[i].ID] {
			s.users[i].RoleID = roleID
		}
	}
	s.mu.Unlock()
	return nil
}

// Select выбирает администратора из коллекции по id.
func (s *AdminUserStore) Select(id string) {
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
func (s *AdminUserStore) ClearSelected() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

// Users возвращает копию коллекции.
func (s *AdminUserStore) Users() []model.AdminUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]model.AdminUser, len(s.users))
	copy(users, s.users)
	return users
}

// Selected возвращает копию выбранного администратора или nil.
func (s *AdminUserStore) Selected() *model.AdminUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	selected := *s.selected
	return &selected
}

// Loading сообщает, выполняется ли действие.
func (s *AdminUserStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err возвращает текст последней ошибки действия.
func (s *AdminUserStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Pagination возвращает состояние пагинации.
func (s *AdminUserStore) Pagination() Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

// removeLocked удаляет администратора из коллекции.
// Вызывается под мьютексом.
func (s *AdminUserStore) removeLocked(id string) {
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
}

// setActive выставляет признак активности элементам по списку id.
func (s *AdminUserStore) setActive(ids []string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	match := make(map[string]bool, len(ids))
	for _, id := range ids {
		match[id] = true
	}
	for i := range s.users {
		if match[s.users[i].ID] {
			s.users[i].IsActive = active
		}
	}
}
