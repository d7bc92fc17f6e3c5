// roles.go — контейнер состояния ролей.
package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ashirdev/ashare/admin-gateway/internal/domain/model"
	"github.com/ashirdev/ashare/admin-gateway/internal/service"
)

// RoleStore — состояние списка ролей и справочника прав.
type RoleStore struct {
	mu  sync.Mutex
	svc *service.RoleService
	log *slog.Logger

	roles       []model.Role
	permissions []model.Permission
	selected    *model.Role
	loading     bool
	err         string
	pagination  Pagination
	searchTerm  string
}

// NewRoleStore создаёт контейнер ролей.
func NewRoleStore(svc *service.RoleService, logger *slog.Logger) *RoleStore {
	return &RoleStore{
		svc: svc,
		log: logger.With(slog.String("component", "roles_store")),
	}
}

func (s *RoleStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *RoleStore) settle() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *RoleStore) fail(err error, fallback string) error {
	s.mu.Lock()
	s.err = errorMessage(err, fallback)
	s.mu.Unlock()
	return err
}

// Fetch загружает страницу ролей, целиком заменяя коллекцию.
func (s *RoleStore) Fetch(ctx context.Context, page, pageSize int) error {
	s.begin()
	defer s.settle()

	result, err := s.svc.List(ctx, page, pageSize)
	if err != nil {
		return s.fail(err, "Не удалось загрузить роли")
	}

	s.mu.Lock()
	s.roles = result.Data
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

// Search выполняет умный поиск ролей и заменяет коллекцию результатом.
func (s *RoleStore) Search(ctx context.Context, req model.SmartSearchRequest) error {
	s.begin()
	defer s.settle()

	result, err := s.svc.Search(ctx, req)
	if err != nil {
		return s.fail(err, "Не удалось выполнить поиск ролей")
	}

	s.mu.Lock()
	s.searchTerm = req.SearchTerm
	s.roles = result.Data
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

// Create создаёт роль. Новый элемент добавляется в конец коллекции.
func (s *RoleStore) Create(ctx context.Context, req model.CreateRoleRequest) (*model.Role, error) {
	s.begin()
	defer s.settle()

	role, err := s.svc.Create(ctx, req)
	if err != nil {
		return nil, s.fail(err, "Не удалось создать роль")
	}

	s.mu.Lock()
	s.roles = append(s.roles, *role)
	s.pagination.TotalCount++
	s.mu.Unlock()
	return role, nil
}

// Update обновляет роль и заменяет её в коллекции по id.
func (s *RoleStore) Update(ctx context.Context, id string, req model.UpdateRoleRequest) (*model.Role, error) {
	s.begin()
	defer s.settle()

	role, err := s.svc.Update(ctx, id, req)
	if err != nil {
		return nil, s.fail(err, "Не удалось обновить роль")
	}

	s.mu.Lock()
	for i := range s.roles {
		if s.roles[i].ID == id {
			s.roles[i] = *role
			break
		}
	}
	if s.selected != nil && s.selected.ID == id {
		updated := *role
		s.selected = &updated
	}
	s.mu.Unlock()
	return role, nil
}

// Delete удаляет роль из backend и из коллекции.
// Если удалена выбранная роль, выбор сбрасывается.
func (s *RoleStore) Delete(ctx context.Context, id string) error {
	s.begin()
	defer s.settle()

	if err := s.svc.Delete(ctx, id); err != nil {
		return s.fail(err, "Не удалось удалить роль")
	}

	s.mu.Lock()
	for i := range s.roles {
		if s.roles[i].ID == id {
			s.roles = append(s.roles[:i], s.roles[i+1:]...)
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

// FetchPermissions загружает полный справочник прав.
func (s *RoleStore) FetchPermissions(ctx context.Context) error {
	s.begin()
	defer s.settle()

	permissions, err := s.svc.Permissions(ctx)
	if err != nil {
		return s.fail(err, "Не удалось загрузить список прав")
	}

	s.mu.Lock()
	s.permissions = permissions
	s.mu.Unlock()
	return nil
}

// Select выбирает роль из коллекции по id.
func (s *RoleStore) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.roles {
		if s.roles[i].ID == id {
			selected := s.roles[i]
			s.selected = &selected
			return
		}
	}
}

// ClearSelected сбрасывает выбор.
func (s *RoleStore) ClearSelected() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

// Roles возвращает копию коллекции.
func (s *RoleStore) Roles() []model.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	roles := make([]model.Role, len(s.roles))
	copy(roles, s.roles)
	return roles
}

// Permissions возвращает копию справочника прав.
func (s *RoleStore) Permissions() []model.Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	permissions := make([]model.Permission, len(s.permissions))
	copy(permissions, s.permissions)
	return permissions
}

// Selected возвращает копию выбранной роли или nil.
func (s *RoleStore) Selected() *model.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	selected := *s.selected
	return &selected
}

// Loading сообщает, выполняется ли действие.
func (s *RoleStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err возвращает текст последней ошибки действия.
func (s *RoleStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Pagination возвращает состояние пагинации.
func (s *RoleStore) Pagination() Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}
