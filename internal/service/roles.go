// roles.go — операции над ролями и правами auth-сервиса.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/ashirdev/ashare/admin-gateway/internal/backends"
	"github.com/ashirdev/ashare/admin-gateway/internal/domain/model"
)

// Endpoint-пути ролей (auth-сервис).
const (
	rolesEndpoint            = "/api/roles"
	rolesSearchEndpoint      = "/api/roles/search"
	rolesPermissionsEndpoint = "/api/roles/permissions"
)

// RoleService — сервис управления ролями.
type RoleService struct {
	facade *backends.Facade
	logger *slog.Logger
}

// NewRoleService создаёт сервис ролей.
func NewRoleService(facade *backends.Facade, logger *slog.Logger) *RoleService {
	return &RoleService{
		facade: facade,
		logger: logger.With(slog.String("component", "roles_service")),
	}
}

// List возвращает страницу ролей.
func (s *RoleService) List(ctx context.Context, page, pageSize int) (*model.RolePage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))

	var result model.RolePage
	err := s.facade.Get(ctx, backends.ServiceAuth, rolesEndpoint,
		&backends.CallOptions{Query: query}, &result)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка ролей: %w", err)
	}
	return &result, nil
}

// Search выполняет умный поиск ролей.
func (s *RoleService) Search(ctx context.Context, req model.SmartSearchRequest) (*model.RolePage, error) {
	var result model.RolePage
	err := s.facade.Post(ctx, backends.ServiceAuth, rolesSearchEndpoint, req, nil, &result)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска ролей: %w", err)
	}
	return &result, nil
}

// Get возвращает роль по id.
func (s *RoleService) Get(ctx context.Context, id string) (*model.Role, error) {
	var role model.Role
	err := s.facade.Get(ctx, backends.ServiceAuth, rolesEndpoint+"/"+id, nil, &role)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения роли: %w", err)
	}
	return &role, nil
}

// Create создаёт роль.
func (s *RoleService) Create(ctx context.Context, req model.CreateRoleRequest) (*model.Role, error) {
	var role model.Role
	err := s.facade.Post(ctx, backends.ServiceAuth, rolesEndpoint, req, nil, &role)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания роли: %w", err)
	}

	s.logger.Info("Создана роль",
		slog.String("role_id", role.ID),
		slog.String("name", role.Name),
	)
	return &role, nil
}

// Update обновляет роль.
func (s *RoleService) Update(ctx context.Context, id string, req model.UpdateRoleRequest) (*model.Role, error) {
	var role model.Role
	err := s.facade.Put(ctx, backends.ServiceAuth, rolesEndpoint+"/"+id, req, nil, &role)
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления роли: %w", err)
	}
	return &role, nil
}

// Delete удаляет роль.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	err := s.facade.Delete(ctx, backends.ServiceAuth, rolesEndpoint+"/"+id, nil, nil)
	if err != nil {
		return fmt.Errorf("ошибка удаления роли: %w", err)
	}
	return nil
}

// Permissions возвращает полный список прав.
func (s *RoleService) Permissions(ctx context.Context) ([]model.Permission, error) {
	var permissions []model.Permission
	err := s.facade.Get(ctx, backends.ServiceAuth, rolesPermissionsEndpoint, nil, &permissions)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка прав: %w", err)
	}
	return permissions, nil
}
