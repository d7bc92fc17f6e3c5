// Пакет service — доменные сервисы административного шлюза.
// admin_users.go — операции над административными пользователями auth-сервиса.
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

// Endpoint-пути административных пользователей (auth-сервис).
const (
	adminUsersEndpoint           = "/api/admin-users"
	adminUsersSearchEndpoint     = "/api/admin-users/search"
	adminUsersStatisticsEndpoint = "/api/admin-users/statistics"
)

// AdminUserService — сервис управления административными пользователями.
// Каждый метод — прямое отображение на endpoint auth-сервиса.
type AdminUserService struct {
	facade *backends.Facade
	logger *slog.Logger
}

// NewAdminUserService создаёт сервис административных пользователей.
func NewAdminUserService(facade *backends.Facade, logger *slog.Logger) *AdminUserService {
	return &AdminUserService{
		facade: facade,
		logger: logger.With(slog.String("component", "admin_users_service")),
	}
}

// List возвращает страницу пользователей.
func (s *AdminUserService) List(ctx context.Context, page, pageSize int) (*model.AdminUserPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))

	var result model.AdminUserPage
	err := s.facade.Get(ctx, backends.ServiceAuth, adminUsersEndpoint,
		&backends.CallOptions{Query: query}, &result)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка пользователей: %w", err)
	}
	return &result, nil
}

// Search выполняет умный поиск пользователей.
func (s *AdminUserService) Search(ctx context.Context, req model.SmartSearchRequest) (*model.AdminUserPage, error) {
	var result model.AdminUserPage
	err := s.facade.Post(ctx, backends.ServiceAuth, adminUsersSearchEndpoint, req, nil, &result)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска пользователей: %w", err)
	}
	return &result, nil
}

// Get возвращает пользователя по id.
func (s *AdminUserService) Get(ctx context.Context, id string) (*model.AdminUser, error) {
	var user model.AdminUser
	err := s.facade.Get(ctx, backends.ServiceAuth, adminUsersEndpoint+"/"+id, nil, &user)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	return &user, nil
}

// Create создаёт пользователя.
func (s *AdminUserService) Create(ctx context.Context, req model.CreateAdminUserRequest) (*model.AdminUser, error) {
	var user model.AdminUser
	err := s.facade.Post(ctx, backends.ServiceAuth, adminUsersEndpoint, req, nil, &user)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	s.logger.Info("Создан административный пользователь",
		slog.String("user_id", user.ID),
	)
	return &user, nil
}

// Update обновляет пользователя.
func (s *AdminUserService) Update(ctx context.Context, id string, req model.UpdateAdminUserRequest) (*model.AdminUser, error) {
	var user model.AdminUser
	err := s.facade.Put(ctx, backends.ServiceAuth, adminUsersEndpoint+"/"+id, req, nil, &user)
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления пользователя: %w", err)
	}
	return &user, nil
}

// Delete удаляет пользователя.
func (s *AdminUserService) Delete(ctx context.Context, id string) error {
	err := s.facade.Delete(ctx, backends.ServiceAuth, adminUsersEndpoint+"/"+id, nil, nil)
	if err != nil {
		return fmt.Errorf("ошибка удаления пользователя: %w", err)
	}
	return nil
}

// Activate активирует пользователя.
func (s *AdminUserService) Activate(ctx context.Context, id string) error {
	err := s.facade.Post(ctx, backends.ServiceAuth, adminUsersEndpoint+"/"+id+"/activate", nil, nil, nil)
	if err != nil {
		return fmt.Errorf("ошибка активации пользователя: %w", err)
	}
	return nil
}

// Deactivate деактивирует пользователя.
func (s *AdminUserService) Deactivate(ctx context.Context, id string) error {
	err := s.facade.Post(ctx, backends.ServiceAuth, adminUsersEndpoint+"/"+id+"/deactivate", nil, nil, nil)
	if err != nil {
		return fmt.Errorf("ошибка деактивации пользователя: %w", err)
	}
	return nil
}

// ResetPassword сбрасывает пароль пользователя.
func (s *AdminUserService) ResetPassword(ctx context.Context, id string, req model.ResetPasswordRequest) error {
	err := s.facade.Post(ctx, backends.ServiceAuth, adminUsersEndpoint+"/"+id+"/reset-password", req, nil, nil)
	if err != nil {
		return fmt.Errorf("ошибка сброса пароля: %w", err)
	}
	return nil
}

// Restore восстанавливает удалённого пользователя.
func (s *AdminUserService) Restore(ctx context.Context, id string) error {
	err := s.facade.Post(ctx, backends.ServiceAuth, adminUsersEndpoint+"/"+id+"/restore", nil, nil, nil)
	if err != nil {
		return fmt.Errorf("ошибка восстановления пользователя: %w", err)
	}
	return nil
}

// Statistics возвращает статистику пользователей.
func (s *AdminUserService) Statistics(ctx context.Context) (*model.AdminUserStatistics, error) {
	var stats model.AdminUserStatistics
	err := s.facade.Get(ctx, backends.ServiceAuth, adminUsersStatisticsEndpoint, nil, &stats)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения статистики пользователей: %w", err)
	}
	return &stats, nil
}

// BulkActivate активирует пользователей списком.
func (s *AdminUserService) BulkActivate(ctx context.Context, ids []string) error {
	return s.bulk(ctx, "bulk-activate", ids)
}

// BulkDeactivate деактивирует пользователей списком.
func (s *AdminUserService) BulkDeactivate(ctx context.Context, ids []string) error {
	return s.bulk(ctx, "bulk-deactivate", ids)
}

// BulkDelete удаляет пользователей списком.
func (s *AdminUserService) BulkDelete(ctx context.Context, ids []string) error {
	return s.bulk(ctx, "bulk-delete", ids)
}

// BulkRestore восстанавливает пользователей списком.
func (s *AdminUserService) BulkRestore(ctx context.Context, ids []string) error {
	return s.bulk(ctx, "bulk-restore", ids)
}

// BulkAssignRole назначает роль пользователям списком.
func (s *AdminUserService) BulkAssignRole(ctx context.Context, ids []string, roleID string) error {
	req := model.BulkAssignRoleRequest{UserIDs: ids, RoleID: roleID}
	err := s.facade.Post(ctx, backends.ServiceAuth, adminUsersEndpoint+"/bulk-assign-role", req, nil, nil)
	if err != nil {
		return fmt.Errorf("ошибка массового назначения роли: %w", err)
	}
	return nil
}

// bulk выполняет массовую операцию op над списком пользователей.
func (s *AdminUserService) bulk(ctx context.Context, op string, ids []string) error {
	req := model.BulkUserIDsRequest{UserIDs: ids}
	err := s.facade.Post(ctx, backends.ServiceAuth, adminUsersEndpoint+"/"+op, req, nil, nil)
	if err != nil {
		return fmt.Errorf("ошибка массовой операции %s: %w", op, err)
	}
	return nil
}
