// app_users.go — операции над пользователями приложения (profiles-сервис).
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

// Endpoint-пути пользователей приложения (profiles-сервис).
const (
	appUsersEndpoint           = "/api/admin/users"
	appUsersStatisticsEndpoint = "/api/admin/users/statistics"
)

// AppUserService — сервис пользователей приложения.
type AppUserService struct {
	facade *backends.Facade
	logger *slog.Logger
}

// NewAppUserService создаёт сервис пользователей приложения.
func NewAppUserService(facade *backends.Facade, logger *slog.Logger) *AppUserService {
	return &AppUserService{
		facade: facade,
		logger: logger.With(slog.String("component", "app_users_service")),
	}
}

// List возвращает страницу пользователей приложения.
// searchTerm и isActive — необязательные фильтры, пустые значения
// не передаются в backend.
func (s *AppUserService) List(ctx context.Context, page, pageSize int, searchTerm string, isActive *bool) (*model.AppUserPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))
	if searchTerm != "" {
		query.Set("searchTerm", searchTerm)
	}
	if isActive != nil {
		query.Set("isActive", strconv.FormatBool(*isActive))
	}

	var result model.AppUserPage
	err := s.facade.Get(ctx, backends.ServiceUserProfiles, appUsersEndpoint,
		&backends.CallOptions{Query: query}, &result)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка пользователей приложения: %w", err)
	}
	return &result, nil
}

// Get возвращает пользователя приложения по id.
func (s *AppUserService) Get(ctx context.Context, id string) (*model.AppUser, error) {
	var user model.AppUser
	err := s.facade.Get(ctx, backends.ServiceUserProfiles, appUsersEndpoint+"/"+id, nil, &user)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пользователя приложения: %w", err)
	}
	return &user, nil
}

// Delete удаляет пользователя приложения.
func (s *AppUserService) Delete(ctx context.Context, id string) error {
	err := s.facade.Delete(ctx, backends.ServiceUserProfiles, appUsersEndpoint+"/"+id, nil, nil)
	if err != nil {
		return fmt.Errorf("ошибка удаления пользователя приложения: %w", err)
	}
	return nil
}

// ToggleStatus переключает активность пользователя приложения.
func (s *AppUserService) ToggleStatus(ctx context.Context, id string) error {
	err := s.facade.Patch(ctx, backends.ServiceUserProfiles, appUsersEndpoint+"/"+id+"/toggle-status", nil, nil, nil)
	if err != nil {
		return fmt.Errorf("ошибка переключения статуса пользователя: %w", err)
	}
	return nil
}

// ConfirmEmail подтверждает email пользователя.
func (s *AppUserService) ConfirmEmail(ctx context.Context, id string) error {
	err := s.facade.Post(ctx, backends.ServiceUserProfiles, appUsersEndpoint+"/"+id+"/confirm-email", nil, nil, nil)
	if err != nil {
		return fmt.Errorf("ошибка подтверждения email: %w", err)
	}
	return nil
}

// ConfirmPhone подтверждает телефон пользователя.
func (s *AppUserService) ConfirmPhone(ctx context.Context, id string) error {
	err := s.facade.Post(ctx, backends.ServiceUserProfiles, appUsersEndpoint+"/"+id+"/confirm-phone", nil, nil, nil)
	if err != nil {
		return fmt.Errorf("ошибка подтверждения телефона: %w", err)
	}
	return nil
}

// Statistics возвращает статистику пользователей приложения.
func (s *AppUserService) Statistics(ctx context.Context) (*model.AppUserStatistics, error) {
	var stats model.AppUserStatistics
	err := s.facade.Get(ctx, backends.ServiceUserProfiles, appUsersStatisticsEndpoint, nil, &stats)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения статистики пользователей приложения: %w", err)
	}
	return &stats, nil
}
