// auth.go — сервис аутентификации: вход, выход, обновление токенов.
// После входа токены и информация о пользователе сохраняются в
// персистентное хранилище учётных данных сессии.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ashirdev/ashare/admin-gateway/internal/backends"
	"github.com/ashirdev/ashare/admin-gateway/internal/credstore"
	"github.com/ashirdev/ashare/admin-gateway/internal/domain/model"
)

// Endpoint-пути auth-сервиса.
const (
	authLoginEndpoint          = "/api/Auth/login"
	authLogoutEndpoint         = "/api/auth/logout"
	authRefreshEndpoint        = "/api/auth/refresh"
	authMeEndpoint             = "/api/auth/me"
	authChangePasswordEndpoint = "/api/auth/change-password"
)

// AuthService — операции аутентификации через auth-сервис.
type AuthService struct {
	facade *backends.Facade
	creds  *credstore.Store
	logger *slog.Logger
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(facade *backends.Facade, creds *credstore.Store, logger *slog.Logger) *AuthService {
	return &AuthService{
		facade: facade,
		creds:  creds,
		logger: logger.With(slog.String("component", "auth_service")),
	}
}

// Login выполняет вход (без токена) и сохраняет полученные учётные
// данные под тремя фиксированными ключами сессии.
func (s *AuthService) Login(ctx context.Context, sessionID uuid.UUID, req model.LoginRequest) (*model.LoginResponse, error) {
	var resp model.LoginResponse
	err := s.facade.Post(ctx, backends.ServiceAuth, authLoginEndpoint, req,
		&backends.CallOptions{SkipAuth: true}, &resp)
	if err != nil {
		return nil, fmt.Errorf("ошибка входа: %w", err)
	}

	if err := s.saveCredentials(ctx, sessionID, &resp); err != nil {
		return nil, err
	}

	s.logger.Info("Пользователь вошёл в систему",
		slog.String("user_id", resp.User.ID),
	)

	return &resp, nil
}

// Refresh обновляет токены по refresh token и сохраняет новые значения.
func (s *AuthService) Refresh(ctx context.Context, sessionID uuid.UUID) (*model.LoginResponse, error) {
	refreshToken, err := s.creds.Get(ctx, sessionID, credstore.KeyRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения refresh token: %w", err)
	}
	if refreshToken == "" {
		return nil, backends.ErrUnauthenticated
	}

	var resp model.LoginResponse
	err = s.facade.Post(ctx, backends.ServiceAuth, authRefreshEndpoint,
		model.RefreshRequest{RefreshToken: refreshToken},
		&backends.CallOptions{SkipAuth: true}, &resp)
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления токенов: %w", err)
	}

	if err := s.saveCredentials(ctx, sessionID, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Logout завершает сессию. Запрос к backend — best-effort: его ошибка
// логируется, но учётные данные очищаются в любом случае.
func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.facade.Post(ctx, backends.ServiceAuth, authLogoutEndpoint, nil, nil, nil); err != nil {
		s.logger.Warn("Ошибка запроса logout к auth-сервису",
			slog.String("error", err.Error()),
		)
	}

	if err := s.creds.RemoveAll(ctx, sessionID); err != nil {
		return fmt.Errorf("ошибка очистки учётных данных: %w", err)
	}

	s.logger.Info("Пользователь вышел из системы")
	return nil
}

// Me возвращает информацию о текущем пользователе.
func (s *AuthService) Me(ctx context.Context) (*model.UserInfo, error) {
	var info model.UserInfo
	if err := s.facade.Get(ctx, backends.ServiceAuth, authMeEndpoint, nil, &info); err != nil {
		return nil, fmt.Errorf("ошибка получения профиля: %w", err)
	}
	return &info, nil
}

// ChangePassword меняет пароль текущего пользователя.
func (s *AuthService) ChangePassword(ctx context.Context, req model.ChangePasswordRequest) error {
	if err := s.facade.Post(ctx, backends.ServiceAuth, authChangePasswordEndpoint, req, nil, nil); err != nil {
		return fmt.Errorf("ошибка смены пароля: %w", err)
	}
	return nil
}

// saveCredentials записывает токены и информацию о пользователе
// в хранилище учётных данных.
func (s *AuthService) saveCredentials(ctx context.Context, sessionID uuid.UUID, resp *model.LoginResponse) error {
	if err := s.creds.Set(ctx, sessionID, credstore.KeyAuthToken, resp.AccessToken); err != nil {
		return err
	}
	if err := s.creds.Set(ctx, sessionID, credstore.KeyRefreshToken, resp.RefreshToken); err != nil {
		return err
	}

	userInfo, err := json.Marshal(resp.User)
	if err != nil {
		return fmt.Errorf("ошибка сериализации информации о пользователе: %w", err)
	}
	return s.creds.Set(ctx, sessionID, credstore.KeyUserInfo, string(userInfo))
}
