// Пакет model — доменные модели административного шлюза.
// Записи зеркалируют представление backend-сервисов: инвариантов сверх
// «совпадает с текущим ответом backend» у них нет.
package model

import "time"

// LoginRequest — запрос входа.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse — ответ auth-сервиса на вход.
type LoginResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	User         UserInfo  `json:"user"`
}

// RefreshRequest — запрос обновления токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UserInfo — информация о вошедшем пользователе.
// Сериализуется в хранилище учётных данных под ключом user_info.
type UserInfo struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FullName    string   `json:"fullName"`
	RoleName    string   `json:"roleName"`
	Permissions []string `json:"permissions,omitempty"`
}

// ChangePasswordRequest — смена собственного пароля.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ResetPasswordRequest — сброс пароля администратором.
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}
