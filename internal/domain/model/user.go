package model

import "time"

// AdminUser — административный пользователь auth-сервиса.
type AdminUser struct {
	// ID — идентификатор пользователя
	ID string `json:"id"`
	// Email — адрес электронной почты
	Email string `json:"email"`
	// FullName — полное имя
	FullName string `json:"fullName"`
	// IsActive — активен ли аккаунт
	IsActive bool `json:"isActive"`
	// LastLoginAt — время последнего входа (nil если не входил)
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	// RoleID — идентификатор роли
	RoleID string `json:"roleId"`
	// RoleName — денормализованное имя роли
	RoleName  string    `json:"roleName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AdminUserPage — страница списка административных пользователей.
// Форма ответа auth-сервиса: элементы в поле items.
type AdminUserPage struct {
	Items           []AdminUser `json:"items"`
	TotalCount      int         `json:"totalCount"`
	PageNumber      int         `json:"pageNumber"`
	PageSize        int         `json:"pageSize"`
	TotalPages      int         `json:"totalPages"`
	HasNextPage     bool        `json:"hasNextPage"`
	HasPreviousPage bool        `json:"hasPreviousPage"`
}

// CreateAdminUserRequest — создание административного пользователя.
type CreateAdminUserRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
	RoleID   string `json:"roleId"`
}

// UpdateAdminUserRequest — обновление административного пользователя.
type UpdateAdminUserRequest struct {
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
	RoleID   string `json:"roleId,omitempty"`
}

// BulkUserIDsRequest — массовая операция над пользователями по списку id.
type BulkUserIDsRequest struct {
	UserIDs []string `json:"userIds"`
}

// BulkAssignRoleRequest — массовое назначение роли.
type BulkAssignRoleRequest struct {
	UserIDs []string `json:"userIds"`
	RoleID  string   `json:"roleId"`
}

// AdminUserStatistics — статистика административных пользователей.
type AdminUserStatistics struct {
	TotalUsers        int `json:"totalUsers"`
	ActiveUsers       int `json:"activeUsers"`
	InactiveUsers     int `json:"inactiveUsers"`
	NewUsersThisMonth int `json:"newUsersThisMonth"`
}
