package model

import "time"

// Permission — право доступа в формате resourceType.action (users.read).
type Permission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	// ResourceType — тип ресурса (users, roles, offers)
	ResourceType string `json:"resourceType"`
	// Action — действие над ресурсом (read, create, update, delete)
	Action string `json:"action"`
}

// Role — роль с набором прав.
type Role struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Permissions []Permission `json:"permissions,omitempty"`
	// UsersCount — количество пользователей с этой ролью
	UsersCount int `json:"usersCount"`
	// IsSystemRole — системная роль, недоступная для удаления
	IsSystemRole bool      `json:"isSystemRole"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RolePage — страница списка ролей.
// Форма ответа auth-сервиса для ролей: элементы в поле data.
type RolePage struct {
	Data            []Role `json:"data"`
	TotalCount      int    `json:"totalCount"`
	PageNumber      int    `json:"pageNumber"`
	PageSize        int    `json:"pageSize"`
	TotalPages      int    `json:"totalPages"`
	HasNextPage     bool   `json:"hasNextPage"`
	HasPreviousPage bool   `json:"hasPreviousPage"`
}

// CreateRoleRequest — создание роли.
type CreateRoleRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	PermissionIDs []string `json:"permissionIds,omitempty"`
}

// UpdateRoleRequest — обновление роли.
type UpdateRoleRequest struct {
	Name          string   `json:"name,omitempty"`
	Description   string   `json:"description,omitempty"`
	PermissionIDs []string `json:"permissionIds,omitempty"`
}
