package model

import "time"

// AppUser — пользователь приложения (profiles-сервис).
type AppUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	// EmailConfirmed — подтверждён ли email
	EmailConfirmed bool `json:"emailConfirmed"`
	// PhoneNumberConfirmed — подтверждён ли телефон
	PhoneNumberConfirmed bool      `json:"phoneNumberConfirmed"`
	IsActive             bool      `json:"isActive"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// AppUserPage — страница списка пользователей приложения.
// Форма ответа profiles-сервиса: элементы в поле items.
type AppUserPage struct {
	Items           []AppUser `json:"items"`
	TotalCount      int       `json:"totalCount"`
	PageNumber      int       `json:"pageNumber"`
	PageSize        int       `json:"pageSize"`
	TotalPages      int       `json:"totalPages"`
	HasNextPage     bool      `json:"hasNextPage"`
	HasPreviousPage bool      `json:"hasPreviousPage"`
}

// AppUserStatistics — статистика пользователей приложения.
type AppUserStatistics struct {
	TotalUsers        int            `json:"totalUsers"`
	ActiveUsers       int            `json:"activeUsers"`
	InactiveUsers     int            `json:"inactiveUsers"`
	NewUsersThisMonth int            `json:"newUsersThisMonth"`
	MonthlyData       []MonthlyUsers `json:"monthlyData,omitempty"`
}

// MonthlyUsers — количество новых пользователей за месяц.
type MonthlyUsers struct {
	Month      string `json:"month"`
	Year       int    `json:"year"`
	UsersCount int    `json:"usersCount"`
}
