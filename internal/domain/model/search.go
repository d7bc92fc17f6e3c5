package model

// Операторы фильтров умного поиска.
const (
	FilterOpEquals      = "equals"
	FilterOpNotEquals   = "notEquals"
	FilterOpContains    = "contains"
	FilterOpStartsWith  = "startsWith"
	FilterOpGreaterThan = "greaterThan"
	FilterOpLessThan    = "lessThan"
)

// FilterItem — один фильтр умного поиска.
type FilterItem struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// SmartSearchRequest — тело POST-запроса /search backend-сервисов.
type SmartSearchRequest struct {
	SearchTerm     string       `json:"searchTerm,omitempty"`
	Page           int          `json:"page"`
	PageSize       int          `json:"pageSize"`
	SortBy         string       `json:"sortBy,omitempty"`
	SortDescending bool         `json:"sortDescending"`
	Filters        []FilterItem `json:"filters,omitempty"`
}
