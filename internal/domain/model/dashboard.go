package model

// MonthlyPoint — точка объединённого месячного ряда дашборда.
// Несопоставленные счётчики равны нулю; выручка backend не отдаёт.
type MonthlyPoint struct {
	Month   string  `json:"month"`
	Year    int     `json:"year"`
	Offers  int     `json:"offers"`
	Users   int     `json:"users"`
	Revenue float64 `json:"revenue"`
}

// DashboardStatistics — сводная статистика дашборда: статистика
// объявлений и пользователей, объединённая по месяцам.
type DashboardStatistics struct {
	TotalOffers    int            `json:"totalOffers"`
	ActiveOffers   int            `json:"activeOffers"`
	InactiveOffers int            `json:"inactiveOffers"`
	TotalUsers     int            `json:"totalUsers"`
	ActiveUsers    int            `json:"activeUsers"`
	MonthlyData    []MonthlyPoint `json:"monthlyData"`
	RecentOffers   []Offer        `json:"recentOffers,omitempty"`
}
