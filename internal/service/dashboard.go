// dashboard.go — сводная статистика дашборда.
// Два независимых документа статистики загружаются параллельно, месячные
// ряды объединяются по паре (месяц, год).
package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ashirdev/ashare/admin-gateway/internal/backends"
	"github.com/ashirdev/ashare/admin-gateway/internal/domain/model"
)

// Endpoint-пути статистики дашборда.
const (
	dashboardOffersStatsEndpoint = "/api/Dashboard/offers-statistics"
	dashboardUsersStatsEndpoint  = "/api/Dashboard/users-statistics"
)

// DashboardService — агрегация статистики дашборда.
type DashboardService struct {
	facade *backends.Facade
	logger *slog.Logger
}

// NewDashboardService создаёт сервис дашборда.
func NewDashboardService(facade *backends.Facade, logger *slog.Logger) *DashboardService {
	return &DashboardService{
		facade: facade,
		logger: logger.With(slog.String("component", "dashboard_service")),
	}
}

// Statistics загружает статистику объявлений (offers-manager) и
// пользователей (profiles-сервис) параллельно и объединяет их.
func (s *DashboardService) Statistics(ctx context.Context) (*model.DashboardStatistics, error) {
	var offerStats model.OfferStatistics
	var userStats model.AppUserStatistics

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.facade.Get(gctx, backends.ServiceOffersManager, dashboardOffersStatsEndpoint, nil, &offerStats)
	})
	g.Go(func() error {
		return s.facade.Get(gctx, backends.ServiceUserProfiles, dashboardUsersStatsEndpoint, nil, &userStats)
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ошибка загрузки статистики дашборда: %w", err)
	}

	return &model.DashboardStatistics{
		TotalOffers:    offerStats.TotalOffers,
		ActiveOffers:   offerStats.ActiveOffers,
		InactiveOffers: offerStats.InactiveOffers,
		TotalUsers:     userStats.TotalUsers,
		ActiveUsers:    userStats.ActiveUsers,
		MonthlyData:    mergeMonthly(offerStats.MonthlyData, userStats.MonthlyData),
		RecentOffers:   offerStats.RecentOffers,
	}, nil
}

// mergeMonthly объединяет месячные ряды по паре (месяц, год).
// Счётчик без пары даёт ноль; выручку backend не отдаёт — всегда ноль.
// Месяцы пользователей без пары в ряду объявлений добавляются в конец.
func mergeMonthly(offers []model.MonthlyOffers, users []model.MonthlyUsers) []model.MonthlyPoint {
	type monthKey struct {
		month string
		year  int
	}

	usersByMonth := make(map[monthKey]int, len(users))
	for _, u := range users {
		usersByMonth[monthKey{u.Month, u.Year}] = u.UsersCount
	}

	merged := make([]model.MonthlyPoint, 0, len(offers))
	seen := make(map[monthKey]bool, len(offers))

	for _, o := range offers {
		key := monthKey{o.Month, o.Year}
		seen[key] = true
		merged = append(merged, model.MonthlyPoint{
			Month:   o.Month,
			Year:    o.Year,
			Offers:  o.OffersCount,
			Users:   usersByMonth[key],
			Revenue: 0,
		})
	}

	for _, u := range users {
		key := monthKey{u.Month, u.Year}
		if seen[key] {
			continue
		}
		merged = append(merged, model.MonthlyPoint{
			Month:   u.Month,
			Year:    u.Year,
			Offers:  0,
			Users:   u.UsersCount,
			Revenue: 0,
		})
	}

	return merged
}
