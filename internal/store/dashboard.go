// dashboard.go — контейнер состояния дашборда.
package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ashirdev/ashare/admin-gateway/internal/domain/model"
	"github.com/ashirdev/ashare/admin-gateway/internal/service"
)

// DashboardStore — загруженная сводная статистика дашборда.
type DashboardStore struct {
	mu  sync.Mutex
	svc *service.DashboardService
	log *slog.Logger

	statistics *model.DashboardStatistics
	loading    bool
	err        string
}

// NewDashboardStore создаёт контейнер дашборда.
func NewDashboardStore(svc *service.DashboardService, logger *slog.Logger) *DashboardStore {
	return &DashboardStore{
		svc: svc,
		log: logger.With(slog.String("component", "dashboard_store")),
	}
}

// Fetch загружает сводную статистику.
func (s *DashboardStore) Fetch(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	stats, err := s.svc.Statistics(ctx)
	if err != nil {
		s.mu.Lock()
		s.err = errorMessage(err, "Не удалось загрузить статистику дашборда")
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.statistics = stats
	s.mu.Unlock()
	return nil
}

// Statistics возвращает копию загруженной статистики или nil.
func (s *DashboardStore) Statistics() *model.DashboardStatistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statistics == nil {
		return nil
	}
	stats := *s.statistics
	return &stats
}

// Loading сообщает, выполняется ли загрузка.
func (s *DashboardStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err возвращает текст последней ошибки загрузки.
func (s *DashboardStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
