// lookups.go — справочники объявлений с TTL-кэшем.
// Справочники меняются редко, поэтому ответы offers-manager кэшируются
// в expirable LRU; LoadAll загружает все шесть справочников параллельно.
// Каждая таблица редактируется отдельно, изменение сбрасывает её кэш.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"github.com/ashirdev/ashare/admin-gateway/internal/backends"
	"github.com/ashirdev/ashare/admin-gateway/internal/domain/model"
)

// Endpoint-пути справочников (offers-manager).
const (
	lookupOfferTypesEndpoint    = "/api/admin/offer-types"
	lookupUnitTypesEndpoint     = "/api/admin/unit-types"
	lookupTimeUnitsEndpoint     = "/api/admin/time-units"
	lookupOfferFeaturesEndpoint = "/api/admin/offer-features"
	lookupFloorsEndpoint        = "/api/admin/floors"
	lookupPropertyTypesEndpoint = "/api/admin/property-types"
)

// lookupTable — ключ кэша и endpoint одной таблицы справочника.
type lookupTable struct {
	cacheKey string
	endpoint string
}

// lookupTables — таблицы справочников по имени из URL.
var lookupTables = map[string]lookupTable{
	"offer-types":    {"offer_types", lookupOfferTypesEndpoint},
	"unit-types":     {"unit_types", lookupUnitTypesEndpoint},
	"time-units":     {"time_units", lookupTimeUnitsEndpoint},
	"offer-features": {"offer_features", lookupOfferFeaturesEndpoint},
	"floors":         {"floors", lookupFloorsEndpoint},
	"property-types": {"property_types", lookupPropertyTypesEndpoint},
}

// Метрики кэша справочников.
var (
	lookupCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ag_lookup_cache_hits_total",
		Help: "Количество попаданий в кэш справочников",
	})
	lookupCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ag_lookup_cache_misses_total",
		Help: "Количество промахов кэша справочников",
	})
)

// LookupService — сервис справочников с кэшированием.
type LookupService struct {
	facade *backends.Facade
	cache  *expirable.LRU[string, []model.LookupItem]
	logger *slog.Logger
}

// NewLookupService создаёт сервис справочников.
// size — ёмкость LRU, ttl — время жизни записей.
func NewLookupService(facade *backends.Facade, size int, ttl time.Duration, logger *slog.Logger) *LookupService {
	return &LookupService{
		facade: facade,
		cache:  expirable.NewLRU[string, []model.LookupItem](size, nil, ttl),
		logger: logger.With(slog.String("component", "lookups_service")),
	}
}

// OfferTypes возвращает справочник типов объявлений.
func (s *LookupService) OfferTypes(ctx context.Context) ([]model.LookupItem, error) {
	return s.load(ctx, "offer_types", lookupOfferTypesEndpoint)
}

// UnitTypes возвращает справочник типов единиц.
func (s *LookupService) UnitTypes(ctx context.Context) ([]model.LookupItem, error) {
	return s.load(ctx, "unit_types", lookupUnitTypesEndpoint)
}

// TimeUnits возвращает справочник единиц времени.
func (s *LookupService) TimeUnits(ctx context.Context) ([]model.LookupItem, error) {
	return s.load(ctx, "time_units", lookupTimeUnitsEndpoint)
}

// OfferFeatures возвращает справочник характеристик объявлений.
func (s *LookupService) OfferFeatures(ctx context.Context) ([]model.LookupItem, error) {
	return s.load(ctx, "offer_features", lookupOfferFeaturesEndpoint)
}

// Floors возвращает справочник этажей.
func (s *LookupService) Floors(ctx context.Context) ([]model.LookupItem, error) {
	return s.load(ctx, "floors", lookupFloorsEndpoint)
}

// PropertyTypes возвращает справочник типов недвижимости.
func (s *LookupService) PropertyTypes(ctx context.Context) ([]model.LookupItem, error) {
	return s.load(ctx, "property_types", lookupPropertyTypesEndpoint)
}

// LoadAll загружает все шесть справочников параллельно.
func (s *LookupService) LoadAll(ctx context.Context) (*model.Lookups, error) {
	result := &model.Lookups{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := s.OfferTypes(gctx)
		result.OfferTypes = items
		return err
	})
	g.Go(func() error {
		items, err := s.UnitTypes(gctx)
		result.UnitTypes = items
		return err
	})
	g.Go(func() error {
		items, err := s.TimeUnits(gctx)
		result.TimeUnits = items
		return err
	})
	g.Go(func() error {
		items, err := s.OfferFeatures(gctx)
		result.OfferFeatures = items
		return err
	})
	g.Go(func() error {
		items, err := s.Floors(gctx)
		result.Floors = items
		return err
	})
	g.Go(func() error {
		items, err := s.PropertyTypes(gctx)
		result.PropertyTypes = items
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ошибка загрузки справочников: %w", err)
	}
	return result, nil
}

// CreateItem создаёт запись справочника table и сбрасывает его кэш.
func (s *LookupService) CreateItem(ctx context.Context, table, name string) (*model.LookupItem, error) {
	t, ok := lookupTables[table]
	if !ok {
		return nil, fmt.Errorf("%w: неизвестный справочник %q", ErrValidation, table)
	}
	if name == "" {
		return nil, ErrLookupNameRequired
	}

	var item model.LookupItem
	err := s.facade.Post(ctx, backends.ServiceOffersManager, t.endpoint,
		model.CreateLookupItemRequest{Name: name}, nil, &item)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания записи справочника %s: %w", table, err)
	}

	s.cache.Remove(t.cacheKey)
	s.logger.Info("Запись справочника создана",
		slog.String("table", table),
		slog.Int("id", item.ID),
	)
	return &item, nil
}

// UpdateItem переименовывает запись справочника и сбрасывает его кэш.
func (s *LookupService) UpdateItem(ctx context.Context, table string, id int, name string) error {
	t, ok := lookupTables[table]
	if !ok {
		return fmt.Errorf("%w: неизвестный справочник %q", ErrValidation, table)
	}
	if name == "" {
		return ErrLookupNameRequired
	}

	err := s.facade.Put(ctx, backends.ServiceOffersManager, t.endpoint+"/"+strconv.Itoa(id),
		model.UpdateLookupItemRequest{Name: name}, nil, nil)
	if err != nil {
		return fmt.Errorf("ошибка обновления записи справочника %s: %w", table, err)
	}

	s.cache.Remove(t.cacheKey)
	return nil
}

// DeleteItem удаляет запись справочника и сбрасывает его кэш.
func (s *LookupService) DeleteItem(ctx context.Context, table string, id int) error {
	t, ok := lookupTables[table]
	if !ok {
		return fmt.Errorf("%w: неизвестный справочник %q", ErrValidation, table)
	}

	err := s.facade.Delete(ctx, backends.ServiceOffersManager, t.endpoint+"/"+strconv.Itoa(id), nil, nil)
	if err != nil {
		return fmt.Errorf("ошибка удаления записи справочника %s: %w", table, err)
	}

	s.cache.Remove(t.cacheKey)
	return nil
}

// InvalidateCache очищает кэш справочников.
func (s *LookupService) InvalidateCache() {
	s.cache.Purge()
}

// load возвращает справочник из кэша или загружает его из offers-manager.
func (s *LookupService) load(ctx context.Context, name, endpoint string) ([]model.LookupItem, error) {
	if items, ok := s.cache.Get(name); ok {
		lookupCacheHits.Inc()
		return items, nil
	}
	lookupCacheMisses.Inc()

	var items []model.LookupItem
	if err := s.facade.Get(ctx, backends.ServiceOffersManager, endpoint, nil, &items); err != nil {
		return nil, fmt.Errorf("ошибка загрузки справочника %s: %w", name, err)
	}

	s.cache.Add(name, items)
	return items, nil
}
