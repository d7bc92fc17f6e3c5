// lookups.go — контейнер состояния справочников.
package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ashirdev/ashare/admin-gateway/internal/domain/model"
	"github.com/ashirdev/ashare/admin-gateway/internal/service"
)

// LookupStore — загруженные справочники объявлений.
type LookupStore struct {
	mu  sync.Mutex
	svc *service.LookupService
	log *slog.Logger

	lookups *model.Lookups
	loading bool
	err     string
}

// NewLookupStore создаёт контейнер справочников.
func NewLookupStore(svc *service.LookupService, logger *slog.Logger) *LookupStore {
	return &LookupStore{
		svc: svc,
		log: logger.With(slog.String("component", "lookups_store")),
	}
}

// Fetch загружает все справочники одним действием.
func (s *LookupStore) Fetch(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	lookups, err := s.svc.LoadAll(ctx)
	if err != nil {
		s.mu.Lock()
		s.err = errorMessage(err, "Не удалось загрузить справочники")
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.lookups = lookups
	s.mu.Unlock()
	return nil
}

// CreateItem создаёт запись справочника; новая запись встаёт в конец
// своей таблицы.
func (s *LookupStore) CreateItem(ctx context.Context, table, name string) (*model.LookupItem, error) {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()

	item, err := s.svc.CreateItem(ctx, table, name)
	if err != nil {
		s.mu.Lock()
		s.err = errorMessage(err, "Не удалось создать запись справочника")
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	if items := s.tableItemsLocked(table); items != nil {
		*items = append(*items, *item)
	}
	s.mu.Unlock()
	return item, nil
}

// UpdateItem переименовывает запись справочника в backend и в загруженной
// таблице.
func (s *LookupStore) UpdateItem(ctx context.Context, table string, id int, name string) error {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()

	if err := s.svc.UpdateItem(ctx, table, id, name); err != nil {
		s.mu.Lock()
		s.err = errorMessage(err, "Не удалось обновить запись справочника")
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	if items := s.tableItemsLocked(table); items != nil {
		for i := range *items {
			if (*items)[i].ID == id {
				(*items)[i].Name = name
				break
			}
		}
	}
	s.mu.Unlock()
	return nil
}

// DeleteItem удаляет запись справочника из backend и из загруженной
// таблицы.
func (s *LookupStore) DeleteItem(ctx context.Context, table string, id int) error {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()

	if err := s.svc.DeleteItem(ctx, table, id); err != nil {
		s.mu.Lock()
		s.err = errorMessage(err, "Не удалось удалить запись справочника")
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	if items := s.tableItemsLocked(table); items != nil {
		for i := range *items {
			if (*items)[i].ID == id {
				*items = append((*items)[:i], (*items)[i+1:]...)
				break
			}
		}
	}
	s.mu.Unlock()
	return nil
}

// tableItemsLocked возвращает таблицу справочника внутри загруженного
// набора или nil, если набор ещё не загружен. Вызывается под мьютексом.
func (s *LookupStore) tableItemsLocked(table string) *[]model.LookupItem {
	if s.lookups == nil {
		return nil
	}
	switch table {
	case "offer-types":
		return &s.lookups.OfferTypes
	case "unit-types":
		return &s.lookups.UnitTypes
	case "time-units":
		return &s.lookups.TimeUnits
	case "offer-features":
		return &s.lookups.OfferFeatures
	case "floors":
		return &s.lookups.Floors
	case "property-types":
		return &s.lookups.PropertyTypes
	}
	return nil
}

// Invalidate сбрасывает загруженные справочники и кэш сервиса.
func (s *LookupStore) Invalidate() {
	s.svc.InvalidateCache()
	s.mu.Lock()
	s.lookups = nil
	s.mu.Unlock()
}

// Lookups возвращает копию загруженных справочников или nil.
func (s *LookupStore) Lookups() *model.Lookups {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookups == nil {
		return nil
	}
	lookups := *s.lookups
	return &lookups
}

// Loading сообщает, выполняется ли загрузка.
func (s *LookupStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err возвращает текст последней ошибки загрузки.
func (s *LookupStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
