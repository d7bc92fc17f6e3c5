// offers.go — операции над объявлениями: список и поиск, создание
// через multipart с клиентской валидацией, переключение состояния.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/ashirdev/ashare/admin-gateway/internal/backends"
	"github.com/ashirdev/ashare/admin-gateway/internal/domain/model"
)

// Endpoint-пути объявлений.
const (
	offersAdminEndpoint      = "/api/admin/offers"
	offersSearchEndpoint     = "/api/admin/offers/search"
	offersStatisticsEndpoint = "/api/admin/offers/statistics"
	offersCreateEndpoint     = "/api/Offers/CreateOffer"
)

// Пределы медиафайлов объявления.
const (
	maxOfferImages = 10
	maxOfferVideos = 5
)

// OfferService — сервис управления объявлениями. Чтение и мутации идут
// в offers-manager, поиск — в offers-searcher.
type OfferService struct {
	facade *backends.Facade
	logger *slog.Logger
}

// NewOfferService создаёт сервис объявлений.
func NewOfferService(facade *backends.Facade, logger *slog.Logger) *OfferService {
	return &OfferService{
		facade: facade,
		logger: logger.With(slog.String("component", "offers_service")),
	}
}

// List возвращает страницу объявлений.
func (s *OfferService) List(ctx context.Context, page, pageSize int) (*model.OfferPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))

	var result model.OfferPage
	err := s.facade.Get(ctx, backends.ServiceOffersManager, offersAdminEndpoint,
		&backends.CallOptions{Query: query}, &result)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка объявлений: %w", err)
	}
	return &result, nil
}

// Search выполняет умный поиск объявлений через offers-searcher.
func (s *OfferService) Search(ctx context.Context, req model.SmartSearchRequest) (*model.OfferPage, error) {
	var result model.OfferPage
	err := s.facade.Post(ctx, backends.ServiceOffersSearcher, offersSearchEndpoint, req, nil, &result)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска объявлений: %w", err)
	}
	return &result, nil
}

// Get возвращает объявление по id.
func (s *OfferService) Get(ctx context.Context, id string) (*model.Offer, error) {
	var offer model.Offer
	err := s.facade.Get(ctx, backends.ServiceOffersManager, offersAdminEndpoint+"/"+id, nil, &offer)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения объявления: %w", err)
	}
	return &offer, nil
}

// Create создаёт объявление. Валидация выполняется до любого сетевого
// вызова; затем данные собираются в multipart-форму: скалярные поля
// строками, featureIds — JSON-строкой, файлы под полями images и videos
// с синтезированными именами.
func (s *OfferService) Create(ctx context.Context, input model.CreateOfferInput) (*model.Offer, error) {
	if err := validateOffer(input); err != nil {
		return nil, err
	}

	form, err := buildOfferForm(input)
	if err != nil {
		return nil, err
	}

	var offer model.Offer
	err = s.facade.PostMultipart(ctx, backends.ServiceOffersManager, offersCreateEndpoint, form, nil, &offer)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания объявления: %w", err)
	}

	s.logger.Info("Создано объявление",
		slog.String("offer_id", offer.ID),
		slog.Int("images", len(input.Images)),
		slog.Int("videos", len(input.Videos)),
	)
	return &offer, nil
}

// Delete удаляет объявление.
func (s *OfferService) Delete(ctx context.Context, id string) error {
	err := s.facade.Delete(ctx, backends.ServiceOffersManager, offersAdminEndpoint+"/"+id, nil, nil)
	if err != nil {
		return fmt.Errorf("ошибка удаления объявления: %w", err)
	}
	return nil
}

// ToggleStatus переключает активность объявления.
func (s *OfferService) ToggleStatus(ctx context.Context, id string) error {
	err := s.facade.Patch(ctx, backends.ServiceOffersManager, offersAdminEndpoint+"/"+id+"/toggle-status", nil, nil, nil)
	if err != nil {
		return fmt.Errorf("ошибка переключения статуса объявления: %w", err)
	}
	return nil
}

// Activate активирует объявление.
func (s *OfferService) Activate(ctx context.Context, id string) error {
	err := s.facade.Post(ctx, backends.ServiceOffersManager, offersAdminEndpoint+"/"+id+"/activate", nil, nil, nil)
	if err != nil {
		return fmt.Errorf("ошибка активации объявления: %w", err)
	}
	return nil
}

// Deactivate деактивирует объявление.
func (s *OfferService) Deactivate(ctx context.Context, id string) error {
	err := s.facade.Post(ctx, backends.ServiceOffersManager, offersAdminEndpoint+"/"+id+"/deactivate", nil, nil, nil)
	if err != nil {
		return fmt.Errorf("ошибка деактивации объявления: %w", err)
	}
	return nil
}

// Statistics возвращает статистику объявлений.
func (s *OfferService) Statistics(ctx context.Context) (*model.OfferStatistics, error) {
	var stats model.OfferStatistics
	err := s.facade.Get(ctx, backends.ServiceOffersManager, offersStatisticsEndpoint, nil, &stats)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения статистики объявлений: %w", err)
	}
	return &stats, nil
}

// BulkActivate активирует объявления списком.
func (s *OfferService) BulkActivate(ctx context.Context, ids []string) error {
	return s.bulk(ctx, "bulk-activate", ids)
}

// BulkDeactivate деактивирует объявления списком.
func (s *OfferService) BulkDeactivate(ctx context.Context, ids []string) error {
	return s.bulk(ctx, "bulk-deactivate", ids)
}

// BulkDelete удаляет объявления списком.
func (s *OfferService) BulkDelete(ctx context.Context, ids []string) error {
	return s.bulk(ctx, "bulk-delete", ids)
}

// bulk выполняет массовую операцию op над списком объявлений.
func (s *OfferService) bulk(ctx context.Context, op string, ids []string) error {
	req := model.BulkOfferIDsRequest{OfferIDs: ids}
	err := s.facade.Post(ctx, backends.ServiceOffersManager, offersAdminEndpoint+"/"+op, req, nil, nil)
	if err != nil {
		return fmt.Errorf("ошибка массовой операции %s: %w", op, err)
	}
	return nil
}

// validateOffer проверяет данные объявления до обращения к сети.
func validateOffer(input model.CreateOfferInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return ErrOfferTitleRequired
	}
	if strings.TrimSpace(input.Description) == "" {
		return ErrOfferDescriptionRequired
	}
	if input.Price <= 0 {
		return ErrOfferPriceInvalid
	}
	if len(input.Images) > maxOfferImages {
		return ErrOfferTooManyImages
	}
	if len(input.Videos) > maxOfferVideos {
		return ErrOfferTooManyVideos
	}
	return nil
}

// buildOfferForm собирает multipart-форму создания объявления.
func buildOfferForm(input model.CreateOfferInput) (*backends.MultipartForm, error) {
	form := backends.NewMultipartForm()

	form.AddField("title", input.Title)
	form.AddField("description", input.Description)
	form.AddField("price", strconv.FormatFloat(input.Price, 'f', -1, 64))
	if input.Address != "" {
		form.AddField("address", input.Address)
	}
	form.AddField("offerTypeId", strconv.Itoa(input.OfferTypeID))
	form.AddField("unitTypeId", strconv.Itoa(input.UnitTypeID))
	form.AddField("timeUnitId", strconv.Itoa(input.TimeUnitID))
	form.AddField("floorId", strconv.Itoa(input.FloorID))
	form.AddField("propertyTypeId", strconv.Itoa(input.PropertyTypeID))

	// featureIds — JSON-строка внутри текстового поля
	if len(input.FeatureIDs) > 0 {
		featureIDs, err := json.Marshal(input.FeatureIDs)
		if err != nil {
			return nil, fmt.Errorf("ошибка сериализации featureIds: %w", err)
		}
		form.AddField("featureIds", string(featureIDs))
	}

	for i, img := range input.Images {
		form.AddFile("images", fmt.Sprintf("image_%d.jpg", i), img.Content)
	}
	for i, video := range input.Videos {
		form.AddFile("videos", fmt.Sprintf("video_%d.mp4", i), video.Content)
	}

	return form, nil
}
