package model

import "time"

// Offer — объявление о недвижимости.
// Справочные поля денормализованы: backend отдаёт имена, а не внешние ключи.
type Offer struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Address     string  `json:"address,omitempty"`
	// Денормализованные имена справочников
	OfferTypeName    string `json:"offerTypeName,omitempty"`
	UnitTypeName     string `json:"unitTypeName,omitempty"`
	FloorName        string `json:"floorName,omitempty"`
	PropertyTypeName string `json:"propertyTypeName,omitempty"`
	RentalTypeName   string `json:"rentalTypeName,omitempty"`
	TimeUnitName     string `json:"timeUnitName,omitempty"`
	// Медиа
	ImageURLs []string `json:"imageUrls,omitempty"`
	VideoURLs []string `json:"videoUrls,omitempty"`
	// Features — имена дополнительных характеристик
	Features   []string  `json:"features,omitempty"`
	IsActive   bool      `json:"isActive"`
	IsFavorite bool      `json:"isFavorite"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// OfferPage — страница списка объявлений.
// Форма ответа offers-сервисов: элементы в поле offers.
type OfferPage struct {
	Offers          []Offer `json:"offers"`
	TotalCount      int     `json:"totalCount"`
	PageNumber      int     `json:"pageNumber"`
	PageSize        int     `json:"pageSize"`
	TotalPages      int     `json:"totalPages"`
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
}

// MediaFile — загружаемый медиафайл объявления.
type MediaFile struct {
	// Content — содержимое файла
	Content []byte
	// ContentType — MIME-тип (image/jpeg, video/mp4)
	ContentType string
}

// CreateOfferInput — данные создания объявления.
// Отправляется как multipart/form-data: скалярные поля строками,
// файлы под полями images и videos.
type CreateOfferInput struct {
	Title          string
	Description    string
	Price          float64
	Address        string
	OfferTypeID    int
	UnitTypeID     int
	TimeUnitID     int
	FloorID        int
	PropertyTypeID int
	FeatureIDs     []int
	Images         []MediaFile
	Videos         []MediaFile
}

// BulkOfferIDsRequest — массовая операция над объявлениями по списку id.
type BulkOfferIDsRequest struct {
	OfferIDs []string `json:"offerIds"`
}

// OfferStatistics — статистика объявлений.
type OfferStatistics struct {
	TotalOffers    int             `json:"totalOffers"`
	ActiveOffers   int             `json:"activeOffers"`
	InactiveOffers int             `json:"inactiveOffers"`
	MonthlyData    []MonthlyOffers `json:"monthlyData,omitempty"`
	RecentOffers   []Offer         `json:"recentOffers,omitempty"`
}

// MonthlyOffers — количество объявлений за месяц.
type MonthlyOffers struct {
	Month       string `json:"month"`
	Year        int    `json:"year"`
	OffersCount int    `json:"offersCount"`
}
