// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrBackendUnavailable — backend-сервис недоступен.
	ErrBackendUnavailable = errors.New("backend-сервис недоступен")
)

// Ошибки валидации создания объявления. Каждая проверка даёт
// собственное сообщение и срабатывает до обращения к сети.
var (
	// ErrOfferTitleRequired — пустое название.
	ErrOfferTitleRequired = fmt.Errorf("%w: название объявления обязательно", ErrValidation)
	// ErrOfferDescriptionRequired — пустое описание.
	ErrOfferDescriptionRequired = fmt.Errorf("%w: описание объявления обязательно", ErrValidation)
	// ErrOfferPriceInvalid — цена не положительная.
	ErrOfferPriceInvalid = fmt.Errorf("%w: цена должна быть больше нуля", ErrValidation)
	// ErrOfferTooManyImages — больше 10 изображений.
	ErrOfferTooManyImages = fmt.Errorf("%w: допускается не более 10 изображений", ErrValidation)
	// ErrOfferTooManyVideos — больше 5 видео.
	ErrOfferTooManyVideos = fmt.Errorf("%w: допускается не более 5 видео", ErrValidation)
)

// ErrLookupNameRequired — пустое имя записи справочника.
var ErrLookupNameRequired = fmt.Errorf("%w: имя записи справочника обязательно", ErrValidation)
