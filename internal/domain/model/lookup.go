package model

// LookupItem — запись справочника {id, name}.
type LookupItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CreateLookupItemRequest — создание записи справочника.
type CreateLookupItemRequest struct {
	Name string `json:"name"`
}

// UpdateLookupItemRequest — переименование записи справочника.
type UpdateLookupItemRequest struct {
	Name string `json:"name"`
}

// Lookups — все справочники объявлений, загружаемые одним вызовом.
type Lookups struct {
	OfferTypes    []LookupItem `json:"offerTypes"`
	UnitTypes     []LookupItem `json:"unitTypes"`
	TimeUnits     []LookupItem `json:"timeUnits"`
	OfferFeatures []LookupItem `json:"offerFeatures"`
	Floors        []LookupItem `json:"floors"`
	PropertyTypes []LookupItem `json:"propertyTypes"`
}
