package domain

import "time"

// FetchStatus - итог обращения Source Adapter-а к странице объявления.
type FetchStatus string

const (
	StatusOK             FetchStatus = "ok"
	StatusNotFound       FetchStatus = "not_found"
	StatusGone           FetchStatus = "gone"
	StatusBlocked        FetchStatus = "blocked"
	StatusTransientError FetchStatus = "transient_error"
)

// FieldSet - плоский набор извлеченных со страницы полей в канонических
// единицах (цена числом, пробег в км, даты как timestamp). Указатели
// означают "поле на странице не найдено".
type FieldSet struct {
	SourceURL string  `json:"source_url"`
	Title     *string `json:"title,omitempty"`
	Brand     *string `json:"brand,omitempty"`
	Model     *string `json:"model,omitempty"`

	Price *float64 `json:"price,omitempty"`

	Year             *int    `json:"year,omitempty"`
	Mileage          *int    `json:"mileage,omitempty"`
	FuelType         *string `json:"fuel_type,omitempty"`
	Transmission     *string `json:"transmission,omitempty"`
	DriveType        *string `json:"drive_type,omitempty"`
	BodyStyle        *string `json:"body_style,omitempty"`
	EngineCapacity   *int    `json:"engine_capacity,omitempty"`
	EnginePower      *int    `json:"engine_power,omitempty"`
	Generation       *string `json:"generation,omitempty"`
	Version          *string `json:"version,omitempty"`
	EmissionStandard *string `json:"emission_standard,omitempty"`
	Doors            *int    `json:"doors,omitempty"`
	Color            *string `json:"color,omitempty"`
	VehicleCondition *string `json:"vehicle_condition,omitempty"`
	PreviousOwners   *int    `json:"previous_owners,omitempty"`
	VIN              *string `json:"vin,omitempty"`
	Location         *string `json:"location,omitempty"`
	Description      *string `json:"description,omitempty"`
	SellerType       *string `json:"seller_type,omitempty"`
	OriginCountry    *string `json:"origin_country,omitempty"`

	Damaged        *bool `json:"damaged,omitempty"`
	NoAccident     *bool `json:"no_accident,omitempty"`
	ServiceBook    *bool `json:"service_book,omitempty"`
	FirstOwner     *bool `json:"first_owner,omitempty"`
	Registered     *bool `json:"registered,omitempty"`
	RightHandDrive *bool `json:"right_hand_drive,omitempty"`

	AdCreatedAt *time.Time `json:"ad_created_at,omitempty"`
}

// SourceResult - то, что Source Adapter возвращает ядру по одному URL.
// При Status == StatusOK поле Fields обязано быть непустым.
// RemovedByMarker означает: страница отдалась как 200, но по маркерному
// тексту сайта видно, что объявление снято (эквивалент StatusGone).
type SourceResult struct {
	Status          FetchStatus
	Fields          *FieldSet
	RemovedByMarker bool
}
