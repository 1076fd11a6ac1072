package rabbitmq

import (
	"time"

	"github.com/cosminpetcu/carstat/internal/core/domain"
)

// ProcessedCarListingDTO - тело события ProcessedCarListingEvent.
// Повторяет схему events/processed-car-listing/v1.json.
type ProcessedCarListingDTO struct {
	SourceURL string  `json:"source_url"`
	Title     string  `json:"title"`
	Brand     string  `json:"brand"`
	Model     string  `json:"model"`
	Price     float64 `json:"price"`

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

// toFieldSet переносит DTO в канонический набор полей ядра.
func (d *ProcessedCarListingDTO) toFieldSet() domain.FieldSet {
	return domain.FieldSet{
		SourceURL: d.SourceURL,
		Title:     &d.Title,
		Brand:     &d.Brand,
		Model:     &d.Model,
		Price:     &d.Price,

		Year:             d.Year,
		Mileage:          d.Mileage,
		FuelType:         d.FuelType,
		Transmission:     d.Transmission,
		DriveType:        d.DriveType,
		BodyStyle:        d.BodyStyle,
		EngineCapacity:   d.EngineCapacity,
		EnginePower:      d.EnginePower,
		Generation:       d.Generation,
		Version:          d.Version,
		EmissionStandard: d.EmissionStandard,
		Doors:            d.Doors,
		Color:            d.Color,
		VehicleCondition: d.VehicleCondition,
		PreviousOwners:   d.PreviousOwners,
		VIN:              d.VIN,
		Location:         d.Location,
		Description:      d.Description,
		SellerType:       d.SellerType,
		OriginCountry:    d.OriginCountry,

		Damaged:        d.Damaged,
		NoAccident:     d.NoAccident,
		ServiceBook:    d.ServiceBook,
		FirstOwner:     d.FirstOwner,
		Registered:     d.Registered,
		RightHandDrive: d.RightHandDrive,

		AdCreatedAt: d.AdCreatedAt,
	}
}
