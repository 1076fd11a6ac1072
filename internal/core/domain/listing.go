package domain

import (
	"time"
)

const (
	OLX_SOURCE     = "olx"
	AUTOVIT_SOURCE = "autovit"
)

// DealRating - буквенная оценка выгодности объявления,
// от S (максимально выгодно) до F (сильно переоценено).
type DealRating string

const (
	RatingS DealRating = "S"
	RatingA DealRating = "A"
	RatingB DealRating = "B"
	RatingC DealRating = "C"
	RatingD DealRating = "D"
	RatingE DealRating = "E"
	RatingF DealRating = "F"
)

// PricePoint - одна запись в истории цен. Хранит ПРЕДЫДУЩУЮ цену
// и момент, когда она в последний раз была актуальной.
type PricePoint struct {
	Price      float64   `json:"price"`
	ObservedAt time.Time `json:"observed_at"`
}

// CarListing - каноническая запись об одном объявлении о продаже автомобиля.
// Единственный ключ - SourceURL; он неизменяемый и уникальный.
// Все опциональные описательные поля - указатели: nil означает,
// что источник это поле еще ни разу не отдавал.
type CarListing struct {
	SourceURL string
	Title     string
	Brand     string
	Model     string

	// Описательные атрибуты
	Year             *int
	Mileage          *int
	FuelType         *string
	Transmission     *string
	DriveType        *string
	BodyStyle        *string
	EngineCapacity   *int
	EnginePower      *int
	Generation       *string
	Version          *string
	EmissionStandard *string
	Doors            *int
	Color            *string
	VehicleCondition *string
	PreviousOwners   *int
	VIN              *string
	Location         *string
	Description      *string
	SellerType       *string
	OriginCountry    *string

	// Флаги состояния автомобиля
	Damaged        *bool
	NoAccident     *bool
	ServiceBook    *bool
	FirstOwner     *bool
	Registered     *bool
	RightHandDrive *bool

	AdCreatedAt *time.Time

	// Рыночные атрибуты
	Price           float64
	PriceHistory    []PricePoint // только добавление, от старых к новым
	EstimatedPrice  *float64
	DealRating      *DealRating
	QualityScore    *int
	SuspiciousPrice bool

	// Жизненный цикл
	Sold              bool
	SoldDetectedAt    *time.Time
	LastPriceChangeAt time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasPrice сообщает, есть ли у объявления пригодная для анализа цена.
func (l *CarListing) HasPrice() bool {
	return l.Price > 0
}

// IsDamaged трактует отсутствующий флаг как "не поврежден".
func (l *CarListing) IsDamaged() bool {
	return l.Damaged != nil && *l.Damaged
}

// Age возвращает возраст автомобиля в годах на момент now.
// Если год выпуска неизвестен, возвращает 0 и false.
func (l *CarListing) Age(now time.Time) (int, bool) {
	if l.Year == nil {
		return 0, false
	}
	age := now.Year() - *l.Year
	if age < 0 {
		age = 0
	}
	return age, true
}

// YearlyMileage - средний годовой пробег. Для машин текущего года
// делим на 1, чтобы не делить на ноль.
func (l *CarListing) YearlyMileage(now time.Time) (int, bool) {
	if l.Mileage == nil || l.Year == nil {
		return 0, false
	}
	age, _ := l.Age(now)
	if age < 1 {
		age = 1
	}
	return *l.Mileage / age, true
}

// StoreStats - агрегированные счетчики по хранилищу для REST-эндпоинта.
type StoreStats struct {
	Total      int64 `json:"total"`
	Active     int64 `json:"active"`
	Sold       int64 `json:"sold"`
	Suspicious int64 `json:"suspicious"`
	Rated      int64 `json:"rated"`
}
