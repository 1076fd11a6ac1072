package domain

import (
	"math"
	"sort"
	"time"

	"github.com/cosminpetcu/carstat/internal/constants"
)

// Пороговые константы аналитического движка. Значения должны
// воспроизводиться в точности - они согласованы между проходами.
const (
	// Выбросы (проход 1)
	OutlierCohortYearSpread = 3
	OutlierCohortMinSize    = 5
	OutlierCohortMinPrice   = 1000.0
	OutlierCohortMaxPrice   = 200000.0
	OutlierLowFactor        = 0.15
	OutlierHighFactor       = 6.0

	// Оценка справедливой цены (проход 2)
	EstimateCohortMinSize  = 4
	EstimateCapacitySpread = 50
	EstimatePowerSpread    = 20
	EstimateMileageSpread  = 10000
	EstimateYearSpread     = 1
	EstimateCohortMinPrice = 1000.0

	// Финальная зачистка (проход 3)
	SuspiciousEstimateFactor = 0.12
)

// PlaceholderPrices - известные цены-заглушки, которые продавцы
// ставят вместо реальной.
var PlaceholderPrices = map[float64]bool{
	1:    true,
	123:  true,
	1111: true,
	1234: true,
}

// IsPlaceholderPrice: цена из множества заглушек либо меньше 100.
func IsPlaceholderPrice(price float64) bool {
	return PlaceholderPrices[price] || price < 100
}

// Median считает медиану; для четного числа элементов - среднее двух
// центральных. Вход не модифицируется.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// PctDiff - отклонение цены от оценки в процентах.
func PctDiff(price, estimated float64) float64 {
	return (price - estimated) / estimated * 100
}

// ClassifyDealRating раскладывает процентное отклонение по буквенным
// диапазонам. Граница -35 включительно относится к S.
func ClassifyDealRating(pctDiff float64) DealRating {
	switch {
	case pctDiff <= -35:
		return RatingS
	case pctDiff <= -15:
		return RatingA
	case pctDiff <= -5:
		return RatingB
	case pctDiff <= 5:
		return RatingC
	case pctDiff <= 15:
		return RatingD
	case pctDiff <= 30:
		return RatingE
	default:
		return RatingF
	}
}

// StaticBoundViolated - статическая эвристика по эшелону бренда:
// неправдоподобно низкая цена для премиальных и люксовых брендов,
// неправдоподобно высокая - для массовых. Для брендов вне списков
// эвристика не применяется.
func StaticBoundViolated(brand string, year *int, price float64) bool {
	if constants.LuxuryBrands[brand] {
		return price < constants.LuxuryMinPrice
	}
	if constants.PremiumBrands[brand] {
		return year != nil && *year >= constants.PremiumRecentYear && price < constants.PremiumMinRecentPrice
	}
	if constants.MainstreamBrands[brand] {
		return price > constants.MainstreamMaxPrice
	}
	return false
}

// OutlierCohortMember - годится ли кандидат в когорту прохода 1
// для целевого объявления.
func OutlierCohortMember(target, candidate *CarListing) bool {
	if candidate.SourceURL == target.SourceURL {
		return false
	}
	if candidate.Brand != target.Brand || candidate.Model != target.Model {
		return false
	}
	if candidate.SuspiciousPrice || candidate.IsDamaged() {
		return false
	}
	if !candidate.HasPrice() || candidate.Price <= OutlierCohortMinPrice || candidate.Price >= OutlierCohortMaxPrice {
		return false
	}
	if target.Year == nil || candidate.Year == nil {
		return false
	}
	if absInt(*candidate.Year-*target.Year) > OutlierCohortYearSpread {
		return false
	}
	return true
}

// EstimateCohortMember - фильтр когорты прохода 2. Целевое объявление
// обязано иметь все поля из набора обязательных (проверяется снаружи,
// в HasEstimationInputs).
func EstimateCohortMember(target, candidate *CarListing) bool {
	if candidate.SourceURL == target.SourceURL {
		return false
	}
	if candidate.SuspiciousPrice || candidate.IsDamaged() {
		return false
	}
	if !candidate.HasPrice() || candidate.Price <= EstimateCohortMinPrice {
		return false
	}
	if candidate.Brand != target.Brand || candidate.Model != target.Model {
		return false
	}
	if candidate.FuelType == nil || *candidate.FuelType != *target.FuelType {
		return false
	}
	if candidate.Transmission == nil || *candidate.Transmission != *target.Transmission {
		return false
	}
	if candidate.EngineCapacity == nil || absInt(*candidate.EngineCapacity-*target.EngineCapacity) > EstimateCapacitySpread {
		return false
	}
	if target.EnginePower != nil && candidate.EnginePower != nil &&
		absInt(*candidate.EnginePower-*target.EnginePower) > EstimatePowerSpread {
		return false
	}
	if candidate.Mileage == nil || absInt(*candidate.Mileage-*target.Mileage) > EstimateMileageSpread {
		return false
	}
	if candidate.Year == nil || absInt(*candidate.Year-*target.Year) > EstimateYearSpread {
		return false
	}
	if target.RightHandDrive != nil {
		if candidate.RightHandDrive == nil || *candidate.RightHandDrive != *target.RightHandDrive {
			return false
		}
	}
	// Поколение: либо совпадает, либо не указано у обоих.
	if target.Generation != nil {
		if candidate.Generation == nil || *candidate.Generation != *target.Generation {
			return false
		}
	} else if candidate.Generation != nil {
		return false
	}
	return true
}

// HasEstimationInputs - есть ли у объявления все поля, без которых
// оценка справедливой цены не считается.
func (l *CarListing) HasEstimationInputs() bool {
	return l.HasPrice() &&
		l.Year != nil &&
		l.Mileage != nil &&
		l.EngineCapacity != nil &&
		l.FuelType != nil &&
		l.Transmission != nil &&
		l.DriveType != nil
}

// ratingQualityAdjustment - вклад рейтинга выгодности в оценку качества.
var ratingQualityAdjustment = map[DealRating]int{
	RatingS: 10,
	RatingA: 7,
	RatingB: 5,
	RatingC: 0,
	RatingD: -5,
	RatingE: -7,
	RatingF: -10,
}

// ComputeQualityScore - аддитивная оценка качества объявления.
// Старт с 50, итог зажимается в [0, 100]. Поправки применяются только
// по известным полям.
func ComputeQualityScore(l *CarListing, now time.Time) int {
	score := 50

	if l.Mileage != nil {
		switch m := *l.Mileage; {
		case m < 10000:
			score += 15
		case m < 50000:
			score += 10
		case m < 100000:
			score += 5
		case m > 400000:
			score -= 20
		case m > 300000:
			score -= 15
		case m > 250000:
			score -= 10
		case m > 200000:
			score -= 5
		}
	}

	if yearly, ok := l.YearlyMileage(now); ok {
		switch {
		case yearly < 10000:
			score += 10
		case yearly < 15000:
			score += 5
		case yearly > 35000:
			score -= 10
		case yearly > 25000:
			score -= 5
		}
	}

	if l.ServiceBook != nil && *l.ServiceBook {
		score += 15
	}
	if l.NoAccident != nil && *l.NoAccident {
		score += 15
	}
	if l.FirstOwner != nil && *l.FirstOwner {
		score += 10
	}

	if age, ok := l.Age(now); ok {
		switch {
		case age < 3:
			score += 10
		case age < 5:
			score += 8
		case age < 7:
			score += 6
		case age < 10:
			score += 4
		case age < 15:
			score += 2
		}
	}

	if l.Registered != nil && *l.Registered {
		score += 5
	}
	if l.Transmission != nil && *l.Transmission == "Automatic" {
		score += 10
	}
	if l.RightHandDrive != nil && *l.RightHandDrive {
		score -= 15
	}
	if l.DealRating != nil {
		score += ratingQualityAdjustment[*l.DealRating]
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// RoundPrice округляет справедливую цену до двух знаков перед записью
// в хранилище.
func RoundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
