package olxfetcher

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cosminpetcu/carstat/internal/core/domain"
)

var digitsRe = regexp.MustCompile(`\d+`)

// parsePrice вытаскивает число из строк вида "12 500 €" или "8.999 €".
func parsePrice(raw string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if cleaned == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}

// parseIntLoose - целое из строки с мусором: "150 000 km" -> 150000.
func parseIntLoose(raw string) (int, bool) {
	parts := digitsRe.FindAllString(raw, -1)
	if len(parts) == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(strings.Join(parts, ""))
	if err != nil {
		return 0, false
	}
	return v, true
}

// applyParam разбирает одну строку параметров вида "Combustibil: Diesel"
// и раскладывает значение по полям. Ключи сравниваются без диакритики.
func applyParam(fields *domain.FieldSet, text string) {
	key, value, found := strings.Cut(text, ":")
	if !found {
		return
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}

	switch domain.FoldKey(key) {
	case "an de fabricatie":
		if v, ok := parseIntLoose(value); ok {
			fields.Year = &v
		}
	case "rulaj":
		if v, ok := parseIntLoose(value); ok {
			fields.Mileage = &v
		}
	case "combustibil":
		fields.FuelType = &value
	case "capacitate motor":
		if v, ok := parseIntLoose(value); ok {
			fields.EngineCapacity = &v
		}
	case "putere":
		if v, ok := parseIntLoose(value); ok {
			fields.EnginePower = &v
		}
	case "cutie de viteze":
		fields.Transmission = &value
	case "caroserie":
		fields.BodyStyle = &value
	case "culoare":
		fields.Color = &value
	case "numar de usi":
		if v, ok := parseIntLoose(value); ok {
			fields.Doors = &v
		}
	case "stare":
		fields.VehicleCondition = &value
	case "marca":
		fields.Brand = &value
	case "model":
		fields.Model = &value
	}
}

// applyLocationDate разбирает строку "Bucuresti, Sectorul 1 - 12 august 2026".
func applyLocationDate(fields *domain.FieldSet, text string) {
	location, datePart, found := strings.Cut(text, " - ")
	location = strings.TrimSpace(location)
	if location != "" {
		fields.Location = &location
	}
	if !found {
		return
	}
	if ts, ok := parseRomanianDate(strings.TrimSpace(datePart)); ok {
		fields.AdCreatedAt = &ts
	}
}

var romanianMonths = map[string]time.Month{
	"ianuarie":   time.January,
	"februarie":  time.February,
	"martie":     time.March,
	"aprilie":    time.April,
	"mai":        time.May,
	"iunie":      time.June,
	"iulie":      time.July,
	"august":     time.August,
	"septembrie": time.September,
	"octombrie":  time.October,
	"noiembrie":  time.November,
	"decembrie":  time.December,
}

// parseRomanianDate разбирает дату вида "12 august 2026".
func parseRomanianDate(raw string) (time.Time, bool) {
	parts := strings.Fields(strings.ToLower(raw))
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	month, ok := romanianMonths[parts[1]]
	if !ok {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}
