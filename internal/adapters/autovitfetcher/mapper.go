package autovitfetcher

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cosminpetcu/carstat/internal/core/domain"
)

var digitsRe = regexp.MustCompile(`\d+`)

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

// parseYesNo переводит "Da"/"Nu" в булево значение.
func parseYesNo(raw string) (bool, bool) {
	switch domain.FoldKey(raw) {
	case "da":
		return true, true
	case "nu":
		return false, true
	default:
		return false, false
	}
}

// applyDetail раскладывает один блок data-testid по полям.
// На Autovit testid "gearbox" - коробка передач, а "transmission" -
// тип привода, не перепутать.
func applyDetail(fields *domain.FieldSet, key, value string) {
	if value == "" {
		return
	}

	setInt := func(dst **int) {
		if v, ok := parseIntLoose(value); ok {
			*dst = &v
		}
	}
	setBool := func(dst **bool) {
		if v, ok := parseYesNo(value); ok {
			*dst = &v
		}
	}

	switch key {
	case "make":
		fields.Brand = &value
	case "model":
		fields.Model = &value
	case "version":
		fields.Version = &value
	case "generation":
		fields.Generation = &value
	case "year":
		setInt(&fields.Year)
	case "mileage":
		setInt(&fields.Mileage)
	case "fuel_type":
		fields.FuelType = &value
	case "engine_capacity":
		setInt(&fields.EngineCapacity)
	case "engine_power":
		setInt(&fields.EnginePower)
	case "gearbox":
		fields.Transmission = &value
	case "transmission":
		fields.DriveType = &value
	case "body_type":
		fields.BodyStyle = &value
	case "door_count":
		setInt(&fields.Doors)
	case "nr_seats":
		// количество мест не входит в канонический набор
	case "color":
		fields.Color = &value
	case "new_used":
		fields.VehicleCondition = &value
	case "pollution_standard":
		fields.EmissionStandard = &value
	case "advert-vin":
		fields.VIN = &value
	case "country_origin":
		fields.OriginCountry = &value
	case "registered":
		setBool(&fields.Registered)
	case "original_owner":
		setBool(&fields.FirstOwner)
	case "no_accident":
		setBool(&fields.NoAccident)
	case "service_record":
		setBool(&fields.ServiceBook)
	case "rhd":
		setBool(&fields.RightHandDrive)
	case "damaged":
		setBool(&fields.Damaged)
	}
}
