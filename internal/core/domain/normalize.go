package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cosminpetcu/carstat/internal/constants"
)

// foldTransformer убирает диакритику: NFD-разложение, удаление
// комбинируемых знаков (категория Mn), обратно в NFC.
// Так "mașină" и "masina" дают один и тот же ключ.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldKey приводит сырую строку источника к ключу словаря:
// без диакритики, в нижнем регистре, без краевых пробелов.
func FoldKey(raw string) string {
	folded, _, err := transform.String(foldTransformer, raw)
	if err != nil {
		folded = raw
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// lookup ищет каноническое значение; неизвестная лексика проходит
// насквозь без изменений (поведение исходных словарей).
func lookup(mapping map[string]string, raw string) string {
	if canonical, ok := mapping[FoldKey(raw)]; ok {
		return canonical
	}
	return strings.TrimSpace(raw)
}

func normalizeWith(mapping map[string]string, raw *string) *string {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	return ptr(lookup(mapping, *raw))
}

func NormalizeFuelType(raw *string) *string {
	return normalizeWith(constants.FuelTypeMapping, raw)
}

func NormalizeTransmission(raw *string) *string {
	return normalizeWith(constants.TransmissionMapping, raw)
}

func NormalizeDriveType(raw *string) *string {
	return normalizeWith(constants.DriveTypeMapping, raw)
}

func NormalizeBodyStyle(raw *string) *string {
	return normalizeWith(constants.BodyStyleMapping, raw)
}

func NormalizeColor(raw *string) *string {
	return normalizeWith(constants.ColorMapping, raw)
}

func NormalizeVehicleCondition(raw *string) *string {
	return normalizeWith(constants.VehicleConditionMapping, raw)
}

func NormalizeSellerType(raw *string) *string {
	return normalizeWith(constants.SellerTypeMapping, raw)
}

// NormalizeModelKey сводит название модели к сопоставимому ключу:
// без диакритики и регистра, без слов-связок ("Class", "Seria",
// "Series") и дефисов. "C-Class", "C Class" и "c class" дают одну
// и ту же основу "c".
func NormalizeModelKey(model string) string {
	key := FoldKey(model)
	for _, noise := range []string{"class", "seria", "series"} {
		key = strings.ReplaceAll(key, noise, "")
	}
	key = strings.ReplaceAll(key, "-", " ")
	return strings.Join(strings.Fields(key), " ")
}

func NormalizeEmissionStandard(raw *string) *string {
	return normalizeWith(constants.EmissionStandardMapping, raw)
}

// NormalizeFieldSet прогоняет все словарные поля набора через
// нормализатор. Адаптеры зовут ее один раз перед возвратом результата.
func NormalizeFieldSet(f *FieldSet) {
	if f == nil {
		return
	}
	f.FuelType = NormalizeFuelType(f.FuelType)
	f.Transmission = NormalizeTransmission(f.Transmission)
	f.DriveType = NormalizeDriveType(f.DriveType)
	f.BodyStyle = NormalizeBodyStyle(f.BodyStyle)
	f.Color = NormalizeColor(f.Color)
	f.VehicleCondition = NormalizeVehicleCondition(f.VehicleCondition)
	f.SellerType = NormalizeSellerType(f.SellerType)
	f.EmissionStandard = NormalizeEmissionStandard(f.EmissionStandard)

	// У электромобилей источники не отдают объем двигателя и коробку -
	// фиксируем канонические значения, как это делали пауки.
	if f.FuelType != nil && *f.FuelType == "Electric" {
		if f.EngineCapacity == nil {
			f.EngineCapacity = ptr(0)
		}
		if f.Transmission == nil {
			f.Transmission = ptr("Automatic")
		}
	}
}
