package constants

// Статические ценовые границы по "эшелонам" брендов для эвристики
// поиска мусорных цен. Для брендов вне этих списков граница не
// применяется - отсутствие эвристики не дисквалифицирует объявление.

// LuxuryBrands - бренды, у которых даже старые машины не могут стоить
// копейки: цена ниже LuxuryMinPrice почти наверняка мусор.
var LuxuryBrands = map[string]bool{
	"Ferrari":      true,
	"Lamborghini":  true,
	"Bentley":      true,
	"Rolls-Royce":  true,
	"Aston Martin": true,
	"McLaren":      true,
	"Maserati":     true,
}

// PremiumBrands - бренды, у которых свежие (год >= PremiumRecentYear)
// машины не продаются дешевле PremiumMinRecentPrice.
var PremiumBrands = map[string]bool{
	"BMW":           true,
	"Mercedes-Benz": true,
	"Audi":          true,
	"Porsche":       true,
	"Land Rover":    true,
	"Range Rover":   true,
	"Jaguar":        true,
	"Lexus":         true,
	"Tesla":         true,
}

// MainstreamBrands - массовые бренды: цена выше MainstreamMaxPrice
// для них неправдоподобна.
var MainstreamBrands = map[string]bool{
	"Dacia":      true,
	"Renault":    true,
	"Peugeot":    true,
	"Citroen":    true,
	"Opel":       true,
	"Ford":       true,
	"Fiat":       true,
	"Skoda":      true,
	"Seat":       true,
	"Volkswagen": true,
	"Toyota":     true,
	"Hyundai":    true,
	"Kia":        true,
	"Nissan":     true,
	"Mazda":      true,
	"Honda":      true,
	"Suzuki":     true,
	"Chevrolet":  true,
	"Lada":       true,
}

const (
	LuxuryMinPrice        = 15000.0
	PremiumRecentYear     = 2015
	PremiumMinRecentPrice = 3000.0
	MainstreamMaxPrice    = 120000.0
)
