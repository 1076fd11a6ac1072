package constants

// Словари соответствия сырой лексики источников (румынской и английской)
// каноническим значениям. Ключи сопоставляются без учета регистра и
// диакритики, поэтому здесь они записаны в "свернутой" форме.

var FuelTypeMapping = map[string]string{
	"diesel":         "Diesel",
	"benzina":        "Petrol",
	"hibrid":         "Hybrid",
	"hibrid plug-in": "Plug-in Hybrid",
	"plug-in hybrid": "Plug-in Hybrid",
	"gpl":            "LPG",
	"benzina + gpl":  "LPG",
	"electric":       "Electric",
	"benzina + cng":  "CNG",
}

var TransmissionMapping = map[string]string{
	"manuala":   "Manual",
	"manual":    "Manual",
	"automata":  "Automatic",
	"automatic": "Automatic",
}

var DriveTypeMapping = map[string]string{
	"fata":         "Front",
	"spate":        "Rear",
	"4x4 (automat)": "AWD",
	"4x4 (manual)":  "AWD",
	"4x4":          "AWD",
}

var BodyStyleMapping = map[string]string{
	"masina de oras": "Hatchback",
	"masina mica":    "Hatchback",
	"compacta":       "Hatchback",
	"hatchback":      "Hatchback",
	"berlina":        "Sedan",
	"sedan":          "Sedan",
	"break":          "Wagon",
	"combi":          "Wagon",
	"suv":            "SUV",
	"off-road":       "SUV",
	"monovolum":      "MPV",
	"minibus":        "MPV",
	"coupe":          "Coupe",
	"cabrio":         "Convertible",
	"pickup":         "Pickup",
}

var ColorMapping = map[string]string{
	"negru":          "Black",
	"black":          "Black",
	"gri":            "Grey",
	"grey":           "Grey",
	"gray":           "Grey",
	"alb":            "White",
	"white":          "White",
	"albastru":       "Blue",
	"blue":           "Blue",
	"rosu":           "Red",
	"red":            "Red",
	"argintiu":       "Silver",
	"argint":         "Silver",
	"silver":         "Silver",
	"maro / bej":     "Brown",
	"maro":           "Brown",
	"brown":          "Brown",
	"bej":            "Beige",
	"beige":          "Beige",
	"verde":          "Green",
	"green":          "Green",
	"galben / auriu": "Yellow/Gold",
	"galben/auriu":   "Yellow/Gold",
	"yellow":         "Yellow/Gold",
	"gold":           "Yellow/Gold",
	"portocaliu":     "Orange",
	"orange":         "Orange",
	"alta culoare":   "Other",
	"alte culori":    "Other",
	"other":          "Other",
}

var VehicleConditionMapping = map[string]string{
	"nou":      "New",
	"new":      "New",
	"utilizat": "Used",
	"used":     "Used",
}

var SellerTypeMapping = map[string]string{
	"persoana fizica": "Private",
	"privat":          "Private",
	"private":         "Private",
	"firma":           "Dealer",
	"dealer":          "Dealer",
}

var EmissionStandardMapping = map[string]string{
	"euro 1":       "Euro 1",
	"euro 2":       "Euro 2",
	"euro 3":       "Euro 3",
	"euro 4":       "Euro 4",
	"euro 5":       "Euro 5",
	"euro 5a":      "Euro 5",
	"euro 5b":      "Euro 5",
	"euro 6":       "Euro 6",
	"euro 6b":      "Euro 6",
	"euro 6c":      "Euro 6",
	"euro 6d":      "Euro 6",
	"euro 6d-temp": "Euro 6",
	"non-euro":     "Non-euro",
}
