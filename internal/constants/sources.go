package constants

// Хосты источников. По ним маршрутизатор сессии выбирает адаптер
// для конкретного URL объявления.
const (
	OlxHost     = "www.olx.ro"
	AutovitHost = "www.autovit.ro"
)

// Маркерные тексты снятых объявлений: страница отдается как 200,
// но по этому тексту видно, что объявление больше не активно.
// Источники пишут эти фразы то с диакритикой, то без, поэтому
// сравнение ведется по свернутому ключу (FoldKey), и маркеры
// записаны уже в свернутом виде.
var (
	OlxRemovedMarkers = []string{
		"acest anunt nu mai este activ",
		"acest anunt nu mai este disponibil",
	}
	AutovitRemovedMarkers = []string{
		"anuntul nu mai este disponibil",
		"acest anunt nu mai este valabil",
	}
)
