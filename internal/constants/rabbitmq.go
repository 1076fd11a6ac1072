package constants

// Имена сущностей RabbitMQ, общие для всей системы.
const (
	// Обменник, в который внешние парсеры публикуют обнаруженные объявления.
	ListingsExchange = "car-listings-exchange"
	// Очередь обнаруженных объявлений, которую читает этот сервис.
	ProcessedListingsQueue = "processed-car-listings"
	// Ключ маршрутизации обнаруженных объявлений.
	ProcessedListingsRoutingKey = "listing.processed"

	// Обменник сводок по завершенным прогонам.
	RunReportsExchange = "run-reports-exchange"
	// Ключи маршрутизации сводок.
	CrawlReportRoutingKey     = "report.crawl"
	AnalyticsReportRoutingKey = "report.analytics"
)

// Метаданные событий (заголовки сообщений).
const (
	ProcessedListingEventType    = "ProcessedCarListingEvent"
	ProcessedListingEventVersion = "1.0.0"
)
