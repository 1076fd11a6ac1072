package olxfetcher

import (
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"

	"github.com/cosminpetcu/carstat/internal/constants"
)

// OlxFetcherAdapter отвечает за все взаимодействия с сайтом OLX
type OlxFetcherAdapter struct {
	// родительский коллектор, который разделяет лимиты
	collector *colly.Collector
}

// NewOlxFetcherAdapter - конструктор. Каждый экземпляр - отдельная
// клиентская идентичность со своими лимитами вежливости; планировщик
// создает по одному на воркера.
func NewOlxFetcherAdapter(requestDelay time.Duration) (*OlxFetcherAdapter, error) {
	c := colly.NewCollector(colly.AllowedDomains(constants.OlxHost), colly.AllowURLRevisit())

	// Эти правила будут наследоваться всеми клонами коллектора
	err := c.Limit(&colly.LimitRule{
		DomainGlob: constants.OlxHost,

		// Параллелизм на уровне HTTP-запросов
		Parallelism: 1,

		// случайная задержка после завершения предыдущего запроса
		RandomDelay: requestDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("OlxFetcherAdapter: failed to set limit rule: %w", err)
	}

	extensions.RandomUserAgent(c) // На каждый запрос будет подставлен User-Agent реального браузера
	extensions.Referer(c)         // Автоматически подставляет заголовок Referer, имитируя навигацию

	return &OlxFetcherAdapter{
		collector: c,
	}, nil
}
