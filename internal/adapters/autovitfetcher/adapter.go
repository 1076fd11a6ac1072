package autovitfetcher

import (
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"

	"github.com/cosminpetcu/carstat/internal/constants"
)

// AutovitFetcherAdapter отвечает за все взаимодействия с сайтом Autovit
type AutovitFetcherAdapter struct {
	// родительский коллектор, который разделяет лимиты
	collector *colly.Collector
}

// NewAutovitFetcherAdapter - конструктор, одна клиентская идентичность
// на экземпляр.
func NewAutovitFetcherAdapter(requestDelay time.Duration) (*AutovitFetcherAdapter, error) {
	c := colly.NewCollector(colly.AllowedDomains(constants.AutovitHost), colly.AllowURLRevisit())

	err := c.Limit(&colly.LimitRule{
		DomainGlob:  constants.AutovitHost,
		Parallelism: 1,
		RandomDelay: requestDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("AutovitFetcherAdapter: failed to set limit rule: %w", err)
	}

	extensions.RandomUserAgent(c)
	extensions.Referer(c)

	return &AutovitFetcherAdapter{
		collector: c,
	}, nil
}
