package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/cosminpetcu/carstat/internal/adapters/autovitfetcher"
	"github.com/cosminpetcu/carstat/internal/adapters/olxfetcher"
	"github.com/cosminpetcu/carstat/internal/constants"
	"github.com/cosminpetcu/carstat/internal/core/domain"
	"github.com/cosminpetcu/carstat/internal/core/port"
)

// SessionFactory создает по запросу независимую сессию источников:
// свежие коллекторы на каждый источник, свои лимиты вежливости.
// Планировщик просит по одной сессии на воркера.
type SessionFactory struct {
	requestDelay time.Duration
}

func NewSessionFactory(requestDelay time.Duration) *SessionFactory {
	return &SessionFactory{requestDelay: requestDelay}
}

func (f *SessionFactory) NewSession() (port.SourceFetcherPort, error) {
	olx, err := olxfetcher.NewOlxFetcherAdapter(f.requestDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to create OLX fetcher: %w", err)
	}
	autovit, err := autovitfetcher.NewAutovitFetcherAdapter(f.requestDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to create Autovit fetcher: %w", err)
	}

	return &hostRouter{
		byHost: map[string]port.SourceFetcherPort{
			constants.OlxHost:     olx,
			constants.AutovitHost: autovit,
		},
	}, nil
}

// hostRouter выбирает адаптер по хосту из URL объявления.
type hostRouter struct {
	byHost map[string]port.SourceFetcherPort
}

func (r *hostRouter) Fetch(ctx context.Context, adURL string) (domain.SourceResult, error) {
	parsed, err := url.Parse(adURL)
	if err != nil {
		return domain.SourceResult{}, fmt.Errorf("malformed listing URL %q: %w", adURL, err)
	}
	adapter, ok := r.byHost[parsed.Host]
	if !ok {
		return domain.SourceResult{}, fmt.Errorf("no source adapter for host %q", parsed.Host)
	}
	return adapter.Fetch(ctx, adURL)
}
