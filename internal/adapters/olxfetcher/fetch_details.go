package olxfetcher

import (
	"context"
	"net/http"
	"strings"

	"github.com/gocolly/colly/v2"

	"github.com/cosminpetcu/carstat/internal/constants"
	"github.com/cosminpetcu/carstat/internal/contextkeys"
	"github.com/cosminpetcu/carstat/internal/core/domain"
	"github.com/cosminpetcu/carstat/internal/core/port"
)

// Fetch загружает страницу объявления OLX и возвращает статус плюс
// извлеченные поля в канонических единицах.
func (a *OlxFetcherAdapter) Fetch(ctx context.Context, adURL string) (domain.SourceResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	fetchLogger := logger.WithFields(port.Fields{"component": "OlxFetcherAdapter(Fetch)"})

	collector := a.collector.Clone()

	fields := &domain.FieldSet{SourceURL: adURL}
	result := domain.SourceResult{Status: domain.StatusOK, Fields: fields}

	collector.OnRequest(func(r *colly.Request) {
		fetchLogger.Debug("Making request to fetch ad page", port.Fields{"url": r.URL.String()})
	})

	collector.OnResponse(func(r *colly.Response) {
		// Снятое объявление отдается как 200, но с маркерным текстом.
		if pageRemoved(r.Body) {
			fetchLogger.Info("Ad page carries removal marker", port.Fields{"url": adURL})
			result.RemovedByMarker = true
		}
	})

	collector.OnHTML(`h1[data-cy="ad_title"]`, func(e *colly.HTMLElement) {
		title := strings.TrimSpace(e.Text)
		if title != "" {
			fields.Title = &title
		}
	})

	collector.OnHTML(`div[data-testid="ad-price-container"] h3`, func(e *colly.HTMLElement) {
		if price, ok := parsePrice(e.Text); ok {
			fields.Price = &price
		}
	})

	collector.OnHTML(`div[data-cy="ad-promotion-actions"] ~ div p, ul li p`, func(e *colly.HTMLElement) {
		applyParam(fields, e.Text)
	})

	collector.OnHTML(`div[data-cy="ad_description"] div`, func(e *colly.HTMLElement) {
		desc := strings.TrimSpace(e.Text)
		if desc != "" && fields.Description == nil {
			fields.Description = &desc
		}
	})

	collector.OnHTML(`p[data-testid="location-date"]`, func(e *colly.HTMLElement) {
		applyLocationDate(fields, e.Text)
	})

	collector.OnError(func(r *colly.Response, err error) {
		status := statusFromHTTP(r.StatusCode)
		if status == domain.StatusBlocked {
			fetchLogger.Warn("Source responded with a block signal", port.Fields{
				"url":    adURL,
				"status": r.StatusCode,
			})
		} else {
			fetchLogger.Error("Failed to fetch ad page", err, port.Fields{
				"url":    adURL,
				"status": r.StatusCode,
			})
		}
		result = domain.SourceResult{Status: status}
	})

	visitErr := collector.Visit(adURL)
	collector.Wait()
	if visitErr != nil && result.Status == domain.StatusOK {
		// Запрос не дошел до сети (чужой домен, битый URL): OnError
		// в этом случае не вызывается.
		fetchLogger.Error("Failed to dispatch ad page request", visitErr, port.Fields{"url": adURL})
		result = domain.SourceResult{Status: domain.StatusTransientError}
	}

	if result.Status == domain.StatusOK {
		domain.NormalizeFieldSet(fields)
	}
	return result, nil
}

// pageRemoved ищет в теле страницы маркер снятого объявления.
// Тело сворачивается так же, как словарные ключи: формулировки
// встречаются и с диакритикой, и без.
func pageRemoved(body []byte) bool {
	folded := domain.FoldKey(string(body))
	for _, marker := range constants.OlxRemovedMarkers {
		if strings.Contains(folded, marker) {
			return true
		}
	}
	return false
}

// statusFromHTTP переводит HTTP-код в статус контракта адаптера.
// 403 и 429 - сигнал блокировки, а не судьба объявления.
func statusFromHTTP(code int) domain.FetchStatus {
	switch code {
	case http.StatusForbidden, http.StatusTooManyRequests:
		return domain.StatusBlocked
	case http.StatusNotFound:
		return domain.StatusNotFound
	case http.StatusGone:
		return domain.StatusGone
	default:
		return domain.StatusTransientError
	}
}
