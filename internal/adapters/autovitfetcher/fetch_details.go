package autovitfetcher

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

// Fetch загружает страницу объявления Autovit. Детали лежат в блоках
// с data-testid, значения булевых полей приходят как "Da"/"Nu".
func (a *AutovitFetcherAdapter) Fetch(ctx context.Context, adURL string) (domain.SourceResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	fetchLogger := logger.WithFields(port.Fields{"component": "AutovitFetcherAdapter(Fetch)"})

	collector := a.collector.Clone()

	fields := &domain.FieldSet{SourceURL: adURL}
	result := domain.SourceResult{Status: domain.StatusOK, Fields: fields}

	collector.OnRequest(func(r *colly.Request) {
		fetchLogger.Debug("Making request to fetch ad page", port.Fields{"url": r.URL.String()})
	})

	collector.OnResponse(func(r *colly.Response) {
		if pageRemoved(r.Body) {
			fetchLogger.Info("Ad page carries removal marker", port.Fields{"url": adURL})
			result.RemovedByMarker = true
		}
	})

	collector.OnHTML(`h1.offer-title`, func(e *colly.HTMLElement) {
		title := strings.TrimSpace(e.Text)
		if title != "" {
			fields.Title = &title
		}
	})

	collector.OnHTML(`span.offer-price__number`, func(e *colly.HTMLElement) {
		if price, ok := parsePrice(e.Text); ok {
			fields.Price = &price
		}
	})

	// Каждый блок параметров: data-testid - ключ, последний <p> - значение.
	collector.OnHTML(`div[data-testid]`, func(e *colly.HTMLElement) {
		applyDetail(fields, e.Attr("data-testid"), detailValue(e))
	})

	collector.OnHTML(`div[data-testid="content-description-section"]`, func(e *colly.HTMLElement) {
		desc := strings.TrimSpace(e.Text)
		if desc != "" {
			fields.Description = &desc
		}
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

// pageRemoved ищет в теле страницы маркер снятого объявления,
// сворачивая текст: формулировки встречаются и с диакритикой, и без.
func pageRemoved(body []byte) bool {
	folded := domain.FoldKey(string(body))
	for _, marker := range constants.AutovitRemovedMarkers {
		if strings.Contains(folded, marker) {
			return true
		}
	}
	return false
}

// detailValue - значение блока параметра: последний непустой <p>.
func detailValue(e *colly.HTMLElement) string {
	texts := e.ChildTexts("p")
	for i := len(texts) - 1; i >= 0; i-- {
		if v := strings.TrimSpace(texts[i]); v != "" {
			return v
		}
	}
	return strings.TrimSpace(e.ChildText("a"))
}

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
