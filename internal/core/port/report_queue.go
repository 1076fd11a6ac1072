package port

import (
	"context"

	"github.com/cosminpetcu/carstat/internal/core/domain"
)

// RunReportQueuePort публикует сводки завершенных прогонов во внешнюю
// шину. Сбои публикации логируются, но не валят прогон.
type RunReportQueuePort interface {
	PublishCrawlReport(ctx context.Context, report domain.CrawlRunReport) error
	PublishAnalyticsReport(ctx context.Context, report domain.AnalyticsRunReport) error
}
