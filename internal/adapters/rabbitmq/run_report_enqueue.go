package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cosminpetcu/carstat/internal/constants"
	"github.com/cosminpetcu/carstat/internal/contextkeys"
	"github.com/cosminpetcu/carstat/internal/core/domain"
	"github.com/cosminpetcu/carstat/internal/core/port"
	"github.com/cosminpetcu/carstat/pkg/rabbitmq/rabbitmq_producer"
)

// RunReportQueueAdapter публикует сводки завершенных прогонов во
// внешнюю шину для операционной панели.
type RunReportQueueAdapter struct {
	producer *rabbitmq_producer.Publisher
}

func NewRunReportQueueAdapter(producer *rabbitmq_producer.Publisher) (*RunReportQueueAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	return &RunReportQueueAdapter{producer: producer}, nil
}

func (a *RunReportQueueAdapter) PublishCrawlReport(ctx context.Context, report domain.CrawlRunReport) error {
	return a.publish(ctx, constants.CrawlReportRoutingKey, "CrawlRunReportEvent", report)
}

func (a *RunReportQueueAdapter) PublishAnalyticsReport(ctx context.Context, report domain.AnalyticsRunReport) error {
	return a.publish(ctx, constants.AnalyticsReportRoutingKey, "AnalyticsRunReportEvent", report)
}

func (a *RunReportQueueAdapter) publish(ctx context.Context, routingKey, eventType string, report any) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "RunReportQueueAdapter",
		"routing_key": routingKey,
	})

	body, err := json.Marshal(report)
	if err != nil {
		adapterLogger.Error("Failed to marshal run report to JSON", err, nil)
		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			"event-type":    eventType,
			"event-version": "1.0.0",
		},
	}

	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.producer.Publish(publishCtx, routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish run report", err, nil)
		return err
	}

	adapterLogger.Info("Successfully published run report", port.Fields{"event_type": eventType})
	return nil
}
