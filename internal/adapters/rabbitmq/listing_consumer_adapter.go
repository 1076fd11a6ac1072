package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cosminpetcu/carstat/internal/constants"
	"github.com/cosminpetcu/carstat/internal/contextkeys"
	"github.com/cosminpetcu/carstat/internal/contracts"
	"github.com/cosminpetcu/carstat/internal/core/domain"
	"github.com/cosminpetcu/carstat/internal/core/port"
	"github.com/cosminpetcu/carstat/internal/core/port/usecases_port"
	"github.com/cosminpetcu/carstat/pkg/rabbitmq/rabbitmq_consumer"
)

// ListingConsumerAdapter читает очередь обнаруженных объявлений,
// проверяет каждое сообщение по JSON-схеме и передает его use case-у
// сохранения. Невалидное сообщение отклоняется без повторной доставки.
type ListingConsumerAdapter struct {
	consumer *rabbitmq_consumer.Consumer
	saveUC   usecases_port.SaveCarListingUseCase
	logger   port.LoggerPort
}

func NewListingConsumerAdapter(consumer *rabbitmq_consumer.Consumer,
	saveUC usecases_port.SaveCarListingUseCase,
	logger port.LoggerPort) (*ListingConsumerAdapter, error) {
	if consumer == nil {
		return nil, fmt.Errorf("consumer cannot be nil")
	}
	if saveUC == nil {
		return nil, fmt.Errorf("save use case cannot be nil")
	}
	return &ListingConsumerAdapter{
		consumer: consumer,
		saveUC:   saveUC,
		logger:   logger,
	}, nil
}

// Start блокируется до отмены контекста.
func (a *ListingConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx, a.handleDelivery)
}

func (a *ListingConsumerAdapter) Close() error {
	return a.consumer.Close()
}

func (a *ListingConsumerAdapter) handleDelivery(ctx context.Context, delivery amqp.Delivery) error {
	msgLogger := a.logger.WithFields(port.Fields{"component": "ListingConsumerAdapter"})

	eventType, _ := delivery.Headers["event-type"].(string)
	eventVersion, _ := delivery.Headers["event-version"].(string)
	if eventType == "" {
		eventType = constants.ProcessedListingEventType
	}
	if eventVersion == "" {
		eventVersion = constants.ProcessedListingEventVersion
	}

	if traceID, ok := delivery.Headers["x-trace-id"].(string); ok && traceID != "" {
		ctx = contextkeys.ContextWithTraceID(ctx, traceID)
		msgLogger = msgLogger.WithFields(port.Fields{"trace_id": traceID})
	}
	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)

	if err := contracts.ValidateEvent(eventType, eventVersion, delivery.Body); err != nil {
		msgLogger.Error("Message failed schema validation, rejecting", err, port.Fields{
			"event_type":    eventType,
			"event_version": eventVersion,
		})
		return err
	}

	var dto ProcessedCarListingDTO
	if err := json.Unmarshal(delivery.Body, &dto); err != nil {
		msgLogger.Error("Failed to unmarshal message body", err, nil)
		return err
	}

	fields := dto.toFieldSet()
	domain.NormalizeFieldSet(&fields)

	listing, err := domain.NewListingFromFields(fields, time.Now())
	if err != nil {
		msgLogger.Error("Message does not carry mandatory listing fields", err, port.Fields{"source_url": dto.SourceURL})
		return err
	}

	return a.saveUC.Execute(ctx, &listing)
}
