package rabbitmq_consumer

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cosminpetcu/carstat/pkg/rabbitmq/rabbitmq_common"
)

// ConsumerConfig конфигурация для потребителя
type ConsumerConfig struct {
	rabbitmq_common.Config
	// Настройки очереди
	QueueName    string // Имя очереди для потребления
	DeclareQueue bool   // Пытаться ли объявить очередь
	DurableQueue bool
	QueueArgs    amqp.Table
	// Настройки обменника (если очередь нужно привязывать)
	ExchangeNameForBind    string
	DeclareExchangeForBind bool
	ExchangeTypeForBind    string
	DurableExchangeForBind bool
	RoutingKeyForBind      string
	// Настройки QoS
	PrefetchCount int
	// Тег потребителя (если пустой, генерируется RabbitMQ)
	ConsumerTag string

	Logger rabbitmq_common.Logger
}

// MessageHandler обрабатывает одно сообщение. Ошибка приводит к nack
// без повторной постановки в очередь.
type MessageHandler func(ctx context.Context, delivery amqp.Delivery) error

// Consumer - потребитель одной очереди.
type Consumer struct {
	config     ConsumerConfig
	connection *amqp.Connection
	channel    *amqp.Channel
	wg         sync.WaitGroup // Нужен для graceful shutdown

	Logger rabbitmq_common.Logger
}

// NewConsumer создает потребителя и настраивает очередь, обменник и QoS
func NewConsumer(cfg ConsumerConfig, connManager *rabbitmq_common.ConnectionManager) (*Consumer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("consumer: invalid base config: %w", err)
	}
	if !cfg.DeclareQueue && cfg.QueueName == "" {
		return nil, fmt.Errorf("consumer: queue name is required if DeclareQueue is false")
	}
	if cfg.ExchangeNameForBind != "" && cfg.DeclareExchangeForBind && cfg.ExchangeTypeForBind == "" {
		return nil, fmt.Errorf("consumer: exchange type is required if declaring an exchange for binding")
	}

	c := &Consumer{
		config: cfg,
		Logger: logger,
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("consumer: failed to get channel from manager: %w", err)
	}
	c.connection = conn
	c.channel = ch
	c.Logger.Debug("Channel obtained from ConnectionManager")

	if err := c.setup(); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consumer: setup failed: %w", err)
	}

	return c, nil
}

func (c *Consumer) setup() error {
	if c.config.PrefetchCount > 0 {
		if err := c.channel.Qos(c.config.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	if c.config.DeclareQueue {
		if _, err := c.channel.QueueDeclare(
			c.config.QueueName,
			c.config.DurableQueue,
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			c.config.QueueArgs,
		); err != nil {
			return fmt.Errorf("failed to declare queue '%s': %w", c.config.QueueName, err)
		}
	}

	if c.config.ExchangeNameForBind != "" {
		if c.config.DeclareExchangeForBind {
			if err := c.channel.ExchangeDeclare(
				c.config.ExchangeNameForBind,
				c.config.ExchangeTypeForBind,
				c.config.DurableExchangeForBind,
				false, // auto-delete
				false, // internal
				false, // no-wait
				nil,
			); err != nil {
				return fmt.Errorf("failed to declare exchange '%s': %w", c.config.ExchangeNameForBind, err)
			}
		}
		if err := c.channel.QueueBind(
			c.config.QueueName,
			c.config.RoutingKeyForBind,
			c.config.ExchangeNameForBind,
			false, // no-wait
			nil,
		); err != nil {
			return fmt.Errorf("failed to bind queue '%s' to exchange '%s': %w", c.config.QueueName, c.config.ExchangeNameForBind, err)
		}
	}

	return nil
}

// StartConsuming запускает цикл потребления. Блокируется до отмены
// контекста или закрытия канала доставки.
func (c *Consumer) StartConsuming(ctx context.Context, handler MessageHandler) error {
	deliveries, err := c.channel.Consume(
		c.config.QueueName,
		c.config.ConsumerTag,
		false, // auto-ack выключен: подтверждаем только после обработки
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consumer: failed to start consuming from '%s': %w", c.config.QueueName, err)
	}

	c.Logger.Info("Started consuming", "queue", c.config.QueueName)

	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("Context cancelled, stopping consumer", "queue", c.config.QueueName)
			c.wg.Wait()
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				c.Logger.Warn("Delivery channel closed", "queue", c.config.QueueName)
				c.wg.Wait()
				return nil
			}

			c.wg.Add(1)
			func() {
				defer c.wg.Done()
				if err := handler(ctx, delivery); err != nil {
					c.Logger.Error(err, "Message handler failed, rejecting message",
						"queue", c.config.QueueName,
					)
					_ = delivery.Nack(false, false)
					return
				}
				_ = delivery.Ack(false)
			}()
		}
	}
}

// Close закрывает канал потребителя
func (c *Consumer) Close() error {
	c.Logger.Debug("Consumer: Closing...")
	c.wg.Wait()

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.Logger.Error(err, "Error closing channel")
			return err
		}
		c.channel = nil
	}
	c.Logger.Info("Consumer closed.")
	return nil
}
