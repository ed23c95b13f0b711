package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/notificationservice/backend/internal/config"
	"github.com/notificationservice/backend/internal/models"
)

// MessageHandler processes a decoded notification message
type MessageHandler interface {
	Handle(ctx context.Context, notification *models.NotificationMessage) error
}

const (
	stateStopped int32 = iota
	stateStarting
	stateRunning
	stateStopping
)

// Consumer receives notification messages from RabbitMQ and dispatches
// them to the handler with bounded concurrency. Each message takes a
// slot; a full set of slots delays further deliveries instead of
// dropping them.
type Consumer struct {
	cfg     config.RabbitMQConfig
	url     string
	handler MessageHandler
	logger  *zap.Logger

	slots *semaphore.Weighted
	state atomic.Int32

	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewConsumer creates a new queue consumer
func NewConsumer(cfg config.RabbitMQConfig, url string, handler MessageHandler, logger *zap.Logger) *Consumer {
	return &Consumer{
		cfg:     cfg,
		url:     url,
		handler: handler,
		logger:  logger,
		slots:   semaphore.NewWeighted(int64(cfg.MaxParallelization)),
	}
}

// Start connects to the broker, declares the exchange and queue
// topology and begins consuming. A failure at any startup step leaves
// the consumer stopped; there is no automatic reconnect.
func (c *Consumer) Start(ctx context.Context) error {
	if !c.state.CompareAndSwap(stateStopped, stateStarting) {
		return fmt.Errorf("consumer is already started")
	}

	c.logger.Info("starting queue consumer",
		zap.String("host", c.cfg.Host),
		zap.String("exchange", c.cfg.ExchangeName),
		zap.String("queue", c.cfg.QueueName),
		zap.String("routing_key", c.cfg.RoutingKey),
		zap.Int("max_parallelization", c.cfg.MaxParallelization),
	)

	conn, err := amqp.Dial(c.url)
	if err != nil {
		c.state.Store(stateStopped)
		return fmt.Errorf("failed to connect to broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		c.state.Store(stateStopped)
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := c.setupTopology(channel); err != nil {
		channel.Close()
		conn.Close()
		c.state.Store(stateStopped)
		return err
	}

	deliveries, err := channel.Consume(
		c.cfg.QueueName,
		"",    // consumer tag
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		c.state.Store(stateStopped)
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.conn = conn
	c.channel = channel
	c.state.Store(stateRunning)

	go c.receive(ctx, deliveries)

	c.logger.Info("queue consumer started")
	return nil
}

// Stop closes the channel and connection. In-flight handlers are not
// drained; their unacknowledged messages return to the queue.
func (c *Consumer) Stop() error {
	if !c.state.CompareAndSwap(stateRunning, stateStopping) {
		return fmt.Errorf("consumer is not running")
	}

	if err := c.channel.Close(); err != nil {
		c.logger.Warn("failed to close channel", zap.Error(err))
	}
	if err := c.conn.Close(); err != nil {
		c.logger.Warn("failed to close connection", zap.Error(err))
	}

	c.state.Store(stateStopped)
	c.logger.Info("queue consumer stopped")
	return nil
}

func (c *Consumer) setupTopology(channel *amqp.Channel) error {
	if err := channel.ExchangeDeclare(
		c.cfg.ExchangeName,
		amqp.ExchangeDirect,
		false, // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if _, err := channel.QueueDeclare(
		c.cfg.QueueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := channel.QueueBind(
		c.cfg.QueueName,
		c.cfg.RoutingKey,
		c.cfg.ExchangeName,
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	return nil
}

func (c *Consumer) receive(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for delivery := range deliveries {
		c.dispatch(ctx, delivery)
	}

	if c.state.Load() == stateRunning {
		c.logger.Error("delivery channel closed unexpectedly")
	}
}

// dispatch decodes a delivery and hands it to the handler on its own
// goroutine. Undecodable messages are rejected without requeue.
func (c *Consumer) dispatch(ctx context.Context, delivery amqp.Delivery) {
	c.logger.Info("received message from queue")

	var notification models.NotificationMessage
	if err := json.Unmarshal(delivery.Body, &notification); err != nil {
		c.logger.Error("failed to decode message", zap.Error(err))
		if err := delivery.Nack(false, false); err != nil {
			c.logger.Warn("failed to nack message", zap.Error(err))
		}
		return
	}

	if err := c.slots.Acquire(ctx, 1); err != nil {
		c.logger.Warn("consumer stopping, message returns to queue", zap.Error(err))
		if err := delivery.Nack(false, true); err != nil {
			c.logger.Warn("failed to nack message", zap.Error(err))
		}
		return
	}

	go func() {
		defer c.slots.Release(1)

		if err := c.handler.Handle(ctx, &notification); err != nil {
			c.logger.Error("failed to handle message", zap.Error(err))
			if err := delivery.Nack(false, false); err != nil {
				c.logger.Warn("failed to nack message", zap.Error(err))
			}
			return
		}

		if err := delivery.Ack(false); err != nil {
			c.logger.Warn("failed to ack message", zap.Error(err))
		}
	}()
}
