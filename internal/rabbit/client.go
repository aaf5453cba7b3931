package rabbit

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const defaultPrefetch = 10

// Config names a direct exchange and one durable queue bound to it under its own name.
type Config struct {
	URL      string
	Exchange string
	Queue    string
	Prefetch int
}

// Client carries reminder jobs. Publishing is serialised because amqp channels are not
// safe for concurrent publishers.
type Client struct {
	cfg     Config
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *zerolog.Logger
	pubMu   sync.Mutex
}

type Rabbiter interface {
	Close()
	Publish(ctx context.Context, message []byte) error
	Consume(handler func([]byte) error) error
}

var _ Rabbiter = (*Client)(nil)

func NewRabbit(cfg Config, log *zerolog.Logger) (*Client, error) {
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = defaultPrefetch
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	c := &Client{cfg: cfg, conn: conn, channel: ch, log: log}
	if err := c.declare(); err != nil {
		c.Close()
		return nil, err
	}

	go c.watch(conn.NotifyClose(make(chan *amqp.Error, 1)))

	log.Info().Str("exchange", cfg.Exchange).Str("queue", cfg.Queue).Msg("RabbitMQ initialized")
	return c, nil
}

func (c *Client) declare() error {
	if err := c.channel.ExchangeDeclare(c.cfg.Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", c.cfg.Exchange, err)
	}
	if _, err := c.channel.QueueDeclare(c.cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", c.cfg.Queue, err)
	}
	if err := c.channel.QueueBind(c.cfg.Queue, c.cfg.Queue, c.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", c.cfg.Queue, err)
	}
	if err := c.channel.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}
	return nil
}

// watch reports an unexpected broker disconnect. Publishes fail from then on and the
// registration service falls back to sending inline.
func (c *Client) watch(closed <-chan *amqp.Error) {
	if err, ok := <-closed; ok && err != nil {
		c.log.Error().Str("reason", err.Reason).Int("code", err.Code).Msg("RabbitMQ connection lost")
	}
}

func (c *Client) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil && !c.conn.IsClosed() {
		_ = c.conn.Close()
	}
	c.log.Info().Msg("RabbitMQ connection closed")
}

func (c *Client) Publish(ctx context.Context, message []byte) error {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         message,
	}
	if err := c.channel.PublishWithContext(ctx, c.cfg.Exchange, c.cfg.Queue, false, false, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", c.cfg.Exchange, err)
	}
	c.log.Debug().Str("exchange", c.cfg.Exchange).Int("bytes", len(message)).Msg("job published")
	return nil
}

// Consume hands each delivery to handler and acks it whatever the outcome, so a job runs at
// most once. It returns after the consumer is registered; deliveries are processed in the background.
func (c *Client) Consume(handler func([]byte) error) error {
	deliveries, err := c.channel.Consume(c.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.cfg.Queue, err)
	}

	go func() {
		for d := range deliveries {
			if err := handler(d.Body); err != nil {
				c.log.Warn().Err(err).Uint64("delivery_tag", d.DeliveryTag).Msg("job failed, dropping it")
			}
			if err := d.Ack(false); err != nil {
				c.log.Error().Err(err).Uint64("delivery_tag", d.DeliveryTag).Msg("failed to ack job")
			}
		}
		c.log.Info().Str("queue", c.cfg.Queue).Msg("delivery channel closed")
	}()

	c.log.Info().Str("queue", c.cfg.Queue).Msg("consuming")
	return nil
}
