// Package amqp publishes expense events to RabbitMQ and consumes them.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"spendwise/internal/core"

	"github.com/rabbitmq/amqp091-go"
)

// Circuit breaker states
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures    = 5
	openTimeout    = 30 * time.Second
	publishTimeout = 5 * time.Second
	maxBackoff     = 30 * time.Second
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

// Handler processes one consumed event. A returned error requeues it.
type Handler func(ctx context.Context, ev *ExpenseEvent) error

// Client owns a lazily opened connection and channel. Publishing is guarded
// by a circuit breaker; consuming reconnects with exponential backoff.
type Client struct {
	url          string
	exchangeName string
	queueName    string
	logger       *slog.Logger

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel

	state        int32
	failureCount int64
	lastFailure  time.Time
}

// NewClient configures a client. No connection is made until first use.
func NewClient(url, exchangeName, queueName string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
		logger:       logger.With("component", "amqp"),
	}
}

// Connect opens the connection and declares the topology.
func (c *Client) Connect(ctx context.Context) error {
	_, err := c.ensureChannel(ctx)
	return err
}

func (c *Client) ensureChannel(ctx context.Context) (*amqp091.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel != nil && !c.channel.IsClosed() {
		return c.channel, nil
	}
	c.resetLocked()

	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := setup(channel, c.exchangeName, c.queueName); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	c.conn, c.channel = conn, channel
	c.logger.InfoContext(ctx, "Connected to AMQP broker", "exchange", c.exchangeName, "queue", c.queueName)
	return channel, nil
}

func setup(ch *amqp091.Channel, exchange, queue string) error {
	if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	// Direct exchange, the queue name doubles as routing key.
	if err := ch.QueueBind(queue, queue, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// resetLocked drops the current connection. Caller holds c.mu.
func (c *Client) resetLocked() {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *Client) reset() {
	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()
}

// Publish sends ev as a persistent message.
func (c *Client) Publish(ctx context.Context, ev *ExpenseEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.isCircuitOpen() {
		return fmt.Errorf("publish %s: %w", ev.Type, ErrCircuitOpen)
	}

	body, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ch, err := c.ensureChannel(ctx)
	if err != nil {
		c.recordFailure()
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = ch.PublishWithContext(ctx, c.exchangeName, c.queueName, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Type:         ev.Type,
		MessageId:    ev.Key(),
		Body:         body,
	})
	if err != nil {
		if isConnectionError(err) {
			c.reset()
		}
		c.recordFailure()
		return fmt.Errorf("publish message: %w", err)
	}

	c.recordSuccess()
	c.logger.DebugContext(ctx, "Published expense event", "event_type", ev.Type, "expense_id", ev.ID)
	return nil
}

// ExpenseAdded publishes an expense.added event. Failures are logged.
func (c *Client) ExpenseAdded(ctx context.Context, e core.Expense) {
	c.publishLogged(ctx, NewExpenseEvent(EventExpenseAdded, e))
}

// ExpenseDeleted publishes an expense.deleted event. Failures are logged.
func (c *Client) ExpenseDeleted(ctx context.Context, e core.Expense) {
	c.publishLogged(ctx, NewExpenseEvent(EventExpenseDeleted, e))
}

func (c *Client) publishLogged(ctx context.Context, ev *ExpenseEvent) {
	if err := c.Publish(ctx, ev); err != nil {
		c.logger.WarnContext(ctx, "Failed to publish expense event", "event_type", ev.Type, "expense_id", ev.ID, "error", err)
	}
}

// Consume delivers events to handler until ctx is done. Lost connections
// are re-established with exponential backoff.
func (c *Client) Consume(ctx context.Context, handler Handler) error {
	attempt := 0
	for {
		ch, err := c.ensureChannel(ctx)
		if err != nil {
			wait := exponentialBackoff(attempt)
			c.logger.WarnContext(ctx, "AMQP connection failed, retrying", "error", err, "retry_in", wait.String())
			attempt++
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		}
		attempt = 0

		err = c.consume(ctx, ch, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.WarnContext(ctx, "AMQP consumer interrupted, reconnecting", "error", err)
		c.reset()
	}
}

func (c *Client) consume(ctx context.Context, ch *amqp091.Channel, handler Handler) error {
	msgs, err := ch.Consume(c.queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}
	c.logger.InfoContext(ctx, "Started consuming expense events", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}
			c.handle(ctx, delivery, handler)
		}
	}
}

func (c *Client) handle(ctx context.Context, d amqp091.Delivery, handler Handler) {
	ev, err := ExpenseEventFromJSON(d.Body)
	if err != nil {
		c.logger.ErrorContext(ctx, "Dropping malformed message", "error", err)
		d.Nack(false, false)
		return
	}
	if err := handler(ctx, ev); err != nil {
		c.logger.ErrorContext(ctx, "Failed to handle expense event", "event_type", ev.Type, "expense_id", ev.ID, "error", err)
		d.Nack(false, true)
		return
	}
	d.Ack(false)
}

func (c *Client) isCircuitOpen() bool {
	if atomic.LoadInt32(&c.state) != StateOpen {
		return false
	}
	c.mu.Lock()
	last := c.lastFailure
	c.mu.Unlock()
	if time.Since(last) > openTimeout {
		atomic.CompareAndSwapInt32(&c.state, StateOpen, StateHalfOpen)
		return false
	}
	return true
}

func (c *Client) recordFailure() {
	c.mu.Lock()
	c.lastFailure = time.Now()
	c.mu.Unlock()
	if atomic.AddInt64(&c.failureCount, 1) >= maxFailures {
		if atomic.SwapInt32(&c.state, StateOpen) != StateOpen {
			c.logger.Warn("AMQP circuit breaker opened", "failures", atomic.LoadInt64(&c.failureCount))
		}
	}
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

// exponentialBackoff returns 1s, 2s, 4s... capped at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt > 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "eof", "broken pipe", "channel/connection is not open"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var err error
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err = c.conn.Close()
		c.conn = nil
	}
	return err
}
