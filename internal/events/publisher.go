package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	exchangeName = "reviewserver.events"
	exchangeType = "topic"

	// Retry configuration
	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
	maxBackoff     = 5 * time.Second
	confirmTimeout = 5 * time.Second

	// confirmations the listener can hold before the connection reader blocks
	confirmBuffer = 64
)

// confirmChannel is the part of *amqp.Channel the publisher drives.
type confirmChannel interface {
	GetNextPublishSeqNo() uint64
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes events to RabbitMQ with publisher confirms
type AMQPPublisher struct {
	conn     *amqp.Connection
	log      *zap.Logger
	timeout  time.Duration
	backoff  time.Duration
	mu       sync.Mutex // guards channel and confirms
	channel  confirmChannel
	confirms <-chan amqp.Confirmation
}

// Connect returns a Nop publisher when url is empty and an AMQPPublisher
// otherwise.
func Connect(url string, log *zap.Logger) (Publisher, error) {
	if url == "" {
		log.Info("No AMQP URL configured, change events are disabled")
		return Nop{}, nil
	}
	p, err := NewPublisher(url, log)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// NewPublisher dials the broker and declares the events exchange.
func NewPublisher(url string, log *zap.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		exchangeName,
		exchangeType,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	if err := channel.Confirm(false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	// one listener for the lifetime of the channel
	confirms := channel.NotifyPublish(make(chan amqp.Confirmation, confirmBuffer))

	log.Info("Connected to RabbitMQ", zap.String("exchange", exchangeName))

	p := newAMQPPublisher(channel, confirms, log)
	p.conn = conn
	return p, nil
}

func newAMQPPublisher(ch confirmChannel, confirms <-chan amqp.Confirmation, log *zap.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		log:      log,
		timeout:  confirmTimeout,
		backoff:  initialBackoff,
		channel:  ch,
		confirms: confirms,
	}
}

// Publish sends event with the event type as routing key, retrying with
// exponential backoff until the broker confirms it.
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		MessageId:    event.EventID,
		Body:         body,
		Headers: amqp.Table{
			"event_type":    event.EventType,
			"event_version": event.EventVersion,
		},
	}

	backoff := p.backoff
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				backoff = min(backoff*2, maxBackoff)
			}
		}

		lastErr = p.publishOnce(ctx, event.EventType, msg)
		if lastErr == nil {
			p.log.Debug("Event published",
				zap.String("event_id", event.EventID),
				zap.String("event_type", event.EventType),
			)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		p.log.Warn("Event publish not confirmed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr),
		)
	}

	return fmt.Errorf("failed to publish event after %d attempts: %w", maxRetries, lastErr)
}

// publishOnce sends msg and waits for the broker confirmation carrying its
// delivery tag. Confirmations left over from earlier timed out attempts are
// discarded.
func (p *AMQPPublisher) publishOnce(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	tag := p.channel.GetNextPublishSeqNo()
	if err := p.channel.PublishWithContext(
		ctx,
		exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		msg,
	); err != nil {
		return err
	}

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	for {
		select {
		case confirm, ok := <-p.confirms:
			if !ok {
				return errors.New("confirm channel closed")
			}
			if confirm.DeliveryTag < tag {
				continue
			}
			if !confirm.Ack {
				return errors.New("event not acknowledged")
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return errors.New("confirmation timeout")
		}
	}
}

func (p *AMQPPublisher) IsHealthy() bool {
	return p.conn != nil && !p.conn.IsClosed()
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.log.Error("Failed to close channel", zap.Error(err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return err
		}
	}
	p.log.Info("Publisher closed")
	return nil
}
