package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"subscription-tracker/internal/models"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// channel is the subset of *amqp091.Channel the publisher needs
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher sends domain events to a durable direct exchange
type Publisher struct {
	conn         *amqp091.Connection
	channel      channel
	exchangeName string
	routingKey   string
}

// NewPublisher dials url and declares the exchange
func NewPublisher(url, exchangeName, routingKey string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchangeName, // name
		"direct",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{
		conn:         conn,
		channel:      ch,
		exchangeName: exchangeName,
		routingKey:   routingKey,
	}, nil
}

func newPublisherWithChannel(ch channel, exchangeName, routingKey string) *Publisher {
	return &Publisher{channel: ch, exchangeName: exchangeName, routingKey: routingKey}
}

// PublishSubscriptionDetected publishes a persistent subscription.detected message
func (p *Publisher) PublishSubscriptionDetected(ctx context.Context, subscription *models.Subscription) error {
	msg := NewSubscriptionDetectedMessage(subscription)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName, // exchange
		p.routingKey,   // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    msg.Timestamp,
			Type:         EventSubscriptionDetected,
			MessageId:    msg.SubscriptionID,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.InfoContext(ctx, "Published subscription detected event",
		"subscription_id", msg.SubscriptionID,
		"exchange", p.exchangeName,
		"routing_key", p.routingKey)

	return nil
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NoopPublisher drops every event. It is used when AMQP_URL is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishSubscriptionDetected(context.Context, *models.Subscription) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
