package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Kind string

const (
	KindRegistered Kind = "registered"
	KindCreated    Kind = "created"
	KindUpdated    Kind = "updated"
	KindRemoved    Kind = "removed"
	KindJoined     Kind = "joined"
	KindLeft       Kind = "left"
)

// Event describes a change to the roster made through the bot.
type Event struct {
	Kind    Kind      `json:"kind"`
	EventID int64     `json:"event_id,omitempty"`
	PsnID   string    `json:"psn_id"`
	ChatID  int64     `json:"chat_id"`
	At      time.Time `json:"at"`
}

// RoutingKey is the topic key an event is published under.
func (e Event) RoutingKey() string {
	return "rsvp." + string(e.Kind)
}

type URL string

type Exchange string

const DefaultExchange Exchange = "dinklebot"

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Publisher struct {
	ch       Channel
	exchange Exchange
}

// NewPublisher declares exchange as a durable topic exchange.
func NewPublisher(ch Channel, exchange Exchange) (*Publisher, error) {
	err := ch.ExchangeDeclare(string(exchange), amqp.ExchangeTopic, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}

	return &Publisher{ch: ch, exchange: exchange}, nil
}

func (p *Publisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	return p.ch.PublishWithContext(
		ctx,
		string(p.exchange),
		evt.RoutingKey(),
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   evt.At,
			Body:        payload,
		},
	)
}

// Dial connects to the broker at url and returns a publisher on a fresh
// channel.
func Dial(url URL, exchange Exchange) (*Publisher, func(), error) {
	conn, err := amqp.Dial(string(url))
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	p, err := NewPublisher(ch, exchange)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}

	return p, func() {
		_ = ch.Close()
		_ = conn.Close()
	}, nil
}

// Discard drops every event. It stands in when no broker is configured.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
