package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nandanugg/stickerwalk/module/core/domain"
	"github.com/nandanugg/stickerwalk/module/core/internal/repository/publisher"
)

var _ publisher.EventPublisher = (*EventPublisher)(nil)

const (
	ExchangeName = "stickerwalk.events"
	QueueName    = "ui_events"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type EventPublisher struct {
	ch channel
}

// Declare sets up the fanout exchange and the default queue bound to it.
func Declare(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(QueueName, "", ExchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

func NewEventPublisher(conn *amqp.Connection) (*EventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err := Declare(ch); err != nil {
		return nil, err
	}
	return &EventPublisher{ch: ch}, nil
}

type eventMessage struct {
	ID           string `json:"id"`
	SessionID    string `json:"session_id"`
	Type         string `json:"type"`
	Area         string `json:"area,omitempty"`
	StickerIndex *int   `json:"sticker_index,omitempty"`
	Message      string `json:"message,omitempty"`
	Image        string `json:"image,omitempty"`
	Available    *bool  `json:"available,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}

func toMessage(event *domain.UIEvent) eventMessage {
	msg := eventMessage{
		ID:        event.ID,
		SessionID: event.SessionID,
		Type:      string(event.Type),
		Area:      event.Area,
		Message:   event.Message,
		Image:     event.Image,
		Timestamp: event.Timestamp.Unix(),
	}
	switch event.Type {
	case domain.EventStickerDiscovered:
		idx := event.StickerIndex
		msg.StickerIndex = &idx
	case domain.EventCameraAvailability:
		available := event.Available
		msg.Available = &available
	}
	return msg
}

func (p *EventPublisher) Publish(ctx context.Context, event *domain.UIEvent) error {
	body, err := json.Marshal(toMessage(event))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return p.ch.PublishWithContext(ctx, ExchangeName, string(event.Type), false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   event.ID,
		Timestamp:   event.Timestamp,
		Body:        body,
	})
}
