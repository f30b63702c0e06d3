package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/nandanugg/stickerwalk/config"
)

const (
	exchangeName = "stickerwalk.events"
	queueName    = "ui_events"
)

type uiEvent struct {
	Type         string `json:"type"`
	SessionID    string `json:"session_id"`
	Area         string `json:"area"`
	StickerIndex *int   `json:"sticker_index"`
	Message      string `json:"message"`
	Available    *bool  `json:"available"`
}

func describe(body []byte) (string, error) {
	var ev uiEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return "", err
	}
	line := fmt.Sprintf("[%s] session=%s", ev.Type, ev.SessionID)
	if ev.Area != "" {
		line += " area=" + ev.Area
	}
	if ev.StickerIndex != nil {
		line += fmt.Sprintf(" sticker=%d", *ev.StickerIndex)
	}
	if ev.Available != nil {
		line += fmt.Sprintf(" available=%t", *ev.Available)
	}
	if ev.Message != "" {
		line += fmt.Sprintf(" message=%q", ev.Message)
	}
	return line, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	config.SetupLogging(cfg)

	conn, err := config.NewRabbitMQ(cfg, "stickerwalk-event-listener")
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbitmq channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(exchangeName, "fanout", true, false, false, false, nil); err != nil {
		log.Fatalf("declare exchange: %v", err)
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Fatalf("declare queue: %v", err)
	}

	if err := ch.QueueBind(queueName, "", exchangeName, false, nil); err != nil {
		log.Fatalf("bind queue: %v", err)
	}

	msgs, err := ch.Consume(queueName, "", true, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	log.Infof("consuming from queue '%s', waiting for ui events...", queueName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Warn("delivery channel closed")
				return
			}
			line, err := describe(msg.Body)
			if err != nil {
				log.WithError(err).Warn("undecodable event")
				continue
			}
			fmt.Println(line)
		}
	}
}
