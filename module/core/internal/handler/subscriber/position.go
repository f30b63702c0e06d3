package subscriber

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/nandanugg/stickerwalk/module/core/domain"
)

const (
	PositionTopic = "stickerwalk/device/+/position"
	StatusTopic   = "stickerwalk/device/+/status"
)

type positionFeed interface {
	Update(pos domain.Position) bool
	SetStatus(status domain.ProviderStatus)
}

type positionMessage struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Timestamp int64   `json:"timestamp"`
}

type statusMessage struct {
	Status string `json:"status"`
}

// PositionSubscriber feeds resolved device positions and provider status
// from MQTT into the engine's position feed.
type PositionSubscriber struct {
	client mqtt.Client
	feed   positionFeed
}

func NewPositionSubscriber(client mqtt.Client, feed positionFeed) *PositionSubscriber {
	return &PositionSubscriber{client: client, feed: feed}
}

func (s *PositionSubscriber) Start() error {
	token := s.client.SubscribeMultiple(map[string]byte{
		PositionTopic: 1,
		StatusTopic:   1,
	}, s.route)
	token.Wait()
	return token.Error()
}

func (s *PositionSubscriber) route(c mqtt.Client, msg mqtt.Message) {
	if matchesSuffix(msg.Topic(), "/status") {
		s.handleStatus(c, msg)
		return
	}
	s.handlePosition(c, msg)
}

func (s *PositionSubscriber) handlePosition(_ mqtt.Client, msg mqtt.Message) {
	var raw positionMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		log.WithError(err).Warn("invalid position message")
		return
	}

	if err := validatePositionMessage(&raw); err != nil {
		log.WithError(err).Warn("position validation error")
		return
	}

	pos := domain.Position{
		Lat:                raw.Latitude,
		Lon:                raw.Longitude,
		HorizontalAccuracy: raw.Accuracy,
		Timestamp:          time.UnixMilli(raw.Timestamp),
	}
	if !s.feed.Update(pos) {
		log.WithField("topic", msg.Topic()).Debug("dropped out-of-order position")
	}
}

func (s *PositionSubscriber) handleStatus(_ mqtt.Client, msg mqtt.Message) {
	var raw statusMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		log.WithError(err).Warn("invalid status message")
		return
	}
	status := domain.ProviderStatus(raw.Status)
	if !status.Valid() {
		log.WithField("status", raw.Status).Warn("unknown provider status")
		return
	}
	log.WithField("status", status).Info("location provider status")
	s.feed.SetStatus(status)
}

func validatePositionMessage(msg *positionMessage) error {
	if msg.Latitude < -90 || msg.Latitude > 90 {
		return fmt.Errorf("latitude: must be between -90 and 90")
	}
	if msg.Longitude < -180 || msg.Longitude > 180 {
		return fmt.Errorf("longitude: must be between -180 and 180")
	}
	if msg.Accuracy < 0 {
		return fmt.Errorf("accuracy: must not be negative")
	}
	if msg.Timestamp <= 0 {
		return fmt.Errorf("timestamp: must be positive")
	}
	return nil
}

func matchesSuffix(topic, suffix string) bool {
	return len(topic) >= len(suffix) && topic[len(topic)-len(suffix):] == suffix
}
