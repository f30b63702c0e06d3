package core

import (
	"context"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"github.com/nandanugg/stickerwalk/module/core/domain"
	handler "github.com/nandanugg/stickerwalk/module/core/internal/handler/http"
	"github.com/nandanugg/stickerwalk/module/core/internal/handler/subscriber"
	"github.com/nandanugg/stickerwalk/module/core/internal/metrics"
	"github.com/nandanugg/stickerwalk/module/core/internal/repository/publisher"
	"github.com/nandanugg/stickerwalk/module/core/internal/repository/publisher/rabbitmq"
	"github.com/nandanugg/stickerwalk/module/core/service"
)

type Options struct {
	Geofence       service.GeofenceConfig
	Engine         service.EngineConfig
	TotalAreas     int
	CollectibleMin int
	CollectibleMax int
	SessionID      string

	Areas    []domain.AreaPOI
	Stickers []domain.StickerPOI
	Sprites  map[domain.SpriteKey]string
}

type Module struct {
	Engine     *service.Engine
	Collection *service.CollectionService
	Progress   *service.ProgressService
	Display    *service.Display
	Visits     *service.VisitService
	Feed       *service.PositionFeed

	progressHandler *handler.ProgressHandler
	sessionHandler  *handler.SessionHandler
	subscriber      *subscriber.PositionSubscriber
}

func Build(opts Options, store Store, amqpConn *amqp.Connection, mqttClient mqtt.Client) (*Module, error) {
	var pub publisher.EventPublisher
	if amqpConn != nil {
		eventPub, err := rabbitmq.NewEventPublisher(amqpConn)
		if err != nil {
			return nil, fmt.Errorf("event publisher: %w", err)
		}
		pub = eventPub
	}
	return build(opts, store, pub, mqttClient), nil
}

func build(opts Options, store Store, pub publisher.EventPublisher, mqttClient mqtt.Client) *Module {
	registry := service.NewRegistry(opts.Areas, opts.Stickers)
	for _, err := range registry.Validate() {
		log.WithError(err).Warn("poi configuration")
	}

	sprites := service.SpriteCatalog(opts.Sprites)
	display := service.NewDisplay(pub, opts.SessionID)
	notifier := service.NewNotifier(display)
	collection := service.NewCollectionService(store)
	progress := service.NewProgressService(collection, registry.Areas(), opts.CollectibleMin, opts.CollectibleMax)
	progress.Subscribe(func() {
		display.UpdateInventoryUI(context.Background())
	})

	geofence := service.NewGeofenceService(opts.Geofence, registry, collection, display, notifier, sprites)
	feed := service.NewPositionFeed()
	engine := service.NewEngine(opts.Engine, feed, geofence, collection, display)
	visits := service.NewVisitService(opts.TotalAreas, display, display)

	m := &Module{
		Engine:          engine,
		Collection:      collection,
		Progress:        progress,
		Display:         display,
		Visits:          visits,
		Feed:            feed,
		progressHandler: handler.NewProgressHandler(progress, sprites),
		sessionHandler:  handler.NewSessionHandler(engine, display, visits),
	}
	if mqttClient != nil {
		m.subscriber = subscriber.NewPositionSubscriber(mqttClient, feed)
	}

	log.WithFields(log.Fields{
		"session": display.SessionID(),
		"pois":    registry.Len(),
		"areas":   len(registry.Areas()),
	}).Info("core module built")
	return m
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	m.progressHandler.Register(r)
	m.sessionHandler.Register(r)
}

func (m *Module) StartSubscribers() error {
	if m.subscriber == nil {
		return fmt.Errorf("no mqtt client configured")
	}
	return m.subscriber.Start()
}

// Run starts the engine and samples until ctx is done. A provider that never
// comes up leaves the engine idle; the collected set is still flushed on
// Shutdown.
func (m *Module) Run(ctx context.Context) error {
	if err := m.Engine.Start(ctx); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	return m.Engine.Run(ctx)
}

func (m *Module) Shutdown(ctx context.Context) error {
	return m.Engine.OnTerminate(ctx)
}
