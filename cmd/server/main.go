package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/nandanugg/stickerwalk/config"
	"github.com/nandanugg/stickerwalk/module/core"
	"github.com/nandanugg/stickerwalk/module/core/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	config.SetupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pois, err := config.LoadPOIs(cfg.POIFile)
	if err != nil {
		log.Fatalf("pois: %v", err)
	}

	storeOpts := core.StoreOptions{
		Backend:    cfg.StoreBackend,
		Key:        cfg.StoreKey,
		SQLitePath: cfg.SQLitePath,
	}
	switch cfg.StoreBackend {
	case core.BackendRedis:
		client, err := config.NewRedis(cfg)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer func() { _ = client.Close() }()
		storeOpts.Redis = client
	case core.BackendPostgres:
		db, err := config.NewPostgres(cfg)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer func() { _ = db.Close() }()
		storeOpts.DB = db
	}

	store, closeStore, err := core.OpenStore(ctx, storeOpts)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer func() { _ = closeStore() }()

	amqpConn, err := config.NewRabbitMQ(cfg, "stickerwalk-server")
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer func() { _ = amqpConn.Close() }()

	// resubscribe after a reconnect; the first subscription happens below
	var built atomic.Pointer[core.Module]
	onConnect := func(_ mqtt.Client) {
		m := built.Load()
		if m == nil {
			return
		}
		if err := m.StartSubscribers(); err != nil {
			log.WithError(err).Error("resubscribe failed")
		}
	}
	mqttClient, err := config.NewMQTT(cfg, "", onConnect)
	if err != nil {
		log.Fatalf("mqtt: %v", err)
	}
	defer mqttClient.Disconnect(250)

	coreModule, err := core.Build(core.Options{
		Geofence: service.GeofenceConfig{
			DetectionRadius:      cfg.DetectionRadius,
			NotificationDuration: cfg.NotificationDuration,
			AmbientHideDelay:     cfg.AmbientHideDelay,
		},
		Engine: service.EngineConfig{
			SampleInterval:       cfg.SampleInterval,
			ProviderInitTimeout:  cfg.ProviderInitTimeout,
			ProviderPollInterval: cfg.ProviderPollInterval,
			TestAreaMode:         cfg.TestAreaMode,
		},
		TotalAreas:     cfg.TotalAreas,
		CollectibleMin: cfg.CollectibleMin,
		CollectibleMax: cfg.CollectibleMax,
		SessionID:      cfg.SessionID,
		Areas:          pois.Areas,
		Stickers:       pois.Stickers,
		Sprites:        pois.SpriteMap(),
	}, store, amqpConn, mqttClient)
	if err != nil {
		log.Fatalf("core module: %v", err)
	}

	if err := coreModule.StartSubscribers(); err != nil {
		log.Fatalf("start subscribers: %v", err)
	}
	built.Store(coreModule)

	go func() {
		if err := coreModule.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("engine stopped")
		}
	}()

	r := gin.Default()

	health := config.NewHealthChecker(cfg.StoreBackend, store, amqpConn, mqttClient)
	health.Register(r)

	coreModule.RegisterRoutes(&r.RouterGroup)

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: r}
	go func() {
		log.Infof("listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	if err := coreModule.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("flush collected set")
	}
}
