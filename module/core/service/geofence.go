package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nandanugg/stickerwalk/module/core/domain"
	"github.com/nandanugg/stickerwalk/module/core/internal/metrics"
)

type GeofenceConfig struct {
	DetectionRadius      float64
	NotificationDuration time.Duration
	AmbientHideDelay     time.Duration
}

type collector interface {
	Register(ctx context.Context, area string, index int) (bool, error)
}

type presenter interface {
	SetCurrentArea(ctx context.Context, area string)
	SetCameraAvailable(ctx context.Context, available bool)
	Vibrate(ctx context.Context)
	Discovered(ctx context.Context, poi *domain.POI, image string)
}

type notifier interface {
	Show(ctx context.Context, msg, image string, d time.Duration)
	ScheduleHide(ctx context.Context, d time.Duration)
}

type spriteResolver interface {
	Sprite(area string, index int) (string, bool)
}

// Result describes what a single sample did.
type Result struct {
	Hit             *domain.POI
	Notified        bool
	Collected       bool
	CameraAvailable bool
}

// GeofenceService evaluates position samples against the registry. It is
// not safe for concurrent use; the engine serializes samples.
type GeofenceService struct {
	cfg       GeofenceConfig
	registry  *Registry
	collector collector
	presenter presenter
	notifier  notifier
	sprites   spriteResolver
}

func NewGeofenceService(cfg GeofenceConfig, registry *Registry, c collector, p presenter, n notifier, sprites spriteResolver) *GeofenceService {
	return &GeofenceService{
		cfg:       cfg,
		registry:  registry,
		collector: c,
		presenter: p,
		notifier:  n,
		sprites:   sprites,
	}
}

func (s *GeofenceService) Evaluate(ctx context.Context, pos domain.Position) Result {
	metrics.SamplesTotal.Inc()

	var res Result
	hit, ok := s.registry.FirstInRange(pos, s.cfg.DetectionRadius)
	if ok {
		res.Hit = hit
		if hit.IsSticker() {
			s.handleSticker(ctx, hit, &res)
		} else {
			res.CameraAvailable = true
			s.handleArea(ctx, hit, &res)
		}
	}

	s.registry.ResetAreaTriggersOutsideRadius(pos, s.cfg.DetectionRadius)
	s.presenter.SetCameraAvailable(ctx, res.CameraAvailable)
	if !ok {
		s.notifier.ScheduleHide(ctx, s.cfg.AmbientHideDelay)
	}
	return res
}

func (s *GeofenceService) handleSticker(ctx context.Context, poi *domain.POI, res *Result) {
	inserted, err := s.collector.Register(ctx, poi.AreaName, poi.StickerIndex)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"area":  poi.AreaName,
			"index": poi.StickerIndex,
		}).Warn("register collection")
	}
	res.Collected = inserted

	if poi.Triggered {
		return
	}
	poi.Triggered = true
	metrics.TriggersTotal.WithLabelValues(string(domain.KindSticker)).Inc()

	image, found := s.sprites.Sprite(poi.AreaName, poi.StickerIndex)
	if !found {
		log.WithFields(log.Fields{
			"area":  poi.AreaName,
			"index": poi.StickerIndex,
		}).Warn(domain.ErrConfigurationGap.Error() + ": no sprite for sticker")
	}

	s.presenter.Discovered(ctx, poi, image)
	s.presenter.Vibrate(ctx)
	s.notifier.Show(ctx, poi.Message, image, s.cfg.NotificationDuration)
	res.Notified = true
}

func (s *GeofenceService) handleArea(ctx context.Context, poi *domain.POI, res *Result) {
	if poi.Triggered {
		return
	}
	poi.Triggered = true
	metrics.TriggersTotal.WithLabelValues(string(domain.KindArea)).Inc()

	s.presenter.Discovered(ctx, poi, "")
	s.presenter.Vibrate(ctx)
	s.presenter.SetCurrentArea(ctx, poi.AreaName)
	// area messages stay up until the user walks out
	s.notifier.Show(ctx, poi.Message, "", 0)
	res.Notified = true
}
