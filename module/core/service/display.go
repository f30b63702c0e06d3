package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/nandanugg/stickerwalk/module/core/domain"
	"github.com/nandanugg/stickerwalk/module/core/internal/metrics"
	"github.com/nandanugg/stickerwalk/module/core/internal/repository/publisher"
)

// Display turns engine decisions into UI events and keeps the last known
// presentation state for readers. Publish failures are logged and dropped.
type Display struct {
	pub       publisher.EventPublisher
	sessionID string
	now       func() time.Time

	mu    sync.RWMutex
	state domain.DisplayState
}

func NewDisplay(pub publisher.EventPublisher, sessionID string) *Display {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return &Display{
		pub:       pub,
		sessionID: sessionID,
		now:       time.Now,
	}
}

func (d *Display) SessionID() string {
	return d.sessionID
}

func (d *Display) State() domain.DisplayState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

func (d *Display) CurrentArea() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state.CurrentArea
}

func (d *Display) SetCurrentArea(ctx context.Context, area string) {
	d.mu.Lock()
	d.state.CurrentArea = area
	d.mu.Unlock()
	d.publish(ctx, &domain.UIEvent{Type: domain.EventCurrentArea, Area: area})
}

// SetCameraAvailable publishes only on change; it is called on every sample.
func (d *Display) SetCameraAvailable(ctx context.Context, available bool) {
	d.mu.Lock()
	changed := d.state.CameraAvailable != available
	d.state.CameraAvailable = available
	d.mu.Unlock()
	if changed {
		d.publish(ctx, &domain.UIEvent{Type: domain.EventCameraAvailability, Available: available})
	}
}

// SetStatus publishes only on change.
func (d *Display) SetStatus(ctx context.Context, msg string) {
	d.mu.Lock()
	changed := d.state.Status != msg
	d.state.Status = msg
	d.mu.Unlock()
	if changed {
		d.publish(ctx, &domain.UIEvent{Type: domain.EventStatus, Message: msg})
	}
}

func (d *Display) Vibrate(ctx context.Context) {
	d.publish(ctx, &domain.UIEvent{Type: domain.EventVibrate})
}

func (d *Display) UpdateInventoryUI(ctx context.Context) {
	d.publish(ctx, &domain.UIEvent{Type: domain.EventInventoryChanged})
}

func (d *Display) Discovered(ctx context.Context, poi *domain.POI, image string) {
	ev := &domain.UIEvent{
		Type:    domain.EventAreaDiscovered,
		Area:    poi.AreaName,
		Message: poi.Message,
	}
	if poi.IsSticker() {
		ev.Type = domain.EventStickerDiscovered
		ev.StickerIndex = poi.StickerIndex
		ev.Image = image
	}
	d.publish(ctx, ev)
}

func (d *Display) ShowNotification(ctx context.Context, msg, image string) {
	d.mu.Lock()
	d.state.Notification = msg
	d.state.NotificationImage = image
	d.state.NotificationVisible = true
	d.mu.Unlock()
	d.publish(ctx, &domain.UIEvent{Type: domain.EventNotificationShown, Message: msg, Image: image})
}

func (d *Display) HideNotification(ctx context.Context) {
	d.mu.Lock()
	d.state.Notification = ""
	d.state.NotificationImage = ""
	d.state.NotificationVisible = false
	d.mu.Unlock()
	d.publish(ctx, &domain.UIEvent{Type: domain.EventNotificationHidden})
}

func (d *Display) VisitConfirmed(ctx context.Context, area string) {
	d.publish(ctx, &domain.UIEvent{Type: domain.EventVisitConfirmed, Area: area})
}

func (d *Display) publish(ctx context.Context, ev *domain.UIEvent) {
	if d.pub == nil {
		return
	}
	ev.ID = uuid.NewString()
	ev.SessionID = d.sessionID
	ev.Timestamp = d.now()
	if err := d.pub.Publish(ctx, ev); err != nil {
		metrics.PublishFailuresTotal.Inc()
		log.WithError(err).WithField("type", ev.Type).Warn("publish ui event")
	}
}
