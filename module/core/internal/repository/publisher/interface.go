package publisher

import (
	"context"

	"github.com/nandanugg/stickerwalk/module/core/domain"
)

type EventPublisher interface {
	Publish(ctx context.Context, event *domain.UIEvent) error
}
