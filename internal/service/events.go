package service

import (
	"context"

	"github.com/Skotchmaster/pizza_shop/internal/logging"
)

// Publisher emits domain events. A nil Publisher disables publishing.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// publish is best-effort: a broker failure is logged and never fails the
// calling operation.
func publish(ctx context.Context, p Publisher, topic, key string, event any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", topic, "error", err)
	}
}
