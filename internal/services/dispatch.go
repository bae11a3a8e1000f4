// Package services is the application layer: each service loads snapshots,
// rebuilds the aggregate, invokes behavior, persists under the version guard
// and publishes the drained events after commit.
package services

import (
	"context"
	"encoding/json"

	"github.com/novahq/taskhub-backend/internal/domain/events"
	"github.com/novahq/taskhub-backend/internal/events/bus"
	"github.com/novahq/taskhub-backend/internal/observability"
	"github.com/novahq/taskhub-backend/internal/platform/logger"
)

// eventSource is the slice of the aggregate API the dispatcher needs.
type eventSource interface {
	DomainEvents() []events.Event
	ClearDomainEvents()
}

type eventDispatcher struct {
	log     *logger.Logger
	bus     bus.Bus
	metrics *observability.Metrics
}

func newEventDispatcher(log *logger.Logger, b bus.Bus, metrics *observability.Metrics) *eventDispatcher {
	return &eventDispatcher{log: log.With("component", "EventDispatcher"), bus: b, metrics: metrics}
}

// dispatch publishes the recorded events in order and clears the recorder.
// Called only after a successful commit; a failed publish is logged and the
// event dropped.
func (d *eventDispatcher) dispatch(ctx context.Context, src eventSource) {
	if d == nil || src == nil {
		return
	}
	for _, ev := range src.DomainEvents() {
		if d.bus == nil {
			break
		}
		payload, err := json.Marshal(ev)
		if err != nil {
			d.log.Warn("event marshal failed", "event", ev.EventName(), "error", err)
			d.metrics.IncEventPublishFailed(ev.EventName())
			continue
		}
		msg := bus.Message{Event: ev.EventName(), At: ev.OccurredAt(), Payload: payload}
		if err := d.bus.Publish(ctx, msg); err != nil {
			d.log.Warn("event publish failed", "event", ev.EventName(), "error", err)
			d.metrics.IncEventPublishFailed(ev.EventName())
			continue
		}
		d.metrics.IncEventPublished(ev.EventName())
	}
	src.ClearDomainEvents()
}
