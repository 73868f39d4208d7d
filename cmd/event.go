package cmd

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/finance-tracker/internal/core/events"
)

// subscribeChangeLog logs every collection change the stores publish.
func subscribeChangeLog(bus *events.EventBus, lg *slog.Logger) {
	handler := func(ctx context.Context, event events.Event) error {
		changed, ok := event.(*events.CollectionChangedEvent)
		if !ok {
			lg.Debug("ignoring unexpected event", "event_type", event.EventType())
			return nil
		}
		lg.Info("collection changed",
			"event_id", changed.EventID(),
			"collection", changed.Collection,
			"operation", changed.Operation,
			"entity_id", changed.EntityID,
			"count", changed.Count)
		return nil
	}

	bus.Subscribe(events.EventTypeCategoriesChanged, handler)
	bus.Subscribe(events.EventTypeTransactionsChanged, handler)
}
