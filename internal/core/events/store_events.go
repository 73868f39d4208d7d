package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeCategoriesChanged   = "categories.changed"
	EventTypeTransactionsChanged = "transactions.changed"
)

// Operation names the store call that changed a local collection.
type Operation string

const (
	OperationRefresh Operation = "refresh"
	OperationAdd     Operation = "add"
	OperationUpdate  Operation = "update"
	OperationRemove  Operation = "remove"
)

// CollectionChangedEvent is published after a store patched its local
// collection. Views re-render from the store when they receive it.
type CollectionChangedEvent struct {
	BaseEvent
	Collection string    `json:"collection"`
	Operation  Operation `json:"operation"`
	EntityID   string    `json:"entity_id,omitempty"`
	Count      int       `json:"count"`
}

func NewCollectionChangedEvent(eventType, collection string, op Operation, entityID string, count int) *CollectionChangedEvent {
	return &CollectionChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"collection": collection,
				"operation":  string(op),
				"entity_id":  entityID,
				"count":      count,
			},
		},
		Collection: collection,
		Operation:  op,
		EntityID:   entityID,
		Count:      count,
	}
}
