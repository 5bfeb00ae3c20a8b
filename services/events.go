package services

import "time"

// Realtime event types.
const (
	EventOrderCreated    = "order_created"
	EventOrderItemStatus = "order_item_status"
	EventOrderStatus     = "order_status"
)

type OrderEvent struct {
	Type           string    `json:"type"`
	OrderID        uint      `json:"order_id"`
	OrderItemID    uint      `json:"order_item_id,omitempty"`
	TableID        uint      `json:"table_id"`
	FoodcourtIDs   []uint    `json:"foodcourt_ids"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// EventPublisher receives order events after their transaction commits.
type EventPublisher interface {
	PublishOrderEvent(evt OrderEvent)
}

type noopPublisher struct{}

func (noopPublisher) PublishOrderEvent(OrderEvent) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
