package models

import "time"

// OrderCreatedEvent is published after an order is committed to the ledger.
type OrderCreatedEvent struct {
	Event       string    `json:"event"` // "order.created"
	OrderNumber string    `json:"order_number"`
	UserID      string    `json:"user_id"`
	Total       float64   `json:"total"`
	Items       int       `json:"items"`
	Timestamp   time.Time `json:"timestamp"`
}

// Fulfillment event types consumed from the fulfillment pipeline.
const (
	EventOrderShipped   = "order.shipped"
	EventOrderDelivered = "order.delivered"
	EventOrderCancelled = "order.cancelled"
)

// FulfillmentEvent carries a status change request for an order. The consumer
// validates it against the status machine; the pipeline is not trusted to
// send legal sequences.
type FulfillmentEvent struct {
	Event            string    `json:"event"`
	OrderNumber      string    `json:"order_number"`
	TrackingNumber   string    `json:"tracking_number,omitempty"`
	DeliveryEstimate string    `json:"delivery_estimate,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}
