package models

import "time"

// Event types published to the order events topic.
const (
	EventOrderCreated        = "order.created"
	EventOrderStatusChanged  = "order.status_changed"
	EventOrderCancelled      = "order.cancelled"
	EventReturnRequested     = "return.requested"
	EventReturnStatusChanged = "return.status_changed"
	EventRefundRequested     = "refund.requested"
	EventRefundStatusChanged = "refund.status_changed"
)

// OrderEvent is the payload published to Kafka (and mirrored to SNS) when an
// order changes. Publishing is best-effort and never fails the request.
type OrderEvent struct {
	EventType string      `json:"event_type"`
	OrderID   string      `json:"order_id"`
	UserID    string      `json:"user_id"`
	Status    OrderStatus `json:"status,omitempty"`
	Total     float64     `json:"total,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ClaimEvent is the payload published when a return or refund claim is
// created or progressed.
type ClaimEvent struct {
	EventType string      `json:"event_type"`
	ClaimID   string      `json:"claim_id"`
	OrderID   string      `json:"order_id"`
	ProductID string      `json:"product_id,omitempty"`
	UserID    string      `json:"user_id"`
	Status    ClaimStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}
