package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus represents the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusReturned  OrderStatus = "Returned"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// RefundStatus is the denormalized refund marker kept on the order itself.
// It is never updated implicitly when a RefundRequest changes status; only
// the explicit admin reconciliation endpoint touches it.
type RefundStatus string

const (
	RefundStatusNone      RefundStatus = "None"
	RefundStatusRequested RefundStatus = "Requested"
	RefundStatusApproved  RefundStatus = "Approved"
	RefundStatusRefunded  RefundStatus = "Refunded"
	RefundStatusRejected  RefundStatus = "Rejected"
)

// orderTransitions is the legal status transition table. Repeating the
// current status is always legal and still appends a history entry.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {OrderStatusReturned},
	OrderStatusReturned:  {},
	OrderStatusCancelled: {},
}

// ValidOrderStatus reports whether s is one of the known status values.
func ValidOrderStatus(s OrderStatus) bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return ValidOrderStatus(from)
	}
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is the durable record of a purchase.
type Order struct {
	ID              uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	Items           []OrderItem        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Total           float64            `gorm:"not null" json:"total"`
	PaymentMethod   string             `gorm:"type:varchar(40);not null;default:'COD'" json:"payment_method"`
	Status          OrderStatus        `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	RefundStatus    RefundStatus       `gorm:"type:varchar(20);not null;default:'None'" json:"refund_status"`
	StatusHistory   []OrderStatusEvent `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"status_history"`
	ShippingAddress ShippingAddress    `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	CreatedAt       time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt     `gorm:"index" json:"-"`
}

// OrderItem is a line item with name and price snapshotted at checkout time.
// The snapshot is never re-derived from the live catalog record.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ProductID string    `gorm:"type:varchar(64);not null" json:"product_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Price     float64   `gorm:"not null" json:"price"`
	Quantity  int       `gorm:"not null" json:"quantity"`
}

// Subtotal returns the snapshotted line total.
func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// OrderStatusEvent is one entry of an order's append-only audit trail.
// Entries are only ever appended, never mutated or removed.
type OrderStatusEvent struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	OrderID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"-"`
	Status    OrderStatus `gorm:"type:varchar(20);not null" json:"status"`
	Note      string      `gorm:"type:varchar(255)" json:"note,omitempty"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"timestamp"`
}

// ShippingAddress is a denormalized snapshot of where the order ships.
type ShippingAddress struct {
	Name    string `gorm:"type:varchar(120)" json:"name" binding:"required"`
	Phone   string `gorm:"type:varchar(20)" json:"phone" binding:"required"`
	Street  string `gorm:"type:varchar(255)" json:"street" binding:"required"`
	City    string `gorm:"type:varchar(120)" json:"city" binding:"required"`
	State   string `gorm:"type:varchar(120)" json:"state" binding:"required"`
	Pincode string `gorm:"type:varchar(12)" json:"pincode" binding:"required"`
}

// CreateOrderRequest is the payload for placing a new order.
type CreateOrderRequest struct {
	Items []struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,dive"`
	PaymentMethod   string          `json:"payment_method"`
	ShippingAddress ShippingAddress `json:"shipping_address" binding:"required"`
}

// UpdateOrderStatusRequest is the admin payload for a status transition.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
	Note   string      `json:"note"`
}
