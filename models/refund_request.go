package models

import (
	"time"

	"github.com/google/uuid"
)

// RefundMethod is how the customer wants to be made whole.
type RefundMethod string

const (
	RefundMethodBankTransfer RefundMethod = "Bank Transfer"
	RefundMethodWallet       RefundMethod = "Wallet"
	RefundMethodReplacement  RefundMethod = "Replacement"
)

// ValidRefundMethod reports whether m is a known refund method.
func ValidRefundMethod(m RefundMethod) bool {
	switch m {
	case RefundMethodBankTransfer, RefundMethodWallet, RefundMethodReplacement:
		return true
	}
	return false
}

// RefundRequest is a customer (or staff-entered) claim for money back.
// The compound unique index backs the application-level duplicate check so a
// lost read-then-write race still cannot produce two claims for the same
// order/product/user. ProductID may be empty for an order-level claim.
// Rows are hard-deleted: an admin delete must free the slot for re-filing.
type RefundRequest struct {
	ID           uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID      uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_refund_claim" json:"order_id"`
	ProductID    string       `gorm:"type:varchar(64);uniqueIndex:idx_refund_claim" json:"product_id,omitempty"`
	UserID       uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_refund_claim;index" json:"user_id"`
	Reason       string       `gorm:"type:text" json:"reason"`
	RefundMethod RefundMethod `gorm:"type:varchar(20);not null;default:'Bank Transfer'" json:"refund_method"`
	RefundAmount float64      `gorm:"not null;default:0" json:"refund_amount"`
	AdminNote    string       `gorm:"type:text" json:"admin_note,omitempty"`
	Status       ClaimStatus  `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// CreateRefundRequest is the customer payload for requesting a refund.
type CreateRefundRequest struct {
	OrderID      uuid.UUID    `json:"order_id" binding:"required"`
	ProductID    string       `json:"product_id"`
	Reason       string       `json:"reason" binding:"required"`
	RefundMethod RefundMethod `json:"refund_method"`
	RefundAmount float64      `json:"refund_amount" binding:"gte=0"`
}

// AdminCreateRefundRequest is the privileged payload for staff-entered
// refunds (phone or in-store initiated). No ownership or duplicate check is
// applied on this path.
type AdminCreateRefundRequest struct {
	OrderID      uuid.UUID    `json:"order_id" binding:"required"`
	ProductID    string       `json:"product_id"`
	UserID       uuid.UUID    `json:"user_id" binding:"required"`
	Reason       string       `json:"reason"`
	RefundMethod RefundMethod `json:"refund_method"`
	RefundAmount float64      `json:"refund_amount" binding:"gte=0"`
	AdminNote    string       `json:"admin_note"`
}
