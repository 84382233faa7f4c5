package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReturnRequest is a customer claim to send an item back. It holds weak
// references to the order, product and user; the referenced order may be in
// any status by the time the claim is processed.
type ReturnRequest struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID string         `gorm:"type:varchar(64);not null" json:"product_id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Reason    string         `gorm:"type:text;not null" json:"reason"`
	Status    ClaimStatus    `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CreateReturnRequest is the customer payload for requesting a return.
type CreateReturnRequest struct {
	OrderID   uuid.UUID `json:"order_id" binding:"required"`
	ProductID string    `json:"product_id" binding:"required"`
	Reason    string    `json:"reason" binding:"required"`
}
