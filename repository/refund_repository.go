package repository

import (
	"context"

	"order-care-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefundRepository defines the interface for refund-request data access.
type RefundRepository interface {
	Create(ctx context.Context, req *models.RefundRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.RefundRequest, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.RefundRequest, int64, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.RefundRequest, error)
	FindAll(ctx context.Context, page, limit int) ([]models.RefundRequest, int64, error)
	ExistsForClaim(ctx context.Context, orderID uuid.UUID, productID string, userID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ClaimStatus, adminNote string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GormRefundRepository implements RefundRepository using GORM.
type GormRefundRepository struct {
	db *gorm.DB
}

// NewGormRefundRepository creates a new GormRefundRepository.
func NewGormRefundRepository(db *gorm.DB) RefundRepository {
	return &GormRefundRepository{db: db}
}

// Create inserts a new refund request. The idx_refund_claim unique index
// rejects a duplicate (order, product, user) claim even if the caller's
// pre-check lost a race.
func (r *GormRefundRepository) Create(ctx context.Context, req *models.RefundRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// FindByID retrieves a refund request by id.
func (r *GormRefundRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.RefundRequest, error) {
	var req models.RefundRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// FindByUserID retrieves a customer's own refund requests with pagination.
func (r *GormRefundRepository) FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.RefundRequest, int64, error) {
	var requests []models.RefundRequest
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.RefundRequest{}).
		Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// FindByOrderID retrieves every refund request filed against an order.
func (r *GormRefundRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.RefundRequest, error) {
	var requests []models.RefundRequest
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// FindAll retrieves all refund requests with pagination (admin).
func (r *GormRefundRepository) FindAll(ctx context.Context, page, limit int) ([]models.RefundRequest, int64, error) {
	var requests []models.RefundRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&models.RefundRequest{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// ExistsForClaim reports whether a refund request already matches the
// (order, product, user) triple.
func (r *GormRefundRepository) ExistsForClaim(ctx context.Context, orderID uuid.UUID, productID string, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RefundRequest{}).
		Where("order_id = ? AND product_id = ? AND user_id = ?", orderID, productID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus sets the claim status and, when provided, the admin note.
// Last write wins; no concurrency token is checked.
func (r *GormRefundRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ClaimStatus, adminNote string) error {
	updates := map[string]interface{}{"status": status}
	if adminNote != "" {
		updates["admin_note"] = adminNote
	}

	result := r.db.WithContext(ctx).
		Model(&models.RefundRequest{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a refund request outright, freeing the claim slot.
func (r *GormRefundRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RefundRequest{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
