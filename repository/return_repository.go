package repository

import (
	"context"

	"order-care-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReturnRepository defines the interface for return-request data access.
type ReturnRepository interface {
	Create(ctx context.Context, req *models.ReturnRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ReturnRequest, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.ReturnRequest, int64, error)
	FindAll(ctx context.Context, page, limit int) ([]models.ReturnRequest, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ClaimStatus) error
}

// GormReturnRepository implements ReturnRepository using GORM.
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository.
func NewGormReturnRepository(db *gorm.DB) ReturnRepository {
	return &GormReturnRepository{db: db}
}

// Create inserts a new return request.
func (r *GormReturnRepository) Create(ctx context.Context, req *models.ReturnRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// FindByID retrieves a return request by id.
func (r *GormReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.ReturnRequest, error) {
	var req models.ReturnRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// FindByUserID retrieves a customer's own return requests with pagination.
func (r *GormReturnRepository) FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.ReturnRequest, int64, error) {
	var requests []models.ReturnRequest
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.ReturnRequest{}).
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

// FindAll retrieves all return requests with pagination (admin).
func (r *GormReturnRepository) FindAll(ctx context.Context, page, limit int) ([]models.ReturnRequest, int64, error) {
	var requests []models.ReturnRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ReturnRequest{})

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

// UpdateStatus sets the claim status unconditionally (last write wins).
func (r *GormReturnRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ClaimStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.ReturnRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
