package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"order-care-service/models"
	awspkg "order-care-service/pkg/aws"
	"order-care-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// returnWindowDays is the eligibility window, anchored on order creation.
const returnWindowDays = 7

// ReturnListResponse is the paginated return-request listing payload.
type ReturnListResponse struct {
	Returns []models.ReturnRequest `json:"returns"`
	Meta    MetaData               `json:"meta"`
}

// ReturnService defines the interface for return-request business logic.
type ReturnService interface {
	CreateReturn(ctx context.Context, userID string, req *models.CreateReturnRequest) (*models.ReturnRequest, *ServiceError)
	GetUserReturns(ctx context.Context, userID string, page, limit int) (*ReturnListResponse, *ServiceError)
	GetAllReturns(ctx context.Context, page, limit int) (*ReturnListResponse, *ServiceError)
	UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateClaimStatusRequest) (*models.ReturnRequest, *ServiceError)
}

// returnServiceImpl implements ReturnService.
type returnServiceImpl struct {
	returnRepo repository.ReturnRepository
	orderRepo  repository.OrderRepository
	events     *EventPublisher
	metrics    MetricsRecorder
	logger     *zap.Logger
	now        func() time.Time
}

// NewReturnService creates a new ReturnService.
func NewReturnService(
	returnRepo repository.ReturnRepository,
	orderRepo repository.OrderRepository,
	events *EventPublisher,
	metrics MetricsRecorder,
	logger *zap.Logger,
) ReturnService {
	return &returnServiceImpl{
		returnRepo: returnRepo,
		orderRepo:  orderRepo,
		events:     events,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateReturn files a return claim for an order the caller owns. The order
// lookup joins id and owner so a non-owner sees the same not-found as a
// nonexistent order. Nothing prevents two claims for the same order+product;
// only the age gate and ownership are enforced here.
func (s *returnServiceImpl) CreateReturn(ctx context.Context, userID string, req *models.CreateReturnRequest) (*models.ReturnRequest, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errValidation("Invalid user ID format")
	}

	order, err := s.orderRepo.FindByIDAndUserID(ctx, req.OrderID, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("Order not found")
		}
		s.logger.Error("Failed to fetch order", zap.String("order_id", req.OrderID.String()), zap.Error(err))
		return nil, errStorage("Failed to fetch order")
	}

	ageInDays := int(s.now().Sub(order.CreatedAt).Hours() / 24)
	if ageInDays > returnWindowDays {
		return nil, errEligibilityExpired(fmt.Sprintf("Return window of %d days has expired", returnWindowDays))
	}

	request := &models.ReturnRequest{
		OrderID:   req.OrderID,
		ProductID: req.ProductID,
		UserID:    userUUID,
		Reason:    req.Reason,
		Status:    models.ClaimStatusPending,
	}

	if err := s.returnRepo.Create(ctx, request); err != nil {
		s.logger.Error("Failed to create return request", zap.String("order_id", req.OrderID.String()), zap.Error(err))
		return nil, errStorage("Failed to create return request")
	}

	s.logger.Info("Return request created",
		zap.String("return_id", request.ID.String()),
		zap.String("order_id", req.OrderID.String()),
		zap.Int("order_age_days", ageInDays),
	)
	s.events.Publish(ctx, models.EventReturnRequested, models.ClaimEvent{
		EventType: models.EventReturnRequested,
		ClaimID:   request.ID.String(),
		OrderID:   request.OrderID.String(),
		ProductID: request.ProductID,
		UserID:    userID,
		Status:    request.Status,
		Timestamp: time.Now(),
	})
	recordCount(ctx, s.metrics, s.logger, awspkg.MetricReturnsCreated)

	return request, nil
}

// GetUserReturns retrieves the caller's own return requests.
func (s *returnServiceImpl) GetUserReturns(ctx context.Context, userID string, page, limit int) (*ReturnListResponse, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errValidation("Invalid user ID format")
	}

	requests, total, err := s.returnRepo.FindByUserID(ctx, userUUID, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch return requests", zap.String("user_id", userID), zap.Error(err))
		return nil, errStorage("Failed to fetch return requests")
	}

	return &ReturnListResponse{Returns: requests, Meta: buildMeta(page, limit, total)}, nil
}

// GetAllReturns retrieves all return requests (admin only).
func (s *returnServiceImpl) GetAllReturns(ctx context.Context, page, limit int) (*ReturnListResponse, *ServiceError) {
	requests, total, err := s.returnRepo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch return requests", zap.Error(err))
		return nil, errStorage("Failed to fetch return requests")
	}

	return &ReturnListResponse{Returns: requests, Meta: buildMeta(page, limit, total)}, nil
}

// UpdateStatus progresses a return claim (admin only). The parent order is
// never touched; return status and order status advance independently.
func (s *returnServiceImpl) UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateClaimStatusRequest) (*models.ReturnRequest, *ServiceError) {
	if !models.ValidClaimStatus(req.Status) {
		return nil, errValidation(fmt.Sprintf("Unknown status value: %s", req.Status))
	}

	request, err := s.returnRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("Return request not found")
		}
		s.logger.Error("Failed to fetch return request", zap.String("return_id", id.String()), zap.Error(err))
		return nil, errStorage("Failed to fetch return request")
	}

	if !models.CanTransitionClaim(request.Status, req.Status) {
		return nil, errInvalidState(fmt.Sprintf("Cannot transition return request from %s to %s", request.Status, req.Status))
	}

	if err := s.returnRepo.UpdateStatus(ctx, id, req.Status); err != nil {
		s.logger.Error("Failed to update return request", zap.String("return_id", id.String()), zap.Error(err))
		return nil, errStorage("Failed to update return request")
	}

	request.Status = req.Status
	s.logger.Info("Return request status updated",
		zap.String("return_id", id.String()),
		zap.String("status", string(req.Status)),
	)
	s.events.Publish(ctx, models.EventReturnStatusChanged, models.ClaimEvent{
		EventType: models.EventReturnStatusChanged,
		ClaimID:   request.ID.String(),
		OrderID:   request.OrderID.String(),
		ProductID: request.ProductID,
		UserID:    request.UserID.String(),
		Status:    request.Status,
		Timestamp: time.Now(),
	})

	return request, nil
}
