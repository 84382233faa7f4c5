package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"order-care-service/models"
	awspkg "order-care-service/pkg/aws"
	"order-care-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RefundListResponse is the paginated refund-request listing payload.
type RefundListResponse struct {
	Refunds []models.RefundRequest `json:"refunds"`
	Meta    MetaData               `json:"meta"`
}

// RefundService defines the interface for refund-request business logic.
type RefundService interface {
	CreateRefund(ctx context.Context, userID string, req *models.CreateRefundRequest) (*models.RefundRequest, *ServiceError)
	AdminCreateRefund(ctx context.Context, req *models.AdminCreateRefundRequest) (*models.RefundRequest, *ServiceError)
	GetUserRefunds(ctx context.Context, userID string, page, limit int) (*RefundListResponse, *ServiceError)
	GetAllRefunds(ctx context.Context, page, limit int) (*RefundListResponse, *ServiceError)
	UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateClaimStatusRequest) (*models.RefundRequest, *ServiceError)
	DeleteRefund(ctx context.Context, id uuid.UUID) *ServiceError
}

// refundServiceImpl implements RefundService.
type refundServiceImpl struct {
	refundRepo repository.RefundRepository
	orderRepo  repository.OrderRepository
	events     *EventPublisher
	metrics    MetricsRecorder
	logger     *zap.Logger
}

// NewRefundService creates a new RefundService.
func NewRefundService(
	refundRepo repository.RefundRepository,
	orderRepo repository.OrderRepository,
	events *EventPublisher,
	metrics MetricsRecorder,
	logger *zap.Logger,
) RefundService {
	return &refundServiceImpl{
		refundRepo: refundRepo,
		orderRepo:  orderRepo,
		events:     events,
		metrics:    metrics,
		logger:     logger,
	}
}

// CreateRefund files a refund claim for an order the caller owns. At most one
// claim may exist per (order, product, user); the pre-insert check is backed
// by the compound unique index for the racing case.
func (s *refundServiceImpl) CreateRefund(ctx context.Context, userID string, req *models.CreateRefundRequest) (*models.RefundRequest, *ServiceError) {
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

	exists, err := s.refundRepo.ExistsForClaim(ctx, req.OrderID, req.ProductID, userUUID)
	if err != nil {
		s.logger.Error("Failed to check existing refund claims", zap.String("order_id", req.OrderID.String()), zap.Error(err))
		return nil, errStorage("Failed to check existing refund claims")
	}
	if exists {
		return nil, errDuplicateClaim("A refund request already exists for this order and product")
	}

	method := req.RefundMethod
	if method == "" {
		method = models.RefundMethodBankTransfer
	}
	if !models.ValidRefundMethod(method) {
		return nil, errValidation(fmt.Sprintf("Unknown refund method: %s", method))
	}

	amount := req.RefundAmount
	if amount == 0 {
		amount = resolveRefundAmount(order, req.ProductID)
	}

	request := &models.RefundRequest{
		OrderID:      req.OrderID,
		ProductID:    req.ProductID,
		UserID:       userUUID,
		Reason:       req.Reason,
		RefundMethod: method,
		RefundAmount: amount,
		Status:       models.ClaimStatusPending,
	}

	if err := s.refundRepo.Create(ctx, request); err != nil {
		if isUniqueViolation(err) {
			return nil, errDuplicateClaim("A refund request already exists for this order and product")
		}
		s.logger.Error("Failed to create refund request", zap.String("order_id", req.OrderID.String()), zap.Error(err))
		return nil, errStorage("Failed to create refund request")
	}

	s.logger.Info("Refund request created",
		zap.String("refund_id", request.ID.String()),
		zap.String("order_id", req.OrderID.String()),
		zap.String("method", string(method)),
	)
	s.publishClaimEvent(ctx, models.EventRefundRequested, request)
	recordCount(ctx, s.metrics, s.logger, awspkg.MetricRefundsCreated)

	return request, nil
}

// AdminCreateRefund is the privileged create path for staff-entered refunds.
// It skips the ownership and duplicate checks on purpose; the unique index is
// the only remaining guard.
func (s *refundServiceImpl) AdminCreateRefund(ctx context.Context, req *models.AdminCreateRefundRequest) (*models.RefundRequest, *ServiceError) {
	method := req.RefundMethod
	if method == "" {
		method = models.RefundMethodBankTransfer
	}
	if !models.ValidRefundMethod(method) {
		return nil, errValidation(fmt.Sprintf("Unknown refund method: %s", method))
	}

	request := &models.RefundRequest{
		OrderID:      req.OrderID,
		ProductID:    req.ProductID,
		UserID:       req.UserID,
		Reason:       req.Reason,
		RefundMethod: method,
		RefundAmount: req.RefundAmount,
		AdminNote:    req.AdminNote,
		Status:       models.ClaimStatusPending,
	}

	if err := s.refundRepo.Create(ctx, request); err != nil {
		if isUniqueViolation(err) {
			return nil, errDuplicateClaim("A refund request already exists for this order and product")
		}
		s.logger.Error("Failed to create refund request", zap.String("order_id", req.OrderID.String()), zap.Error(err))
		return nil, errStorage("Failed to create refund request")
	}

	s.logger.Info("Refund request created by staff",
		zap.String("refund_id", request.ID.String()),
		zap.String("order_id", req.OrderID.String()),
		zap.String("user_id", req.UserID.String()),
	)
	s.publishClaimEvent(ctx, models.EventRefundRequested, request)
	recordCount(ctx, s.metrics, s.logger, awspkg.MetricRefundsCreated)

	return request, nil
}

// GetUserRefunds retrieves the caller's own refund requests.
func (s *refundServiceImpl) GetUserRefunds(ctx context.Context, userID string, page, limit int) (*RefundListResponse, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errValidation("Invalid user ID format")
	}

	requests, total, err := s.refundRepo.FindByUserID(ctx, userUUID, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch refund requests", zap.String("user_id", userID), zap.Error(err))
		return nil, errStorage("Failed to fetch refund requests")
	}

	return &RefundListResponse{Refunds: requests, Meta: buildMeta(page, limit, total)}, nil
}

// GetAllRefunds retrieves all refund requests (admin only).
func (s *refundServiceImpl) GetAllRefunds(ctx context.Context, page, limit int) (*RefundListResponse, *ServiceError) {
	requests, total, err := s.refundRepo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch refund requests", zap.Error(err))
		return nil, errStorage("Failed to fetch refund requests")
	}

	return &RefundListResponse{Refunds: requests, Meta: buildMeta(page, limit, total)}, nil
}

// UpdateStatus progresses a refund claim (admin only). The order's
// denormalized RefundStatus is deliberately left alone; it only moves through
// the explicit reconciliation endpoint.
func (s *refundServiceImpl) UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateClaimStatusRequest) (*models.RefundRequest, *ServiceError) {
	if !models.ValidClaimStatus(req.Status) {
		return nil, errValidation(fmt.Sprintf("Unknown status value: %s", req.Status))
	}

	request, err := s.refundRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("Refund request not found")
		}
		s.logger.Error("Failed to fetch refund request", zap.String("refund_id", id.String()), zap.Error(err))
		return nil, errStorage("Failed to fetch refund request")
	}

	if !models.CanTransitionClaim(request.Status, req.Status) {
		return nil, errInvalidState(fmt.Sprintf("Cannot transition refund request from %s to %s", request.Status, req.Status))
	}

	if err := s.refundRepo.UpdateStatus(ctx, id, req.Status, req.AdminNote); err != nil {
		s.logger.Error("Failed to update refund request", zap.String("refund_id", id.String()), zap.Error(err))
		return nil, errStorage("Failed to update refund request")
	}

	request.Status = req.Status
	if req.AdminNote != "" {
		request.AdminNote = req.AdminNote
	}

	s.logger.Info("Refund request status updated",
		zap.String("refund_id", id.String()),
		zap.String("status", string(req.Status)),
	)
	s.publishClaimEvent(ctx, models.EventRefundStatusChanged, request)

	return request, nil
}

// DeleteRefund removes a refund request at any status (admin only).
func (s *refundServiceImpl) DeleteRefund(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.refundRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound("Refund request not found")
		}
		s.logger.Error("Failed to delete refund request", zap.String("refund_id", id.String()), zap.Error(err))
		return errStorage("Failed to delete refund request")
	}

	s.logger.Info("Refund request deleted", zap.String("refund_id", id.String()))
	return nil
}

func (s *refundServiceImpl) publishClaimEvent(ctx context.Context, eventType string, request *models.RefundRequest) {
	s.events.Publish(ctx, eventType, models.ClaimEvent{
		EventType: eventType,
		ClaimID:   request.ID.String(),
		OrderID:   request.OrderID.String(),
		ProductID: request.ProductID,
		UserID:    request.UserID.String(),
		Status:    request.Status,
		Timestamp: time.Now(),
	})
}

// resolveRefundAmount defaults the refund amount to the matching line item
// subtotal, or the order total for an order-level claim.
func resolveRefundAmount(order *models.Order, productID string) float64 {
	if productID == "" {
		return order.Total
	}
	for _, item := range order.Items {
		if item.ProductID == productID {
			return item.Subtotal()
		}
	}
	return 0
}

// isUniqueViolation reports whether err looks like a unique-index conflict.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
