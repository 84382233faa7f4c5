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

// OrderListResponse is the paginated order listing payload.
type OrderListResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

// MetaData carries pagination info alongside list responses.
type MetaData struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// OrderService defines the interface for order business logic.
type OrderService interface {
	CreateOrder(ctx context.Context, userID string, req *models.CreateOrderRequest) (*models.Order, *ServiceError)
	GetUserOrders(ctx context.Context, userID string, page, limit int) (*OrderListResponse, *ServiceError)
	GetAllOrders(ctx context.Context, page, limit int) (*OrderListResponse, *ServiceError)
	GetOrderByID(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, *ServiceError)
	CancelOrder(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, *ServiceError)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, req *models.UpdateOrderStatusRequest) (*models.Order, *ServiceError)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) *ServiceError
	ReconcileRefundStatus(ctx context.Context, orderID uuid.UUID) (*models.Order, *ServiceError)
}

// orderServiceImpl implements OrderService.
type orderServiceImpl struct {
	orderRepo  repository.OrderRepository
	refundRepo repository.RefundRepository
	catalog    Catalog
	events     *EventPublisher
	metrics    MetricsRecorder
	logger     *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repository.OrderRepository,
	refundRepo repository.RefundRepository,
	catalog Catalog,
	events *EventPublisher,
	metrics MetricsRecorder,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		orderRepo:  orderRepo,
		refundRepo: refundRepo,
		catalog:    catalog,
		events:     events,
		metrics:    metrics,
		logger:     logger,
	}
}

// CreateOrder places a new order. Line-item names and prices are snapshotted
// from the catalog at this moment and never re-derived.
func (s *orderServiceImpl) CreateOrder(ctx context.Context, userID string, req *models.CreateOrderRequest) (*models.Order, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errValidation("Invalid user ID format")
	}
	if len(req.Items) == 0 {
		return nil, errValidation("At least one item is required")
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	var total float64
	for _, line := range req.Items {
		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, errValidation(fmt.Sprintf("Unknown product: %s", line.ProductID))
		}
		item := models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
		}
		total += item.Subtotal()
		items = append(items, item)
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "COD"
	}

	order := &models.Order{
		UserID:          userUUID,
		Items:           items,
		Total:           total,
		PaymentMethod:   paymentMethod,
		Status:          models.OrderStatusPending,
		RefundStatus:    models.RefundStatusNone,
		ShippingAddress: req.ShippingAddress,
		StatusHistory: []models.OrderStatusEvent{
			{Status: models.OrderStatusPending, Note: "Order placed", CreatedAt: time.Now()},
		},
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error("Failed to create order", zap.String("user_id", userID), zap.Error(err))
		return nil, errStorage("Failed to create order")
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID),
		zap.Float64("total", order.Total),
	)
	s.events.Publish(ctx, models.EventOrderCreated, models.OrderEvent{
		EventType: models.EventOrderCreated,
		OrderID:   order.ID.String(),
		UserID:    userID,
		Status:    order.Status,
		Total:     order.Total,
		Timestamp: time.Now(),
	})
	recordCount(ctx, s.metrics, s.logger, awspkg.MetricOrdersCreated)

	return order, nil
}

// GetUserOrders retrieves paginated orders for the authenticated customer.
func (s *orderServiceImpl) GetUserOrders(ctx context.Context, userID string, page, limit int) (*OrderListResponse, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errValidation("Invalid user ID format")
	}

	orders, total, err := s.orderRepo.FindByUserID(ctx, userUUID, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch orders", zap.String("user_id", userID), zap.Error(err))
		return nil, errStorage("Failed to fetch orders")
	}

	return &OrderListResponse{Orders: orders, Meta: buildMeta(page, limit, total)}, nil
}

// GetAllOrders retrieves paginated orders across all users (admin only).
func (s *orderServiceImpl) GetAllOrders(ctx context.Context, page, limit int) (*OrderListResponse, *ServiceError) {
	orders, total, err := s.orderRepo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch all orders", zap.Error(err))
		return nil, errStorage("Failed to fetch orders")
	}

	return &OrderListResponse{Orders: orders, Meta: buildMeta(page, limit, total)}, nil
}

// GetOrderByID retrieves a specific order for its owner. Missing and
// non-owned orders are indistinguishable to the caller.
func (s *orderServiceImpl) GetOrderByID(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errValidation("Invalid user ID format")
	}

	order, err := s.orderRepo.FindByIDAndUserID(ctx, orderID, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("Order not found")
		}
		s.logger.Error("Failed to fetch order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, errStorage("Failed to fetch order")
	}

	return order, nil
}

// CancelOrder cancels a customer's own order. Only Pending orders may be
// cancelled; the guard is checked before the write, so two racing cancels can
// both append a history entry (documented behavior, no cross-request lock).
func (s *orderServiceImpl) CancelOrder(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errValidation("Invalid user ID format")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("Order not found")
		}
		s.logger.Error("Failed to fetch order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, errStorage("Failed to fetch order")
	}

	if order.UserID != userUUID {
		return nil, errForbidden("You do not own this order")
	}
	if order.Status != models.OrderStatusPending {
		return nil, errInvalidState(fmt.Sprintf("Only pending orders can be cancelled (current status: %s)", order.Status))
	}

	if err := s.orderRepo.UpdateStatus(ctx, order, models.OrderStatusCancelled, "Cancelled by customer"); err != nil {
		s.logger.Error("Failed to cancel order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, errStorage("Failed to cancel order")
	}

	s.logger.Info("Order cancelled", zap.String("order_id", orderID.String()), zap.String("user_id", userID))
	s.events.Publish(ctx, models.EventOrderCancelled, models.OrderEvent{
		EventType: models.EventOrderCancelled,
		OrderID:   order.ID.String(),
		UserID:    userID,
		Status:    order.Status,
		Timestamp: time.Now(),
	})
	recordCount(ctx, s.metrics, s.logger, awspkg.MetricOrdersCancelled)

	return order, nil
}

// UpdateStatus performs an admin status transition, validated against the
// transition table. Repeating the current status is legal and still appends
// a history entry.
func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID uuid.UUID, req *models.UpdateOrderStatusRequest) (*models.Order, *ServiceError) {
	if !models.ValidOrderStatus(req.Status) {
		return nil, errValidation(fmt.Sprintf("Unknown status value: %s", req.Status))
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("Order not found")
		}
		s.logger.Error("Failed to fetch order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, errStorage("Failed to fetch order")
	}

	if !models.CanTransition(order.Status, req.Status) {
		return nil, errInvalidState(fmt.Sprintf("Cannot transition order from %s to %s", order.Status, req.Status))
	}

	note := req.Note
	if note == "" {
		note = fmt.Sprintf("Status changed to %s", req.Status)
	}

	if err := s.orderRepo.UpdateStatus(ctx, order, req.Status, note); err != nil {
		s.logger.Error("Failed to update order status", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, errStorage("Failed to update order status")
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("status", string(req.Status)),
	)
	s.events.Publish(ctx, models.EventOrderStatusChanged, models.OrderEvent{
		EventType: models.EventOrderStatusChanged,
		OrderID:   order.ID.String(),
		UserID:    order.UserID.String(),
		Status:    order.Status,
		Timestamp: time.Now(),
	})

	return order, nil
}

// DeleteOrder removes an order for data hygiene (admin only). It bypasses the
// state machine on purpose.
func (s *orderServiceImpl) DeleteOrder(ctx context.Context, orderID uuid.UUID) *ServiceError {
	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound("Order not found")
		}
		s.logger.Error("Failed to delete order", zap.String("order_id", orderID.String()), zap.Error(err))
		return errStorage("Failed to delete order")
	}

	s.logger.Info("Order deleted", zap.String("order_id", orderID.String()))
	return nil
}

// ReconcileRefundStatus recomputes the order's denormalized refund marker
// from its refund claims. This is the only place RefundStatus moves; refund
// workflow updates never touch it implicitly, so the field lags until an
// admin reconciles.
func (s *orderServiceImpl) ReconcileRefundStatus(ctx context.Context, orderID uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("Order not found")
		}
		s.logger.Error("Failed to fetch order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, errStorage("Failed to fetch order")
	}

	claims, err := s.refundRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to fetch refund claims", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, errStorage("Failed to fetch refund claims")
	}

	derived := deriveRefundStatus(claims)
	if derived == order.RefundStatus {
		return order, nil
	}

	s.logger.Info("Reconciling order refund status",
		zap.String("order_id", orderID.String()),
		zap.String("from", string(order.RefundStatus)),
		zap.String("to", string(derived)),
	)

	if err := s.orderRepo.UpdateRefundStatus(ctx, orderID, derived); err != nil {
		s.logger.Error("Failed to update refund status", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, errStorage("Failed to update refund status")
	}

	order.RefundStatus = derived
	return order, nil
}

// deriveRefundStatus collapses the order's refund claims into the single
// denormalized marker, strongest outcome first.
func deriveRefundStatus(claims []models.RefundRequest) models.RefundStatus {
	if len(claims) == 0 {
		return models.RefundStatusNone
	}

	var approved, pending, rejected bool
	for _, c := range claims {
		switch c.Status {
		case models.ClaimStatusRefunded:
			return models.RefundStatusRefunded
		case models.ClaimStatusApproved:
			approved = true
		case models.ClaimStatusPending:
			pending = true
		case models.ClaimStatusRejected:
			rejected = true
		}
	}
	switch {
	case approved:
		return models.RefundStatusApproved
	case pending:
		return models.RefundStatusRequested
	case rejected:
		return models.RefundStatusRejected
	}
	return models.RefundStatusNone
}

// buildMeta assembles pagination metadata.
func buildMeta(page, limit int, total int64) MetaData {
	var totalPages int64
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return MetaData{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    total > int64(page*limit),
	}
}
