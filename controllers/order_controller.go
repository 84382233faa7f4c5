package controllers

import (
	"net/http"
	"strconv"

	"order-care-service/middleware"
	"order-care-service/models"
	"order-care-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderController handles HTTP requests for order operations.
type OrderController struct {
	orderService services.OrderService
}

// NewOrderController creates a new OrderController.
func NewOrderController(orderService services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// CreateOrder handles POST /orders.
func (oc *OrderController) CreateOrder(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "kind": services.KindAuth})
		return
	}

	var req models.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "kind": services.KindValidation, "details": err.Error()})
		return
	}

	order, svcErr := oc.orderService.CreateOrder(ctx.Request.Context(), userID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"order": order})
}

// GetOrders handles GET /orders (the caller's own orders).
func (oc *OrderController) GetOrders(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "kind": services.KindAuth})
		return
	}

	page, limit := parsePaginationParams(ctx)

	result, svcErr := oc.orderService.GetUserOrders(ctx.Request.Context(), userID, page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// GetAllOrders handles GET /admin/orders.
func (oc *OrderController) GetAllOrders(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	result, svcErr := oc.orderService.GetAllOrders(ctx.Request.Context(), page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// GetOrderByID handles GET /orders/:id.
func (oc *OrderController) GetOrderByID(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "kind": services.KindAuth})
		return
	}

	orderID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	order, svcErr := oc.orderService.GetOrderByID(ctx.Request.Context(), userID, orderID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder handles PUT /orders/:id/cancel.
func (oc *OrderController) CancelOrder(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "kind": services.KindAuth})
		return
	}

	orderID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	order, svcErr := oc.orderService.CancelOrder(ctx.Request.Context(), userID, orderID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateStatus handles PUT /orders/:id/status (admin only).
func (oc *OrderController) UpdateStatus(ctx *gin.Context) {
	orderID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Status is required", "kind": services.KindValidation, "details": err.Error()})
		return
	}

	order, svcErr := oc.orderService.UpdateStatus(ctx.Request.Context(), orderID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// DeleteOrder handles DELETE /orders/:id (admin only).
func (oc *OrderController) DeleteOrder(ctx *gin.Context) {
	orderID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if svcErr := oc.orderService.DeleteOrder(ctx.Request.Context(), orderID); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

// ReconcileRefundStatus handles PUT /orders/:id/refund-status (admin only).
func (oc *OrderController) ReconcileRefundStatus(ctx *gin.Context) {
	orderID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	order, svcErr := oc.orderService.ReconcileRefundStatus(ctx.Request.Context(), orderID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// respondError writes a ServiceError as the standard error envelope.
func respondError(ctx *gin.Context, svcErr *services.ServiceError) {
	ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "kind": svcErr.Kind})
}

// parseIDParam extracts and validates the :id path parameter.
func parseIDParam(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format", "kind": services.KindValidation})
		return uuid.Nil, false
	}
	return id, true
}

// parsePaginationParams extracts and validates pagination parameters.
func parsePaginationParams(ctx *gin.Context) (int, int) {
	const MaxLimit = 100
	const DefaultPage = 1
	const DefaultLimit = 10

	page := ctx.DefaultQuery("page", "1")
	limit := ctx.DefaultQuery("limit", "10")

	pageInt := DefaultPage
	limitInt := DefaultLimit

	if p, err := strconv.Atoi(page); err == nil && p > 0 {
		pageInt = p
	}

	if l, err := strconv.Atoi(limit); err == nil && l > 0 {
		limitInt = l
		if limitInt > MaxLimit {
			limitInt = MaxLimit
		}
	}

	return pageInt, limitInt
}
