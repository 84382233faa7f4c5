package controllers

import (
	"net/http"

	"order-care-service/middleware"
	"order-care-service/models"
	"order-care-service/services"

	"github.com/gin-gonic/gin"
)

// RefundController handles HTTP requests for refund-request operations.
type RefundController struct {
	refundService services.RefundService
}

// NewRefundController creates a new RefundController.
func NewRefundController(refundService services.RefundService) *RefundController {
	return &RefundController{refundService: refundService}
}

// CreateRefund handles POST /refunds/create.
func (fc *RefundController) CreateRefund(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "kind": services.KindAuth})
		return
	}

	var req models.CreateRefundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "kind": services.KindValidation, "details": err.Error()})
		return
	}

	request, svcErr := fc.refundService.CreateRefund(ctx.Request.Context(), userID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"refund_request": request})
}

// AdminCreateRefund handles POST /refunds (admin only). This is the
// privileged bypass used for manual and phone-initiated refunds.
func (fc *RefundController) AdminCreateRefund(ctx *gin.Context) {
	var req models.AdminCreateRefundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "kind": services.KindValidation, "details": err.Error()})
		return
	}

	request, svcErr := fc.refundService.AdminCreateRefund(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"refund_request": request})
}

// GetMyRefunds handles GET /refunds/my.
func (fc *RefundController) GetMyRefunds(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "kind": services.KindAuth})
		return
	}

	page, limit := parsePaginationParams(ctx)

	result, svcErr := fc.refundService.GetUserRefunds(ctx.Request.Context(), userID, page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// GetAllRefunds handles GET /refunds (admin only).
func (fc *RefundController) GetAllRefunds(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	result, svcErr := fc.refundService.GetAllRefunds(ctx.Request.Context(), page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// UpdateStatus handles PUT /refunds/:id/status (admin only).
func (fc *RefundController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req models.UpdateClaimStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Status is required", "kind": services.KindValidation, "details": err.Error()})
		return
	}

	request, svcErr := fc.refundService.UpdateStatus(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"refund_request": request})
}

// DeleteRefund handles DELETE /refunds/:id (admin only).
func (fc *RefundController) DeleteRefund(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if svcErr := fc.refundService.DeleteRefund(ctx.Request.Context(), id); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Refund request deleted"})
}
