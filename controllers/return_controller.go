package controllers

import (
	"net/http"

	"order-care-service/middleware"
	"order-care-service/models"
	"order-care-service/services"

	"github.com/gin-gonic/gin"
)

// ReturnController handles HTTP requests for return-request operations.
type ReturnController struct {
	returnService services.ReturnService
}

// NewReturnController creates a new ReturnController.
func NewReturnController(returnService services.ReturnService) *ReturnController {
	return &ReturnController{returnService: returnService}
}

// CreateReturn handles POST /returns/request.
func (rc *ReturnController) CreateReturn(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "kind": services.KindAuth})
		return
	}

	var req models.CreateReturnRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "kind": services.KindValidation, "details": err.Error()})
		return
	}

	request, svcErr := rc.returnService.CreateReturn(ctx.Request.Context(), userID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"return_request": request})
}

// GetMyReturns handles GET /returns/my.
func (rc *ReturnController) GetMyReturns(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "kind": services.KindAuth})
		return
	}

	page, limit := parsePaginationParams(ctx)

	result, svcErr := rc.returnService.GetUserReturns(ctx.Request.Context(), userID, page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// GetAllReturns handles GET /returns (admin only).
func (rc *ReturnController) GetAllReturns(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	result, svcErr := rc.returnService.GetAllReturns(ctx.Request.Context(), page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// UpdateStatus handles PUT /returns/:id/status (admin only).
func (rc *ReturnController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req models.UpdateClaimStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Status is required", "kind": services.KindValidation, "details": err.Error()})
		return
	}

	request, svcErr := rc.returnService.UpdateStatus(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"return_request": request})
}
