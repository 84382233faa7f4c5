package routes

import (
	"order-care-service/controllers"
	"order-care-service/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all order, return and refund routes.
func RegisterRoutes(
	r *gin.Engine,
	oc *controllers.OrderController,
	rc *controllers.ReturnController,
	fc *controllers.RefundController,
) {
	orderRoutes := r.Group("/orders")
	orderRoutes.Use(middleware.AuthMiddleware())
	orderRoutes.POST("", oc.CreateOrder)
	orderRoutes.GET("", oc.GetOrders)
	orderRoutes.GET("/:id", oc.GetOrderByID)
	orderRoutes.PUT("/:id/cancel", oc.CancelOrder)

	orderAdmin := orderRoutes.Group("")
	orderAdmin.Use(middleware.AdminOnly())
	orderAdmin.PUT("/:id/status", oc.UpdateStatus)
	orderAdmin.PUT("/:id/refund-status", oc.ReconcileRefundStatus)
	orderAdmin.DELETE("/:id", oc.DeleteOrder)

	adminRoutes := r.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	adminRoutes.GET("/orders", oc.GetAllOrders)

	returnRoutes := r.Group("/returns")
	returnRoutes.Use(middleware.AuthMiddleware())
	returnRoutes.POST("/request", rc.CreateReturn)
	returnRoutes.GET("/my", rc.GetMyReturns)

	returnAdmin := returnRoutes.Group("")
	returnAdmin.Use(middleware.AdminOnly())
	returnAdmin.GET("", rc.GetAllReturns)
	returnAdmin.PUT("/:id/status", rc.UpdateStatus)

	refundRoutes := r.Group("/refunds")
	refundRoutes.Use(middleware.AuthMiddleware())
	refundRoutes.POST("/create", fc.CreateRefund)
	refundRoutes.GET("/my", fc.GetMyRefunds)

	refundAdmin := refundRoutes.Group("")
	refundAdmin.Use(middleware.AdminOnly())
	refundAdmin.POST("", fc.AdminCreateRefund)
	refundAdmin.GET("", fc.GetAllRefunds)
	refundAdmin.PUT("/:id/status", fc.UpdateStatus)
	refundAdmin.DELETE("/:id", fc.DeleteRefund)
}
