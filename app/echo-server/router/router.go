package router

import (
	"lojaConforto/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.POST("/login", handler.Login)
	users.GET("", handler.GetAllUsers, authRequired)
	users.GET("/:id", handler.GetUserByID, authRequired)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	products := api.Group("/products", authRequired)

	products.GET("", handler.ListProducts)
	products.GET("/:id", handler.GetProductByID)
	products.GET("/:id/history", handler.GetProductHistory)
	products.POST("", handler.CreateProducts)
	products.PUT("/:id", handler.UpdateProduct)
	products.POST("/:id/status", handler.ChangeStatus)
	products.POST("/:id/transfer", handler.TransferProduct)
	products.POST("/:id/delivery", handler.SetDeliveryInfo)
	products.POST("/:id/delivery/schedule", handler.ScheduleDelivery)
	products.POST("/:id/delivery/delivered", handler.MarkDelivered)
	products.DELETE("/:id", handler.DeleteProduct, adminOnly)
}

func SetupStatsRoutes(api *echo.Group, handler *rest.StatsHandler, authRequired echo.MiddlewareFunc) {
	stats := api.Group("/stats", authRequired)

	stats.GET("", handler.Overview)
	stats.GET("/sales-by-unit", handler.SalesByUnit)
	stats.GET("/sales-series", handler.SalesSeries)
	stats.GET("/ranking", handler.SellerRanking)
	stats.GET("/sales", handler.SalesHistory)
}

func SetupDeliveryRoutes(api *echo.Group, handler *rest.DeliveryHandler, authRequired echo.MiddlewareFunc) {
	deliveries := api.Group("/deliveries", authRequired)

	deliveries.GET("", handler.ListDeliveries)
	deliveries.GET("/:id/route", handler.PlanRoute)
	deliveries.POST("/:id/share", handler.CreateShareCode)

	// Public delivery sheet for drivers, gated by the share code itself.
	api.GET("/public/deliveries/:code", handler.ResolveShareCode)
}

func SetupLabelRoutes(api *echo.Group, handler *rest.LabelHandler, authRequired echo.MiddlewareFunc) {
	labels := api.Group("/labels", authRequired)

	labels.POST("/scan", handler.ScanLabel)
}
