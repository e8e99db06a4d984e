package router

import (
	"steezestore/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, authRequired, adminOnly, rateLimit echo.MiddlewareFunc) {
	products := api.Group("/products")

	products.GET("", handler.ListCatalog)
	products.GET("/:id", handler.GetProductByID)
	products.POST("/:id/like", handler.Like, rateLimit)

	products.POST("", handler.CreateProduct, authRequired, adminOnly)
	products.PUT("/:id", handler.UpdateProduct, authRequired, adminOnly)
	products.DELETE("/:id", handler.DeleteProduct, authRequired, adminOnly)
}

func SetupOrdersRoutes(api *echo.Group, handler *rest.OrdersHandler, rateLimit echo.MiddlewareFunc) {
	orders := api.Group("/orders")

	orders.POST("", handler.CreateOrder, rateLimit)
}

func SetupAuthRoutes(api *echo.Group, handler *rest.AuthHandler, authRequired, loginLimit echo.MiddlewareFunc) {
	auth := api.Group("/auth")

	auth.POST("/login", handler.Login, loginLimit)
	auth.GET("/me", handler.Me, authRequired)
}

func SetupAdminRoutes(
	api *echo.Group,
	ordersHandler *rest.OrdersHandler,
	customerHandler *rest.CustomerHandler,
	analyticsHandler *rest.AnalyticsHandler,
	authRequired, adminOnly echo.MiddlewareFunc,
) {
	admin := api.Group("/admin", authRequired, adminOnly)

	admin.GET("/orders", ordersHandler.ListOrders)
	admin.GET("/orders/:id", ordersHandler.GetOrderByID)
	admin.PUT("/orders/:id/status", ordersHandler.UpdateStatus)

	admin.GET("/customers", customerHandler.ListCustomers)
	admin.GET("/customers/:cid", customerHandler.GetProfile)

	admin.GET("/analytics/overview", analyticsHandler.Overview)
}

func SetupLookbookRoutes(api *echo.Group, handler *rest.LookbookHandler) {
	api.GET("/models", handler.ListModels)
}

func SetupHealthRoute(api *echo.Group) {
	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
}
