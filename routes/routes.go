package routes

import (
	"net/http"

	"dosakart-api/auth"
	"dosakart-api/config"
	"dosakart-api/handlers"
	"dosakart-api/middleware"
	"dosakart-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	handlers.InitPricing()
	verifier := auth.NewJWTVerifier(config.JWTSecret())

	// ── Sign-in target for redirected page requests ────────────────
	r.GET(middleware.SignInPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"page": "signin"})
	})

	// ── API: every route gets a correlation id ─────────────────────
	api := r.Group("/api", middleware.RequestID())

	// ── Public routes ──────────────────────────────────────────────
	public := api.Group("/public")
	{
		public.GET("/products", handlers.ListProducts)
		public.GET("/products/:slug", handlers.GetProduct)
		public.GET("/categories", handlers.ListCategories)
		public.POST("/checkout/quote", handlers.QuoteCheckout)
		public.GET("/state-machine", handlers.GetStateMachineInfo)

		// Requires a token despite living under /public: 401 without
		// one, 404 when the verified phone has no account
		public.GET("/me", middleware.AuthRequired(verifier), handlers.Me)
	}

	// ── Auth ───────────────────────────────────────────────────────
	api.POST("/auth/token", handlers.ExchangeToken)
	api.POST("/auth/login", handlers.Login)

	// ── Customer routes ────────────────────────────────────────────
	customer := api.Group("/customer")
	customer.Use(middleware.AuthRequired(verifier), middleware.RoleRequired(models.RoleCustomer))
	{
		customer.POST("/orders", handlers.PlaceOrder)
		customer.GET("/orders", handlers.GetMyOrders)
		customer.GET("/orders/:id", handlers.GetOrderDetail)
		customer.PUT("/orders/:id/cancel", handlers.CancelOrder)

		customer.GET("/addresses", handlers.ListAddresses)
		customer.POST("/addresses", handlers.AddAddress)
		customer.PUT("/addresses/:id/default", handlers.SetDefaultAddress)
	}

	// ── Driver routes ──────────────────────────────────────────────
	driver := api.Group("/driver")
	driver.Use(middleware.AuthRequired(verifier), middleware.RoleRequired(models.RoleDriver))
	{
		driver.GET("/orders/available", handlers.GetAvailableOrders)
		driver.GET("/orders/my-deliveries", handlers.GetMyDeliveries)
		driver.PUT("/orders/:id/pickup", handlers.PickupOrder)
		driver.PUT("/orders/:id/deliver", handlers.DeliverOrder)
	}

	// ── Admin API routes ───────────────────────────────────────────
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(verifier), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/users", handlers.ListUsers)
		admin.PUT("/users/role", handlers.UpdateUserRole)
		admin.DELETE("/users/:id", handlers.DeleteUser)

		admin.GET("/feature-flags", handlers.ListFeatureFlags)
		admin.PUT("/feature-flags/:key", handlers.SetFeatureFlag)

		admin.POST("/categories", handlers.CreateCategory)
		admin.PUT("/categories/:id", handlers.UpdateCategory)
		admin.POST("/products", handlers.CreateProduct)
		admin.PUT("/products/:id", handlers.UpdateProduct)
		admin.DELETE("/products/:id", handlers.DeleteProduct)

		admin.GET("/promos", handlers.ListPromos)
		admin.POST("/promos", handlers.CreatePromo)
		admin.PUT("/promos/:id", handlers.UpdatePromo)
		admin.DELETE("/promos/:id", handlers.DeletePromo)

		admin.GET("/orders", handlers.AdminGetAllOrders)
		admin.PUT("/orders/:id/status", handlers.AdminUpdateOrderStatus)
		admin.PUT("/orders/:id/force-status", handlers.AdminForceOrderStatus)

		admin.PUT("/config/:key", handlers.SetConfigEntry)
		admin.POST("/config/reload", handlers.ReloadConfig)
	}

	// ── Admin pages: unauthenticated requests are redirected to the
	//    sign-in page; wrong role renders an empty 403 ──────────────
	pages := r.Group("/admin")
	pages.Use(middleware.PageAuthRequired(verifier), middleware.PageRoleRequired(models.RoleAdmin))
	{
		pages.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"page": "dashboard", "user": middleware.GetUser(c).Phone})
		})
		pages.GET("/orders", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"page": "orders"})
		})
		pages.GET("/users", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"page": "users"})
		})
	}
}
