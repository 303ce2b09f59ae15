package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iyanhz/gostore/internal/handlers"
	"github.com/iyanhz/gostore/internal/middleware"
)

// CORSMiddleware allows the configured frontend origin to call the API
// with credentials (the auth cookie).
func CORSMiddleware(frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", frontendURL)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// Preflight requests get an empty 204.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(h.Log))
	router.Use(CORSMiddleware(h.Cfg.Server.FrontendURL))

	// Uploaded avatars and product images are served statically.
	router.Static("/images", h.Cfg.Uploads.Dir)

	jwtSecret := []byte(h.Cfg.JWT.Secret)
	authRequired := middleware.RequireAuth(jwtSecret)
	adminOnly := middleware.RequireRole(h.Store, "admin")
	userOnly := middleware.RequireRole(h.Store, "user")

	api := router.Group("/api")
	{
		// --- Auth Routes (Public) ---
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
			authGroup.POST("/logout", h.Logout)
			authGroup.GET("/google", h.GoogleAuth)
			authGroup.GET("/google/callback", h.GoogleAuthCallback)
		}

		// --- User Profile Routes ---
		user := api.Group("/user")
		user.Use(authRequired)
		{
			user.GET("/profile", h.GetProfile)
			user.PUT("/profile", h.UpdateProfile)
			user.PUT("/avatar", h.UpdateAvatar)
		}

		// --- Category Routes (public reads, admin writes) ---
		categories := api.Group("/categories")
		{
			categories.GET("", h.GetAllCategories)
			categories.GET("/hierarchy", h.GetCategoryHierarchy)
			categories.GET("/root", h.GetRootCategories)
			categories.GET("/:id", h.GetCategoryByID)

			categories.POST("", authRequired, adminOnly, h.CreateCategory)
			categories.PUT("/:id", authRequired, adminOnly, h.UpdateCategory)
			categories.DELETE("/:id", authRequired, adminOnly, h.DeleteCategory)
		}

		// --- Product Routes ---
		products := api.Group("/products")
		{
			products.GET("", h.GetProducts)
			products.GET("/:id", h.GetProductByID)

			products.POST("", authRequired, h.CreateProduct)
			products.PUT("/:id", authRequired, h.UpdateProduct)
			products.DELETE("/:id", authRequired, h.DeleteProduct)

			products.POST("/:id/images", authRequired, h.AddProductImages)
			products.PUT("/:id/images/:imageId/set-main", authRequired, h.SetMainProductImage)
			products.DELETE("/images/:imageId", authRequired, h.DeleteProductImage)
		}

		// --- Cart Routes (buyers only) ---
		cart := api.Group("/cart")
		cart.Use(authRequired, userOnly)
		{
			cart.GET("", h.GetCart)
			cart.POST("/add", h.AddToCart)
			cart.PUT("/:productId", h.UpdateCartItem)
			cart.DELETE("/:productId", h.DeleteCartItem)
		}

		// --- Order Routes ---
		orders := api.Group("/orders")
		orders.Use(authRequired)
		{
			orders.POST("", userOnly, h.CreateOrder)
			orders.GET("", h.GetUserOrders)
			orders.GET("/:id", h.GetOrderByID)

			orders.PATCH("/:id/status", adminOnly, h.UpdateOrderStatus)
			orders.GET("/admin/all", adminOnly, h.GetAllOrders)
			orders.DELETE("/admin/:id", adminOnly, h.DeleteOrder)
		}

		// --- Payment Simulation ---
		payment := api.Group("/payment")
		payment.Use(authRequired, userOnly)
		{
			payment.POST("/:orderId/simulate", h.SimulatePayment)
		}
	}

	return router
}
