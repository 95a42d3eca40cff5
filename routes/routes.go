package routes

import (
	"log"
	"net/http"
	"time"

	"github.com/dryp/marketplace/controllers"
	"github.com/dryp/marketplace/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter returns an engine with logging, recovery and CORS for origins.
func NewRouter(origins []string) *gin.Engine {
	allowedOrigins := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowedOrigins[o] = true
	}
	log.Printf("Allowed origins: %v", origins)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.GuestHeader},
		ExposeHeaders:    []string{"Content-Length", controllers.DroppedHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	return r
}

func RegisterRoutes(r *gin.Engine, app *controllers.App) {
	protect := middleware.Protect(app.Issuer)
	identify := middleware.IdentifyUser(app.Issuer)
	vendorOnly := middleware.RequireVendor()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", app.Register())
		auth.POST("/login", app.Login())
		auth.POST("/refresh", app.Refresh())
		auth.POST("/logout", app.Logout())
	}

	users := api.Group("/users", protect)
	{
		users.GET("/me", app.GetMe())
		users.POST("/me/password", app.ChangeMyPassword())
	}

	vendors := api.Group("/vendors")
	{
		vendors.POST("/register", app.RegisterVendor())
		vendors.GET("/me", protect, vendorOnly, app.GetMyVendor())
		vendors.PUT("/me", protect, vendorOnly, app.UpdateMyVendor())
		vendors.GET("/me/products", protect, vendorOnly, app.GetMyVendorProducts())
		vendors.GET("/:id", app.GetVendor())
		vendors.GET("/:id/products", app.GetVendorProducts())
	}

	products := api.Group("/products")
	{
		products.GET("", app.GetProducts())
		products.GET("/brands", app.GetFacet("brand"))
		products.GET("/categories", app.GetFacet("category"))
		products.GET("/colors", app.GetColors())
		products.GET("/tags", app.GetFacet("tags"))
		products.GET("/suggestions", app.GetSuggestions())
		products.GET("/:id", app.GetProduct())

		products.POST("", protect, vendorOnly, app.CreateProduct())
		products.POST("/validate", protect, vendorOnly, app.ValidateProductDraft())
		products.PUT("/:id", protect, vendorOnly, app.UpdateProduct())
		products.DELETE("/:id", protect, vendorOnly, app.DeleteProduct())

		products.POST("/:id/like", protect, app.LikeProduct())
		products.DELETE("/:id/like", protect, app.UnlikeProduct())
	}

	orders := api.Group("/orders")
	{
		orders.POST("", identify, app.CreateOrders())
		orders.GET("/mine", identify, app.GetMyOrders())
		orders.GET("/vendor", protect, vendorOnly, app.GetVendorOrders())
		orders.GET("/number/:orderNumber", identify, app.GetOrderByNumber())
		orders.GET("/:id", identify, app.GetOrder())
		orders.PUT("/:id/status", protect, vendorOnly, app.UpdateOrderStatus())
	}

	cart := api.Group("/cart", identify)
	{
		cart.GET("", app.GetCart())
		cart.POST("/items", app.AddCartItem())
		cart.PATCH("/items/:lineId", app.UpdateCartItem())
		cart.DELETE("/items/:lineId", app.RemoveCartItem())
		cart.DELETE("", app.ClearCart())
	}

	wishlist := api.Group("/wishlist", protect)
	{
		wishlist.GET("", app.GetWishlist())
		wishlist.POST("/:productId", app.AddToWishlist())
		wishlist.DELETE("/:productId", app.RemoveFromWishlist())
	}

	api.POST("/upload", protect, vendorOnly, app.UploadImage())
}
