package routes

import (
	"github.com/gin-gonic/gin"

	"laily-api/internal/handlers"
	"laily-api/internal/middleware"
	"laily-api/internal/models"
	"laily-api/internal/responses"
	"laily-api/internal/service"
)

// Services agrupa lo que necesitan los handlers
type Services struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Products *service.ProductService
	PromoBar *service.PromoBarService
	DB       handlers.Pinger
}

func RegisterRoutes(router *gin.Engine, s Services) {
	responses.UseJSONFieldNames()

	authHandler := handlers.NewAuthHandler(s.Auth)
	userHandler := handlers.NewUserHandler(s.Users)
	productHandler := handlers.NewProductHandler(s.Products)
	settingsHandler := handlers.NewSettingsHandler(s.PromoBar)

	authenticate := middleware.Authenticate(s.Auth)
	requireAdmin := middleware.RequireRole(models.RoleAdmin)

	router.GET("/", handlers.Root)
	router.GET("/healthz", handlers.Health(s.DB))

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/kakao", authHandler.ProviderLogin("kakao"))
		auth.POST("/naver", authHandler.ProviderLogin("naver"))
		auth.GET("/me", authenticate, authHandler.Me)
	}

	users := api.Group("/users")
	{
		users.POST("", userHandler.CreateUser)
		users.GET("", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	products := api.Group("/products")
	{
		products.GET("", productHandler.ListProducts)
		products.GET("/sku/:sku", productHandler.GetProductBySKU)
		products.GET("/:id", productHandler.GetProduct)
		products.GET("/:id/variants", productHandler.FindVariant)
	}

	// Rutas de administración
	adminProducts := products.Group("", authenticate, requireAdmin)
	{
		adminProducts.POST("", productHandler.CreateProduct)
		adminProducts.GET("/export", productHandler.ExportProducts)
		adminProducts.PUT("/:id", productHandler.UpdateProduct)
		adminProducts.DELETE("/:id", productHandler.DeleteProduct)
		adminProducts.POST("/:id/variants", productHandler.AddVariant)
		adminProducts.DELETE("/:id/variants/:variantId", productHandler.RemoveVariant)
		adminProducts.PUT("/:id/variants/:variantId/stock", productHandler.UpdateStock)
	}

	settings := api.Group("/settings")
	{
		settings.GET("/promo-bar", settingsHandler.GetPromoBar)
		settings.PUT("/promo-bar", authenticate, requireAdmin, settingsHandler.UpdatePromoBar)
	}
}
