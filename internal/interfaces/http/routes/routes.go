// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/cafe-backend/internal/config"
	"github.com/your-org/cafe-backend/internal/infrastructure/notify"
	"github.com/your-org/cafe-backend/internal/interfaces/http/handlers"
	"github.com/your-org/cafe-backend/internal/interfaces/http/middleware"
	"github.com/your-org/cafe-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Dependencies are the shared resources handed to every route group
type Dependencies struct {
	DB          *gorm.DB
	RedisClient *redis.Client
	Config      *config.Config
	Log         *logrus.Logger
	Publisher   notify.Publisher
}

// SetupRoutes registers every /api/v1 route
func SetupRoutes(rg *gin.RouterGroup, deps Dependencies) {
	SetupAuthRoutes(rg, deps)

	// Everything below requires a bearer token
	protected := rg.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Config))

	SetupMenuRoutes(protected, deps)
	SetupProductRoutes(protected, deps)
	SetupLookupRoutes(protected, deps)
	SetupUserRoutes(protected, deps)
	SetupCartRoutes(protected, deps)
	SetupOrderRoutes(protected, deps)
	SetupReportRoutes(protected, deps)
}

// SetupAuthRoutes sets up token issuing for the bot
func SetupAuthRoutes(rg *gin.RouterGroup, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.DB, deps.Config, deps.Log)
	verifier := auth.NewKeyVerifier(deps.Config.Security.BotAPIKeyHash)

	authGroup := rg.Group("/auth")
	{
		bot := authGroup.Group("")
		bot.Use(middleware.APIKeyMiddleware(verifier))
		{
			bot.POST("/token", authHandler.IssueToken)
			bot.POST("/register", authHandler.Register)
		}

		authGroup.GET("/me", middleware.AuthMiddleware(deps.Config), authHandler.Me)
	}
}

// SetupMenuRoutes sets up menu category and menu item routes
func SetupMenuRoutes(rg *gin.RouterGroup, deps Dependencies) {
	menuHandler := handlers.NewMenuHandler(deps.DB, deps.Log)
	admin := middleware.AdminOnly()

	categories := rg.Group("/menu-categories")
	{
		categories.GET("", menuHandler.GetCategories)
		categories.GET("/:id", menuHandler.GetCategory)
		categories.POST("", admin, menuHandler.CreateCategory)
		categories.PUT("/:id", admin, menuHandler.RenameCategory)
		categories.DELETE("/:id", admin, menuHandler.DeleteCategory)
	}

	items := rg.Group("/menu-items")
	{
		items.GET("", menuHandler.GetItems)
		items.GET("/:id", menuHandler.GetItem)
		items.POST("", admin, menuHandler.CreateItem)
		items.PUT("/:id", admin, menuHandler.UpdateItem)
		items.PUT("/:id/availability", admin, menuHandler.SetAvailability)
		items.DELETE("/:id", admin, menuHandler.DeleteItem)
	}
}

// SetupProductRoutes sets up retail product routes
func SetupProductRoutes(rg *gin.RouterGroup, deps Dependencies) {
	productHandler := handlers.NewProductHandler(deps.DB, deps.Log)
	admin := middleware.AdminOnly()

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.POST("", admin, productHandler.CreateProduct)
		products.PUT("/:id", admin, productHandler.UpdateProduct)
		products.DELETE("/:id", admin, productHandler.DeleteProduct)
	}
}

// SetupLookupRoutes sets up order status and delivery method routes
func SetupLookupRoutes(rg *gin.RouterGroup, deps Dependencies) {
	lookupHandler := handlers.NewLookupHandler(deps.DB, deps.Log)
	admin := middleware.AdminOnly()

	statuses := rg.Group("/order-statuses")
	{
		statuses.GET("", lookupHandler.GetStatuses)
		statuses.GET("/:id", lookupHandler.GetStatus)
		statuses.POST("", admin, lookupHandler.CreateStatus)
		statuses.PUT("/:id", admin, lookupHandler.RenameStatus)
		statuses.DELETE("/:id", admin, lookupHandler.DeleteStatus)
	}

	methods := rg.Group("/delivery-methods")
	{
		methods.GET("", lookupHandler.GetDeliveryMethods)
		methods.GET("/:id", lookupHandler.GetDeliveryMethod)
		methods.POST("", admin, lookupHandler.CreateDeliveryMethod)
		methods.DELETE("/:id", admin, lookupHandler.DeleteDeliveryMethod)
	}
}

// SetupUserRoutes sets up user and role routes
func SetupUserRoutes(rg *gin.RouterGroup, deps Dependencies) {
	userHandler := handlers.NewUserHandler(deps.DB, deps.Log)
	admin := middleware.AdminOnly()

	roles := rg.Group("/roles")
	{
		roles.GET("", userHandler.GetRoles)
		roles.GET("/:id", userHandler.GetRole)
		roles.GET("/:id/users", middleware.StaffOnly(), userHandler.GetRoleUsers)
		roles.POST("", admin, userHandler.CreateRole)
		roles.PUT("/:id", admin, userHandler.RenameRole)
		roles.DELETE("/:id", admin, userHandler.DeleteRole)
	}

	users := rg.Group("/users")
	{
		users.POST("", admin, userHandler.CreateUser)
		users.GET("", admin, userHandler.GetUsers)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id/role", admin, userHandler.ChangeRole)
	}
}

// SetupCartRoutes sets up cart routes; each user manages only their own cart
func SetupCartRoutes(rg *gin.RouterGroup, deps Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.DB, deps.Config, deps.Publisher, deps.Log)

	cart := rg.Group("/cart/:user_id")
	{
		cart.GET("", cartHandler.GetCart)
		cart.GET("/count", cartHandler.GetCartCount)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:item_id", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:item_id", cartHandler.RemoveFromCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/checkout", cartHandler.Checkout)
	}
}

// SetupOrderRoutes sets up order routes
func SetupOrderRoutes(rg *gin.RouterGroup, deps Dependencies) {
	orderHandler := handlers.NewOrderHandler(deps.DB, deps.Config, deps.Publisher, deps.Log)

	orders := rg.Group("/orders")
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("", middleware.StaffOnly(), orderHandler.GetOrders)
		orders.GET("/user/:user_id", orderHandler.GetUserOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/user", orderHandler.GetOrderUser)
		orders.GET("/:id/history", orderHandler.GetOrderHistory)
		orders.GET("/:id/receipt", orderHandler.GetReceipt)
		orders.PUT("/:id/status", middleware.StaffOnly(), orderHandler.UpdateOrderStatus)
		orders.DELETE("/:id", middleware.AdminOnly(), orderHandler.DeleteOrder)
	}
}

// SetupReportRoutes sets up staff reporting routes
func SetupReportRoutes(rg *gin.RouterGroup, deps Dependencies) {
	reportHandler := handlers.NewReportHandler(deps.DB, deps.Log)

	reports := rg.Group("/reports")
	reports.Use(middleware.StaffOnly())
	{
		reports.GET("/sales", reportHandler.GetSalesReport)
	}
}
