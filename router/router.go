package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/yeremiapane/foodcourt-app/controllers"
	"github.com/yeremiapane/foodcourt-app/kds"
	"github.com/yeremiapane/foodcourt-app/middlewares"
	"github.com/yeremiapane/foodcourt-app/models"
	"github.com/yeremiapane/foodcourt-app/services"
	"github.com/yeremiapane/foodcourt-app/utils"
)

// Options carries the collaborators the router wires into controllers.
type Options struct {
	DB                *gorm.DB
	Tokens            *utils.TokenManager
	Hub               *kds.Hub
	CORSAllowedOrigin string
	RateLimiter       *middlewares.RateLimiter
}

func SetupRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.CORSAllowedOrigin))
	r.Use(middlewares.LoggerMiddleware())
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.RateLimit())
	}

	hub := opts.Hub
	if hub == nil {
		hub = kds.NewHub()
	}

	permissions := services.NewPermissionResolver(opts.DB)
	statusSvc := services.NewOrderStatusService(opts.DB, permissions, hub)
	querySvc := services.NewOrderQueryService(opts.DB, permissions)
	placementSvc := services.NewOrderPlacementService(opts.DB, hub)
	notificationSvc := services.NewNotificationService(opts.DB)
	ownershipSvc := services.NewOwnershipService(opts.DB)
	menuSvc := services.NewMenuService(opts.DB, permissions)

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(opts.DB, opts.Tokens)
	orderCtrl := controllers.NewOrderController(statusSvc, querySvc)
	customerCtrl := controllers.NewCustomerOrderController(placementSvc, notificationSvc)
	menuCtrl := controllers.NewMenuController(menuSvc)
	adminCtrl := controllers.NewAdminController(ownershipSvc)
	kdsCtrl := controllers.NewKDSController(hub, permissions)

	authRequired := middlewares.AuthMiddleware(opts.Tokens)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/login", middlewares.NewStrictRateLimiter(), userCtrl.Login)

	public := r.Group("/public")
	{
		public.GET("/tables/:table_id/orders", orderCtrl.GetTableOrders)
		public.POST("/tables/:table_id/orders", customerCtrl.CreateOrder)
		public.GET("/tables/:table_id/notifications", customerCtrl.GetTableNotifications)
		public.GET("/foodcourts/:foodcourt_id/menu", menuCtrl.GetFoodcourtMenu)
	}

	ws := r.Group("/ws")
	{
		ws.GET("/tables/:table_id", kdsCtrl.TableFeed)
		ws.GET("/foodcourt/:foodcourt_id", authRequired, kdsCtrl.FoodcourtFeed)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(authRequired)
	auth.GET("/profile", userCtrl.GetProfile)
	auth.POST("/logout", userCtrl.Logout)

	// FOODCOURT (owner/admin, capability checked per foodcourt)
	foodcourt := auth.Group("/foodcourt/:foodcourt_id")
	{
		foodcourt.PATCH("/orderitems/:item_id/status", orderCtrl.UpdateOrderItemStatus)
		foodcourt.GET("/orders", orderCtrl.GetFoodcourtOrders)
		foodcourt.GET("/orders/:order_id", orderCtrl.GetFoodcourtOrderDetail)
		foodcourt.POST("/menu", menuCtrl.CreateMenuItem)
		foodcourt.PATCH("/menu/:menu_item_id", menuCtrl.UpdateMenuItem)
	}

	// ADMIN
	admin := auth.Group("/admin")
	admin.Use(middlewares.RequireRole(models.RoleAdmin))
	{
		admin.PUT("/foodcourts/:foodcourt_id/owner", adminCtrl.AssignOwner)
		admin.DELETE("/foodcourts/:foodcourt_id/owner", adminCtrl.UnassignOwner)
		admin.PATCH("/foodcourts/:foodcourt_id/permissions", adminCtrl.UpdatePermissions)
		admin.GET("/foodcourts/:foodcourt_id/permissions/history", adminCtrl.GetPermissionHistory)
	}

	return r
}
