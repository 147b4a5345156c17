package router

import (
	"time"

	"github.com/Rhzslya/sinari-server-sub000/internal/config"
	"github.com/Rhzslya/sinari-server-sub000/internal/handler"
	"github.com/Rhzslya/sinari-server-sub000/internal/infra"
	"github.com/Rhzslya/sinari-server-sub000/internal/middleware"
	"github.com/Rhzslya/sinari-server-sub000/internal/model"
	"github.com/Rhzslya/sinari-server-sub000/internal/repository"
	"github.com/Rhzslya/sinari-server-sub000/internal/service"
	"github.com/Rhzslya/sinari-server-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler <- Service <- Repository <- DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, chatClient *infra.ChatClient, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	productLogRepo := repository.NewProductLogRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	serviceLogRepo := repository.NewServiceLogRepository(db)
	technicianRepo := repository.NewTechnicianRepository(db)
	storeRepo := repository.NewStoreSettingRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, productLogRepo, rdb)
	ticketSvc := service.NewTicketService(serviceRepo, serviceLogRepo, technicianRepo, dispatcher)
	technicianSvc := service.NewTechnicianService(technicianRepo)
	storeSvc := service.NewStoreService(storeRepo)
	dashboardSvc := service.NewDashboardService(dashboardRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	servicesH := handler.NewServicesHandler(ticketSvc)
	techniciansH := handler.NewTechniciansHandler(technicianSvc)
	storeH := handler.NewStoreHandler(storeSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)
	chatH := handler.NewChatHandler(chatClient)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, chatClient))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Public catalog read — customer-facing, no auth, no cost price
	r.GET("/v1/public/products/:id", productsH.GetPublic)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		staff := middleware.RequireRole(model.RoleAdmin, model.RoleOwner)

		v1.POST("/auth/google/link", authH.LinkGoogle)

		// Products — staff only; stock adjustment and the audit log live here
		v1.GET("/products", staff, productsH.List)
		v1.GET("/products/:id", staff, productsH.GetByID)
		v1.POST("/products", staff, productsH.Create)
		v1.PUT("/products/:id", staff, productsH.Update)
		v1.DELETE("/products/:id", staff, productsH.Delete)
		v1.PATCH("/products/:id/restore", staff, productsH.Restore)
		v1.PATCH("/products/:id/stock", staff, productsH.AdjustStock)
		v1.GET("/products/:id/logs", staff, productsH.ListLogs)
		// Voiding an audit entry is OWNER only, stricter than the adjustment
		v1.PATCH("/product-logs/:logId/void", middleware.RequireRole(model.RoleOwner), productsH.VoidLog)

		// Repair tickets
		v1.POST("/services", staff, servicesH.Create)
		v1.GET("/services", staff, servicesH.List)
		v1.GET("/services/:id", staff, servicesH.GetByID)
		v1.PUT("/services/:id", staff, servicesH.Update)
		v1.DELETE("/services/:id", staff, servicesH.Delete)
		v1.GET("/services/:id/logs", staff, servicesH.ListLogs)

		// Technicians
		techs := v1.Group("/technicians", staff)
		{
			techs.POST("", techniciansH.Create)
			techs.GET("", techniciansH.List)
			techs.GET("/:id", techniciansH.GetByID)
			techs.PUT("/:id", techniciansH.Update)
			techs.DELETE("/:id", techniciansH.Delete)
		}

		// Staff accounts — OWNER only
		users := v1.Group("/users", middleware.RequireRole(model.RoleOwner))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/restore", usersH.Restore)
		}

		// Store profile
		v1.GET("/store", staff, storeH.Get)
		v1.PUT("/store", middleware.RequireRole(model.RoleOwner), storeH.Upsert)

		// Dashboard
		v1.GET("/dashboard", staff, dashboardH.Overview)

		// Messaging bridge
		v1.GET("/chat/status", staff, chatH.Status)
		v1.POST("/chat/disconnect", middleware.RequireRole(model.RoleOwner), chatH.Disconnect)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
