package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/incadev/coreadmin/internal/api/handlers"
	"github.com/incadev/coreadmin/internal/api/middleware"
	"github.com/incadev/coreadmin/internal/config"
	"github.com/incadev/coreadmin/internal/metrics"
	"github.com/incadev/coreadmin/internal/models"
	"github.com/incadev/coreadmin/internal/services"
)

// Deps bundles the shared services wired during route registration so the
// server and scheduler can reuse them.
type Deps struct {
	Settings    *services.SettingsService
	Events      *services.EventService
	Blocks      *services.BlockService
	Enforcement *services.EnforcementService
	Inventory   *services.InventoryService
	Content     *services.ContentService
	Planning    *services.PlanningService
	Auth        *services.AuthService
}

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) (*Deps, error) {
	if err := db.AutoMigrate(
		&models.User{},
		&models.SecuritySetting{},
		&models.SecurityEvent{},
		&models.UserBlock{},
		&models.Content{},
		&models.TechAsset{},
		&models.Software{},
		&models.License{},
		&models.LicenseAssignment{},
		&models.Proposal{},
		&models.StrategicGoal{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	settingsService := services.NewSettingsService(db)
	eventService := services.NewEventService(db)
	blockService := services.NewBlockService(db)
	detector := services.NewAnomalyDetector(settingsService, eventService, blockService)
	enforcement := services.NewEnforcementService(eventService, blockService, detector)
	authService := services.NewAuthService(db, enforcement, cfg)
	contentService := services.NewContentService(db)
	inventoryService := services.NewInventoryService(db)
	planningService := services.NewPlanningService(db)

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	router.GET("/api/v1/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(authService, cfg.IsProduction())
	securityHandler := handlers.NewSecurityHandler(enforcement, blockService, eventService, settingsService)
	contentHandler := handlers.NewContentHandler(contentService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	planningHandler := handlers.NewPlanningHandler(planningService)

	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("/")
	protected.Use(middleware.Auth(authService))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		// Published content is readable by any authenticated user.
		protected.GET("/content", contentHandler.List)
		protected.GET("/content/:id", contentHandler.Get)
	}

	// Administrative surface. Authorization is role-based: the permission
	// subsystem decides who holds the admin role, the gate only enforces it.
	admin := api.Group("/admin")
	admin.Use(middleware.Auth(authService), middleware.RequireAdmin())
	{
		admin.GET("/security/blocks", securityHandler.ListBlocks)
		admin.POST("/security/blocks", securityHandler.ManualBlock)
		admin.GET("/security/blocks/:id", securityHandler.GetBlockStatus)
		admin.DELETE("/security/blocks/:id", securityHandler.ManualUnblock)
		admin.GET("/security/events", securityHandler.ListEvents)
		admin.GET("/security/events/user/:id", securityHandler.ListUserEvents)
		admin.GET("/security/settings", securityHandler.GetSettings)
		admin.POST("/security/settings", securityHandler.UpdateSetting)

		admin.POST("/content", contentHandler.Create)
		admin.PUT("/content/:id/status", contentHandler.UpdateStatus)
		admin.DELETE("/content/:id", contentHandler.Delete)

		admin.GET("/assets", inventoryHandler.ListAssets)
		admin.POST("/assets", inventoryHandler.CreateAsset)
		admin.GET("/assets/:id", inventoryHandler.GetAsset)
		admin.GET("/software", inventoryHandler.ListSoftware)
		admin.POST("/software", inventoryHandler.CreateSoftware)
		admin.POST("/licenses", inventoryHandler.CreateLicense)
		admin.POST("/licenses/assign", inventoryHandler.AssignLicense)
		admin.POST("/licenses/assignments/:id/release", inventoryHandler.ReleaseAssignment)

		admin.GET("/planning/proposals", planningHandler.ListProposals)
		admin.POST("/planning/proposals", planningHandler.CreateProposal)
		admin.GET("/planning/proposals/:id", planningHandler.GetProposal)
		admin.PUT("/planning/proposals/:id/status", planningHandler.ReviewProposal)
		admin.DELETE("/planning/proposals/:id", planningHandler.DeleteProposal)
		admin.GET("/planning/goals", planningHandler.ListGoals)
		admin.POST("/planning/goals", planningHandler.CreateGoal)
		admin.DELETE("/planning/goals/:id", planningHandler.DeleteGoal)
	}

	return &Deps{
		Settings:    settingsService,
		Events:      eventService,
		Blocks:      blockService,
		Enforcement: enforcement,
		Inventory:   inventoryService,
		Content:     contentService,
		Planning:    planningService,
		Auth:        authService,
	}, nil
}
