package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sashika20643/Soundpath-sub001/config"
	"github.com/sashika20643/Soundpath-sub001/internal/cache"
	"github.com/sashika20643/Soundpath-sub001/internal/handlers"
	"github.com/sashika20643/Soundpath-sub001/internal/middleware"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	store := cache.New(config.InitRedis(cfg), "sonicpaths", cfg.CacheTTL)
	if store == nil {
		logger.Warn("redis unavailable, response caching disabled")
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(logger))
	r.Use(gin.Recovery())

	setupRoutes(r, db, store)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, store *cache.Cache) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.CacheMiddleware(store))

	public := r.Group("/v1")
	{
		public.GET("/health", handlers.Health)
		public.POST("/login", handlers.Login)
		public.POST("/contact", handlers.CreateContactMessage)

		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/:id", handlers.GetEvent)
		}

		categoryPublic := public.Group("/categories")
		{
			categoryPublic.GET("", handlers.ListCategories)
			categoryPublic.GET("/:id", handlers.GetCategory)
		}
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/verify", handlers.Verify)
		protected.GET("/contact", handlers.ListContactMessages)
		protected.POST("/uploads", handlers.UploadHeroImage)

		eventProtected := protected.Group("/events")
		{
			eventProtected.POST("", handlers.CreateEvent)
			eventProtected.PUT("/:id", handlers.UpdateEvent)
			eventProtected.DELETE("/:id", handlers.DeleteEvent)
			eventProtected.PATCH("/:id/approval", handlers.SetEventApproval)
		}

		categoryProtected := protected.Group("/categories")
		{
			categoryProtected.POST("", handlers.CreateCategory)
			categoryProtected.PUT("/:id", handlers.UpdateCategory)
			categoryProtected.DELETE("/:id", handlers.DeleteCategory)
		}
	}
}
