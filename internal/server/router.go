package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/plately/plately-backend/internal/handlers"
	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/middleware"
	"github.com/plately/plately-backend/internal/services"
)

type RouterConfig struct {
	Log                 *logger.Logger
	AuthService         services.AuthService
	HealthcheckHandler  *handlers.HealthcheckHandler
	AuthHandler         *handlers.AuthHandler
	UserHandler         *handlers.UserHandler
	MissionHandler      *handlers.MissionHandler
	TutorialHandler     *handlers.TutorialHandler
	GamificationHandler *handlers.GamificationHandler
	NotificationHandler *handlers.NotificationHandler
	EventsHandler       *handlers.EventsHandler
	AllowOrigins        []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware("plately-backend"))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Refresh-Token"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// Protected
	protected := router.Group("/api")
	protected.Use(middleware.RequireAuth(cfg.AuthService, cfg.Log))
	{
		// Auth
		protected.POST("/refresh", cfg.AuthHandler.Refresh)
		protected.POST("/logout", cfg.AuthHandler.Logout)
		// User
		protected.GET("/user", cfg.UserHandler.GetMe)
		protected.PATCH("/user/rhythm", cfg.UserHandler.UpdateRhythm)
		// Missions
		protected.GET("/missions/today", cfg.MissionHandler.GetToday)
		protected.POST("/missions/:id/complete", cfg.MissionHandler.Complete)
		// Tutorials
		protected.POST("/tutorials/:id/complete", cfg.TutorialHandler.Complete)
		// Gamification
		protected.GET("/gamification/summary", cfg.GamificationHandler.Summary)
		protected.GET("/rhythm/forecast", cfg.GamificationHandler.RhythmForecast)
		// Notifications
		protected.GET("/notifications", cfg.NotificationHandler.List)
		protected.POST("/notifications/:id/read", cfg.NotificationHandler.MarkRead)
		// Realtime
		protected.GET("/events/stream", cfg.EventsHandler.Stream)
	}

	return router
}
