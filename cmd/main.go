package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/plately/plately-backend/internal/db"
	"github.com/plately/plately-backend/internal/handlers"
	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/observability"
	"github.com/plately/plately-backend/internal/realtime"
	"github.com/plately/plately-backend/internal/realtime/bus"
	"github.com/plately/plately-backend/internal/repos"
	"github.com/plately/plately-backend/internal/server"
	"github.com/plately/plately-backend/internal/services"
	"github.com/plately/plately-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 604800, log)
	lockTimeoutMillis := utils.GetEnvAsInt("MISSION_LOCK_TIMEOUT_MS", 3000, log)
	port := utils.GetEnv("PORT", "8080", log)
	allowOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)

	// Tracing
	shutdownTracing, err := observability.Setup(context.Background(), log)
	if err != nil {
		log.Warn("Tracing init failed", "error", err)
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				log.Warn("Tracing shutdown failed", "error", err)
			}
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	restaurantRepo := repos.NewRestaurantRepo(thePG, log)
	missionRepo := repos.NewMissionRepo(thePG, log)
	templateRepo := repos.NewMissionTemplateRepo(thePG, log)
	tutorialCompletionRepo := repos.NewTutorialCompletionRepo(thePG, log)
	streakRepo := repos.NewUserStreakRepo(thePG, log)
	badgeRepo := repos.NewBadgeRepo(thePG, log)
	notificationRepo := repos.NewNotificationRepo(thePG, log)
	dailyStatRepo := repos.NewDailyStatRepo(thePG, log)

	// Realtime bus
	log.Info("Setting up realtime bus now...")
	eventBus, err := bus.NewRedisBus(log)
	if err != nil {
		log.Warn("Redis bus unavailable, realtime events disabled", "error", err)
		eventBus = bus.NewNoopBus()
	}
	hub := realtime.NewHub(log)
	if err := eventBus.StartForwarder(context.Background(), hub.Dispatch); err != nil {
		log.Warn("Realtime forwarder failed to start", "error", err)
	}

	// Services
	log.Info("Setting up Services from main...")
	notifier := services.NewMissionNotifier(eventBus)
	gamificationService := services.NewGamificationService(
		thePG, log,
		userRepo, missionRepo, streakRepo, badgeRepo, notificationRepo, dailyStatRepo,
		notifier,
	)
	missionService := services.NewMissionService(
		thePG, log,
		missionRepo, templateRepo, restaurantRepo, tutorialCompletionRepo,
		gamificationService, notifier,
		lockTimeoutMillis,
	)
	tutorialService := services.NewTutorialService(thePG, log, tutorialCompletionRepo, missionService)
	authService := services.NewAuthService(
		thePG, log,
		userRepo, userTokenRepo, restaurantRepo,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	userService := services.NewUserService(thePG, log, userRepo, restaurantRepo)

	// Handlers
	log.Info("Setting up Handlers from main...")
	healthcheckHandler := handlers.NewHealthcheckHandler(postgresService, log)
	authHandler := handlers.NewAuthHandler(authService, log)
	userHandler := handlers.NewUserHandler(userService, log)
	missionHandler := handlers.NewMissionHandler(missionService, log)
	tutorialHandler := handlers.NewTutorialHandler(tutorialService, log)
	gamificationHandler := handlers.NewGamificationHandler(gamificationService, userService, log)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, log)
	eventsHandler := handlers.NewEventsHandler(hub, log)

	// Router
	var origins []string
	if allowOrigins != "" {
		origins = strings.Split(allowOrigins, ",")
	}
	router := server.NewRouter(server.RouterConfig{
		Log:                 log,
		AuthService:         authService,
		HealthcheckHandler:  healthcheckHandler,
		AuthHandler:         authHandler,
		UserHandler:         userHandler,
		MissionHandler:      missionHandler,
		TutorialHandler:     tutorialHandler,
		GamificationHandler: gamificationHandler,
		NotificationHandler: notificationHandler,
		EventsHandler:       eventsHandler,
		AllowOrigins:        origins,
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
