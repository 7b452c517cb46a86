package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/expoflow/exhibition-backend/internal/assignment" // Assignment engine
	"github.com/expoflow/exhibition-backend/internal/config"     // Internal config loader
	"github.com/expoflow/exhibition-backend/internal/database"   // MySQL connector
	"github.com/expoflow/exhibition-backend/internal/handler"    // HTTP handlers
	"github.com/expoflow/exhibition-backend/internal/middleware" // Rate limiting, caching and cooldown middleware
	"github.com/expoflow/exhibition-backend/internal/queue"      // RabbitMQ consumer
	"github.com/expoflow/exhibition-backend/internal/repository" // Data access layer
	"github.com/expoflow/exhibition-backend/internal/router"     // Internal router setup
)

func main() {
	_ = godotenv.Load() // Load .env when present; real env vars win

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName) // Connect to MySQL
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs rate limiting, response caching and the run cooldown.
	// A nil client disables all three and the API still works.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting, caching and run cooldown disabled")
	}

	// Repositories
	userRepo := repository.NewUserRepo(db)
	eventRepo := repository.NewEventRepo(db)
	companyRepo := repository.NewCompanyRepo(db)
	standRepo := repository.NewStandRepo(db)
	requestRepo := repository.NewRequestRepo(db)
	conflictRepo := repository.NewConflictRepo(db)
	historyRepo := repository.NewHistoryRepo(db)

	// Engine wiring: the coordinator sees only the store interface.
	store := repository.NewAssignmentStore(db, eventRepo, standRepo, requestRepo, companyRepo, conflictRepo, historyRepo)
	coordinator := assignment.NewCoordinator(store)

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, userRepo)
	publicHandler := &handler.PublicHandler{EventRepo: eventRepo, StandRepo: standRepo}
	assignmentHandler := handler.NewAssignmentHandler(coordinator, eventRepo, requestRepo, conflictRepo, historyRepo)

	e := echo.New() // Create Echo instance

	// Global token-bucket rate limiting across all routes.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	cooldown := middleware.NewRunCooldown(config.LoadCooldownConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler, cache)
	router.RegisterAssignment(e, assignmentHandler, cfg.JWTSecret, cooldown)

	// Background consumer that mirrors completed runs into logs/assignment.log.
	go func() {
		if err := queue.StartAssignmentConsumer(); err != nil {
			log.Printf("assignment consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
