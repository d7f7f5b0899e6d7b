package api

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/faceofmind/server/config"
	"github.com/faceofmind/server/infra/cache"
	"github.com/faceofmind/server/infra/queue"
	"github.com/faceofmind/server/internal/api/rest/handlers"
	"github.com/faceofmind/server/internal/api/rest/middleware"
	"github.com/faceofmind/server/internal/api/ws"
	"github.com/faceofmind/server/internal/clients/llm"
	"github.com/faceofmind/server/internal/domain"
	"github.com/faceofmind/server/internal/helper"
	"github.com/faceofmind/server/internal/repository"
	"github.com/faceofmind/server/internal/services"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION + SEED (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260214

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Session{},
		&domain.EmotionDetection{},
		&domain.FacialData{},
		&domain.VoiceData{},
		&domain.WellnessSuggestion{},
		&domain.Feedback{},
		&domain.CommunityPost{},
		&domain.CommunityComment{},
		&domain.Reminder{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	authHelper := helper.SetupAuth(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTTLMinutes)
	seedAdmin(db, authHelper, cfg)

	// ---------- Infra ----------
	redisClient, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis init error: %v", err)
	}
	kvStore := cache.NewRedisStore(redisClient)

	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)

	textChain := buildTextChain(cfg)

	hub := ws.NewHub()

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	detectionRepo := repository.NewDetectionRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reminderRepo := repository.NewReminderRepository(db)

	// ---------- Services ----------
	livenessSvc := services.NewLivenessService(kvStore)
	analyticsSvc := services.NewAnalyticsService(userRepo, kvStore)
	userSvc := services.NewUserService(userRepo, authHelper, livenessSvc, kafkaProducer, hub, analyticsSvc)
	wellnessSvc := services.NewWellnessService(sessionRepo, detectionRepo, textChain)
	sessionSvc := services.NewSessionService(sessionRepo, detectionRepo, wellnessSvc)
	communitySvc := services.NewCommunityService(postRepo, commentRepo)
	reminderSvc := services.NewReminderService(reminderRepo)

	// ---------- Middleware ----------
	authRequired := middleware.AuthMiddleware(authHelper, livenessSvc, userSvc)
	adminOnly := middleware.AdminOnly()

	// ---------- Handlers ----------
	handlers.NewAuthHandler(userSvc, authHelper).SetupRoutes(app, authRequired)
	handlers.NewSessionHandler(sessionSvc, wellnessSvc, authHelper).SetupRoutes(app, authRequired)
	handlers.NewCommunityHandler(communitySvc, authHelper).SetupRoutes(app, authRequired)
	handlers.NewReminderHandler(reminderSvc, authHelper).SetupRoutes(app, authRequired)
	handlers.NewAdminHandler(userSvc, analyticsSvc, sessionSvc).SetupRoutes(app, authRequired, adminOnly)

	// ---------- Websocket ----------
	setupWebsocket(app, authHelper, livenessSvc, hub, analyticsSvc)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}

// buildTextChain assembles the generative-text fallback chain from whatever
// providers are configured. An empty chain is fine; callers degrade to
// static responses.
func buildTextChain(cfg config.Config) *llm.Chain {
	var gens []llm.Generator

	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("gemini init error: %v", err)
		} else {
			gens = append(gens, gemini)
		}
	}

	if cfg.OpenRouterAPIKey != "" {
		openRouter, err := llm.NewOpenRouterClient(cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL, cfg.OpenRouterModel)
		if err != nil {
			log.Printf("openrouter init error: %v", err)
		} else {
			gens = append(gens, openRouter)
		}
	}

	if len(gens) == 0 {
		log.Println("no text providers configured - static fallbacks only")
	}
	return llm.NewChain(gens...)
}

// setupWebsocket mounts the realtime analytics feed. Browsers cannot set
// headers on websocket requests, so the token also rides a query parameter.
func setupWebsocket(app *fiber.App, auth helper.Auth, liveness services.LivenessService, hub *ws.Hub, analytics services.AnalyticsService) {
	wsHandler := ws.NewHandler(hub, analytics)

	app.Use("/ws", func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}

		tokenStr := strings.TrimSpace(ctx.Query("token"))
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get("Authorization"))
		}

		user, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		if !liveness.IsSessionTokenLive(ctx.UserContext(), user.Role, user.UserID, user.Token) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "session expired or revoked"})
		}

		ctx.Locals("userID", user.UserID)
		return ctx.Next()
	})

	app.Get("/ws/analytics", websocket.New(wsHandler.Serve))
}

// seedAdmin makes sure the configured admin account exists and is active.
func seedAdmin(db *gorm.DB, auth helper.Auth, cfg config.Config) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))

	var existing domain.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("admin seed lookup error: %v", err)
		return
	}

	hashed, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Printf("admin seed hash error: %v", err)
		return
	}

	if err := db.Create(&domain.User{
		Email:        email,
		PasswordHash: hashed,
		FirstName:    "System",
		LastName:     "Admin",
		Role:         domain.RoleAdmin,
		Status:       domain.StatusActive,
	}).Error; err != nil {
		log.Printf("admin seed create error: %v", err)
		return
	}
	log.Printf("admin account seeded: %s", email)
}
