package main

import (
	"fmt"
	"os"
	"time"

	"github.com/studyloop/studyloop-backend/internal/clients/redis"
	"github.com/studyloop/studyloop-backend/internal/db"
	"github.com/studyloop/studyloop-backend/internal/handlers"
	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/middleware"
	"github.com/studyloop/studyloop-backend/internal/repos"
	"github.com/studyloop/studyloop-backend/internal/server"
	"github.com/studyloop/studyloop-backend/internal/services"
	"github.com/studyloop/studyloop-backend/internal/sse"
	"github.com/studyloop/studyloop-backend/internal/utils"
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
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	sessionRepo := repos.NewChatSessionRepo(thePG, log)
	messageRepo := repos.NewChatMessageRepo(thePG, log)
	cardRepo := repos.NewConceptCardRepo(thePG, log)
	todoRepo := repos.NewTodoItemRepo(thePG, log)

	// SSE
	log.Info("Setting up SSE hub now...")
	sseHub := sse.NewSSEHub(log)

	// Redis
	cache, err := redis.NewCache(log)
	if err != nil {
		log.Error("Could not init redis cache", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	// Services
	log.Info("Setting up Services from main...")
	aiClient, err := services.NewAIClient(log)
	if err != nil {
		log.Error("Could not init AIClient", "error", err)
		os.Exit(1)
	}
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	cardService := services.NewCardService(thePG, log, cardRepo, sseHub)
	todoService := services.NewTodoService(thePG, log, todoRepo, sseHub)
	chatService := services.NewChatService(thePG, log, sessionRepo, messageRepo, aiClient, cache, sseHub, cardService, todoService)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	chatHandler := handlers.NewChatHandler(chatService)
	cardHandler := handlers.NewCardHandler(cardService)
	todoHandler := handlers.NewTodoHandler(todoService)
	sseHandler := handlers.NewSSEHandler(log, sseHub)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,
		ChatHandler:    chatHandler,
		CardHandler:    cardHandler,
		TodoHandler:    todoHandler,
		SSEHandler:     sseHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
