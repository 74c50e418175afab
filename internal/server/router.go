package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/studyloop/studyloop-backend/internal/handlers"
	"github.com/studyloop/studyloop-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	ChatHandler    *handlers.ChatHandler
	CardHandler    *handlers.CardHandler
	TodoHandler    *handlers.TodoHandler
	SSEHandler     *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// SSE
	protected.GET("/sse/stream", cfg.SSEHandler.SSEStream)
	// Sessions + messages
	protected.POST("/sessions", cfg.ChatHandler.CreateSession)
	protected.GET("/sessions", cfg.ChatHandler.ListSessions)
	protected.GET("/sessions/:id", cfg.ChatHandler.GetSession)
	protected.DELETE("/sessions/:id", cfg.ChatHandler.DeleteSession)
	protected.GET("/sessions/:id/messages", cfg.ChatHandler.ListMessages)
	protected.POST("/sessions/:id/messages", cfg.ChatHandler.SendMessage)
	// Concept cards
	protected.GET("/cards", cfg.CardHandler.ListCards)
	protected.GET("/cards/:id", cfg.CardHandler.GetCard)
	protected.DELETE("/cards/:id", cfg.CardHandler.DeleteCard)
	// Todos
	protected.GET("/todos", cfg.TodoHandler.ListTodos)
	protected.POST("/todos", cfg.TodoHandler.CreateTodo)
	protected.PATCH("/todos/:id", cfg.TodoHandler.UpdateTodo)
	protected.DELETE("/todos/:id", cfg.TodoHandler.DeleteTodo)

	return router
}
