package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"tableside/internal/auth"
	"tableside/internal/config"
	"tableside/internal/handlers"
	"tableside/internal/redis"
	"tableside/internal/services"
	"tableside/internal/session"
	"tableside/pkg/menubot"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	// Initialize backend client
	menubotClient := menubot.NewClient(cfg.MenubotAPIURL, time.Duration(cfg.RequestTimeout)*time.Second)

	// Initialize identity provider
	authService, err := auth.New(cfg)
	if err != nil {
		log.Fatal("Failed to initialize auth provider:", err)
	}
	log.Printf("Using auth provider: %s", cfg.AuthProvider)

	// Initialize session registry and services
	sessions := session.NewManager()
	sessionTTL := time.Duration(cfg.SessionTTL) * time.Second

	sessionService := services.NewSessionService(menubotClient, sessions, redisClient, sessionTTL)
	menuService := services.NewMenuService(menubotClient)
	orderService := services.NewOrderService(menubotClient)
	chatService := services.NewChatService(menubotClient, redisClient, sessionTTL)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(sessionService)
	menuHandler := handlers.NewMenuHandler(menuService, sessionService, menubotClient)
	orderHandler := handlers.NewOrderHandler(orderService, sessionService)
	chatHandler := handlers.NewChatHandler(chatService, sessionService)
	authHandler := handlers.NewAuthHandler(authService)

	// Setup routes
	router := gin.Default()

	api := router.Group("/api")
	{
		api.POST("/auth/sign-in", authHandler.SignIn)
		api.POST("/auth/verify-otp", authHandler.VerifyOTP)
		api.POST("/auth/sign-out", authHandler.SignOut)
		api.GET("/auth/user", authHandler.GetUser)

		api.POST("/sessions", sessionHandler.StartSession)
		api.GET("/sessions/:id/status", sessionHandler.GetStatus)
		api.POST("/sessions/:id/pin", sessionHandler.VerifyPin)
		api.DELETE("/sessions/:id", sessionHandler.EndSession)

		api.GET("/sessions/:id/menu", menuHandler.Catalog)
		api.GET("/sessions/:id/menu/search", menuHandler.Search)
		api.GET("/sessions/:id/combos", menuHandler.Combos)

		api.GET("/sessions/:id/cart", orderHandler.GetCart)
		api.POST("/sessions/:id/cart/items", orderHandler.AddCartItem)
		api.PUT("/sessions/:id/cart/items/:item", orderHandler.UpdateCartItem)
		api.DELETE("/sessions/:id/cart/items/:item", orderHandler.RemoveCartItem)
		api.DELETE("/sessions/:id/cart", orderHandler.ClearCart)

		api.GET("/sessions/:id/orders", orderHandler.ListOrders)
		api.POST("/sessions/:id/orders", orderHandler.PlaceOrder)

		api.POST("/sessions/:id/chat", chatHandler.Ask)

		// Authenticated passthrough used by UIs that fetch the menu before
		// opening a session.
		api.GET("/menu/:franchise/:branch/:table", menuHandler.ProxyMenu)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
