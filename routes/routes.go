package routes

import (
	"time"

	"ametogo/handlers"
	"ametogo/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(h *handlers.Handler) *gin.Engine {
	router := gin.Default()

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8080", "http://127.0.0.1:8080", "http://localhost:3000", "http://localhost:9002"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	limiter := middleware.NewIPRateLimiter(60, time.Minute)
	router.Use(middleware.RateLimit(limiter))

	// Public routes
	router.POST("/api/signup", h.Signup)
	router.POST("/api/login", h.Login)
	router.GET("/api/vapid-public-key", h.VapidPublicKey)

	protected := router.Group("/api")
	protected.Use(middleware.JWTAuth(h.JWTSecret))

	// Profile
	protected.GET("/me", h.GetMyProfile)
	protected.PUT("/me", h.UpdateMyProfile)
	protected.GET("/users/:id", h.GetUser)

	// Discovery
	protected.GET("/discover", h.Discover)
	protected.GET("/cities", h.Cities)
	protected.POST("/swipe", h.Swipe)

	// Matches
	protected.GET("/matches", h.ListMatches)
	protected.POST("/users/:id/propose", h.Propose)
	protected.POST("/matches/:id/accept", h.AcceptMatch)
	protected.POST("/matches/:id/reject", h.RejectMatch)
	protected.GET("/matches/:id/icebreakers", h.Icebreakers)

	// Chat
	protected.GET("/conversations", h.GetConversations)
	protected.GET("/matches/:id/messages", h.GetMessages)
	protected.POST("/matches/:id/messages", h.SendMessage)
	protected.POST("/matches/:id/read", h.MarkRead)

	// Photos
	protected.POST("/photos", h.AddPhoto)
	protected.DELETE("/photos", h.RemovePhoto)

	// Moderation
	protected.POST("/reports", h.Report)

	// Push subscriptions
	protected.POST("/subscribe", h.SubscribePush)

	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
