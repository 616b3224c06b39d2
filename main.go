package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ametogo/ai"
	"ametogo/database"
	"ametogo/handlers"
	"ametogo/matching"
	"ametogo/middleware"
	"ametogo/push"
	"ametogo/routes"
	"ametogo/websocket"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func main() {
	log.Println("Starting AmeTogo backend server...")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	mongoURI := os.Getenv("MONGODB_URI")
	if jwtSecret == "" || mongoURI == "" {
		log.Fatal("JWT_SECRET and MONGODB_URI must be set")
	}

	log.Println("Connecting to MongoDB...")
	var store *database.Store
	var dbErr error
	for i := 1; i <= 3; i++ {
		store, dbErr = database.Connect(mongoURI)
		if dbErr != nil {
			log.Printf("MongoDB connection attempt %d failed: %v", i, dbErr)
			time.Sleep(2 * time.Second)
			continue
		}
		break
	}
	if dbErr != nil {
		log.Fatal("Failed to connect to MongoDB:", dbErr)
	}
	defer store.Disconnect()

	idxCtx, idxCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := store.EnsureIndexes(idxCtx); err != nil {
		idxCancel()
		log.Fatal("Failed to create indexes:", err)
	}
	idxCancel()

	aiSvc, err := ai.New()
	if err != nil {
		log.Printf("AI features disabled: %v", err)
		aiSvc = nil
	}

	notifier := push.New(store.Subscriptions)

	wsManager := websocket.NewManager()
	go wsManager.Start()

	matchSvc := matching.NewService(store, func() int64 { return time.Now().Unix() })
	h := handlers.New(store, matchSvc, aiSvc, notifier, wsManager, jwtSecret)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := routes.SetupRouter(h)

	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.Handler(wsManager, func(token string) (primitive.ObjectID, error) {
			return middleware.ParseUserID(jwtSecret, token)
		})(c.Writer, c.Request)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Forced shutdown:", err)
	}

	log.Println("Server stopped gracefully")
}
