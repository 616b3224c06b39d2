// Package handlers holds the HTTP layer. Every handler is a method on
// Handler, which carries its dependencies explicitly; nothing reaches for
// package-level state.
package handlers

import (
	"context"
	"net/http"
	"time"

	"ametogo/ai"
	"ametogo/database"
	"ametogo/matching"
	"ametogo/push"
	"ametogo/websocket"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Handler struct {
	DB        *database.Store
	Matches   *matching.Service
	AI        *ai.Service
	Push      *push.Notifier
	WS        *websocket.Manager
	JWTSecret string
}

func New(db *database.Store, matches *matching.Service, aiSvc *ai.Service, notifier *push.Notifier, ws *websocket.Manager, jwtSecret string) *Handler {
	return &Handler{
		DB:        db,
		Matches:   matches,
		AI:        aiSvc,
		Push:      notifier,
		WS:        ws,
		JWTSecret: jwtSecret,
	}
}

func requestCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// currentUserID reads the authenticated user set by the JWT middleware.
// On failure it writes the 401 itself and reports false.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return userID, true
}

func pathObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return primitive.NilObjectID, false
	}
	return id, true
}
