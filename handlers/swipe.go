package handlers

import (
	"errors"
	"log"
	"net/http"

	"ametogo/matching"
	"ametogo/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SwipeRequest struct {
	TargetID string `json:"targetId" binding:"required"`
	Decision string `json:"decision" binding:"required"`
}

// Swipe records one decision and reports exactly what happened. The client
// only removes the card from its stack when saved is true; a failed ledger
// write answers 502 with saved:false so the card stays put.
func (h *Handler) Swipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	targetID, err := primitive.ObjectIDFromHex(req.TargetID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target ID"})
		return
	}

	ctx, cancel := requestCtx()
	defer cancel()

	result, err := h.Matches.Swipe(ctx, userID, targetID, models.SwipeDecision(req.Decision))
	if errors.Is(err, matching.ErrSelfSwipe) || errors.Is(err, matching.ErrBadDecision) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "saved": false})
		return
	}
	if err != nil {
		log.Printf("Swipe save failed for user %s: %v", userID.Hex(), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save swipe", "saved": false})
		return
	}

	resp := gin.H{"saved": true, "mutual": result.Mutual}
	if result.Match != nil {
		resp["match"] = result.Match
		resp["relation"] = matching.RelationTo(result.Match, userID)
	}

	if result.Mutual && result.Match != nil {
		h.announceMatch(result.Match, userID, targetID)
	}

	c.JSON(http.StatusOK, resp)
}

// announceMatch fans the good news out to both users over WebSocket and Web
// Push. Best effort: the swipe already succeeded.
func (h *Handler) announceMatch(match *models.Match, userID, targetID primitive.ObjectID) {
	h.WS.NotifyNewMatch(match, userID, targetID)

	ctx, cancel := requestCtx()
	defer cancel()

	if me, err := h.DB.ProfileByID(ctx, userID); err == nil {
		h.Push.NotifyMatch(targetID, me.Name)
	}
	if them, err := h.DB.ProfileByID(ctx, targetID); err == nil {
		h.Push.NotifyMatch(userID, them.Name)
	}
}
