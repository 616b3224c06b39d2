package handlers

import (
	"net/http"

	"ametogo/ai"

	"github.com/gin-gonic/gin"
)

// Icebreakers generates three conversation starters for a confirmed match.
// The suggestions are not persisted; a retry generates fresh ones.
func (h *Handler) Icebreakers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	match, ok := h.chatMatch(c, userID)
	if !ok {
		return
	}

	if h.AI == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Suggestions unavailable"})
		return
	}

	ctx, cancel := requestCtx()
	defer cancel()

	otherID, _ := match.OtherUser(userID)
	me, err := h.DB.ProfileByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	them, err := h.DB.ProfileByID(ctx, otherID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	icebreakers, err := h.AI.Icebreakers(ctx,
		ai.ProfileSummary{Name: me.Name, Passions: me.Passions, Bio: me.Bio},
		ai.ProfileSummary{Name: them.Name, Passions: them.Passions, Bio: them.Bio},
	)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate icebreakers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"icebreakers": icebreakers})
}
