package handlers

import (
	"net/http"

	"ametogo/feed"

	"github.com/gin-gonic/gin"
)

// Discover returns the swipe stack for the authenticated user. Filters come
// from the query string; an empty stack is a normal response, the client
// shows "no more profiles".
func (h *Handler) Discover(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var filters feed.Filters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestCtx()
	defer cancel()

	me, err := h.DB.ProfileByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	batch, err := h.DB.DiscoverBatch(ctx, feed.BatchSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	stack := feed.Build(batch, userID, me.Swipes, filters)
	c.JSON(http.StatusOK, gin.H{
		"profiles": stack,
		"count":    len(stack),
	})
}

// Cities feeds the city filter dropdown from the current candidate batch.
func (h *Handler) Cities(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	ctx, cancel := requestCtx()
	defer cancel()

	batch, err := h.DB.DiscoverBatch(ctx, feed.BatchSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cities": feed.Cities(batch)})
}
