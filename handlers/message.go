package handlers

import (
	"log"
	"net/http"
	"time"

	"ametogo/conversations"
	"ametogo/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func (h *Handler) GetConversations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestCtx()
	defer cancel()

	convos, err := conversations.Assemble(ctx, h.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": convos})
}

// chatMatch loads the match and enforces the chat preconditions: the caller
// is a participant and the pair is actually matched. Pending and rejected
// pairs have no chat.
func (h *Handler) chatMatch(c *gin.Context, userID primitive.ObjectID) (*models.Match, bool) {
	matchID, ok := pathObjectID(c, "id")
	if !ok {
		return nil, false
	}

	ctx, cancel := requestCtx()
	defer cancel()

	match, err := h.DB.MatchByID(ctx, matchID)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}
	if !match.Involves(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant of this match"})
		return nil, false
	}
	if match.Status != models.MatchMatched {
		c.JSON(http.StatusConflict, gin.H{"error": "Match is not confirmed"})
		return nil, false
	}
	return match, true
}

func (h *Handler) GetMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	match, ok := h.chatMatch(c, userID)
	if !ok {
		return
	}

	ctx, cancel := requestCtx()
	defer cancel()

	messages, err := h.DB.MessagesFor(ctx, match.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

func (h *Handler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	match, ok := h.chatMatch(c, userID)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipientID, _ := match.OtherUser(userID)
	message := &models.Message{
		MatchID:     match.ID,
		SenderID:    userID,
		RecipientID: recipientID,
		Text:        req.Text,
	}

	ctx, cancel := requestCtx()
	defer cancel()

	if err := h.DB.InsertMessage(ctx, message); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	// The sender has obviously seen everything up to their own message.
	// Best effort: at worst their own unread count reads high until MarkRead.
	if err := h.DB.SetLastRead(ctx, match.ID, userID, message.Timestamp); err != nil {
		log.Printf("Failed to advance read mark for user %s on match %s: %v",
			userID.Hex(), match.ID.Hex(), err)
	}

	h.WS.NotifyNewMessage(recipientID, message)
	if me, err := h.DB.ProfileByID(ctx, userID); err == nil {
		h.Push.NotifyMessage(recipientID, me.Name, message.Text)
	}

	c.JSON(http.StatusCreated, gin.H{"message": message})
}

// MarkRead moves the caller's read mark to now, zeroing their unread count
// for the match, and tells the counterpart their messages were seen.
func (h *Handler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	match, ok := h.chatMatch(c, userID)
	if !ok {
		return
	}

	ctx, cancel := requestCtx()
	defer cancel()

	now := time.Now().UnixMilli()
	if err := h.DB.SetLastRead(ctx, match.ID, userID, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark as read"})
		return
	}

	if otherID, ok := match.OtherUser(userID); ok {
		h.WS.NotifyMessagesRead(otherID, gin.H{
			"matchId": match.ID.Hex(),
			"readBy":  userID.Hex(),
			"readAt":  now,
		})
	}

	c.JSON(http.StatusOK, gin.H{"readAt": now})
}
