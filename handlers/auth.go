package handlers

import (
	"net/http"
	"time"

	"ametogo/middleware"
	"ametogo/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestCtx()
	defer cancel()

	var existing models.Profile
	err := h.DB.Users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&existing)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
		return
	}
	if err != mongo.ErrNoDocuments {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	hashed := string(hashedPassword)

	// The profile starts incomplete; the discover feed only surfaces it once
	// the user filled in the rest and the account went active.
	profile := models.Profile{
		ID:            primitive.NewObjectID(),
		Email:         req.Email,
		PasswordHash:  &hashed,
		Name:          req.Name,
		Passions:      []string{},
		ProfileTypes:  []string{},
		AccountStatus: "incomplete",
		CreatedAt:     time.Now().Unix(),
		LastSeen:      time.Now().Unix(),
	}

	if _, err := h.DB.Users.InsertOne(ctx, profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := middleware.IssueToken(h.JWTSecret, profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"token":   token,
		"userId":  profile.ID.Hex(),
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestCtx()
	defer cancel()

	var profile models.Profile
	err := h.DB.Users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if profile.PasswordHash == nil ||
		bcrypt.CompareHashAndPassword([]byte(*profile.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	go func() {
		ctx, cancel := requestCtx()
		defer cancel()
		h.DB.Users.UpdateOne(ctx, bson.M{"_id": profile.ID},
			bson.M{"$set": bson.M{"lastSeen": time.Now().Unix()}})
	}()

	token, err := middleware.IssueToken(h.JWTSecret, profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"userId":  profile.ID.Hex(),
		"message": "Login successful",
	})
}
