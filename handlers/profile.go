package handlers

import (
	"net/http"
	"time"

	"ametogo/matching"
	"ametogo/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (h *Handler) GetMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestCtx()
	defer cancel()

	profile, err := h.DB.ProfileByID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

type UpdateProfileRequest struct {
	Name         *string   `json:"name"`
	Age          *int      `json:"age"`
	City         *string   `json:"city"`
	Gender       *string   `json:"gender"`
	Passions     *[]string `json:"passions"`
	ProfileTypes *[]string `json:"profileTypes"`
	Bio          *string   `json:"bio"`
}

func (h *Handler) UpdateMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set := bson.M{"lastSeen": time.Now().Unix()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Age != nil {
		if *req.Age < 18 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Must be at least 18"})
			return
		}
		set["age"] = *req.Age
	}
	if req.City != nil {
		set["city"] = *req.City
	}
	if req.Gender != nil {
		set["gender"] = *req.Gender
	}
	if req.Passions != nil {
		if len(*req.Passions) < 1 || len(*req.Passions) > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Between 1 and 5 passions required"})
			return
		}
		set["passions"] = *req.Passions
	}
	if req.ProfileTypes != nil {
		for _, pt := range *req.ProfileTypes {
			switch pt {
			case models.ProfileTypeAmoureuse, models.ProfileTypeAmicale, models.ProfileTypeProfessionnelle:
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown profile type: " + pt})
				return
			}
		}
		set["profileTypes"] = *req.ProfileTypes
	}
	if req.Bio != nil {
		if len([]rune(*req.Bio)) > 300 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bio must be 300 characters or less"})
			return
		}
		set["bio"] = *req.Bio
	}

	ctx, cancel := requestCtx()
	defer cancel()

	if _, err := h.DB.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	profile, err := h.DB.ProfileByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// A profile goes live in the feed only once it is complete, three-photo
	// gallery minimum included.
	if profile.AccountStatus == "incomplete" && profile.Complete() {
		h.DB.Users.UpdateOne(ctx, bson.M{"_id": userID},
			bson.M{"$set": bson.M{"accountStatus": "active"}})
		profile.AccountStatus = "active"
	}

	c.JSON(http.StatusOK, profile)
}

// GetUser returns another user's public profile plus the pair's relation
// from the viewer's side, so the client knows which button to draw.
func (h *Handler) GetUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestCtx()
	defer cancel()

	profile, err := h.DB.ProfileByID(ctx, targetID)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	match, err := h.DB.MatchByPair(ctx, userID, targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	resp := gin.H{
		"profile":  profile,
		"relation": matching.RelationTo(match, userID),
	}
	if match != nil {
		resp["matchId"] = match.ID.Hex()
	}
	c.JSON(http.StatusOK, resp)
}
