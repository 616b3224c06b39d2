package handlers

import (
	"net/http"
	"os"
	"strings"
	"time"

	"ametogo/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

type AddPhotoRequest struct {
	PhotoDataURI string `json:"photoDataUri" binding:"required"`
}

// AddPhoto moderates the submitted photo first, then uploads it and appends
// it to the gallery. An unsafe or unverifiable photo never reaches storage.
func (h *Handler) AddPhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req AddPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !strings.HasPrefix(req.PhotoDataURI, "data:image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected an image data URI"})
		return
	}

	ctx, cancel := requestCtx()
	defer cancel()

	profile, err := h.DB.ProfileByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if len(profile.ProfilePictureUrls) >= models.MaxProfilePhotos {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo limit reached"})
		return
	}

	if h.AI == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Photo moderation unavailable"})
		return
	}
	verdict := h.AI.ModeratePhoto(ctx, req.PhotoDataURI)
	if !verdict.IsSafe {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Photo rejected by moderation",
			"reason": verdict.Reason,
		})
		return
	}

	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cloudinary configuration error"})
		return
	}

	uploadResult, err := cld.Upload.Upload(ctx, req.PhotoDataURI, uploader.UploadParams{
		Folder:         "ametogo/photos",
		PublicID:       userID.Hex() + "_" + time.Now().Format("20060102150405"),
		Transformation: "c_limit,w_800,h_800,q_auto",
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		return
	}

	_, err = h.DB.Users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"profilePictureUrls": uploadResult.SecureURL}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save photo"})
		return
	}

	// This upload may have been the photo that completed the profile.
	profile.ProfilePictureUrls = append(profile.ProfilePictureUrls, uploadResult.SecureURL)
	if profile.AccountStatus == "incomplete" && profile.Complete() {
		h.DB.Users.UpdateOne(ctx, bson.M{"_id": userID},
			bson.M{"$set": bson.M{"accountStatus": "active"}})
	}

	c.JSON(http.StatusCreated, gin.H{"url": uploadResult.SecureURL})
}

type RemovePhotoRequest struct {
	URL string `json:"url" binding:"required"`
}

func (h *Handler) RemovePhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req RemovePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestCtx()
	defer cancel()

	res, err := h.DB.Users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"profilePictureUrls": req.URL}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove photo"})
		return
	}
	if res.ModifiedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Photo not found on profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": req.URL})
}
