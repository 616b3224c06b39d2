package handlers

import (
	"net/http"
	"time"

	"ametogo/ai"
	"ametogo/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportRequest struct {
	ProfileID   string `json:"profileId" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Content     string `json:"content" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
}

// Report runs the reported content through AI review and persists the
// verdict. A failed review is stored flagged for a human instead of being
// dropped.
func (h *Handler) Report(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ContentType != models.ReportContentPhoto && req.ContentType != models.ReportContentBio {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contentType must be photo or bio"})
		return
	}

	profileID, err := primitive.ObjectIDFromHex(req.ProfileID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile ID"})
		return
	}

	ctx, cancel := requestCtx()
	defer cancel()

	report := models.Report{
		ID:              primitive.NewObjectID(),
		ProfileID:       profileID,
		ReporterID:      userID,
		ContentType:     req.ContentType,
		ReportedContent: req.Content,
		Reason:          req.Reason,
		CreatedAt:       time.Now().Unix(),
	}

	if h.AI != nil {
		verdict, reviewErr := h.AI.ReviewReport(ctx, ai.ReportInput{
			ProfileID:       req.ProfileID,
			ReporterID:      userID.Hex(),
			ContentType:     req.ContentType,
			ReportedContent: req.Content,
			Reason:          req.Reason,
		})
		report.Inappropriate = verdict.Inappropriate
		report.Reasoning = verdict.Reasoning
		report.NeedsReview = reviewErr != nil
	} else {
		report.Inappropriate = true
		report.Reasoning = "Automated review unavailable."
		report.NeedsReview = true
	}

	if _, err := h.DB.Reports.InsertOne(ctx, report); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save report"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"reportId":      report.ID.Hex(),
		"inappropriate": report.Inappropriate,
		"reasoning":     report.Reasoning,
		"needsReview":   report.NeedsReview,
	})
}
