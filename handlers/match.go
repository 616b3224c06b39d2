package handlers

import (
	"errors"
	"net/http"

	"ametogo/matching"
	"ametogo/models"

	"github.com/gin-gonic/gin"
)

// matchView decorates a match with the counterpart's profile for display.
type matchView struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	Relation  string          `json:"relation"`
	OtherUser *models.Profile `json:"otherUser,omitempty"`
	CreatedAt int64           `json:"createdAt"`
}

// ListMatches returns every non-rejected match of the user, pending ones
// included, so the client can render both the waiting list and the inbox.
func (h *Handler) ListMatches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestCtx()
	defer cancel()

	matches, err := h.DB.MatchesFor(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	views := make([]matchView, 0, len(matches))
	for _, m := range matches {
		if m.Status == models.MatchRejected {
			continue
		}
		view := matchView{
			ID:        m.ID.Hex(),
			Status:    string(m.Status),
			Relation:  matching.RelationTo(&m, userID),
			CreatedAt: m.CreatedAt,
		}
		if otherID, ok := m.OtherUser(userID); ok {
			if other, err := h.DB.ProfileByID(ctx, otherID); err == nil {
				view.OtherUser = other
			}
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{"matches": views})
}

// Propose creates a pending match from a profile page without touching the
// swipe ledger. Idempotent: proposing twice returns the same record.
func (h *Handler) Propose(c *gin.Context) {
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

	match, err := h.Matches.Propose(ctx, userID, targetID)
	if errors.Is(err, matching.ErrSelfSwipe) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create match"})
		return
	}

	if match.Status == models.MatchPending && match.Initiator() == userID {
		if me, err := h.DB.ProfileByID(ctx, userID); err == nil {
			h.Push.NotifyProposal(targetID, me.Name)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"match":    match,
		"relation": matching.RelationTo(match, userID),
	})
}

func (h *Handler) AcceptMatch(c *gin.Context) {
	h.resolveMatch(c, models.MatchMatched)
}

func (h *Handler) RejectMatch(c *gin.Context) {
	h.resolveMatch(c, models.MatchRejected)
}

func (h *Handler) resolveMatch(c *gin.Context, status models.MatchStatus) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	matchID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestCtx()
	defer cancel()

	var match *models.Match
	var err error
	if status == models.MatchMatched {
		match, err = h.Matches.Accept(ctx, matchID, userID)
	} else {
		match, err = h.Matches.Reject(ctx, matchID, userID)
	}

	switch {
	case errors.Is(err, matching.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
		return
	case errors.Is(err, matching.ErrNotRecipient):
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the recipient may act on this match"})
		return
	case errors.Is(err, matching.ErrNotPending):
		c.JSON(http.StatusConflict, gin.H{"error": "Match is not pending"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update match"})
		return
	}

	h.WS.NotifyMatchUpdated(match, match.UserIDs...)
	if status == models.MatchMatched {
		if me, err := h.DB.ProfileByID(ctx, userID); err == nil {
			h.Push.NotifyMatch(match.Initiator(), me.Name)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"match":    match,
		"relation": matching.RelationTo(match, userID),
	})
}
