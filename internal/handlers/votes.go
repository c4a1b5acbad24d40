package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ideaboard/backend/internal/store"
)

type VoteHandler struct {
	stores *store.Stores
}

func NewVoteHandler(stores *store.Stores) *VoteHandler {
	return &VoteHandler{stores: stores}
}

// ToggleVote casts or retracts the caller's vote on an idea
// (PROTECTED - requires authentication). The client updates the displayed
// count by exactly one in the reported direction.
func (h *VoteHandler) ToggleVote(c *gin.Context) {
	var input struct {
		IdeaID int `json:"ideaId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ideaId is required"})
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		unauthenticated(c)
		return
	}

	voted, voteID, err := h.stores.Votes.Toggle(c.Request.Context(), input.IdeaID, userID)
	if err != nil {
		fail(c, err)
		return
	}

	if !voted {
		c.JSON(http.StatusOK, gin.H{"voted": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"voted": true, "voteId": voteID})
}
