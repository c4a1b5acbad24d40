package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ideaboard/backend/internal/store"
)

type CommentHandler struct {
	db     *gorm.DB
	stores *store.Stores
}

func NewCommentHandler(db *gorm.DB, stores *store.Stores) *CommentHandler {
	return &CommentHandler{db: db, stores: stores}
}

// GetComments returns all comments for an idea, newest first
func (h *CommentHandler) GetComments(c *gin.Context) {
	ideaID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
		return
	}

	comments, err := h.stores.Comments.ListForIdea(c.Request.Context(), ideaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	responses := make([]gin.H, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, gin.H{
			"id":         comment.ID,
			"content":    comment.Content,
			"idea_id":    comment.IdeaID,
			"user_id":    comment.UserID,
			"user":       gin.H{"name": comment.User.Name},
			"created_at": comment.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, responses)
}

// CreateComment creates a new comment on an idea
// (PROTECTED - requires authentication)
func (h *CommentHandler) CreateComment(c *gin.Context) {
	ideaID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
		return
	}

	var input struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		unauthenticated(c)
		return
	}

	comment, err := h.stores.Comments.Add(c.Request.Context(), ideaID, userID, input.Content)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         comment.ID,
		"content":    comment.Content,
		"idea_id":    comment.IdeaID,
		"user_id":    comment.UserID,
		"user":       gin.H{"name": comment.User.Name},
		"created_at": comment.CreatedAt,
	})
}

// DeleteComment deletes a single comment without touching the idea's votes
// (PROTECTED - author or admin)
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	actor, ok := currentUser(c, h.db)
	if !ok {
		unauthenticated(c)
		return
	}

	if err := h.stores.Comments.Delete(c.Request.Context(), commentID, actor); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
