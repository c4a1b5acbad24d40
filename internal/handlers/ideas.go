package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ideaboard/backend/internal/models"
	"github.com/ideaboard/backend/internal/store"
)

type IdeaHandler struct {
	db     *gorm.DB
	stores *store.Stores
}

func NewIdeaHandler(db *gorm.DB, stores *store.Stores) *IdeaHandler {
	return &IdeaHandler{db: db, stores: stores}
}

// ideaResponse builds the wire shape: embedded author, category, votes
// array and the live comment count.
func ideaResponse(idea models.Idea, commentCount int64) gin.H {
	votes := make([]gin.H, 0, len(idea.Votes))
	for _, vote := range idea.Votes {
		votes = append(votes, gin.H{
			"id":         vote.ID,
			"user_id":    vote.UserID,
			"idea_id":    vote.IdeaID,
			"created_at": vote.CreatedAt,
		})
	}

	return gin.H{
		"id":          idea.ID,
		"title":       idea.Title,
		"description": idea.Description,
		"status":      idea.Status,
		"author": gin.H{
			"id":    idea.Author.ID,
			"name":  idea.Author.Name,
			"email": idea.Author.Email,
		},
		"category": gin.H{
			"id":   idea.Category.ID,
			"name": idea.Category.Name,
		},
		"votes":      votes,
		"comments":   commentCount,
		"created_at": idea.CreatedAt,
		"updated_at": idea.UpdatedAt,
	}
}

// GetIdeas returns all ideas with author, category, votes and comment counts
func (h *IdeaHandler) GetIdeas(c *gin.Context) {
	ideas, err := h.stores.Ideas.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ideas"})
		return
	}

	ideaIDs := make([]int, 0, len(ideas))
	for _, idea := range ideas {
		ideaIDs = append(ideaIDs, idea.ID)
	}
	counts, err := h.stores.Comments.CountsForIdeas(c.Request.Context(), ideaIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ideas"})
		return
	}

	responses := make([]gin.H, 0, len(ideas))
	for _, idea := range ideas {
		responses = append(responses, ideaResponse(idea, counts[idea.ID]))
	}

	c.JSON(http.StatusOK, responses)
}

// GetIdea returns a single idea by ID
func (h *IdeaHandler) GetIdea(c *gin.Context) {
	ideaID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
		return
	}

	idea, err := h.stores.Ideas.Get(c.Request.Context(), ideaID)
	if err != nil {
		fail(c, err)
		return
	}

	count, err := h.stores.Comments.CountForIdea(c.Request.Context(), idea.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch idea"})
		return
	}

	c.JSON(http.StatusOK, ideaResponse(idea, count))
}

// CreateIdea creates a new idea (PROTECTED - requires authentication).
// Every idea starts in the pending column.
func (h *IdeaHandler) CreateIdea(c *gin.Context) {
	var input struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description" binding:"required"`
		CategoryID  int    `json:"categoryId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title, description and category are required"})
		return
	}

	authorID, ok := extractUserID(c)
	if !ok {
		unauthenticated(c)
		return
	}

	var category models.Category
	if err := h.db.WithContext(c.Request.Context()).First(&category, input.CategoryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}

	idea, err := h.stores.Ideas.Create(c.Request.Context(), models.Idea{
		Title:       input.Title,
		Description: input.Description,
		AuthorID:    authorID,
		CategoryID:  category.ID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create idea"})
		return
	}

	c.JSON(http.StatusCreated, ideaResponse(idea, 0))
}

// UpdateIdea moves an idea between Kanban columns (PROTECTED - admin only).
// Title and description edits are applied when present in the payload.
func (h *IdeaHandler) UpdateIdea(c *gin.Context) {
	ideaID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
		return
	}

	actor, ok := currentUser(c, h.db)
	if !ok {
		unauthenticated(c)
		return
	}

	var input models.UpdateIdeaRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	idea, err := h.stores.Ideas.SetStatus(c.Request.Context(), ideaID, input, actor)
	if err != nil {
		fail(c, err)
		return
	}

	count, err := h.stores.Comments.CountForIdea(c.Request.Context(), idea.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update idea"})
		return
	}

	c.JSON(http.StatusOK, ideaResponse(idea, count))
}

// DeleteIdea deletes an idea with all of its votes and comments
// (PROTECTED - author or admin).
func (h *IdeaHandler) DeleteIdea(c *gin.Context) {
	ideaID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
		return
	}

	actor, ok := currentUser(c, h.db)
	if !ok {
		unauthenticated(c)
		return
	}

	deleted, err := h.stores.Ideas.DeleteCascade(c.Request.Context(), ideaID, actor)
	if err != nil {
		fail(c, err)
		return
	}

	if actor.IsAdmin() && deleted.AuthorID != actor.ID {
		// Admin deleted someone else's idea; keep the record in the log and
		// hand it back for the audit trail.
		log.Printf("admin %d deleted idea %d (%q) by user %d", actor.ID, deleted.ID, deleted.Title, deleted.AuthorID)
		c.JSON(http.StatusOK, gin.H{
			"message":     "Idea and associated data deleted",
			"deletedIdea": deleted,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Idea and associated votes deleted successfully"})
}
