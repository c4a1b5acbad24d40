package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ideaboard/backend/internal/apperr"
	"github.com/ideaboard/backend/internal/models"
	"github.com/ideaboard/backend/internal/store"
)

// Handler combines all handler types
type Handler struct {
	Auth     *AuthHandler
	Idea     *IdeaHandler
	Vote     *VoteHandler
	Comment  *CommentHandler
	Category *CategoryHandler
	Admin    *AdminHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB) *Handler {
	stores := store.New(db)

	return &Handler{
		Auth:     NewAuthHandler(db),
		Idea:     NewIdeaHandler(db, stores),
		Vote:     NewVoteHandler(stores),
		Comment:  NewCommentHandler(db, stores),
		Category: NewCategoryHandler(db),
		Admin:    NewAdminHandler(db, stores),
	}
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// currentUser loads the acting user's record for ownership and role checks.
func currentUser(c *gin.Context, db *gorm.DB) (models.User, bool) {
	userID, ok := extractUserID(c)
	if !ok {
		return models.User{}, false
	}
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return models.User{}, false
	}
	return user, true
}

// fail writes the error with the status code from the taxonomy.
func fail(c *gin.Context, err error) {
	c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
}

func unauthenticated(c *gin.Context) {
	fail(c, apperr.ErrAuthenticationRequired)
}
