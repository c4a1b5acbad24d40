package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ideaboard/backend/internal/apperr"
	"github.com/ideaboard/backend/internal/models"
	"github.com/ideaboard/backend/internal/store"
)

// AdminHandler serves the moderation dashboard plus user and category
// management. All routes are mounted behind the admin gate.
type AdminHandler struct {
	db     *gorm.DB
	stores *store.Stores
}

func NewAdminHandler(db *gorm.DB, stores *store.Stores) *AdminHandler {
	return &AdminHandler{db: db, stores: stores}
}

// Dashboard returns the aggregate numbers behind the admin overview:
// totals, per-status idea counts, top categories and last-week trends.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	var totalIdeas, totalUsers, totalComments int64
	h.db.Model(&models.Idea{}).Count(&totalIdeas)
	h.db.Model(&models.User{}).Count(&totalUsers)
	h.db.Model(&models.Comment{}).Count(&totalComments)

	statusCounts := gin.H{}
	for _, status := range []string{models.StatusPending, models.StatusApproved, models.StatusRejected} {
		var count int64
		h.db.Model(&models.Idea{}).Where("status = ?", status).Count(&count)
		statusCounts[status] = count
	}

	var topCategories []struct {
		Name  string `json:"name"`
		Count int64  `json:"count"`
	}
	h.db.Model(&models.Idea{}).
		Select("categories.name, count(*) as count").
		Joins("JOIN categories ON categories.id = ideas.category_id").
		Group("categories.name").
		Order("count desc").
		Limit(5).
		Scan(&topCategories)

	weekAgo := time.Now().AddDate(0, 0, -7)
	var newIdeas, newUsers, newComments int64
	h.db.Model(&models.Idea{}).Where("created_at > ?", weekAgo).Count(&newIdeas)
	h.db.Model(&models.User{}).Where("created_at > ?", weekAgo).Count(&newUsers)
	h.db.Model(&models.Comment{}).Where("created_at > ?", weekAgo).Count(&newComments)

	c.JSON(http.StatusOK, gin.H{
		"total_ideas":        totalIdeas,
		"total_users":        totalUsers,
		"total_comments":     totalComments,
		"idea_status_counts": statusCounts,
		"top_categories":     topCategories,
		"recent_trends": gin.H{
			"new_ideas_last_week":    newIdeas,
			"new_users_last_week":    newUsers,
			"new_comments_last_week": newComments,
		},
	})
}

// GetIdeas returns all ideas with their full comment payloads, the shape
// the moderation board consumes.
func (h *AdminHandler) GetIdeas(c *gin.Context) {
	ideas, err := h.stores.Ideas.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ideas"})
		return
	}

	responses := make([]gin.H, 0, len(ideas))
	for _, idea := range ideas {
		comments, err := h.stores.Comments.ListForIdea(c.Request.Context(), idea.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ideas"})
			return
		}
		resp := ideaResponse(idea, int64(len(comments)))
		commentViews := make([]gin.H, 0, len(comments))
		for _, comment := range comments {
			commentViews = append(commentViews, gin.H{
				"id":         comment.ID,
				"content":    comment.Content,
				"user":       gin.H{"name": comment.User.Name},
				"created_at": comment.CreatedAt,
			})
		}
		resp["comment_list"] = commentViews
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, responses)
}

// GetUsers lists all users without password hashes
func (h *AdminHandler) GetUsers(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("id").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	responses := make([]gin.H, 0, len(users))
	for _, user := range users {
		responses = append(responses, gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		})
	}

	c.JSON(http.StatusOK, responses)
}

// CreateUser creates a user with an explicit role
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be USER or ADMIN"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashedPassword),
		Role:     role,
	}
	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

// UpdateUser updates name, email or role
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var input struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Role != "" {
		if input.Role != models.RoleUser && input.Role != models.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be USER or ADMIN"})
			return
		}
		user.Role = input.Role
	}

	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

// DeleteUser removes a user record
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	res := h.db.Delete(&models.User{}, userID)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// CreateCategory adds a category. Names are unique; a duplicate is a
// conflict, not a server failure.
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Category
	if err := h.db.WithContext(c.Request.Context()).
		Where("name = ?", input.Name).First(&existing).Error; err == nil {
		fail(c, fmt.Errorf("%w: category %q already exists", apperr.ErrConflict, input.Name))
		return
	}

	category := models.Category{Name: input.Name}
	if err := h.db.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory renames a category
func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category models.Category
	if err := h.db.First(&category, categoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	category.Name = input.Name
	if err := h.db.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category
func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	res := h.db.Delete(&models.Category{}, categoryID)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
