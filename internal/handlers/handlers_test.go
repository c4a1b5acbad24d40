package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ideaboard/backend/internal/middleware"
	"github.com/ideaboard/backend/internal/models"
)

// setupRouter wires the full route table over a per-test in-memory database,
// the same layout the server registers.
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Idea{},
		&models.Vote{},
		&models.Comment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	h := NewHandler(db)
	r := gin.New()

	api := r.Group("/api")
	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)
	api.GET("/ideas", h.Idea.GetIdeas)
	api.GET("/ideas/:id", h.Idea.GetIdea)
	api.GET("/ideas/:id/comments", h.Comment.GetComments)
	api.GET("/categories", h.Category.GetCategories)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/me", h.Auth.GetMe)
	protected.POST("/ideas", h.Idea.CreateIdea)
	protected.PATCH("/ideas/:id", h.Idea.UpdateIdea)
	protected.DELETE("/ideas/:id", h.Idea.DeleteIdea)
	protected.POST("/vote", h.Vote.ToggleVote)
	protected.POST("/ideas/:id/comments", h.Comment.CreateComment)
	protected.DELETE("/comments/:id", h.Comment.DeleteComment)

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/dashboard", h.Admin.Dashboard)
	admin.GET("/ideas", h.Admin.GetIdeas)
	admin.GET("/users", h.Admin.GetUsers)
	admin.POST("/users", h.Admin.CreateUser)
	admin.PUT("/users/:id", h.Admin.UpdateUser)
	admin.DELETE("/users/:id", h.Admin.DeleteUser)
	admin.POST("/categories", h.Admin.CreateCategory)
	admin.PUT("/categories/:id", h.Admin.UpdateCategory)
	admin.DELETE("/categories/:id", h.Admin.DeleteCategory)

	return r, db
}

func seedUser(t *testing.T, db *gorm.DB, name, role string) models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: string(hashed),
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", name, err)
	}
	return user
}

// categorySeq keeps seeded category names unique across repeated seedIdea
// calls within one test (categories.name carries a unique constraint).
var categorySeq atomic.Int64

func seedIdea(t *testing.T, db *gorm.DB, author models.User) models.Idea {
	t.Helper()
	category := models.Category{Name: fmt.Sprintf("category-%s-%d", t.Name(), categorySeq.Add(1))}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	idea := models.Idea{
		Title:       "Dark mode",
		Description: "Please add a dark mode",
		AuthorID:    author.ID,
		CategoryID:  category.ID,
		Status:      models.StatusPending,
	}
	if err := db.Create(&idea).Error; err != nil {
		t.Fatalf("failed to seed idea: %v", err)
	}
	return idea
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := signToken(user)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

// doRequest performs one request against the router. An empty token sends
// no Authorization header.
func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}
