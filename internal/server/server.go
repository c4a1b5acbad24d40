package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ideaboard/backend/internal/database"
	"github.com/ideaboard/backend/internal/handlers"
	"github.com/ideaboard/backend/internal/middleware"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Initialize database
	db := database.New()

	// Create unified handler
	handler := handlers.NewHandler(db.GetDB())

	// Create server instance
	newServer := &Server{
		db:      db,
		handler: handler,
	}

	// Configure Gin router
	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Idea routes (public reads)
		api.GET("/ideas", s.handler.Idea.GetIdeas)
		api.GET("/ideas/:id", s.handler.Idea.GetIdea)

		// Comment routes (public reads)
		api.GET("/ideas/:id/comments", s.handler.Comment.GetComments)

		// Category routes (public reads)
		api.GET("/categories", s.handler.Category.GetCategories)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Auth protected routes
			protected.GET("/me", s.handler.Auth.GetMe)

			// Idea protected routes
			protected.POST("/ideas", s.handler.Idea.CreateIdea)
			protected.PATCH("/ideas/:id", s.handler.Idea.UpdateIdea)
			protected.DELETE("/ideas/:id", s.handler.Idea.DeleteIdea)

			// Vote toggle
			protected.POST("/vote", s.handler.Vote.ToggleVote)

			// Comment protected routes
			protected.POST("/ideas/:id/comments", s.handler.Comment.CreateComment)
			protected.DELETE("/comments/:id", s.handler.Comment.DeleteComment)

			// Admin routes (administrator role required)
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/dashboard", s.handler.Admin.Dashboard)
				admin.GET("/ideas", s.handler.Admin.GetIdeas)
				admin.GET("/users", s.handler.Admin.GetUsers)
				admin.POST("/users", s.handler.Admin.CreateUser)
				admin.PUT("/users/:id", s.handler.Admin.UpdateUser)
				admin.DELETE("/users/:id", s.handler.Admin.DeleteUser)
				admin.POST("/categories", s.handler.Admin.CreateCategory)
				admin.PUT("/categories/:id", s.handler.Admin.UpdateCategory)
				admin.DELETE("/categories/:id", s.handler.Admin.DeleteCategory)
			}
		}
	}

	return r
}
