// Package httpapi exposes the task, category and recurrence operations over
// a JSON REST surface consumed by the browser UI.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"taskflow/internal/service"
	"taskflow/internal/store"
)

// Server wires the REST routes to the services.
type Server struct {
	tasks      *service.TaskService
	categories *service.CategoryService
	recurring  *service.RecurringService
	log        *log.Logger
	engine     *gin.Engine
}

func NewServer(tasks *service.TaskService, categories *service.CategoryService, recurring *service.RecurringService, logger *log.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), cors.Default(), requestLogger(logger))

	s := &Server{
		tasks:      tasks,
		categories: categories,
		recurring:  recurring,
		log:        logger,
		engine:     engine,
	}
	s.routes()
	return s
}

// Handler returns the root http.Handler for the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")

	api.GET("/tasks", s.listTasks)
	api.POST("/tasks", s.createTask)
	api.GET("/tasks/recurring", s.listRecurringTasks)
	api.POST("/tasks/bulk-update", s.bulkUpdateTasks)
	api.POST("/tasks/bulk-delete", s.bulkDeleteTasks)
	api.GET("/tasks/:id", s.getTask)
	api.PATCH("/tasks/:id", s.updateTask)
	api.DELETE("/tasks/:id", s.deleteTask)
	api.GET("/tasks/:id/instances", s.listTaskInstances)

	api.POST("/recurring/preview", s.previewRecurring)
	api.POST("/recurring", s.createRecurring)

	api.GET("/categories", s.listCategories)
	api.POST("/categories", s.createCategory)
	api.GET("/categories/:id", s.getCategory)
	api.PATCH("/categories/:id", s.updateCategory)
	api.DELETE("/categories/:id", s.deleteCategory)
}

func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// renderError maps service and store failures to HTTP status codes.
func (s *Server) renderError(c *gin.Context, err error) {
	switch {
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		s.log.Error("request failed", "path", c.Request.URL.Path, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
