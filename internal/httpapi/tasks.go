package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskflow/internal/service"
	"taskflow/internal/store"
)

type taskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	CategoryID  *uint      `json:"categoryId"`
	DueDate     *time.Time `json:"dueDate"`
}

func (r taskRequest) toInput() service.TaskInput {
	return service.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		CategoryID:  r.CategoryID,
		DueDate:     r.DueDate,
	}
}

type taskPatchRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Priority      *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	CategoryID    *uint      `json:"categoryId"`
	ClearCategory bool       `json:"clearCategory"`
	DueDate       *time.Time `json:"dueDate"`
	ClearDueDate  bool       `json:"clearDueDate"`
	Completed     *bool      `json:"completed"`
}

func (r taskPatchRequest) toPatch() store.TaskPatch {
	return store.TaskPatch{
		Title:         r.Title,
		Description:   r.Description,
		Priority:      r.Priority,
		CategoryID:    r.CategoryID,
		ClearCategory: r.ClearCategory,
		DueDate:       r.DueDate,
		ClearDueDate:  r.ClearDueDate,
		Completed:     r.Completed,
	}
}

func (s *Server) listTasks(c *gin.Context) {
	filter := service.TaskFilter{
		Query:    c.Query("q"),
		Priority: c.Query("priority"),
		Status:   c.Query("status"),
	}
	if raw := c.Query("category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
			return
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}

	tasks, err := s.tasks.List(c.Request.Context(), filter)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) createTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := s.tasks.Create(c.Request.Context(), req.toInput())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) getTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	task, err := s.tasks.Get(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) updateTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req taskPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := s.tasks.Update(c.Request.Context(), id, req.toPatch())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	deleted, err := s.tasks.Delete(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type bulkUpdateRequest struct {
	IDs   []uint           `json:"ids" binding:"required,min=1"`
	Patch taskPatchRequest `json:"patch"`
}

func (s *Server) bulkUpdateTasks(c *gin.Context) {
	var req bulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tasks, err := s.tasks.BulkUpdate(c.Request.Context(), req.IDs, req.Patch.toPatch())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

type bulkDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

func (s *Server) bulkDeleteTasks(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	deleted, err := s.tasks.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (s *Server) listRecurringTasks(c *gin.Context) {
	tasks, err := s.tasks.ListRecurring(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) listTaskInstances(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	tasks, err := s.tasks.ListInstances(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}
