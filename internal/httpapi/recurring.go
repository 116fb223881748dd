package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskflow/internal/recurrence"
)

type previewRequest struct {
	AnchorDate *time.Time         `json:"anchorDate"`
	Pattern    recurrence.Pattern `json:"pattern"`
}

// previewRecurring never fails on an unusable pattern or missing anchor; it
// returns an empty preview the UI renders as "no preview available".
func (s *Server) previewRecurring(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var anchor time.Time
	if req.AnchorDate != nil {
		anchor = *req.AnchorDate
	}
	c.JSON(http.StatusOK, s.recurring.Preview(req.Pattern, anchor))
}

type createRecurringRequest struct {
	Task    taskRequest        `json:"task" binding:"required"`
	Pattern recurrence.Pattern `json:"pattern" binding:"required"`
}

func (s *Server) createRecurring(c *gin.Context) {
	var req createRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	master, instances, err := s.recurring.CreateRecurring(c.Request.Context(), req.Task.toInput(), req.Pattern)
	if err != nil {
		// Writes may have partially succeeded; the error response still
		// reflects the failure so the UI can reload actual state.
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"master":    master,
		"instances": instances,
	})
}
