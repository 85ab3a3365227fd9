package handler

import (
	"net/http"
	"time"

	"github.com/cargostow/stowage/internal/domain/cargo"
	"github.com/cargostow/stowage/internal/repo"
	"github.com/cargostow/stowage/internal/service"
	"github.com/gin-gonic/gin"
)

// Logs exposes the action log with optional action-type and time-range
// filters.
type Logs struct {
	engine *service.Engine
}

func NewLogs(engine *service.Engine) *Logs {
	return &Logs{engine: engine}
}

// List handles GET /logs?action=&since=&until=.
func (h *Logs) List(c *gin.Context) {
	filter := repo.LogFilter{ActionType: c.Query("action")}

	if since := c.Query("since"); since != "" {
		ts, err := time.Parse(time.RFC3339, since)
		if err != nil {
			writeError(c, cargo.ErrValidation)
			return
		}
		filter.Since = &ts
	}
	if until := c.Query("until"); until != "" {
		ts, err := time.Parse(time.RFC3339, until)
		if err != nil {
			writeError(c, cargo.ErrValidation)
			return
		}
		filter.Until = &ts
	}

	entries, err := h.engine.Logs(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": entries})
}
