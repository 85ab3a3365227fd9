package handler

import (
	"net/http"
	"time"

	"github.com/cargostow/stowage/internal/domain/cargo"
	"github.com/cargostow/stowage/internal/service"
	"github.com/cargostow/stowage/pkg/jsonx"
	"github.com/gin-gonic/gin"
)

// Containers exposes container-facing read queries, registration, and
// undocking.
type Containers struct {
	engine *service.Engine
}

func NewContainers(engine *service.Engine) *Containers {
	return &Containers{engine: engine}
}

type registerContainerReq struct {
	ContainerID string `json:"containerId"`
	Zone        string `json:"zone"`
	W           int    `json:"width"`
	D           int    `json:"depth"`
	H           int    `json:"height"`
}

// Register handles POST /containers. Containers are provisioned once
// and never destroyed by the core.
func (h *Containers) Register(c *gin.Context) {
	var req registerContainerReq
	if err := jsonx.ParseStrictJSONBody(c.Request, &req); err != nil {
		writeError(c, cargo.ErrValidation)
		return
	}
	if err := h.engine.RegisterContainer(c.Request.Context(), req.ContainerID, req.Zone, req.W, req.D, req.H); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"containerId": req.ContainerID})
}

// Stats handles GET /containers/stats.
func (h *Containers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"containers": h.engine.ContainerStats(c.Request.Context())})
}

// Undock handles POST /containers/:id/undock.
func (h *Containers) Undock(c *gin.Context) {
	id := c.Param("id")
	count, err := h.engine.Undock(c.Request.Context(), id, time.Now().UTC())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"disposed": count})
}
