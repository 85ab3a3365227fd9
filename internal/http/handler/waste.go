package handler

import (
	"net/http"
	"time"

	"github.com/cargostow/stowage/internal/domain/cargo"
	"github.com/cargostow/stowage/internal/service"
	"github.com/cargostow/stowage/pkg/jsonx"
	"github.com/gin-gonic/gin"
)

// Waste exposes waste identification and return-plan building.
type Waste struct {
	engine *service.Engine
}

func NewWaste(engine *service.Engine) *Waste {
	return &Waste{engine: engine}
}

// List handles GET /waste.
func (h *Waste) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.engine.IdentifyWaste(c.Request.Context())})
}

type returnPlanReq struct {
	UndockingContainerID string  `json:"undockingContainerId"`
	UndockingDate        string  `json:"undockingDate"`
	MaxWeight            float64 `json:"maxWeight"`
}

// ReturnPlan handles POST /waste/return-plan.
func (h *Waste) ReturnPlan(c *gin.Context) {
	var req returnPlanReq
	if err := jsonx.ParseStrictJSONBody(c.Request, &req); err != nil {
		writeError(c, cargo.ErrValidation)
		return
	}
	date, err := time.Parse(time.RFC3339, req.UndockingDate)
	if err != nil {
		writeError(c, cargo.ErrValidation)
		return
	}
	plan, err := h.engine.BuildReturnPlan(c.Request.Context(), req.UndockingContainerID, date, req.MaxWeight)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
