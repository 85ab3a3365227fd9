package handler

import (
	"net/http"
	"time"

	"github.com/cargostow/stowage/internal/domain/cargo"
	"github.com/cargostow/stowage/internal/service"
	"github.com/cargostow/stowage/internal/service/simulate"
	"github.com/cargostow/stowage/pkg/jsonx"
	"github.com/gin-gonic/gin"
)

// Simulate exposes time advancement.
type Simulate struct {
	engine *service.Engine
}

func NewSimulate(engine *service.Engine) *Simulate {
	return &Simulate{engine: engine}
}

type usageReq struct {
	ItemID string `json:"itemId"`
	Name   string `json:"name"`
}

type advanceReq struct {
	NumDays             *int       `json:"numDays"`
	ToTimestamp         *string    `json:"toTimestamp"`
	ItemsToBeUsedPerDay []usageReq `json:"itemsToBeUsedPerDay"`
}

// Advance handles POST /simulate/day.
func (h *Simulate) Advance(c *gin.Context) {
	var req advanceReq
	if err := jsonx.ParseStrictJSONBody(c.Request, &req); err != nil {
		writeError(c, cargo.ErrValidation)
		return
	}

	var toTimestamp *time.Time
	if req.ToTimestamp != nil && *req.ToTimestamp != "" {
		ts, err := time.Parse(time.RFC3339, *req.ToTimestamp)
		if err != nil {
			writeError(c, cargo.ErrValidation)
			return
		}
		toTimestamp = &ts
	}

	usage := make([]simulate.UsageRequest, 0, len(req.ItemsToBeUsedPerDay))
	for _, u := range req.ItemsToBeUsedPerDay {
		usage = append(usage, simulate.UsageRequest{ItemID: u.ItemID, Name: u.Name})
	}

	result, err := h.engine.Simulate(c.Request.Context(), req.NumDays, toTimestamp, usage)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
