package handler

import (
	"net/http"
	"time"

	"github.com/cargostow/stowage/internal/domain/cargo"
	"github.com/cargostow/stowage/internal/service"
	"github.com/cargostow/stowage/pkg/jsonx"
	"github.com/gin-gonic/gin"
)

// expiryField distinguishes an absent expiryDate (no expiry) from an
// explicit null (also no expiry) from a provided RFC3339 timestamp,
// using the same tri-state decoding the Store adapter's patch type
// would need for a future PATCH /items/:id.
type expiryField = jsonx.Field[string]

// Items exposes the item-facing core operations: add, place, search,
// retrieve.
type Items struct {
	engine *service.Engine
}

func NewItems(engine *service.Engine) *Items {
	return &Items{engine: engine}
}

type createItemReq struct {
	ItemID        string      `json:"itemId"`
	Name          string      `json:"name"`
	W             int         `json:"width"`
	D             int         `json:"depth"`
	H             int         `json:"height"`
	MassKg        float64     `json:"mass"`
	Priority      int         `json:"priority"`
	ExpiryDate    expiryField `json:"expiryDate"`
	UsageLimit    int         `json:"usageLimit"`
	PreferredZone string      `json:"preferredZone"`
}

// Add handles POST /items.
func (h *Items) Add(c *gin.Context) {
	var req createItemReq
	if err := jsonx.ParseStrictJSONBody(c.Request, &req); err != nil {
		writeError(c, cargo.ErrValidation)
		return
	}

	item := &cargo.Item{
		ItemID:        req.ItemID,
		Name:          req.Name,
		W:             req.W,
		D:             req.D,
		H:             req.H,
		MassKg:        req.MassKg,
		Priority:      req.Priority,
		UsageLimit:    req.UsageLimit,
		RemainingUses: req.UsageLimit,
		PreferredZone: req.PreferredZone,
	}
	if raw, ok := req.ExpiryDate.Value(); ok && raw != "" && raw != "none" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(c, cargo.ErrValidation)
			return
		}
		item.ExpiryDate = &ts
	}

	if err := h.engine.AddItem(c.Request.Context(), item); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

type placeReq struct {
	ItemIDs []string `json:"itemIds"`
}

// Place handles POST /items/place.
func (h *Items) Place(c *gin.Context) {
	var req placeReq
	if err := jsonx.ParseStrictJSONBody(c.Request, &req); err != nil {
		writeError(c, cargo.ErrValidation)
		return
	}
	results, err := h.engine.Place(c.Request.Context(), req.ItemIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Search handles GET /items/search?q=.
func (h *Items) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		writeError(c, cargo.ErrValidation)
		return
	}
	result, err := h.engine.Search(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	if !result.Found {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": true, "item": result.Item, "plan": result.Plan})
}

// Retrieve handles POST /items/:id/retrieve.
func (h *Items) Retrieve(c *gin.Context) {
	id := c.Param("id")
	plan, err := h.engine.Retrieve(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
