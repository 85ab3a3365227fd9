package http

import (
	"os"
	"time"

	"github.com/cargostow/stowage/internal/http/handler"
	"github.com/cargostow/stowage/internal/http/middleware"
	"github.com/cargostow/stowage/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// NewRouter assembles the Gin engine: middleware stack, then every
// route the engine exposes.
func NewRouter(log *zap.Logger, engine *service.Engine) *gin.Engine {
	binding.EnableDecoderDisallowUnknownFields = true

	r := gin.New()
	_ = r.SetTrustedProxies(nil)

	r.Use(gin.Recovery())

	if os.Getenv("ENV") == "dev" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization"},
			ExposeHeaders:    []string{"X-Total-Count"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(middleware.RequestID())
	r.Use(middleware.ZapLogger(log))

	r.GET("/api/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	items := handler.NewItems(engine)
	containers := handler.NewContainers(engine)
	wasteH := handler.NewWaste(engine)
	simH := handler.NewSimulate(engine)
	logsH := handler.NewLogs(engine)

	api := r.Group("/api")
	{
		api.POST("/items", items.Add)
		api.POST("/items/place", items.Place)
		api.GET("/items/search", items.Search)
		api.POST("/items/:id/retrieve", items.Retrieve)

		api.POST("/containers", containers.Register)
		api.GET("/containers/stats", containers.Stats)
		api.POST("/containers/:id/undock", containers.Undock)

		api.GET("/waste", wasteH.List)
		api.POST("/waste/return-plan", wasteH.ReturnPlan)

		api.POST("/simulate/day", simH.Advance)

		api.GET("/logs", logsH.List)
	}

	return r
}
