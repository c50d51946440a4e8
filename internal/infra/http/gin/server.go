package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"ratedesk/internal/infra/config"
	"ratedesk/internal/infra/obs"
)

type RuleHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Duplicate(c *gin.Context)
	ApplyToAll(c *gin.Context)
}

type CalendarHTTP interface {
	Calendar(c *gin.Context)
	ChannelPrice(c *gin.Context)
	MinStay(c *gin.Context)
}

type NoteHTTP interface {
	ForCell(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type Handlers struct {
	Rules    RuleHTTP
	Calendar CalendarHTTP
	Notes    NoteHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Rules != nil {
		api.GET("/rules", h.Rules.List)
		api.POST("/rules", h.Rules.Create)
		api.PUT("/rules/:id", h.Rules.Update)
		api.DELETE("/rules/:id", h.Rules.Delete)
		api.POST("/rules/:id/duplicate", h.Rules.Duplicate)
		api.POST("/rules/:id/apply-all", h.Rules.ApplyToAll)
	}
	if h.Calendar != nil {
		api.GET("/properties/:id/calendar", h.Calendar.Calendar)
		api.GET("/properties/:id/pricing", h.Calendar.ChannelPrice)
		api.GET("/properties/:id/min-stay", h.Calendar.MinStay)
	}
	if h.Notes != nil {
		api.GET("/properties/:id/notes", h.Notes.ForCell)
		api.POST("/notes", h.Notes.Create)
		api.PUT("/notes/:id", h.Notes.Update)
		api.DELETE("/notes/:id", h.Notes.Delete)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
